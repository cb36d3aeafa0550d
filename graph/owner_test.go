package graph

import "testing"

func TestNewOwnerElement_EmptyDomPath(t *testing.T) {
	if o := NewOwnerElement("", "https://a/f", "f1"); o != nil {
		t.Errorf("NewOwnerElement with empty DOM path: got %+v, want nil", o)
	}
}

func TestNewOwnerElement_Fields(t *testing.T) {
	o := NewOwnerElement("html>body>iframe", "https://a/f", "f1")
	if o == nil {
		t.Fatal("NewOwnerElement: got nil")
	}
	if o.DomPath != "html>body>iframe" || o.Src != "https://a/f" || o.ID != "f1" {
		t.Errorf("NewOwnerElement: got %+v", o)
	}
}

func TestOwnerElement_Equal(t *testing.T) {
	a := NewOwnerElement("html>body>iframe", "https://a/f", "f1")
	b := NewOwnerElement("html>body>iframe", "https://a/f", "f1")
	c := NewOwnerElement("html>body>iframe", "https://a/other", "f1")

	if !a.Equal(b) {
		t.Error("Equal: identical values, got false")
	}
	if a.Equal(c) {
		t.Error("Equal: different src, got true")
	}
	var nilOwner *OwnerElement
	if a.Equal(nilOwner) {
		t.Error("Equal: non-nil vs nil, got true")
	}
	if !nilOwner.Equal(nil) {
		t.Error("Equal: nil vs nil, got false")
	}
}
