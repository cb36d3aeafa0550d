package graph

import "testing"

// Full scenario: a child-sourced message creates the target frame+document,
// indexes the source under its window token, and the owner element becomes
// visible on the source frame once the frame link exists.
func TestProcessMessage_ChildScenario(t *testing.T) {
	s := NewStore(nil)

	in := MessageInput{
		TabID:            1,
		TargetDocumentID: "d1",
		TargetFrameID:    5,
		TargetURL:        "https://x",
		TargetOrigin:     "https://x",
		TargetTitle:      "X",
		SourceWindowID:   "w9",
		SourceOrigin:     "https://y",
		SourceType:       SourceChild,
		SourceIframeDomPath: "html>body>iframe",
		SourceIframeSrc:     "https://y/f",
		SourceIframeID:      "f1",
	}
	_, sourceOwner := s.ProcessMessage(in)

	f := s.Frame(1, 5)
	if f == nil {
		t.Fatal("target frame (1,5) not created")
	}
	d := s.DocumentByID("d1")
	if d == nil {
		t.Fatal("target document d1 not created")
	}
	if f.Document != d || d.Frame != f {
		t.Error("target document and frame not mutually linked")
	}
	if d.URL != "https://x" || d.Origin != "https://x" || d.Title != "X" {
		t.Errorf("target metadata: got %+v", d)
	}

	src := s.DocumentByWindowID("w9")
	if src == nil {
		t.Fatal("source document not indexed under window id w9")
	}
	if src.Origin != "https://y" {
		t.Errorf("source origin: got %q, want %q", src.Origin, "https://y")
	}

	want := &OwnerElement{DomPath: "html>body>iframe", Src: "https://y/f", ID: "f1"}
	if !sourceOwner.Equal(want) {
		t.Errorf("source owner: got %+v, want %+v", sourceOwner, want)
	}

	// Once a registration links the source document to its frame, the owner
	// element from the message lands on that frame.
	s.ProcessRegistration(Registration{TabID: 1, FrameID: 7, DocumentID: "d9", WindowID: "w9"})
	s.ProcessMessage(in)
	srcFrame := s.Frame(1, 7)
	if srcFrame == nil || !srcFrame.Owner.Equal(want) {
		t.Errorf("source frame owner after relink: got %+v, want %+v", srcFrame.Owner, want)
	}
}

func TestProcessMessage_TargetMetadataLastWriterWins(t *testing.T) {
	s := NewStore(nil)
	base := MessageInput{
		TabID: 1, TargetDocumentID: "d1", TargetFrameID: 0,
		TargetURL: "https://x/a", TargetOrigin: "https://x", TargetTitle: "A",
		SourceType: SourceUnknown,
	}
	s.ProcessMessage(base)

	base.TargetURL = "https://x/b"
	base.TargetTitle = "B"
	s.ProcessMessage(base)

	d := s.DocumentByID("d1")
	if d.URL != "https://x/b" || d.Title != "B" {
		t.Errorf("target metadata not refreshed: got url=%q title=%q", d.URL, d.Title)
	}
}

func TestProcessMessage_FrameLinkFirstWriterWins(t *testing.T) {
	s := NewStore(nil)
	s.ProcessMessage(MessageInput{
		TabID: 1, TargetDocumentID: "d1", TargetFrameID: 5,
		TargetURL: "https://x", TargetOrigin: "https://x",
		SourceType: SourceUnknown,
	})
	first := s.DocumentByID("d1").Frame

	// A replayed message naming a different frame id must not relink.
	s.ProcessMessage(MessageInput{
		TabID: 1, TargetDocumentID: "d1", TargetFrameID: 6,
		TargetURL: "https://x", TargetOrigin: "https://x",
		SourceType: SourceUnknown,
	})
	if got := s.DocumentByID("d1").Frame; got != first {
		t.Error("document relinked to a different frame on replay")
	}
}

func TestProcessMessage_SourceDocumentIDBindsWindow(t *testing.T) {
	s := NewStore(nil)
	s.ProcessMessage(MessageInput{
		TabID: 1, TargetDocumentID: "d1", TargetFrameID: 0,
		TargetURL: "https://x", TargetOrigin: "https://x",
		SourceDocumentID: "d2", SourceWindowID: "w2", SourceOrigin: "https://y",
		SourceType: SourceUnknown,
	})

	byID := s.DocumentByID("d2")
	byWin := s.DocumentByWindowID("w2")
	if byID == nil || byID != byWin {
		t.Fatalf("source document: byID=%p byWin=%p, want same object", byID, byWin)
	}
	if byID.WindowID != "w2" || byID.Origin != "https://y" {
		t.Errorf("source document: got %+v", byID)
	}
}

func TestProcessMessage_ParentOwnerInherited(t *testing.T) {
	s := NewStore(nil)

	// The parent was once registered as a child, so its frame carries an
	// owner element.
	s.ProcessRegistration(Registration{
		TabID: 1, FrameID: 2, DocumentID: "dparent", WindowID: "wp",
		OwnerDomPath: "html>body>iframe#outer", OwnerSrc: "https://p", OwnerID: "outer",
	})

	_, sourceOwner := s.ProcessMessage(MessageInput{
		TabID: 1, TargetDocumentID: "dchild", TargetFrameID: 9,
		TargetURL: "https://c", TargetOrigin: "https://c",
		SourceDocumentID: "dparent", SourceOrigin: "https://p",
		SourceType: SourceParent,
	})

	want := &OwnerElement{DomPath: "html>body>iframe#outer", Src: "https://p", ID: "outer"}
	if !sourceOwner.Equal(want) {
		t.Errorf("inherited source owner: got %+v, want %+v", sourceOwner, want)
	}
}

func TestProcessMessage_ParentNeverRegistered(t *testing.T) {
	s := NewStore(nil)

	_, sourceOwner := s.ProcessMessage(MessageInput{
		TabID: 1, TargetDocumentID: "dchild", TargetFrameID: 9,
		TargetURL: "https://c", TargetOrigin: "https://c",
		SourceDocumentID: "dparent", SourceOrigin: "https://p",
		SourceType: SourceParent,
	})

	// No inherited owner element is ever available: absence, not an error.
	if sourceOwner != nil {
		t.Errorf("source owner for unregistered parent: got %+v, want nil", sourceOwner)
	}
}

func TestProcessMessage_ChildWithoutDomPath(t *testing.T) {
	s := NewStore(nil)

	_, sourceOwner := s.ProcessMessage(MessageInput{
		TabID: 1, TargetDocumentID: "d1", TargetFrameID: 0,
		TargetURL: "https://x", TargetOrigin: "https://x",
		SourceWindowID: "w1", SourceOrigin: "https://y",
		SourceType: SourceChild,
	})
	if sourceOwner != nil {
		t.Errorf("owner without DOM path: got %+v, want nil", sourceOwner)
	}
}

func TestProcessMessage_TargetOwnerSnapshot(t *testing.T) {
	s := NewStore(nil)
	s.ProcessRegistration(Registration{
		TabID: 1, FrameID: 5, DocumentID: "d1", WindowID: "w1",
		OwnerDomPath: "html>body>iframe", OwnerSrc: "https://x/f", OwnerID: "f",
	})

	targetOwner, _ := s.ProcessMessage(MessageInput{
		TabID: 1, TargetDocumentID: "d1", TargetFrameID: 5,
		TargetURL: "https://x", TargetOrigin: "https://x",
		SourceType: SourceUnknown,
	})
	want := &OwnerElement{DomPath: "html>body>iframe", Src: "https://x/f", ID: "f"}
	if !targetOwner.Equal(want) {
		t.Errorf("target owner: got %+v, want %+v", targetOwner, want)
	}
}
