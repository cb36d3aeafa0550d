package collector

import (
	"encoding/json"
	"fmt"
)

// payload is the wire shape emitted by the injected script over the CDP
// binding. A single shape covers both record kinds; fields unused by a
// kind stay zero.
type payload struct {
	Kind         string `json:"kind"`
	DocumentID   string `json:"document_id"`
	WindowID     string `json:"window_id"`
	URL          string `json:"url"`
	Origin       string `json:"origin"`
	Title        string `json:"title"`
	SourceKind   string `json:"source_kind"`
	SourceOrigin string `json:"source_origin"`
	OwnerDomPath string `json:"owner_dom_path"`
	OwnerSrc     string `json:"owner_src"`
	OwnerID      string `json:"owner_id"`
	DataPreview  string `json:"data_preview"`
	Time         int64  `json:"time"`

	Iframes []iframePayload `json:"iframes"`
}

// iframePayload is one iframe tag reported by a registering document.
type iframePayload struct {
	DomPath  string `json:"dom_path"`
	Src      string `json:"src"`
	IframeID string `json:"iframe_id"`
}

const (
	kindRegister = "register"
	kindMessage  = "message"
)

func decodePayload(raw string) (payload, error) {
	var p payload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return payload{}, fmt.Errorf("collector: decode binding payload: %w", err)
	}
	switch p.Kind {
	case kindRegister, kindMessage:
	default:
		return payload{}, fmt.Errorf("collector: unknown payload kind %q", p.Kind)
	}
	if p.DocumentID == "" {
		return payload{}, fmt.Errorf("collector: payload missing document id")
	}
	return p, nil
}

// truncatePreview caps the stored message body. Limits are byte-based but
// never split a UTF-8 sequence.
func truncatePreview(s string, limit int) string {
	if limit <= 0 || len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && s[cut]&0xC0 == 0x80 {
		cut--
	}
	return s[:cut]
}
