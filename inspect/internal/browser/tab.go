package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

// Tab wraps a Rod page with framewatch-specific setup. The collector
// instruments it before navigation so every document in every frame is
// observed from its first byte.
type Tab struct {
	Page    *rod.Page
	PageURL string
	PageID  string
	TabID   int
}

// OpenTab creates a new tab without navigating. The caller instruments
// the blank page first, then calls Navigate.
func OpenTab(ctx context.Context, mgr *Manager, pageURL, pageID string, tabID int, useStealth bool) (*Tab, error) {
	b := mgr.Browser()
	if b == nil {
		return nil, fmt.Errorf("browser: no active browser")
	}

	var page *rod.Page
	var err error
	if useStealth {
		page, err = stealth.Page(b)
	} else {
		page, err = b.Page(proto.TargetCreateTarget{URL: ""})
	}
	if err != nil {
		return nil, fmt.Errorf("browser: create tab: %w", err)
	}

	return &Tab{
		Page:    page,
		PageURL: pageURL,
		PageID:  pageID,
		TabID:   tabID,
	}, nil
}

// Navigate loads the tab's URL and waits for the load event.
func (t *Tab) Navigate(ctx context.Context) error {
	navCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := t.Page.Context(navCtx).Navigate(t.PageURL); err != nil {
		return fmt.Errorf("browser: navigate %s: %w", t.PageURL, err)
	}
	if err := t.Page.Context(navCtx).WaitLoad(); err != nil {
		// Slow pages still get observed; instrumentation is already armed.
		return nil
	}
	return nil
}

// Close closes the tab.
func (t *Tab) Close() error {
	if t.Page != nil {
		return t.Page.Close()
	}
	return nil
}
