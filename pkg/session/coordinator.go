// Package session tracks the live reading position across display modes
// and persists it with debounced, crash-safe flushes.
package session

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/ehollis/lingreader/pkg/document"
)

// Mode is a tracking mode. In scroll mode the anchor is the first fully
// visible word's token index; in page mode it is the current page's first
// token index. The modes are mutually exclusive.
type Mode int

const (
	ModeScroll Mode = iota
	ModePage
)

func (m Mode) display() document.DisplayMode {
	if m == ModePage {
		return document.DisplayPage
	}
	return document.DisplayScroll
}

// Saver persists a document. Coordinator writes go through here.
type Saver interface {
	SaveDocument(ctx context.Context, doc *document.Document) error
}

// Coordinator is the single writer of a document's LastReadTokenIndex.
// Anchor updates are debounced through a single-slot task; mode switches
// and teardown flush immediately. Persistence failures are logged and
// never surface to the interactive session.
type Coordinator struct {
	// Debounce is the quiet period before a scheduled flush fires.
	Debounce time.Duration
	// Logger is used for flush failures. nil means no logging.
	Logger *log.Logger

	doc   *document.Document
	saver Saver
	task  Task

	mu     sync.Mutex
	mode   Mode
	anchor int
	dirty  bool
	closed bool

	highlight *document.HighlightRange
}

// New creates a coordinator for a restored document session.
func New(doc *document.Document, saver Saver) *Coordinator {
	c := &Coordinator{
		Debounce: 2 * time.Second,
		doc:      doc,
		saver:    saver,
		anchor:   doc.LastReadTokenIndex,
	}
	if doc.DisplayMode == document.DisplayPage {
		c.mode = ModePage
	}
	return c
}

// Restore returns the persisted reading position. This is the session's
// one read of LastReadTokenIndex.
func (c *Coordinator) Restore() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.doc.LastReadTokenIndex
}

// Mode returns the current tracking mode.
func (c *Coordinator) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// SetAnchor records a new reading anchor and schedules a debounced flush.
// A rapid series of updates coalesces into one write of the last value.
func (c *Coordinator) SetAnchor(tokenIndex int) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.anchor = tokenIndex
	c.dirty = true
	c.mu.Unlock()
	c.task.Schedule(c.flush, c.Debounce)
}

// SetMode flushes any pending anchor immediately, then switches mode.
func (c *Coordinator) SetMode(m Mode) {
	c.mu.Lock()
	if c.closed || m == c.mode {
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	c.task.Flush()

	c.mu.Lock()
	c.mode = m
	c.doc.DisplayMode = m.display()
	c.mu.Unlock()
}

// Highlight sets the highlighted token range as a pure state value.
func (c *Coordinator) Highlight(r document.HighlightRange) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.highlight = &r
}

// ClearHighlight removes the highlighted range.
func (c *Coordinator) ClearHighlight() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.highlight = nil
}

// Highlighted returns the current highlighted range, if any.
func (c *Coordinator) Highlighted() (document.HighlightRange, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.highlight == nil {
		return document.HighlightRange{}, false
	}
	return *c.highlight, true
}

// Close flushes a pending anchor exactly once and ends the session.
func (c *Coordinator) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	pending := c.dirty
	c.mu.Unlock()

	if pending {
		c.task.Flush()
	} else {
		c.task.Cancel()
	}
}

// flush writes the current anchor through the saver. It runs either from
// the debounce timer or inline from Flush; either way it is the only
// writer of LastReadTokenIndex.
func (c *Coordinator) flush() {
	c.mu.Lock()
	if !c.dirty {
		c.mu.Unlock()
		return
	}
	c.dirty = false
	c.doc.LastReadTokenIndex = c.anchor
	c.doc.LastOpenedAt = time.Now().UTC()
	doc := c.doc
	c.mu.Unlock()

	if err := c.saver.SaveDocument(context.Background(), doc); err != nil {
		// Live state is intact; a later successful write reconciles.
		if c.Logger != nil {
			c.Logger.Printf("flush reading position: %v", err)
		}
	}
}
