package export

import (
	"fmt"
	"sync"
	"time"

	"github.com/veridash/veridash/internal/models"
)

// ConfirmDuration is how long the copied-confirmation state lasts.
const ConfirmDuration = 2000 * time.Millisecond

// Clipboard writes text to the system clipboard.
type Clipboard interface {
	WriteText(text string) error
}

// ClipboardError wraps a failed clipboard write. It is reported to the
// caller and never propagates past the export flow.
type ClipboardError struct {
	Err error
}

func (e *ClipboardError) Error() string {
	return fmt.Sprintf("clipboard copy failed: %v", e.Err)
}

func (e *ClipboardError) Unwrap() error { return e.Err }

// Copier copies report summaries to a clipboard and tracks the
// transient confirmed state.
type Copier struct {
	clipboard Clipboard
	confirm   time.Duration

	mu     sync.Mutex
	copied bool
	gen    uint64
}

// CopierOption configures a Copier.
type CopierOption func(*Copier)

// WithConfirmDuration overrides the confirmed-state duration.
func WithConfirmDuration(d time.Duration) CopierOption {
	return func(c *Copier) { c.confirm = d }
}

// NewCopier creates a Copier backed by the given clipboard.
func NewCopier(clipboard Clipboard, opts ...CopierOption) *Copier {
	c := &Copier{clipboard: clipboard, confirm: ConfirmDuration}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Copy writes the report's text summary to the clipboard. On success
// the copier enters the confirmed state for ConfirmDuration before
// reverting. On failure it returns a ClipboardError and the confirmed
// state is untouched.
func (c *Copier) Copy(r *models.VerificationReport, generatedAt time.Time) error {
	summary := ToTextSummary(r, generatedAt)
	if err := c.clipboard.WriteText(summary); err != nil {
		return &ClipboardError{Err: err}
	}

	c.mu.Lock()
	c.copied = true
	c.gen++
	gen := c.gen
	c.mu.Unlock()

	time.AfterFunc(c.confirm, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.gen == gen {
			c.copied = false
		}
	})
	return nil
}

// Copied reports whether the transient confirmed state is active.
func (c *Copier) Copied() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.copied
}
