// Package notify provides the single-slot transient notification channel.
package notify

import (
	"sync"
	"time"
)

// Kind classifies a notification.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
)

// DefaultDuration is how long a notification stays visible.
const DefaultDuration = 3000 * time.Millisecond

// Toast is one visible notification.
type Toast struct {
	Message string `json:"message"`
	Kind    Kind   `json:"kind"`
}

// Notifier owns the single notification slot. At most one toast is
// visible at any instant; showing a new one cancels the pending
// auto-dismiss timer of the old one so the new toast always gets its
// full display window.
type Notifier struct {
	mu       sync.Mutex
	current  *Toast
	timer    *time.Timer
	gen      uint64
	duration time.Duration
}

// Option configures a Notifier.
type Option func(*Notifier)

// WithDuration overrides the auto-dismiss duration.
func WithDuration(d time.Duration) Option {
	return func(n *Notifier) { n.duration = d }
}

// NewNotifier creates an empty notifier.
func NewNotifier(opts ...Option) *Notifier {
	n := &Notifier{duration: DefaultDuration}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Notify replaces the visible toast and restarts the auto-dismiss timer.
func (n *Notifier) Notify(message string, kind Kind) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.timer != nil {
		n.timer.Stop()
	}
	n.gen++
	gen := n.gen
	n.current = &Toast{Message: message, Kind: kind}
	n.timer = time.AfterFunc(n.duration, func() {
		n.expire(gen)
	})
}

// expire clears the slot only if no newer toast has replaced it.
func (n *Notifier) expire(gen uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.gen != gen {
		return
	}
	n.current = nil
	n.timer = nil
}

// Dismiss clears the slot immediately and cancels the pending timer.
func (n *Notifier) Dismiss() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
	n.gen++
	n.current = nil
}

// Current returns the visible toast, or nil when the slot is empty.
func (n *Notifier) Current() *Toast {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.current == nil {
		return nil
	}
	t := *n.current
	return &t
}
