// Package controller owns the submission lifecycle state machine.
package controller

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/veridash/veridash/internal/history"
	"github.com/veridash/veridash/internal/models"
	"github.com/veridash/veridash/internal/notify"
	"github.com/veridash/veridash/internal/validate"
	"github.com/veridash/veridash/internal/verify"
)

// State is the controller lifecycle state. Success and Failure are
// transient: the controller resolves back to Idle in the same Submit
// call, so only Idle and Submitting are observable.
type State string

const (
	StateIdle       State = "idle"
	StateSubmitting State = "submitting"
)

// ErrSubmissionInFlight signals an operation attempted while a
// submission is pending. The UI gate should make this unreachable, but
// the state gate is the source of truth.
var ErrSubmissionInFlight = errors.New("a submission is already in progress")

// SubmissionError wraps a failed verification call. Its message is
// surfaced via the error banner and the toast.
type SubmissionError struct {
	Message string
}

func (e *SubmissionError) Error() string { return e.Message }

// DefaultTimeout bounds one verification call so a stuck external
// service cannot hold the controller in Submitting forever.
const DefaultTimeout = 120 * time.Second

// Controller orchestrates validation, the external verification call,
// the held report/error pair, and status notifications. Exactly one
// submission may be in flight at a time.
type Controller struct {
	service  verify.Service
	notifier *notify.Notifier
	store    history.Store
	timeout  time.Duration

	mu       sync.Mutex
	state    State
	report   *models.VerificationReport
	reportID string
	errMsg   string
}

// Option configures a Controller.
type Option func(*Controller)

// WithHistory archives successful reports to the given store.
func WithHistory(store history.Store) Option {
	return func(c *Controller) { c.store = store }
}

// WithTimeout overrides the per-submission timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Controller) { c.timeout = d }
}

// New creates an idle controller.
func New(service verify.Service, notifier *notify.Notifier, opts ...Option) *Controller {
	c := &Controller{
		service:  service,
		notifier: notifier,
		timeout:  DefaultTimeout,
		state:    StateIdle,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Submit runs one verification request to completion. It is allowed
// only from Idle; a second call while one is pending is rejected with
// ErrSubmissionInFlight without touching the in-flight state. Invalid
// payloads are rejected before any state transition and never reach
// the verification service.
func (c *Controller) Submit(ctx context.Context, payload *models.SubmissionPayload) (*models.VerificationReport, error) {
	if err := validate.Payload(payload); err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.state != StateIdle {
		c.mu.Unlock()
		return nil, ErrSubmissionInFlight
	}
	c.state = StateSubmitting
	c.report = nil
	c.reportID = ""
	c.errMsg = ""
	c.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	report, err := c.service.Verify(ctx, payload)
	if err != nil {
		return nil, c.fail(err)
	}
	return report, c.succeed(report)
}

func (c *Controller) succeed(report *models.VerificationReport) error {
	id := uuid.New().String()

	c.mu.Lock()
	c.report = report
	c.reportID = id
	c.state = StateIdle
	c.mu.Unlock()

	c.notifier.Notify("Verification complete", notify.KindSuccess)

	if c.store != nil {
		if err := c.store.SaveReport(context.Background(), id, report); err != nil {
			log.Error().Err(err).Str("report_id", id).Msg("Failed to archive report")
		}
	}

	log.Info().
		Str("report_id", id).
		Float64("trust_score", report.TrustScore).
		Str("status", string(report.Status)).
		Msg("Submission succeeded")
	return nil
}

func (c *Controller) fail(err error) error {
	msg := err.Error()

	c.mu.Lock()
	c.errMsg = msg
	c.state = StateIdle
	c.mu.Unlock()

	c.notifier.Notify(fmt.Sprintf("Verification failed: %s", msg), notify.KindError)

	log.Error().Err(err).Msg("Submission failed")
	return &SubmissionError{Message: msg}
}

// Clear resets the held report and error. It is allowed only from
// Idle, which prevents a race between an in-flight response and a
// cleared report.
func (c *Controller) Clear() error {
	c.mu.Lock()
	if c.state != StateIdle {
		c.mu.Unlock()
		return ErrSubmissionInFlight
	}
	c.report = nil
	c.reportID = ""
	c.errMsg = ""
	c.mu.Unlock()

	c.notifier.Notify("Results cleared", notify.KindInfo)
	return nil
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Report returns the held report and its archive ID, or nil when none
// is held. Callers must treat the report as a read-only snapshot.
func (c *Controller) Report() (*models.VerificationReport, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.report, c.reportID
}

// ErrMessage returns the current error banner message, or empty.
func (c *Controller) ErrMessage() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errMsg
}
