package controller_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/veridash/veridash/internal/controller"
	"github.com/veridash/veridash/internal/models"
	"github.com/veridash/veridash/internal/notify"
	"github.com/veridash/veridash/internal/validate"
)

type stubService struct {
	verify func(ctx context.Context, payload *models.SubmissionPayload) (*models.VerificationReport, error)
	calls  int
}

func (s *stubService) Verify(ctx context.Context, payload *models.SubmissionPayload) (*models.VerificationReport, error) {
	s.calls++
	return s.verify(ctx, payload)
}

func (s *stubService) Name() string { return "stub" }

func completedReport() *models.VerificationReport {
	return &models.VerificationReport{
		TrustScore: 0.9,
		Status:     models.ReportCompleted,
		Metadata:   models.Metadata{AnalyzedAt: time.Now().UTC()},
	}
}

func textPayload(text string) *models.SubmissionPayload {
	return &models.SubmissionPayload{Type: models.PayloadText, Text: text}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}

func TestSubmitSuccess(t *testing.T) {
	want := completedReport()
	svc := &stubService{
		verify: func(ctx context.Context, p *models.SubmissionPayload) (*models.VerificationReport, error) {
			return want, nil
		},
	}
	notifier := notify.NewNotifier(notify.WithDuration(time.Minute))
	ctrl := controller.New(svc, notifier)

	got, err := ctrl.Submit(context.Background(), textPayload("hello"))
	require.NoError(t, err)
	require.Equal(t, want, got)

	require.Equal(t, controller.StateIdle, ctrl.State())
	held, id := ctrl.Report()
	require.Equal(t, want, held)
	require.NotEmpty(t, id)
	require.Empty(t, ctrl.ErrMessage())

	toast := notifier.Current()
	require.NotNil(t, toast)
	require.Equal(t, notify.KindSuccess, toast.Kind)
}

func TestSubmitRejectsInvalidPayloadBeforeCall(t *testing.T) {
	svc := &stubService{
		verify: func(ctx context.Context, p *models.SubmissionPayload) (*models.VerificationReport, error) {
			return completedReport(), nil
		},
	}
	notifier := notify.NewNotifier(notify.WithDuration(time.Minute))
	ctrl := controller.New(svc, notifier)

	_, err := ctrl.Submit(context.Background(), textPayload("   "))
	var vErr *validate.ValidationError
	require.ErrorAs(t, err, &vErr)

	require.Zero(t, svc.calls, "invalid payload must never reach the verification call")
	require.Equal(t, controller.StateIdle, ctrl.State())
	require.Nil(t, notifier.Current(), "validation errors are inline, not toasted")
}

func TestSecondSubmitRejectedWhileInFlight(t *testing.T) {
	release := make(chan struct{})
	svc := &stubService{
		verify: func(ctx context.Context, p *models.SubmissionPayload) (*models.VerificationReport, error) {
			<-release
			return completedReport(), nil
		},
	}
	notifier := notify.NewNotifier(notify.WithDuration(time.Minute))
	ctrl := controller.New(svc, notifier)

	done := make(chan error, 1)
	go func() {
		_, err := ctrl.Submit(context.Background(), textPayload("first"))
		done <- err
	}()

	waitFor(t, func() bool { return ctrl.State() == controller.StateSubmitting })

	_, err := ctrl.Submit(context.Background(), textPayload("second"))
	require.ErrorIs(t, err, controller.ErrSubmissionInFlight)
	require.Equal(t, controller.StateSubmitting, ctrl.State(), "rejection must not alter the in-flight state")
	require.Equal(t, 1, svc.calls)

	close(release)
	require.NoError(t, <-done)
	require.Equal(t, controller.StateIdle, ctrl.State())
}

func TestSubmitFailure(t *testing.T) {
	svc := &stubService{
		verify: func(ctx context.Context, p *models.SubmissionPayload) (*models.VerificationReport, error) {
			return nil, errors.New("verification service unavailable")
		},
	}
	notifier := notify.NewNotifier(notify.WithDuration(time.Minute))
	ctrl := controller.New(svc, notifier)

	_, err := ctrl.Submit(context.Background(), textPayload("hello"))
	var sErr *controller.SubmissionError
	require.ErrorAs(t, err, &sErr)
	require.Equal(t, "verification service unavailable", sErr.Message)

	require.Equal(t, controller.StateIdle, ctrl.State())
	held, _ := ctrl.Report()
	require.Nil(t, held, "failed submission holds no report")
	require.Equal(t, "verification service unavailable", ctrl.ErrMessage())

	toast := notifier.Current()
	require.NotNil(t, toast)
	require.Equal(t, notify.KindError, toast.Kind)
	require.Contains(t, toast.Message, "verification service unavailable")
}

func TestNewSubmissionClearsPreviousError(t *testing.T) {
	fail := true
	svc := &stubService{
		verify: func(ctx context.Context, p *models.SubmissionPayload) (*models.VerificationReport, error) {
			if fail {
				return nil, errors.New("boom")
			}
			return completedReport(), nil
		},
	}
	notifier := notify.NewNotifier(notify.WithDuration(time.Minute))
	ctrl := controller.New(svc, notifier)

	_, err := ctrl.Submit(context.Background(), textPayload("hello"))
	require.Error(t, err)
	require.NotEmpty(t, ctrl.ErrMessage())

	fail = false
	_, err = ctrl.Submit(context.Background(), textPayload("hello"))
	require.NoError(t, err)
	require.Empty(t, ctrl.ErrMessage())
}

func TestClear(t *testing.T) {
	svc := &stubService{
		verify: func(ctx context.Context, p *models.SubmissionPayload) (*models.VerificationReport, error) {
			return completedReport(), nil
		},
	}
	notifier := notify.NewNotifier(notify.WithDuration(time.Minute))
	ctrl := controller.New(svc, notifier)

	_, err := ctrl.Submit(context.Background(), textPayload("hello"))
	require.NoError(t, err)

	require.NoError(t, ctrl.Clear())
	held, id := ctrl.Report()
	require.Nil(t, held)
	require.Empty(t, id)

	toast := notifier.Current()
	require.NotNil(t, toast)
	require.Equal(t, notify.KindInfo, toast.Kind)
}

func TestClearRejectedWhileSubmitting(t *testing.T) {
	release := make(chan struct{})
	svc := &stubService{
		verify: func(ctx context.Context, p *models.SubmissionPayload) (*models.VerificationReport, error) {
			<-release
			return completedReport(), nil
		},
	}
	notifier := notify.NewNotifier(notify.WithDuration(time.Minute))
	ctrl := controller.New(svc, notifier)

	done := make(chan error, 1)
	go func() {
		_, err := ctrl.Submit(context.Background(), textPayload("hello"))
		done <- err
	}()

	waitFor(t, func() bool { return ctrl.State() == controller.StateSubmitting })
	require.ErrorIs(t, ctrl.Clear(), controller.ErrSubmissionInFlight)

	close(release)
	require.NoError(t, <-done)
	held, _ := ctrl.Report()
	require.NotNil(t, held, "the in-flight report must survive the rejected clear")
}

func TestSubmitTimeout(t *testing.T) {
	svc := &stubService{
		verify: func(ctx context.Context, p *models.SubmissionPayload) (*models.VerificationReport, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}
	notifier := notify.NewNotifier(notify.WithDuration(time.Minute))
	ctrl := controller.New(svc, notifier, controller.WithTimeout(30*time.Millisecond))

	_, err := ctrl.Submit(context.Background(), textPayload("hello"))
	var sErr *controller.SubmissionError
	require.ErrorAs(t, err, &sErr)
	require.Equal(t, controller.StateIdle, ctrl.State(), "a timed-out call must not leave the controller in Submitting")
}
