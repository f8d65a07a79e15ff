package verify

import (
	"context"
	"fmt"

	"github.com/veridash/veridash/internal/config"
	"github.com/veridash/veridash/internal/llm"
	"github.com/veridash/veridash/internal/models"
)

// Service is the external verification collaborator. A submission
// either yields a complete VerificationReport or fails with an error
// carrying a human-readable message.
type Service interface {
	// Verify runs one verification request to completion.
	Verify(ctx context.Context, payload *models.SubmissionPayload) (*models.VerificationReport, error)

	// Name returns the backend name.
	Name() string
}

// New creates the verification backend selected by configuration.
func New(cfg *config.VerifierConfig) (Service, error) {
	switch cfg.Mode {
	case "simulated":
		return NewSimulated(WithLinkProbing(cfg.ProbeLinks)), nil
	case "remote":
		return NewRemote(cfg.RemoteURL, cfg.Timeout())
	case "llm":
		provider, err := llm.NewProvider(&cfg.LLM)
		if err != nil {
			return nil, err
		}
		return NewLLM(provider), nil
	default:
		return nil, fmt.Errorf("unsupported verifier mode: %s", cfg.Mode)
	}
}
