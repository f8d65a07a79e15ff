// Package history persists completed verification reports.
package history

import (
	"context"
	"time"

	"github.com/veridash/veridash/internal/models"
)

// Entry is one archived report in list form.
type Entry struct {
	ID             string              `json:"id"`
	TrustScore     float64             `json:"trust_score"`
	Status         models.ReportStatus `json:"status"`
	FileName       *string             `json:"file_name"`
	TotalCitations int                 `json:"total_citations"`
	TotalFacts     int                 `json:"total_facts"`
	TotalLinks     int                 `json:"total_links"`
	AnalyzedAt     time.Time           `json:"analyzed_at"`
	CreatedAt      time.Time           `json:"created_at"`
}

// Store defines the interface for the report archive.
type Store interface {
	// SaveReport archives a completed report under the given ID.
	SaveReport(ctx context.Context, id string, report *models.VerificationReport) error

	// GetReport returns an archived report, or nil when unknown.
	GetReport(ctx context.Context, id string) (*models.VerificationReport, error)

	// ListReports returns archive entries, newest first.
	ListReports(ctx context.Context, limit, offset int) ([]*Entry, error)

	// Lifecycle
	Close() error
	Migrate() error
}
