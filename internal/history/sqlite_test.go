package history_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/veridash/veridash/internal/history"
	"github.com/veridash/veridash/internal/models"
)

func newTestStore(t *testing.T) *history.SQLiteStore {
	t.Helper()
	store, err := history.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func archivedReport() *models.VerificationReport {
	fileName := "notes.txt"
	return &models.VerificationReport{
		TrustScore: 0.7,
		Status:     models.ReportCompleted,
		Results: models.Results{
			Citations: []models.Citation{
				{
					ID:           "c-1",
					CitationText: "[Lee, 2018, Notes]",
					Status:       models.CitationSuspicious,
					Confidence:   0.6,
					Details: models.CitationDetail{
						Reason:            "No matching record found",
						DatabasesSearched: []string{"CrossRef"},
					},
				},
			},
		},
		Metadata: models.Metadata{
			TotalCitations:      1,
			SuspiciousCitations: 1,
			ProcessingTime:      1.2,
			FileName:            &fileName,
			AnalyzedAt:          time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC),
		},
	}
}

func TestSaveAndGetReport(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	want := archivedReport()
	require.NoError(t, store.SaveReport(ctx, "r-1", want))

	got, err := store.GetReport(ctx, "r-1")
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestGetReportUnknownID(t *testing.T) {
	store := newTestStore(t)

	got, err := store.GetReport(context.Background(), "nope")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestListReportsNewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveReport(ctx, "r-1", archivedReport()))
	time.Sleep(5 * time.Millisecond)
	require.NoError(t, store.SaveReport(ctx, "r-2", archivedReport()))

	entries, err := store.ListReports(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "r-2", entries[0].ID)
	require.Equal(t, "r-1", entries[1].ID)

	require.Equal(t, 1, entries[0].TotalCitations)
	require.NotNil(t, entries[0].FileName)
	require.Equal(t, "notes.txt", *entries[0].FileName)
}
