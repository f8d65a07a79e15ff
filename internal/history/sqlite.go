// Package history provides SQLite implementation of the Store interface.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/veridash/veridash/internal/models"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.Migrate(); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// Migrate runs database migrations.
func (s *SQLiteStore) Migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS reports (
			id TEXT PRIMARY KEY,
			trust_score REAL NOT NULL,
			status TEXT NOT NULL,
			file_name TEXT,
			total_citations INTEGER NOT NULL,
			total_facts INTEGER NOT NULL,
			total_links INTEGER NOT NULL,
			analyzed_at TIMESTAMP NOT NULL,
			body TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_reports_created_at ON reports(created_at DESC)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// SaveReport archives a completed report under the given ID.
func (s *SQLiteStore) SaveReport(ctx context.Context, id string, report *models.VerificationReport) error {
	body, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	var fileName sql.NullString
	if report.Metadata.FileName != nil {
		fileName = sql.NullString{String: *report.Metadata.FileName, Valid: true}
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO reports (id, trust_score, status, file_name, total_citations, total_facts, total_links, analyzed_at, body, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, report.TrustScore, string(report.Status), fileName,
		report.Metadata.TotalCitations, report.Metadata.TotalFacts, report.Metadata.TotalLinks,
		report.Metadata.AnalyzedAt, string(body), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	return nil
}

// GetReport returns an archived report, or nil when unknown.
func (s *SQLiteStore) GetReport(ctx context.Context, id string) (*models.VerificationReport, error) {
	var body string
	err := s.db.QueryRowContext(ctx, `SELECT body FROM reports WHERE id = ?`, id).Scan(&body)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}
	return models.ParseReport([]byte(body))
}

// ListReports returns archive entries, newest first.
func (s *SQLiteStore) ListReports(ctx context.Context, limit, offset int) ([]*Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, trust_score, status, file_name, total_citations, total_facts, total_links, analyzed_at, created_at
		FROM reports ORDER BY created_at DESC LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		var e Entry
		var fileName sql.NullString
		var status string
		if err := rows.Scan(&e.ID, &e.TrustScore, &status, &fileName,
			&e.TotalCitations, &e.TotalFacts, &e.TotalLinks, &e.AnalyzedAt, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan report row: %w", err)
		}
		e.Status = models.ReportStatus(status)
		if fileName.Valid {
			e.FileName = &fileName.String
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
