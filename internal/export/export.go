// Package export renders verification reports to JSON and text artifacts.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/veridash/veridash/internal/models"
)

// ToJSON serializes a report as pretty-printed JSON. Re-parsing the
// output reconstructs an equal report.
func ToJSON(r *models.VerificationReport) (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize report: %w", err)
	}
	return string(data), nil
}

// FileName returns the export file name for the given instant,
// verification-results-<epoch-millis>.json.
func FileName(now time.Time) string {
	return fmt.Sprintf("verification-results-%d.json", now.UnixMilli())
}

// WriteJSON writes the JSON serialization into dir using the standard
// export file name and returns the full path.
func WriteJSON(r *models.VerificationReport, dir string, now time.Time) (string, error) {
	body, err := ToJSON(r)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, FileName(now))
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}
	return path, nil
}

func percent(v float64) int {
	return int(v*100 + 0.5)
}

// ToTextSummary renders the fixed-format plain-text report. The
// clipboard and download paths share this output verbatim. Citation and
// fact sections are omitted entirely when their lists are empty.
func ToTextSummary(r *models.VerificationReport, generatedAt time.Time) string {
	var b strings.Builder

	b.WriteString("AI CONTENT VERIFICATION REPORT\n")
	fmt.Fprintf(&b, "Generated: %s\n", generatedAt.UTC().Format("2006-01-02 15:04:05 UTC"))
	b.WriteString(strings.Repeat("=", 50) + "\n\n")

	fmt.Fprintf(&b, "TRUST SCORE: %d%%\n\n", percent(r.TrustScore))

	m := r.Metadata
	b.WriteString("SUMMARY:\n")
	fmt.Fprintf(&b, "- Total Citations: %d\n", m.TotalCitations)
	fmt.Fprintf(&b, "- Verified: %d\n", m.VerifiedCitations)
	fmt.Fprintf(&b, "- Suspicious: %d\n", m.SuspiciousCitations)
	fmt.Fprintf(&b, "- Fake: %d\n", m.FakeCitations)
	fmt.Fprintf(&b, "- Processing Time: %.2fs\n", m.ProcessingTime)

	if len(r.Results.Citations) > 0 {
		b.WriteString("\nCITATIONS:\n")
		for i, c := range r.Results.Citations {
			fmt.Fprintf(&b, "%d. %s\n", i+1, c.CitationText)
			fmt.Fprintf(&b, "   Status: %s | Confidence: %d%%\n",
				strings.ToUpper(string(c.Status)), percent(c.Confidence))
		}
	}

	if len(r.Results.Facts) > 0 {
		b.WriteString("\nFACT CHECKS:\n")
		for i, f := range r.Results.Facts {
			fmt.Fprintf(&b, "%d. %q\n", i+1, f.Claim)
			fmt.Fprintf(&b, "   Verdict: %s | Confidence: %d%%\n",
				strings.ToUpper(string(f.Verdict)), percent(f.Confidence))
		}
	}

	return b.String()
}
