// Package stats derives display statistics from report metadata.
package stats

import "github.com/veridash/veridash/internal/models"

// TrustTier is the three-level display label for a trust score.
type TrustTier string

const (
	TierHigh   TrustTier = "High"
	TierMedium TrustTier = "Medium"
	TierLow    TrustTier = "Low"
)

// Summary is the set of derived display statistics for a report.
type Summary struct {
	Tier                TrustTier `json:"tier"`
	TrustPercent        int       `json:"trust_percent"`
	AccuracyRate        float64   `json:"accuracy_rate"`
	CompositeConfidence float64   `json:"composite_confidence"`
}

// Tier maps a clamped trust score to its display tier. Boundaries are
// inclusive on the lower bound of each tier.
func Tier(score float64) TrustTier {
	switch {
	case score >= 0.8:
		return TierHigh
	case score >= 0.5:
		return TierMedium
	default:
		return TierLow
	}
}

// AccuracyRate is verified citations over total citations as a
// percentage. A zero total yields 0, never NaN.
func AccuracyRate(m models.Metadata) float64 {
	if m.TotalCitations == 0 {
		return 0
	}
	return float64(m.VerifiedCitations) / float64(m.TotalCitations) * 100
}

// CompositeConfidence weighs verified citations at full value and
// suspicious ones at half, as a percentage of the total. A zero total
// yields 0, never NaN.
func CompositeConfidence(m models.Metadata) float64 {
	if m.TotalCitations == 0 {
		return 0
	}
	weighted := float64(m.VerifiedCitations)*100 + float64(m.SuspiciousCitations)*50
	return weighted / (float64(m.TotalCitations) * 100) * 100
}

// Summarize computes all display statistics for a report. It reads only
// the fields it needs and does not assume the per-status counters sum
// to the total.
func Summarize(r *models.VerificationReport) Summary {
	return Summary{
		Tier:                Tier(r.TrustScore),
		TrustPercent:        int(r.TrustScore*100 + 0.5),
		AccuracyRate:        AccuracyRate(r.Metadata),
		CompositeConfidence: CompositeConfidence(r.Metadata),
	}
}
