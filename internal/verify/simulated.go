package verify

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/veridash/veridash/internal/models"
)

// databases reported as searched when a citation cannot be confirmed.
var searchedDatabases = []string{"CrossRef", "PubMed", "Google Scholar"}

// Simulated is the offline verification backend. It reproduces the
// heuristic extraction and scoring of the reference backend without any
// external calls, so results are deterministic for a given input.
type Simulated struct {
	prober     *LinkProber
	probeLinks bool
	now        func() time.Time
}

// SimulatedOption configures the simulated backend.
type SimulatedOption func(*Simulated)

// WithLinkProbing enables live HTTP probing of extracted links.
func WithLinkProbing(enabled bool) SimulatedOption {
	return func(s *Simulated) { s.probeLinks = enabled }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) SimulatedOption {
	return func(s *Simulated) { s.now = now }
}

// NewSimulated creates the offline backend.
func NewSimulated(opts ...SimulatedOption) *Simulated {
	s := &Simulated{
		prober: NewLinkProber(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the backend name.
func (s *Simulated) Name() string { return "simulated" }

// Verify analyzes the payload and builds a complete report.
func (s *Simulated) Verify(ctx context.Context, payload *models.SubmissionPayload) (*models.VerificationReport, error) {
	start := s.now()

	text, fileName, partial, err := s.payloadText(payload)
	if err != nil {
		return nil, err
	}

	citations := s.verifyCitations(text)
	facts := s.checkFacts(text)
	links := s.checkLinks(ctx, text)

	report := s.buildReport(citations, facts, links, fileName, partial, s.now().Sub(start))

	log.Info().
		Float64("trust_score", report.TrustScore).
		Int("citations", report.Metadata.TotalCitations).
		Int("facts", report.Metadata.TotalFacts).
		Int("links", report.Metadata.TotalLinks).
		Msg("Simulated verification complete")

	return report, nil
}

// payloadText resolves the analyzable text for a payload. Binary
// document formats are not parsed offline; they produce a partial
// report over the file name alone.
func (s *Simulated) payloadText(p *models.SubmissionPayload) (text string, fileName *string, partial bool, err error) {
	switch p.Type {
	case models.PayloadText:
		return p.Text, nil, false, nil
	case models.PayloadFile:
		name := p.File.Name
		if p.File.MimeType == "text/plain" {
			return string(p.File.Data), &name, false, nil
		}
		return "", &name, true, nil
	}
	return "", nil, false, fmt.Errorf("unknown payload type: %q", p.Type)
}

func (s *Simulated) verifyCitations(text string) []models.Citation {
	extracted := ExtractCitations(text)
	citations := make([]models.Citation, 0, len(extracted))
	currentYear := s.now().Year()

	for _, e := range extracted {
		c := models.Citation{
			ID:           uuid.New().String(),
			CitationText: e.Text,
		}

		switch {
		case e.Year > currentYear:
			c.Status = models.CitationFake
			c.Confidence = 0.95
			c.Details = models.CitationDetail{
				Reason:            fmt.Sprintf("Publication year %d is in the future", e.Year),
				DatabasesSearched: searchedDatabases,
			}
		case e.URL == "":
			c.Status = models.CitationSuspicious
			c.Confidence = 0.6
			c.Details = models.CitationDetail{
				Reason:            "No matching record found in indexed databases",
				DatabasesSearched: searchedDatabases,
				Note:              "Citation has no URL or DOI to confirm against",
			}
		default:
			c.Status = models.CitationVerified
			c.Confidence = 0.9
			c.Details = models.CitationDetail{
				Title:   e.Title,
				Authors: []string{e.Authors},
				Source:  e.URL,
				Year:    e.Year,
				URL:     e.URL,
			}
		}

		citations = append(citations, c)
	}
	return citations
}

func (s *Simulated) checkFacts(text string) []models.Fact {
	claims := ExtractClaims(text)
	facts := make([]models.Fact, 0, len(claims))

	for _, claim := range claims {
		flags := ClaimFlags(claim)
		f := models.Fact{
			ID:       uuid.New().String(),
			Claim:    claim,
			Evidence: flags,
			Sources:  ExtractLinks(claim),
		}
		if f.Sources == nil {
			f.Sources = []string{}
		}

		switch len(flags) {
		case 0:
			f.Verdict = models.VerdictTrue
			f.Confidence = 0.8
			f.Evidence = []string{"No hallucination indicators detected"}
		case 1:
			f.Verdict = models.VerdictMixed
			f.Confidence = 0.6
		default:
			f.Verdict = models.VerdictFalse
			f.Confidence = 0.7
		}

		facts = append(facts, f)
	}
	return facts
}

func (s *Simulated) checkLinks(ctx context.Context, text string) []models.Link {
	urls := ExtractLinks(text)
	links := make([]models.Link, 0, len(urls))

	for _, u := range urls {
		l := models.Link{
			ID:  uuid.New().String(),
			URL: u,
		}
		if s.probeLinks {
			l.Status, l.HTTPCode, l.Details = s.prober.Probe(ctx, u)
		} else {
			checkedAt := s.now().UTC()
			l.Status = models.LinkAccessible
			l.Details = models.LinkDetail{
				Message:   "Link probing disabled; URL format accepted",
				CheckedAt: &checkedAt,
			}
		}
		links = append(links, l)
	}
	return links
}

// buildReport assembles the metadata counters and the overall trust
// score from the per-item findings.
func (s *Simulated) buildReport(citations []models.Citation, facts []models.Fact, links []models.Link, fileName *string, partial bool, elapsed time.Duration) *models.VerificationReport {
	var m models.Metadata
	m.TotalCitations = len(citations)
	for _, c := range citations {
		switch c.Status {
		case models.CitationVerified:
			m.VerifiedCitations++
		case models.CitationFake:
			m.FakeCitations++
		case models.CitationSuspicious:
			m.SuspiciousCitations++
		}
	}

	m.TotalFacts = len(facts)
	var highRisk int
	for _, f := range facts {
		switch f.Verdict {
		case models.VerdictTrue:
			m.TrueFacts++
		case models.VerdictFalse:
			m.FalseFacts++
			highRisk++
		case models.VerdictMixed:
			m.MixedFacts++
		}
	}

	m.TotalLinks = len(links)
	for _, l := range links {
		if l.Status == models.LinkAccessible {
			m.WorkingLinks++
		} else {
			m.BrokenLinks++
		}
	}

	m.ProcessingTime = elapsed.Seconds()
	m.FileName = fileName
	m.AnalyzedAt = s.now().UTC()

	// Trust score mirrors the reference backend: citation trust scaled
	// into [0.3, 1.0], then a high-risk claim penalty of up to half.
	score := 1.0
	if m.TotalCitations > 0 {
		ratio := float64(m.VerifiedCitations) / float64(m.TotalCitations)
		score *= 0.3 + 0.7*ratio
	}
	if m.TotalFacts > 0 {
		score *= 1.0 - (float64(highRisk)/float64(m.TotalFacts))*0.5
	}

	status := models.ReportCompleted
	if partial {
		status = models.ReportPartial
	}

	return &models.VerificationReport{
		TrustScore: models.Clamp01(score),
		Status:     status,
		Results: models.Results{
			Citations: citations,
			Facts:     facts,
			Links:     links,
		},
		Metadata: m,
	}
}
