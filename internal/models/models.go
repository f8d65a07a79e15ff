// Package models defines the core data structures used throughout the application.
package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// CitationStatus classifies a bibliographic reference found in the input.
type CitationStatus string

const (
	CitationVerified   CitationStatus = "verified"
	CitationFake       CitationStatus = "fake"
	CitationSuspicious CitationStatus = "suspicious"
)

// UnmarshalJSON rejects unknown citation statuses at the decode boundary.
func (s *CitationStatus) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch CitationStatus(raw) {
	case CitationVerified, CitationFake, CitationSuspicious:
		*s = CitationStatus(raw)
		return nil
	}
	return fmt.Errorf("unknown citation status: %q", raw)
}

// FactVerdict is the outcome of checking a single factual claim.
type FactVerdict string

const (
	VerdictTrue  FactVerdict = "true"
	VerdictFalse FactVerdict = "false"
	VerdictMixed FactVerdict = "mixed"
)

func (v *FactVerdict) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch FactVerdict(raw) {
	case VerdictTrue, VerdictFalse, VerdictMixed:
		*v = FactVerdict(raw)
		return nil
	}
	return fmt.Errorf("unknown fact verdict: %q", raw)
}

// LinkStatus classifies a probed hyperlink.
type LinkStatus string

const (
	LinkAccessible LinkStatus = "accessible"
	LinkBroken     LinkStatus = "broken"
)

func (s *LinkStatus) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch LinkStatus(raw) {
	case LinkAccessible, LinkBroken:
		*s = LinkStatus(raw)
		return nil
	}
	return fmt.Errorf("unknown link status: %q", raw)
}

// ReportStatus is the terminal state of a verification run.
type ReportStatus string

const (
	ReportCompleted ReportStatus = "completed"
	ReportFailed    ReportStatus = "failed"
	ReportPartial   ReportStatus = "partial"
)

func (s *ReportStatus) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch ReportStatus(raw) {
	case ReportCompleted, ReportFailed, ReportPartial:
		*s = ReportStatus(raw)
		return nil
	}
	return fmt.Errorf("unknown report status: %q", raw)
}

// CitationDetail carries status-dependent context for a citation.
// Verified citations get bibliographic fields; fake and suspicious
// citations get a reason and the databases that were searched.
type CitationDetail struct {
	Title             string   `json:"title,omitempty"`
	Authors           []string `json:"authors,omitempty"`
	Source            string   `json:"source,omitempty"`
	Year              int      `json:"year,omitempty"`
	DOI               string   `json:"doi,omitempty"`
	URL               string   `json:"url,omitempty"`
	Reason            string   `json:"reason,omitempty"`
	DatabasesSearched []string `json:"databases_searched,omitempty"`
	Note              string   `json:"note,omitempty"`
}

// Citation is a bibliographic reference extracted from the input.
type Citation struct {
	ID           string         `json:"id"`
	CitationText string         `json:"citation_text"`
	Status       CitationStatus `json:"status"`
	Confidence   float64        `json:"confidence"`
	Details      CitationDetail `json:"details"`
}

// Fact is an extracted factual claim with its verdict.
type Fact struct {
	ID         string      `json:"id"`
	Claim      string      `json:"claim"`
	Verdict    FactVerdict `json:"verdict"`
	Confidence float64     `json:"confidence"`
	Evidence   []string    `json:"evidence"`
	Sources    []string    `json:"sources"`
}

// LinkDetail carries probe context for a hyperlink.
type LinkDetail struct {
	Message    string     `json:"message,omitempty"`
	CheckedAt  *time.Time `json:"checked_at,omitempty"`
	Archived   bool       `json:"archived,omitempty"`
	ArchiveURL string     `json:"archive_url,omitempty"`
}

// Link is a hyperlink extracted from the input.
type Link struct {
	ID       string     `json:"id"`
	URL      string     `json:"url"`
	Status   LinkStatus `json:"status"`
	HTTPCode *int       `json:"http_code,omitempty"`
	Details  LinkDetail `json:"details"`
}

// Metadata holds the aggregate counters for a verification run.
type Metadata struct {
	TotalCitations      int       `json:"total_citations"`
	VerifiedCitations   int       `json:"verified_citations"`
	FakeCitations       int       `json:"fake_citations"`
	SuspiciousCitations int       `json:"suspicious_citations"`
	TotalFacts          int       `json:"total_facts"`
	TrueFacts           int       `json:"true_facts"`
	FalseFacts          int       `json:"false_facts"`
	MixedFacts          int       `json:"mixed_facts"`
	TotalLinks          int       `json:"total_links"`
	WorkingLinks        int       `json:"working_links"`
	BrokenLinks         int       `json:"broken_links"`
	ProcessingTime      float64   `json:"processing_time"`
	FileName            *string   `json:"file_name"`
	AnalyzedAt          time.Time `json:"analyzed_at"`
}

// Results groups the per-item findings of a verification run.
type Results struct {
	Citations []Citation `json:"citations"`
	Facts     []Fact     `json:"facts"`
	Links     []Link     `json:"links"`
}

// VerificationReport is the canonical result of one verification run.
// It is immutable once constructed; the controller replaces it wholesale.
type VerificationReport struct {
	TrustScore float64      `json:"trust_score"`
	Status     ReportStatus `json:"status"`
	Results    Results      `json:"results"`
	Metadata   Metadata     `json:"metadata"`
}

// PayloadType selects the submission input mode.
type PayloadType string

const (
	PayloadText PayloadType = "text"
	PayloadFile PayloadType = "file"
)

// FileBlob is an uploaded document with its declared attributes.
type FileBlob struct {
	Name     string
	Size     int64
	MimeType string
	Data     []byte
}

// SubmissionPayload is one user-initiated verification request. Exactly
// one of Text/File is populated, matching Type.
type SubmissionPayload struct {
	Type PayloadType
	Text string
	File *FileBlob
}

// Clamp01 constrains a score or confidence to [0,1].
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// ParseReport decodes and validates a serialized VerificationReport.
// Unknown enum values are a decode error, confidences and the trust
// score are clamped, and malformed counters are rejected.
func ParseReport(data []byte) (*VerificationReport, error) {
	var r VerificationReport
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}
	r.normalize()
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("invalid report: %w", err)
	}
	return &r, nil
}

func (r *VerificationReport) normalize() {
	r.TrustScore = Clamp01(r.TrustScore)
	for i := range r.Results.Citations {
		r.Results.Citations[i].Confidence = Clamp01(r.Results.Citations[i].Confidence)
	}
	for i := range r.Results.Facts {
		r.Results.Facts[i].Confidence = Clamp01(r.Results.Facts[i].Confidence)
	}
}

// Validate checks the structural invariants of the report.
func (r *VerificationReport) Validate() error {
	switch r.Status {
	case ReportCompleted, ReportFailed, ReportPartial:
	default:
		return fmt.Errorf("unknown report status: %q", r.Status)
	}

	for _, c := range r.Results.Citations {
		if err := c.Validate(); err != nil {
			return err
		}
	}
	for _, f := range r.Results.Facts {
		switch f.Verdict {
		case VerdictTrue, VerdictFalse, VerdictMixed:
		default:
			return fmt.Errorf("fact %s: unknown verdict %q", f.ID, f.Verdict)
		}
	}
	for _, l := range r.Results.Links {
		switch l.Status {
		case LinkAccessible, LinkBroken:
		default:
			return fmt.Errorf("link %s: unknown status %q", l.ID, l.Status)
		}
	}

	m := r.Metadata
	counters := []struct {
		name  string
		value int
	}{
		{"total_citations", m.TotalCitations},
		{"verified_citations", m.VerifiedCitations},
		{"fake_citations", m.FakeCitations},
		{"suspicious_citations", m.SuspiciousCitations},
		{"total_facts", m.TotalFacts},
		{"true_facts", m.TrueFacts},
		{"false_facts", m.FalseFacts},
		{"mixed_facts", m.MixedFacts},
		{"total_links", m.TotalLinks},
		{"working_links", m.WorkingLinks},
		{"broken_links", m.BrokenLinks},
	}
	for _, c := range counters {
		if c.value < 0 {
			return fmt.Errorf("metadata counter %s is negative: %d", c.name, c.value)
		}
	}
	if m.ProcessingTime < 0 {
		return fmt.Errorf("negative processing time: %f", m.ProcessingTime)
	}
	return nil
}

// Validate checks the status-dependent detail requirements of a citation.
func (c *Citation) Validate() error {
	switch c.Status {
	case CitationVerified:
		if c.Details.Title == "" {
			return fmt.Errorf("citation %s: verified citation missing title", c.ID)
		}
	case CitationFake, CitationSuspicious:
		if c.Details.Reason == "" {
			return fmt.Errorf("citation %s: %s citation missing reason", c.ID, c.Status)
		}
	default:
		return fmt.Errorf("citation %s: unknown status %q", c.ID, c.Status)
	}
	return nil
}

// Validate checks that the payload shape matches its declared type.
func (p *SubmissionPayload) Validate() error {
	switch p.Type {
	case PayloadText:
		if p.File != nil {
			return fmt.Errorf("text payload must not carry a file")
		}
	case PayloadFile:
		if p.File == nil {
			return fmt.Errorf("file payload missing file")
		}
		if p.Text != "" {
			return fmt.Errorf("file payload must not carry text")
		}
	default:
		return fmt.Errorf("unknown payload type: %q", p.Type)
	}
	return nil
}
