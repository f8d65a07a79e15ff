package verify_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/veridash/veridash/internal/verify"
)

func TestExtractCitations(t *testing.T) {
	text := "Smith, J. (2020). Climate trends. https://example.org/paper and [Doe, 2031, Future research]."

	citations := verify.ExtractCitations(text)
	if len(citations) != 2 {
		t.Fatalf("ExtractCitations found %d citations, want 2", len(citations))
	}

	apa := citations[0]
	if apa.Authors != "Smith, J." || apa.Year != 2020 || apa.URL != "https://example.org/paper" {
		t.Errorf("APA citation = %+v", apa)
	}
	if apa.Title != "Climate trends" {
		t.Errorf("APA title = %q, want %q", apa.Title, "Climate trends")
	}

	bracket := citations[1]
	if bracket.Authors != "Doe" || bracket.Year != 2031 || bracket.Title != "Future research" {
		t.Errorf("bracket citation = %+v", bracket)
	}
	if bracket.URL != "" {
		t.Errorf("bracket citation URL = %q, want empty", bracket.URL)
	}
}

func TestExtractLinksDeduplicates(t *testing.T) {
	text := "See https://example.org/a and https://example.org/b, then https://example.org/a again."

	links := verify.ExtractLinks(text)
	if len(links) != 2 {
		t.Fatalf("ExtractLinks = %v, want 2 unique links", links)
	}
	if links[0] != "https://example.org/a" || links[1] != "https://example.org/b" {
		t.Errorf("ExtractLinks = %v, want input order preserved", links)
	}
}

func TestExtractClaims(t *testing.T) {
	text := "Short one. The first substantial claim about the world! Another substantial claim follows here?"

	claims := verify.ExtractClaims(text)
	if len(claims) != 2 {
		t.Fatalf("ExtractClaims = %v, want 2 claims (short fragment skipped)", claims)
	}
}

func TestExtractClaimsCap(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 20; i++ {
		fmt.Fprintf(&b, "This is substantial analyzable sentence number %d. ", i)
	}

	claims := verify.ExtractClaims(b.String())
	if len(claims) != 10 {
		t.Errorf("ExtractClaims returned %d claims, want cap of 10", len(claims))
	}
}

func TestClaimFlags(t *testing.T) {
	tests := []struct {
		name      string
		claim     string
		wantFlags int
	}{
		{
			name:      "neutral claim",
			claim:     "The committee reviewed the proposal last month",
			wantFlags: 0,
		},
		{
			name:      "overconfident language",
			claim:     "This treatment definitely cures the disease",
			wantFlags: 1,
		},
		{
			name:      "unsourced statistic",
			claim:     "Exactly 97.5% of participants improved",
			wantFlags: 1,
		},
		{
			name:      "sourced statistic",
			claim:     "97.5% of participants improved according to the trial data",
			wantFlags: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flags := verify.ClaimFlags(tt.claim)
			if len(flags) != tt.wantFlags {
				t.Errorf("ClaimFlags(%q) = %v, want %d flags", tt.claim, flags, tt.wantFlags)
			}
		})
	}
}
