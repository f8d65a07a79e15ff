// Package verify provides the verification service boundary and its backends.
package verify

import (
	"regexp"
	"strings"
)

// ExtractedCitation is a bibliographic reference found in raw text.
type ExtractedCitation struct {
	Text    string
	Authors string
	Year    int
	Title   string
	URL     string
}

var (
	apaPattern     = regexp.MustCompile(`([A-Z][a-z]+(?:,?\s+[A-Z]\.?)*)\s+\((\d{4})\)\.?\s*([^.]+)\.?\s*(https?://\S+)?`)
	bracketPattern = regexp.MustCompile(`\[([^,]+),\s*(\d{4}),\s*([^\]]+)\]`)
	urlPattern     = regexp.MustCompile(`https?://[^\s)\]"'<>]+`)

	overconfidentPattern = regexp.MustCompile(`(?i)\b(definitely|certainly|absolutely|undoubtedly|all|every|always|never)\b`)
	hedgedSourcePattern  = regexp.MustCompile(`(?i)\b(studies show|research proves|scientists confirm)\b`)
	statisticPattern     = regexp.MustCompile(`\b\d+(?:\.\d+)?%|\b\d+(?:,\d{3})+(?:\.\d+)?\b`)
	sourcedPattern       = regexp.MustCompile(`(?i)https?://|according to`)

	sentenceSplit = regexp.MustCompile(`[.!?]+`)
)

// ExtractCitations finds APA-style and bracketed citations in text.
func ExtractCitations(text string) []ExtractedCitation {
	var citations []ExtractedCitation

	for _, m := range apaPattern.FindAllStringSubmatch(text, -1) {
		citations = append(citations, ExtractedCitation{
			Text:    strings.TrimSpace(m[0]),
			Authors: strings.TrimSpace(m[1]),
			Year:    atoiYear(m[2]),
			Title:   strings.TrimSpace(m[3]),
			URL:     m[4],
		})
	}

	for _, m := range bracketPattern.FindAllStringSubmatch(text, -1) {
		citations = append(citations, ExtractedCitation{
			Text:    m[0],
			Authors: strings.TrimSpace(m[1]),
			Year:    atoiYear(m[2]),
			Title:   strings.TrimSpace(m[3]),
		})
	}

	return citations
}

// ExtractLinks finds all hyperlinks in text, deduplicated in order.
func ExtractLinks(text string) []string {
	seen := make(map[string]bool)
	var links []string
	for _, u := range urlPattern.FindAllString(text, -1) {
		u = strings.TrimRight(u, ".,;")
		if !seen[u] {
			seen[u] = true
			links = append(links, u)
		}
	}
	return links
}

// maxClaims caps how many sentences are analyzed per submission.
const maxClaims = 10

// ExtractClaims splits text into checkable claim sentences. Short
// fragments are skipped and at most maxClaims sentences are returned.
func ExtractClaims(text string) []string {
	var claims []string
	for _, s := range sentenceSplit.Split(text, -1) {
		s = strings.TrimSpace(s)
		if len(s) > 20 {
			claims = append(claims, s)
		}
		if len(claims) == maxClaims {
			break
		}
	}
	return claims
}

// ClaimFlags lists heuristic hallucination indicators for a claim.
func ClaimFlags(claim string) []string {
	var flags []string
	if overconfidentPattern.MatchString(claim) || hedgedSourcePattern.MatchString(claim) {
		flags = append(flags, "Overconfident language detected")
	}
	if statisticPattern.MatchString(claim) && !sourcedPattern.MatchString(claim) {
		flags = append(flags, "Specific statistics without source")
	}
	return flags
}

func atoiYear(s string) int {
	year := 0
	for _, c := range s {
		year = year*10 + int(c-'0')
	}
	return year
}
