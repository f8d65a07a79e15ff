package verify

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/veridash/veridash/internal/llm"
	"github.com/veridash/veridash/internal/models"
)

// LLM is the verification backend that asks a language model for fact
// verdicts while keeping citation and link analysis heuristic.
type LLM struct {
	provider  llm.Provider
	heuristic *Simulated
}

// NewLLM creates the LLM-assisted backend.
func NewLLM(provider llm.Provider) *LLM {
	return &LLM{
		provider:  provider,
		heuristic: NewSimulated(WithLinkProbing(true)),
	}
}

// Name returns the backend name.
func (l *LLM) Name() string { return "llm" }

const factSystemPrompt = `You are a fact-checking expert. Assess each claim using your training knowledge.

Respond with a JSON object:
{
  "verdict": "true|false|mixed",
  "confidence": 0.0-1.0,
  "evidence": ["short supporting or contradicting points"],
  "sources": ["source names or URLs, if known"]
}

Verdict meanings:
- true: the claim is factually correct
- false: the claim is factually incorrect
- mixed: the claim is partially correct or context-dependent

Be conservative: if uncertain, use mixed with a lower confidence.
Only respond with the JSON object, no other text.`

type factResult struct {
	Verdict    string   `json:"verdict"`
	Confidence float64  `json:"confidence"`
	Evidence   []string `json:"evidence"`
	Sources    []string `json:"sources"`
}

// Verify runs heuristic extraction, then replaces the heuristic fact
// verdicts with model-produced ones. A per-claim model failure falls
// back to the heuristic verdict rather than failing the submission.
func (l *LLM) Verify(ctx context.Context, payload *models.SubmissionPayload) (*models.VerificationReport, error) {
	start := time.Now()

	report, err := l.heuristic.Verify(ctx, payload)
	if err != nil {
		return nil, err
	}

	facts := make([]models.Fact, 0, len(report.Results.Facts))
	var trueCount, falseCount, mixedCount int
	for _, f := range report.Results.Facts {
		checked, err := l.checkClaim(ctx, f.Claim)
		if err != nil {
			log.Warn().Err(err).Str("claim", truncate(f.Claim, 50)).Msg("Model fact check failed, keeping heuristic verdict")
			checked = f
		}
		switch checked.Verdict {
		case models.VerdictTrue:
			trueCount++
		case models.VerdictFalse:
			falseCount++
		case models.VerdictMixed:
			mixedCount++
		}
		facts = append(facts, checked)
	}

	// Rebuild the report so fact counters and the trust score reflect
	// the model verdicts.
	updated := *report
	updated.Results.Facts = facts
	updated.Metadata.TrueFacts = trueCount
	updated.Metadata.FalseFacts = falseCount
	updated.Metadata.MixedFacts = mixedCount
	updated.Metadata.ProcessingTime = time.Since(start).Seconds()

	score := 1.0
	if updated.Metadata.TotalCitations > 0 {
		ratio := float64(updated.Metadata.VerifiedCitations) / float64(updated.Metadata.TotalCitations)
		score *= 0.3 + 0.7*ratio
	}
	if updated.Metadata.TotalFacts > 0 {
		score *= 1.0 - (float64(falseCount)/float64(updated.Metadata.TotalFacts))*0.5
	}
	updated.TrustScore = models.Clamp01(score)

	return &updated, nil
}

func (l *LLM) checkClaim(ctx context.Context, claim string) (models.Fact, error) {
	opts := llm.DefaultCompletionOptions()
	response, err := l.provider.CompleteWithSystem(ctx, factSystemPrompt, "Claim to verify: "+claim, opts)
	if err != nil {
		return models.Fact{}, fmt.Errorf("fact check failed: %w", err)
	}

	result, err := parseFactResponse(response)
	if err != nil {
		return models.Fact{}, fmt.Errorf("failed to parse fact check response: %w", err)
	}

	verdict := models.VerdictMixed
	switch result.Verdict {
	case "true":
		verdict = models.VerdictTrue
	case "false":
		verdict = models.VerdictFalse
	case "mixed":
		verdict = models.VerdictMixed
	}

	evidence := result.Evidence
	if evidence == nil {
		evidence = []string{}
	}
	sources := result.Sources
	if sources == nil {
		sources = []string{}
	}

	return models.Fact{
		ID:         uuid.New().String(),
		Claim:      claim,
		Verdict:    verdict,
		Confidence: models.Clamp01(result.Confidence),
		Evidence:   evidence,
		Sources:    sources,
	}, nil
}

var codeBlockPattern = regexp.MustCompile("```(?:json)?\\s*([\\s\\S]*?)\\s*```")

func parseFactResponse(response string) (*factResult, error) {
	response = strings.TrimSpace(response)

	if strings.HasPrefix(response, "```") {
		if matches := codeBlockPattern.FindStringSubmatch(response); len(matches) > 1 {
			response = matches[1]
		}
	}

	var result factResult
	if err := json.Unmarshal([]byte(response), &result); err != nil {
		start := strings.Index(response, "{")
		end := strings.LastIndex(response, "}")
		if start < 0 || end <= start {
			return nil, fmt.Errorf("no JSON found in response")
		}
		if err := json.Unmarshal([]byte(response[start:end+1]), &result); err != nil {
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
	}
	return &result, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
