package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/reachpoint/provider-verify/internal/verify"
	"github.com/reachpoint/provider-verify/pkg/anthropic"
)

// llmPrompt is the system prompt for LLM candidate ranking.
const llmPrompt = `You are verifying which search result, if any, is a healthcare provider's own practice website. Directory sites (HealthGrades, Zocdoc, WebMD, Yelp and similar aggregators) are never the practice's own website. Social media pages count only when they are clearly the practice's official page.

Respond with ONLY valid JSON, no other text:
{"matches": [{"url": "...", "confidence": 0, "reason": "..."}]}

Include only candidates you judge to plausibly be the provider's own site or official page, ordered best first, confidence on a 0-100 scale.`

// llmResponse is the JSON shape expected back from the model.
type llmResponse struct {
	Matches []llmMatch `json:"matches"`
}

type llmMatch struct {
	URL        string  `json:"url"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason"`
}

// LLM ranks candidates with Claude, then re-validates the model's answer
// against the heuristic engine's hard invariants: score bounds and the
// directory veto hold no matter what the model says.
type LLM struct {
	ai      anthropic.Client
	model   string
	lists   verify.DomainLists
	weights verify.Weights
}

// NewLLM creates an LLM classifier.
func NewLLM(ai anthropic.Client, model string, lists verify.DomainLists, weights verify.Weights) *LLM {
	return &LLM{ai: ai, model: model, lists: lists, weights: weights}
}

func (l *LLM) Name() string { return "llm" }

func (l *LLM) Classify(ctx context.Context, vc verify.Context, candidates []verify.Candidate) (verify.Decision, error) {
	if err := vc.Validate(); err != nil {
		return verify.Decision{}, err
	}
	if len(candidates) == 0 {
		return verify.Decide(nil), nil
	}

	resp, err := l.ai.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     l.model,
		MaxTokens: 1024,
		System:    llmPrompt,
		Messages: []anthropic.Message{
			{Role: "user", Content: buildUserMessage(vc, candidates)},
		},
	})
	if err != nil {
		return verify.Decision{}, eris.Wrap(err, "classifier: llm request")
	}

	parsed, err := parseLLMResponse(resp.Text())
	if err != nil {
		return verify.Decision{}, err
	}

	return l.merge(parsed, vc, candidates), nil
}

// buildUserMessage renders the context and numbered candidates for the model.
func buildUserMessage(vc verify.Context, candidates []verify.Candidate) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Provider: %s\n", vc.ProviderName)
	if vc.PracticeName != "" {
		fmt.Fprintf(&b, "Practice: %s\n", vc.PracticeName)
	}
	if vc.Location != "" {
		fmt.Fprintf(&b, "Location: %s\n", vc.Location)
	}
	if vc.Specialty != "" {
		fmt.Fprintf(&b, "Specialty: %s\n", vc.Specialty)
	}
	b.WriteString("\nCandidates:\n")
	for i, c := range candidates {
		fmt.Fprintf(&b, "%d. %s\n   title: %s\n   description: %s\n", i+1, c.URL, c.Title, c.Description)
	}
	return b.String()
}

// parseLLMResponse extracts and unmarshals the JSON object from the model's
// reply, tolerating surrounding prose.
func parseLLMResponse(text string) (*llmResponse, error) {
	if text == "" {
		return nil, eris.New("classifier: empty llm response")
	}

	jsonStart := strings.Index(text, "{")
	jsonEnd := strings.LastIndex(text, "}")
	if jsonStart < 0 || jsonEnd <= jsonStart {
		return nil, eris.Errorf("classifier: no JSON in llm response: %s", text)
	}

	var parsed llmResponse
	if err := json.Unmarshal([]byte(text[jsonStart:jsonEnd+1]), &parsed); err != nil {
		return nil, eris.Wrap(err, "classifier: parse llm response")
	}
	return &parsed, nil
}

// merge maps the model's matches back onto heuristic results. Every candidate
// still runs through signal extraction, so directory candidates stay vetoed
// and scores stay clamped; the model only re-weights confidence and
// contributes its reason to the rationale.
func (l *LLM) merge(parsed *llmResponse, vc verify.Context, candidates []verify.Candidate) verify.Decision {
	byURL := make(map[string]llmMatch, len(parsed.Matches))
	for _, m := range parsed.Matches {
		byURL[m.URL] = m
	}

	results := make([]verify.Result, 0, len(candidates))
	for _, c := range candidates {
		r := verify.Evaluate(c, vc, l.lists, l.weights)
		if m, ok := byURL[c.URL]; ok && r.Valid && !r.Signals.IsDirectory {
			conf := m.Confidence
			if conf < 0 {
				conf = 0
			}
			if conf > 100 {
				conf = 100
			}
			r.Score = conf
			r.Band = verify.BandFor(conf)
			if m.Reason != "" {
				r.Rationale = append([]string{"model: " + m.Reason}, r.Rationale...)
			}
		}
		results = append(results, r)
	}

	return verify.Decide(results)
}
