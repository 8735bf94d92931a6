// Package classifier provides interchangeable strategies for turning search
// candidates into a verification decision: a pure heuristic engine and an
// LLM-backed ranker, composed behind a common interface with availability
// fallback.
package classifier

import (
	"context"

	"github.com/reachpoint/provider-verify/internal/verify"
)

// Classifier selects and scores practice-website candidates for a provider.
type Classifier interface {
	Name() string
	Classify(ctx context.Context, vc verify.Context, candidates []verify.Candidate) (verify.Decision, error)
}
