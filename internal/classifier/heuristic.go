package classifier

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/reachpoint/provider-verify/internal/verify"
)

// Heuristic scores candidates with the verify engine's fixed weight table.
// It is the always-available strategy: given a valid context it cannot fail.
type Heuristic struct {
	lists   verify.DomainLists
	weights verify.Weights
}

// NewHeuristic creates a heuristic classifier. The weight table is validated
// up front so a bad config fails at construction, not per query.
func NewHeuristic(lists verify.DomainLists, weights verify.Weights) (*Heuristic, error) {
	if err := verify.ValidateWeights(weights); err != nil {
		return nil, eris.Wrap(err, "classifier: heuristic")
	}
	return &Heuristic{lists: lists, weights: weights}, nil
}

func (h *Heuristic) Name() string { return "heuristic" }

func (h *Heuristic) Classify(_ context.Context, vc verify.Context, candidates []verify.Candidate) (verify.Decision, error) {
	if err := vc.Validate(); err != nil {
		return verify.Decision{}, err
	}
	return verify.EvaluateAll(candidates, vc, h.lists, h.weights), nil
}
