package classifier

import (
	"context"

	"go.uber.org/zap"

	"github.com/reachpoint/provider-verify/internal/verify"
)

// Fallback tries a primary classifier and degrades to a secondary one when
// the primary errors. The secondary is expected to always succeed on valid
// input (the heuristic engine qualifies); context validation errors are not
// retried, since the secondary would reject them too.
type Fallback struct {
	primary   Classifier
	secondary Classifier
}

// NewFallback composes two classifiers.
func NewFallback(primary, secondary Classifier) *Fallback {
	return &Fallback{primary: primary, secondary: secondary}
}

func (f *Fallback) Name() string {
	return f.primary.Name() + "+" + f.secondary.Name()
}

func (f *Fallback) Classify(ctx context.Context, vc verify.Context, candidates []verify.Candidate) (verify.Decision, error) {
	if err := vc.Validate(); err != nil {
		return verify.Decision{}, err
	}

	d, err := f.primary.Classify(ctx, vc, candidates)
	if err == nil {
		return d, nil
	}
	if ctx.Err() != nil {
		return verify.Decision{}, ctx.Err()
	}

	zap.L().Warn("classifier: primary failed, falling back",
		zap.String("primary", f.primary.Name()),
		zap.String("secondary", f.secondary.Name()),
		zap.String("provider", vc.ProviderName),
		zap.Error(err),
	)

	return f.secondary.Classify(ctx, vc, candidates)
}
