// Package pipeline orchestrates a verification run: cache lookup, web
// search, classification, and cache write-back.
package pipeline

import (
	"context"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/reachpoint/provider-verify/internal/classifier"
	"github.com/reachpoint/provider-verify/internal/store"
	"github.com/reachpoint/provider-verify/internal/verify"
	"github.com/reachpoint/provider-verify/pkg/brave"
)

// ErrSearchUnavailable marks search collaborator failures so callers can
// distinguish them from classification errors and degrade gracefully.
var ErrSearchUnavailable = eris.New("pipeline: search unavailable")

// Verifier runs the verification pipeline for providers.
type Verifier struct {
	search     brave.Client
	classifier classifier.Classifier
	store      store.Store // nil disables caching
	limiter    *rate.Limiter
	cacheTTL   time.Duration
}

// Option configures a Verifier.
type Option func(*Verifier)

// WithStore enables decision caching with the given TTL.
func WithStore(st store.Store, ttl time.Duration) Option {
	return func(v *Verifier) {
		v.store = st
		v.cacheTTL = ttl
	}
}

// WithRateLimit caps search calls per second.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(v *Verifier) {
		v.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// New creates a Verifier. The store is optional; without one every run
// searches fresh.
func New(search brave.Client, cls classifier.Classifier, opts ...Option) *Verifier {
	v := &Verifier{
		search:     search,
		classifier: cls,
		limiter:    rate.NewLimiter(rate.Limit(1), 2),
		cacheTTL:   24 * time.Hour,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Run verifies a single provider. A cached decision short-circuits both the
// search and the classifier; cache failures are logged and ignored so the
// cache can never change the outcome, only skip work.
func (v *Verifier) Run(ctx context.Context, vc verify.Context) (verify.Decision, error) {
	if err := vc.Validate(); err != nil {
		return verify.Decision{}, err
	}

	log := zap.L().With(
		zap.String("provider", vc.ProviderName),
		zap.String("location", vc.Location),
	)

	key := store.Key(vc.ProviderName, vc.Location)
	if v.store != nil {
		cached, err := v.store.GetDecision(ctx, key)
		if err != nil {
			log.Warn("pipeline: cache lookup failed", zap.Error(err))
		} else if cached != nil {
			log.Debug("pipeline: cache hit")
			return cached.Decision, nil
		}
	}

	if err := v.limiter.Wait(ctx); err != nil {
		return verify.Decision{}, eris.Wrap(err, "pipeline: rate limit wait")
	}

	query := buildQuery(vc)
	resp, err := v.search.Search(ctx, query)
	if err != nil {
		return verify.Decision{}, eris.Wrap(ErrSearchUnavailable, err.Error())
	}

	candidates := make([]verify.Candidate, 0, len(resp.Web.Results))
	for _, r := range resp.Web.Results {
		candidates = append(candidates, verify.Candidate{
			URL:         r.URL,
			Title:       r.Title,
			Description: r.Description,
		})
	}
	log.Info("pipeline: search complete",
		zap.String("query", query),
		zap.Int("candidates", len(candidates)),
	)

	decision, err := v.classifier.Classify(ctx, vc, candidates)
	if err != nil {
		return verify.Decision{}, eris.Wrap(err, "pipeline: classify")
	}

	if v.store != nil {
		if err := v.store.SetDecision(ctx, key, vc.ProviderName, vc.Location, decision, v.cacheTTL); err != nil {
			log.Warn("pipeline: cache write failed", zap.Error(err))
		}
	}
	return decision, nil
}

// BatchResult pairs a context with its outcome. Err is set when that
// provider's run failed; other providers are unaffected.
type BatchResult struct {
	Context  verify.Context
	Decision verify.Decision
	Err      error
}

// RunBatch verifies providers concurrently with at most `concurrency` runs
// in flight. Results are returned in input order.
func (v *Verifier) RunBatch(ctx context.Context, contexts []verify.Context, concurrency int) []BatchResult {
	if concurrency <= 0 {
		concurrency = 4
	}

	results := make([]BatchResult, len(contexts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, vc := range contexts {
		g.Go(func() error {
			d, err := v.Run(gctx, vc)
			results[i] = BatchResult{Context: vc, Decision: d, Err: err}
			// Per-provider failures are recorded, not propagated, so one
			// bad row cannot cancel the rest of the batch.
			return nil
		})
	}
	g.Wait() //nolint:errcheck

	return results
}

// buildQuery renders the search query for a provider context.
func buildQuery(vc verify.Context) string {
	parts := []string{vc.ProviderName}
	if vc.PracticeName != "" {
		parts = append(parts, vc.PracticeName)
	}
	if vc.Specialty != "" {
		parts = append(parts, vc.Specialty)
	}
	if vc.Location != "" {
		parts = append(parts, vc.Location)
	}
	parts = append(parts, "practice website")
	return strings.Join(parts, " ")
}
