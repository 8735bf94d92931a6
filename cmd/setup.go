package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/reachpoint/provider-verify/internal/classifier"
	"github.com/reachpoint/provider-verify/internal/pipeline"
	"github.com/reachpoint/provider-verify/internal/store"
	"github.com/reachpoint/provider-verify/internal/verify"
	"github.com/reachpoint/provider-verify/pkg/anthropic"
	"github.com/reachpoint/provider-verify/pkg/brave"
)

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.DatabaseURL
		if dsn == "" {
			dsn = "provider-verify.db"
		}
		return store.NewSQLite(dsn)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, nil)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

// loadLists returns the domain lists, applying YAML overrides when a lists
// file is configured.
func loadLists() verify.DomainLists {
	if cfg.Verify.ListsPath == "" {
		return verify.DefaultDomainLists()
	}
	lists, err := verify.LoadDomainLists(cfg.Verify.ListsPath)
	if err != nil {
		zap.L().Warn("lists file not loaded, using defaults",
			zap.String("path", cfg.Verify.ListsPath),
			zap.Error(err),
		)
	}
	return lists
}

// buildClassifier picks the strategy: heuristic by default, LLM with
// heuristic fallback when requested and an API key is configured.
func buildClassifier(useLLM bool) (classifier.Classifier, error) {
	lists := loadLists()

	heuristic, err := classifier.NewHeuristic(lists, cfg.Verify.Weights)
	if err != nil {
		return nil, err
	}
	if !useLLM {
		return heuristic, nil
	}
	if cfg.Anthropic.Key == "" {
		return nil, eris.New("anthropic API key is required for --llm (PROVIDER_VERIFY_ANTHROPIC_KEY)")
	}

	ai := anthropic.NewClient(cfg.Anthropic.Key)
	llm := classifier.NewLLM(ai, cfg.Anthropic.Model, lists, cfg.Verify.Weights)
	return classifier.NewFallback(llm, heuristic), nil
}

// buildVerifier wires the full pipeline. The returned cleanup closes the
// store; it is safe to call when caching is disabled.
func buildVerifier(ctx context.Context, useLLM, noCache bool) (*pipeline.Verifier, func(), error) {
	if cfg.Brave.Key == "" {
		return nil, nil, eris.New("brave API key is required (PROVIDER_VERIFY_BRAVE_KEY)")
	}

	cls, err := buildClassifier(useLLM)
	if err != nil {
		return nil, nil, err
	}

	search := brave.NewClient(cfg.Brave.Key,
		brave.WithBaseURL(cfg.Brave.BaseURL),
		brave.WithCount(cfg.Brave.ResultCount),
	)

	opts := []pipeline.Option{
		pipeline.WithRateLimit(cfg.Brave.RatePerSecond, cfg.Brave.RateBurst),
	}

	cleanup := func() {}
	if !noCache {
		st, err := initStore(ctx)
		if err != nil {
			return nil, nil, err
		}
		if err := st.Migrate(ctx); err != nil {
			st.Close()
			return nil, nil, eris.Wrap(err, "migrate store")
		}
		opts = append(opts, pipeline.WithStore(st, time.Duration(cfg.Store.TTLHours)*time.Hour))
		cleanup = func() { st.Close() }
	}

	return pipeline.New(search, cls, opts...), cleanup, nil
}
