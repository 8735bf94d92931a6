// Package store persists verification decisions so repeat lookups for the
// same provider skip the search and classification steps.
package store

import (
	"context"
	"strings"
	"time"

	"github.com/reachpoint/provider-verify/internal/verify"
)

// CachedDecision is a stored decision with its cache metadata.
type CachedDecision struct {
	ID        string          `json:"id"`
	Key       string          `json:"key"`
	Provider  string          `json:"provider"`
	Location  string          `json:"location"`
	Decision  verify.Decision `json:"decision"`
	CreatedAt time.Time       `json:"created_at"`
	ExpiresAt time.Time       `json:"expires_at"`
}

// Store defines the persistence interface for the decision cache.
type Store interface {
	GetDecision(ctx context.Context, key string) (*CachedDecision, error)
	SetDecision(ctx context.Context, key, provider, location string, d verify.Decision, ttl time.Duration) error
	DeleteExpired(ctx context.Context) (int, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// Key builds the cache key for a provider lookup. Keys are case-insensitive
// so "Dr. Jane Smith" and "dr. jane smith" share an entry.
func Key(provider, location string) string {
	return strings.ToLower(strings.TrimSpace(provider)) + "|" + strings.ToLower(strings.TrimSpace(location))
}
