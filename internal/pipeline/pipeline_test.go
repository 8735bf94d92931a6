package pipeline

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reachpoint/provider-verify/internal/classifier"
	"github.com/reachpoint/provider-verify/internal/store"
	"github.com/reachpoint/provider-verify/internal/verify"
	"github.com/reachpoint/provider-verify/pkg/brave"
)

// mockSearch returns canned results and records queries.
type mockSearch struct {
	mu      sync.Mutex
	queries []string
	results []brave.Result
	err     error
}

func (m *mockSearch) Search(_ context.Context, query string) (*brave.SearchResponse, error) {
	m.mu.Lock()
	m.queries = append(m.queries, query)
	m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return &brave.SearchResponse{Web: brave.WebResults{Results: m.results}}, nil
}

// memStore is an in-memory Store for pipeline tests.
type memStore struct {
	mu        sync.Mutex
	decisions map[string]verify.Decision
	getErr    error
}

func newMemStore() *memStore {
	return &memStore{decisions: map[string]verify.Decision{}}
}

func (m *memStore) GetDecision(_ context.Context, key string) (*store.CachedDecision, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	d, ok := m.decisions[key]
	if !ok {
		return nil, nil
	}
	return &store.CachedDecision{Key: key, Decision: d}, nil
}

func (m *memStore) SetDecision(_ context.Context, key, _, _ string, d verify.Decision, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.decisions[key] = d
	return nil
}

func (m *memStore) DeleteExpired(context.Context) (int, error) { return 0, nil }
func (m *memStore) Migrate(context.Context) error              { return nil }
func (m *memStore) Close() error                               { return nil }

func newTestVerifier(t *testing.T, search brave.Client, opts ...Option) *Verifier {
	t.Helper()
	h, err := classifier.NewHeuristic(verify.DefaultDomainLists(), verify.DefaultWeights())
	require.NoError(t, err)
	opts = append(opts, WithRateLimit(1000, 1000))
	return New(search, h, opts...)
}

func practiceResults() []brave.Result {
	return []brave.Result{
		{URL: "https://puredental.com", Title: "Pure Dental - Home", Description: "Call (512) 555-0147 to schedule"},
		{URL: "https://www.healthgrades.com/dentist/jane-smith", Title: "Dr. Jane Smith - Healthgrades"},
	}
}

func TestVerifier_Run(t *testing.T) {
	search := &mockSearch{results: practiceResults()}
	v := newTestVerifier(t, search)

	d, err := v.Run(context.Background(), verify.Context{
		ProviderName: "Jane Smith",
		PracticeName: "Pure Dental",
		Location:     "Austin, TX",
	})
	require.NoError(t, err)
	require.NotNil(t, d.BestMatch)
	assert.Equal(t, "https://puredental.com", d.BestMatch.URL)

	require.Len(t, search.queries, 1)
	assert.Contains(t, search.queries[0], "Jane Smith")
	assert.Contains(t, search.queries[0], "Pure Dental")
	assert.Contains(t, search.queries[0], "practice website")
}

func TestVerifier_Run_InvalidContext(t *testing.T) {
	v := newTestVerifier(t, &mockSearch{})
	_, err := v.Run(context.Background(), verify.Context{})
	require.Error(t, err)
}

func TestVerifier_Run_SearchUnavailable(t *testing.T) {
	search := &mockSearch{err: eris.New("connection refused")}
	v := newTestVerifier(t, search)

	_, err := v.Run(context.Background(), verify.Context{ProviderName: "Jane Smith"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSearchUnavailable)
}

func TestVerifier_Run_EmptyResults(t *testing.T) {
	v := newTestVerifier(t, &mockSearch{})

	d, err := v.Run(context.Background(), verify.Context{ProviderName: "Jane Smith"})
	require.NoError(t, err)
	assert.Nil(t, d.BestMatch)
	assert.Equal(t, verify.RecommendNoResults, d.Recommendation)
}

func TestVerifier_Run_CacheHitSkipsSearch(t *testing.T) {
	search := &mockSearch{results: practiceResults()}
	st := newMemStore()
	v := newTestVerifier(t, search, WithStore(st, time.Hour))
	vc := verify.Context{ProviderName: "Jane Smith", PracticeName: "Pure Dental"}

	first, err := v.Run(context.Background(), vc)
	require.NoError(t, err)

	second, err := v.Run(context.Background(), vc)
	require.NoError(t, err)

	assert.Len(t, search.queries, 1)
	assert.Equal(t, first.Recommendation, second.Recommendation)
	require.NotNil(t, second.BestMatch)
	assert.Equal(t, first.BestMatch.URL, second.BestMatch.URL)
}

func TestVerifier_Run_CacheFailureIgnored(t *testing.T) {
	search := &mockSearch{results: practiceResults()}
	st := newMemStore()
	st.getErr = eris.New("disk gone")
	v := newTestVerifier(t, search, WithStore(st, time.Hour))

	d, err := v.Run(context.Background(), verify.Context{ProviderName: "Jane Smith", PracticeName: "Pure Dental"})
	require.NoError(t, err)
	require.NotNil(t, d.BestMatch)
}

func TestVerifier_RunBatch(t *testing.T) {
	search := &mockSearch{results: practiceResults()}
	v := newTestVerifier(t, search)

	contexts := []verify.Context{
		{ProviderName: "Jane Smith", PracticeName: "Pure Dental"},
		{ProviderName: "John Doe"},
		{}, // invalid, fails alone
	}

	results := v.RunBatch(context.Background(), contexts, 2)
	require.Len(t, results, 3)

	assert.NoError(t, results[0].Err)
	require.NotNil(t, results[0].Decision.BestMatch)
	assert.NoError(t, results[1].Err)
	assert.Error(t, results[2].Err)

	// Output order follows input order regardless of scheduling.
	assert.Equal(t, "Jane Smith", results[0].Context.ProviderName)
	assert.Equal(t, "John Doe", results[1].Context.ProviderName)
}

func TestBuildQuery(t *testing.T) {
	tests := []struct {
		name string
		vc   verify.Context
		want string
	}{
		{
			"all fields",
			verify.Context{ProviderName: "Jane Smith", PracticeName: "Pure Dental", Specialty: "Dentistry", Location: "Austin, TX"},
			"Jane Smith Pure Dental Dentistry Austin, TX practice website",
		},
		{
			"name only",
			verify.Context{ProviderName: "Jane Smith"},
			"Jane Smith practice website",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, buildQuery(tt.vc))
		})
	}
}
