package verify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecide_EmptyInput(t *testing.T) {
	d := Decide(nil)
	assert.Nil(t, d.BestMatch)
	assert.Empty(t, d.Ranked)
	assert.NotNil(t, d.Ranked)
	assert.Equal(t, RecommendNoResults, d.Recommendation)
}

func TestDecide_DirectoryNeverBestMatch(t *testing.T) {
	// Even a directory with a (hypothetically) huge score cannot win.
	results := []Result{
		{
			URL: "https://healthgrades.com/x", Domain: "healthgrades.com",
			Valid: true, Type: TypeDirectory, Score: 95, Band: BandHigh,
			Signals: Signals{IsDirectory: true},
		},
	}
	d := Decide(results)
	assert.Nil(t, d.BestMatch)
	assert.Equal(t, RecommendAskName, d.Recommendation)
}

func TestDecide_TypePriorityBeatsScore(t *testing.T) {
	practice := Result{
		URL: "https://puredental.com", Domain: "puredental.com",
		Valid: true, Type: TypePractice, Score: 70, Band: BandMedium,
		Signals: Signals{IsPracticeWebsite: true},
	}
	social := Result{
		URL: "https://facebook.com/puredental", Domain: "facebook.com",
		Valid: true, Type: TypeSocialOfficial, Score: 85, Band: BandHigh,
		Signals: Signals{IsSocialMedia: true, OfficialSocial: true},
	}

	d := Decide([]Result{social, practice})
	require.NotNil(t, d.BestMatch)
	assert.Equal(t, "https://puredental.com", d.BestMatch.URL)
}

func TestDecide_StableOrderOnTies(t *testing.T) {
	a := Result{URL: "https://a.com", Valid: true, Type: TypeUnknown, Score: 55, Band: BandMedium}
	b := Result{URL: "https://b.com", Valid: true, Type: TypeUnknown, Score: 55, Band: BandMedium}

	d := Decide([]Result{a, b})
	require.Len(t, d.Ranked, 2)
	assert.Equal(t, "https://a.com", d.Ranked[0].URL)
	assert.Equal(t, "https://b.com", d.Ranked[1].URL)
}

func TestDecide_LowBandNoBestMatch(t *testing.T) {
	d := Decide([]Result{
		{URL: "https://weak.com", Valid: true, Type: TypeUnknown, Score: 20, Band: BandLow},
	})
	assert.Nil(t, d.BestMatch)
	assert.Equal(t, RecommendMoreInfo, d.Recommendation)
}

func TestDecide_Recommendations(t *testing.T) {
	t.Run("high practice", func(t *testing.T) {
		d := Decide([]Result{
			{URL: "https://puredental.com", Valid: true, Type: TypePractice, Score: 88, Band: BandHigh},
		})
		require.NotNil(t, d.BestMatch)
		assert.Equal(t, RecommendFound, d.Recommendation)
	})

	t.Run("medium match", func(t *testing.T) {
		d := Decide([]Result{
			{URL: "https://maybe.com", Valid: true, Type: TypeUnknown, Score: 60, Band: BandMedium},
		})
		require.NotNil(t, d.BestMatch)
		assert.Equal(t, RecommendConfirm, d.Recommendation)
	})

	t.Run("high social official", func(t *testing.T) {
		d := Decide([]Result{
			{URL: "https://facebook.com/p", Valid: true, Type: TypeSocialOfficial, Score: 85, Band: BandHigh},
		})
		require.NotNil(t, d.BestMatch)
		assert.Equal(t, RecommendConfirm, d.Recommendation, "only practice sites earn the found template")
	})
}

func TestDecide_InvalidURLNeverBestMatch(t *testing.T) {
	d := Decide([]Result{
		{URL: "puredental", Domain: "puredental", Valid: false, Type: TypeUnknown, Score: 55, Band: BandMedium},
	})
	assert.Nil(t, d.BestMatch)
}

func TestEvaluateAll_Deterministic(t *testing.T) {
	lists := DefaultDomainLists()
	w := DefaultWeights()
	vc := Context{ProviderName: "Jane Smith", PracticeName: "Pure Dental", Location: "Buffalo, NY"}
	cands := []Candidate{
		{URL: "https://puredental.com", Title: "Pure Dental - Home"},
		{URL: "https://www.healthgrades.com/physician/jane-smith"},
		{URL: "https://facebook.com/puredentalbuffalo", Title: "Pure Dental Buffalo"},
	}

	first := EvaluateAll(cands, vc, lists, w)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, EvaluateAll(cands, vc, lists, w))
	}
}

// End-to-end scenarios over the whole engine.

func TestEvaluate_PracticeWebsiteScenario(t *testing.T) {
	lists := DefaultDomainLists()
	w := DefaultWeights()
	vc := Context{ProviderName: "Jane Smith", PracticeName: "Pure Dental"}

	r := Evaluate(Candidate{URL: "https://puredental.com", Title: "Pure Dental - Home"}, vc, lists, w)

	assert.True(t, r.Signals.PracticeNameMatch)
	assert.True(t, r.Signals.NameInDomain)
	assert.True(t, r.Signals.HasCustomDomain)
	assert.True(t, r.Signals.HasSSL)
	assert.GreaterOrEqual(t, r.Score, 80.0)
	assert.Equal(t, BandHigh, r.Band)
	assert.Equal(t, TypePractice, r.Type)

	d := Decide([]Result{r})
	require.NotNil(t, d.BestMatch)
	assert.Equal(t, "https://puredental.com", d.BestMatch.URL)
}

func TestEvaluate_DirectoryScenario(t *testing.T) {
	lists := DefaultDomainLists()
	w := DefaultWeights()
	vc := Context{ProviderName: "Jane Smith"}

	r := Evaluate(Candidate{URL: "https://www.healthgrades.com/physician/jane-smith"}, vc, lists, w)

	assert.True(t, r.Signals.IsDirectory)
	assert.Equal(t, TypeDirectory, r.Type)
	assert.LessOrEqual(t, r.Score, 20.0)

	d := Decide([]Result{r})
	assert.Nil(t, d.BestMatch)
}

func TestEvaluate_MalformedURLScenario(t *testing.T) {
	lists := DefaultDomainLists()
	w := DefaultWeights()
	vc := Context{ProviderName: "Jane Smith", PracticeName: "Pure Dental"}

	r := Evaluate(Candidate{URL: "puredental"}, vc, lists, w)

	assert.False(t, r.Valid)
	assert.Equal(t, 0.0, r.Score)
	assert.Equal(t, BandLow, r.Band)
}

func TestContext_Validate(t *testing.T) {
	assert.Error(t, Context{}.Validate())
	assert.Error(t, Context{ProviderName: "  "}.Validate())
	assert.NoError(t, Context{ProviderName: "Jane Smith"}.Validate())
}
