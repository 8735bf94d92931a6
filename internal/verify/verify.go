// Package verify implements the practice-website verification engine: given a
// provider's identity and a set of web-search candidates, it decides which
// candidate (if any) is the provider's authentic practice website, with a
// confidence score and a human-readable rationale.
package verify

import (
	"strings"

	"github.com/rotisserie/eris"
)

// Candidate is a single search result under evaluation. Fields other than URL
// are optional and may be empty; the engine never assumes they are present.
type Candidate struct {
	URL         string `json:"url"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}

// Context holds the fixed inputs of one verification query.
type Context struct {
	ProviderName string `json:"provider_name"`
	PracticeName string `json:"practice_name,omitempty"`
	Location     string `json:"location,omitempty"` // free-form "City, ST"
	Specialty    string `json:"specialty,omitempty"`
}

// Validate checks the Context invariants. Only the provider name is required;
// missing optional fields degrade scoring, they never block it.
func (c Context) Validate() error {
	if strings.TrimSpace(c.ProviderName) == "" {
		return eris.New("verify: provider name is required")
	}
	return nil
}

// CandidateType classifies what kind of site a candidate is. It drives the
// tie-break priority when two candidates score equally.
type CandidateType string

const (
	TypePractice       CandidateType = "practice"
	TypeSocialOfficial CandidateType = "social_official"
	TypeSocial         CandidateType = "social"
	TypeHospital       CandidateType = "hospital_system"
	TypeUnknown        CandidateType = "unknown"
	TypeDirectory      CandidateType = "directory"
)

// typePriority orders candidate types for ranking: practice sites beat
// official social pages, which beat unknown sites, which beat everything the
// provider does not control.
var typePriority = map[CandidateType]int{
	TypePractice:       5,
	TypeSocialOfficial: 4,
	TypeUnknown:        3,
	TypeHospital:       2,
	TypeSocial:         1,
	TypeDirectory:      0,
}

// Priority returns the ranking priority for a candidate type. Unrecognized
// types rank lowest.
func (t CandidateType) Priority() int {
	return typePriority[t]
}

// Signals are the per-candidate facts computed during extraction. IsDirectory
// and IsPracticeWebsite are mutually exclusive: a directory match
// short-circuits all other signal computation.
type Signals struct {
	Class                DomainClass `json:"class"`
	IsDirectory          bool        `json:"is_directory"`
	IsSocialMedia        bool        `json:"is_social_media"`
	OfficialSocial       bool        `json:"official_social,omitempty"`
	SocialPlatform       string      `json:"social_platform,omitempty"`
	HasCustomDomain      bool        `json:"has_custom_domain"`
	PracticeNameMatch    bool        `json:"practice_name_match"`
	NameInDomain         bool        `json:"name_in_domain"`
	LocationMatch        bool        `json:"location_match"`
	HasPracticeIndicator bool        `json:"has_practice_indicator"`
	HasSSL               bool        `json:"has_ssl"`
	HasContactInfo       bool        `json:"has_contact_info"`
	ProviderNameFound    bool        `json:"provider_name_found"`
	IsPracticeWebsite    bool        `json:"is_practice_website"`
}

// Band discretizes a score for decision-making.
type Band string

const (
	BandHigh   Band = "high"
	BandMedium Band = "medium"
	BandLow    Band = "low"
)

// Band thresholds. Scores at or above BandHighMin are high confidence,
// at or above BandMediumMin medium, anything else low.
const (
	BandHighMin   = 80.0
	BandMediumMin = 50.0
)

// BandFor maps a 0-100 score to its confidence band.
func BandFor(score float64) Band {
	switch {
	case score >= BandHighMin:
		return BandHigh
	case score >= BandMediumMin:
		return BandMedium
	default:
		return BandLow
	}
}

// Result is the scored outcome for one candidate.
type Result struct {
	URL       string        `json:"url"`
	Domain    string        `json:"domain"`
	Valid     bool          `json:"valid"`
	Type      CandidateType `json:"type"`
	Score     float64       `json:"score"`
	Band      Band          `json:"band"`
	Signals   Signals       `json:"signals"`
	Rationale []string      `json:"rationale,omitempty"`
}

// Decision is the final answer for one verification query.
type Decision struct {
	BestMatch      *Result  `json:"best_match,omitempty"`
	Ranked         []Result `json:"ranked"`
	Recommendation string   `json:"recommendation"`
}

// Evaluate runs the full per-candidate path: normalize, classify, extract
// signals, score, band. It is pure and never fails; malformed input produces
// a zero-scored, low-band result.
func Evaluate(c Candidate, vc Context, lists DomainLists, w Weights) Result {
	nu := Normalize(c.URL)

	sig := ExtractSignals(c, vc, lists)
	score, rationale := ScoreSignals(sig, w)

	r := Result{
		URL:       c.URL,
		Domain:    nu.Domain,
		Valid:     nu.Valid,
		Type:      candidateType(sig),
		Score:     score,
		Band:      BandFor(score),
		Signals:   sig,
		Rationale: rationale,
	}

	if !nu.Valid {
		r.Score = 0
		r.Band = BandLow
		r.Rationale = []string{"URL could not be parsed"}
	}
	return r
}

// EvaluateAll evaluates every candidate and aggregates the decision.
func EvaluateAll(cands []Candidate, vc Context, lists DomainLists, w Weights) Decision {
	results := make([]Result, 0, len(cands))
	for _, c := range cands {
		results = append(results, Evaluate(c, vc, lists, w))
	}
	return Decide(results)
}

// candidateType derives the candidate type from its signals.
func candidateType(sig Signals) CandidateType {
	switch {
	case sig.IsDirectory:
		return TypeDirectory
	case sig.OfficialSocial:
		return TypeSocialOfficial
	case sig.IsSocialMedia:
		return TypeSocial
	case sig.Class == ClassHospital:
		return TypeHospital
	case sig.IsPracticeWebsite:
		return TypePractice
	default:
		return TypeUnknown
	}
}
