package verify

import (
	"fmt"
	"math"
	"strings"

	"github.com/rotisserie/eris"
)

// Weights is the additive scoring table. All weights are points on the 0-100
// scale; the total is clamped after summing. Every weight must be
// non-negative so that flipping any single signal on can never lower a score.
type Weights struct {
	PracticeWebsite   float64 `yaml:"practice_website" mapstructure:"practice_website"`
	PracticeNameMatch float64 `yaml:"practice_name_match" mapstructure:"practice_name_match"`
	CustomDomain      float64 `yaml:"custom_domain" mapstructure:"custom_domain"`
	LocationMatch     float64 `yaml:"location_match" mapstructure:"location_match"`
	OfficialSocial    float64 `yaml:"official_social" mapstructure:"official_social"`
	SocialWeak        float64 `yaml:"social_weak" mapstructure:"social_weak"`
	DirectoryListing  float64 `yaml:"directory_listing" mapstructure:"directory_listing"`
	SSL               float64 `yaml:"ssl" mapstructure:"ssl"`
	ContactInfo       float64 `yaml:"contact_info" mapstructure:"contact_info"`
	NameInDomainBonus float64 `yaml:"name_in_domain_bonus" mapstructure:"name_in_domain_bonus"`
	ProviderNameBonus float64 `yaml:"provider_name_bonus" mapstructure:"provider_name_bonus"`

	// PlatformBonus grants extra points to official social pages on
	// platforms where practices maintain real presences.
	PlatformBonus map[string]float64 `yaml:"platform_bonus" mapstructure:"platform_bonus"`
}

// DefaultWeights returns the canonical weight table.
func DefaultWeights() Weights {
	return Weights{
		PracticeWebsite:   40,
		PracticeNameMatch: 20,
		CustomDomain:      15,
		LocationMatch:     10,
		OfficialSocial:    40,
		SocialWeak:        5,
		DirectoryListing:  5,
		SSL:               3,
		ContactInfo:       2,
		NameInDomainBonus: 10,
		ProviderNameBonus: 5,
		PlatformBonus: map[string]float64{
			"facebook":  10,
			"instagram": 8,
		},
	}
}

// ValidateWeights checks that a weight table is usable: no negative entries,
// and at least one positive weight.
func ValidateWeights(w Weights) error {
	named := map[string]float64{
		"practice_website":     w.PracticeWebsite,
		"practice_name_match":  w.PracticeNameMatch,
		"custom_domain":        w.CustomDomain,
		"location_match":       w.LocationMatch,
		"official_social":      w.OfficialSocial,
		"social_weak":          w.SocialWeak,
		"directory_listing":    w.DirectoryListing,
		"ssl":                  w.SSL,
		"contact_info":         w.ContactInfo,
		"name_in_domain_bonus": w.NameInDomainBonus,
		"provider_name_bonus":  w.ProviderNameBonus,
	}

	var errs []string
	var sum float64
	for name, v := range named {
		if v < 0 {
			errs = append(errs, fmt.Sprintf("%s must be >= 0", name))
		}
		sum += v
	}
	for platform, v := range w.PlatformBonus {
		if v < 0 {
			errs = append(errs, fmt.Sprintf("platform_bonus.%s must be >= 0", platform))
		}
	}
	if sum <= 0 {
		errs = append(errs, "weight sum must be > 0")
	}

	if len(errs) > 0 {
		return eris.Errorf("verify: weight validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// ScoreSignals combines signals into a 0-100 score plus the ordered rationale
// lines that explain it. Directory candidates get a fixed low score and no
// further credit.
func ScoreSignals(sig Signals, w Weights) (float64, []string) {
	if sig.IsDirectory {
		return clampScore(w.DirectoryListing), []string{"known directory or aggregator site"}
	}

	var score float64
	var rationale []string
	add := func(pts float64, reason string) {
		if pts <= 0 {
			return
		}
		score += pts
		rationale = append(rationale, fmt.Sprintf("%s (+%g)", reason, pts))
	}

	if sig.IsPracticeWebsite {
		add(w.PracticeWebsite, "looks like a practice website")
	}
	if sig.PracticeNameMatch {
		add(w.PracticeNameMatch, "practice name appears in result")
	}
	if sig.HasCustomDomain {
		add(w.CustomDomain, "custom domain")
	}
	if sig.LocationMatch {
		add(w.LocationMatch, "location matches")
	}
	if sig.IsSocialMedia {
		if sig.OfficialSocial {
			add(w.OfficialSocial, "official social media page")
			if bonus, ok := w.PlatformBonus[sig.SocialPlatform]; ok {
				add(bonus, sig.SocialPlatform+" platform bonus")
			}
		} else {
			add(w.SocialWeak, "social media mention")
		}
	}
	if sig.HasSSL {
		add(w.SSL, "serves over HTTPS")
	}
	if sig.HasContactInfo {
		add(w.ContactInfo, "contact details present")
	}
	if sig.NameInDomain {
		add(w.NameInDomainBonus, "practice name in domain")
	}
	if sig.ProviderNameFound {
		add(w.ProviderNameBonus, "provider's full name found")
	}

	return clampScore(score), rationale
}

func clampScore(s float64) float64 {
	return math.Max(0, math.Min(100, s))
}
