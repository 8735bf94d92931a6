package verify

import "strings"

// DomainClass is the outcome of the disqualifier rules.
type DomainClass string

const (
	ClassDirectory    DomainClass = "directory"
	ClassSocial       DomainClass = "social"
	ClassHospital     DomainClass = "hospital_system"
	ClassBuilder      DomainClass = "builder"
	ClassUnclassified DomainClass = "unclassified"
)

// Classify matches a domain against the known lists. Matching is
// case-insensitive substring over the full domain, checked in fixed priority
// order: directory, then social, then hospital, then builder. First match
// wins.
func (l DomainLists) Classify(domain string) DomainClass {
	d := strings.ToLower(domain)
	if d == "" {
		return ClassUnclassified
	}

	if containsAny(d, l.Directories...) {
		return ClassDirectory
	}
	if containsAny(d, l.Social...) {
		return ClassSocial
	}
	if containsAny(d, l.HospitalMarkers...) {
		return ClassHospital
	}
	if containsAny(d, l.SiteBuilders...) {
		return ClassBuilder
	}
	return ClassUnclassified
}

// socialPlatform names which social platform a domain belongs to, or ""
// when none matches.
func (l DomainLists) socialPlatform(domain string) string {
	d := strings.ToLower(domain)
	for _, s := range l.Social {
		if strings.Contains(d, strings.ToLower(s)) {
			return s
		}
	}
	return ""
}

// isOfficialSocial checks whether a social-media candidate looks like the
// practice's own page rather than an incidental mention: the title or URL
// must carry a practice-type keyword, the practice name, or the provider's
// name. Social pages failing this check stay weak evidence.
func (l DomainLists) isOfficialSocial(c Candidate, vc Context) bool {
	haystack := foldLower(c.Title + " " + c.URL)

	if containsAny(haystack, l.PracticeWords...) {
		return true
	}
	if vc.PracticeName != "" {
		for _, v := range nameVariants(vc.PracticeName) {
			if strings.Contains(haystack, v) {
				return true
			}
		}
	}
	provider := foldLower(vc.ProviderName)
	if provider != "" && strings.Contains(haystack, provider) {
		return true
	}
	return false
}

// containsAny reports whether s contains any of the given substrings,
// case-insensitively on the substring side.
func containsAny(s string, substrs ...string) bool {
	for _, sub := range substrs {
		if sub == "" {
			continue
		}
		if strings.Contains(s, strings.ToLower(sub)) {
			return true
		}
	}
	return false
}
