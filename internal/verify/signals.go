package verify

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Contact-info patterns. The phone and address patterns mirror US formats;
// the email pattern is deliberately RFC-lite.
var (
	phonePattern   = regexp.MustCompile(`\d{3}[-.\s]?\d{3}[-.\s]?\d{4}`)
	emailPattern   = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	addressPattern = regexp.MustCompile(`\d+\s+[A-Za-z\s]+(?:Street|St|Avenue|Ave|Boulevard|Blvd|Drive|Dr|Road|Rd|Lane|Ln|Way|Court|Ct|Parkway|Pkwy|Suite|Ste)\b`)
)

// diacriticFolder strips combining marks so that "José" matches "jose".
var diacriticFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// foldLower lowercases a string and folds diacritics. Fold failures fall back
// to plain lowercasing; matching degrades, it never errors.
func foldLower(s string) string {
	folded, _, err := transform.String(diacriticFolder, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(folded)
}

// ExtractSignals computes all per-candidate signals. Pure function: no I/O,
// no side effects. A directory match short-circuits everything else.
func ExtractSignals(c Candidate, vc Context, lists DomainLists) Signals {
	nu := Normalize(c.URL)
	class := lists.Classify(nu.Domain)

	sig := Signals{Class: class}

	if class == ClassDirectory {
		sig.IsDirectory = true
		return sig
	}

	title := foldLower(c.Title)
	desc := foldLower(c.Description)
	rawURL := foldLower(c.URL)
	domain := strings.ToLower(nu.Domain)

	sig.IsSocialMedia = class == ClassSocial
	if sig.IsSocialMedia {
		sig.SocialPlatform = lists.socialPlatform(domain)
		sig.OfficialSocial = lists.isOfficialSocial(c, vc)
	}

	sig.HasCustomDomain = class != ClassBuilder && class != ClassSocial
	sig.HasSSL = nu.HTTPS

	if vc.PracticeName != "" {
		variants := nameVariants(vc.PracticeName)
		sig.PracticeNameMatch = matchesAnyVariant(variants, title, desc, domain)
		sig.NameInDomain = nameInDomain(vc.PracticeName, domain)
	}

	sig.LocationMatch = locationMatch(vc.Location, title, desc, rawURL)
	sig.HasPracticeIndicator = containsAny(domain, lists.PracticeWords...) ||
		containsAny(title, lists.PracticeWords...)
	sig.HasContactInfo = hasContactInfo(c.Title, c.Description)
	sig.ProviderNameFound = providerNameFound(vc.ProviderName, title, desc)

	sig.IsPracticeWebsite = sig.HasCustomDomain &&
		(sig.PracticeNameMatch || sig.HasPracticeIndicator)

	return sig
}

// nameVariants produces the normalized forms of a practice name used for
// matching: lowercased, space-stripped concatenation, and hyphen-joined.
func nameVariants(name string) []string {
	base := foldLower(strings.TrimSpace(name))
	if base == "" {
		return nil
	}
	fields := strings.Fields(base)
	variants := []string{base}
	if len(fields) > 1 {
		variants = append(variants,
			strings.Join(fields, ""),
			strings.Join(fields, "-"),
		)
	}
	return variants
}

func matchesAnyVariant(variants []string, haystacks ...string) bool {
	for _, h := range haystacks {
		if h == "" {
			continue
		}
		for _, v := range variants {
			if strings.Contains(h, v) {
				return true
			}
		}
	}
	return false
}

// nameInDomain is the stronger practice-name check: the name's first word or
// its full concatenated form must appear in the domain itself.
func nameInDomain(practiceName, domain string) bool {
	base := foldLower(strings.TrimSpace(practiceName))
	if base == "" || domain == "" {
		return false
	}
	fields := strings.Fields(base)
	if len(fields) == 0 {
		return false
	}
	first := fields[0]
	concat := strings.Join(fields, "")
	if len(first) > 2 && strings.Contains(domain, first) {
		return true
	}
	return strings.Contains(domain, concat)
}

// locationMatch checks whether any token of the location (split on commas and
// whitespace, tokens longer than two characters) appears in title,
// description, or URL.
func locationMatch(location string, haystacks ...string) bool {
	if location == "" {
		return false
	}
	tokens := strings.FieldsFunc(foldLower(location), func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
	for _, tok := range tokens {
		if len(tok) <= 2 {
			continue
		}
		for _, h := range haystacks {
			if strings.Contains(h, tok) {
				return true
			}
		}
	}
	return false
}

func hasContactInfo(title, description string) bool {
	text := title + " " + description
	return phonePattern.MatchString(text) ||
		emailPattern.MatchString(text) ||
		addressPattern.MatchString(text)
}

// providerNameFound is conjunctive: every whitespace-separated token of the
// provider's name must appear in the title or description. A first-name-only
// hit is not a match.
func providerNameFound(providerName, title, desc string) bool {
	tokens := strings.Fields(foldLower(providerName))
	if len(tokens) == 0 {
		return false
	}
	combined := title + " " + desc
	for _, tok := range tokens {
		if !strings.Contains(combined, tok) {
			return false
		}
	}
	return true
}
