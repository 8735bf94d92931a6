package verify

import (
	"net/url"
	"regexp"
	"strings"
)

// bareDomainPattern matches scheme-less input that still looks like a domain,
// e.g. "puredental.com" or "smiles.dental.nyc".
var bareDomainPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9-]*(\.[a-zA-Z0-9][a-zA-Z0-9-]*)+(/.*)?$`)

// NormalizedURL is the outcome of parsing a raw candidate URL.
type NormalizedURL struct {
	Domain string // hostname with any leading "www." stripped
	HTTPS  bool   // true only when the raw input carried an https scheme
	Valid  bool
}

// Normalize parses a raw URL and extracts its domain. Scheme-less input that
// looks like a bare domain is retried with an https prefix. Parse failures
// never escape: the caller gets Valid=false and the raw input back as Domain,
// which no matcher will ever hit.
func Normalize(raw string) NormalizedURL {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return NormalizedURL{Domain: raw, Valid: false}
	}

	u, err := url.Parse(raw)
	if err == nil && u.Hostname() != "" && (u.Scheme == "http" || u.Scheme == "https") {
		return NormalizedURL{
			Domain: stripWWW(strings.ToLower(u.Hostname())),
			HTTPS:  u.Scheme == "https",
			Valid:  true,
		}
	}

	// Retry bare domains with a scheme prepended. The original input had no
	// scheme, so it earns no SSL credit.
	if bareDomainPattern.MatchString(raw) {
		u, err = url.Parse("https://" + raw)
		if err == nil && u.Hostname() != "" {
			return NormalizedURL{
				Domain: stripWWW(strings.ToLower(u.Hostname())),
				Valid:  true,
			}
		}
	}

	return NormalizedURL{Domain: raw, Valid: false}
}

func stripWWW(host string) string {
	return strings.TrimPrefix(host, "www.")
}
