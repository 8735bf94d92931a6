package verify

import "sort"

// Recommendation templates. Fixed strings so downstream consumers can key off
// them.
const (
	RecommendNoResults = "no results"
	RecommendFound     = "practice website found; verify contact details before outreach"
	RecommendConfirm   = "likely match; confirm with the practice before outreach"
	RecommendAskName   = "only directory listings found; ask for the practice name"
	RecommendMoreInfo  = "no practice website identified; request more information"
)

// Decide ranks scored results and selects the best match. Sorting is stable:
// equal (type priority, score) pairs keep the order the search collaborator
// returned them in. Directory candidates can never become the best match.
func Decide(results []Result) Decision {
	if len(results) == 0 {
		return Decision{Ranked: []Result{}, Recommendation: RecommendNoResults}
	}

	ranked := make([]Result, len(results))
	copy(ranked, results)

	sort.SliceStable(ranked, func(i, j int) bool {
		pi, pj := ranked[i].Type.Priority(), ranked[j].Type.Priority()
		if pi != pj {
			return pi > pj
		}
		return ranked[i].Score > ranked[j].Score
	})

	d := Decision{Ranked: ranked}

	top := ranked[0]
	if top.Band != BandLow && !top.Signals.IsDirectory && top.Valid {
		best := top
		d.BestMatch = &best
	}

	d.Recommendation = recommend(d)
	return d
}

func recommend(d Decision) string {
	if d.BestMatch != nil {
		if d.BestMatch.Band == BandHigh && d.BestMatch.Type == TypePractice {
			return RecommendFound
		}
		return RecommendConfirm
	}

	onlyDirectories := true
	for _, r := range d.Ranked {
		if !r.Signals.IsDirectory {
			onlyDirectories = false
			break
		}
	}
	if onlyDirectories {
		return RecommendAskName
	}
	return RecommendMoreInfo
}
