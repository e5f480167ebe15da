package analysis

import "strings"

// Sport is a normalized sport bucket. Upstream sources label activities with
// free text ("VirtualRide", "TrailRun", "WeightTraining"); the engine only
// distinguishes these five.
type Sport string

const (
	SportRun      Sport = "run"
	SportBike     Sport = "bike"
	SportSwim     Sport = "swim"
	SportStrength Sport = "strength"
	SportOther    Sport = "other"
)

// sportKeywords is checked in order; the first set with a matching keyword
// wins. Run comes before bike so "VirtualRun" doesn't land in the bike
// bucket via "virtual".
var sportKeywords = []struct {
	sport    Sport
	keywords []string
}{
	{SportSwim, []string{"swim"}},
	{SportRun, []string{"run", "jog"}},
	{SportBike, []string{"ride", "bike", "cycl", "velo", "spin", "virtual"}},
	{SportStrength, []string{"strength", "weight", "lift", "gym", "crossfit"}},
}

// NormalizeSport maps an arbitrary sport label to one of the five sport
// buckets. Matching is substring-based and case-insensitive. Unknown or
// empty labels map to SportOther; the function never fails.
func NormalizeSport(label string) Sport {
	l := strings.ToLower(strings.TrimSpace(label))
	if l == "" {
		return SportOther
	}

	for _, set := range sportKeywords {
		for _, kw := range set.keywords {
			if strings.Contains(l, kw) {
				return set.sport
			}
		}
	}

	return SportOther
}
