package linkage

import (
	"sort"

	"github.com/Ramsey-B/fern/pkg/models"
)

// Rank merges the two class distributions over the union of observed
// signatures and orders them by descending match/unmatch likelihood ratio.
// The result is the single decision ordering consumed by Assign.
//
// Ordering rules:
//   - unmatch mass 0 with positive match mass ranks first (infinite ratio,
//     treated as certain match), highest match mass first;
//   - positive unmatch mass ranks by match/unmatch ratio descending;
//   - signatures with zero mass in both classes rank last;
//   - all remaining ties break on lexicographic signature order, so the
//     ordering is total and reproducible across runs.
func Rank(matchDist, unmatchDist models.Distribution) []models.RankedSignature {
	seen := make(map[models.Signature]bool, len(matchDist)+len(unmatchDist))
	ranked := make([]models.RankedSignature, 0, len(matchDist)+len(unmatchDist))

	for sig, mass := range matchDist {
		seen[sig] = true
		ranked = append(ranked, models.RankedSignature{
			Signature:   sig,
			MatchMass:   mass,
			UnmatchMass: unmatchDist[sig],
		})
	}
	for sig, mass := range unmatchDist {
		if seen[sig] {
			continue
		}
		ranked = append(ranked, models.RankedSignature{
			Signature:   sig,
			UnmatchMass: mass,
		})
	}

	sort.Slice(ranked, func(i, j int) bool {
		return rankLess(ranked[i], ranked[j])
	})
	return ranked
}

// rankClass buckets a signature for ordering: 0 = infinite ratio,
// 1 = finite ratio, 2 = zero mass in both classes
func rankClass(rs models.RankedSignature) int {
	switch {
	case rs.UnmatchMass == 0 && rs.MatchMass > 0:
		return 0
	case rs.UnmatchMass > 0:
		return 1
	default:
		return 2
	}
}

func rankLess(a, b models.RankedSignature) bool {
	classA, classB := rankClass(a), rankClass(b)
	if classA != classB {
		return classA < classB
	}

	switch classA {
	case 0:
		if a.MatchMass != b.MatchMass {
			return a.MatchMass > b.MatchMass
		}
	case 1:
		// Compare a.MatchMass/a.UnmatchMass against b's ratio by cross
		// multiplication to avoid dividing
		left := a.MatchMass * b.UnmatchMass
		right := b.MatchMass * a.UnmatchMass
		if left != right {
			return left > right
		}
	}

	return a.Signature < b.Signature
}
