package linkage

import (
	"github.com/go-playground/validator/v10"

	"github.com/Ramsey-B/fern/pkg/models"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Assign walks the ranked signature list from both ends and greedily labels
// signatures while the cumulative assigned error mass stays within bounds.
//
// The false-positive sweep starts at the head (most match-like end) and
// accumulates unmatch mass: labeling a signature "match" misclassifies the
// true unmatches carrying that signature, and mu bounds how much of that mass
// is tolerable. Symmetrically the false-negative sweep starts at the tail and
// accumulates match mass against lambda while labeling "unmatch".
//
// A sweep stops permanently the first time its bound would be exceeded, and a
// bound of exactly 0 labels nothing. "match" wins whenever both sweeps reach
// the same signature. The result maps every ranked signature; anything
// reached by neither sweep is "possible match".
func Assign(ranked []models.RankedSignature, params models.LinkageParams) (models.LabelMap, error) {
	if err := validate.Struct(params); err != nil {
		if params.Mu < 0 || params.Mu > 1 {
			return nil, &InvalidParameterError{Name: "mu", Value: params.Mu}
		}
		return nil, &InvalidParameterError{Name: "lambda", Value: params.Lambda}
	}

	labels := make(models.LabelMap, len(ranked))
	for _, rs := range ranked {
		labels[rs.Signature] = models.LabelPossible
	}

	if params.Lambda > 0 {
		falseNegative := 0.0
		for i := len(ranked) - 1; i >= 0; i-- {
			if falseNegative+ranked[i].MatchMass > params.Lambda {
				break
			}
			falseNegative += ranked[i].MatchMass
			labels[ranked[i].Signature] = models.LabelUnmatch
		}
	}

	// Runs second so "match" overrides any "unmatch" from the other sweep
	if params.Mu > 0 {
		falsePositive := 0.0
		for i := 0; i < len(ranked); i++ {
			if falsePositive+ranked[i].UnmatchMass > params.Mu {
				break
			}
			falsePositive += ranked[i].UnmatchMass
			labels[ranked[i].Signature] = models.LabelMatch
		}
	}

	return labels, nil
}
