// Package similarity implements the string comparison and discretization used
// to build comparison signatures
package similarity

import (
	"github.com/antzucaro/matchr"

	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/normalizers"
)

// Category boundaries for the Jaro-Winkler score. Scores below MediumThreshold
// are "low", scores below HighThreshold are "medium", everything else "high".
const (
	MediumThreshold = 0.5
	HighThreshold   = 0.85
)

// Scorer compares two field values and maps the continuous similarity score
// into an ordinal category
type Scorer struct {
	normalizerChain []string
}

// NewScorer creates a Scorer with the default normalizer chain. Trimming and
// lowercasing before scoring is what makes the comparison case-tolerant;
// Jaro-Winkler itself is case-sensitive.
func NewScorer() *Scorer {
	return &Scorer{normalizerChain: []string{"trim", "lowercase"}}
}

// NewScorerWithNormalizers creates a Scorer with a custom normalizer chain
func NewScorerWithNormalizers(chain ...string) *Scorer {
	return &Scorer{normalizerChain: chain}
}

// Similarity returns the normalized Jaro-Winkler similarity of two values in
// [0, 1], higher meaning more similar
func (s *Scorer) Similarity(a, b string) float64 {
	a = normalizers.ApplyChain(a, s.normalizerChain...)
	b = normalizers.ApplyChain(b, s.normalizerChain...)
	if a == "" || b == "" {
		return 0.0
	}
	return matchr.JaroWinkler(a, b, false)
}

// Categorize maps the similarity of two field values into a Category. Empty
// or missing values score 0 and land in the lowest category.
func (s *Scorer) Categorize(a, b string) models.Category {
	return CategoryForScore(s.Similarity(a, b))
}

// CategoryForScore discretizes a similarity score using the fixed thresholds
func CategoryForScore(score float64) models.Category {
	switch {
	case score < MediumThreshold:
		return models.CategoryLow
	case score < HighThreshold:
		return models.CategoryMedium
	default:
		return models.CategoryHigh
	}
}
