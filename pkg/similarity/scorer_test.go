package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Ramsey-B/fern/pkg/models"
)

func TestScorerSimilarity(t *testing.T) {
	scorer := NewScorer()

	t.Run("should score identical values as 1", func(t *testing.T) {
		assert.Equal(t, 1.0, scorer.Similarity("arnie morton's of chicago", "arnie morton's of chicago"))
	})

	t.Run("should ignore case and surrounding whitespace", func(t *testing.T) {
		assert.Equal(t, 1.0, scorer.Similarity("  Los Angeles ", "los angeles"))
	})

	t.Run("should score disjoint values as 0", func(t *testing.T) {
		assert.Equal(t, 0.0, scorer.Similarity("aaaa", "zzzz"))
	})

	t.Run("should score empty values as 0", func(t *testing.T) {
		assert.Equal(t, 0.0, scorer.Similarity("", "anything"))
		assert.Equal(t, 0.0, scorer.Similarity("anything", ""))
		assert.Equal(t, 0.0, scorer.Similarity("   ", "anything"))
	})

	t.Run("should score near-identical values close to 1", func(t *testing.T) {
		score := scorer.Similarity("art's deli", "art's delicatessen")
		assert.Greater(t, score, 0.85)
		assert.LessOrEqual(t, score, 1.0)
	})
}

func TestCategoryForScore(t *testing.T) {
	tests := []struct {
		name     string
		score    float64
		expected models.Category
	}{
		{"zero is low", 0.0, models.CategoryLow},
		{"just below medium threshold is low", 0.4999, models.CategoryLow},
		{"medium threshold is medium", 0.5, models.CategoryMedium},
		{"just below high threshold is medium", 0.8499, models.CategoryMedium},
		{"high threshold is high", 0.85, models.CategoryHigh},
		{"one is high", 1.0, models.CategoryHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CategoryForScore(tt.score))
		})
	}
}

func TestScorerCategorize(t *testing.T) {
	scorer := NewScorer()

	t.Run("should categorize identical values as high", func(t *testing.T) {
		assert.Equal(t, models.CategoryHigh, scorer.Categorize("New York", "new york"))
	})

	t.Run("should categorize disjoint values as low", func(t *testing.T) {
		assert.Equal(t, models.CategoryLow, scorer.Categorize("aaaa", "zzzz"))
	})

	t.Run("should categorize empty values as low", func(t *testing.T) {
		assert.Equal(t, models.CategoryLow, scorer.Categorize("", ""))
	})
}

func TestNewScorerWithNormalizers(t *testing.T) {
	t.Run("should respect a custom normalizer chain", func(t *testing.T) {
		raw := NewScorerWithNormalizers()
		assert.Less(t, raw.Similarity("ABC", "abc"), 1.0)

		folded := NewScorerWithNormalizers("lowercase")
		assert.Equal(t, 1.0, folded.Similarity("ABC", "abc"))
	})
}
