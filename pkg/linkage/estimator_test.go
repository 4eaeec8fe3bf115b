package linkage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/similarity"
)

func newTestEstimator(t *testing.T) *Estimator {
	t.Helper()

	a := testDataset(t, "zagat", []string{"restaurant name", "city"}, [][]string{
		{"z1", "spago", "los angeles"},
		{"z2", "matsuhisa", "beverly hills"},
		{"z3", "aaaa", "bbbb"},
	})
	b := testDataset(t, "fodors", []string{"restaurant name", "city"}, [][]string{
		{"f1", "spago", "los angeles"},
		{"f2", "matsuhisa", "beverly hills"},
		{"f3", "zzzz", "qqqq"},
	})

	generator, err := NewGenerator(similarity.NewScorer(), a, b)
	require.NoError(t, err)
	return NewEstimator(generator)
}

func TestEstimate(t *testing.T) {
	highHigh := models.NewSignature([]models.Category{models.CategoryHigh, models.CategoryHigh})
	lowLow := models.NewSignature([]models.Category{models.CategoryLow, models.CategoryLow})

	t.Run("should fail on an empty training set", func(t *testing.T) {
		estimator := newTestEstimator(t)

		_, err := estimator.Estimate("match", nil)
		var empty *EmptyTrainingSetError
		require.ErrorAs(t, err, &empty)
		assert.Equal(t, "match", empty.Class)
	})

	t.Run("should weight every pair equally", func(t *testing.T) {
		estimator := newTestEstimator(t)

		dist, err := estimator.Estimate("match", []models.RecordPair{
			{KeyA: "z1", KeyB: "f1"},
			{KeyA: "z2", KeyB: "f2"},
			{KeyA: "z3", KeyB: "f3"},
			{KeyA: "z3", KeyB: "f3"},
		})
		require.NoError(t, err)

		assert.Len(t, dist, 2)
		assert.InDelta(t, 0.5, dist[highHigh], 1e-9)
		assert.InDelta(t, 0.5, dist[lowLow], 1e-9)
	})

	t.Run("should produce masses summing to one", func(t *testing.T) {
		estimator := newTestEstimator(t)

		dist, err := estimator.Estimate("unmatch", []models.RecordPair{
			{KeyA: "z1", KeyB: "f2"},
			{KeyA: "z1", KeyB: "f3"},
			{KeyA: "z2", KeyB: "f1"},
			{KeyA: "z2", KeyB: "f3"},
			{KeyA: "z3", KeyB: "f1"},
		})
		require.NoError(t, err)

		total := 0.0
		for _, mass := range dist {
			total += mass
		}
		assert.InDelta(t, 1.0, total, 1e-9)
	})

	t.Run("should fail on a pair referencing a missing key", func(t *testing.T) {
		estimator := newTestEstimator(t)

		_, err := estimator.Estimate("match", []models.RecordPair{{KeyA: "z1", KeyB: "ghost"}})
		var lookup *LookupError
		require.ErrorAs(t, err, &lookup)
	})

	t.Run("should be deterministic across repeated runs", func(t *testing.T) {
		estimator := newTestEstimator(t)
		pairs := []models.RecordPair{
			{KeyA: "z1", KeyB: "f1"},
			{KeyA: "z3", KeyB: "f3"},
		}

		first, err := estimator.Estimate("match", pairs)
		require.NoError(t, err)
		second, err := estimator.Estimate("match", pairs)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})
}
