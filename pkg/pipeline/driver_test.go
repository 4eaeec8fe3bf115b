package pipeline

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/fern/pkg/dataset"
	"github.com/Ramsey-B/fern/pkg/linkage"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/similarity"
)

func noopLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

func buildDataset(t *testing.T, name string, fieldNames []string, rows [][]string) *dataset.Dataset {
	t.Helper()

	ds, err := dataset.New(name, fieldNames)
	require.NoError(t, err)
	for _, row := range rows {
		require.NoError(t, ds.Add(models.Record{Key: row[0], Fields: row[1:]}))
	}
	return ds
}

// testRunRequest sets up a 2x2 candidate space where z1/f1 trains the match
// signature, z2/f2 trains the unmatch signature, and z1/f2 lands on a third
// signature no training pair produced
func testRunRequest(t *testing.T) linkage.RunRequest {
	t.Helper()

	fields := []string{"restaurant name", "city"}
	a := buildDataset(t, "zagat", fields, [][]string{
		{"z1", "spago", "Los Angeles"},
		{"z2", "aaaa aaaa", "new york"},
	})
	b := buildDataset(t, "fodors", fields, [][]string{
		{"f1", "Spago", "Los Angeles"},
		{"f2", "Spago Beverly", "qqqq"},
	})

	return linkage.RunRequest{
		DatasetA:       a,
		DatasetB:       b,
		KnownMatches:   []models.RecordPair{{KeyA: "z1", KeyB: "f1"}},
		KnownUnmatches: []models.RecordPair{{KeyA: "z2", KeyB: "f2"}},
		Params:         models.LinkageParams{Mu: 0.5, Lambda: 0.5},
	}
}

func runDriver(t *testing.T, config Config, req linkage.RunRequest) ([][]string, *models.RunSummary) {
	t.Helper()

	logger := noopLogger()
	driver := NewDriver(logger, linkage.NewEngine(logger, similarity.NewScorer()), config)

	var out bytes.Buffer
	summary, err := driver.Run(context.Background(), req, &out)
	require.NoError(t, err)

	rows, err := csv.NewReader(&out).ReadAll()
	require.NoError(t, err)
	return rows, summary
}

func TestDriverRun(t *testing.T) {
	t.Run("should classify the full cross product in order", func(t *testing.T) {
		rows, summary := runDriver(t, DefaultConfig(), testRunRequest(t))

		require.Len(t, rows, 4)
		assert.Equal(t, []string{"z1", "f1", "match"}, rows[0])
		assert.Equal(t, []string{"z1", "f2"}, rows[1][:2])
		assert.Equal(t, []string{"z2", "f1"}, rows[2][:2])
		assert.Equal(t, []string{"z2", "f2", "unmatch"}, rows[3])

		assert.NotEmpty(t, summary.RunID)
	})

	t.Run("should preserve row order regardless of worker count", func(t *testing.T) {
		single, _ := runDriver(t, Config{WorkerCount: 1}, testRunRequest(t))
		many, _ := runDriver(t, Config{WorkerCount: 8}, testRunRequest(t))
		assert.Equal(t, single, many)
	})

	t.Run("should default untrained signatures to possible match", func(t *testing.T) {
		rows, _ := runDriver(t, DefaultConfig(), testRunRequest(t))

		// z1/f2 scores high on name but low on city, a signature absent from
		// both training sets
		labels := map[string]string{}
		for _, row := range rows {
			labels[row[0]+"/"+row[1]] = row[2]
		}
		assert.Equal(t, string(models.LabelPossible), labels["z1/f2"])
	})

	t.Run("should only classify pairs with byte-identical cities when blocking", func(t *testing.T) {
		config := DefaultConfig()
		config.BlockOnCity = true
		rows, _ := runDriver(t, config, testRunRequest(t))

		require.Len(t, rows, 1)
		assert.Equal(t, []string{"z1", "f1", "match"}, rows[0])
	})

	t.Run("should fail city blocking when the field is missing", func(t *testing.T) {
		req := testRunRequest(t)
		config := Config{BlockOnCity: true, CityField: "postcode", WorkerCount: 2}

		logger := noopLogger()
		driver := NewDriver(logger, linkage.NewEngine(logger, similarity.NewScorer()), config)

		var out bytes.Buffer
		_, err := driver.Run(context.Background(), req, &out)
		assert.Error(t, err)
	})

	t.Run("should stop when the context is cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		logger := noopLogger()
		driver := NewDriver(logger, linkage.NewEngine(logger, similarity.NewScorer()), DefaultConfig())

		var out bytes.Buffer
		_, err := driver.Run(ctx, testRunRequest(t), &out)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
