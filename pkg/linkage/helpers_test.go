package linkage

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/fern/pkg/dataset"
	"github.com/Ramsey-B/fern/pkg/models"
)

// testDataset builds a dataset from rows of [key, field1, field2, ...]
func testDataset(t *testing.T, name string, fieldNames []string, rows [][]string) *dataset.Dataset {
	t.Helper()

	ds, err := dataset.New(name, fieldNames)
	require.NoError(t, err)
	for _, row := range rows {
		require.NoError(t, ds.Add(models.Record{Key: row[0], Fields: row[1:]}))
	}
	return ds
}
