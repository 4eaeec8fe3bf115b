// Package linkage implements the Fellegi-Sunter probabilistic record linkage
// pipeline: comparison signatures, per-class frequency estimation, likelihood
// ratio ranking, and greedy label assignment under error-rate bounds.
package linkage

import (
	"github.com/Ramsey-B/fern/pkg/dataset"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/similarity"
)

// Generator builds comparison signatures for record pairs across the two
// datasets being linked
type Generator struct {
	scorer   *similarity.Scorer
	datasetA *dataset.Dataset
	datasetB *dataset.Dataset
}

// NewGenerator creates a signature generator. The two datasets must expose
// the same number of compared fields; a mismatch is a fatal configuration
// error, caught here rather than per pair.
func NewGenerator(scorer *similarity.Scorer, a, b *dataset.Dataset) (*Generator, error) {
	if a.FieldCount() != b.FieldCount() {
		return nil, &SchemaMismatchError{
			DatasetA: a.Name(),
			DatasetB: b.Name(),
			FieldsA:  a.FieldCount(),
			FieldsB:  b.FieldCount(),
		}
	}
	return &Generator{scorer: scorer, datasetA: a, datasetB: b}, nil
}

// Signature looks up both records by key and discretizes the field-by-field
// similarity into an ordered signature
func (g *Generator) Signature(keyA, keyB string) (models.Signature, error) {
	recordA, ok := g.datasetA.Get(keyA)
	if !ok {
		return "", &LookupError{Dataset: g.datasetA.Name(), Key: keyA}
	}
	recordB, ok := g.datasetB.Get(keyB)
	if !ok {
		return "", &LookupError{Dataset: g.datasetB.Name(), Key: keyB}
	}

	categories := make([]models.Category, len(recordA.Fields))
	for i := range recordA.Fields {
		categories[i] = g.scorer.Categorize(recordA.Fields[i], recordB.Fields[i])
	}
	return models.NewSignature(categories), nil
}

// DatasetA returns the first dataset
func (g *Generator) DatasetA() *dataset.Dataset {
	return g.datasetA
}

// DatasetB returns the second dataset
func (g *Generator) DatasetB() *dataset.Dataset {
	return g.datasetB
}
