package linkage

import (
	"github.com/Ramsey-B/fern/pkg/models"
)

// Estimator computes the empirical signature distribution of a labeled
// training class
type Estimator struct {
	generator *Generator
}

// NewEstimator creates an estimator over the generator's dataset pair
func NewEstimator(generator *Generator) *Estimator {
	return &Estimator{generator: generator}
}

// Estimate computes the relative frequency of each signature across the
// labeled pairs, weighting every pair 1/N. The class name is only used for
// error reporting. Masses in the result sum to 1.0.
func (e *Estimator) Estimate(class string, pairs []models.RecordPair) (models.Distribution, error) {
	if len(pairs) == 0 {
		return nil, &EmptyTrainingSetError{Class: class}
	}

	weight := 1.0 / float64(len(pairs))
	dist := make(models.Distribution)
	for _, pair := range pairs {
		sig, err := e.generator.Signature(pair.KeyA, pair.KeyB)
		if err != nil {
			return nil, err
		}
		dist[sig] += weight
	}
	return dist, nil
}
