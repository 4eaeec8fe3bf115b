// Package pipeline drives classification of the full candidate cross product
// and emits the result rows
package pipeline

import (
	"context"
	"io"
	"sync"

	"github.com/Gobusters/ectologger"
	"github.com/pkg/errors"

	"github.com/Ramsey-B/fern/pkg/linkage"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

// Config controls candidate generation and classification
type Config struct {
	BlockOnCity bool   // skip pairs whose city fields differ (exact, case-sensitive)
	CityField   string // name of the city column in both datasets
	WorkerCount int    // parallelism across outer-dataset rows
}

// DefaultConfig returns default driver configuration
func DefaultConfig() Config {
	return Config{
		BlockOnCity: false,
		CityField:   "city",
		WorkerCount: 4,
	}
}

// Driver runs the linkage engine and applies the trained label mapping to
// every candidate pair
type Driver struct {
	logger ectologger.Logger
	engine *linkage.Engine
	config Config
}

// NewDriver creates a pipeline driver
func NewDriver(logger ectologger.Logger, engine *linkage.Engine, config Config) *Driver {
	if config.WorkerCount < 1 {
		config.WorkerCount = 1
	}
	return &Driver{
		logger: logger,
		engine: engine,
		config: config,
	}
}

// resultRow is one classified candidate pair, held until its outer-row slice
// is written
type resultRow struct {
	keyB  string
	label models.Label
}

// Run trains the label mapping and classifies the full cross product of the
// two datasets (or the city-blocked subset), writing one row per pair to out.
// Row order is outer loop over dataset A, inner loop over dataset B, even
// though classification itself is spread across workers.
func (d *Driver) Run(ctx context.Context, req linkage.RunRequest, out io.Writer) (*models.RunSummary, error) {
	ctx, span := tracing.StartSpan(ctx, "pipeline.Driver.Run")
	defer span.End()

	result, err := d.engine.Run(ctx, req)
	if err != nil {
		return nil, err
	}

	log := d.logger.WithContext(ctx).WithFields(map[string]any{
		"run_id":        result.Summary.RunID,
		"block_on_city": d.config.BlockOnCity,
		"workers":       d.config.WorkerCount,
	})

	cityIndexA, cityIndexB := -1, -1
	if d.config.BlockOnCity {
		cityIndexA = req.DatasetA.FieldIndex(d.config.CityField)
		cityIndexB = req.DatasetB.FieldIndex(d.config.CityField)
		if cityIndexA < 0 || cityIndexB < 0 {
			return nil, errors.Errorf("city blocking requires field %q in both datasets", d.config.CityField)
		}
	}

	keysA := req.DatasetA.Keys()
	keysB := req.DatasetB.Keys()

	rowResults, err := d.classify(ctx, result, keysA, keysB, cityIndexA, cityIndexB)
	if err != nil {
		return nil, err
	}

	written, err := d.write(ctx, out, keysA, rowResults)
	if err != nil {
		return nil, err
	}

	log.WithFields(map[string]any{"rows": written}).Info("Wrote linkage results")
	return &result.Summary, nil
}

// classify labels every candidate pair, parallelized across outer-dataset
// rows. Results come back indexed by outer-row position so ordering survives
// the worker pool.
func (d *Driver) classify(ctx context.Context, result *linkage.RunResult, keysA, keysB []string, cityIndexA, cityIndexB int) ([][]resultRow, error) {
	ctx, span := tracing.StartSpan(ctx, "pipeline.Driver.classify")
	defer span.End()

	rowResults := make([][]resultRow, len(keysA))
	rowErrs := make([]error, len(keysA))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < d.config.WorkerCount; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				rowResults[i], rowErrs[i] = d.classifyRow(result, keysA[i], keysB, cityIndexA, cityIndexB)
			}
		}()
	}

	for i := range keysA {
		if err := ctx.Err(); err != nil {
			close(jobs)
			wg.Wait()
			return nil, err
		}
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return nil, ctx.Err()
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	for _, err := range rowErrs {
		if err != nil {
			return nil, err
		}
	}
	return rowResults, nil
}

// classifyRow labels every candidate pair for a single outer-dataset record
func (d *Driver) classifyRow(result *linkage.RunResult, keyA string, keysB []string, cityIndexA, cityIndexB int) ([]resultRow, error) {
	generator := result.Generator

	var cityA string
	if d.config.BlockOnCity {
		recordA, _ := generator.DatasetA().Get(keyA)
		cityA = recordA.Fields[cityIndexA]
	}

	rows := make([]resultRow, 0, len(keysB))
	for _, keyB := range keysB {
		if d.config.BlockOnCity {
			recordB, _ := generator.DatasetB().Get(keyB)
			if cityA != recordB.Fields[cityIndexB] {
				continue
			}
		}

		sig, err := generator.Signature(keyA, keyB)
		if err != nil {
			return nil, err
		}

		label, ok := result.Labels[sig]
		if !ok {
			// Signature never observed in training: the fallback decision
			label = models.LabelPossible
		}
		rows = append(rows, resultRow{keyB: keyB, label: label})
	}
	return rows, nil
}

func (d *Driver) write(ctx context.Context, out io.Writer, keysA []string, rowResults [][]resultRow) (int, error) {
	_, span := tracing.StartSpan(ctx, "pipeline.Driver.write")
	defer span.End()

	writer := NewResultWriter(out)
	written := 0
	for i, keyA := range keysA {
		for _, row := range rowResults[i] {
			if err := writer.Write(keyA, row.keyB, row.label); err != nil {
				return written, errors.Wrap(err, "failed to write result row")
			}
			written++
		}
	}
	if err := writer.Flush(); err != nil {
		return written, errors.Wrap(err, "failed to flush results")
	}
	return written, nil
}
