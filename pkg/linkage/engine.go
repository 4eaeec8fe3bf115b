package linkage

import (
	"context"

	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"

	"github.com/Ramsey-B/fern/pkg/dataset"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/similarity"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

// Engine orchestrates one linkage run: estimate both class distributions,
// rank the signature union, and assign decision labels
type Engine struct {
	logger ectologger.Logger
	scorer *similarity.Scorer
}

// NewEngine creates a linkage engine
func NewEngine(logger ectologger.Logger, scorer *similarity.Scorer) *Engine {
	return &Engine{
		logger: logger,
		scorer: scorer,
	}
}

// RunRequest carries everything one linkage run needs. Datasets and labeled
// pair sets are passed in, never read from files here; loading is the
// caller's concern.
type RunRequest struct {
	DatasetA       *dataset.Dataset
	DatasetB       *dataset.Dataset
	KnownMatches   []models.RecordPair
	KnownUnmatches []models.RecordPair
	Params         models.LinkageParams
}

// RunResult is the trained decision mapping plus the artifacts it was built
// from. Everything here is read-only after Run returns.
type RunResult struct {
	Labels    models.LabelMap
	Ranked    []models.RankedSignature
	Generator *Generator
	Summary   models.RunSummary
}

// Run executes the full classification pipeline for one dataset pair
func (e *Engine) Run(ctx context.Context, req RunRequest) (*RunResult, error) {
	ctx, span := tracing.StartSpan(ctx, "linkage.Engine.Run")
	defer span.End()

	runID := uuid.New().String()
	log := e.logger.WithContext(ctx).WithFields(map[string]any{
		"run_id":    runID,
		"dataset_a": req.DatasetA.Name(),
		"dataset_b": req.DatasetB.Name(),
		"mu":        req.Params.Mu,
		"lambda":    req.Params.Lambda,
	})

	generator, err := NewGenerator(e.scorer, req.DatasetA, req.DatasetB)
	if err != nil {
		log.WithError(err).Error("Dataset schemas are incompatible")
		return nil, err
	}
	estimator := NewEstimator(generator)

	matchDist, err := e.estimate(ctx, estimator, string(models.PairClassMatch), req.KnownMatches)
	if err != nil {
		log.WithError(err).Error("Failed to estimate match distribution")
		return nil, err
	}

	unmatchDist, err := e.estimate(ctx, estimator, string(models.PairClassUnmatch), req.KnownUnmatches)
	if err != nil {
		log.WithError(err).Error("Failed to estimate unmatch distribution")
		return nil, err
	}

	ranked := e.rank(ctx, matchDist, unmatchDist)

	labels, err := e.assign(ctx, ranked, req.Params)
	if err != nil {
		log.WithError(err).Error("Failed to assign labels")
		return nil, err
	}

	labelCounts := make(map[models.Label]int)
	for _, label := range labels {
		labelCounts[label]++
	}

	summary := models.RunSummary{
		RunID:             runID,
		Params:            req.Params,
		MatchSignatures:   len(matchDist),
		UnmatchSignatures: len(unmatchDist),
		RankedSignatures:  len(ranked),
		LabelCounts:       labelCounts,
	}

	log.WithFields(map[string]any{
		"trace_id":          tracing.GetTraceID(ctx),
		"ranked_signatures": len(ranked),
		"match_labels":      labelCounts[models.LabelMatch],
		"unmatch_labels":    labelCounts[models.LabelUnmatch],
	}).Info("Linkage run complete")

	return &RunResult{
		Labels:    labels,
		Ranked:    ranked,
		Generator: generator,
		Summary:   summary,
	}, nil
}

func (e *Engine) estimate(ctx context.Context, estimator *Estimator, class string, pairs []models.RecordPair) (models.Distribution, error) {
	ctx, span := tracing.StartSpan(ctx, "linkage.Engine.estimate")
	defer span.End()

	dist, err := estimator.Estimate(class, pairs)
	if err != nil {
		return nil, err
	}

	e.logger.WithContext(ctx).WithFields(map[string]any{
		"class":      class,
		"pairs":      len(pairs),
		"signatures": len(dist),
	}).Debug("Estimated class distribution")
	return dist, nil
}

func (e *Engine) rank(ctx context.Context, matchDist, unmatchDist models.Distribution) []models.RankedSignature {
	ctx, span := tracing.StartSpan(ctx, "linkage.Engine.rank")
	defer span.End()

	ranked := Rank(matchDist, unmatchDist)
	e.logger.WithContext(ctx).WithFields(map[string]any{"signatures": len(ranked)}).Debug("Ranked signature union")
	return ranked
}

func (e *Engine) assign(ctx context.Context, ranked []models.RankedSignature, params models.LinkageParams) (models.LabelMap, error) {
	_, span := tracing.StartSpan(ctx, "linkage.Engine.assign")
	defer span.End()

	return Assign(ranked, params)
}
