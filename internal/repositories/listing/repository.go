// Package listing persists imported listings and labeled training pairs in
// the SQLite staging store
package listing

import (
	"context"
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/fern/pkg/database"
	"github.com/Ramsey-B/fern/pkg/dataset"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

// FieldNames is the fixed compared-field order of staged listings. The
// staging schema is deliberately not configurable.
var FieldNames = []string{"restaurant name", "city", "street address"}

// listingRow is the listings table shape
type listingRow struct {
	DatasetName    string    `db:"dataset_name"`
	RecordKey      string    `db:"record_key"`
	Position       int       `db:"position"`
	RestaurantName string    `db:"restaurant_name"`
	City           string    `db:"city"`
	StreetAddress  string    `db:"street_address"`
	ImportedAt     time.Time `db:"imported_at"`
}

// pairRow is the training_pairs table shape
type pairRow struct {
	PairClass  string    `db:"pair_class"`
	Position   int       `db:"position"`
	KeyA       string    `db:"key_a"`
	KeyB       string    `db:"key_b"`
	ImportedAt time.Time `db:"imported_at"`
}

// Repository handles staged listing persistence
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new listing repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// ImportDataset replaces the staged copy of a dataset with the given one.
// The dataset must carry the fixed listing fields.
func (r *Repository) ImportDataset(ctx context.Context, ds *dataset.Dataset) error {
	ctx, span := tracing.StartSpan(ctx, "listing.Repository.ImportDataset")
	defer span.End()

	if ds.FieldCount() != len(FieldNames) {
		return httperror.NewHTTPError(http.StatusUnprocessableEntity, "dataset does not match the staged listing schema")
	}

	del := database.NewDeleteBuilder()
	del.DeleteFrom("listings")
	del.Where(del.Equal("dataset_name", ds.Name()))
	query, args := del.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"dataset": ds.Name()}).Error("Failed to clear staged dataset")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to clear staged dataset")
	}

	if ds.Len() == 0 {
		return nil
	}

	now := time.Now().UTC()
	ib := database.NewInsertBuilder()
	ib.InsertInto("listings")
	ib.Cols("dataset_name", "record_key", "position", "restaurant_name", "city", "street_address", "imported_at")
	for i, key := range ds.Keys() {
		record, _ := ds.Get(key)
		ib.Values(ds.Name(), record.Key, i, record.Fields[0], record.Fields[1], record.Fields[2], now)
	}

	query, args = ib.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"dataset": ds.Name()}).Error("Failed to stage dataset")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to stage dataset")
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{"dataset": ds.Name(), "records": ds.Len()}).Debug("Staged dataset")
	return nil
}

// GetDataset loads a staged dataset in its original row order
func (r *Repository) GetDataset(ctx context.Context, name string) (*dataset.Dataset, error) {
	ctx, span := tracing.StartSpan(ctx, "listing.Repository.GetDataset")
	defer span.End()

	sb := database.NewSelectBuilder()
	sb.Select("dataset_name", "record_key", "position", "restaurant_name", "city", "street_address", "imported_at")
	sb.From("listings")
	sb.Where(sb.Equal("dataset_name", name))
	sb.OrderBy("position").Asc()

	query, args := sb.Build()
	var rows []listingRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"dataset": name}).Error("Failed to load staged dataset")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to load staged dataset")
	}
	if len(rows) == 0 {
		return nil, httperror.NewHTTPError(http.StatusNotFound, "dataset "+name+" is not staged")
	}

	ds, err := dataset.New(name, FieldNames)
	if err != nil {
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	for _, row := range rows {
		record := models.Record{
			Key:    row.RecordKey,
			Fields: []string{row.RestaurantName, row.City, row.StreetAddress},
		}
		if err := ds.Add(record); err != nil {
			return nil, httperror.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}
	return ds, nil
}

// ImportPairs replaces the staged labeled pairs of one training class
func (r *Repository) ImportPairs(ctx context.Context, class models.PairClass, pairs []models.RecordPair) error {
	ctx, span := tracing.StartSpan(ctx, "listing.Repository.ImportPairs")
	defer span.End()

	del := database.NewDeleteBuilder()
	del.DeleteFrom("training_pairs")
	del.Where(del.Equal("pair_class", string(class)))
	query, args := del.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"class": class}).Error("Failed to clear staged pairs")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to clear staged pairs")
	}

	if len(pairs) == 0 {
		return nil
	}

	now := time.Now().UTC()
	ib := database.NewInsertBuilder()
	ib.InsertInto("training_pairs")
	ib.Cols("pair_class", "position", "key_a", "key_b", "imported_at")
	for i, pair := range pairs {
		ib.Values(string(class), i, pair.KeyA, pair.KeyB, now)
	}

	query, args = ib.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"class": class}).Error("Failed to stage pairs")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to stage pairs")
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{"class": class, "pairs": len(pairs)}).Debug("Staged training pairs")
	return nil
}

// GetPairs loads the staged labeled pairs of one training class in their
// original order
func (r *Repository) GetPairs(ctx context.Context, class models.PairClass) ([]models.RecordPair, error) {
	ctx, span := tracing.StartSpan(ctx, "listing.Repository.GetPairs")
	defer span.End()

	sb := database.NewSelectBuilder()
	sb.Select("pair_class", "position", "key_a", "key_b", "imported_at")
	sb.From("training_pairs")
	sb.Where(sb.Equal("pair_class", string(class)))
	sb.OrderBy("position").Asc()

	query, args := sb.Build()
	var rows []pairRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"class": class}).Error("Failed to load staged pairs")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to load staged pairs")
	}

	pairs := make([]models.RecordPair, 0, len(rows))
	for _, row := range rows {
		pairs = append(pairs, models.RecordPair{KeyA: row.KeyA, KeyB: row.KeyB})
	}
	return pairs, nil
}
