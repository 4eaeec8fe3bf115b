package dataset

import (
	"encoding/csv"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/Ramsey-B/fern/pkg/models"
)

// LoadCSV reads a listing export. The first row is a header; the first column
// holds the record key and the remaining columns are the compared fields in
// file order. I/O and parse errors propagate unmasked.
func LoadCSV(name, path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open dataset file %s", path)
	}
	defer f.Close()

	ds, err := ReadCSV(name, f)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read dataset file %s", path)
	}
	return ds, nil
}

// ReadCSV parses a listing export from a reader. Split out from LoadCSV so
// tests can feed literal CSV without touching the filesystem.
func ReadCSV(name string, r io.Reader) (*Dataset, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read header row")
	}
	if len(header) < 2 {
		return nil, errors.Errorf("header has %d columns, need a key column plus at least one field", len(header))
	}

	ds, err := New(name, header[1:])
	if err != nil {
		return nil, err
	}

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "failed to read record row")
		}
		if err := ds.Add(models.Record{Key: row[0], Fields: row[1:]}); err != nil {
			return nil, err
		}
	}

	return ds, nil
}

// LoadPairs reads a labeled-pair list: two columns (keyA, keyB), no header
func LoadPairs(path string) ([]models.RecordPair, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open pairs file %s", path)
	}
	defer f.Close()

	pairs, err := ReadPairs(f)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read pairs file %s", path)
	}
	return pairs, nil
}

// ReadPairs parses a labeled-pair list from a reader
func ReadPairs(r io.Reader) ([]models.RecordPair, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 2

	var pairs []models.RecordPair
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "failed to read pair row")
		}
		pairs = append(pairs, models.RecordPair{KeyA: row[0], KeyB: row[1]})
	}

	return pairs, nil
}
