// Package dataset holds the in-memory listings being linked and their loaders
package dataset

import (
	"fmt"

	"github.com/Ramsey-B/fern/pkg/models"
)

// Dataset is one of the two listings being linked: keyed records with a fixed
// field order shared by every row. Key iteration order is insertion order so
// output generation is reproducible.
type Dataset struct {
	name       string
	fieldNames []string
	keys       []string
	records    map[string]models.Record
}

// New creates an empty dataset with the given compared-field order
func New(name string, fieldNames []string) (*Dataset, error) {
	if len(fieldNames) == 0 {
		return nil, fmt.Errorf("dataset %q has no compared fields", name)
	}
	return &Dataset{
		name:       name,
		fieldNames: fieldNames,
		records:    make(map[string]models.Record),
	}, nil
}

// Name returns the dataset name
func (d *Dataset) Name() string {
	return d.name
}

// FieldNames returns the compared field names in comparison order
func (d *Dataset) FieldNames() []string {
	return d.fieldNames
}

// FieldCount returns the number of compared fields
func (d *Dataset) FieldCount() int {
	return len(d.fieldNames)
}

// FieldIndex returns the position of a named field, or -1 if absent
func (d *Dataset) FieldIndex(name string) int {
	for i, f := range d.fieldNames {
		if f == name {
			return i
		}
	}
	return -1
}

// Add appends a record. Records must carry exactly one value per compared
// field; a short or long row is a structural inconsistency, not data to skip.
func (d *Dataset) Add(record models.Record) error {
	if len(record.Fields) != len(d.fieldNames) {
		return fmt.Errorf("dataset %q record %q has %d fields, expected %d",
			d.name, record.Key, len(record.Fields), len(d.fieldNames))
	}
	if _, exists := d.records[record.Key]; exists {
		return fmt.Errorf("dataset %q has duplicate key %q", d.name, record.Key)
	}
	d.keys = append(d.keys, record.Key)
	d.records[record.Key] = record
	return nil
}

// Get looks up a record by key
func (d *Dataset) Get(key string) (models.Record, bool) {
	record, ok := d.records[key]
	return record, ok
}

// Keys returns all record keys in insertion order
func (d *Dataset) Keys() []string {
	return d.keys
}

// Len returns the number of records
func (d *Dataset) Len() int {
	return len(d.keys)
}
