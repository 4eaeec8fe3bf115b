package models

import "strings"

// Category is the discretized similarity level for a single compared field
type Category string

const (
	CategoryLow    Category = "low"
	CategoryMedium Category = "medium"
	CategoryHigh   Category = "high"
)

// signatureSeparator joins per-field categories into a Signature. It never
// appears in a category name, so the encoding is unambiguous.
const signatureSeparator = "|"

// Signature is the ordered tuple of per-field similarity categories for one
// candidate pair, encoded as a single comparable value. All pairs sharing a
// signature are treated as statistically identical, so Signature doubles as
// the aggregation key for frequency distributions.
type Signature string

// NewSignature builds a Signature from categories in field-comparison order
func NewSignature(categories []Category) Signature {
	parts := make([]string, len(categories))
	for i, c := range categories {
		parts[i] = string(c)
	}
	return Signature(strings.Join(parts, signatureSeparator))
}

// Record is a single row from one of the two listings being linked
type Record struct {
	Key    string   // dataset-local unique key
	Fields []string // compared field values in dataset field order
}

// RecordPair references one record from each listing by key
type RecordPair struct {
	KeyA string
	KeyB string
}

// PairClass identifies which labeled training set a pair belongs to
type PairClass string

const (
	PairClassMatch   PairClass = "match"
	PairClassUnmatch PairClass = "unmatch"
)
