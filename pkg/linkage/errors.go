package linkage

import "fmt"

// The linkage pipeline is a batch analytical tool: every structural
// inconsistency is fatal and aborts the run. Skipping rows silently would
// corrupt the probability estimates, so there is no best-effort mode.

// LookupError indicates a training or candidate pair referenced a key that is
// absent from its dataset
type LookupError struct {
	Dataset string
	Key     string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("key %q not found in dataset %q", e.Key, e.Dataset)
}

// EmptyTrainingSetError indicates an empty labeled pair set was supplied to
// the estimator. Relative frequencies cannot be normalized over zero pairs.
type EmptyTrainingSetError struct {
	Class string
}

func (e *EmptyTrainingSetError) Error() string {
	return fmt.Sprintf("training set %q is empty, cannot estimate frequencies", e.Class)
}

// SchemaMismatchError indicates the two datasets, or a row within one of
// them, disagree on the number of compared fields
type SchemaMismatchError struct {
	DatasetA string
	DatasetB string
	FieldsA  int
	FieldsB  int
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("field count mismatch: dataset %q has %d compared fields, dataset %q has %d",
		e.DatasetA, e.FieldsA, e.DatasetB, e.FieldsB)
}

// InvalidParameterError indicates an error-rate bound outside [0, 1]
type InvalidParameterError struct {
	Name  string
	Value float64
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("parameter %s=%v is outside [0, 1]", e.Name, e.Value)
}
