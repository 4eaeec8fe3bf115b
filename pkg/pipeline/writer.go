package pipeline

import (
	"encoding/csv"
	"io"

	"github.com/Ramsey-B/fern/pkg/models"
)

// ResultWriter emits one delimited row per classified candidate pair
type ResultWriter struct {
	writer *csv.Writer
}

// NewResultWriter creates a result writer over the output stream
func NewResultWriter(w io.Writer) *ResultWriter {
	return &ResultWriter{writer: csv.NewWriter(w)}
}

// Write emits a (keyA, keyB, label) row
func (rw *ResultWriter) Write(keyA, keyB string, label models.Label) error {
	return rw.writer.Write([]string{keyA, keyB, string(label)})
}

// Flush flushes buffered rows and reports any deferred write error
func (rw *ResultWriter) Flush() error {
	rw.writer.Flush()
	return rw.writer.Error()
}
