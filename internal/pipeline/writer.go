package pipeline

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// Result is the outcome of processing one row: the verdict and the
// serialized redacted field map, ready for the sink.
type Result struct {
	Index        int
	RecordID     string
	RedactedJSON string
	IsPII        bool

	// Malformed marks a row whose data_json could not be parsed; it is
	// passed through unredacted with a false verdict.
	Malformed bool
}

// Sink serializes results back to a delimited stream with columns
// record_id, redacted_data_json, is_pii.
type Sink struct {
	w *csv.Writer
}

// NewSink wraps w and writes the output header row.
func NewSink(w io.Writer) (*Sink, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"record_id", "redacted_data_json", "is_pii"}); err != nil {
		return nil, fmt.Errorf("writing output header: %w", err)
	}
	return &Sink{w: cw}, nil
}

// Write emits one result row.
func (s *Sink) Write(res Result) error {
	row := []string{res.RecordID, res.RedactedJSON, strconv.FormatBool(res.IsPII)}
	if err := s.w.Write(row); err != nil {
		return fmt.Errorf("writing row for record %s: %w", res.RecordID, err)
	}
	return nil
}

// Flush drains buffered rows to the underlying writer.
func (s *Sink) Flush() error {
	s.w.Flush()
	return s.w.Error()
}
