package pipeline

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
)

// Row is one raw input row: a record identifier plus the still-serialized
// field map.
type Row struct {
	Index    int
	RecordID string
	DataJSON string
}

// Source reads record rows from a delimited stream with a header row. The
// record_id and data_json columns are located case-insensitively, so inputs
// with Data_json or Data_JSON headers are accepted as-is.
type Source struct {
	r       *csv.Reader
	idCol   int
	dataCol int
	next    int
}

// NewSource wraps r and consumes the header row. A missing data_json column
// is a fatal input error; a missing record_id column is tolerated (rows get
// generated identifiers).
func NewSource(r io.Reader) (*Source, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading input header: %w", err)
	}

	src := &Source{r: cr, idCol: -1, dataCol: -1}
	for i, col := range header {
		switch strings.ToLower(strings.TrimSpace(col)) {
		case "record_id":
			src.idCol = i
		case "data_json":
			src.dataCol = i
		}
	}
	if src.dataCol == -1 {
		return nil, fmt.Errorf("input has no data_json column (header: %v)", header)
	}
	return src, nil
}

// Next returns the next row, or io.EOF when the input is exhausted. Rows
// without a record_id get a generated UUID so every output row stays
// addressable.
func (s *Source) Next() (Row, error) {
	fields, err := s.r.Read()
	if err != nil {
		return Row{}, err
	}

	row := Row{Index: s.next}
	s.next++

	if s.idCol >= 0 && s.idCol < len(fields) {
		row.RecordID = strings.TrimSpace(fields[s.idCol])
	}
	if row.RecordID == "" {
		row.RecordID = uuid.NewString()
	}
	if s.dataCol < len(fields) {
		row.DataJSON = fields[s.dataCol]
	}
	return row, nil
}
