// Package record defines the self-contained unit the engine operates on:
// an opaque record ID plus a flat map of named scalar fields.
package record

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// FieldMap maps a field name to its scalar value. Values come from parsed
// JSON objects and are one of: string, float64, bool, nil. Nested objects
// and arrays are rejected at parse time.
type FieldMap map[string]any

// Record pairs a caller-supplied identifier with its field map. The ID is
// opaque; uniqueness is the caller's problem, not ours.
type Record struct {
	ID     string
	Fields FieldMap
}

// ParseFieldMap decodes a serialized JSON object into a FieldMap.
// Anything that is not a flat object of scalar values is a contract
// violation for that single record and returns an error.
func ParseFieldMap(data []byte) (FieldMap, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing field map: %w", err)
	}

	fields := make(FieldMap, len(raw))
	for name, msg := range raw {
		var v any
		if err := json.Unmarshal(msg, &v); err != nil {
			return nil, fmt.Errorf("parsing field %q: %w", name, err)
		}
		switch v.(type) {
		case string, float64, bool, nil:
			fields[name] = v
		default:
			return nil, fmt.Errorf("field %q: nested values are not supported", name)
		}
	}
	return fields, nil
}

// Marshal serializes a FieldMap back to a JSON object.
func (f FieldMap) Marshal() ([]byte, error) {
	out, err := json.Marshal(map[string]any(f))
	if err != nil {
		return nil, fmt.Errorf("serializing field map: %w", err)
	}
	return out, nil
}

// Clone returns a shallow copy. Values are scalars, so a shallow copy is a
// full copy.
func (f FieldMap) Clone() FieldMap {
	out := make(FieldMap, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// ValueString renders a field value as text for shape matching. Numbers are
// rendered without a trailing exponent or decimal point when integral, so a
// JSON 9876543210 still looks like a ten-digit run.
func ValueString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", t)
	}
}
