package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFieldMap(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    FieldMap
		wantErr bool
	}{
		{
			name:  "scalar object",
			input: `{"name":"Ravi Kumar","order_value":1299,"active":true,"note":null}`,
			want: FieldMap{
				"name":        "Ravi Kumar",
				"order_value": float64(1299),
				"active":      true,
				"note":        nil,
			},
		},
		{
			name:  "empty object",
			input: `{}`,
			want:  FieldMap{},
		},
		{
			name:    "malformed json",
			input:   `{"name": "Ravi`,
			wantErr: true,
		},
		{
			name:    "top level array",
			input:   `[1,2,3]`,
			wantErr: true,
		},
		{
			name:    "nested object rejected",
			input:   `{"profile":{"name":"Ravi"}}`,
			wantErr: true,
		},
		{
			name:    "nested array rejected",
			input:   `{"tags":["a","b"]}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFieldMap([]byte(tt.input))
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	fields := FieldMap{"name": "Ravi Kumar", "order_value": float64(1299)}
	data, err := fields.Marshal()
	require.NoError(t, err)

	back, err := ParseFieldMap(data)
	require.NoError(t, err)
	assert.Equal(t, fields, back)
}

func TestClone(t *testing.T) {
	fields := FieldMap{"a": "x"}
	clone := fields.Clone()
	clone["a"] = "y"
	assert.Equal(t, "x", fields["a"])
}

func TestValueString(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, ""},
		{"string", "hello", "hello"},
		{"bool", true, "true"},
		{"integral float keeps digit run shape", float64(9876543210), "9876543210"},
		{"fractional float", float64(12.9), "12.9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValueString(tt.in))
		})
	}
}
