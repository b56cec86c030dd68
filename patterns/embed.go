// Package patterns provides embedded default recognizer definitions.
// The YAML file in this directory describes field-map recognizers: which
// field names and value shapes mark a field as standalone PII or as a
// combinatorial candidate, and under which category.
package patterns

import _ "embed"

//go:embed pii_in.yaml
var piiINYAML []byte

// PIIINYAML returns the embedded default recognizer definitions
// (Indian-profile field aliases and shapes).
func PIIINYAML() []byte { return piiINYAML }
