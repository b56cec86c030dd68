package engine

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dativo-io/shroud/patterns"
)

// RecognizerFile is the top-level YAML structure for a rules file.
type RecognizerFile struct {
	Recognizers []RecognizerConfig `yaml:"recognizers"`
}

// RecognizerConfig describes one recognizer: which field names it claims,
// what value shape it requires, and how a match is tagged.
type RecognizerConfig struct {
	Name     string `yaml:"name" json:"name"`
	Kind     string `yaml:"kind" json:"kind"` // "standalone" or "combinatorial"
	Type     string `yaml:"type" json:"type"`
	Category string `yaml:"category,omitempty" json:"category,omitempty"`
	Enabled  *bool  `yaml:"enabled,omitempty" json:"enabled,omitempty"`

	// FieldAliases are recognized field names (matched case-insensitively).
	// An alias match relaxes the shape check to a substring search.
	FieldAliases []string `yaml:"field_aliases,omitempty" json:"field_aliases,omitempty"`

	// PairSlots describe co-occurrence rules: every slot must be filled by
	// a present, non-empty field before any of the involved fields is
	// tagged. Each slot lists acceptable field names.
	PairSlots [][]string `yaml:"pair_slots,omitempty" json:"pair_slots,omitempty"`

	// Shape checks. At most one of Regex / digit constraints applies.
	Regex          string `yaml:"regex,omitempty" json:"regex,omitempty"`
	MinAlphaTokens int    `yaml:"min_alpha_tokens,omitempty" json:"min_alpha_tokens,omitempty"`
	DigitLength    int    `yaml:"digit_length,omitempty" json:"digit_length,omitempty"`
	DigitMin       int    `yaml:"digit_min,omitempty" json:"digit_min,omitempty"`
	DigitMax       int    `yaml:"digit_max,omitempty" json:"digit_max,omitempty"`
	ValidateLuhn   bool   `yaml:"validate_luhn,omitempty" json:"validate_luhn,omitempty"`
	ValidateIPv4   bool   `yaml:"validate_ipv4,omitempty" json:"validate_ipv4,omitempty"`

	// ShapeOnlyMatch lets the value shape alone claim a field regardless of
	// its name (used by the email recognizer).
	ShapeOnlyMatch bool `yaml:"shape_only_match,omitempty" json:"shape_only_match,omitempty"`

	// ProviderSuffixes whitelist the domain part for UPI-style handles when
	// matching by shape alone. Alias matches skip the whitelist.
	ProviderSuffixes []string `yaml:"provider_suffixes,omitempty" json:"provider_suffixes,omitempty"`
}

// isEnabled returns true if the recognizer is enabled (defaults to true when nil).
func (r *RecognizerConfig) isEnabled() bool {
	if r.Enabled == nil {
		return true
	}
	return *r.Enabled
}

// DefaultRecognizers returns the built-in recognizers parsed from the
// embedded pii_in.yaml file. This is the first layer in the merge chain.
func DefaultRecognizers() ([]RecognizerConfig, error) {
	rf, err := ParseRecognizerFile(patterns.PIIINYAML())
	if err != nil {
		return nil, fmt.Errorf("parsing embedded recognizers: %w", err)
	}
	return rf.Recognizers, nil
}

// ParseRecognizerFile parses recognizer YAML bytes into a RecognizerFile.
func ParseRecognizerFile(data []byte) (*RecognizerFile, error) {
	var rf RecognizerFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parsing recognizer YAML: %w", err)
	}
	return &rf, nil
}

// LoadRecognizerFile reads, schema-validates, and parses a recognizer YAML
// file from disk. Returns nil (not an error) if the file does not exist, so
// callers can treat a missing operator rules file as a no-op.
func LoadRecognizerFile(path string) (*RecognizerFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading recognizer file %s: %w", path, err)
	}
	if err := ValidateRecognizerDocument(data); err != nil {
		return nil, fmt.Errorf("validating recognizer file %s: %w", path, err)
	}
	return ParseRecognizerFile(data)
}

// MergeRecognizers layers recognizer lists: defaults first, then operator
// overrides, then per-call custom recognizers. Later layers override earlier
// ones by matching on the recognizer Name; new recognizers are appended.
func MergeRecognizers(layers ...[]RecognizerConfig) []RecognizerConfig {
	index := make(map[string]int)
	var merged []RecognizerConfig

	for _, layer := range layers {
		for _, rc := range layer {
			if idx, exists := index[rc.Name]; exists {
				merged[idx] = rc
			} else {
				index[rc.Name] = len(merged)
				merged = append(merged, rc)
			}
		}
	}

	return merged
}

// rule is a compiled recognizer ready for matching.
type rule struct {
	name     string
	kind     Kind
	typ      string
	category Category

	aliases   map[string]bool
	pairSlots [][]string

	pattern        *regexp.Regexp
	minAlphaTokens int
	digitMin       int
	digitMax       int
	validateLuhn   bool
	validateIPv4   bool
	shapeOnly      bool
	suffixes       map[string]bool
}

// Ruleset is the immutable compiled rule table an Engine evaluates. Built
// once at startup and shared read-only across goroutines.
type Ruleset struct {
	standalone    []rule
	combinatorial []rule
}

// CompileRules converts recognizer configs into a Ruleset. Disabled
// recognizers are skipped. Config order is preserved: within each kind the
// first matching rule wins per field.
func CompileRules(recognizers []RecognizerConfig) (*Ruleset, error) {
	rs := &Ruleset{}

	for _, rec := range recognizers {
		if !rec.isEnabled() {
			continue
		}

		r := rule{
			name:           rec.Name,
			typ:            rec.Type,
			minAlphaTokens: rec.MinAlphaTokens,
			validateLuhn:   rec.ValidateLuhn,
			validateIPv4:   rec.ValidateIPv4,
			shapeOnly:      rec.ShapeOnlyMatch,
			pairSlots:      rec.PairSlots,
		}

		switch rec.Kind {
		case "standalone":
			r.kind = KindStandalone
		case "combinatorial":
			r.kind = KindCombinatorial
			r.category = Category(rec.Category)
			if r.category == "" {
				return nil, fmt.Errorf("recognizer %q: combinatorial recognizers need a category", rec.Name)
			}
		default:
			return nil, fmt.Errorf("recognizer %q: unknown kind %q", rec.Name, rec.Kind)
		}

		if rec.DigitLength > 0 {
			r.digitMin, r.digitMax = rec.DigitLength, rec.DigitLength
		} else {
			r.digitMin, r.digitMax = rec.DigitMin, rec.DigitMax
		}

		if rec.Regex != "" {
			compiled, err := regexp.Compile(rec.Regex)
			if err != nil {
				return nil, fmt.Errorf("compiling regex in recognizer %q: %w", rec.Name, err)
			}
			r.pattern = compiled
		}

		if len(rec.FieldAliases) > 0 {
			r.aliases = make(map[string]bool, len(rec.FieldAliases))
			for _, a := range rec.FieldAliases {
				r.aliases[strings.ToLower(a)] = true
			}
		}
		if len(rec.ProviderSuffixes) > 0 {
			r.suffixes = make(map[string]bool, len(rec.ProviderSuffixes))
			for _, s := range rec.ProviderSuffixes {
				r.suffixes[strings.ToLower(s)] = true
			}
		}

		switch r.kind {
		case KindStandalone:
			rs.standalone = append(rs.standalone, r)
		case KindCombinatorial:
			rs.combinatorial = append(rs.combinatorial, r)
		}
	}

	return rs, nil
}
