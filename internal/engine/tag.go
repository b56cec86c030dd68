package engine

// Kind is the top-level classification of a single field.
type Kind int

const (
	// KindOrdinary marks a field with no PII signal. Ordinary fields always
	// pass through redaction unchanged.
	KindOrdinary Kind = iota

	// KindStandalone marks a field whose value alone is identifying
	// (phone, Aadhaar, passport, UPI handle, credit card, IP).
	KindStandalone

	// KindCombinatorial marks a field that is identifying only together
	// with a field of a different category.
	KindCombinatorial
)

// String returns the lower_snake_case name used in logs and API responses.
func (k Kind) String() string {
	switch k {
	case KindStandalone:
		return "standalone"
	case KindCombinatorial:
		return "combinatorial"
	default:
		return "ordinary"
	}
}

// Category groups combinatorial candidates. Two distinct categories in one
// record make the record PII; repeats of the same category count once.
type Category string

const (
	CategoryName             Category = "name"
	CategoryEmail            Category = "email"
	CategoryAddress          Category = "address"
	CategoryDeviceOrLocation Category = "device_or_location"
)

// Tag is the classification result for one field in one evaluation.
type Tag struct {
	Kind Kind `json:"kind"`

	// Category is set only for combinatorial tags.
	Category Category `json:"category,omitempty"`

	// Type is the value type used for mask dispatch, e.g. "phone",
	// "aadhaar", "email", "address", "device_id", "location".
	Type string `json:"type,omitempty"`

	// Rule is the name of the recognizer that produced the tag.
	Rule string `json:"rule,omitempty"`
}

// TagMap holds one Tag per field name. Classify returns an entry for every
// field of the input map, ordinary fields included.
type TagMap map[string]Tag
