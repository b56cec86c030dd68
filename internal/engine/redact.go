package engine

import (
	"strings"

	"github.com/dativo-io/shroud/internal/record"
)

// Sentinel masks for value shapes where partial masking would still leak
// structure (free-text addresses, coordinates, device identifiers).
const (
	SentinelAddress  = "[REDACTED_ADDRESS]"
	SentinelIP       = "[REDACTED_IP]"
	SentinelDevice   = "[REDACTED_DEVICE]"
	SentinelLocation = "[REDACTED_LOCATION]"
	SentinelGeneric  = "[REDACTED_PII]"
)

const fillChar = "X"

// minPartialLen is the shortest value the first-2/last-2 partial mask may be
// applied to; anything shorter gets the generic sentinel so at least two
// characters are always destroyed.
const minPartialLen = 6

// Redact produces a new field map with every sensitive value masked.
// Standalone fields are always masked; combinatorial candidates are masked
// only when the record verdict is true; ordinary fields pass through
// unchanged. The input map is never mutated.
//
// Masking is total: a value whose shape does not fit its tag's expected
// pattern still receives the generic sentinel rather than an error or the
// raw value.
func (e *Engine) Redact(fields record.FieldMap, tags TagMap, verdict bool) record.FieldMap {
	out := fields.Clone()
	for name, tag := range tags {
		switch tag.Kind {
		case KindStandalone:
			out[name] = maskValue(tag.Type, record.ValueString(fields[name]))
		case KindCombinatorial:
			if verdict {
				out[name] = maskValue(tag.Type, record.ValueString(fields[name]))
			}
		}
	}
	return out
}

// maskValue dispatches to the type-specific masking rule. Every branch is a
// total function of (type, value).
func maskValue(typ, value string) string {
	switch typ {
	case "phone", "aadhaar", "credit_card":
		return maskDigits(value)
	case "email", "upi":
		return maskEmail(value)
	case "name":
		return maskName(value)
	case "passport":
		return maskPartial(value)
	case "address":
		return SentinelAddress
	case "ip":
		return SentinelIP
	case "device_id":
		return SentinelDevice
	case "location":
		return SentinelLocation
	default:
		return SentinelGeneric
	}
}

// maskDigits keeps the first two and last two digits of the contained number
// and fills the interior ("9876543210" -> "98XXXXXX10"). Grouping separators
// are dropped.
func maskDigits(value string) string {
	digits := stripNonDigits(value)
	if len(digits) < minPartialLen {
		return SentinelGeneric
	}
	return digits[:2] + strings.Repeat(fillChar, len(digits)-4) + digits[len(digits)-2:]
}

// maskEmail keeps the first two characters of the local part and the domain
// verbatim ("ravi@email.com" -> "raXXX@email.com").
func maskEmail(value string) string {
	at := strings.Index(value, "@")
	if at < 0 {
		return SentinelGeneric
	}
	local, domain := value[:at], value[at:]
	if len(local) <= 2 {
		return "XX" + domain
	}
	return local[:2] + "XXX" + domain
}

// maskName masks each token after its first character, preserving token
// count and the casing of the leading letter ("Ravi Kumar" -> "RXXX KXXX").
func maskName(value string) string {
	tokens := strings.Fields(value)
	if len(tokens) == 0 {
		return SentinelGeneric
	}
	masked := make([]string, len(tokens))
	for i, tok := range tokens {
		runes := []rune(tok)
		masked[i] = string(runes[0]) + strings.Repeat(fillChar, len(runes)-1)
	}
	return strings.Join(masked, " ")
}

// maskPartial is the generic partial mask: first two and last two characters
// survive, the interior is filled. Short values get the sentinel instead.
func maskPartial(value string) string {
	runes := []rune(value)
	if len(runes) < minPartialLen {
		return SentinelGeneric
	}
	return string(runes[:2]) + strings.Repeat(fillChar, len(runes)-4) + string(runes[len(runes)-2:])
}
