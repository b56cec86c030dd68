package engine

import (
	"strconv"
	"strings"
)

// digitSeparators are the characters allowed inside a grouped number
// ("98765 43210", "4111-1111-1111-1111", "(987) 6543210").
func isDigitSeparator(ch rune) bool {
	return ch == ' ' || ch == '-' || ch == '(' || ch == ')'
}

// stripNonDigits removes all non-digit characters from s.
func stripNonDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, ch := range s {
		if ch >= '0' && ch <= '9' {
			b.WriteRune(ch)
		}
	}
	return b.String()
}

// isDigitRun reports whether the trimmed value consists solely of digits and
// digit separators, i.e. the value IS a number rather than containing one.
func isDigitRun(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	sawDigit := false
	for _, ch := range s {
		switch {
		case ch >= '0' && ch <= '9':
			sawDigit = true
		case isDigitSeparator(ch):
		default:
			return false
		}
	}
	return sawDigit
}

// digitCandidates extracts the maximal digit runs embedded in free text,
// separators stripped. Maximality guarantees a 10-digit candidate is never
// a slice of a longer run.
func digitCandidates(s string) []string {
	var out []string
	var run strings.Builder
	inRun := false

	flush := func() {
		if inRun {
			if d := stripNonDigits(run.String()); d != "" {
				out = append(out, d)
			}
			run.Reset()
			inRun = false
		}
	}

	for _, ch := range s {
		switch {
		case ch >= '0' && ch <= '9':
			inRun = true
			run.WriteRune(ch)
		case isDigitSeparator(ch) && inRun:
			run.WriteRune(ch)
		default:
			flush()
		}
	}
	flush()
	return out
}

// luhnValid checks whether a digit string passes the Luhn algorithm (ISO/IEC 7812).
func luhnValid(number string) bool {
	n := len(number)
	if n < 2 {
		return false
	}
	sum := 0
	alt := false
	for i := n - 1; i >= 0; i-- {
		d := int(number[i] - '0')
		if d < 0 || d > 9 {
			return false
		}
		if alt {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		alt = !alt
	}
	return sum%10 == 0
}

// isIPv4 reports whether s is four dot-separated octets each in [0,255].
func isIPv4(s string) bool {
	parts := strings.Split(strings.TrimSpace(s), ".")
	if len(parts) != 4 {
		return false
	}
	for _, p := range parts {
		if p == "" || len(p) > 3 {
			return false
		}
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 || n > 255 {
			return false
		}
		// Reject octets with leading zeros ("01") to avoid matching
		// version-like strings such as 1.02.3.4.
		if len(p) > 1 && p[0] == '0' {
			return false
		}
	}
	return true
}

// alphaTokenCount counts maximal runs of ASCII letters in s.
func alphaTokenCount(s string) int {
	count := 0
	inTok := false
	for _, ch := range s {
		isAlpha := (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
		if isAlpha && !inTok {
			count++
		}
		inTok = isAlpha
	}
	return count
}
