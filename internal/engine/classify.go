package engine

import (
	"sort"
	"strings"

	"github.com/dativo-io/shroud/internal/record"
)

// Classify inspects one field map and tags every field as standalone,
// combinatorial candidate, or ordinary. Standalone rules are evaluated
// first, in ruleset order, and the first match wins per field; combinatorial
// rules only see fields no standalone rule claimed. Empty and null values
// are always ordinary.
//
// Classification is a pure function of the input map: no state is kept
// between calls and field insertion order does not matter.
func (e *Engine) Classify(fields record.FieldMap) TagMap {
	tags := make(TagMap, len(fields))
	names := sortedNames(fields)

	for _, name := range names {
		tags[name] = Tag{Kind: KindOrdinary}
		value := strings.TrimSpace(record.ValueString(fields[name]))
		if value == "" {
			continue
		}
		for i := range e.rules.standalone {
			r := &e.rules.standalone[i]
			if r.matchStandalone(name, value) {
				tags[name] = Tag{Kind: KindStandalone, Type: r.typ, Rule: r.name}
				break
			}
		}
	}

	for i := range e.rules.combinatorial {
		r := &e.rules.combinatorial[i]

		if len(r.pairSlots) > 0 {
			for _, name := range r.resolvePairSlots(fields, tags, names) {
				tags[name] = Tag{Kind: KindCombinatorial, Category: r.category, Type: r.typ, Rule: r.name}
			}
			continue
		}

		for _, name := range names {
			if tags[name].Kind != KindOrdinary {
				continue
			}
			value := strings.TrimSpace(record.ValueString(fields[name]))
			if value == "" {
				continue
			}
			if r.matchCombinatorial(name, value) {
				tags[name] = Tag{Kind: KindCombinatorial, Category: r.category, Type: r.typ, Rule: r.name}
			}
		}
	}

	return tags
}

// matchStandalone reports whether a single (name, value) pair satisfies a
// standalone rule. A recognized field alias relaxes the shape check to a
// search within the value; unrecognized names require the whole value to be
// the shape.
func (r *rule) matchStandalone(name, value string) bool {
	alias := r.aliases[strings.ToLower(name)]

	if r.digitMax > 0 {
		if !alias && !isDigitRun(value) {
			return false
		}
		for _, cand := range digitCandidates(value) {
			if len(cand) < r.digitMin || len(cand) > r.digitMax {
				continue
			}
			if r.validateLuhn && !luhnValid(cand) {
				continue
			}
			return true
		}
		return false
	}

	if r.validateIPv4 {
		return isIPv4(value) || alias
	}

	if r.pattern != nil {
		m := r.pattern.FindString(value)
		if m == "" {
			return false
		}
		if alias {
			return true
		}
		if m != value {
			return false
		}
		if r.suffixes != nil {
			at := strings.LastIndex(m, "@")
			if at < 0 || !r.suffixes[strings.ToLower(m[at+1:])] {
				return false
			}
		}
		return true
	}

	return alias
}

// matchCombinatorial reports whether a single (name, value) pair qualifies
// as a combinatorial candidate under this rule.
func (r *rule) matchCombinatorial(name, value string) bool {
	alias := r.aliases[strings.ToLower(name)]

	if r.pattern != nil {
		m := r.pattern.FindString(value)
		if alias {
			return m != ""
		}
		return r.shapeOnly && m == value
	}

	if !alias {
		return false
	}
	if r.minAlphaTokens > 0 {
		return alphaTokenCount(value) >= r.minAlphaTokens
	}
	return true
}

// resolvePairSlots returns the field names claimed by a co-occurrence rule,
// one per slot, or nil when any slot is unfilled. Only fields that are still
// ordinary and non-empty can fill a slot.
func (r *rule) resolvePairSlots(fields record.FieldMap, tags TagMap, names []string) []string {
	resolved := make([]string, 0, len(r.pairSlots))
	for _, slot := range r.pairSlots {
		found := ""
		for _, name := range names {
			if tags[name].Kind != KindOrdinary {
				continue
			}
			if strings.TrimSpace(record.ValueString(fields[name])) == "" {
				continue
			}
			lower := strings.ToLower(name)
			for _, candidate := range slot {
				if lower == candidate {
					found = name
					break
				}
			}
			if found != "" {
				break
			}
		}
		if found == "" {
			return nil
		}
		resolved = append(resolved, found)
	}
	return resolved
}

func sortedNames(fields record.FieldMap) []string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
