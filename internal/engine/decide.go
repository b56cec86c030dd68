package engine

// Decide derives the record-level is_pii verdict from a tag map.
//
// Any standalone tag makes the record PII outright. Otherwise the record is
// PII when two or more distinct combinatorial categories co-occur; repeats
// of the same category (e.g. a device_id next to a latitude/longitude pair)
// count once and are not independently identifying.
func (e *Engine) Decide(tags TagMap) bool {
	categories := make(map[Category]bool, 4)
	for _, tag := range tags {
		switch tag.Kind {
		case KindStandalone:
			return true
		case KindCombinatorial:
			categories[tag.Category] = true
		}
	}
	return len(categories) >= 2
}
