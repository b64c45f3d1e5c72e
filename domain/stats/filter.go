package stats

import "unitestats/domain/catalog"

// FilterByCategory keeps the records whose reference category matches.
// The wildcard returns records as given.
func FilterByCategory(records []EnrichedStatRecord, category catalog.Category) []EnrichedStatRecord {
	if category == catalog.CategoryAll {
		return records
	}
	filtered := make([]EnrichedStatRecord, 0, len(records))
	for _, r := range records {
		if r.Reference.Category == category {
			filtered = append(filtered, r)
		}
	}
	return filtered
}
