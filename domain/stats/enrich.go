package stats

import (
	"fmt"
	"math"
	"sort"

	"unitestats/domain/catalog"
)

// WinRate returns wins/games as a percentage rounded to one decimal place.
// Zero games yields 0.
func WinRate(wins, games int) float64 {
	if games <= 0 {
		return 0
	}
	return math.Round(float64(wins)/float64(games)*1000) / 10
}

// Enrich joins raw counters against the catalog.
//
// Records with an empty or "unknown" subject are dropped silently. Records
// whose subject is absent from the catalog, or whose counters are out of
// range, are dropped with one diagnostic each. Repeated subjects are merged
// into the first occurrence. The output is sorted by games played, descending,
// keeping input order among ties.
func Enrich(cat map[string]catalog.Record, raw []RawStatRecord) EnrichResult {
	result := EnrichResult{Records: make([]EnrichedStatRecord, 0, len(raw))}
	position := make(map[string]int, len(raw))

	for _, r := range raw {
		if r.SubjectID == "" || r.SubjectID == UnknownSubject {
			continue
		}

		if r.GamesPlayed < 0 || r.Wins < 0 || r.Wins > r.GamesPlayed {
			result.Diagnostics = append(result.Diagnostics, Diagnostic{
				Kind:      DiagnosticInvalidCounters,
				SubjectID: r.SubjectID,
				Message:   fmt.Sprintf("invalid counters: %d wins in %d games", r.Wins, r.GamesPlayed),
			})
			continue
		}

		ref, ok := cat[r.SubjectID]
		if !ok {
			result.Diagnostics = append(result.Diagnostics, Diagnostic{
				Kind:      DiagnosticUnknownSubject,
				SubjectID: r.SubjectID,
				Message:   fmt.Sprintf("subject %q not found in catalog", r.SubjectID),
			})
			continue
		}

		if i, seen := position[r.SubjectID]; seen {
			existing := &result.Records[i]
			existing.GamesPlayed += r.GamesPlayed
			existing.Wins += r.Wins
			result.Diagnostics = append(result.Diagnostics, Diagnostic{
				Kind:      DiagnosticDuplicateSubject,
				SubjectID: r.SubjectID,
				Message:   fmt.Sprintf("subject %q reported more than once, counters merged", r.SubjectID),
			})
			continue
		}

		position[r.SubjectID] = len(result.Records)
		result.Records = append(result.Records, EnrichedStatRecord{
			RawStatRecord: r,
			Reference:     ref,
		})
	}

	for i := range result.Records {
		rec := &result.Records[i]
		rec.WinRatePercent = WinRate(rec.Wins, rec.GamesPlayed)
	}

	sort.SliceStable(result.Records, func(i, j int) bool {
		return result.Records[i].GamesPlayed > result.Records[j].GamesPlayed
	})

	return result
}
