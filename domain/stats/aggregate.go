package stats

import (
	"sort"

	"unitestats/domain/core"
)

// AggregateMatches folds one day's match records into per-subject counters.
// NumberOfGames counts distinct match ids; subjects are ordered by id.
func AggregateMatches(date core.Date, matches []MatchRecord) DailyResult {
	bySubject := make(map[string]*RawStatRecord)
	matchIDs := make(map[string]struct{})

	for _, m := range matches {
		matchIDs[m.MatchID] = struct{}{}

		rec, ok := bySubject[m.Pokemon]
		if !ok {
			rec = &RawStatRecord{SubjectID: m.Pokemon}
			bySubject[m.Pokemon] = rec
		}
		rec.GamesPlayed++
		if m.Won() {
			rec.Wins++
		}
	}

	result := DailyResult{
		Date:             date,
		NumberOfGames:    len(matchIDs),
		ResultPerPokemon: make([]RawStatRecord, 0, len(bySubject)),
	}
	for _, rec := range bySubject {
		result.ResultPerPokemon = append(result.ResultPerPokemon, *rec)
	}
	sort.Slice(result.ResultPerPokemon, func(i, j int) bool {
		return result.ResultPerPokemon[i].SubjectID < result.ResultPerPokemon[j].SubjectID
	})

	return result
}

// MergeDaily sums daily aggregates over a period. Days are merged in the order
// given; subjects keep their first-seen position before the final stable sort
// by games played, descending. Nil entries (days without data) are skipped.
func MergeDaily(days []*DailyResult) (totalGames int, merged []RawStatRecord) {
	position := make(map[string]int)

	for _, day := range days {
		if day == nil {
			continue
		}
		totalGames += day.NumberOfGames

		for _, r := range day.ResultPerPokemon {
			if i, ok := position[r.SubjectID]; ok {
				merged[i].GamesPlayed += r.GamesPlayed
				merged[i].Wins += r.Wins
				continue
			}
			position[r.SubjectID] = len(merged)
			merged = append(merged, r)
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].GamesPlayed > merged[j].GamesPlayed
	})

	if merged == nil {
		merged = []RawStatRecord{}
	}
	return totalGames, merged
}
