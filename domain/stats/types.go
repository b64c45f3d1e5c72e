package stats

import (
	"time"

	"unitestats/domain/catalog"
	"unitestats/domain/core"
)

// UnknownSubject marks matches the source could not attribute to a subject
const UnknownSubject = "unknown"

// RawStatRecord is one subject's counters as reported by the stats source
type RawStatRecord struct {
	SubjectID   string `json:"pokemon"`
	GamesPlayed int    `json:"number_of_games"`
	Wins        int    `json:"number_of_wins"`
}

// EnrichedStatRecord is a raw record joined with its catalog entry
type EnrichedStatRecord struct {
	RawStatRecord
	WinRatePercent float64        `json:"win_rate"`
	Reference      catalog.Record `json:"pokemon_info"`
}

// StatsResponse is the stats source payload for one date range
type StatsResponse struct {
	NumberOfGames    int             `json:"number_of_games"`
	StartDate        core.Date       `json:"start_date"`
	EndDate          core.Date       `json:"end_date"`
	ResultPerPokemon []RawStatRecord `json:"result_per_pokemon"`
}

// DailyResult is the stored aggregate for a single JST day
type DailyResult struct {
	Date             core.Date       `json:"aggregated_date"`
	NumberOfGames    int             `json:"number_of_games"`
	ResultPerPokemon []RawStatRecord `json:"result_per_pokemon"`
}

// MatchRecord is one subject's participation in one match.
// WinLose is 1 for a win and 0 for a loss.
type MatchRecord struct {
	MatchID   string    `db:"match_id" json:"match_id"`
	Pokemon   string    `db:"pokemon" json:"pokemon"`
	WinLose   int       `db:"winlose" json:"winlose"`
	StartedAt time.Time `db:"started_at" json:"started_at"`
}

// Won reports whether the record counts as a win
func (m MatchRecord) Won() bool {
	return m.WinLose > 0
}

// DiagnosticKind classifies a dropped or adjusted raw record
type DiagnosticKind string

const (
	// DiagnosticUnknownSubject: the subject is missing from the catalog
	DiagnosticUnknownSubject DiagnosticKind = "unknown_subject"
	// DiagnosticDuplicateSubject: the subject appeared more than once and was merged
	DiagnosticDuplicateSubject DiagnosticKind = "duplicate_subject"
	// DiagnosticInvalidCounters: wins/games violate 0 <= wins <= games
	DiagnosticInvalidCounters DiagnosticKind = "invalid_counters"
)

// Diagnostic is a non-fatal data-integrity finding
type Diagnostic struct {
	Kind      DiagnosticKind `json:"kind"`
	SubjectID string         `json:"subject_id"`
	Message   string         `json:"message"`
}

// EnrichResult carries the enriched records and every diagnostic raised
// while building them
type EnrichResult struct {
	Records     []EnrichedStatRecord `json:"records"`
	Diagnostics []Diagnostic         `json:"diagnostics"`
}

// Dropped counts the records excluded because of a diagnostic
func (r *EnrichResult) Dropped() int {
	n := 0
	for _, d := range r.Diagnostics {
		if d.Kind != DiagnosticDuplicateSubject {
			n++
		}
	}
	return n
}
