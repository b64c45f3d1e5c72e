package excel

import (
	"unitestats/domain/catalog"
	"unitestats/domain/daterange"
	"unitestats/domain/stats"
)

// RawRowData represents a row of raw sheet data as header -> cell pairs
type RawRowData map[string]string

// ExcelData represents a complete sheet
type ExcelData struct {
	Headers []string     // Column headers
	Rows    []RawRowData // Data rows
}

// Match record columns expected by ReadMatches
const (
	ColumnMatchID   = "match_id"
	ColumnPokemon   = "pokemon"
	ColumnWinLose   = "winlose"
	ColumnStartedAt = "started_at"
)

// StatsExport is one query result laid out for a workbook
type StatsExport struct {
	Range    daterange.Range
	Category catalog.Category
	Games    int
	Records  []stats.EnrichedStatRecord
	Summary  stats.Summary
}
