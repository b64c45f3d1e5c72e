package excel

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"unitestats/domain/catalog"
	"unitestats/domain/core"
	"unitestats/domain/daterange"
	"unitestats/domain/stats"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadMatchesCSV(t *testing.T) {
	path := writeFile(t, "matches.csv", `Match_ID,pokemon,winlose,started_at
m1,pikachu,1,2024-03-14 09:30:00
m1,snorlax,lose,2024-03-14T00:30:00Z

m2,pikachu,0,2024-03-14T23:59:59+09:00
`)

	records, err := NewDataReader(path, nil).ReadMatches()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "m1", records[0].MatchID)
	assert.Equal(t, "pikachu", records[0].Pokemon)
	assert.Equal(t, 1, records[0].WinLose)
	assert.True(t, records[0].StartedAt.Equal(time.Date(2024, 3, 14, 9, 30, 0, 0, core.JST)))
	assert.Equal(t, 0, records[1].WinLose)
	assert.True(t, records[1].StartedAt.Equal(time.Date(2024, 3, 14, 9, 30, 0, 0, core.JST)))
	assert.Equal(t, "2024-03-14", core.DateOf(records[2].StartedAt).String())
}

func TestReadMatchesRejectsBadRows(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errText string
	}{
		{"missing column", "match_id,pokemon,winlose\nm1,pikachu,1\n", `missing column "started_at"`},
		{"bad winlose", "match_id,pokemon,winlose,started_at\nm1,pikachu,2,2024-03-14 09:00:00\n", "row 2"},
		{"bad timestamp", "match_id,pokemon,winlose,started_at\nm1,pikachu,1,yesterday\n", "started_at"},
		{"header only", "match_id,pokemon,winlose,started_at\n", "at least a header row"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDataReader(writeFile(t, "m.csv", tt.content), nil).ReadMatches()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errText)
		})
	}
}

func TestReadMatchesJSON(t *testing.T) {
	path := writeFile(t, "matches.json",
		`[{"match_id":"m1","pokemon":"pikachu","winlose":1,"started_at":"2024-03-14T09:00:00+09:00"}]`)

	records, err := NewDataReader(path, nil).ReadMatches()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.True(t, records[0].Won())

	_, err = NewDataReader(writeFile(t, "bad.json", `[{"pokemon":"pikachu"}]`), nil).ReadMatches()
	assert.Error(t, err)
}

func TestReadMatchesJSONRejectsBadRecords(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errText string
	}{
		{"bad winlose", `[{"match_id":"m1","pokemon":"pikachu","winlose":7,"started_at":"2024-03-14T09:00:00+09:00"}]`, "record 0: winlose must be 0 or 1"},
		{"missing started_at", `[{"match_id":"m1","pokemon":"pikachu","winlose":1}]`, "record 0: started_at is required"},
		{"second record", `[{"match_id":"m1","pokemon":"pikachu","winlose":1,"started_at":"2024-03-14T09:00:00+09:00"},{"match_id":"m1","pokemon":"snorlax","winlose":-1,"started_at":"2024-03-14T09:00:00+09:00"}]`, "record 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := NewDataReader(writeFile(t, "m.json", tt.content), nil).ReadMatches()
			require.Error(t, err)
			assert.Nil(t, records)
			assert.Contains(t, err.Error(), tt.errText)
		})
	}
}

func TestReadMatchesXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "matches.xlsx")
	f := excelize.NewFile()
	rows := [][]interface{}{
		{"match_id", "pokemon", "winlose", "started_at"},
		{"m1", "blissey", "win", "2024-03-14 12:00:00"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	records, err := NewDataReader(path, nil).ReadMatches()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "blissey", records[0].Pokemon)
	assert.Equal(t, 1, records[0].WinLose)
}

func TestReadDataMissingFile(t *testing.T) {
	_, err := NewDataReader(filepath.Join(t.TempDir(), "nope.csv"), nil).ReadData()
	assert.Error(t, err)
}

func TestWriteStats(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.xlsx")
	export := StatsExport{
		Range:    daterange.New(core.MustParseDate("2024-03-08"), core.MustParseDate("2024-03-14")),
		Category: catalog.CategoryAll,
		Games:    40,
		Records: []stats.EnrichedStatRecord{
			{
				RawStatRecord:  stats.RawStatRecord{SubjectID: "blissey", GamesPlayed: 30, Wins: 18},
				WinRatePercent: 60,
				Reference:      catalog.Record{ID: "blissey", Name: "ハピナス", Category: catalog.CategorySupporter},
			},
			{
				RawStatRecord:  stats.RawStatRecord{SubjectID: "pikachu", GamesPlayed: 20, Wins: 11},
				WinRatePercent: 55,
				Reference:      catalog.Record{ID: "pikachu", Name: "ピカチュウ", Category: catalog.CategoryAttacker},
			},
		},
		Summary: stats.Summary{Subjects: 2, MeanWinRate: 57.5},
	}
	require.NoError(t, WriteStats(path, export))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Stats")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Rank", "ID", "Name", "Category", "Games", "Wins", "Win Rate (%)"}, rows[0])
	assert.Equal(t, []string{"1", "blissey", "ハピナス", "サポート型", "30", "18", "60"}, rows[1])
	assert.Equal(t, "pikachu", rows[2][1])

	start, err := f.GetCellValue("Summary", "B1")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-08", start)
	games, err := f.GetCellValue("Summary", "B4")
	require.NoError(t, err)
	assert.Equal(t, "40", games)
}
