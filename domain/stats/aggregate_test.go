package stats

import (
	"testing"
	"time"

	"unitestats/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateMatches(t *testing.T) {
	day := core.MustParseDate("2024-03-10")
	at := day.Start().Add(3 * time.Hour)

	matches := []MatchRecord{
		{MatchID: "m1", Pokemon: "pikachu", WinLose: 1, StartedAt: at},
		{MatchID: "m1", Pokemon: "snorlax", WinLose: 0, StartedAt: at},
		{MatchID: "m2", Pokemon: "pikachu", WinLose: 0, StartedAt: at},
		{MatchID: "m2", Pokemon: "blissey", WinLose: 1, StartedAt: at},
		{MatchID: "m3", Pokemon: "pikachu", WinLose: 1, StartedAt: at},
	}

	result := AggregateMatches(day, matches)

	assert.Equal(t, day, result.Date)
	assert.Equal(t, 3, result.NumberOfGames)
	assert.Equal(t, []RawStatRecord{
		{SubjectID: "blissey", GamesPlayed: 1, Wins: 1},
		{SubjectID: "pikachu", GamesPlayed: 3, Wins: 2},
		{SubjectID: "snorlax", GamesPlayed: 1, Wins: 0},
	}, result.ResultPerPokemon)
}

func TestMergeDaily(t *testing.T) {
	days := []*DailyResult{
		{NumberOfGames: 10, ResultPerPokemon: []RawStatRecord{
			{SubjectID: "pikachu", GamesPlayed: 4, Wins: 2},
			{SubjectID: "snorlax", GamesPlayed: 6, Wins: 3},
		}},
		nil,
		{NumberOfGames: 7, ResultPerPokemon: []RawStatRecord{
			{SubjectID: "blissey", GamesPlayed: 5, Wins: 4},
			{SubjectID: "pikachu", GamesPlayed: 2, Wins: 1},
		}},
	}

	total, merged := MergeDaily(days)

	assert.Equal(t, 17, total)
	require.Len(t, merged, 3)
	// pikachu and snorlax tie on 6 games; first-seen order holds
	assert.Equal(t, []RawStatRecord{
		{SubjectID: "pikachu", GamesPlayed: 6, Wins: 3},
		{SubjectID: "snorlax", GamesPlayed: 6, Wins: 3},
		{SubjectID: "blissey", GamesPlayed: 5, Wins: 4},
	}, merged)
}

func TestMergeDailyNoData(t *testing.T) {
	total, merged := MergeDaily([]*DailyResult{nil, nil})
	assert.Equal(t, 0, total)
	assert.NotNil(t, merged)
	assert.Empty(t, merged)
}

func TestSummarize(t *testing.T) {
	s := Summarize(enrichedFixture())

	assert.Equal(t, 4, s.Subjects)
	assert.Equal(t, 30, s.SubjectGames)
	// rates: 44.4, 62.5, 42.9, 50.0
	assert.InDelta(t, 49.95, s.MeanWinRate, 0.051)
	assert.InDelta(t, 47.2, s.MedianWinRate, 0.001)
	assert.Equal(t, 50.0, s.WeightedWinRate)

	empty := Summarize(nil)
	assert.Equal(t, 0, empty.Subjects)
	assert.Equal(t, 0.0, empty.MeanWinRate)
}
