package stats

import (
	descriptive "github.com/montanaflynn/stats"
)

// Summary describes the spread of win rates across a set of enriched records
type Summary struct {
	Subjects        int     `json:"subjects"`
	SubjectGames    int     `json:"subject_games"`
	MeanWinRate     float64 `json:"mean_win_rate"`
	MedianWinRate   float64 `json:"median_win_rate"`
	StdDevWinRate   float64 `json:"stddev_win_rate"`
	WeightedWinRate float64 `json:"weighted_win_rate"`
}

// Summarize computes per-subject win rate statistics. SubjectGames counts
// subject appearances, so one match contributes once per participant.
func Summarize(records []EnrichedStatRecord) Summary {
	s := Summary{Subjects: len(records)}
	if len(records) == 0 {
		return s
	}

	rates := make(descriptive.Float64Data, 0, len(records))
	wins := 0
	for _, r := range records {
		rates = append(rates, r.WinRatePercent)
		s.SubjectGames += r.GamesPlayed
		wins += r.Wins
	}

	if mean, err := rates.Mean(); err == nil {
		s.MeanWinRate, _ = descriptive.Round(mean, 1)
	}
	if median, err := rates.Median(); err == nil {
		s.MedianWinRate, _ = descriptive.Round(median, 1)
	}
	if sd, err := rates.StandardDeviation(); err == nil {
		s.StdDevWinRate, _ = descriptive.Round(sd, 1)
	}
	s.WeightedWinRate = WinRate(wins, s.SubjectGames)

	return s
}
