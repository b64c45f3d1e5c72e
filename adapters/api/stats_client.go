package api

import (
	"context"
	"fmt"
	"net/url"

	"unitestats/domain/core"
	"unitestats/domain/daterange"
	"unitestats/domain/stats"
	apperrors "unitestats/internal/errors"

	"github.com/tidwall/gjson"
)

// StatsClient queries the stats source:
// GET <url>?start_date=YYYY-MM-DD&end_date=YYYY-MM-DD
type StatsClient struct {
	url    string
	reader reader
}

// NewStatsClient creates a client for the stats source at url
func NewStatsClient(url string, cfg ClientConfig) (*StatsClient, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if url == "" {
		return nil, &ValidationError{Field: "url", Message: "stats URL is required"}
	}
	return &StatsClient{url: url, reader: newReader(cfg)}, nil
}

// FetchStats implements ports.StatsSource
func (c *StatsClient) FetchStats(ctx context.Context, r daterange.Range) (*stats.StatsResponse, error) {
	query := url.Values{}
	query.Set("start_date", r.Start.String())
	query.Set("end_date", r.End.String())

	body, err := c.reader.get(ctx, c.url, query)
	if err != nil {
		return nil, apperrors.ExternalServiceError("stats", err)
	}

	resp, err := parseStatsResponse(body)
	if err != nil {
		return nil, apperrors.ExternalServiceError("stats", err)
	}
	return resp, nil
}

// parseStatsResponse extracts the counters from a stats payload
func parseStatsResponse(body []byte) (*stats.StatsResponse, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("stats response is not valid JSON")
	}

	doc := gjson.ParseBytes(body)
	results := doc.Get("result_per_pokemon")
	if !results.Exists() || !results.IsArray() {
		return nil, fmt.Errorf("stats response has no result_per_pokemon array")
	}

	resp := &stats.StatsResponse{
		NumberOfGames:    int(doc.Get("number_of_games").Int()),
		ResultPerPokemon: make([]stats.RawStatRecord, 0, len(results.Array())),
	}

	var err error
	if resp.StartDate, err = optionalDate(doc.Get("start_date")); err != nil {
		return nil, fmt.Errorf("start_date: %w", err)
	}
	if resp.EndDate, err = optionalDate(doc.Get("end_date")); err != nil {
		return nil, fmt.Errorf("end_date: %w", err)
	}

	results.ForEach(func(_, item gjson.Result) bool {
		resp.ResultPerPokemon = append(resp.ResultPerPokemon, stats.RawStatRecord{
			SubjectID:   item.Get("pokemon").String(),
			GamesPlayed: int(item.Get("number_of_games").Int()),
			Wins:        int(item.Get("number_of_wins").Int()),
		})
		return true
	})

	return resp, nil
}

func optionalDate(v gjson.Result) (core.Date, error) {
	if !v.Exists() || v.String() == "" {
		return core.Date{}, nil
	}
	return core.ParseDate(v.String())
}
