package app

import (
	"context"
	"errors"
	"testing"

	"unitestats/domain/catalog"
	"unitestats/domain/core"
	"unitestats/domain/daterange"
	"unitestats/domain/stats"
	apperrors "unitestats/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestStatsService(source *MockStatsSource, provider staticCatalog) *StatsService {
	return NewStatsService(testPolicy(), source, NewStatsEnricher(provider, nil), nil)
}

func rangeOf(start, end string) daterange.Range {
	return daterange.New(core.MustParseDate(start), core.MustParseDate(end))
}

func sampleResponse(r daterange.Range) *stats.StatsResponse {
	return &stats.StatsResponse{
		NumberOfGames: 40,
		StartDate:     r.Start,
		EndDate:       r.End,
		ResultPerPokemon: []stats.RawStatRecord{
			{SubjectID: "pikachu", GamesPlayed: 20, Wins: 11},
			{SubjectID: "blissey", GamesPlayed: 30, Wins: 18},
			{SubjectID: "mawhip", GamesPlayed: 12, Wins: 6},
			{SubjectID: "snorlax", GamesPlayed: 10, Wins: 4},
			{SubjectID: "", GamesPlayed: 3, Wins: 1},
			{SubjectID: "zeraora", GamesPlayed: 2, Wins: 1},
		},
	}
}

func TestStatsServiceWindow(t *testing.T) {
	svc := newTestStatsService(new(MockStatsSource), staticCatalog{})

	info := svc.Window()
	assert.Equal(t, "2024-03-15", info.Today.String())
	assert.Equal(t, rangeOf("2024-03-07", "2024-03-14"), info.Window)
	assert.Equal(t, rangeOf("2024-03-08", "2024-03-14"), info.DefaultRange)
}

func TestStatsServiceQueryAllCategories(t *testing.T) {
	r := rangeOf("2024-03-10", "2024-03-12")
	source := new(MockStatsSource)
	source.On("FetchStats", mock.Anything, r).Return(sampleResponse(r), nil).Once()
	svc := newTestStatsService(source, staticCatalog{catalog: catalog.Normalize(catalogRecords())})

	result, err := svc.Query(context.Background(), QueryRequest{Range: r})
	require.NoError(t, err)

	assert.False(t, result.QueryID.IsEmpty())
	assert.Equal(t, catalog.CategoryAll, result.Category)
	assert.Equal(t, 40, result.TotalGames)

	ids := make([]string, len(result.Records))
	for i, rec := range result.Records {
		ids[i] = rec.SubjectID
	}
	assert.Equal(t, []string{"blissey", "pikachu", "mawhip", "snorlax"}, ids)

	require.Len(t, result.Diagnostics, 1)
	assert.Equal(t, "zeraora", result.Diagnostics[0].SubjectID)
	assert.Equal(t, 4, result.Summary.Subjects)
	source.AssertExpectations(t)
}

func TestStatsServiceQueryFiltersByCategory(t *testing.T) {
	r := rangeOf("2024-03-10", "2024-03-12")
	source := new(MockStatsSource)
	source.On("FetchStats", mock.Anything, r).Return(sampleResponse(r), nil)
	svc := newTestStatsService(source, staticCatalog{catalog: catalog.Normalize(catalogRecords())})

	result, err := svc.Query(context.Background(), QueryRequest{Range: r, Category: catalog.CategorySupporter})
	require.NoError(t, err)

	require.Len(t, result.Records, 2)
	assert.Equal(t, "blissey", result.Records[0].SubjectID)
	assert.Equal(t, "mawhip", result.Records[1].SubjectID)
	for _, rec := range result.Records {
		assert.Equal(t, catalog.CategorySupporter, rec.Reference.Category)
	}
}

func TestStatsServiceQueryDefaultsRange(t *testing.T) {
	def := rangeOf("2024-03-08", "2024-03-14")
	source := new(MockStatsSource)
	source.On("FetchStats", mock.Anything, def).Return(sampleResponse(def), nil).Once()
	svc := newTestStatsService(source, staticCatalog{catalog: catalog.Normalize(catalogRecords())})

	result, err := svc.Query(context.Background(), QueryRequest{})
	require.NoError(t, err)
	assert.Equal(t, def, result.Range)
	source.AssertExpectations(t)
}

func TestStatsServiceQueryFillsOpenBound(t *testing.T) {
	filled := rangeOf("2024-03-11", "2024-03-14")
	source := new(MockStatsSource)
	source.On("FetchStats", mock.Anything, filled).Return(sampleResponse(filled), nil).Once()
	svc := newTestStatsService(source, staticCatalog{catalog: catalog.Normalize(catalogRecords())})

	result, err := svc.Query(context.Background(), QueryRequest{
		Range: daterange.Range{Start: core.MustParseDate("2024-03-11")},
	})
	require.NoError(t, err)
	assert.Equal(t, filled, result.Range)
	source.AssertExpectations(t)
}

func TestStatsServiceRejectsRangeBeforeFetching(t *testing.T) {
	tests := []struct {
		name string
		r    daterange.Range
	}{
		{"too old", rangeOf("2024-03-06", "2024-03-10")},
		{"includes today", rangeOf("2024-03-10", "2024-03-15")},
		{"inverted", rangeOf("2024-03-12", "2024-03-10")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := new(MockStatsSource)
			svc := newTestStatsService(source, staticCatalog{})

			_, err := svc.Query(context.Background(), QueryRequest{Range: tt.r})
			require.Error(t, err)
			assert.Equal(t, apperrors.CodeValidationError, apperrors.GetCode(err))
			assert.ErrorIs(t, err, core.ErrInvalidRange)
			source.AssertNotCalled(t, "FetchStats", mock.Anything, mock.Anything)
		})
	}
}

func TestStatsServiceRejectsUnknownCategory(t *testing.T) {
	source := new(MockStatsSource)
	svc := newTestStatsService(source, staticCatalog{})

	_, err := svc.Query(context.Background(), QueryRequest{Category: "ドラゴン型"})
	assert.ErrorIs(t, err, core.ErrUnknownCategory)
	assert.Equal(t, apperrors.CodeValidationError, apperrors.GetCode(err))
	source.AssertNotCalled(t, "FetchStats", mock.Anything, mock.Anything)
}

func TestStatsServiceWrapsTransportError(t *testing.T) {
	transportErr := errors.New("connection refused")
	source := new(MockStatsSource)
	source.On("FetchStats", mock.Anything, mock.Anything).Return(nil, transportErr)
	svc := newTestStatsService(source, staticCatalog{catalog: catalog.Normalize(catalogRecords())})

	_, err := svc.Query(context.Background(), QueryRequest{})
	assert.ErrorIs(t, err, transportErr)
	assert.Equal(t, apperrors.CodeExternalService, apperrors.GetCode(err))
}

func TestStatsServicePropagatesCatalogError(t *testing.T) {
	catErr := apperrors.ExternalServiceError("catalog", errors.New("503"))
	r := rangeOf("2024-03-10", "2024-03-12")
	source := new(MockStatsSource)
	source.On("FetchStats", mock.Anything, r).Return(sampleResponse(r), nil)
	svc := newTestStatsService(source, staticCatalog{err: catErr})

	_, err := svc.Query(context.Background(), QueryRequest{Range: r})
	assert.Same(t, catErr, err)
}
