package app

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"unitestats/domain/catalog"
	"unitestats/domain/core"
	"unitestats/domain/daterange"
	"unitestats/domain/stats"

	"github.com/stretchr/testify/mock"
)

var fixedNow = time.Date(2024, 3, 15, 10, 0, 0, 0, core.JST)

func testPolicy() *daterange.Policy {
	return daterange.NewPolicy(core.FixedClock(fixedNow))
}

func catalogRecords() []catalog.Record {
	return []catalog.Record{
		{ID: "pikachu", Name: "ピカチュウ", Category: catalog.CategoryAttacker},
		{ID: "snorlax", Name: "カビゴン", Category: catalog.CategoryDefender},
		{ID: "blissey", Name: "ハピナス", Category: catalog.CategorySupporter},
		{ID: "alcremie", Name: "マホイップ", Category: catalog.CategorySupporter},
	}
}

// fakeCatalogSource counts fetches and can hold them open until released
type fakeCatalogSource struct {
	records []catalog.Record
	errs    []error // error for the n-th call, nil entries succeed

	calls   atomic.Int32
	started chan struct{}
	gate    chan struct{}
}

func (f *fakeCatalogSource) FetchCatalog(ctx context.Context) ([]catalog.Record, error) {
	n := int(f.calls.Add(1))
	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.gate != nil {
		<-f.gate
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if n <= len(f.errs) && f.errs[n-1] != nil {
		return nil, f.errs[n-1]
	}
	return f.records, nil
}

// staticCatalog is a CatalogProvider over a fixed map
type staticCatalog struct {
	catalog map[string]catalog.Record
	err     error
}

func (s staticCatalog) Catalog(ctx context.Context) (map[string]catalog.Record, error) {
	return s.catalog, s.err
}

// MockStatsSource implements ports.StatsSource
type MockStatsSource struct {
	mock.Mock
}

func (m *MockStatsSource) FetchStats(ctx context.Context, r daterange.Range) (*stats.StatsResponse, error) {
	args := m.Called(ctx, r)
	resp, _ := args.Get(0).(*stats.StatsResponse)
	return resp, args.Error(1)
}

// MockMatchReader implements ports.MatchReader
type MockMatchReader struct {
	mock.Mock
}

func (m *MockMatchReader) ListMatches(ctx context.Context, from, to time.Time) ([]stats.MatchRecord, error) {
	args := m.Called(ctx, from, to)
	records, _ := args.Get(0).([]stats.MatchRecord)
	return records, args.Error(1)
}

// memDailyStore is an in-memory DailyResultStore
type memDailyStore struct {
	mu      sync.Mutex
	results map[string]*stats.DailyResult
	errs    map[string]error
	reads   int
}

func newMemDailyStore() *memDailyStore {
	return &memDailyStore{
		results: make(map[string]*stats.DailyResult),
		errs:    make(map[string]error),
	}
}

func (s *memDailyStore) GetDailyResult(ctx context.Context, date core.Date) (*stats.DailyResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads++
	if err, ok := s.errs[date.String()]; ok {
		return nil, err
	}
	res, ok := s.results[date.String()]
	if !ok {
		return nil, core.ErrDailyResultNotFound
	}
	return res, nil
}

func (s *memDailyStore) PutDailyResult(ctx context.Context, result *stats.DailyResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[result.Date.String()] = result
	return nil
}
