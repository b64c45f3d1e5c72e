package app

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"unitestats/domain/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogCacheConcurrentCallersShareOneFetch(t *testing.T) {
	src := &fakeCatalogSource{
		records: catalogRecords(),
		started: make(chan struct{}, 10),
		gate:    make(chan struct{}),
	}
	cache := NewCatalogCache(src, nil)

	const callers = 8
	results := make([]map[string]catalog.Record, callers)
	errs := make([]error, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = cache.Catalog(context.Background())
		}(i)
	}

	<-src.started
	// let the remaining callers pile onto the in-flight fetch
	time.Sleep(50 * time.Millisecond)
	close(src.gate)
	wg.Wait()

	assert.Equal(t, int32(1), src.calls.Load())
	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, reflect.ValueOf(results[0]).Pointer(), reflect.ValueOf(results[i]).Pointer(),
			"caller %d got a different catalog", i)
	}
	assert.True(t, cache.Loaded())
}

func TestCatalogCacheMemoizes(t *testing.T) {
	src := &fakeCatalogSource{records: catalogRecords()}
	cache := NewCatalogCache(src, nil)

	for i := 0; i < 3; i++ {
		_, err := cache.Catalog(context.Background())
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), src.calls.Load())
}

func TestCatalogCacheNormalizesAliases(t *testing.T) {
	cache := NewCatalogCache(&fakeCatalogSource{records: catalogRecords()}, nil)

	cat, err := cache.Catalog(context.Background())
	require.NoError(t, err)

	assert.Contains(t, cat, "mawhip")
	assert.NotContains(t, cat, "alcremie")
	assert.Equal(t, "マホイップ", cat["mawhip"].Name)
}

func TestCatalogCacheFailureIsNotMemoized(t *testing.T) {
	fetchErr := errors.New("catalog unavailable")
	src := &fakeCatalogSource{records: catalogRecords(), errs: []error{fetchErr}}
	cache := NewCatalogCache(src, nil)

	_, err := cache.Catalog(context.Background())
	assert.Same(t, fetchErr, err)
	assert.False(t, cache.Loaded())

	cat, err := cache.Catalog(context.Background())
	require.NoError(t, err)
	assert.Len(t, cat, 4)
	assert.Equal(t, int32(2), src.calls.Load())
}

func TestCatalogCacheWaiterCancellationDoesNotAbortFetch(t *testing.T) {
	src := &fakeCatalogSource{
		records: catalogRecords(),
		started: make(chan struct{}, 1),
		gate:    make(chan struct{}),
	}
	cache := NewCatalogCache(src, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := cache.Catalog(ctx)
		done <- err
	}()

	<-src.started
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)

	close(src.gate)
	assert.Eventually(t, cache.Loaded, time.Second, 5*time.Millisecond)

	_, err := cache.Catalog(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), src.calls.Load())
}
