package source

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/pfrederiksen/poker-board/internal/logger"
	"github.com/pfrederiksen/poker-board/internal/tournament"
)

// DefaultCacheTTL is how long a loaded data set is served before refetching.
const DefaultCacheTTL = 5 * time.Minute

// Dataset is one normalized load of the sheet. It is read-only once built.
type Dataset struct {
	ID       string
	LoadedAt time.Time
	Rows     []tournament.Tournament
}

// Loader fetches and normalizes the sheet, caching the result for TTL.
// Concurrent callers during a load share one fetch. Failed loads are not
// cached and there is no fallback to an expired data set.
type Loader struct {
	fetcher    RowFetcher
	normalizer *tournament.Normalizer
	ttl        time.Duration
	now        func() time.Time

	mu      sync.RWMutex
	current *Dataset
	group   singleflight.Group
}

// NewLoader creates a loader. A ttl of zero or less disables caching.
func NewLoader(fetcher RowFetcher, normalizer *tournament.Normalizer, ttl time.Duration) *Loader {
	if normalizer == nil {
		normalizer = tournament.NewNormalizer(time.Local)
	}
	return &Loader{
		fetcher:    fetcher,
		normalizer: normalizer,
		ttl:        ttl,
		now:        time.Now,
	}
}

// Dataset returns the cached data set while fresh, loading it otherwise.
func (l *Loader) Dataset(ctx context.Context) (*Dataset, error) {
	if ds := l.cached(); ds != nil {
		return ds, nil
	}

	ch := l.group.DoChan("dataset", func() (interface{}, error) {
		if ds := l.cached(); ds != nil {
			return ds, nil
		}
		return l.load(context.WithoutCancel(ctx))
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Dataset), nil
	}
}

// Invalidate drops the cached data set so the next call refetches.
func (l *Loader) Invalidate() {
	l.mu.Lock()
	l.current = nil
	l.mu.Unlock()
}

func (l *Loader) cached() *Dataset {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.current == nil || l.ttl <= 0 {
		return nil
	}
	if l.now().Sub(l.current.LoadedAt) >= l.ttl {
		return nil
	}
	return l.current
}

func (l *Loader) load(ctx context.Context) (*Dataset, error) {
	start := time.Now()
	raw, err := l.fetcher.FetchRows(ctx)
	logger.RecordTiming("source.fetch", time.Since(start))
	if err != nil {
		logger.IncrCounter("source.fetch_errors")
		logger.Error("Failed to load listings", nil, err)
		return nil, err
	}

	ds := &Dataset{
		ID:       uuid.NewString(),
		LoadedAt: l.now(),
		Rows:     l.normalizer.NormalizeAll(raw),
	}

	l.mu.Lock()
	l.current = ds
	l.mu.Unlock()

	logger.SetGauge("dataset.rows", float64(len(ds.Rows)))
	logger.Info("Dataset loaded", logger.Fields{
		"dataset_id": ds.ID,
		"rows":       len(ds.Rows),
		"duration":   time.Since(start).String(),
	})
	return ds, nil
}
