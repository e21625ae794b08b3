package sheets

import (
	"context"
	"encoding/json"
	"time"

	"github.com/kandangops/kandang-backend/pkg/logger"
	"github.com/kandangops/kandang-backend/pkg/redis"
)

// Reader is the read side of the ledger store.
type Reader interface {
	Read(ctx context.Context, rangeName string) (Table, error)
}

// Appender is the write side of the ledger store.
type Appender interface {
	Append(ctx context.Context, rangeName string, row []any) error
}

// Store is the full ledger surface: reads and appends.
type Store interface {
	Reader
	Appender
}

type cacheStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	LedgerCacheKey(spreadsheetID, rangeName string) string
}

// CachedLedger keeps recent ledger reads in a shared cache so every
// dashboard refresh does not hammer the flaky remote store, and drops
// the cached range on every successful append so a confirmed write is
// visible to the next read. Cache failures are never fatal; they fall
// through to the underlying store.
type CachedLedger struct {
	inner         Store
	cache         cacheStore
	spreadsheetID string
	ttl           time.Duration
	logg          *logger.Logger
}

// NewCachedLedger decorates a ledger store with a TTL read cache. A nil
// cache or non-positive TTL returns the store unchanged.
func NewCachedLedger(inner Store, cache cacheStore, spreadsheetID string, ttl time.Duration, logg *logger.Logger) Store {
	if cache == nil || ttl <= 0 {
		return inner
	}
	return &CachedLedger{
		inner:         inner,
		cache:         cache,
		spreadsheetID: spreadsheetID,
		ttl:           ttl,
		logg:          logg,
	}
}

func (l *CachedLedger) Read(ctx context.Context, rangeName string) (Table, error) {
	key := l.cache.LedgerCacheKey(l.spreadsheetID, rangeName)

	cached, err := l.cache.Get(ctx, key)
	switch {
	case err == nil:
		var table Table
		if jsonErr := json.Unmarshal([]byte(cached), &table); jsonErr == nil {
			return table, nil
		}
		// Corrupt entries are treated as misses.
	case !redis.IsMiss(err):
		if l.logg != nil {
			l.logg.Warn(l.logg.WithLedger(ctx, rangeName), "ledger cache read failed")
		}
	}

	table, err := l.inner.Read(ctx, rangeName)
	if err != nil {
		return table, err
	}

	if encoded, jsonErr := json.Marshal(table); jsonErr == nil {
		if setErr := l.cache.Set(ctx, key, string(encoded), l.ttl); setErr != nil && l.logg != nil {
			l.logg.Warn(l.logg.WithLedger(ctx, rangeName), "caching ledger read failed")
		}
	}
	return table, nil
}

// Append writes through to the ledger and invalidates the cached read
// for the range. A failed invalidation only shortens freshness to the
// TTL, so it is logged rather than surfaced.
func (l *CachedLedger) Append(ctx context.Context, rangeName string, row []any) error {
	if err := l.inner.Append(ctx, rangeName, row); err != nil {
		return err
	}

	key := l.cache.LedgerCacheKey(l.spreadsheetID, rangeName)
	if err := l.cache.Del(ctx, key); err != nil && l.logg != nil {
		l.logg.Warn(l.logg.WithLedger(ctx, rangeName), "invalidating cached ledger read failed")
	}
	return nil
}
