package query

import (
	"context"
	"strings"
	"sync"
	"time"

	"auctionbay-client/internal/config"
	"auctionbay-client/internal/ports/outbound"

	"github.com/alitto/pond"
	"github.com/rs/zerolog"
)

// FetchFunc loads the value behind a cache key from the backend
type FetchFunc func(ctx context.Context) (any, outbound.Outcome)

// Cache is the reactive read-model cache keyed by resource identity.
// Reads flow through it; mutation flows invalidate the affected keys after
// a successful write. A stale read between the write and the invalidation
// is accepted.
type Cache struct {
	entries  map[string]*entry
	inflight map[string]*call
	mu       sync.Mutex
	ttl      time.Duration
	pool     *pond.WorkerPool
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	logger   zerolog.Logger
}

type CacheParams struct {
	Config *config.Config
	Logger zerolog.Logger
}

type entry struct {
	value     any
	outcome   outbound.Outcome
	fetchedAt time.Time
}

// call tracks an in-flight fetch so concurrent readers of the same key
// share one backend request
type call struct {
	done    chan struct{}
	value   any
	outcome outbound.Outcome
}

// NewCache creates a new query cache
func NewCache(params CacheParams) *Cache {
	ctx, cancel := context.WithCancel(context.Background())

	pool := pond.New(
		params.Config.Query.Workers,
		params.Config.Query.Capacity,
		pond.Context(ctx),
		pond.Strategy(pond.Balanced()),
	)

	return &Cache{
		entries:  make(map[string]*entry),
		inflight: make(map[string]*call),
		ttl:      params.Config.Query.TTL,
		pool:     pool,
		ctx:      ctx,
		cancel:   cancel,
		logger:   params.Logger.With().Str("component", "query_cache").Logger(),
	}
}

// Start begins the expiry sweep loop
func (c *Cache) Start() {
	c.wg.Add(1)
	go c.sweepLoop()
}

// Stop stops the sweep loop and the worker pool
func (c *Cache) Stop() {
	c.cancel()
	c.wg.Wait()
	c.pool.Stop()
}

// Get returns the cached value for key, fetching through on a miss or an
// expired entry. Concurrent callers of the same key share a single fetch.
// The caller blocks until the fetch settles or its context ends; other
// regions keep rendering independently.
func (c *Cache) Get(ctx context.Context, key string, fetch FetchFunc) (any, outbound.Outcome) {
	c.mu.Lock()

	if e, ok := c.entries[key]; ok && time.Since(e.fetchedAt) < c.ttl {
		c.mu.Unlock()
		c.logger.Debug().Str("key", key).Msg("Cache hit")
		return e.value, e.outcome
	}

	if inflight, ok := c.inflight[key]; ok {
		c.mu.Unlock()
		select {
		case <-inflight.done:
			return inflight.value, inflight.outcome
		case <-ctx.Done():
			return nil, cancelledOutcome(ctx)
		}
	}

	current := &call{done: make(chan struct{})}
	c.inflight[key] = current
	c.mu.Unlock()

	c.logger.Debug().Str("key", key).Msg("Cache miss, fetching")
	value, outcome := fetch(ctx)

	c.mu.Lock()
	current.value = value
	current.outcome = outcome
	if outcome.IsSuccess() {
		c.entries[key] = &entry{value: value, outcome: outcome, fetchedAt: time.Now()}
	}
	delete(c.inflight, key)
	c.mu.Unlock()
	close(current.done)

	return value, outcome
}

// Prefetch schedules a background fetch for key on the worker pool and
// returns immediately. A caller that goes away before the fetch settles
// simply never reads the entry; the settled result is a no-op, not an
// error.
func (c *Cache) Prefetch(key string, fetch FetchFunc) {
	c.pool.Submit(func() {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()

		if _, outcome := c.Get(c.ctx, key, fetch); !outcome.IsSuccess() {
			c.logger.Warn().
				Str("key", key).
				Str("class", string(outcome.Class)).
				Msg("Background refresh did not succeed")
		}
	})
}

// Invalidate drops every entry whose key starts with prefix. Mutation
// flows call it after a successful write.
func (c *Cache) Invalidate(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	dropped := 0
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
			dropped++
		}
	}

	if dropped > 0 {
		c.logger.Debug().Str("prefix", prefix).Int("dropped", dropped).Msg("Cache entries invalidated")
	}
}

// sweepLoop drops expired entries so the cache does not grow unbounded
func (c *Cache) sweepLoop() {
	defer c.wg.Done()

	ticker := time.NewTicker(c.ttl)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.sweepExpired()
		case <-c.ctx.Done():
			c.logger.Debug().Msg("Sweep loop stopped")
			return
		}
	}
}

func (c *Cache) sweepExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, e := range c.entries {
		if time.Since(e.fetchedAt) >= c.ttl {
			delete(c.entries, key)
		}
	}
}

func cancelledOutcome(ctx context.Context) outbound.Outcome {
	return outbound.Outcome{
		Class:   outbound.ClassTransportFailure,
		Message: "request cancelled: " + ctx.Err().Error(),
	}
}
