// Package bank owns every loaded instrument sample-set for the lifetime
// of the audio session. The cache never evicts; its universe is bounded
// by the 128 GM identities plus any configured percussion kit.
package bank

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/msveshnikov/midi-player/internal/gm"
	"github.com/msveshnikov/midi-player/sdk/contracts"
)

// ErrBankUnavailable is returned when not even the default identity's
// sample-set can be loaded. No further notes can sound in the session.
var ErrBankUnavailable = errors.New("instrument bank unavailable")

// Cache resolves instrument identities to loaded sample-sets, loading
// them on first reference. It is safe for concurrent use and is shared
// across every file played during one audio session.
type Cache struct {
	loader contracts.BankLoader
	logger contracts.Logger

	group singleflight.Group

	mu     sync.RWMutex
	loaded map[string]contracts.Instrument
}

// New creates an empty cache backed by the given loader.
func New(loader contracts.BankLoader, log contracts.Logger) *Cache {
	return &Cache{
		loader: loader,
		logger: log,
		loaded: make(map[string]contracts.Instrument),
	}
}

// Acquire returns the loaded instrument for identity, loading it on first
// reference. Concurrent calls for one identity collapse into a single
// loader call and every caller observes the same handle. A failed load
// falls back to the default identity's instrument, and the alias is
// memoized so the failing load is never retried. Returns
// ErrBankUnavailable when even the default identity cannot load.
func (c *Cache) Acquire(ctx context.Context, identity string) (contracts.Instrument, error) {
	if inst, ok := c.lookup(identity); ok {
		return inst, nil
	}

	v, err, _ := c.group.Do(identity, func() (interface{}, error) {
		if inst, ok := c.lookup(identity); ok {
			return inst, nil
		}
		// In-flight loads survive session teardown; the result is cached
		// for future reuse even if the requesting note never sounds.
		inst, err := c.loader.Load(context.WithoutCancel(ctx), identity)
		if err != nil {
			if identity == gm.DefaultIdentity {
				return nil, fmt.Errorf("%w: %v", ErrBankUnavailable, err)
			}
			c.logger.Warn("instrument load failed, using default",
				c.logger.Field().String("identity", identity),
				c.logger.Field().Error("error", err))
			fallback, ferr := c.Acquire(ctx, gm.DefaultIdentity)
			if ferr != nil {
				return nil, ferr
			}
			c.store(identity, fallback)
			return fallback, nil
		}
		c.store(identity, inst)
		return inst, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(contracts.Instrument), nil
}

// Preload starts loading identity in the background without blocking the
// caller. Failures follow the same fallback path as Acquire.
func (c *Cache) Preload(identity string) {
	if _, ok := c.lookup(identity); ok {
		return
	}
	go func() {
		if _, err := c.Acquire(context.Background(), identity); err != nil {
			c.logger.Error("instrument preload failed",
				c.logger.Field().String("identity", identity),
				c.logger.Field().Error("error", err))
		}
	}()
}

// Len reports how many identities currently resolve to a loaded
// sample-set, aliases included.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.loaded)
}

func (c *Cache) lookup(identity string) (contracts.Instrument, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	inst, ok := c.loaded[identity]
	return inst, ok
}

func (c *Cache) store(identity string, inst contracts.Instrument) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loaded[identity] = inst
}
