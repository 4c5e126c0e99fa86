package web

import (
	"errors"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/evcraddock/vino-route/internal/ledger"
	"github.com/evcraddock/vino-route/internal/route"
)

// routeSession holds one user's current route. mu serializes every
// operation on it.
type routeSession struct {
	mu    sync.Mutex
	route *route.Route
}

// routeCache keeps route sessions in memory keyed by username. Idle sessions
// expire after the TTL; every access renews it.
type routeCache struct {
	mu    sync.Mutex
	items *cache.Cache
}

func newRouteCache(ttl time.Duration) *routeCache {
	return &routeCache{items: cache.New(ttl, 10*time.Minute)}
}

// session returns the user's session, creating an empty one if needed.
func (c *routeCache) session(username string) *routeSession {
	c.mu.Lock()
	defer c.mu.Unlock()

	if v, ok := c.items.Get(username); ok {
		s := v.(*routeSession)
		c.items.SetDefault(username, s)
		return s
	}

	s := &routeSession{}
	c.items.SetDefault(username, s)
	return s
}

func (c *routeCache) drop(username string) {
	c.items.Delete(username)
}

// countingLedger counts failed writes for the metrics endpoint.
type countingLedger struct {
	*ledger.Ledger
	failures func()
}

func (l countingLedger) Upsert(username string, e ledger.Entry) error {
	return l.observe(l.Ledger.Upsert(username, e))
}

func (l countingLedger) Remove(username, address string) error {
	return l.observe(l.Ledger.Remove(username, address))
}

func (l countingLedger) Clear(username string) error {
	return l.observe(l.Ledger.Clear(username))
}

func (l countingLedger) observe(err error) error {
	if errors.Is(err, ledger.ErrWrite) {
		l.failures()
	}
	return err
}
