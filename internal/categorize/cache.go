package categorize

import (
	"sync"

	"github.com/ledgerlens/ledgerlens/internal/model"
)

// verdict is the cached outcome of one AI classification.
type verdict struct {
	Category   model.Category
	Type       model.TransactionType
	Confidence float64
}

// verdictCache memoizes AI verdicts for the process lifetime, keyed by
// currency + "|" + normalized text. There is no eviction: growth is bounded
// by the number of distinct merchant/currency pairs seen, and a restart
// clears it. Written only by the AI miss path.
type verdictCache struct {
	entries map[string]verdict
	mu      sync.RWMutex
}

func newVerdictCache() *verdictCache {
	return &verdictCache{entries: make(map[string]verdict)}
}

func (c *verdictCache) get(key string) (verdict, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.entries[key]
	return v, ok
}

func (c *verdictCache) set(key string, v verdict) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = v
}

func (c *verdictCache) size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
