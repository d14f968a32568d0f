package app

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/venturelens/pulse/internal/domain/model"
)

// reportCache memoizes assembled reports. Assembly is idempotent, so a
// report keyed by its snapshot content and knowledge-base generation can be
// replayed safely; a knowledge reload changes the generation and quietly
// invalidates every earlier entry. Bounded with FIFO eviction.
type reportCache struct {
	mu      sync.RWMutex
	entries map[string]model.Report
	order   []string
	maxSize int
}

// newReportCache creates a cache holding at most maxSize reports.
// A zero or negative size disables caching.
func newReportCache(maxSize int) *reportCache {
	return &reportCache{
		entries: make(map[string]model.Report),
		maxSize: maxSize,
	}
}

// key fingerprints the snapshot content plus the knowledge generation.
// Snapshot IDs alone are not trusted: resubmission with changed answers
// must miss.
func (c *reportCache) key(snapshot model.Snapshot, generation uint64) string {
	h := sha256.New()
	fmt.Fprintf(h, "gen:%d;id:%s;cluster:%s;", generation, snapshot.ID, snapshot.Cluster)
	// Responses serialize deterministically: fixed field order per entry,
	// input order preserved.
	enc := json.NewEncoder(h)
	for _, r := range snapshot.Responses {
		_ = enc.Encode(r)
	}
	return hex.EncodeToString(h.Sum(nil))
}

func (c *reportCache) get(snapshot model.Snapshot, generation uint64) (model.Report, bool) {
	if c == nil || c.maxSize <= 0 {
		return model.Report{}, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	rep, ok := c.entries[c.key(snapshot, generation)]
	return rep, ok
}

func (c *reportCache) put(snapshot model.Snapshot, generation uint64, rep model.Report) {
	if c == nil || c.maxSize <= 0 {
		return
	}
	key := c.key(snapshot, generation)

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.entries[key]; exists {
		return
	}
	for len(c.entries) >= c.maxSize && len(c.order) > 0 {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
	c.entries[key] = rep
	c.order = append(c.order, key)
}

// len reports the number of cached reports.
func (c *reportCache) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
