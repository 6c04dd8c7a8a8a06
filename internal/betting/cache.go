package betting

import (
	"sync"
	"time"

	cache "github.com/patrickmn/go-cache"
	"github.com/yourusername/keiba-ev/internal/metrics"
)

// Combinator is the engine surface consumed by the ticket slip
type Combinator interface {
	Count(sel Selection) int
	Generate(sel Selection) []Combination
}

// Engine exposes the pure engine functions as a Combinator and records metrics
type Engine struct{}

// NewEngine creates an uncached engine
func NewEngine() *Engine {
	return &Engine{}
}

// Count returns CountCombinations(sel)
func (e *Engine) Count(sel Selection) int {
	metrics.RecordEngineRequest("count", string(sel.BetType), string(sel.Method))
	return CountCombinations(sel)
}

// Generate returns GenerateCombinations(sel)
func (e *Engine) Generate(sel Selection) []Combination {
	metrics.RecordEngineRequest("generate", string(sel.BetType), string(sel.Method))
	combos := GenerateCombinations(sel)
	metrics.RecordCombinationsGenerated(len(combos))
	return combos
}

// CachedEngine memoizes enumerations per canonical selection key
type CachedEngine struct {
	engine    *Engine
	cache     *cache.Cache
	ttl       time.Duration
	maxSize   int
	mu        sync.RWMutex
	hitCount  uint64
	missCount uint64
}

// NewCachedEngine creates an engine whose enumerations are cached for ttl,
// holding at most maxSize selections.
func NewCachedEngine(ttl time.Duration, maxSize int) *CachedEngine {
	return &CachedEngine{
		engine:  NewEngine(),
		cache:   cache.New(ttl, ttl*2),
		ttl:     ttl,
		maxSize: maxSize,
	}
}

// Count answers from a cached enumeration when present and falls back to the closed form
func (c *CachedEngine) Count(sel Selection) int {
	c.mu.RLock()
	cached, found := c.cache.Get(sel.Key())
	c.mu.RUnlock()

	if found {
		if combos, ok := cached.([]Combination); ok {
			return len(combos)
		}
	}
	return c.engine.Count(sel)
}

// Generate returns a copy of the cached enumeration, computing it on a miss
func (c *CachedEngine) Generate(sel Selection) []Combination {
	key := sel.Key()

	c.mu.Lock()
	cached, found := c.cache.Get(key)
	if found {
		c.hitCount++
	} else {
		c.missCount++
	}
	c.mu.Unlock()
	c.updateMetrics(found)

	if found {
		if combos, ok := cached.([]Combination); ok {
			return cloneCombinations(combos)
		}
	}

	combos := c.engine.Generate(sel)

	c.mu.Lock()
	if c.cache.ItemCount() >= c.maxSize {
		// Remove expired items first
		c.cache.DeleteExpired()
		if c.cache.ItemCount() >= c.maxSize {
			c.cache.Flush()
		}
	}
	c.cache.Set(key, cloneCombinations(combos), c.ttl)
	c.mu.Unlock()

	return combos
}

// Stats returns cache statistics
func (c *CachedEngine) Stats() (hits, misses uint64, ratio float64) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	hits = c.hitCount
	misses = c.missCount
	total := hits + misses
	if total > 0 {
		ratio = float64(hits) / float64(total)
	}
	return
}

// ItemCount returns the number of cached selections
func (c *CachedEngine) ItemCount() int {
	return c.cache.ItemCount()
}

// Clear flushes the cache and resets statistics
func (c *CachedEngine) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cache.Flush()
	c.hitCount = 0
	c.missCount = 0
}

func (c *CachedEngine) updateMetrics(hit bool) {
	_, _, ratio := c.Stats()
	metrics.RecordCacheLookup(hit)
	metrics.UpdateCacheHitRatio(ratio)
}

func cloneCombinations(in []Combination) []Combination {
	out := make([]Combination, len(in))
	for i, c := range in {
		out[i] = append(Combination(nil), c...)
	}
	return out
}
