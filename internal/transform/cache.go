package transform

import (
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"

	"tsluau/internal/symbols"
)

// MethodCache memoizes the receiver convention of each symbol. Every symbol is
// computed at most once, even under concurrent lookups, and an entry is never
// overwritten.
type MethodCache struct {
	mu      sync.RWMutex
	entries map[symbols.SymbolID]bool
	group   singleflight.Group
}

func NewMethodCache() *MethodCache {
	return &MethodCache{entries: make(map[symbols.SymbolID]bool)}
}

// Lookup returns the cached answer for id.
func (c *MethodCache) Lookup(id symbols.SymbolID) (isMethod, ok bool) {
	c.mu.RLock()
	isMethod, ok = c.entries[id]
	c.mu.RUnlock()
	return isMethod, ok
}

// GetOrCompute returns the cached answer for id, running compute on a miss.
// Concurrent callers for the same id share one compute call.
func (c *MethodCache) GetOrCompute(id symbols.SymbolID, compute func() bool) bool {
	if v, ok := c.Lookup(id); ok {
		return v
	}
	v, _, _ := c.group.Do(strconv.FormatUint(uint64(id), 10), func() (any, error) {
		// a previous flight may have finished between Lookup and Do
		if v, ok := c.Lookup(id); ok {
			return v, nil
		}
		res := compute()
		c.mu.Lock()
		c.entries[id] = res
		c.mu.Unlock()
		return res, nil
	})
	isMethod, _ := v.(bool)
	return isMethod
}

// Len reports the number of cached symbols.
func (c *MethodCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
