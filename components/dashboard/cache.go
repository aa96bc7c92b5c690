package dashboard

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// Cache memoizes values by key. Loader errors are never stored.
type Cache[V any] interface {
	GetOrLoad(key string, load func() (V, error)) (V, error)
}

// TTLCache is an in-memory cache whose entries expire after a fixed TTL.
// A zero or negative TTL disables caching.
type TTLCache[V any] struct {
	ttl     time.Duration
	now     func() time.Time
	mu      sync.RWMutex
	entries map[string]cachedValue[V]
}

type cachedValue[V any] struct {
	value   V
	expires time.Time
}

// NewTTLCache builds a cache with the provided TTL.
func NewTTLCache[V any](ttl time.Duration) *TTLCache[V] {
	return &TTLCache[V]{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cachedValue[V]),
	}
}

// WithClock swaps the time source, mainly for tests.
func (c *TTLCache[V]) WithClock(now func() time.Time) *TTLCache[V] {
	if now != nil {
		c.now = now
	}
	return c
}

// GetOrLoad returns a cached entry or loads/stores a new one.
func (c *TTLCache[V]) GetOrLoad(key string, load func() (V, error)) (V, error) {
	if value, ok := c.get(key); ok {
		return value, nil
	}
	value, err := load()
	if err != nil {
		var zero V
		return zero, err
	}
	c.set(key, value)
	return value, nil
}

// Len reports the number of stored entries, expired ones included.
func (c *TTLCache[V]) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Purge drops every entry and reports how many were removed.
func (c *TTLCache[V]) Purge() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	n := len(c.entries)
	clear(c.entries)
	return n
}

func (c *TTLCache[V]) get(key string) (V, bool) {
	var zero V
	if c == nil || c.ttl <= 0 {
		return zero, false
	}
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || c.now().After(entry.expires) {
		if ok {
			c.evictExpired(key)
		}
		return zero, false
	}
	return entry.value, true
}

// evictExpired deletes key only if it is still expired under the write lock,
// so an entry stored concurrently survives.
func (c *TTLCache[V]) evictExpired(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if entry, ok := c.entries[key]; ok && c.now().After(entry.expires) {
		delete(c.entries, key)
	}
}

func (c *TTLCache[V]) set(key string, value V) {
	if c == nil || c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	c.entries[key] = cachedValue[V]{
		value:   value,
		expires: c.now().Add(c.ttl),
	}
	c.mu.Unlock()
}

// SourceCacheKey identifies a fetch by endpoint, page, mode and credential.
// The credential is fingerprinted so toggling key or mode never hits a stale entry.
func SourceCacheKey(endpoint string, page Page, settings Settings) string {
	return fmt.Sprintf("%s:%d:%d:%s:%s", endpoint, page.Limit, page.Offset, settings.Mode(), fingerprint(settings.APIKey))
}

func fingerprint(secret string) string {
	if secret == "" {
		return "anonymous"
	}
	sum := sha1.Sum([]byte(secret))
	return hex.EncodeToString(sum[:8])
}

// payloadHash returns a deterministic hash for chart payloads.
func payloadHash(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "invalid"
	}
	sum := sha1.Sum(b)
	return hex.EncodeToString(sum[:])
}
