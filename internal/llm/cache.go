package llm

import (
	"crypto/sha256"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Veraticus/autobill/internal/model"
)

// cacheEntry represents a cached, already validated vote.
type cacheEntry struct {
	expiry time.Time
	vote   model.CategoryVote
}

// voteCache remembers successful votes for identical evidence and category
// sets. Expired entries are dropped lazily on access and when the cache grows
// past maxEntries.
type voteCache struct {
	entries    map[string]cacheEntry
	now        func() time.Time
	ttl        time.Duration
	maxEntries int
	mu         sync.Mutex
}

// newVoteCache creates a cache with the specified TTL. A non-positive TTL
// disables caching.
func newVoteCache(ttl time.Duration) *voteCache {
	return &voteCache{
		entries:    make(map[string]cacheEntry),
		now:        time.Now,
		ttl:        ttl,
		maxEntries: 1024,
	}
}

func cacheKey(evidence string, categories []string) string {
	h := sha256.New()
	h.Write([]byte(evidence))
	h.Write([]byte{0})
	h.Write([]byte(strings.Join(categories, "\x1f")))
	return fmt.Sprintf("%x", h.Sum(nil))
}

func (c *voteCache) get(key string) (model.CategoryVote, bool) {
	if c.ttl <= 0 {
		return model.CategoryVote{}, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return model.CategoryVote{}, false
	}
	if c.now().After(entry.expiry) {
		delete(c.entries, key)
		return model.CategoryVote{}, false
	}
	return entry.vote, true
}

func (c *voteCache) set(key string, vote model.CategoryVote) {
	if c.ttl <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if len(c.entries) >= c.maxEntries {
		for k, e := range c.entries {
			if now.After(e.expiry) {
				delete(c.entries, k)
			}
		}
		if len(c.entries) >= c.maxEntries {
			c.entries = make(map[string]cacheEntry)
		}
	}

	c.entries[key] = cacheEntry{vote: vote, expiry: now.Add(c.ttl)}
}

func (c *voteCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
