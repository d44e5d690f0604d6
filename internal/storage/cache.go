// Package storage provides the in-memory catalog cache.
//
// One entry is kept per distinct semester URL. Entries past the freshness
// window are retained rather than evicted: they serve as a fallback when a
// live refetch fails. The cache never shrinks, which is acceptable given
// the small, static semester list. Nothing is persisted across restarts.
package storage

import (
	"sync"
	"time"

	"github.com/nmubot/nmu-telebot-go/internal/scraper/nmu"
)

// Clock returns the current time. Injectable for tests.
type Clock func() time.Time

type entry struct {
	courses  []nmu.Course
	storedAt time.Time
}

// CatalogCache is a process-wide cache of semester course lists.
// Safe for concurrent use; check-then-set races between sessions at worst
// cause a benign overwrite, and the catalog service additionally coalesces
// concurrent refetches with singleflight.
type CatalogCache struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	now     Clock
}

// NewCatalogCache creates a cache whose entries stay fresh for ttl.
func NewCatalogCache(ttl time.Duration) *CatalogCache {
	return NewCatalogCacheWithClock(ttl, time.Now)
}

// NewCatalogCacheWithClock creates a cache with an injectable clock.
func NewCatalogCacheWithClock(ttl time.Duration, now Clock) *CatalogCache {
	return &CatalogCache{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     now,
	}
}

// GetFresh returns the cached course list for semesterURL if the entry is
// younger than the TTL. The second return value reports whether a fresh
// entry was found.
func (c *CatalogCache) GetFresh(semesterURL string) ([]nmu.Course, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[semesterURL]
	if !ok || c.now().Sub(e.storedAt) >= c.ttl {
		return nil, false
	}
	return cloneCourses(e.courses), true
}

// GetAny returns the cached course list regardless of age. Used as the
// availability fallback when a refetch fails.
func (c *CatalogCache) GetAny(semesterURL string) ([]nmu.Course, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[semesterURL]
	if !ok {
		return nil, false
	}
	return cloneCourses(e.courses), true
}

// Put stores a course list for semesterURL with the current timestamp.
// Empty lists must not be cached; the caller enforces that.
func (c *CatalogCache) Put(semesterURL string, courses []nmu.Course) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[semesterURL] = entry{
		courses:  cloneCourses(courses),
		storedAt: c.now(),
	}
}

// Len returns the number of cached semesters.
func (c *CatalogCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// cloneCourses copies the slice so callers cannot mutate cached state.
func cloneCourses(courses []nmu.Course) []nmu.Course {
	out := make([]nmu.Course, len(courses))
	copy(out, courses)
	return out
}
