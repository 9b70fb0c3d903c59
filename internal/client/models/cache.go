package models

import "time"

// QueryCacheEntry memoizes the ordered result ids of one search.
type QueryCacheEntry struct {
	Query     string
	Filters   string
	IDs       []string
	CreatedAt time.Time
}

// Valid reports whether the entry is still fresh at now for the given TTL.
func (e QueryCacheEntry) Valid(now time.Time, ttl time.Duration) bool {
	return now.Sub(e.CreatedAt) < ttl
}

// CacheKey joins a normalized query and canonical filters into one key.
func CacheKey(query, filters string) string {
	return query + "\x00" + filters
}
