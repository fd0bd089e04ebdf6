// Package cache provides a generic LRU cache.
//
// The cache backs the memoized program selection: keys describe a shape
// (catalog generation, scene revision, node set), values are the selected
// program name.
//
//	c := cache.New[string, int](100)
//	c.Set("key", 42)
//	value, ok := c.Get("key")
//
// When the cache holds more than its capacity, the least recently used
// entry is evicted. Cache is safe for concurrent use and must not be
// copied after creation.
package cache
