// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package devserver

import (
	"strconv"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/ManuGH/devfront/internal/metrics"
)

// transformed is an asset body after define substitution.
type transformed struct {
	body    []byte
	etag    string
	modTime time.Time
}

// assetCache holds transformed bodies keyed by path, mtime and size so a
// rebuilt file never hits a stale entry even before the watcher purges.
type assetCache struct {
	lru *lru.Cache[string, *transformed]
}

// newAssetCache returns nil for size <= 0; a nil cache is valid and never hits.
func newAssetCache(size int) (*assetCache, error) {
	if size <= 0 {
		return nil, nil
	}
	c, err := lru.New[string, *transformed](size)
	if err != nil {
		return nil, err
	}
	return &assetCache{lru: c}, nil
}

func cacheKey(name string, modTime time.Time, size int64) string {
	return name + "|" + strconv.FormatInt(modTime.UnixNano(), 10) + "|" + strconv.FormatInt(size, 10)
}

func (c *assetCache) get(key string) (*transformed, bool) {
	if c == nil {
		return nil, false
	}
	v, ok := c.lru.Get(key)
	if ok {
		metrics.RecordAssetCacheHit()
	} else {
		metrics.RecordAssetCacheMiss()
	}
	return v, ok
}

func (c *assetCache) add(key string, v *transformed) {
	if c == nil {
		return
	}
	if evicted := c.lru.Add(key, v); evicted {
		metrics.RecordAssetCacheEviction()
	}
	metrics.SetAssetCacheEntries(c.lru.Len())
}

// purge drops every entry.
func (c *assetCache) purge(trigger string) int {
	if c == nil {
		return 0
	}
	n := c.lru.Len()
	c.lru.Purge()
	metrics.RecordAssetCachePurge(trigger)
	metrics.SetAssetCacheEntries(0)
	return n
}

func (c *assetCache) size() int {
	if c == nil {
		return 0
	}
	return c.lru.Len()
}
