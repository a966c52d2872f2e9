// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	assetCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "devfront_asset_cache_lookups_total",
		Help: "Transformed asset cache lookups by result",
	}, []string{"result"}) // result=hit|miss

	assetCacheEvictions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "devfront_asset_cache_evictions_total",
		Help: "Entries evicted from the transformed asset cache due to size",
	})

	assetCachePurges = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "devfront_asset_cache_purges_total",
		Help: "Full cache purges by trigger",
	}, []string{"trigger"}) // trigger=watch|manual

	assetCacheEntries = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "devfront_asset_cache_entries",
		Help: "Current number of transformed assets held in memory",
	})

	assetTransforms = promauto.NewCounter(prometheus.CounterOpts{
		Name: "devfront_asset_transforms_total",
		Help: "Asset bodies rewritten with compile-time constants",
	})
)

// RecordAssetCacheHit counts a cache hit.
func RecordAssetCacheHit() { assetCacheLookups.WithLabelValues("hit").Inc() }

// RecordAssetCacheMiss counts a cache miss.
func RecordAssetCacheMiss() { assetCacheLookups.WithLabelValues("miss").Inc() }

// RecordAssetCacheEviction counts a size-driven eviction.
func RecordAssetCacheEviction() { assetCacheEvictions.Inc() }

// RecordAssetCachePurge counts a full purge.
func RecordAssetCachePurge(trigger string) { assetCachePurges.WithLabelValues(trigger).Inc() }

// SetAssetCacheEntries publishes the current cache size.
func SetAssetCacheEntries(n int) { assetCacheEntries.Set(float64(n)) }

// RecordAssetTransform counts a define substitution pass that changed the body.
func RecordAssetTransform() { assetTransforms.Inc() }
