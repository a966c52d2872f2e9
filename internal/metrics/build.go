// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	buildInfo = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "devfront_build_info",
		Help: "Assembled build configuration (always 1)",
	}, []string{"variant", "app_version", "devfront_version"})

	watcherErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "devfront_asset_watcher_errors_total",
		Help: "Errors reported by the asset directory watcher",
	})
)

// SetBuildInfo publishes the assembled build configuration.
// appVersion is empty in the proxy variant.
func SetBuildInfo(variant, appVersion, devfrontVersion string) {
	buildInfo.Reset()
	buildInfo.WithLabelValues(variant, appVersion, devfrontVersion).Set(1)
}

// RecordWatcherError counts an asset watcher error.
func RecordWatcherError() { watcherErrors.Inc() }
