// SPDX-License-Identifier: MIT

// Package metrics provides Prometheus metrics for the mangoverlay daemon.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Counters

	// ReloadTotal counts overlay config reloads, by trigger and result.
	ReloadTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mangoverlay_reload_total",
		Help: "Total number of overlay config reloads, by trigger (api/watcher) and result (ok/error).",
	}, []string{"trigger", "result"})

	// SaveTotal counts overlay config saves, by result.
	SaveTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mangoverlay_save_total",
		Help: "Total number of overlay config saves, by result (ok/conflict/error).",
	}, []string{"result"})

	// ValidationFailuresTotal counts rejected parameter updates.
	ValidationFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mangoverlay_validation_failures_total",
		Help: "Total number of updates rejected by parameter validation.",
	})

	// WatcherEventsTotal counts filesystem events seen on the overlay config.
	WatcherEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mangoverlay_watcher_events_total",
		Help: "Total number of filesystem events observed on the overlay config file, by op.",
	}, []string{"op"})

	// ProfileOpsTotal counts profile store operations.
	ProfileOpsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mangoverlay_profile_ops_total",
		Help: "Total number of profile operations, by op (save/delete/apply) and result.",
	}, []string{"op", "result"})

	// RollbackTotal counts history rollbacks.
	RollbackTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mangoverlay_rollback_total",
		Help: "Total number of revision rollbacks, by result.",
	}, []string{"result"})

	// Gauges

	// RevisionsStored tracks the number of revisions in the history store.
	RevisionsStored = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "mangoverlay_revisions_stored",
		Help: "Current number of revisions in the history store.",
	})

	// UnknownKeys tracks unknown keys preserved in the active config.
	UnknownKeys = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "mangoverlay_unknown_keys",
		Help: "Number of unrecognized keys preserved in the active overlay config.",
	})

	// Histograms

	// SaveDuration observes end-to-end save latency, including the
	// history write.
	SaveDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "mangoverlay_save_duration_seconds",
		Help:    "Latency of overlay config saves in seconds.",
		Buckets: prometheus.DefBuckets,
	})
)
