// Package metrics defines and registers the custom Prometheus metrics of the
// content system. It is the single source of truth for metric names, labels
// and help strings.
//
// All metrics are registered with the default registry through promauto, so
// importing the package is enough. HTTP request metrics come from the
// echoprometheus middleware and are not repeated here.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "cms"

// ── Content metrics ───────────────────────────────────────────────────────────

// PagesSavedTotal counts successful page saves.
// Label:
//   - action: "created" or "updated"
var PagesSavedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "pages_saved_total",
		Help:      "Total number of pages created or updated.",
	},
	[]string{"action"},
)

// PagesDeletedTotal counts pages moved to the retention store.
var PagesDeletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "pages_deleted_total",
		Help:      "Total number of pages soft-deleted into the retention store.",
	},
)

// SearchResults observes how many pages a search returned.
var SearchResults = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "search_results",
		Help:      "Number of pages returned per search.",
		Buckets:   []float64{0, 1, 5, 10, 25, 50, 100},
	},
)

// ── Upload metrics ────────────────────────────────────────────────────────────

// UploadsTotal counts upload attempts by outcome.
// Label:
//   - result: "ok", "rejected", "collision_exhausted" or "error"
var UploadsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "uploads_total",
		Help:      "Total number of file uploads, by result.",
	},
	[]string{"result"},
)

// FileRemovalWarningsTotal counts deletions whose physical file could not be removed.
var FileRemovalWarningsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "file_removal_warnings_total",
		Help:      "Total number of file deletions that left the stored file behind.",
	},
)

// DispatcherQueueDepth tracks jobs waiting in each dispatcher worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var DispatcherQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "dispatcher_queue_depth",
		Help:      "Current number of jobs pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// DispatcherJobDuration measures how long a serialized job runs.
// Label:
//   - result: "ok" or "error"
var DispatcherJobDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "dispatcher_job_duration_seconds",
		Help:      "Duration of jobs run by the keyed dispatcher.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"result"},
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)
