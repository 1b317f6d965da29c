// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metrics defines the Prometheus collectors for repository traffic,
// resolve outcomes and the HTTP API.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "sheetfinder"

// Repository operations used as the "op" label.
const (
	OpSearch = "search"
	OpDetail = "detail"
)

// Outcomes used as the "outcome" label.
const (
	OutcomeOK       = "ok"
	OutcomeError    = "error"
	OutcomeParsed   = "parsed"
	OutcomeFallback = "fallback"
)

var (
	RemoteRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "remote_requests_total",
			Help:      "Requests sent to the document repository",
		},
		[]string{"op", "outcome"},
	)

	RemoteRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "remote_request_duration_seconds",
			Help:      "Document repository request duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
		},
		[]string{"op"},
	)

	ResolveUnitsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resolve_units_total",
			Help:      "Per-code resolution outcomes",
		},
		[]string{"outcome"},
	)

	ResolveDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "resolve_duration_seconds",
			Help:      "Duration of one place resolution in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 25, 60},
		},
	)
)

var registerOnce sync.Once

// Register registers every collector with the default registry. Safe to
// call more than once; called from main.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			RemoteRequestsTotal,
			RemoteRequestDuration,
			ResolveUnitsTotal,
			ResolveDuration,
			httpRequestDuration,
			httpRequestsTotal,
		)
	})
}
