// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package metrics exposes Prometheus counters for content mutations, sign-in
// attempts and document integrity scans.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	registry *prometheus.Registry

	Mutations     *prometheus.CounterVec
	Rejections    *prometheus.CounterVec
	AuditFailures *prometheus.CounterVec
	Logins        *prometheus.CounterVec

	// DocumentHealthy is 1 when the last integrity scan could read the
	// document and 0 otherwise.
	DocumentHealthy *prometheus.GaugeVec
	ScanDuration    prometheus.Histogram
	LastScan        prometheus.Gauge
}

// New creates and registers all metrics on a fresh registry, together with
// the Go runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return NewWithRegistry(reg)
}

// NewWithRegistry registers the application metrics on reg.
func NewWithRegistry(reg *prometheus.Registry) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		registry: reg,

		Mutations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "contentdesk_mutations_total",
			Help: "Successful content mutations by resource and action",
		}, []string{"resource", "action"}),

		Rejections: f.NewCounterVec(prometheus.CounterOpts{
			Name: "contentdesk_mutation_rejections_total",
			Help: "Rejected content mutations by resource and reason",
		}, []string{"resource", "reason"}),

		AuditFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "contentdesk_audit_failures_total",
			Help: "Audit entries that could not be recorded after a successful write",
		}, []string{"resource"}),

		Logins: f.NewCounterVec(prometheus.CounterOpts{
			Name: "contentdesk_login_attempts_total",
			Help: "Admin sign-in attempts by outcome",
		}, []string{"outcome"}), // outcome: "success", "failure", "locked", "rate_limited"

		DocumentHealthy: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "contentdesk_document_healthy",
			Help: "Whether the last integrity scan could read the document",
		}, []string{"document"}),

		ScanDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "contentdesk_integrity_scan_duration_seconds",
			Help:    "Duration of document integrity scans",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}),

		LastScan: f.NewGauge(prometheus.GaugeOpts{
			Name: "contentdesk_integrity_last_scan_timestamp_seconds",
			Help: "Unix time of the last completed integrity scan",
		}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// MutationSucceeded records a saved mutation.
func (m *Metrics) MutationSucceeded(resource, action string) {
	if m != nil {
		m.Mutations.WithLabelValues(resource, action).Inc()
	}
}

// MutationRejected records a mutation that did not persist.
func (m *Metrics) MutationRejected(resource, reason string) {
	if m != nil {
		m.Rejections.WithLabelValues(resource, reason).Inc()
	}
}

// AuditFailed records a write whose audit entry was lost.
func (m *Metrics) AuditFailed(resource string) {
	if m != nil {
		m.AuditFailures.WithLabelValues(resource).Inc()
	}
}

// LoginAttempt records a sign-in outcome.
func (m *Metrics) LoginAttempt(outcome string) {
	if m != nil {
		m.Logins.WithLabelValues(outcome).Inc()
	}
}

// DocumentChecked records the result of one integrity check.
func (m *Metrics) DocumentChecked(document string, healthy bool) {
	if m == nil {
		return
	}
	v := 0.0
	if healthy {
		v = 1
	}
	m.DocumentHealthy.WithLabelValues(document).Set(v)
}

// ScanCompleted records the duration and completion time of a scan.
func (m *Metrics) ScanCompleted(d time.Duration) {
	if m != nil {
		m.ScanDuration.Observe(d.Seconds())
		m.LastScan.SetToCurrentTime()
	}
}
