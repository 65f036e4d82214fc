// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/olegiv/contentdesk/internal/middleware"
	"github.com/olegiv/contentdesk/internal/version"
)

// DocumentChecker verifies one persisted document.
type DocumentChecker interface {
	Check(ctx context.Context) error
}

// HealthHandler handles health check requests.
type HealthHandler struct {
	documents map[string]DocumentChecker
	version   version.Info
	startTime time.Time
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(documents map[string]DocumentChecker, info version.Info) *HealthHandler {
	return &HealthHandler{
		documents: documents,
		version:   info,
		startTime: time.Now(),
	}
}

// HealthStatus represents the overall health status.
type HealthStatus struct {
	Status    string           `json:"status"`
	Timestamp time.Time        `json:"timestamp,omitzero"`
	Uptime    string           `json:"uptime,omitempty"`
	Version   string           `json:"version,omitempty"`
	Checks    map[string]Check `json:"checks,omitempty"`
	System    *SystemInfo      `json:"system,omitempty"`
}

// Check represents a single health check result.
type Check struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

// SystemInfo contains runtime information.
type SystemInfo struct {
	GoVersion    string `json:"go_version"`
	NumGoroutine int    `json:"num_goroutines"`
	NumCPU       int    `json:"num_cpus"`
}

// Health handles GET /health. Every document is read once; any unreadable
// document makes the service degraded (503). Only a signed-in admin sees
// per-document detail.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	checks := h.checkDocuments(r.Context())

	overall := "healthy"
	for _, c := range checks {
		if c.Status != "healthy" {
			overall = "degraded"
			break
		}
	}

	code := http.StatusOK
	if overall != "healthy" {
		code = http.StatusServiceUnavailable
	}

	if middleware.GetActor(r) == nil {
		writeJSON(w, code, HealthStatus{Status: overall})
		return
	}

	status := HealthStatus{
		Status:    overall,
		Timestamp: time.Now().UTC(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Version:   h.version.Version,
		Checks:    checks,
	}
	if r.URL.Query().Get("verbose") == "true" {
		status.System = &SystemInfo{
			GoVersion:    runtime.Version(),
			NumGoroutine: runtime.NumGoroutine(),
			NumCPU:       runtime.NumCPU(),
		}
	}
	writeJSON(w, code, status)
}

// Liveness handles GET /health/live.
func (h *HealthHandler) Liveness(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

func (h *HealthHandler) checkDocuments(ctx context.Context) map[string]Check {
	checks := make(map[string]Check, len(h.documents))
	for name, doc := range h.documents {
		start := time.Now()
		err := doc.Check(ctx)
		c := Check{Status: "healthy", Latency: time.Since(start).String()}
		if err != nil {
			c.Status = "unhealthy"
			c.Message = err.Error()
		}
		checks[name] = c
	}
	return checks
}
