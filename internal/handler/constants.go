// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

// Route paths.
const (
	RouteRoot    = "/"
	RouteAdmin   = "/admin"
	RouteLogin   = "/admin/login"
	RouteLogout  = "/admin/logout"
	RouteAudit   = "/admin/audit"
	RouteHealth  = "/health"
	RouteMetrics = "/metrics"
	RouteRobots  = "/robots.txt"
	RouteSitemap = "/sitemap.xml"

	routeSuffixDelete = "/delete"
)

// redirectAfterLogin is where a browser lands after signing in.
const redirectAfterLogin = "/admin/blog"

// maxBodyBytes caps form and JSON submissions.
const maxBodyBytes = 1 << 20

// Login outcomes reported to the LoginRecorder.
const (
	LoginSuccess     = "success"
	LoginFailure     = "failure"
	LoginLocked      = "locked"
	LoginRateLimited = "rate_limited"
)
