// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/olegiv/contentdesk/internal/middleware"
)

// RouterConfig wires the handlers and shared middleware into one router.
type RouterConfig struct {
	Sessions        *scs.SessionManager
	Security        middleware.SecurityHeadersConfig
	CSRF            func(http.Handler) http.Handler // nil disables CSRF protection
	LoginProtection *middleware.LoginProtection     // nil disables login throttling
	RequestTimeout  time.Duration
	// RequestLogging enables chi's request logger.
	RequestLogging bool

	Auth    *AuthHandler
	Content *ContentHandler
	Audit   *AuditHandler
	Public  *PublicHandler
	Health  *HealthHandler
	Site    *SiteHandler // nil omits robots.txt and sitemap.xml
	Metrics http.Handler // nil omits /metrics
}

// NewRouter builds the application router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	if cfg.RequestLogging {
		r.Use(chimw.Logger)
	}
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.GetHead)
	if cfg.RequestTimeout > 0 {
		r.Use(middleware.Timeout(cfg.RequestTimeout))
	}
	r.Use(middleware.StripTrailingSlash)
	r.Use(middleware.SecurityHeaders(cfg.Security))
	r.Use(middleware.RequestPath)

	if cfg.Metrics != nil {
		r.Method(http.MethodGet, RouteMetrics, cfg.Metrics)
	}
	if cfg.Site != nil {
		r.Get(RouteRobots, cfg.Site.Robots)
		r.Get(RouteSitemap, cfg.Site.Sitemap)
	}

	r.Group(func(r chi.Router) {
		r.Use(cfg.Sessions.LoadAndSave)
		r.Use(middleware.LoadAdmin(cfg.Sessions))
		if cfg.CSRF != nil {
			r.Use(cfg.CSRF)
		}

		r.Get(RouteHealth, cfg.Health.Health)
		r.Get(RouteHealth+"/live", cfg.Health.Liveness)

		r.Get(RouteRoot, cfg.Public.Home)
		r.Get("/blog", cfg.Public.Blog)
		r.Get("/careers", cfg.Public.Careers)
		r.Get("/research", cfg.Public.Research)
		r.Get("/projects", cfg.Public.Projects)

		r.Get(RouteLogin, cfg.Auth.Session)
		r.Group(func(r chi.Router) {
			if cfg.LoginProtection != nil {
				r.Use(cfg.LoginProtection.Middleware())
			}
			r.Post(RouteLogin, cfg.Auth.Login)
		})

		r.Route(RouteAdmin, func(r chi.Router) {
			r.Use(middleware.RequireAdmin)

			r.Get("/", func(w http.ResponseWriter, req *http.Request) {
				http.Redirect(w, req, redirectAfterLogin, http.StatusSeeOther)
			})
			r.Post("/logout", cfg.Auth.Logout)
			r.Get("/audit", cfg.Audit.List)
			cfg.Content.Routes(r)
		})
	})

	return r
}
