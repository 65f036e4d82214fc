// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/olegiv/contentdesk/internal/audit"
	"github.com/olegiv/contentdesk/internal/auth"
	"github.com/olegiv/contentdesk/internal/cache"
	"github.com/olegiv/contentdesk/internal/config"
	"github.com/olegiv/contentdesk/internal/content"
	"github.com/olegiv/contentdesk/internal/handler"
	"github.com/olegiv/contentdesk/internal/logging"
	"github.com/olegiv/contentdesk/internal/metrics"
	"github.com/olegiv/contentdesk/internal/middleware"
	"github.com/olegiv/contentdesk/internal/model"
	"github.com/olegiv/contentdesk/internal/scheduler"
	"github.com/olegiv/contentdesk/internal/session"
	"github.com/olegiv/contentdesk/internal/store"
	"github.com/olegiv/contentdesk/internal/version"
	"github.com/olegiv/contentdesk/internal/webhook"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	// Parse CLI flags
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "contentdesk - content back office for blog, careers, research and projects\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CONTENTDESK_SESSION_SECRET       Session and CSRF key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CONTENTDESK_CONTENT_DIR          Directory of the JSON documents (default: ./content)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CONTENTDESK_SERVER_PORT          Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CONTENTDESK_ENV                  Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CONTENTDESK_ADMIN_EMAIL          Admin sign-in email\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CONTENTDESK_ADMIN_PASSWORD_HASH  Admin password hash (argon2id or bcrypt)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CONTENTDESK_SESSION_DB_PATH      SQLite session database (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CONTENTDESK_REDIS_URL            Redis URL for shared view caching (optional)\n")
	}

	flag.Parse()

	// Handle -h/-help flag
	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	info := version.Info{
		Version:   appVersion,
		GitCommit: appGitCommit,
		BuildTime: appBuildTime,
	}

	// Handle -v/-version flag
	if *showVersion {
		_, _ = fmt.Println(info.String())
		os.Exit(0)
	}

	if err := run(info); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run(info version.Info) error {
	// Load .env file if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := logging.New(os.Stdout, cfg.LogLevel)
	slog.SetDefault(logger)

	// Sessions
	var sessionDB *sql.DB
	if cfg.UseSessionDB() {
		slog.Info("opening session database", "path", cfg.SessionDBPath)
		sessionDB, err = session.NewDB(cfg.SessionDBPath)
		if err != nil {
			return fmt.Errorf("initializing session database: %w", err)
		}
		defer func() {
			if err := sessionDB.Close(); err != nil {
				slog.Error("error closing session database", "error", err)
			}
		}()
	}
	sessionManager := session.New(sessionDB, cfg.IsDevelopment())

	// Documents
	docs := cfg.Documents()
	blogDoc := store.NewDocument(docs.Blog, model.ValidateBlogPosts)
	jobsDoc := store.NewDocument(docs.Jobs, model.ValidateJobs)
	researchDoc := store.NewDocument(docs.Research, model.ValidateResearchCatalogue)
	projectsDoc := store.NewDocument(docs.Projects, model.ValidateProjects)
	recorder := audit.NewRecorder(docs.Audit, logger)
	slog.Info("content documents", "blog", docs.Blog, "jobs", docs.Jobs,
		"research", docs.Research, "projects", docs.Projects, "audit", docs.Audit)

	// Public view cache
	ttl := time.Duration(cfg.CacheTTL) * time.Second
	views := cache.NewViews(cache.NewCache(cache.Config{
		RedisURL:   cfg.RedisURL,
		Prefix:     cfg.CachePrefix,
		DefaultTTL: ttl,
		MaxSize:    cfg.CacheMaxSize,
	}), ttl)
	defer func() {
		if err := views.Close(); err != nil {
			slog.Error("error closing view cache", "error", err)
		}
	}()

	m := metrics.New()

	// Revalidation webhooks for an external site frontend
	invalidate := content.Invalidators{views}
	if len(cfg.RevalidateURLs) > 0 {
		targets := make([]webhook.Target, 0, len(cfg.RevalidateURLs))
		for _, u := range cfg.RevalidateURLs {
			targets = append(targets, webhook.Target{URL: u, Secret: cfg.RevalidateSecret})
		}
		dispatcher := webhook.NewDispatcher(targets, logger, webhook.DefaultConfig())
		dispatcher.Start(context.Background())
		defer dispatcher.Stop()

		debouncer := webhook.NewDebouncer(dispatcher, webhook.DefaultDebounceConfig())
		defer debouncer.Stop()
		invalidate = append(invalidate, debouncer)
	}

	opts := content.Options{
		Audit:       recorder,
		Views:       invalidate,
		Observer:    m,
		Logger:      logger,
		StrictAudit: cfg.StrictAudit,
	}
	blog := content.NewEngine(content.BlogKind(), blogDoc, opts)
	jobs := content.NewEngine(content.JobKind(), jobsDoc, opts)
	projects := content.NewEngine(content.ProjectKind(), projectsDoc, opts)
	research := content.NewResearch(researchDoc, opts)

	authenticator := auth.NewAuthenticator(auth.AdminConfig{
		UserID:         cfg.AdminID(),
		Email:          cfg.AdminEmail,
		Name:           cfg.AdminName,
		Roles:          cfg.AdminRoles,
		PasswordHash:   cfg.AdminPasswordHash,
		Password:       cfg.AdminPassword,
		AllowPlaintext: cfg.IsDevelopment(),
	}, logger)

	lpCfg := middleware.DefaultLoginProtectionConfig()
	lpCfg.OnRateLimited = func() { m.LoginAttempt(handler.LoginRateLimited) }
	loginProtection := middleware.NewLoginProtection(lpCfg)
	defer loginProtection.Stop()

	// Document integrity scan
	checkers := map[string]scheduler.Checker{
		"blog":     blogDoc,
		"jobs":     jobsDoc,
		"research": researchDoc,
		"projects": projectsDoc,
		"audit":    recorder,
	}
	integrity := scheduler.New(checkers, m, logger)
	if report := integrity.Scan(context.Background()); !report.Healthy() {
		slog.Warn("document integrity check found unreadable documents", "failures", len(report.Failures))
	}
	if cfg.IntegritySchedule != "" {
		if err := integrity.Start(cfg.IntegritySchedule); err != nil {
			return err
		}
		defer integrity.Stop()
	}

	healthDocs := make(map[string]handler.DocumentChecker, len(checkers))
	for name, c := range checkers {
		healthDocs[name] = c
	}

	router := handler.NewRouter(handler.RouterConfig{
		Sessions:        sessionManager,
		Security:        middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment()),
		CSRF:            middleware.CSRF(middleware.DefaultCSRFConfig([]byte(cfg.SessionSecret), cfg.IsDevelopment(), cfg.ServerPort)),
		LoginProtection: loginProtection,
		RequestTimeout:  30 * time.Second,
		RequestLogging:  cfg.IsDevelopment(),

		Auth: handler.NewAuthHandler(authenticator, sessionManager, loginProtection, m),
		Content: handler.NewContentHandler(
			handler.EngineCollection(blog),
			handler.EngineCollection(jobs),
			handler.ResearchCollection(research),
			handler.EngineCollection(projects),
		),
		Audit: handler.NewAuditHandler(recorder),
		Public: handler.NewPublicHandler(handler.Sources{
			Blog:     blog.List,
			Jobs:     jobs.List,
			Research: research.Catalogue,
			Projects: projects.List,
		}, views),
		Health:  handler.NewHealthHandler(healthDocs, info),
		Site:    handler.NewSiteHandler(cfg.SiteURL, cfg.IsDevelopment(), blog.List),
		Metrics: m.Handler(),
	})

	// Create server with appropriate timeouts
	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env, "version", info.Version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	}

	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
