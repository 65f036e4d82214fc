// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"

	"github.com/olegiv/contentdesk/internal/util"
)

// knownWeakSecrets contains default/example secrets that must be rejected in production.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Default document file names inside ContentDir.
const (
	BlogFile     = "blog.json"
	JobsFile     = "jobs.json"
	ResearchFile = "research.json"
	ProjectsFile = "projects.json"
	AuditFile    = "audit-log.json"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	Env           string `env:"CONTENTDESK_ENV" envDefault:"development"`
	ServerHost    string `env:"CONTENTDESK_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"CONTENTDESK_SERVER_PORT" envDefault:"8080"`
	LogLevel      string `env:"CONTENTDESK_LOG_LEVEL" envDefault:"info"`
	SessionSecret string `env:"CONTENTDESK_SESSION_SECRET,required"`
	SessionDBPath string `env:"CONTENTDESK_SESSION_DB_PATH"` // Optional; sessions stay in memory when empty

	// Content documents. Relative overrides resolve against ContentDir.
	ContentDir   string `env:"CONTENTDESK_CONTENT_DIR" envDefault:"./content"`
	BlogPath     string `env:"CONTENTDESK_BLOG_PATH"`
	JobsPath     string `env:"CONTENTDESK_JOBS_PATH"`
	ResearchPath string `env:"CONTENTDESK_RESEARCH_PATH"`
	ProjectsPath string `env:"CONTENTDESK_PROJECTS_PATH"`
	AuditPath    string `env:"CONTENTDESK_AUDIT_PATH"`

	// Strict audit reports audit append failures to the caller.
	StrictAudit bool `env:"CONTENTDESK_STRICT_AUDIT" envDefault:"false"`

	// Admin account
	AdminEmail        string   `env:"CONTENTDESK_ADMIN_EMAIL"`
	AdminPasswordHash string   `env:"CONTENTDESK_ADMIN_PASSWORD_HASH"` // argon2id or bcrypt
	AdminPassword     string   `env:"CONTENTDESK_ADMIN_PASSWORD"`      // Plain text, development only
	AdminName         string   `env:"CONTENTDESK_ADMIN_NAME" envDefault:"Administrator"`
	AdminUserID       string   `env:"CONTENTDESK_ADMIN_USER_ID"`
	AdminRoles        []string `env:"CONTENTDESK_ADMIN_ROLES" envDefault:"admin" envSeparator:","`

	// Cache configuration
	RedisURL     string `env:"CONTENTDESK_REDIS_URL"`                              // Optional Redis URL for shared view caching
	CachePrefix  string `env:"CONTENTDESK_CACHE_PREFIX" envDefault:"contentdesk:"` // Redis key prefix
	CacheTTL     int    `env:"CONTENTDESK_CACHE_TTL" envDefault:"300"`             // View cache TTL in seconds
	CacheMaxSize int    `env:"CONTENTDESK_CACHE_MAX_SIZE" envDefault:"1000"`       // Max memory cache entries

	// Public site URL used in robots.txt and the sitemap; derived from the request when empty
	SiteURL string `env:"CONTENTDESK_SITE_URL"`

	// Revalidation webhooks notified after every mutation
	RevalidateURLs   []string `env:"CONTENTDESK_REVALIDATE_URLS" envSeparator:","`
	RevalidateSecret string   `env:"CONTENTDESK_REVALIDATE_SECRET"` // HMAC-SHA256 key for X-Webhook-Signature

	// Cron expression for the document integrity scan; empty disables it.
	IntegritySchedule string `env:"CONTENTDESK_INTEGRITY_SCHEDULE" envDefault:"@every 15m"`

	documents Documents
}

// Documents holds the resolved path of every persisted document.
type Documents struct {
	Blog     string
	Jobs     string
	Research string
	Projects string
	Audit    string
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// UseSessionDB returns true if sessions are persisted in SQLite.
func (c Config) UseSessionDB() bool {
	return c.SessionDBPath != ""
}

// Documents returns the resolved document paths.
func (c Config) Documents() Documents {
	return c.documents
}

// AdminID returns the identifier recorded in audit entries for the admin.
func (c Config) AdminID() string {
	if id := strings.TrimSpace(c.AdminUserID); id != "" {
		return id
	}
	return "admin"
}

// MinSessionSecretLength is the minimum required length for the session secret.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if len(cfg.SessionSecret) < MinSessionSecretLength {
		return nil, fmt.Errorf("CONTENTDESK_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(cfg.SessionSecret))
	}

	for _, weak := range knownWeakSecrets {
		if cfg.SessionSecret == weak {
			return nil, fmt.Errorf("CONTENTDESK_SESSION_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	if !hasMinimumEntropy(cfg.SessionSecret) {
		slog.Warn("CONTENTDESK_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	cfg.AdminEmail = strings.ToLower(strings.TrimSpace(cfg.AdminEmail))
	if cfg.AdminEmail != "" && !strings.Contains(cfg.AdminEmail, "@") {
		return nil, fmt.Errorf("CONTENTDESK_ADMIN_EMAIL %q is not an email address", cfg.AdminEmail)
	}
	if cfg.AdminEmail == "" {
		slog.Warn("CONTENTDESK_ADMIN_EMAIL is not set; admin sign-in is disabled")
	}
	if cfg.AdminPasswordHash == "" && cfg.AdminPassword != "" && !cfg.IsDevelopment() {
		slog.Warn("CONTENTDESK_ADMIN_PASSWORD is ignored outside development; set CONTENTDESK_ADMIN_PASSWORD_HASH")
	}

	if cfg.CacheTTL < 0 {
		return nil, fmt.Errorf("CONTENTDESK_CACHE_TTL must not be negative, got %d", cfg.CacheTTL)
	}

	docs, err := resolveDocuments(cfg)
	if err != nil {
		return nil, err
	}
	cfg.documents = docs

	return cfg, nil
}

func resolveDocuments(cfg *Config) (Documents, error) {
	if strings.TrimSpace(cfg.ContentDir) == "" {
		return Documents{}, errors.New("CONTENTDESK_CONTENT_DIR must not be empty")
	}

	resolve := func(override, fallback string) (string, error) {
		name := strings.TrimSpace(override)
		if name == "" {
			name = fallback
		}
		path, err := util.ResolveDocumentPath(cfg.ContentDir, name)
		if err != nil {
			return "", fmt.Errorf("resolving document %q: %w", name, err)
		}
		return path, nil
	}

	var docs Documents
	var err error
	targets := []struct {
		dst                *string
		override, fallback string
	}{
		{&docs.Blog, cfg.BlogPath, BlogFile},
		{&docs.Jobs, cfg.JobsPath, JobsFile},
		{&docs.Research, cfg.ResearchPath, ResearchFile},
		{&docs.Projects, cfg.ProjectsPath, ProjectsFile},
		{&docs.Audit, cfg.AuditPath, AuditFile},
	}
	for _, t := range targets {
		if *t.dst, err = resolve(t.override, t.fallback); err != nil {
			return Documents{}, err
		}
	}
	return docs, nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
