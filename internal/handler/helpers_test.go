// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/contentdesk/internal/audit"
	"github.com/olegiv/contentdesk/internal/auth"
	"github.com/olegiv/contentdesk/internal/cache"
	"github.com/olegiv/contentdesk/internal/content"
	"github.com/olegiv/contentdesk/internal/metrics"
	"github.com/olegiv/contentdesk/internal/middleware"
	"github.com/olegiv/contentdesk/internal/model"
	"github.com/olegiv/contentdesk/internal/session"
	"github.com/olegiv/contentdesk/internal/store"
	"github.com/olegiv/contentdesk/internal/version"
)

const (
	testAdminEmail    = "admin@example.com"
	testAdminPassword = "correct horse battery staple"
)

// testApp is a fully wired router over documents in a temp directory.
type testApp struct {
	t       *testing.T
	dir     string
	router  http.Handler
	sm      *scs.SessionManager
	audit   *audit.Recorder
	metrics *metrics.Metrics
	views   *cache.Views
	lp      *middleware.LoginProtection
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	dir := t.TempDir()

	blogDoc := store.NewDocument(filepath.Join(dir, "blog.json"), model.ValidateBlogPosts)
	jobsDoc := store.NewDocument(filepath.Join(dir, "jobs.json"), model.ValidateJobs)
	researchDoc := store.NewDocument(filepath.Join(dir, "research.json"), model.ValidateResearchCatalogue)
	projectsDoc := store.NewDocument(filepath.Join(dir, "projects.json"), model.ValidateProjects)
	rec := audit.NewRecorder(filepath.Join(dir, "audit-log.json"), nil)

	m := metrics.NewWithRegistry(prometheus.NewRegistry())
	mem := cache.NewMemoryCache(cache.MemoryCacheOptions{DefaultTTL: time.Minute})
	views := cache.NewViews(mem, time.Minute)
	t.Cleanup(func() { _ = views.Close() })

	opts := content.Options{Audit: rec, Views: views, Observer: m}
	blog := content.NewEngine(content.BlogKind(), blogDoc, opts)
	jobs := content.NewEngine(content.JobKind(), jobsDoc, opts)
	projects := content.NewEngine(content.ProjectKind(), projectsDoc, opts)
	research := content.NewResearch(researchDoc, opts)

	sm := session.New(nil, true)
	lp := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())
	t.Cleanup(lp.Stop)

	authn := auth.NewAuthenticator(auth.AdminConfig{
		UserID:         "admin",
		Email:          testAdminEmail,
		Name:           "Admin",
		Roles:          []string{content.RoleAdmin},
		Password:       testAdminPassword,
		AllowPlaintext: true,
	}, nil)

	router := NewRouter(RouterConfig{
		Sessions:        sm,
		Security:        middleware.DefaultSecurityHeadersConfig(true),
		CSRF:            middleware.CSRF(middleware.DefaultCSRFConfig([]byte(strings.Repeat("k", 32)), true, 8080)),
		LoginProtection: lp,
		RequestTimeout:  5 * time.Second,

		Auth: NewAuthHandler(authn, sm, lp, m),
		Content: NewContentHandler(
			EngineCollection(blog),
			EngineCollection(jobs),
			ResearchCollection(research),
			EngineCollection(projects),
		),
		Audit: NewAuditHandler(rec),
		Public: NewPublicHandler(Sources{
			Blog:     blog.List,
			Jobs:     jobs.List,
			Research: research.Catalogue,
			Projects: projects.List,
		}, views),
		Health: NewHealthHandler(map[string]DocumentChecker{
			"blog":     blogDoc,
			"jobs":     jobsDoc,
			"research": researchDoc,
			"projects": projectsDoc,
			"audit":    rec,
		}, version.Info{Version: "v0.0.0-test"}),
		Site:    NewSiteHandler("", false, blog.List),
		Metrics: m.Handler(),
	})

	return &testApp{t: t, dir: dir, router: router, sm: sm, audit: rec, metrics: m, views: views, lp: lp}
}

func (a *testApp) do(req *http.Request) *httptest.ResponseRecorder {
	a.t.Helper()
	rr := httptest.NewRecorder()
	a.router.ServeHTTP(rr, req)
	return rr
}

// login signs in as the test admin and returns the session cookie.
func (a *testApp) login() *http.Cookie {
	a.t.Helper()
	rr := a.do(jsonPost(RouteLogin, nil, url.Values{
		"email":    {testAdminEmail},
		"password": {testAdminPassword},
	}))
	require.Equal(a.t, http.StatusOK, rr.Code, rr.Body.String())

	for _, c := range rr.Result().Cookies() {
		if c.Name == a.sm.Cookie.Name {
			return c
		}
	}
	a.t.Fatal("login did not set a session cookie")
	return nil
}

func (a *testApp) path(name string) string {
	return filepath.Join(a.dir, name)
}

func (a *testApp) readFile(name string) string {
	a.t.Helper()
	data, err := os.ReadFile(a.path(name))
	if os.IsNotExist(err) {
		return ""
	}
	require.NoError(a.t, err)
	return string(data)
}

// formPost builds a browser-style form submission.
func formPost(target string, cookie *http.Cookie, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	return req
}

// jsonPost builds a form submission from a client that wants JSON back.
func jsonPost(target string, cookie *http.Cookie, values url.Values) *http.Request {
	req := formPost(target, cookie, values)
	req.Header.Set("Accept", "application/json")
	return req
}

func get(target string, cookie *http.Cookie) *http.Request {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.Header.Set("Accept", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	return req
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}
