// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRobots(t *testing.T) {
	app := newTestApp(t)

	rr := app.do(get("/robots.txt", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Disallow: /admin\n")
	assert.Contains(t, rr.Body.String(), "Sitemap: http://example.com/sitemap.xml\n")
}

func TestSitemap_ListsPosts(t *testing.T) {
	app := newTestApp(t)
	cookie := app.login()

	rr := app.do(jsonPost("/admin/blog", cookie, url.Values{
		"title":        {"Hello World"},
		"blurb":        {"Intro"},
		"published_at": {"2025-03-01"},
	}))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = app.do(get("/sitemap.xml", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/xml; charset=utf-8", rr.Header().Get("Content-Type"))
	body := rr.Body.String()
	assert.Contains(t, body, "<loc>http://example.com/careers</loc>")
	assert.Contains(t, body, "<loc>http://example.com/blog/hello-world</loc>")
	assert.Contains(t, body, "<lastmod>2025-03-01T00:00:00Z</lastmod>")
}
