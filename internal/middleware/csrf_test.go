// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

var testAuthKey = []byte("12345678901234567890123456789012")

func TestDefaultCSRFConfig_Development(t *testing.T) {
	cfg := DefaultCSRFConfig(testAuthKey, true, 3000)

	if len(cfg.AuthKey) != 32 {
		t.Errorf("expected 32-byte AuthKey, got %d bytes", len(cfg.AuthKey))
	}

	want := map[string]bool{"localhost:3000": true, "127.0.0.1:3000": true}
	if len(cfg.TrustedOrigins) != len(want) {
		t.Fatalf("TrustedOrigins = %v, want %d entries", cfg.TrustedOrigins, len(want))
	}
	for _, origin := range cfg.TrustedOrigins {
		if !want[origin] {
			t.Errorf("unexpected TrustedOrigin %q", origin)
		}
		// The csrf library expects host:port, not a full URL.
		if strings.HasPrefix(origin, "http") {
			t.Errorf("TrustedOrigin should be host:port, not full URL: %s", origin)
		}
	}
}

func TestDefaultCSRFConfig_Production(t *testing.T) {
	cfg := DefaultCSRFConfig(testAuthKey, false, 8080)

	if len(cfg.TrustedOrigins) != 0 {
		t.Errorf("expected no TrustedOrigins in production, got %v", cfg.TrustedOrigins)
	}
}

func TestCSRF_Requests(t *testing.T) {
	handler := CSRF(DefaultCSRFConfig(testAuthKey, false, 8080))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name      string
		method    string
		fetchSite string
		accept    string
		want      int
	}{
		{"safe method", http.MethodGet, "cross-site", "", http.StatusOK},
		{"same origin post", http.MethodPost, "same-origin", "", http.StatusOK},
		{"non-browser post", http.MethodPost, "", "", http.StatusOK},
		{"cross-site post", http.MethodPost, "cross-site", "", http.StatusForbidden},
		{"cross-site json post", http.MethodPost, "cross-site", "application/json", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "https://example.com/admin/blog", nil)
			if tt.fetchSite != "" {
				req.Header.Set("Sec-Fetch-Site", tt.fetchSite)
			}
			if tt.accept != "" {
				req.Header.Set("Accept", tt.accept)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if rr.Code != tt.want {
				t.Errorf("status = %d, want %d", rr.Code, tt.want)
			}
			if tt.want == http.StatusForbidden && tt.accept != "" {
				if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
					t.Errorf("Content-Type = %q, want application/json", ct)
				}
			}
		})
	}
}

func TestCSRF_CustomErrorHandler(t *testing.T) {
	cfg := DefaultCSRFConfig(testAuthKey, false, 8080)
	called := false
	cfg.ErrorHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		http.Error(w, "custom", http.StatusTeapot)
	})

	handler := CSRF(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodPost, "https://example.com/admin/blog", nil)
	req.Header.Set("Sec-Fetch-Site", "cross-site")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if !called || rr.Code != http.StatusTeapot {
		t.Errorf("custom handler called = %v, status = %d", called, rr.Code)
	}
}
