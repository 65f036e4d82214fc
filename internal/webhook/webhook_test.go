// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package webhook

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sync/atomic"
	"testing"
	"time"

	"github.com/olegiv/contentdesk/internal/testutil"
)

func TestGenerateSignature(t *testing.T) {
	tests := []struct {
		name    string
		payload []byte
		secret  string
	}{
		{"empty payload", []byte{}, "secret"},
		{"simple payload", []byte(`{"event":"test"}`), "mysecret"},
		{"revalidate payload", []byte(`{"type":"content.revalidate","data":{"paths":["/blog"]}}`), "webhook-secret-key"},
		{"empty secret", []byte(`test`), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := GenerateSignature(tt.payload, tt.secret)
			// SHA256 = 32 bytes = 64 hex chars
			if len(result) != 64 {
				t.Errorf("GenerateSignature() returned signature with length %d, expected 64", len(result))
			}
			if result != GenerateSignature(tt.payload, tt.secret) {
				t.Error("GenerateSignature() not consistent")
			}
		})
	}
}

func TestVerifySignature(t *testing.T) {
	payload := []byte(`{"title":"Тест","content":"日本語"}`)
	signature := GenerateSignature(payload, "unicode-secret-ключ")

	if !VerifySignature(payload, signature, "unicode-secret-ключ") {
		t.Error("VerifySignature() = false for a valid signature")
	}
	if VerifySignature(payload, signature, "wrong-secret") {
		t.Error("VerifySignature() should return false with wrong secret")
	}

	for _, bad := range []string{"", "not-a-valid-hex-string", "abc123"} {
		if VerifySignature(payload, bad, "unicode-secret-ключ") {
			t.Errorf("VerifySignature(%q) should return false", bad)
		}
	}
}

func TestCalculateBackoff(t *testing.T) {
	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{0, 5 * time.Second}, // Treated as attempt 1
		{1, 5 * time.Second},
		{2, 10 * time.Second},
		{3, 20 * time.Second},
		{6, 160 * time.Second},
		{7, 5 * time.Minute}, // Capped
		{100, 5 * time.Minute},
	}

	for _, tt := range tests {
		if got := calculateBackoff(InitialBackoff, MaxBackoff, tt.attempt); got != tt.expected {
			t.Errorf("calculateBackoff(%d) = %v, want %v", tt.attempt, got, tt.expected)
		}
	}
}

func TestRevalidateData_Merge(t *testing.T) {
	a := RevalidateData{Paths: []string{"/admin/blog", "/blog", "/"}}
	b := RevalidateData{Paths: []string{"/admin/careers", "/careers", "/"}}

	got := a.merge(b).Paths
	want := []string{"/admin/blog", "/blog", "/", "/admin/careers", "/careers"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("merge() = %v, want %v", got, want)
	}
	if len(a.Paths) != 3 {
		t.Error("merge() modified its receiver")
	}
}

type received struct {
	event     Event
	paths     []string
	signature string
	body      []byte
}

func receiver(t *testing.T, status func(n int32) int) (*httptest.Server, <-chan received) {
	t.Helper()
	ch := make(chan received, 16)
	var n atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var payload struct {
			Event
			Data RevalidateData `json:"data"`
		}
		_ = json.Unmarshal(body, &payload)
		ch <- received{
			event:     payload.Event,
			paths:     payload.Data.Paths,
			signature: r.Header.Get("X-Webhook-Signature"),
			body:      body,
		}
		w.WriteHeader(status(n.Add(1)))
	}))
	t.Cleanup(srv.Close)
	return srv, ch
}

func next(t *testing.T, ch <-chan received) received {
	t.Helper()
	select {
	case r := <-ch:
		return r
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for delivery")
		return received{}
	}
}

func startDispatcher(t *testing.T, url string) *Dispatcher {
	t.Helper()
	d := NewDispatcher([]Target{{URL: url, Secret: "s3cret"}}, testutil.TestLoggerSilent(), Config{
		Workers:        1,
		InitialBackoff: 10 * time.Millisecond,
		MaxAttempts:    3,
	})
	d.Start(context.Background())
	t.Cleanup(d.Stop)
	return d
}

func TestDispatcher_DeliversSignedPayload(t *testing.T) {
	srv, ch := receiver(t, func(int32) int { return http.StatusOK })
	d := startDispatcher(t, srv.URL)

	if err := d.DispatchEvent(context.Background(), EventRevalidate, RevalidateData{Paths: []string{"/blog"}}); err != nil {
		t.Fatalf("DispatchEvent: %v", err)
	}

	got := next(t, ch)
	if got.event.Type != EventRevalidate {
		t.Errorf("event type = %q", got.event.Type)
	}
	if !reflect.DeepEqual(got.paths, []string{"/blog"}) {
		t.Errorf("paths = %v", got.paths)
	}
	if !VerifySignature(got.body, got.signature, "s3cret") {
		t.Error("signature does not verify")
	}
}

func TestDispatcher_RetriesServerErrors(t *testing.T) {
	srv, ch := receiver(t, func(n int32) int {
		if n < 3 {
			return http.StatusBadGateway
		}
		return http.StatusNoContent
	})
	d := startDispatcher(t, srv.URL)

	_ = d.DispatchEvent(context.Background(), EventRevalidate, RevalidateData{Paths: []string{"/"}})

	for i := 0; i < 3; i++ {
		next(t, ch)
	}
	select {
	case <-ch:
		t.Error("delivery continued after success")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestDispatcher_ClientErrorNotRetried(t *testing.T) {
	srv, ch := receiver(t, func(int32) int { return http.StatusBadRequest })
	d := startDispatcher(t, srv.URL)

	_ = d.DispatchEvent(context.Background(), EventRevalidate, RevalidateData{Paths: []string{"/"}})

	next(t, ch)
	select {
	case <-ch:
		t.Error("4xx delivery was retried")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestDispatcher_NotRunning(t *testing.T) {
	d := NewDispatcher([]Target{{URL: "http://127.0.0.1:1"}}, testutil.TestLoggerSilent(), Config{})

	if err := d.DispatchEvent(context.Background(), EventRevalidate, nil); err != nil {
		t.Errorf("DispatchEvent on stopped dispatcher = %v, want nil", err)
	}
}

func TestDebouncer_CoalescesPaths(t *testing.T) {
	srv, ch := receiver(t, func(int32) int { return http.StatusOK })
	d := startDispatcher(t, srv.URL)
	deb := NewDebouncer(d, DebounceConfig{Interval: 50 * time.Millisecond, MaxWait: time.Second})

	deb.Invalidate(context.Background(), "/admin/blog", "/blog", "/")
	deb.Invalidate(context.Background(), "/admin/careers", "/careers", "/")
	deb.Invalidate(context.Background())

	if n := deb.PendingCount(); n != 1 {
		t.Errorf("PendingCount() = %d, want 1", n)
	}

	got := next(t, ch)
	want := []string{"/admin/blog", "/blog", "/", "/admin/careers", "/careers"}
	if !reflect.DeepEqual(got.paths, want) {
		t.Errorf("paths = %v, want %v", got.paths, want)
	}
	deb.Stop()
}

func TestDebouncer_StopFlushes(t *testing.T) {
	srv, ch := receiver(t, func(int32) int { return http.StatusOK })
	d := startDispatcher(t, srv.URL)
	deb := NewDebouncer(d, DebounceConfig{Interval: time.Hour, MaxWait: time.Hour})

	deb.Invalidate(context.Background(), "/projects")
	deb.Stop()

	if got := next(t, ch); !reflect.DeepEqual(got.paths, []string{"/projects"}) {
		t.Errorf("paths = %v", got.paths)
	}
	if n := deb.PendingCount(); n != 0 {
		t.Errorf("PendingCount() after Stop = %d", n)
	}
}
