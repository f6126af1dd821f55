// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"inkpress/internal/models"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRecovererCatchesPanic(t *testing.T) {
	handler := Recoverer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status: got %d, want 500", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type: got %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "internal server error") {
		t.Errorf("body: got %q", rec.Body.String())
	}
}

func TestRecovererPassesThrough(t *testing.T) {
	rec := httptest.NewRecorder()
	Recoverer(okHandler()).ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status: got %d, want 200", rec.Code)
	}
}

func TestSecureHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	SecureHeaders(okHandler()).ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	want := map[string]string{
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "DENY",
		"Referrer-Policy":        "strict-origin-when-cross-origin",
	}
	for header, value := range want {
		if got := rec.Header().Get(header); got != value {
			t.Errorf("%s: got %q, want %q", header, got, value)
		}
	}
}

func TestLoggerPreservesResponse(t *testing.T) {
	handler := Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("short and stout"))
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	if rec.Code != http.StatusTeapot {
		t.Errorf("status: got %d, want 418", rec.Code)
	}
	if rec.Body.String() != "short and stout" {
		t.Errorf("body: got %q", rec.Body.String())
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"", ""},
		{"Bearer abc123", "abc123"},
		{"bearer abc123", "abc123"},
		{"Basic dXNlcjpwYXNz", ""},
		{"Bearer", ""},
		{"Bearer  padded  ", "padded"},
	}
	for _, tt := range tests {
		r := httptest.NewRequest("GET", "/", nil)
		if tt.header != "" {
			r.Header.Set("Authorization", tt.header)
		}
		if got := BearerToken(r); got != tt.want {
			t.Errorf("BearerToken(%q): got %q, want %q", tt.header, got, tt.want)
		}
	}
}

func TestRequireUser(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if UserFromCtx(r.Context()) == nil {
			t.Error("protected handler reached without a principal")
		}
		w.WriteHeader(http.StatusOK)
	})

	// Anonymous request is rejected with a challenge.
	rec := httptest.NewRecorder()
	RequireUser(next).ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous: got %d, want 401", rec.Code)
	}
	if rec.Header().Get("WWW-Authenticate") != "Bearer" {
		t.Error("missing WWW-Authenticate challenge")
	}

	// Injected principal passes.
	user := &models.User{ID: uuid.New(), Username: "tester", IsActive: true}
	r := httptest.NewRequest("GET", "/", nil)
	r = r.WithContext(WithUser(r.Context(), user))
	rec = httptest.NewRecorder()
	RequireUser(next).ServeHTTP(rec, r)
	if rec.Code != http.StatusOK {
		t.Errorf("with principal: got %d, want 200", rec.Code)
	}
}

func TestMemoryLimiter(t *testing.T) {
	l := NewMemoryLimiter(2, time.Hour)
	defer l.Stop()
	ctx := context.Background()

	if !l.Allow(ctx, "1.2.3.4") || !l.Allow(ctx, "1.2.3.4") {
		t.Fatal("first two requests must pass")
	}
	if l.Allow(ctx, "1.2.3.4") {
		t.Error("third request in the window must be denied")
	}

	// Other keys are unaffected.
	if !l.Allow(ctx, "5.6.7.8") {
		t.Error("a different client must not share the window")
	}
}

func TestMemoryLimiterWindowReset(t *testing.T) {
	l := NewMemoryLimiter(1, 10*time.Millisecond)
	defer l.Stop()
	ctx := context.Background()

	if !l.Allow(ctx, "1.2.3.4") {
		t.Fatal("first request must pass")
	}
	if l.Allow(ctx, "1.2.3.4") {
		t.Fatal("second request must be denied")
	}

	time.Sleep(20 * time.Millisecond)
	if !l.Allow(ctx, "1.2.3.4") {
		t.Error("request after the window elapses must pass")
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	l := NewMemoryLimiter(1, time.Hour)
	defer l.Stop()
	handler := RateLimit(l)(okHandler())

	r := httptest.NewRequest("POST", "/login", nil)
	r.RemoteAddr = "9.9.9.9:12345"

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, r)
	if rec.Code != http.StatusOK {
		t.Fatalf("first request: got %d, want 200", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, r)
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("second request: got %d, want 429", rec.Code)
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*http.Request)
		want  string
	}{
		{"remote addr", func(r *http.Request) { r.RemoteAddr = "10.0.0.1:9999" }, "10.0.0.1"},
		{"x-forwarded-for", func(r *http.Request) {
			r.Header.Set("X-Forwarded-For", "203.0.113.5, 10.0.0.1")
		}, "203.0.113.5"},
		{"x-real-ip", func(r *http.Request) { r.Header.Set("X-Real-IP", "203.0.113.9") }, "203.0.113.9"},
	}
	for _, tt := range tests {
		r := httptest.NewRequest("GET", "/", nil)
		tt.setup(r)
		if got := clientIP(r); got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.name, got, tt.want)
		}
	}
}
