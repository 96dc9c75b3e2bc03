package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestAuthMiddleware(t *testing.T) {
	apiKey := "secret-key"
	middleware := AuthMiddleware(apiKey, nil, NewSuspiciousActivityDetector())

	tests := []struct {
		name           string
		providedKey    string
		path           string
		expectedStatus int
	}{
		{
			name:           "Valid API Key",
			providedKey:    apiKey,
			path:           "/api/v1/arcade/resolve/daily_drop",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Invalid API Key",
			providedKey:    "wrong-key",
			path:           "/api/v1/arcade/resolve/daily_drop",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Missing API Key",
			providedKey:    "",
			path:           "/api/v1/progression/state",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Public Path - Healthz",
			providedKey:    "",
			path:           "/healthz",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Public Path - Metrics",
			providedKey:    "",
			path:           "/metrics",
			expectedStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.path, nil)
			if tt.providedKey != "" {
				req.Header.Set(HeaderAPIKey, tt.providedKey)
			}
			rec := httptest.NewRecorder()

			handler := middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, rec.Code)
			}
		})
	}
}

func TestSecurityHeadersMiddleware(t *testing.T) {
	middleware := SecurityHeadersMiddleware()

	req := httptest.NewRequest("GET", "/api/v1/arcade/verify", nil)
	rec := httptest.NewRecorder()

	handler := middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get(HeaderContentType); got != HeaderValueNoSniff {
		t.Errorf("Expected %q, got %q", HeaderValueNoSniff, got)
	}
	if got := rec.Header().Get(HeaderFrameOptions); got != HeaderValueSameOrigin {
		t.Errorf("Expected %q, got %q", HeaderValueSameOrigin, got)
	}
}

func TestRequestSizeLimitMiddleware(t *testing.T) {
	middleware := RequestSizeLimitMiddleware(16)

	body := strings.NewReader(strings.Repeat("x", 1024))
	req := httptest.NewRequest("POST", "/api/v1/arcade/commit", body)
	rec := httptest.NewRecorder()

	handler := middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := io.ReadAll(r.Body); err != nil {
			http.Error(w, err.Error(), http.StatusRequestEntityTooLarge)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("Expected %d, got %d", http.StatusRequestEntityTooLarge, rec.Code)
	}
}

func TestRateLimitBlocksAfterWindowCap(t *testing.T) {
	detector := NewSuspiciousActivityDetector()
	ip := "203.0.113.7"

	for i := 0; i < 1000; i++ {
		if !detector.RecordRequest(ip) {
			t.Fatalf("Request %d unexpectedly blocked", i)
		}
	}
	if detector.RecordRequest(ip) {
		t.Error("Expected request beyond the window cap to be blocked")
	}
	if !detector.RecordRequest("198.51.100.1") {
		t.Error("Unrelated IP should not be blocked")
	}
}

func TestExtractIPTrustsForwardedForOnlyFromProxy(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/v1/ledger/user/u1", nil)
	req.RemoteAddr = "10.0.0.5:4242"
	req.Header.Set(HeaderForwardedFor, "203.0.113.9, 10.0.0.5")

	if got := extractIP(req, nil); got != "10.0.0.5" {
		t.Errorf("Untrusted proxy: expected remote addr, got %q", got)
	}
	if got := extractIP(req, []string{"10.0.0.5"}); got != "203.0.113.9" {
		t.Errorf("Trusted proxy: expected forwarded client, got %q", got)
	}
}
