package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/riskibarqy/matchcast/internal/platform/logging"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestCORS(t *testing.T) {
	tests := []struct {
		name       string
		allowed    []string
		method     string
		origin     string
		wantStatus int
		wantOrigin string
		wantVary   bool
	}{
		{name: "configured origin", allowed: []string{"https://matchcast.app"}, method: http.MethodGet, origin: "https://matchcast.app", wantStatus: http.StatusOK, wantOrigin: "https://matchcast.app", wantVary: true},
		{name: "wildcard preflight", allowed: []string{"*"}, method: http.MethodOptions, origin: "https://matchcast.app", wantStatus: http.StatusNoContent, wantOrigin: "*"},
		{name: "unconfigured origin", allowed: []string{"https://allowed.example.com"}, method: http.MethodGet, origin: "https://other.example.com", wantStatus: http.StatusOK},
		{name: "no origin header", allowed: []string{"*"}, method: http.MethodGet, wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/v1/matches/today", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			rec := httptest.NewRecorder()

			CORS(tt.allowed, okHandler()).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantOrigin, rec.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, tt.wantVary, rec.Header().Get("Vary") == "Origin")
		})
	}
}

func TestIsHealthPath(t *testing.T) {
	for _, path := range []string{"/healthz", "/health", "/livez", "/readyz", " /HEALTHZ "} {
		assert.True(t, isHealthPath(path), path)
	}
	for _, path := range []string{"/v1/matches/live", "/v1/broadcasts", "/", "/docs"} {
		assert.False(t, isHealthPath(path), path)
	}
}

func TestRequestLogging_Levels(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := logging.FromZap(zap.New(core))

	failing := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	RequestLogging(logger, okHandler()).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))
	RequestLogging(logger, okHandler()).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/matches", nil))
	RequestLogging(logger, failing).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/status", nil))

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, zapcore.InfoLevel, entries[1].Level)
	assert.Equal(t, zapcore.WarnLevel, entries[2].Level)

	fields := entries[2].ContextMap()
	assert.Equal(t, int64(http.StatusServiceUnavailable), fields["status"])
	assert.Equal(t, "/v1/status", fields["path"])
	assert.Equal(t, "ZZ", fields["country"])
}
