package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubChecker struct {
	err error
}

func (s stubChecker) HealthCheck(ctx context.Context) error { return s.err }

func TestHealthHandler_Health(t *testing.T) {
	h := NewHealthHandler("1.2.3", nil)
	r := gin.New()
	r.GET("/api/health", h.Health)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","version":"1.2.3"}`, w.Body.String())
}

func TestHealthHandler_Ready(t *testing.T) {
	tests := []struct {
		name       string
		checks     map[string]HealthChecker
		wantStatus int
		wantState  string
	}{
		{"nothing configured", nil, http.StatusOK, "ready"},
		{"all healthy", map[string]HealthChecker{"redis": stubChecker{}, "database": stubChecker{}}, http.StatusOK, "ready"},
		{"redis down", map[string]HealthChecker{"redis": stubChecker{err: errors.New("connection refused")}, "database": stubChecker{}}, http.StatusServiceUnavailable, "not ready"},
		{"nil checker skipped", map[string]HealthChecker{"redis": nil}, http.StatusOK, "ready"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler("1.0.0", tt.checks)
			r := gin.New()
			r.GET("/ready", h.Ready)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))

			assert.Equal(t, tt.wantStatus, w.Code)

			var resp ReadyResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantState, resp.Status)
			if tt.wantStatus == http.StatusServiceUnavailable {
				assert.Equal(t, "unhealthy: connection refused", resp.Components["redis"])
				assert.Equal(t, "healthy", resp.Components["database"])
			}
		})
	}
}
