package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixed(status Status) CheckFunc {
	return func() Check { return Check{Status: status} }
}

func TestHealthChecker_WorstStatusWins(t *testing.T) {
	tests := []struct {
		name     string
		statuses []Status
		want     Status
	}{
		{"no checks", nil, StatusHealthy},
		{"all healthy", []Status{StatusHealthy, StatusHealthy}, StatusHealthy},
		{"one degraded", []Status{StatusHealthy, StatusDegraded}, StatusDegraded},
		{"unhealthy beats degraded", []Status{StatusDegraded, StatusUnhealthy, StatusHealthy}, StatusUnhealthy},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hc := NewHealthChecker()
			for i, s := range tt.statuses {
				hc.RegisterCheck(string(rune('a'+i)), fixed(s))
			}
			resp := hc.Check()
			assert.Equal(t, tt.want, resp.Status)
			assert.Len(t, resp.Checks, len(tt.statuses))
			assert.GreaterOrEqual(t, resp.Uptime, 0.0)
		})
	}
}

func TestHealthChecker_Scopes(t *testing.T) {
	hc := NewHealthChecker()
	hc.RegisterLivenessCheck("memory", fixed(StatusHealthy))
	hc.RegisterReadinessCheck("catalog", fixed(StatusDegraded))
	hc.RegisterCheck("database", fixed(StatusUnhealthy))

	assert.Equal(t, StatusHealthy, hc.CheckLiveness().Status)
	assert.Equal(t, StatusDegraded, hc.CheckReadiness().Status)
	full := hc.Check()
	assert.Equal(t, StatusUnhealthy, full.Status)
	assert.Len(t, full.Checks, 3)
	assert.Equal(t, "catalog", full.Checks["catalog"].Name, "name defaults to the registered key")
}

func TestHandlers(t *testing.T) {
	hc := NewHealthChecker()
	hc.RegisterLivenessCheck("memory", fixed(StatusHealthy))
	hc.RegisterReadinessCheck("catalog", fixed(StatusDegraded))

	tests := []struct {
		name    string
		handler http.HandlerFunc
		code    int
		status  Status
	}{
		{"full report tolerates degraded", hc.HTTPHandler(), http.StatusOK, StatusDegraded},
		{"readiness is binary", hc.ReadinessHandler(), http.StatusServiceUnavailable, StatusDegraded},
		{"liveness", hc.LivenessHandler(), http.StatusOK, StatusHealthy},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			tt.handler(rr, httptest.NewRequest(http.MethodGet, "/", nil))
			assert.Equal(t, tt.code, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
			var resp Response
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.Equal(t, tt.status, resp.Status)
		})
	}
}

func TestCatalogCheck(t *testing.T) {
	c := CatalogCheck(func() (int, error) { return 12, nil })()
	assert.Equal(t, StatusHealthy, c.Status)
	assert.Equal(t, 12, c.Details["graphs"])

	c = CatalogCheck(func() (int, error) { return 0, nil })()
	assert.Equal(t, StatusDegraded, c.Status)

	c = CatalogCheck(func() (int, error) { return 0, errors.New("no such directory") })()
	assert.Equal(t, StatusUnhealthy, c.Status)
	assert.Equal(t, "no such directory", c.Message)
}

func TestDatabaseCheck(t *testing.T) {
	c := DatabaseCheck(func(context.Context) error { return nil }, time.Second)()
	assert.Equal(t, StatusHealthy, c.Status)

	c = DatabaseCheck(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}, 10*time.Millisecond)()
	assert.Equal(t, StatusUnhealthy, c.Status)
	assert.Contains(t, c.Message, "deadline")
}

func TestMemoryCheck(t *testing.T) {
	assert.Equal(t, StatusHealthy, memoryCheck(10, 100).Status)
	assert.Equal(t, StatusDegraded, memoryCheck(95, 100).Status)
	assert.Equal(t, StatusHealthy, memoryCheck(0, 0).Status)
	assert.NotEmpty(t, MemoryCheck()().Details)
}
