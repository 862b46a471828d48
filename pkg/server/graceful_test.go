package server

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/drugnet/pkg/health"
	"github.com/dd0wney/drugnet/pkg/logging"
	"github.com/dd0wney/drugnet/pkg/metrics"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

// serve starts gs on a random local port and waits until it answers.
func serve(t *testing.T, ctx context.Context, gs *GracefulServer) (string, <-chan error) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	done := make(chan error, 1)
	go func() { done <- gs.Serve(ctx, ln) }()

	url := "http://" + ln.Addr().String()
	require.Eventually(t, func() bool {
		resp, err := http.Get(url + "/healthz")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return true
	}, 2*time.Second, 10*time.Millisecond)
	return url, done
}

func TestGracefulServer_ContextShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	gs := NewGracefulServer("", okHandler(), logging.NewNopLogger())
	_, done := serve(t, ctx, gs)

	assert.False(t, gs.IsShuttingDown())
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
	assert.True(t, gs.IsShuttingDown())
	<-gs.ShutdownChannel()
}

func TestGracefulServer_SIGHUPReloads(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	gs := NewGracefulServer("", okHandler(), logging.NewNopLogger())
	reloaded := make(chan struct{}, 1)
	gs.SetReloadFunc(func() error {
		reloaded <- struct{}{}
		return nil
	})
	_, done := serve(t, ctx, gs)

	require.NoError(t, syscall.Kill(syscall.Getpid(), syscall.SIGHUP))
	select {
	case <-reloaded:
	case <-time.After(2 * time.Second):
		t.Fatal("reload not triggered")
	}
	assert.False(t, gs.IsShuttingDown(), "SIGHUP does not stop the server")

	require.NoError(t, gs.Shutdown(time.Second))
	assert.NoError(t, <-done)
}

func TestGracefulServer_Reload(t *testing.T) {
	gs := NewGracefulServer(":0", okHandler(), logging.NewNopLogger())
	assert.NoError(t, gs.Reload(), "no reload function")

	boom := errors.New("scan failed")
	gs.SetReloadFunc(func() error { return boom })
	assert.ErrorIs(t, gs.Reload(), boom)
}

func TestGracefulServer_ShutdownOnce(t *testing.T) {
	gs := NewGracefulServer(":0", okHandler(), logging.NewNopLogger())
	assert.NoError(t, gs.Shutdown(time.Second))
	assert.NoError(t, gs.Shutdown(time.Second))
	assert.True(t, gs.IsShuttingDown())
}

func TestNewMux(t *testing.T) {
	reg := metrics.NewRegistry()
	gql := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	hc := health.NewHealthChecker()
	hc.RegisterReadinessCheck("catalog", health.CatalogCheck(func() (int, error) { return 0, nil }))
	mux := NewMux(gql, reg, hc)

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/graphql", nil))
	assert.Equal(t, http.StatusTeapot, rr.Code)

	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"status":"healthy"`)

	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code, "nothing exported yet")

	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	body, err := io.ReadAll(rr.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), `drugnet_http_requests_total{method="POST",path="/graphql",status="418"} 1`))
}
