package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTally(t *testing.T) {
	pass, fail, pending, skipped := tally([]Result{
		{Status: StatusPass}, {Status: StatusPass}, {Status: StatusFail},
		{Status: StatusPending}, {Status: StatusSkip},
	})
	assert.Equal(t, []int{2, 1, 1, 1}, []int{pass, fail, pending, skipped})
}

func TestHTTPCase(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		switch req.URL.Path {
		case "/ok":
			w.WriteHeader(http.StatusOK)
		case "/down":
			w.WriteHeader(http.StatusBadGateway)
		default:
			w.WriteHeader(http.StatusTeapot)
		}
	}))
	defer srv.Close()
	r := NewRunner(Config{BaseURL: srv.URL})

	tests := []struct {
		path string
		want string
	}{
		{"/ok", StatusPass},
		{"/down", StatusPending},
		{"/other", StatusFail},
	}
	for _, tt := range tests {
		tc := httpCase(tt.path, http.MethodGet, srv.URL+tt.path, nil, []int{http.StatusOK}, providerDown)
		assert.Equal(t, tt.want, tc.Run(context.Background(), r).Status, tt.path)
	}
}

func TestPerfLoad(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()
	r := NewRunner(Config{Concurrency: 2, Duration: 50 * time.Millisecond})

	res := perfLoad(context.Background(), r, http.MethodGet, srv.URL, nil)

	assert.Equal(t, StatusPass, res.Status)
	assert.Contains(t, res.Note, "errors=0")
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := loadConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080", cfg.BaseURL)
	assert.Equal(t, 20, cfg.Concurrency)
	assert.Equal(t, 2*time.Minute, cfg.Timeout)
	assert.Equal(t, 2*time.Second, cfg.Throttle)
}

func TestLoadConfig_EnvThenFlags(t *testing.T) {
	t.Setenv("CARONA_BENCH_BASE_URL", "http://api:9000/")
	t.Setenv("CARONA_BENCH_CONCURRENCY", "5")
	t.Setenv("CARONA_BENCH_STRICT", "true")

	cfg, err := loadConfig([]string{"-duration", "3s"})
	require.NoError(t, err)
	assert.Equal(t, "http://api:9000", cfg.BaseURL)
	assert.Equal(t, 5, cfg.Concurrency)
	assert.True(t, cfg.Strict)
	assert.Equal(t, 3*time.Second, cfg.Duration)

	cfg, err = loadConfig([]string{"-concurrency", "8"})
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Concurrency)
}

func TestLoadConfig_RejectsUnparsableEnv(t *testing.T) {
	t.Setenv("CARONA_BENCH_CONCURRENCY", "lots")
	t.Setenv("CARONA_BENCH_TIMEOUT", "soon")

	_, err := loadConfig(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "concurrency")
	assert.Contains(t, err.Error(), "timeout")
}
