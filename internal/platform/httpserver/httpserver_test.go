package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recruitbot/pkg/requestcontext"
)

func TestOpsRouter(t *testing.T) {
	reg := prometheus.NewRegistry()
	promauto.With(reg).NewCounter(prometheus.CounterOpts{
		Name: "recruitbot_test_total",
		Help: "test counter",
	}).Inc()

	healthy := true
	router := NewOpsRouter(reg, map[string]HealthCheck{
		"database": func(context.Context) error {
			if healthy {
				return nil
			}
			return errors.New("database is closed")
		},
	})

	t.Run("healthz ok", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "ok", body["database"])
	})

	t.Run("healthz unavailable", func(t *testing.T) {
		healthy = false
		defer func() { healthy = true }()

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Contains(t, rec.Body.String(), "database is closed")
	})

	t.Run("metrics exposition", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "recruitbot_test_total 1")
	})

	t.Run("wrong method", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/healthz", nil))
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestRequestTime(t *testing.T) {
	var seen []time.Time
	check := func(ctx context.Context) error {
		seen = append(seen, requestcontext.Now(ctx))
		return nil
	}
	router := NewOpsRouter(prometheus.NewRegistry(), map[string]HealthCheck{
		"database": check,
		"redis":    check,
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Len(t, seen, 2)
	assert.Equal(t, seen[0], seen[1])
}
