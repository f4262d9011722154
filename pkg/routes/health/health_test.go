package health

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/clover/internal/repositories/formstore"
	"github.com/Ramsey-B/clover/internal/repositories/webhookconfig"
)

func testChecker(t *testing.T) *Checker {
	t.Helper()

	logger := ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
	dir := t.TempDir()
	store := formstore.NewRepository(dir, logger)
	configs := webhookconfig.NewRepository(filepath.Join(dir, "webhook_config.json"), logger)

	return NewChecker(store, configs, "1.2.3")
}

func doRequest(t *testing.T, checker *Checker, path string) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	checker.RegisterRoutes(e)

	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	t.Run("healthy with working storage", func(t *testing.T) {
		rec := doRequest(t, testChecker(t), "/health")
		require.Equal(t, http.StatusOK, rec.Code)

		var status HealthStatus
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
		assert.Equal(t, "healthy", status.Status)
		assert.Equal(t, "1.2.3", status.Version)
		require.Contains(t, status.Checks, "form_storage")
		assert.Equal(t, "healthy", status.Checks["form_storage"].Status)
	})

	t.Run("webhook disabled is healthy with a message", func(t *testing.T) {
		rec := doRequest(t, testChecker(t), "/health")
		require.Equal(t, http.StatusOK, rec.Code)

		var status HealthStatus
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
		require.Contains(t, status.Checks, "webhook_config")
		assert.Equal(t, "healthy", status.Checks["webhook_config"].Status)
		assert.Equal(t, "webhook disabled", status.Checks["webhook_config"].Message)
	})

	t.Run("unhealthy without form storage", func(t *testing.T) {
		checker := NewChecker(nil, nil, "1.2.3")
		rec := doRequest(t, checker, "/health")
		require.Equal(t, http.StatusServiceUnavailable, rec.Code)

		var status HealthStatus
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
		assert.Equal(t, "unhealthy", status.Status)
		assert.Equal(t, "form storage not configured", status.Checks["form_storage"].Message)
	})
}

func TestLive(t *testing.T) {
	rec := doRequest(t, testChecker(t), "/health/live")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status": "alive"}`, rec.Body.String())
}

func TestReady(t *testing.T) {
	checker := testChecker(t)

	t.Run("not ready until flagged", func(t *testing.T) {
		rec := doRequest(t, checker, "/health/ready")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.JSONEq(t, `{"status": "not ready"}`, rec.Body.String())
	})

	t.Run("ready once flagged", func(t *testing.T) {
		checker.SetReady(true)
		rec := doRequest(t, checker, "/health/ready")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status": "ready"}`, rec.Body.String())
	})
}
