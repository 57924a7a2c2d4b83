package northbound

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/the-maldridge/rackhttp/pkg/config"
)

type failingStore struct{}

func (failingStore) All() map[string]interface{}   { return nil }
func (failingStore) Set(string, interface{}) error { return errors.New("disk full") }

func serve(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestConfigRoutes(t *testing.T) {
	cfg := config.NewConfig()
	h := New(WithConfig(cfg)).HTTPEntry()

	rec := serve(h, "GET", "/api/2.0/config", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"httpFileServiceApiRoot":"/"`)

	rec = serve(h, "PATCH", "/api/2.0/config", `{"httpFileServiceApiRoot": "/files"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"httpFileServiceApiRoot":"/files"`)
	assert.Equal(t, "/files", cfg.GetString(config.KeyAPIRoot, "/"))

	rec = serve(h, "PATCH", "/api/2.0/config", `["not", "an", "object"]`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestConfigSetFailure(t *testing.T) {
	h := New(WithConfig(failingStore{})).HTTPEntry()
	rec := serve(h, "PATCH", "/api/2.0/config", `{"a": 1}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := prometheus.NewCounter(prometheus.CounterOpts{Name: "rackhttp_test_total", Help: "test"})
	reg.MustRegister(c)
	c.Inc()

	h := New(WithMetrics(reg)).HTTPEntry()

	rec := serve(h, "GET", "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(h, "GET", "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "rackhttp_test_total 1")

	// Config routes are only present when a config is supplied.
	rec = serve(h, "GET", "/api/2.0/config", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
