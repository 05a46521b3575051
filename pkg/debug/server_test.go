package debug

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/kaara/it100-websocket/pkg/metrics"
	"github.com/stretchr/testify/assert"
)

func get(mux http.Handler, path string) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	mux.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, path, nil))
	return recorder
}

func TestReadiness(t *testing.T) {
	isReady := &atomic.Bool{}
	mux := newMux(isReady)

	assert.Equal(t, http.StatusOK, get(mux, "/healthz").Code)
	assert.Equal(t, http.StatusServiceUnavailable, get(mux, "/readyz").Code)

	isReady.Store(true)
	assert.Equal(t, http.StatusOK, get(mux, "/readyz").Code)
}

func TestMetricsEndpoint(t *testing.T) {
	metrics.PanelCommands.WithLabelValues("070", "ok").Inc()

	recorder := get(newMux(&atomic.Bool{}), "/metrics")
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `it100_panel_commands_total{code="070",result="ok"}`)
}
