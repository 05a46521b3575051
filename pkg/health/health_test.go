package health

import (
	"net/http"
	"net/http/httptest"
	"testing"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/kaara/it100-websocket/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMqttClient struct {
	connected bool
}

func (f *fakeMqttClient) Connect() error                              { return nil }
func (f *fakeMqttClient) Disconnect() error                           { return nil }
func (f *fakeMqttClient) Publish(topic string, message any) error     { return nil }
func (f *fakeMqttClient) PublishAndRetain(string, any) error          { return nil }
func (f *fakeMqttClient) Subscribe(string, paho.MessageHandler) error { return nil }
func (f *fakeMqttClient) GetFullTopic(topic string) string            { return topic }
func (f *fakeMqttClient) ServerStatusTopic() string                   { return "server/status" }
func (f *fakeMqttClient) IsConnected() bool                           { return f.connected }

func TestHealthFollowsMqttConnection(t *testing.T) {
	mqttClient := &fakeMqttClient{connected: true}
	h, err := NewHealth(config.HealthCheckConfig{Enabled: true, Port: 0}, mqttClient)
	require.NoError(t, err)

	for _, path := range []string{"/health", "/health/ready", "/health/live"} {
		recorder := httptest.NewRecorder()
		h.Router().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, recorder.Code, path)
	}

	mqttClient.connected = false
	recorder := httptest.NewRecorder()
	h.Router().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "MQTT client is not connected")
}

func TestStopWithoutStart(t *testing.T) {
	h, err := NewHealth(config.HealthCheckConfig{Enabled: true, Port: 0}, &fakeMqttClient{})
	require.NoError(t, err)
	assert.NoError(t, h.Stop())
}
