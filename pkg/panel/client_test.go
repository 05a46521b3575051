package panel

import (
	"errors"
	"sync"
	"testing"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/kaara/it100-websocket/pkg/it100"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type published struct {
	topic   string
	payload []byte
}

type fakeMqttClient struct {
	mu         sync.Mutex
	connected  bool
	publishErr error
	published  []published
	handlers   map[string]paho.MessageHandler
}

func newFakeMqttClient() *fakeMqttClient {
	return &fakeMqttClient{connected: true, handlers: map[string]paho.MessageHandler{}}
}

func (f *fakeMqttClient) Connect() error    { return nil }
func (f *fakeMqttClient) Disconnect() error { return nil }

func (f *fakeMqttClient) Publish(topic string, message interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.publishErr != nil {
		return f.publishErr
	}
	f.published = append(f.published, published{topic: f.GetFullTopic(topic), payload: message.([]byte)})
	return nil
}

func (f *fakeMqttClient) PublishAndRetain(topic string, message interface{}) error {
	return f.Publish(topic, message)
}

func (f *fakeMqttClient) Subscribe(topic string, messageHandler paho.MessageHandler) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[f.GetFullTopic(topic)] = messageHandler
	return nil
}

func (f *fakeMqttClient) GetFullTopic(topic string) string { return "it100/" + topic }
func (f *fakeMqttClient) ServerStatusTopic() string        { return "it100/server/status" }
func (f *fakeMqttClient) IsConnected() bool                { return f.connected }

// deliver simulates the broker routing a message to the wildcard handler.
func (f *fakeMqttClient) deliver(t *testing.T, topic string, payload string) {
	handler, ok := f.handlers["it100/event/+"]
	require.True(t, ok, "no handler registered for panel events")
	handler(nil, &fakeMessage{topic: topic, payload: []byte(payload)})
}

type fakeMessage struct {
	topic   string
	payload []byte
}

func (m *fakeMessage) Duplicate() bool   { return false }
func (m *fakeMessage) Qos() byte         { return 0 }
func (m *fakeMessage) Retained() bool    { return false }
func (m *fakeMessage) Topic() string     { return m.topic }
func (m *fakeMessage) MessageID() uint16 { return 0 }
func (m *fakeMessage) Payload() []byte   { return m.payload }
func (m *fakeMessage) Ack()              {}

func connectedClient(t *testing.T) (Client, *fakeMqttClient) {
	mqttClient := newFakeMqttClient()
	c := NewClient(mqttClient, NewClientOptions())
	require.NoError(t, c.Connect())
	return c, mqttClient
}

func TestSendPublishesCommand(t *testing.T) {
	c, mqttClient := connectedClient(t)

	require.NoError(t, c.Send(it100.KeyPress{Key: it100.Key5}))
	require.NoError(t, c.Send(it100.StatusRequest{}))

	require.Len(t, mqttClient.published, 2)
	assert.Equal(t, "it100/command", mqttClient.published[0].topic)
	assert.JSONEq(t, `{"code":"070","data":"5"}`, string(mqttClient.published[0].payload))
	assert.JSONEq(t, `{"code":"001","data":""}`, string(mqttClient.published[1].payload))
}

func TestSendWhenDisconnected(t *testing.T) {
	c, mqttClient := connectedClient(t)
	mqttClient.connected = false

	err := c.Send(it100.StatusRequest{})
	assert.ErrorIs(t, err, ErrPanelUnavailable)
	assert.Empty(t, mqttClient.published)
}

func TestSendPublishFailure(t *testing.T) {
	c, mqttClient := connectedClient(t)
	mqttClient.publishErr = errors.New("broker gone")

	err := c.Send(it100.KeyPress{Key: it100.KeyBreak})
	assert.EqualError(t, err, "error sending command 070: broker gone")
}

func TestEventsReachSubscribersInOrder(t *testing.T) {
	c, mqttClient := connectedClient(t)

	var first, second []it100.Event
	subFirst := c.Subscribe(func(event it100.Event) { first = append(first, event) })
	c.Subscribe(func(event it100.Event) { second = append(second, event) })

	mqttClient.deliver(t, "it100/event/zone_open", `{"zone":3}`)
	mqttClient.deliver(t, "it100/event/zone_restored", `{"zone":3}`)
	subFirst.Unsubscribe()
	subFirst.Unsubscribe()
	mqttClient.deliver(t, "it100/event/led_status", `{"led":1,"status":2}`)

	assert.Equal(t, []it100.Event{it100.ZoneOpen{Zone: 3}, it100.ZoneRestored{Zone: 3}}, first)
	assert.Equal(t, []it100.Event{
		it100.ZoneOpen{Zone: 3},
		it100.ZoneRestored{Zone: 3},
		it100.LEDStatus{LED: it100.LEDReady, Status: it100.LEDFlashing},
	}, second)
}

func TestMalformedEventIsDropped(t *testing.T) {
	c, mqttClient := connectedClient(t)

	var received []it100.Event
	c.Subscribe(func(event it100.Event) { received = append(received, event) })

	mqttClient.deliver(t, "it100/event/lcd_update", `not json`)
	mqttClient.deliver(t, "it100/event/zone_open", `{}`)

	assert.Empty(t, received)
}

func TestDisconnectDropsSubscriptions(t *testing.T) {
	c, mqttClient := connectedClient(t)

	var received []it100.Event
	sub := c.Subscribe(func(event it100.Event) { received = append(received, event) })
	require.NoError(t, c.Disconnect())
	mqttClient.deliver(t, "it100/event/zone_open", `{"zone":1}`)
	sub.Unsubscribe()

	assert.Empty(t, received)
}

func TestDecodeEvent(t *testing.T) {
	tests := []struct {
		kind     string
		payload  string
		expected it100.Event
	}{
		{KindLCDUpdate, `{"line":1,"column":2,"data":"HELLO"}`, it100.LCDUpdate{LineNumber: 1, ColumnNumber: 2, ASCIIData: []byte("HELLO")}},
		{KindLCDCursor, `{"line":0,"column":4,"type":2}`, it100.LCDCursor{LineNumber: 0, ColumnNumber: 4, CursorType: it100.CursorBlock}},
		{KindLEDStatus, `{"led":"7","status":"1"}`, it100.LEDStatus{LED: it100.LEDFire, Status: it100.LEDOn}},
		{KindZoneOpen, `{"zone":12}`, it100.ZoneOpen{Zone: 12}},
		{KindZoneRestored, `{"zone":12}`, it100.ZoneRestored{Zone: 12}},
		{"partition_ready", `{"partition":1}`, it100.UnknownEvent{Kind: "partition_ready", Payload: `{"partition":1}`}},
	}

	for _, test := range tests {
		event, err := decodeEvent(test.kind, []byte(test.payload))
		require.NoError(t, err, test.kind)
		assert.Equal(t, test.expected, event, test.kind)
	}
}

func TestDecodeEventMissingField(t *testing.T) {
	_, err := decodeEvent(KindLCDUpdate, []byte(`{"line":1,"column":2}`))
	assert.Error(t, err)

	_, err = decodeEvent(KindLEDStatus, []byte(`[1,2]`))
	assert.Error(t, err)
}

func TestDecodeEventLCDTextIsLatin1(t *testing.T) {
	event, err := decodeEvent(KindLCDUpdate, []byte(`{"line":0,"column":0,"data":"Zone ä"}`))
	require.NoError(t, err)
	assert.Equal(t, []byte{'Z', 'o', 'n', 'e', ' ', 0xE4}, event.(it100.LCDUpdate).ASCIIData)

	_, err = decodeEvent(KindLCDUpdate, []byte(`{"line":0,"column":0,"data":"€"}`))
	assert.Error(t, err)
}
