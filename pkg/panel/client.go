package panel

import (
	"encoding/json"
	"fmt"
	"path"
	"sync"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"github.com/kaara/it100-websocket/pkg/it100"
	"github.com/kaara/it100-websocket/pkg/metrics"
	"github.com/kaara/it100-websocket/pkg/mqtt"
	"github.com/kaara/it100-websocket/pkg/utils"
	"github.com/rs/zerolog/log"
)

// Client is a Panel reached through the MQTT topics of the collaborator that
// owns the serial link to the IT-100.
type Client interface {
	Panel

	// Connect subscribes to the event topics. The MQTT client must be
	// connected already.
	Connect() error
	// Disconnect drops every subscription.
	Disconnect() error
}

type commandPayload struct {
	Code string `json:"code"`
	Data string `json:"data"`
}

// client implements the Client interface.
// Clients are safe for concurrent use by multiple goroutines.
type client struct {
	mqttClient mqtt.Client
	options    ClientOptions

	callbacks     map[string]EventCallback
	callbackMutex sync.RWMutex
}

func NewClient(mqttClient mqtt.Client, options *ClientOptions) Client {
	return &client{
		mqttClient: mqttClient,
		options:    *options,
		callbacks:  map[string]EventCallback{},
	}
}

func (c *client) Connect() error {
	topic := path.Join(c.options.EventTopic, "+")
	if err := c.mqttClient.Subscribe(topic, c.onMessage); err != nil {
		return fmt.Errorf("error subscribing to panel events: %w", err)
	}
	log.Info().Str("topic", c.mqttClient.GetFullTopic(topic)).Msg("Listening to panel events.")
	return nil
}

func (c *client) Disconnect() error {
	c.callbackMutex.Lock()
	defer c.callbackMutex.Unlock()
	c.callbacks = map[string]EventCallback{}
	return nil
}

func (c *client) Send(command it100.Command) error {
	if !c.mqttClient.IsConnected() {
		return ErrPanelUnavailable
	}
	payload, err := json.Marshal(commandPayload{Code: command.Code(), Data: command.Data()})
	if err != nil {
		return fmt.Errorf("error encoding command %s: %w", command.Code(), err)
	}
	log.Debug().Str("code", command.Code()).Str("data", command.Data()).Msg("Sending command to panel.")
	if err := c.mqttClient.Publish(c.options.CommandTopic, payload); err != nil {
		return fmt.Errorf("error sending command %s: %w", command.Code(), err)
	}
	return nil
}

func (c *client) Subscribe(callback EventCallback) Subscription {
	id := uuid.New().String()

	c.callbackMutex.Lock()
	c.callbacks[id] = callback
	c.callbackMutex.Unlock()

	log.Debug().Str("subscription", id).Msg("Subscribed to panel events.")
	return &subscription{unsubscribe: func() {
		c.callbackMutex.Lock()
		delete(c.callbacks, id)
		c.callbackMutex.Unlock()
		log.Debug().Str("subscription", id).Msg("Unsubscribed from panel events.")
	}}
}

// onMessage is called by the MQTT client, one message at a time and in
// publication order.
func (c *client) onMessage(_ paho.Client, message paho.Message) {
	kind := path.Base(message.Topic())
	event, err := decodeEvent(kind, message.Payload())
	if err != nil {
		log.Warn().Err(err).Str("topic", message.Topic()).Msg("Dropping malformed panel event.")
		return
	}
	if _, unknown := event.(it100.UnknownEvent); unknown {
		metrics.PanelEvents.WithLabelValues("unknown").Inc()
	} else {
		metrics.PanelEvents.WithLabelValues(kind).Inc()
	}
	log.Trace().Str("kind", kind).Str("event", utils.PrettyPrint(event)).Msg("Panel event received.")
	c.dispatch(event)
}

// dispatch hands the event to every callback. The read lock is held for the
// whole loop so no callback runs once its Unsubscribe has returned.
func (c *client) dispatch(event it100.Event) {
	c.callbackMutex.RLock()
	defer c.callbackMutex.RUnlock()
	for _, callback := range c.callbacks {
		callback(event)
	}
}

type subscription struct {
	once        sync.Once
	unsubscribe func()
}

func (s *subscription) Unsubscribe() {
	s.once.Do(s.unsubscribe)
}
