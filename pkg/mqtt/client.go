package mqtt

import (
	"fmt"
	"path"
	"sync"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const QOS byte = 0

const (
	Online  string = "online"
	Offline string = "offline"
)

// Topics.
const (
	Command      string = "command"
	Event        string = "event"
	serverStatus string = "server/status"
)

type SubscriptionHandler struct {
	Topic          string
	MessageHandler mqtt.MessageHandler
}

type Client interface {
	// Connect to the MQTT server.
	Connect() error
	// Disconnect from the MQTT server.
	Disconnect() error

	// Publishes a message under the topic prefix. Never retained.
	Publish(topic string, message interface{}) error
	// Same as publish but with the retain flag set.
	PublishAndRetain(topic string, message interface{}) error
	// Subscribe to a topic and calls the given handler when a message is
	// received.
	Subscribe(topic string, messageHandler mqtt.MessageHandler) error

	// Return the full topic for a given subpath.
	GetFullTopic(topic string) string
	// Returns the topic used to publish the server status.
	ServerStatusTopic() string
	// IsConnected reports whether the connection to the broker is up.
	IsConnected() bool
}

type client struct {
	mqttClient    mqtt.Client
	options       ClientOptions
	subscriptions *subscriptions
}

type subscriptions struct {
	mu              sync.Mutex
	shouldReconnect bool
	list            []SubscriptionHandler
}

func (s *subscriptions) add(handler SubscriptionHandler) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.list = append(s.list, handler)
	return len(s.list)
}

func (s *subscriptions) takeForReconnect() []SubscriptionHandler {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.shouldReconnect {
		return nil
	}
	s.shouldReconnect = false
	return append([]SubscriptionHandler(nil), s.list...)
}

func (s *subscriptions) markReconnect() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shouldReconnect = true
}

func NewClient(options *ClientOptions) Client {
	subs := &subscriptions{
		list: []SubscriptionHandler{},
	}
	statusTopic := path.Join(options.TopicPrefix, serverStatus)
	mqttOptions := mqtt.NewClientOptions().
		AddBroker(options.MqttUrl).
		SetClientID("it100-websocket-" + uuid.New().String()).
		// Panel events must reach every session in the order they were
		// published.
		SetOrderMatters(true).
		SetUsername(options.Username).
		SetPassword(options.Password).
		SetAutoReconnect(true).
		SetWill(statusTopic, Offline, options.QoS, true).
		SetReconnectingHandler(func(client mqtt.Client, opts *mqtt.ClientOptions) {
			log.Info().Str("url", options.MqttUrl).Msg("Reconnecting to MQTT server.")
			subs.markReconnect()
		}).
		SetConnectionLostHandler(func(client mqtt.Client, err error) {
			log.Warn().Err(err).Str("url", options.MqttUrl).Msg("Connection to MQTT server lost.")
		}).
		SetOnConnectHandler(func(client mqtt.Client) {
			log.Info().Str("url", options.MqttUrl).Msg("Connected to MQTT server.")

			list := subs.takeForReconnect()
			if len(list) == 0 {
				return
			}
			log.Info().Int("count", len(list)).Msg("Re-subscribing to topics")
			for _, sub := range list {
				log.Debug().Str("topic", sub.Topic).Msg("Re-subscribing to topic")
				t := client.Subscribe(
					sub.Topic,
					options.QoS,
					sub.MessageHandler)
				<-t.Done()
				if t.Error() != nil {
					log.Error().Err(t.Error()).Str("topic", sub.Topic).Msg("Error re-subscribing to topic")
				}
			}
		})

	return &client{
		mqttClient:    mqtt.NewClient(mqttOptions),
		options:       *options,
		subscriptions: subs,
	}
}

func (c *client) Connect() error {
	t := c.mqttClient.Connect()
	<-t.Done()
	if t.Error() != nil {
		return fmt.Errorf("error connecting to MQTT broker: %w", t.Error())
	}

	if err := c.publishServerStatus(Online); err != nil {
		return err
	}
	return nil
}

func (c *client) Disconnect() error {
	log.Info().Msg("Publishing Offline status to MQTT server.")
	if err := c.publishServerStatus(Offline); err != nil {
		return err
	}
	c.mqttClient.Disconnect(uint(c.options.DisconnectTimeout.Milliseconds()))
	log.Info().Msg("Disconnected from MQTT server.")
	return nil
}

func (c *client) publish(topic string, message interface{}, retain bool) error {
	t := c.mqttClient.Publish(
		c.GetFullTopic(topic),
		c.options.QoS,
		retain,
		message)
	<-t.Done()
	return t.Error()
}

func (c *client) Publish(topic string, message interface{}) error {
	return c.publish(topic, message, false)
}

func (c *client) PublishAndRetain(topic string, message interface{}) error {
	return c.publish(topic, message, true)
}

func (c *client) Subscribe(topic string, messageHandler mqtt.MessageHandler) error {
	topic = c.GetFullTopic(topic)
	count := c.subscriptions.add(SubscriptionHandler{
		Topic:          topic,
		MessageHandler: messageHandler,
	})
	log.Debug().Int("count", count).Str("topic", topic).Msg("Subscribing to topic")
	t := c.mqttClient.Subscribe(
		topic,
		c.options.QoS,
		messageHandler)
	<-t.Done()
	return t.Error()
}

// Publish the current bridge status into the MQTT topic.
func (c *client) publishServerStatus(message string) error {
	log.Info().Str("status", message).Str("topic", serverStatus).Msg("Updating server status topic")
	return c.PublishAndRetain(serverStatus, message)
}

func (c *client) ServerStatusTopic() string {
	return c.GetFullTopic(serverStatus)
}

func (c *client) GetFullTopic(topic string) string {
	return path.Join(c.options.TopicPrefix, topic)
}

func (c *client) IsConnected() bool {
	return c.mqttClient.IsConnectionOpen()
}
