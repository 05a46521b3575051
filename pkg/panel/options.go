package panel

import "github.com/kaara/it100-websocket/pkg/mqtt"

// ClientOptions contains configurable options for the panel client.
type ClientOptions struct {
	EventTopic   string
	CommandTopic string
}

// NewClientOptions will create a new ClientOptions type with some default
// values. Topics are relative to the MQTT topic prefix.
//
//	EventTopic: event
//	CommandTopic: command
func NewClientOptions() *ClientOptions {
	return &ClientOptions{
		EventTopic:   mqtt.Event,
		CommandTopic: mqtt.Command,
	}
}

// SetEventTopic will set the topic under which the collaborator publishes one
// sub topic per event kind.
func (o *ClientOptions) SetEventTopic(topic string) *ClientOptions {
	o.EventTopic = topic
	return o
}

// SetCommandTopic will set the topic the commands are published to.
func (o *ClientOptions) SetCommandTopic(topic string) *ClientOptions {
	o.CommandTopic = topic
	return o
}
