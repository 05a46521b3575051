package panel

import (
	"testing"

	"github.com/kaara/it100-websocket/pkg/mqtt"
	"github.com/stretchr/testify/assert"
)

func TestClientOptionsDefaults(t *testing.T) {
	options := NewClientOptions()
	assert.Equal(t, mqtt.Event, options.EventTopic)
	assert.Equal(t, mqtt.Command, options.CommandTopic)

	options.SetEventTopic("dsc/event").SetCommandTopic("dsc/command")
	assert.Equal(t, "dsc/event", options.EventTopic)
	assert.Equal(t, "dsc/command", options.CommandTopic)
}
