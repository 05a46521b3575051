package panel

import (
	"errors"

	"github.com/kaara/it100-websocket/pkg/it100"
)

// ErrPanelUnavailable is returned by Send when the panel cannot be reached.
var ErrPanelUnavailable = errors.New("panel unavailable")

// EventCallback receives the events of the panel in the order they were
// emitted. It must not block.
type EventCallback func(event it100.Event)

// Subscription links a callback to the event stream of the panel. Unsubscribe
// can be called any number of times; only the first call has an effect.
type Subscription interface {
	Unsubscribe()
}

// Panel is the capability the bridge needs from the alarm panel.
type Panel interface {
	// Send queues a command for the panel.
	Send(command it100.Command) error
	// Subscribe registers a callback for every event emitted from now on.
	Subscribe(callback EventCallback) Subscription
}
