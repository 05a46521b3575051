package bridge

import (
	"errors"
	"fmt"

	"github.com/kaara/it100-websocket/pkg/it100"
	"github.com/kaara/it100-websocket/pkg/messages"
	"github.com/kaara/it100-websocket/pkg/metrics"
	"github.com/kaara/it100-websocket/pkg/panel"
	"github.com/rs/zerolog/log"
)

// Conn is one client connection as seen by the bridge.
type Conn interface {
	// ID is unique among the open connections.
	ID() string
	// Send queues a text frame. It must not block and is called from the
	// panel event dispatch.
	Send(data []byte) error
}

// Handler connects the clients to the panel: button presses become key
// presses and panel events are forwarded to every open connection.
type Handler struct {
	panel    panel.Panel
	registry *Registry
}

func NewHandler(p panel.Panel) *Handler {
	return &Handler{
		panel:    p,
		registry: NewRegistry(),
	}
}

// OnOpen subscribes the connection to the panel events and asks the panel for
// a full status report, which reaches the connection through the subscription.
func (h *Handler) OnOpen(conn Conn) error {
	log.Info().Str("session", conn.ID()).Msg("Connection established.")

	subscription := h.panel.Subscribe(func(event it100.Event) {
		h.forward(conn, event)
	})
	if previous, replaced := h.registry.Put(conn.ID(), subscription); replaced {
		log.Warn().Str("session", conn.ID()).Msg("Connection was already subscribed, cancelling previous subscription.")
		previous.Unsubscribe()
	}

	if err := h.send(it100.StatusRequest{}); err != nil {
		return fmt.Errorf("error requesting panel status: %w", err)
	}
	return nil
}

// OnMessage handles a text frame sent by the client. Nothing is sent to the
// panel if the frame is not a valid button.
func (h *Handler) OnMessage(conn Conn, payload []byte) error {
	button, err := messages.DecodeButton(payload)
	if err != nil {
		metrics.InboundErrors.WithLabelValues(metrics.ReasonDecode).Inc()
		return err
	}
	log.Info().Str("session", conn.ID()).Str("button", string(button.Button)).Msg("Button pressed.")

	key, err := it100.KeyFromASCII(button.Button)
	if err != nil {
		metrics.InboundErrors.WithLabelValues(metrics.ReasonUnknownKey).Inc()
		return err
	}

	// The release is sent even if the press failed so the keypad is never
	// left with a key held down.
	pressErr := h.send(it100.KeyPress{Key: key})
	releaseErr := h.send(it100.KeyPress{Key: it100.KeyBreak})
	if err := errors.Join(pressErr, releaseErr); err != nil {
		metrics.InboundErrors.WithLabelValues(metrics.ReasonPanel).Inc()
		return err
	}
	return nil
}

// OnClose cancels the subscription of the connection. Closing a connection
// that was never subscribed, or closing it twice, does nothing.
func (h *Handler) OnClose(conn Conn) {
	log.Info().Str("session", conn.ID()).Msg("Connection closed.")

	subscription, ok := h.registry.Remove(conn.ID())
	if !ok {
		log.Debug().Str("session", conn.ID()).Msg("No subscription to cancel.")
		return
	}
	subscription.Unsubscribe()
}

// Sessions returns the number of connections subscribed to the panel.
func (h *Handler) Sessions() int {
	return h.registry.Len()
}

func (h *Handler) forward(conn Conn, event it100.Event) {
	message, ok := Translate(event)
	if !ok {
		log.Debug().Str("session", conn.ID()).Str("code", event.Code()).Msg("Update from panel not forwarded.")
		return
	}

	data, err := messages.Encode(message)
	if err != nil {
		log.Error().Err(err).Str("session", conn.ID()).Msg("Unable to encode message.")
		return
	}
	if err := conn.Send(data); err != nil {
		log.Debug().Err(err).Str("session", conn.ID()).Str("kind", message.Kind()).Msg("Message not sent.")
		return
	}
	metrics.MessagesSent.WithLabelValues(message.Kind()).Inc()
	log.Trace().Str("session", conn.ID()).RawJSON("message", data).Msg("Message sent.")
}

func (h *Handler) send(command it100.Command) error {
	if err := h.panel.Send(command); err != nil {
		metrics.PanelCommands.WithLabelValues(command.Code(), "error").Inc()
		return err
	}
	metrics.PanelCommands.WithLabelValues(command.Code(), "ok").Inc()
	return nil
}
