package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "it100"

// Reasons for rejecting an inbound frame.
const (
	ReasonDecode     string = "decode"
	ReasonUnknownKey string = "unknown_key"
	ReasonPanel      string = "panel"
)

var (
	Sessions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "websocket",
		Name:      "sessions",
		Help:      "Number of open WebSocket sessions.",
	})

	MessagesSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "websocket",
		Name:      "messages_sent_total",
		Help:      "Messages queued to WebSocket clients, by kind.",
	}, []string{"kind"})

	InboundErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "websocket",
		Name:      "inbound_errors_total",
		Help:      "Inbound client frames that could not be forwarded to the panel.",
	}, []string{"reason"})

	PanelCommands = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "panel",
		Name:      "commands_total",
		Help:      "Commands sent to the panel, by code and result.",
	}, []string{"code", "result"})

	PanelEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "panel",
		Name:      "events_total",
		Help:      "Events received from the panel, by kind.",
	}, []string{"kind"})
)
