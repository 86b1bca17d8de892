package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/Tyrowin/roomchat/internal/protocol"
)

var (
	connectionsGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "roomchat",
		Name:      "connections",
		Help:      "Number of open WebSocket connections, logged in or not.",
	})
	sessionsGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "roomchat",
		Name:      "sessions",
		Help:      "Number of logged-in sessions.",
	})
	framesReceived = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "roomchat",
		Name:      "frames_received_total",
		Help:      "Inbound frames accepted for dispatch, by envelope type.",
	}, []string{"type"})
	framesDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "roomchat",
		Name:      "frames_dropped_total",
		Help:      "Inbound frames dropped before dispatch, by reason.",
	}, []string{"reason"})
	broadcastsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "roomchat",
		Name:      "broadcasts_total",
		Help:      "Envelopes fanned out to the room, by envelope type.",
	}, []string{"type"})
	deliveriesSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "roomchat",
		Name:      "deliveries_skipped_total",
		Help:      "Outbound frames not queued because the peer was closed or its send buffer was full.",
	})
	loginTimeouts = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "roomchat",
		Name:      "login_timeouts_total",
		Help:      "Connections closed for not logging in within the login timeout.",
	})
)

// frameLabel bounds the cardinality of the frames_received type label.
func frameLabel(kind string) string {
	switch kind {
	case protocol.TypeLogin, protocol.TypeClearMessages, protocol.TypeText,
		protocol.TypeImage, protocol.TypeUserText:
		return kind
	default:
		return "unknown"
	}
}
