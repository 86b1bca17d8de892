package server

import (
	"github.com/rs/zerolog/log"

	"github.com/Tyrowin/roomchat/internal/protocol"
	"github.com/Tyrowin/roomchat/internal/session"
)

// broadcast serializes env once and queues it for every open session.
// Closed peers and peers with a full send buffer are skipped. It returns the
// number of connections the frame was queued for.
func (h *Hub) broadcast(env protocol.Envelope) int {
	payload, err := env.Marshal()
	if err != nil {
		log.Error().Err(err).Msg("Dropping broadcast")
		return 0
	}

	h.messages.Add(1)
	broadcastsTotal.WithLabelValues(env.Type).Inc()

	delivered := 0
	for _, entry := range h.registry.ListWithConnections() {
		if deliver(entry.Conn, payload) {
			delivered++
			continue
		}
		log.Debug().Str("uid", entry.Session.ID).Str("type", env.Type).Msg("Skipped broadcast delivery")
	}

	log.Debug().Str("type", env.Type).Int("recipients", delivered).Msg("Broadcast")
	return delivered
}

func (h *Hub) broadcastUserList() {
	h.broadcast(protocol.NewUserList(h.registry.PublicList()))
}

// sendTo queues env for a single connection, bypassing the room fan-out.
func (h *Hub) sendTo(conn session.Conn, env protocol.Envelope) bool {
	payload, err := env.Marshal()
	if err != nil {
		log.Error().Err(err).Msg("Dropping direct send")
		return false
	}
	return deliver(conn, payload)
}

func deliver(conn session.Conn, payload []byte) bool {
	if conn == nil || !conn.IsOpen() || !conn.Send(payload) {
		deliveriesSkipped.Inc()
		return false
	}
	return true
}
