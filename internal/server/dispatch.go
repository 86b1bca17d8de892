package server

import (
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Tyrowin/roomchat/internal/protocol"
	"github.com/Tyrowin/roomchat/internal/session"
)

// dispatch applies one inbound envelope to the connection's state machine.
// Anything a state does not accept is ignored without a reply.
func (h *Hub) dispatch(client *Client, in protocol.Inbound) {
	if _, ok := h.clients[client]; !ok {
		return
	}

	switch client.state {
	case stateAwaitingLogin:
		if in.Type != protocol.TypeLogin {
			log.Debug().Str("addr", client.addr).Str("type", in.Type).Msg("Ignoring frame before login")
			return
		}
		h.login(client, in.Name)

	case stateAuthenticated:
		switch in.Type {
		case protocol.TypeClearMessages:
			h.clearMessages(client)
		case protocol.TypeText:
			h.postRoomMessage(client, protocol.KindText, in.Text)
		case protocol.TypeImage:
			h.postRoomMessage(client, protocol.KindImageSet, in.Text)
		case protocol.TypeUserText:
			h.directMessage(client, in.UID, in.Content)
		default:
			log.Debug().Str("uid", client.session.ID).Str("type", in.Type).Msg("Ignoring unsupported frame")
		}
	}
}

func (h *Hub) login(client *Client, requested string) {
	name := strings.TrimSpace(requested)
	if name == "" {
		name = h.cfg.DefaultName
	}

	s := &session.Session{
		ID:          h.newID(),
		Name:        name,
		RemoteAddr:  client.addr,
		ConnectedAt: h.now(),
		Conn:        client,
	}
	if err := h.registry.Add(s); err != nil {
		log.Error().Err(err).Str("addr", client.addr).Msg("Session id collision; closing connection")
		client.closeTransport()
		return
	}

	client.stopLoginTimer()
	client.session = s
	client.state = stateAuthenticated
	sessionsGauge.Set(float64(h.registry.Len()))

	h.sendTo(client, protocol.NewLoginSuccess(s.ID, h.history.Replay()))
	h.broadcast(protocol.NewSystemLogin(name))
	h.broadcastUserList()

	log.Info().Str("addr", client.addr).Str("uid", s.ID).Str("name", name).Msg("Session started")
}

func (h *Hub) clearMessages(client *Client) {
	h.history.Clear()
	h.broadcast(protocol.NewClearMessages())
	log.Info().Str("uid", client.session.ID).Str("name", client.session.Name).Msg("History cleared")
}

// postRoomMessage broadcasts a new room message and then records it.
func (h *Hub) postRoomMessage(client *Client, kind protocol.Kind, body string) {
	msg := protocol.ChatMessage{
		ID:         uuid.NewString(),
		Kind:       kind,
		AuthorID:   client.session.ID,
		AuthorName: client.session.Name,
		Body:       body,
		SentAt:     h.now(),
	}
	h.broadcast(protocol.NewRoomMessage(msg))
	h.history.Append(msg)
}

// directMessage delivers content to the target session, if it exists, and
// always echoes it back to the sender.
func (h *Hub) directMessage(client *Client, targetID, content string) {
	sender := client.session
	at := protocol.FormatTime(h.now())

	if target, ok := h.registry.Lookup(targetID); ok {
		h.sendTo(target.Conn, protocol.NewDirectMessage(sender.Name, sender.ID, content, at))
	} else {
		log.Debug().Str("uid", sender.ID).Str("target", targetID).Msg("Direct message target not found")
	}
	h.sendTo(client, protocol.NewDirectEcho(sender.Name, sender.ID, content, at))
}
