package protocol

import (
	"encoding/json"
	"fmt"
)

// Outbound envelope kinds sent by the server.
const (
	TypeLoginSuccess = "login-success"
	TypeSystemLogin  = "system-login"
	TypeSystemLogout = "system-logout"
	TypeUserList     = "system-user-list"
	TypeRoomMessage  = "room-message"
	TypeUserMessage  = "user-message"
)

// Envelope is a server → client frame.
type Envelope struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// Marshal serializes the envelope into a single text frame.
func (e Envelope) Marshal() ([]byte, error) {
	payload, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal %s envelope: %w", e.Type, err)
	}
	return payload, nil
}

// LoginSuccess is the payload returned to a client after it logs in.
type LoginSuccess struct {
	UID     string        `json:"uid"`
	History []RoomMessage `json:"history"`
}

// UserView is the public projection of a session used in user lists.
type UserView struct {
	UID  string `json:"uid"`
	Name string `json:"name"`
	Time int64  `json:"time"`
}

// DirectMessage is the payload of a user-message envelope. The recipient's
// copy names the sender in From; the sender's echo uses Name.
type DirectMessage struct {
	Name    string `json:"name,omitempty"`
	From    string `json:"from,omitempty"`
	UID     string `json:"uid"`
	Content string `json:"content"`
	Time    string `json:"time"`
}

// NewLoginSuccess builds the login-success envelope for uid with the given
// history, oldest first.
func NewLoginSuccess(uid string, history []ChatMessage) Envelope {
	items := make([]RoomMessage, 0, len(history))
	for _, msg := range history {
		items = append(items, msg.RoomMessage())
	}
	return Envelope{Type: TypeLoginSuccess, Data: LoginSuccess{UID: uid, History: items}}
}

// NewSystemLogin announces that name joined the room.
func NewSystemLogin(name string) Envelope {
	return Envelope{Type: TypeSystemLogin, Data: fmt.Sprintf("--> %s <-- joined the chat!", name)}
}

// NewSystemLogout announces that name left the room.
func NewSystemLogout(name string) Envelope {
	return Envelope{Type: TypeSystemLogout, Data: fmt.Sprintf("--> %s <-- left the chat.", name)}
}

// NewUserList carries the current public user list.
func NewUserList(users []UserView) Envelope {
	if users == nil {
		users = []UserView{}
	}
	return Envelope{Type: TypeUserList, Data: users}
}

// NewClearMessages tells clients to drop their rendered history.
func NewClearMessages() Envelope {
	return Envelope{Type: TypeClearMessages}
}

// NewRoomMessage wraps msg for broadcast.
func NewRoomMessage(msg ChatMessage) Envelope {
	return Envelope{Type: TypeRoomMessage, Data: msg.RoomMessage()}
}

// NewDirectMessage is the copy delivered to the recipient of a direct message.
func NewDirectMessage(fromName, fromUID, content, at string) Envelope {
	return Envelope{Type: TypeUserMessage, Data: DirectMessage{From: fromName, UID: fromUID, Content: content, Time: at}}
}

// NewDirectEcho is the copy echoed back to the sender of a direct message.
func NewDirectEcho(name, uid, content, at string) Envelope {
	return Envelope{Type: TypeUserMessage, Data: DirectMessage{Name: name, UID: uid, Content: content, Time: at}}
}
