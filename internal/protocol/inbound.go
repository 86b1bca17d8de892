package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Inbound frame kinds sent by clients.
const (
	TypeLogin         = "login"
	TypeClearMessages = "system-clear-messages"
	TypeText          = "text"
	TypeImage         = "image"
	TypeUserText      = "user-text"
)

// ErrMalformedFrame is returned when an inbound frame is not a JSON object
// matching the Inbound shape.
var ErrMalformedFrame = errors.New("malformed frame")

// ErrMissingType is returned for a well-formed object with no type.
var ErrMissingType = errors.New("frame has no type")

// Inbound is the union of every client → server envelope. Only the fields
// relevant to Type are populated.
type Inbound struct {
	Type    string `json:"type"`
	Name    string `json:"name,omitempty"`
	Text    string `json:"text,omitempty"`
	UID     string `json:"uid,omitempty"`
	Content string `json:"content,omitempty"`
}

// DecodeInbound parses a raw frame. Both returned errors mean the frame
// should be dropped; neither is reported to the client.
func DecodeInbound(raw []byte) (Inbound, error) {
	var in Inbound
	if err := json.Unmarshal(raw, &in); err != nil {
		return Inbound{}, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
	}
	if in.Type == "" {
		return Inbound{}, ErrMissingType
	}
	return in, nil
}
