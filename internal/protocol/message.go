package protocol

import "time"

// TimeLayout is the wall-clock format used for every "time" field on the wire.
const TimeLayout = "2006-01-02 15:04:05"

// Kind distinguishes plain text room messages from image sets.
type Kind string

const (
	KindText     Kind = "text"
	KindImageSet Kind = "image-set"
)

// ChatMessage is a single room message as retained by the history log.
// For KindImageSet, Body holds the JSON-encoded array of image references
// exactly as the sender supplied it.
type ChatMessage struct {
	ID         string
	Kind       Kind
	AuthorID   string
	AuthorName string
	Body       string
	SentAt     time.Time
}

// RoomMessage is the "data" object of a room-message envelope and the
// element type of the login-success history array.
type RoomMessage struct {
	Name        string `json:"name"`
	UID         string `json:"uid"`
	Content     string `json:"content"`
	ContentType string `json:"contentType,omitempty"`
	Time        string `json:"time"`
	MID         string `json:"mid"`
}

// RoomMessage renders the wire form of m.
func (m ChatMessage) RoomMessage() RoomMessage {
	rm := RoomMessage{
		Name:    m.AuthorName,
		UID:     m.AuthorID,
		Content: m.Body,
		Time:    FormatTime(m.SentAt),
		MID:     m.ID,
	}
	if m.Kind == KindImageSet {
		rm.ContentType = "image"
	}
	return rm
}

// FormatTime formats t with TimeLayout.
func FormatTime(t time.Time) string {
	return t.Format(TimeLayout)
}
