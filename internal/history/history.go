// Package history keeps a bounded, in-memory ring of recent room messages
// that is replayed to clients when they log in.
package history

import (
	"sync"

	"github.com/Tyrowin/roomchat/internal/protocol"
)

// DefaultCapacity is the number of messages retained when no capacity is configured.
const DefaultCapacity = 500

// Log is a fixed-capacity circular buffer of chat messages. Once full, each
// append overwrites the oldest entry. It is safe for concurrent use.
type Log struct {
	mu      sync.Mutex
	slots   []protocol.ChatMessage
	next    int
	wrapped bool
}

// New returns an empty log holding at most capacity messages. A non-positive
// capacity falls back to DefaultCapacity.
func New(capacity int) *Log {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Log{slots: make([]protocol.ChatMessage, capacity)}
}

// Append stores msg at the write cursor and advances it.
func (l *Log) Append(msg protocol.ChatMessage) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.slots[l.next] = msg
	l.next++
	if l.next == len(l.slots) {
		l.next = 0
		l.wrapped = true
	}
}

// Replay returns a copy of the retained messages, oldest first.
func (l *Log) Replay() []protocol.ChatMessage {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.wrapped {
		out := make([]protocol.ChatMessage, l.next)
		copy(out, l.slots[:l.next])
		return out
	}

	out := make([]protocol.ChatMessage, 0, len(l.slots))
	out = append(out, l.slots[l.next:]...)
	out = append(out, l.slots[:l.next]...)
	return out
}

// Clear drops every retained message.
func (l *Log) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()

	clear(l.slots)
	l.next = 0
	l.wrapped = false
}

// Len reports how many messages are currently retained.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.wrapped {
		return len(l.slots)
	}
	return l.next
}

// Cap reports the maximum number of retained messages.
func (l *Log) Cap() int {
	return len(l.slots)
}
