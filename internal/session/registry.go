// Package session tracks the authenticated chat sessions bound to live
// connections.
package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Tyrowin/roomchat/internal/protocol"
)

// ErrDuplicateSession is returned by Add when the id is already registered.
var ErrDuplicateSession = errors.New("duplicate session id")

// Conn is the outbound side of a live connection as seen by the registry.
type Conn interface {
	// Send queues payload for delivery and reports whether it was accepted.
	Send(payload []byte) bool
	// IsOpen reports whether the transport can still accept writes.
	IsOpen() bool
}

// Session is the identity bound to one connection after login.
type Session struct {
	ID          string
	Name        string
	RemoteAddr  string
	ConnectedAt time.Time
	Conn        Conn
}

// Entry pairs a session with its connection handle for fan-out.
type Entry struct {
	Session *Session
	Conn    Conn
}

// Registry maps session ids to sessions. Listing preserves insertion order.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	order    []string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

// GenerateID returns a fresh random session id.
func (r *Registry) GenerateID() string {
	return uuid.NewString()
}

// Add registers s under s.ID.
func (r *Registry) Add(s *Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sessions[s.ID]; exists {
		return fmt.Errorf("add session %q: %w", s.ID, ErrDuplicateSession)
	}
	r.sessions[s.ID] = s
	r.order = append(r.order, s.ID)
	return nil
}

// Remove deletes the session with id and reports whether it was present.
// Removing an unknown id is a no-op.
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sessions[id]; !exists {
		return false
	}
	delete(r.sessions, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// Lookup returns the session registered under id.
func (r *Registry) Lookup(id string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[id]
	return s, ok
}

// Len reports the number of registered sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// List returns a snapshot of all sessions in registration order.
func (r *Registry) List() []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Session, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.sessions[id])
	}
	return out
}

// ListWithConnections returns a snapshot of sessions paired with their
// connections in registration order.
func (r *Registry) ListWithConnections() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Entry, 0, len(r.order))
	for _, id := range r.order {
		s := r.sessions[id]
		out = append(out, Entry{Session: s, Conn: s.Conn})
	}
	return out
}

// PublicList returns the user-list projection of every session. Connection
// handles and remote addresses are never included.
func (r *Registry) PublicList() []protocol.UserView {
	sessions := r.List()
	out := make([]protocol.UserView, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, protocol.UserView{
			UID:  s.ID,
			Name: s.Name,
			Time: s.ConnectedAt.UnixMilli(),
		})
	}
	return out
}
