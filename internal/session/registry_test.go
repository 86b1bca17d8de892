package session

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubConn struct {
	open bool
}

func (c *stubConn) Send([]byte) bool { return c.open }
func (c *stubConn) IsOpen() bool     { return c.open }

func newSession(r *Registry, name string) *Session {
	return &Session{
		ID:          r.GenerateID(),
		Name:        name,
		RemoteAddr:  "127.0.0.1:1234",
		ConnectedAt: time.UnixMilli(1700000000000),
		Conn:        &stubConn{open: true},
	}
}

// TestGenerateIDUnique verifies ids are non-empty and do not repeat.
func TestGenerateIDUnique(t *testing.T) {
	r := NewRegistry()
	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		id := r.GenerateID()
		require.NotEmpty(t, id)
		_, dup := seen[id]
		require.False(t, dup, "id %s repeated", id)
		seen[id] = struct{}{}
	}
}

// TestAddLookupRemove covers the basic registry lifecycle.
func TestAddLookupRemove(t *testing.T) {
	r := NewRegistry()
	s := newSession(r, "Alice")

	require.NoError(t, r.Add(s))
	assert.Equal(t, 1, r.Len())

	got, ok := r.Lookup(s.ID)
	require.True(t, ok)
	assert.Same(t, s, got)

	assert.True(t, r.Remove(s.ID))
	_, ok = r.Lookup(s.ID)
	assert.False(t, ok)
	assert.Equal(t, 0, r.Len())
}

// TestAddDuplicate verifies a second registration under the same id fails.
func TestAddDuplicate(t *testing.T) {
	r := NewRegistry()
	s := newSession(r, "Alice")
	require.NoError(t, r.Add(s))

	err := r.Add(&Session{ID: s.ID, Name: "Mallory"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateSession))

	got, _ := r.Lookup(s.ID)
	assert.Equal(t, "Alice", got.Name)
	assert.Equal(t, 1, r.Len())
}

// TestRemoveUnknownIsNoop verifies removing a missing id is not an error.
func TestRemoveUnknownIsNoop(t *testing.T) {
	r := NewRegistry()
	assert.False(t, r.Remove("missing"))

	s := newSession(r, "Alice")
	require.NoError(t, r.Add(s))
	assert.True(t, r.Remove(s.ID))
	assert.False(t, r.Remove(s.ID))
}

// TestListPreservesInsertionOrder verifies snapshots follow registration order.
func TestListPreservesInsertionOrder(t *testing.T) {
	r := NewRegistry()
	names := []string{"Alice", "Bob", "Carol", "Dave"}
	sessions := make([]*Session, len(names))
	for i, name := range names {
		sessions[i] = newSession(r, name)
		require.NoError(t, r.Add(sessions[i]))
	}
	r.Remove(sessions[1].ID)

	var got []string
	for _, s := range r.List() {
		got = append(got, s.Name)
	}
	assert.Equal(t, []string{"Alice", "Carol", "Dave"}, got)

	entries := r.ListWithConnections()
	require.Len(t, entries, 3)
	for i, e := range entries {
		assert.Same(t, e.Session.Conn, e.Conn)
		assert.Equal(t, got[i], e.Session.Name)
	}
}

// TestPublicListOmitsInternals verifies the public view carries only public fields.
func TestPublicListOmitsInternals(t *testing.T) {
	r := NewRegistry()
	s := newSession(r, "Alice")
	require.NoError(t, r.Add(s))

	users := r.PublicList()
	require.Len(t, users, 1)
	assert.Equal(t, s.ID, users[0].UID)
	assert.Equal(t, "Alice", users[0].Name)
	assert.Equal(t, int64(1700000000000), users[0].Time)

	assert.NotNil(t, NewRegistry().PublicList())
}

// TestConcurrentMutation verifies snapshots stay consistent under concurrent writers.
func TestConcurrentMutation(t *testing.T) {
	r := NewRegistry()

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				s := newSession(r, fmt.Sprintf("user-%d-%d", w, i))
				if err := r.Add(s); err != nil {
					t.Errorf("add: %v", err)
					return
				}
				for _, e := range r.ListWithConnections() {
					if e.Session == nil || e.Conn == nil {
						t.Error("torn entry in snapshot")
						return
					}
				}
				if i%2 == 0 {
					r.Remove(s.ID)
				}
			}
		}(w)
	}
	wg.Wait()

	assert.Equal(t, 8*25, r.Len())
	assert.Len(t, r.List(), 8*25)
}
