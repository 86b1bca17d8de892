// Package server coordinates client registration, the per-connection login
// state machine, room broadcast, and connection cleanup via the Hub type.
package server

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Tyrowin/roomchat/internal/history"
	"github.com/Tyrowin/roomchat/internal/protocol"
	"github.com/Tyrowin/roomchat/internal/session"
)

// Hub owns the chat room. A single event loop (Run) serializes every
// registration, inbound envelope, login expiry and disconnect, so the
// session registry and history log only ever change from one goroutine.
type Hub struct {
	cfg      Config
	origins  originPolicy
	registry *session.Registry
	history  *history.Log

	clients    map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	inbound    chan inboundFrame
	expired    chan *Client

	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	newID       func() string
	now         func() time.Time
	startedAt   time.Time
	connections atomic.Int64
	messages    atomic.Uint64
}

// NewHub creates a Hub for cfg. A nil cfg uses NewConfig defaults.
func NewHub(cfg *Config) *Hub {
	if cfg == nil {
		cfg = NewConfig()
	}
	sanitized := cfg.sanitize()

	registry := session.NewRegistry()
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		cfg:        sanitized,
		origins:    newOriginPolicy(sanitized.AllowedOrigins),
		registry:   registry,
		history:    history.New(sanitized.HistorySize),
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		inbound:    make(chan inboundFrame),
		expired:    make(chan *Client),
		ctx:        ctx,
		cancel:     cancel,
		done:       make(chan struct{}),
		newID:      registry.GenerateID,
		now:        time.Now,
		startedAt:  time.Now(),
	}
}

// Config returns the sanitized configuration the hub runs with.
func (h *Hub) Config() Config {
	cfg := h.cfg
	cfg.AllowedOrigins = append([]string(nil), cfg.AllowedOrigins...)
	return cfg
}

// Run starts the hub's main event loop. It blocks until Shutdown is called
// and should be run in its own goroutine.
func (h *Hub) Run() {
	defer close(h.done)

	if h.cfg.StatsInterval > 0 {
		h.wg.Add(1)
		go func() {
			defer h.wg.Done()
			h.reportStats(h.cfg.StatsInterval)
		}()
	}

	for {
		select {
		case <-h.ctx.Done():
			h.shutdownClients()
			return

		case client := <-h.register:
			if client == nil {
				log.Warn().Msg("Received nil client registration; skipping")
				continue
			}
			h.handleRegister(client)

		case client := <-h.unregister:
			h.handleDisconnect(client)

		case frame := <-h.inbound:
			h.dispatch(frame.client, frame.envelope)

		case client := <-h.expired:
			h.handleLoginTimeout(client)
		}
	}
}

// Register hands a freshly upgraded client to the event loop. It returns
// false if the hub is shutting down.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.ctx.Done():
		return false
	}
}

func (h *Hub) handleRegister(client *Client) {
	h.clients[client] = struct{}{}
	client.state = stateAwaitingLogin
	client.loginTimer = time.AfterFunc(h.cfg.LoginTimeout, func() {
		select {
		case h.expired <- client:
		case <-h.ctx.Done():
		}
	})

	count := h.connections.Add(1)
	connectionsGauge.Inc()
	log.Info().Str("addr", client.addr).Int64("clients", count).Msg("Client connected")

	if client.conn == nil {
		return
	}
	h.wg.Add(2)
	go func() {
		defer h.wg.Done()
		client.writePump()
	}()
	go func() {
		defer h.wg.Done()
		client.readPump()
	}()
}

// handleLoginTimeout force-closes a connection that never logged in.
func (h *Hub) handleLoginTimeout(client *Client) {
	if _, ok := h.clients[client]; !ok || client.state != stateAwaitingLogin {
		return
	}
	client.loginTimer = nil
	client.state = stateClosed
	loginTimeouts.Inc()
	log.Info().Str("addr", client.addr).Dur("timeout", h.cfg.LoginTimeout).Msg("Closing connection that did not log in")
	client.closeTransport()
}

// handleDisconnect runs the cleanup path for a client whose transport closed.
// Only sessions that completed login are announced and removed.
func (h *Hub) handleDisconnect(client *Client) {
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	client.stopLoginTimer()
	client.closed.Store(true)
	close(client.send)

	count := h.connections.Add(-1)
	connectionsGauge.Dec()

	wasAuthenticated := client.state == stateAuthenticated
	client.state = stateClosed
	if !wasAuthenticated || client.session == nil {
		log.Info().Str("addr", client.addr).Int64("clients", count).Msg("Client disconnected before login")
		return
	}

	s := client.session
	h.broadcast(protocol.NewSystemLogout(s.Name))
	h.registry.Remove(s.ID)
	sessionsGauge.Set(float64(h.registry.Len()))
	h.broadcastUserList()

	log.Info().
		Str("addr", client.addr).
		Str("uid", s.ID).
		Str("name", s.Name).
		Int64("clients", count).
		Msg("Session ended")
}

// shutdownClients gracefully closes all active client connections
func (h *Hub) shutdownClients() {
	log.Info().Msg("Shutting down all client connections...")

	for client := range h.clients {
		client.stopLoginTimer()
		client.closeTransport()
	}

	log.Info().Int("clients", len(h.clients)).Msg("Closed client connections")
}

// Shutdown initiates graceful shutdown of the hub and waits for all goroutines to complete.
// It returns after all client connections are closed and goroutines have finished,
// or when the timeout is reached.
func (h *Hub) Shutdown(timeout time.Duration) error {
	log.Info().Msg("Initiating hub shutdown...")

	h.cancel()
	<-h.done

	done := make(chan struct{})
	go func() {
		h.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Info().Msg("Hub shutdown completed successfully")
		return nil
	case <-time.After(timeout):
		log.Warn().Msg("Hub shutdown timeout reached, some goroutines may still be running")
		return context.DeadlineExceeded
	}
}
