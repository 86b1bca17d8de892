// Package testhelpers provides common utilities for exercising the roomchat
// WebSocket endpoint from tests.
//
// It wraps the gorilla dialer with the origin the default configuration
// allows, and offers typed helpers for logging in and reading envelopes so
// protocol tests stay focused on behavior.
package testhelpers

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/Tyrowin/roomchat/internal/protocol"
)

// TestOrigin is the Origin header allowed by the default configuration.
const TestOrigin = "http://localhost:8080"

// DefaultTimeout bounds every blocking read made by these helpers.
const DefaultTimeout = 2 * time.Second

// Envelope is a decoded server frame with its payload left raw.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Decode unmarshals the envelope payload into v.
func (e Envelope) Decode(t *testing.T, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(e.Data, v), "decode %s payload", e.Type)
}

// WebSocketURL converts an httptest server URL into its /ws endpoint.
func WebSocketURL(serverURL string) string {
	return "ws" + strings.TrimPrefix(serverURL, "http") + "/ws"
}

// ConnectWebSocket dials url with the given Origin header. An empty origin
// sends no Origin header.
func ConnectWebSocket(url, origin string) (*websocket.Conn, *http.Response, error) {
	dialer := websocket.Dialer{
		HandshakeTimeout: 5 * time.Second,
	}

	headers := http.Header{}
	if origin != "" {
		headers.Set("Origin", origin)
	}

	conn, resp, err := dialer.Dial(url, headers)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	return conn, resp, err
}

// MustConnect dials url with TestOrigin and closes the connection on cleanup.
func MustConnect(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := ConnectWebSocket(url, TestOrigin)
	require.NoError(t, err, "connect %s", url)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

// SendJSON writes v as a single text frame.
func SendJSON(t *testing.T, conn *websocket.Conn, v any) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(v))
}

// SendRaw writes data as a single text frame without encoding it.
func SendRaw(t *testing.T, conn *websocket.Conn, data string) {
	t.Helper()
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(data)))
}

// ReadEnvelope reads and decodes the next frame.
func ReadEnvelope(conn *websocket.Conn, timeout time.Duration) (Envelope, error) {
	if err := conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return Envelope{}, err
	}
	_, data, err := conn.ReadMessage()
	if err != nil {
		return Envelope{}, err
	}
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Envelope{}, err
	}
	return env, nil
}

// MustRead reads the next frame and requires it to have the given type.
func MustRead(t *testing.T, conn *websocket.Conn, kind string) Envelope {
	t.Helper()
	env, err := ReadEnvelope(conn, DefaultTimeout)
	require.NoError(t, err, "waiting for %s", kind)
	require.Equal(t, kind, env.Type)
	return env
}

// ReadUntil reads frames until match returns true, failing after DefaultTimeout.
func ReadUntil(t *testing.T, conn *websocket.Conn, match func(Envelope) bool) Envelope {
	t.Helper()
	deadline := time.Now().Add(DefaultTimeout)
	for {
		remaining := time.Until(deadline)
		require.Positive(t, remaining, "no matching frame before deadline")
		env, err := ReadEnvelope(conn, remaining)
		require.NoError(t, err)
		if match(env) {
			return env
		}
	}
}

// OfType matches envelopes of the given type.
func OfType(kind string) func(Envelope) bool {
	return func(env Envelope) bool { return env.Type == kind }
}

// Login sends a login frame and consumes frames up to the caller's own
// login-success. The join notice and user list that follow are left unread.
func Login(t *testing.T, conn *websocket.Conn, name string) protocol.LoginSuccess {
	t.Helper()
	SendJSON(t, conn, protocol.Inbound{Type: protocol.TypeLogin, Name: name})
	env := ReadUntil(t, conn, OfType(protocol.TypeLoginSuccess))

	var success protocol.LoginSuccess
	env.Decode(t, &success)
	require.NotEmpty(t, success.UID)
	return success
}

// LoginAndSettle logs in and also consumes the join notice and user list.
func LoginAndSettle(t *testing.T, conn *websocket.Conn, name string) protocol.LoginSuccess {
	t.Helper()
	success := Login(t, conn, name)
	MustRead(t, conn, protocol.TypeSystemLogin)
	MustRead(t, conn, protocol.TypeUserList)
	return success
}

// ExpectNoMessage asserts that nothing arrives within timeout. The
// connection must not be read from afterwards.
func ExpectNoMessage(t *testing.T, conn *websocket.Conn, timeout time.Duration) {
	t.Helper()
	env, err := ReadEnvelope(conn, timeout)
	if err == nil {
		t.Fatalf("expected no message, got %s", env.Type)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return
	}
	t.Fatalf("unexpected error while waiting for absence of message: %v", err)
}

// ExpectClosed asserts that the server closes the connection within timeout.
func ExpectClosed(t *testing.T, conn *websocket.Conn, timeout time.Duration) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		_, err := ReadEnvelope(conn, time.Until(deadline))
		if err == nil {
			continue
		}
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			break
		}
		return
	}
	t.Fatal("connection was not closed by the server")
}

// CloseWebSocket gracefully closes a WebSocket connection.
func CloseWebSocket(conn *websocket.Conn) error {
	err := conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	if err != nil {
		return err
	}
	return conn.Close()
}
