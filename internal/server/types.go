// Package server defines shared connection state and utility helpers that
// are reused across client and hub logic.
package server

import (
	"strings"

	"github.com/Tyrowin/roomchat/internal/protocol"
)

// connState is the login state of a single connection. It is only read and
// written from the hub's event loop.
type connState int

const (
	stateAwaitingLogin connState = iota
	stateAuthenticated
	stateClosed
)

func (s connState) String() string {
	switch s {
	case stateAwaitingLogin:
		return "awaiting-login"
	case stateAuthenticated:
		return "authenticated"
	default:
		return "closed"
	}
}

// inboundFrame is a decoded client envelope queued for the hub loop.
type inboundFrame struct {
	client   *Client
	envelope protocol.Inbound
}

// isExpectedCloseError checks if an error is expected during connection closure.
func isExpectedCloseError(err error) bool {
	if err == nil {
		return true
	}
	errStr := err.Error()
	return strings.Contains(errStr, "use of closed network connection") ||
		strings.Contains(errStr, "websocket: close sent") ||
		strings.Contains(errStr, "broken pipe")
}
