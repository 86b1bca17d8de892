// Package server implements the roomchat HTTP and WebSocket server.
//
// A single Hub owns the room: its event loop drives each connection through
// the login state machine, records room messages in the history ring, keeps
// the session registry, and fans envelopes out to every open client. The
// remaining files cover configuration, origin checks, rate limiting,
// routing, metrics, and runtime stats.
package server
