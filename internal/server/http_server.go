// Package server constructs and starts the roomchat HTTP service.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	readTimeout       = 15 * time.Second
	readHeaderTimeout = 5 * time.Second
	writeTimeout      = 15 * time.Second
	idleTimeout       = 60 * time.Second
)

// CreateServer returns an http.Server bound to addr. Upgraded WebSocket
// connections are hijacked, so these timeouts only bound plain HTTP traffic.
func CreateServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       readTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}
}

// StartServer blocks serving srv. After a graceful shutdown it returns
// http.ErrServerClosed.
func StartServer(srv *http.Server) error {
	log.Info().Str("addr", srv.Addr).Msg("Server listening")
	return srv.ListenAndServe()
}

// ShutdownServer stops accepting requests and waits up to timeout for
// in-flight ones. WebSocket clients are closed by Hub.Shutdown, not here.
func ShutdownServer(srv *http.Server, timeout time.Duration) error {
	log.Info().Dur("timeout", timeout).Msg("Stopping HTTP listener")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
		return err
	}
	log.Info().Msg("HTTP listener stopped")
	return nil
}
