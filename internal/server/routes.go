// Package server wires HTTP handlers into a chi router for the roomchat
// application via routing helpers.
package server

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRoutes configures and returns a router with all application routes
// bound to hub: health check, WebSocket endpoint, test page, runtime stats
// and Prometheus metrics.
func SetupRoutes(hub *Hub) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.HandleFunc("/", HealthHandler)
	r.HandleFunc("/ws", hub.WebSocketHandler)
	r.Get("/test", TestPageHandler)
	r.Get("/stats", hub.StatsHandler)
	r.Handle("/metrics", promhttp.Handler())
	return r
}
