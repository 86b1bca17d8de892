package server

import (
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v3/process"
)

// Stats is a point-in-time view of the room's runtime counters.
type Stats struct {
	Uptime      string `json:"uptime"`
	Connections int64  `json:"connections"`
	Sessions    int    `json:"sessions"`
	History     int    `json:"history"`
	Messages    uint64 `json:"messages"`
	RSSBytes    uint64 `json:"rss_bytes"`
}

// Stats collects the current counters. It is safe to call from any goroutine.
func (h *Hub) Stats() Stats {
	return Stats{
		Uptime:      time.Since(h.startedAt).Round(time.Second).String(),
		Connections: h.connections.Load(),
		Sessions:    h.registry.Len(),
		History:     h.history.Len(),
		Messages:    h.messages.Load(),
		RSSBytes:    residentMemory(),
	}
}

// residentMemory returns this process's RSS, or 0 when it cannot be read.
func residentMemory() uint64 {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return 0
	}
	info, err := proc.MemoryInfo()
	if err != nil {
		return 0
	}
	return info.RSS
}

// StatsHandler serves Stats as JSON.
func (h *Hub) StatsHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(h.Stats()); err != nil {
		log.Error().Err(err).Msg("Error writing stats response")
	}
}

// reportStats logs Stats every interval until the hub shuts down.
func (h *Hub) reportStats(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-h.ctx.Done():
			return
		case <-ticker.C:
			s := h.Stats()
			log.Info().
				Str("uptime", s.Uptime).
				Int64("connections", s.Connections).
				Int("sessions", s.Sessions).
				Int("history", s.History).
				Uint64("messages", s.Messages).
				Uint64("rss_bytes", s.RSSBytes).
				Msg("Room stats")
		}
	}
}
