package api

import (
	"net/http"
	"runtime"
	"sync"
	"time"
)

// ClipCounter reports how many clips the session holds.
type ClipCounter interface {
	ClipCount() int
}

// StatsHandler reports process diagnostics alongside session counters.
type StatsHandler struct {
	clips   ClipCounter
	hub     *EventHub
	started time.Time

	mu     sync.Mutex
	maxMem uint64
}

func NewStatsHandler(clips ClipCounter, hub *EventHub) *StatsHandler {
	return &StatsHandler{clips: clips, hub: hub, started: time.Now()}
}

type StatsResponse struct {
	MemoryMB    uint64 `json:"memory_mb"`
	MemoryMaxMB uint64 `json:"memory_max_mb"`
	Goroutines  int    `json:"goroutines"`
	UptimeSec   int64  `json:"uptime_sec"`
	Clients     int    `json:"ws_clients"`
	Clips       int    `json:"clips"`
}

func (h *StatsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	h.mu.Lock()
	if ms.Sys > h.maxMem {
		h.maxMem = ms.Sys
	}
	maxMem := h.maxMem
	h.mu.Unlock()

	writeJSON(w, http.StatusOK, StatsResponse{
		MemoryMB:    bToMb(ms.Sys),
		MemoryMaxMB: bToMb(maxMem),
		Goroutines:  runtime.NumGoroutine(),
		UptimeSec:   int64(time.Since(h.started).Seconds()),
		Clients:     h.hub.ClientCount(),
		Clips:       h.clips.ClipCount(),
	})
}

func bToMb(b uint64) uint64 {
	return b / 1024 / 1024
}
