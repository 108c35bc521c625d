package api

import (
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"wavecam/internal/ui"
	"wavecam/pkg/version"
)

// NewServer creates and configures the HTTP server.
// shutdown is called (asynchronously) when a client requests a graceful shutdown.
func NewServer(addr string, settings *SettingsHandler, clips *ClipsHandler, stats *StatsHandler, events *EventHub, shutdown func()) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      NewMux(settings, clips, stats, events, shutdown),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// NewMux registers every route. Split out of NewServer for httptest.
func NewMux(settings *SettingsHandler, clips *ClipsHandler, stats *StatsHandler, events *EventHub, shutdown func()) *http.ServeMux {
	mux := http.NewServeMux()

	// 1. Health & Version
	mux.HandleFunc("GET /health", handleHealth)
	mux.HandleFunc("GET /api/version", handleVersion)

	// 2. Settings
	mux.HandleFunc("GET /api/settings", settings.HandleList)
	mux.HandleFunc("GET /api/settings/{id}", settings.HandleGet)
	mux.HandleFunc("POST /api/settings/{id}", settings.HandleSet)
	mux.HandleFunc("POST /api/settings/{id}/step", settings.HandleStep)
	mux.HandleFunc("GET /api/user-fps", settings.HandleGetUserFPS)
	mux.HandleFunc("POST /api/user-fps", settings.HandleSetUserFPS)

	// 3. Clips & History
	mux.HandleFunc("GET /api/clips", clips.HandleClips)
	mux.HandleFunc("GET /api/history", clips.HandleHistory)

	// 4. Stats, Logs & Live events
	mux.Handle("GET /api/stats", stats)
	mux.HandleFunc("GET /api/log/latest", handleLatestLog)
	mux.HandleFunc("GET /api/log/event", handleLatestEvent)
	mux.HandleFunc("GET /api/ws", events.HandleWS)

	// 5. Shutdown
	mux.HandleFunc("POST /api/shutdown", func(w http.ResponseWriter, r *http.Request) {
		slog.Info("Graceful shutdown initiated via API")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("Shutting down...")); err != nil {
			slog.Error("Failed to write shutdown response", "error", err)
		}
		// Let the response flush first
		go func() {
			time.Sleep(100 * time.Millisecond)
			shutdown()
		}()
	})

	// 6. Dashboard
	distFS, err := fs.Sub(ui.DistFS, "dist")
	if err != nil {
		panic(fmt.Sprintf("Failed to subtree dist from embedded assets: %v", err))
	}
	mux.Handle("/", http.FileServer(&spaFileSystem{root: http.FS(distFS)}))

	return mux
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("OK")); err != nil {
		slog.Error("Failed to write health response", "error", err)
	}
}

func handleVersion(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if _, err := fmt.Fprintf(w, `{"version": "%s"}`, version.Version); err != nil {
		slog.Error("Failed to write version response", "error", err)
	}
}
