package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"wavecam/pkg/model"
	"wavecam/pkg/store"
)

const maxHistoryLimit = 1000

// CurrentClip exposes the clip being recorded.
type CurrentClip interface {
	Current() *model.Clip
}

// ClipsHandler serves recorded clips and the commit history.
type ClipsHandler struct {
	clips        store.ClipStore
	events       store.SettingEventStore
	session      CurrentClip
	historyLimit int
}

func NewClipsHandler(clips store.ClipStore, events store.SettingEventStore, session CurrentClip, historyLimit int) *ClipsHandler {
	return &ClipsHandler{clips: clips, events: events, session: session, historyLimit: historyLimit}
}

// ClipsResponse lists stored clips newest first, plus the one being recorded.
type ClipsResponse struct {
	Recording *model.Clip   `json:"recording"`
	Clips     []*model.Clip `json:"clips"`
}

func (h *ClipsHandler) HandleClips(w http.ResponseWriter, r *http.Request) {
	clips, err := h.clips.ListClips(r.Context())
	if err != nil {
		slog.Error("Failed to list clips", "error", err)
		http.Error(w, "Failed to list clips", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, ClipsResponse{Recording: h.session.Current(), Clips: clips})
}

func (h *ClipsHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	limit := h.historyLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = min(n, maxHistoryLimit)
	}

	events, err := h.events.ListSettingEvents(r.Context(), limit)
	if err != nil {
		slog.Error("Failed to list history", "error", err)
		http.Error(w, "Failed to list history", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, events)
}
