package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"wavecam/pkg/camera"
)

// SettingsController is the part of core.Controller the API drives.
type SettingsController interface {
	Snapshot() camera.Snapshot
	View(id camera.SettingID) (camera.SettingView, error)
	RequestSetValue(ctx context.Context, id camera.SettingID, index int) (camera.Status, error)
	Step(ctx context.Context, id camera.SettingID, delta int) (camera.Status, error)
}

// UserFPSProvider reads and stores the frame rate behind the USER fps entry.
type UserFPSProvider interface {
	UserFPS(ctx context.Context) float64
	SetUserFPS(ctx context.Context, fps float64) error
}

// SettingsHandler serves the camera settings endpoints.
type SettingsHandler struct {
	ctrl    SettingsController
	userFPS UserFPSProvider
	// onUserFPS runs after the user frame rate changed, e.g. to resend the
	// actuator frame. May be nil.
	onUserFPS func(ctx context.Context)
}

func NewSettingsHandler(ctrl SettingsController, userFPS UserFPSProvider, onUserFPS func(ctx context.Context)) *SettingsHandler {
	return &SettingsHandler{ctrl: ctrl, userFPS: userFPS, onUserFPS: onUserFPS}
}

// CommitResponse is the result of a set or step request.
type CommitResponse struct {
	Status  camera.Status      `json:"status"`
	Setting camera.SettingView `json:"setting"`
}

type setRequest struct {
	Index *int `json:"index"`
}

type stepRequest struct {
	Delta *int `json:"delta"`
}

type userFPSBody struct {
	FPS *float64 `json:"fps"`
}

func (h *SettingsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	snap := h.ctrl.Snapshot()
	writeJSON(w, http.StatusOK, snap)
}

func (h *SettingsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := h.settingFromPath(w, r)
	if !ok {
		return
	}
	view, err := h.ctrl.View(id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *SettingsHandler) HandleSet(w http.ResponseWriter, r *http.Request) {
	id, ok := h.settingFromPath(w, r)
	if !ok {
		return
	}
	var req setRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Index == nil {
		http.Error(w, "Invalid request body: expected {\"index\": n}", http.StatusBadRequest)
		return
	}
	status, err := h.ctrl.RequestSetValue(r.Context(), id, *req.Index)
	h.writeCommit(w, id, status, err)
}

func (h *SettingsHandler) HandleStep(w http.ResponseWriter, r *http.Request) {
	id, ok := h.settingFromPath(w, r)
	if !ok {
		return
	}
	var req stepRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Delta == nil {
		http.Error(w, "Invalid request body: expected {\"delta\": n}", http.StatusBadRequest)
		return
	}
	status, err := h.ctrl.Step(r.Context(), id, *req.Delta)
	h.writeCommit(w, id, status, err)
}

func (h *SettingsHandler) HandleGetUserFPS(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]float64{"fps": h.userFPS.UserFPS(r.Context())})
}

func (h *SettingsHandler) HandleSetUserFPS(w http.ResponseWriter, r *http.Request) {
	var req userFPSBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.FPS == nil {
		http.Error(w, "Invalid request body: expected {\"fps\": x}", http.StatusBadRequest)
		return
	}
	if *req.FPS <= 0 {
		http.Error(w, "fps must be positive", http.StatusUnprocessableEntity)
		return
	}
	if err := h.userFPS.SetUserFPS(r.Context(), *req.FPS); err != nil {
		slog.Error("Failed to store user fps", "error", err)
		http.Error(w, "Failed to store user fps", http.StatusInternalServerError)
		return
	}
	if h.onUserFPS != nil {
		h.onUserFPS(r.Context())
	}
	writeJSON(w, http.StatusOK, map[string]float64{"fps": *req.FPS})
}

func (h *SettingsHandler) settingFromPath(w http.ResponseWriter, r *http.Request) (camera.SettingID, bool) {
	id, err := camera.ParseSettingID(r.PathValue("id"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return 0, false
	}
	return id, true
}

func (h *SettingsHandler) writeCommit(w http.ResponseWriter, id camera.SettingID, status camera.Status, err error) {
	switch {
	case errors.Is(err, camera.ErrUnknownSetting):
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	case err != nil && !errors.Is(err, camera.ErrInvalidIndex):
		slog.Error("Commit failed", "setting", id, "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	code := http.StatusOK
	if status == camera.InvalidIndex || status == camera.Unresolved {
		code = http.StatusUnprocessableEntity
	}
	view, _ := h.ctrl.View(id)
	writeJSON(w, code, CommitResponse{Status: status, Setting: view})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}
