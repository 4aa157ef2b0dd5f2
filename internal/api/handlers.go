package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"fightcore/internal/rollback"

	"github.com/go-chi/chi/v5"
)

// Handler methods for routerHandlers. These are used by both the
// standalone router (for testing) and the full Server.

func (h *routerHandlers) handleFrameCurrent(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]int32{"frame": h.controller.CurrentFrame()})
}

func (h *routerHandlers) handleGetStateAt(w http.ResponseWriter, r *http.Request) {
	frame, ok := parseFrameParam(w, r)
	if !ok {
		return
	}

	state, err := h.controller.GetState(frame)
	if err != nil {
		writeFrameError(w, err)
		return
	}

	writeJSON(w, state)
}

func (h *routerHandlers) handleGetHashAt(w http.ResponseWriter, r *http.Request) {
	frame, ok := parseFrameParam(w, r)
	if !ok {
		return
	}

	hash, err := h.controller.StateHashAt(frame)
	if err != nil {
		writeFrameError(w, err)
		return
	}

	writeJSON(w, map[string]interface{}{"frame": frame, "hash": hash})
}

func (h *routerHandlers) handleRemoteInputs(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Frame       int32  `json:"frame"`
		PlayerIndex int    `json:"player_index"`
		Inputs      uint16 `json:"inputs"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.PlayerIndex != 0 && req.PlayerIndex != 1 {
		writeError(w, "player_index must be 0 or 1", http.StatusBadRequest)
		return
	}

	if !h.playerLimiter.Allow(int32(req.PlayerIndex)) {
		writeError(w, "too many input submissions", http.StatusTooManyRequests)
		return
	}

	if err := h.controller.SubmitRemoteInputs(req.Frame, req.PlayerIndex, req.Inputs); err != nil {
		writeFrameError(w, err)
		return
	}

	writeJSON(w, map[string]bool{"success": true})
}

func (h *routerHandlers) handlePeerHash(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Frame int32  `json:"frame"`
		Hash  uint32 `json:"hash"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if !h.playerLimiter.Allow(-1) {
		writeError(w, "too many hash submissions", http.StatusTooManyRequests)
		return
	}

	err := h.controller.CheckPeerHash(req.Frame, req.Hash)
	if err == nil {
		writeJSON(w, map[string]bool{"desync": false})
		return
	}

	var desyncErr *rollback.DesyncError
	if errors.As(err, &desyncErr) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"desync":     true,
			"frame":      desyncErr.Frame,
			"localHash":  desyncErr.LocalHash,
			"remoteHash": desyncErr.RemoteHash,
		})
		return
	}

	writeFrameError(w, err)
}

func parseFrameParam(w http.ResponseWriter, r *http.Request) (int32, bool) {
	raw := chi.URLParam(r, "frame")
	frame, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		writeError(w, "invalid frame number", http.StatusBadRequest)
		return 0, false
	}
	return int32(frame), true
}

func writeFrameError(w http.ResponseWriter, err error) {
	if errors.Is(err, rollback.ErrFrameOutOfWindow) {
		writeError(w, err.Error(), http.StatusNotFound)
		return
	}
	writeError(w, err.Error(), http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
