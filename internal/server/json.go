package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/playperu/minigames/internal/minigame"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func readJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writePlayError maps engine errors to HTTP statuses.
func writePlayError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, "play not found")
	case errors.Is(err, minigame.ErrUnknownAction),
		errors.Is(err, minigame.ErrUnknownElement),
		errors.Is(err, minigame.ErrInvalidAction):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, minigame.ErrNotReady):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, minigame.ErrAlreadySubmitted),
		errors.Is(err, minigame.ErrNotSubmitted),
		errors.Is(err, minigame.ErrRetryUnavailable),
		errors.Is(err, minigame.ErrPreviewMode),
		errors.Is(err, minigame.ErrReadOnly),
		errors.Is(err, minigame.ErrUnmounted),
		errors.Is(err, minigame.ErrBlocked),
		errors.Is(err, minigame.ErrLimitReached):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
