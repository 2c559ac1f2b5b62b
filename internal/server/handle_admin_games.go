package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/samber/lo"

	"github.com/playperu/minigames/internal/minigame"
)

// GameRequest is the request body for creating, updating and validating a
// game config.
type GameRequest struct {
	Title          string          `json:"title"`
	GameType       minigame.Type   `json:"gameType"`
	IsQuizQuestion bool            `json:"isQuizQuestion"`
	Config         json.RawMessage `json:"config"`
}

func (req *GameRequest) validate() string {
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return "title is required"
	}
	return req.validateConfig()
}

func (req *GameRequest) validateConfig() string {
	if !req.GameType.Valid() {
		return "gameType must be one of " + strings.Join(typeNames(), ", ")
	}
	if len(req.Config) == 0 || string(req.Config) == "null" {
		return "config is required"
	}
	return ""
}

func (req GameRequest) record() GameRecord {
	return GameRecord{
		Title:          req.Title,
		GameType:       req.GameType,
		IsQuizQuestion: req.IsQuizQuestion,
		Config:         req.Config,
	}
}

// check runs the config validator and writes a 422 on defects.
func (req GameRequest) check(w http.ResponseWriter) bool {
	res := minigame.Validate(req.GameType, req.Config, req.IsQuizQuestion)
	if !res.Valid {
		writeJSON(w, http.StatusUnprocessableEntity, res)
		return false
	}
	return true
}

func handleAdminListGames(games GameStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := games.ListGames(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func handleAdminCreateGame(games GameStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req GameRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if msg := req.validate(); msg != "" {
			writeError(w, http.StatusBadRequest, msg)
			return
		}
		if !req.check(w) {
			return
		}

		g, err := games.CreateGame(r.Context(), req.record())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusCreated, g)
	}
}

func handleAdminGetGame(games GameStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		g, err := games.GetGame(r.Context(), chi.URLParam(r, "id"))
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "game not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, g)
	}
}

func handleAdminUpdateGame(games GameStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req GameRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if msg := req.validate(); msg != "" {
			writeError(w, http.StatusBadRequest, msg)
			return
		}
		if !req.check(w) {
			return
		}

		g, err := games.UpdateGame(r.Context(), chi.URLParam(r, "id"), req.record())
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "game not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, g)
	}
}

func handleAdminDeleteGame(games GameStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := games.DeleteGame(r.Context(), chi.URLParam(r, "id"))
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "game not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// handleAdminValidateGame runs the validator without persisting. Defects are
// reported with 200 so editors can show them inline.
func handleAdminValidateGame() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req GameRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if msg := req.validateConfig(); msg != "" {
			writeError(w, http.StatusBadRequest, msg)
			return
		}
		writeJSON(w, http.StatusOK, minigame.Validate(req.GameType, req.Config, req.IsQuizQuestion))
	}
}

func typeNames() []string {
	return lo.Map(minigame.Types, func(t minigame.Type, _ int) string { return string(t) })
}
