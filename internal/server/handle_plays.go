package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/playperu/minigames/internal/minigame"
)

// StartPlayRequest is the request body for POST /api/plays. Either GameID
// names a stored config or GameType and Config carry one inline; inline
// configs can only be previewed.
type StartPlayRequest struct {
	GameID         string          `json:"gameId,omitempty"`
	GameType       minigame.Type   `json:"gameType,omitempty"`
	Config         json.RawMessage `json:"config,omitempty"`
	IsQuizQuestion bool            `json:"isQuizQuestion,omitempty"`
	Mode           string          `json:"mode,omitempty"`
	PreviousState  json.RawMessage `json:"previousState,omitempty"`
}

// StartPlayResponse is the response for POST /api/plays.
type StartPlayResponse struct {
	PlayID string        `json:"playId"`
	Token  string        `json:"token"`
	GameID string        `json:"gameId,omitempty"`
	View   minigame.View `json:"view"`
}

// PlayResultResponse is the response for GET /api/plays/{playID}/result.
type PlayResultResponse struct {
	Delivered bool                 `json:"delivered"`
	Result    *minigame.GameResult `json:"result,omitempty"`
}

func (req *StartPlayRequest) validate() (minigame.Mode, string) {
	req.GameID = strings.TrimSpace(req.GameID)
	mode, err := minigame.ParseMode(req.Mode)
	if err != nil {
		return "", err.Error()
	}
	inline := len(req.Config) > 0 || req.GameType != ""
	switch {
	case req.GameID == "" && !inline:
		return "", "gameId or gameType and config are required"
	case req.GameID != "" && inline:
		return "", "gameId and an inline config are mutually exclusive"
	case inline && mode != minigame.ModePreview:
		return "", "inline configs can only be played in preview mode"
	case inline && !req.GameType.Valid():
		return "", "gameType must be one of " + strings.Join(typeNames(), ", ")
	}
	return mode, ""
}

func handleStartPlay(logger *slog.Logger, games GameStore, plays *Plays, tickets *Tickets) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req StartPlayRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		mode, msg := req.validate()
		if msg != "" {
			writeError(w, http.StatusBadRequest, msg)
			return
		}

		// Stored configs are validated on save, not at play time.
		gameType, raw := req.GameType, req.Config
		if req.GameID != "" {
			g, err := games.GetGame(r.Context(), req.GameID)
			if errors.Is(err, ErrNotFound) {
				writeError(w, http.StatusNotFound, "game not found")
				return
			}
			if err != nil {
				writeError(w, http.StatusInternalServerError, "internal error")
				return
			}
			gameType, raw = g.GameType, g.Config
		} else if res := minigame.Validate(gameType, raw, req.IsQuizQuestion); !res.Valid {
			writeJSON(w, http.StatusUnprocessableEntity, res)
			return
		}
		cfg, err := minigame.Decode(gameType, raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		playID, view, err := plays.Start(StartRequest{
			GameID:        req.GameID,
			Config:        cfg,
			Mode:          mode,
			PreviousState: req.PreviousState,
		})
		if err != nil {
			logger.Warn("mounting play failed", "game_id", req.GameID, "error", err)
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		token, err := tickets.Issue(playID, req.GameID, mode)
		if err != nil {
			plays.Unmount(playID)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusCreated, StartPlayResponse{
			PlayID: playID,
			Token:  token,
			GameID: req.GameID,
			View:   view,
		})
	}
}

func handleGetPlay(plays *Plays) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := plays.View(chi.URLParam(r, "playID"))
		if err != nil {
			writePlayError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}

func handlePlayAction(plays *Plays) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var action minigame.Action
		if err := readJSON(r, &action); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if action.Kind == "" {
			writeError(w, http.StatusBadRequest, "kind is required")
			return
		}

		view, err := plays.Dispatch(chi.URLParam(r, "playID"), action)
		if err != nil {
			writePlayError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}

func handlePlayResult(plays *Plays) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, ok, err := plays.Result(chi.URLParam(r, "playID"))
		if err != nil {
			writePlayError(w, err)
			return
		}
		resp := PlayResultResponse{Delivered: ok}
		if ok {
			resp.Result = &res
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func handleUnmountPlay(plays *Plays) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := plays.Unmount(chi.URLParam(r, "playID")); err != nil {
			writePlayError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
