package server

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/playperu/minigames/internal/minigame"
)

// CatalogueResponse is the response for GET /api/games.
type CatalogueResponse struct {
	Types []minigame.Type `json:"types"`
	Games []GameSummary   `json:"games"`
}

func handleListGames(games GameStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := games.ListGames(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, CatalogueResponse{Types: minigame.Types, Games: list})
	}
}

func handleGetGame(games GameStore) http.HandlerFunc {
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
