package server

import (
	"net/http"
	"strconv"

	"github.com/samber/lo"
)

const (
	defaultResultLimit = 50
	maxResultLimit     = 500
)

func handleListResults(results ResultStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		limit := defaultResultLimit
		if s := q.Get("limit"); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil || n <= 0 {
				writeError(w, http.StatusBadRequest, "limit must be a positive integer")
				return
			}
			limit = lo.Clamp(n, 1, maxResultLimit)
		}

		list, err := results.ListResults(r.Context(), q.Get("gameId"), limit)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}
