package server

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type ctxKey int

const ctxKeyAdmin ctxKey = 0

func adminAuthMiddleware(admin AdminStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(adminCookieName)
			if err != nil || cookie.Value == "" {
				writeError(w, http.StatusUnauthorized, "not authenticated")
				return
			}

			sess, err := admin.AdminFromSession(r.Context(), cookie.Value)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "not authenticated")
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyAdmin, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// playTicketMiddleware admits requests carrying a ticket issued for the
// {playID} in the path.
func playTicketMiddleware(tickets *Tickets) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := ticketFromRequest(r)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "play ticket required")
				return
			}

			claims, err := tickets.Verify(token)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "invalid play ticket")
				return
			}
			if claims.Subject != chi.URLParam(r, "playID") {
				writeError(w, http.StatusForbidden, "ticket is for another play")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func adminFrom(r *http.Request) adminSession {
	return r.Context().Value(ctxKeyAdmin).(adminSession)
}
