package server

import (
	"errors"
	"net/http"
	"strings"
)

var errNoTicket = errors.New("no play ticket")

// ticketFromRequest reads a play ticket from the Authorization header or,
// for EventSource and WebSocket clients that cannot set headers, from the
// token query parameter.
func ticketFromRequest(r *http.Request) (string, error) {
	auth := r.Header.Get("Authorization")
	if token, found := strings.CutPrefix(auth, "Bearer "); found && token != "" {
		return token, nil
	}
	if token := r.URL.Query().Get("token"); token != "" {
		return token, nil
	}
	return "", errNoTicket
}
