package server

import (
	"net/http"
)

func handleAdminLogout(admin AdminStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(adminCookieName)
		if err == nil && cookie.Value != "" {
			admin.DeleteAdminSession(r.Context(), cookie.Value)
		}

		setAdminCookie(w, "", -1)
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
