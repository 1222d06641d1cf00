package login

import (
	"net/http"

	"vetgateway/frontend/shared/respond"
	sessioncookie "vetgateway/infrastructure/session"
)

// LogoutHandler clears the token cookie.
func LogoutHandler(secureCookie bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, sessioncookie.ClearCookie(secureCookie))
		respond.Message(w, http.StatusOK, "Logged out")
	}
}
