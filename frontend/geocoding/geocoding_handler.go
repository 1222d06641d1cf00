package geocoding

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	sharedcontext "vetgateway/frontend/shared/context"
	"vetgateway/frontend/shared/respond"
)

const (
	sessionHeader = "X-Search-Session"
	sessionCookie = "search_session"
)

// SearchQueryHandler serves debounced place suggestions.
func SearchQueryHandler(svc *Service, secureCookie bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := callerScope(r) + ":" + searchSession(w, r, secureCookie)
		res, err := svc.Search(r.Context(), session, r.URL.Query().Get("q"))
		if err != nil {
			if r.Context().Err() != nil {
				return
			}
			respond.Message(w, http.StatusBadGateway, "geocoding failed: "+err.Error())
			return
		}
		respond.JSON(w, http.StatusOK, res)
	}
}

// ReverseQueryHandler resolves a clicked or current coordinate to an address.
func ReverseQueryHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lat, errLat := strconv.ParseFloat(strings.TrimSpace(r.URL.Query().Get("lat")), 64)
		lng, errLng := strconv.ParseFloat(strings.TrimSpace(r.URL.Query().Get("lng")), 64)
		if errLat != nil || errLng != nil {
			respond.Validation(w, "invalid coordinates", map[string]string{"lat": "lat and lng must be numbers"})
			return
		}
		loc, err := svc.Resolve(r.Context(), lat, lng)
		if errors.Is(err, ErrInvalidCoordinates) {
			respond.Validation(w, "invalid coordinates", map[string]string{"lat": "lat must be within ±90 and lng within ±180"})
			return
		}
		if err != nil {
			respond.Message(w, http.StatusInternalServerError, err.Error())
			return
		}
		respond.JSON(w, http.StatusOK, loc)
	}
}

type permissionRequest struct {
	State string          `json:"state"`
	Event PermissionEvent `json:"event"`
}

// PermissionCommandHandler advances the location-permission state machine.
func PermissionCommandHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req permissionRequest
		if !respond.DecodeJSON(w, r, &req) {
			return
		}
		current, ok := ParsePermissionState(req.State)
		if !ok {
			respond.Validation(w, "invalid permission state", map[string]string{"state": "unknown state"})
			return
		}
		next, err := NextPermission(current, req.Event)
		if err != nil {
			respond.Validation(w, err.Error(), map[string]string{"event": "not allowed from " + string(current)})
			return
		}
		respond.JSON(w, http.StatusOK, map[string]PermissionState{"state": next})
	}
}

// callerScope namespaces search sessions so one caller cannot supersede
// another's pending query by reusing its session id.
func callerScope(r *http.Request) string {
	cred, ok := sharedcontext.GetCredentialFromContext(r.Context())
	switch {
	case !ok:
		return ""
	case cred.Subject != "":
		return cred.Subject
	}
	return cred.Token
}

// searchSession identifies the typing session a query belongs to, issuing a
// cookie when the client sends no id.
func searchSession(w http.ResponseWriter, r *http.Request, secure bool) string {
	if id := strings.TrimSpace(r.Header.Get(sessionHeader)); id != "" {
		return id
	}
	if c, err := r.Cookie(sessionCookie); err == nil && c.Value != "" {
		return c.Value
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   secure,
	})
	w.Header().Set(sessionHeader, id)
	return id
}
