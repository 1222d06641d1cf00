package session

import (
	"net/http"
	"strings"
	"time"
)

// CookieName holds the clinic API bearer token between requests.
const CookieName = "token"

const DefaultMaxAge = 12 * 60 * 60

func TokenCookie(value string, maxAge int, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   secure,
	}
}

// ClearCookie expires the token cookie.
func ClearCookie(secure bool) *http.Cookie {
	c := TokenCookie("", -1, secure)
	c.Expires = time.Unix(0, 0)
	return c
}

// TokenFromRequest prefers the token cookie and falls back to a Bearer
// Authorization header.
func TokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(CookieName); err == nil && strings.TrimSpace(c.Value) != "" {
		return strings.TrimSpace(c.Value)
	}
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}
