package login

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"vetgateway/frontend/shared/respond"
	sessioncookie "vetgateway/infrastructure/session"
	"vetgateway/infrastructure/upstream"
)

// Authenticator forwards credentials to the clinic API.
type Authenticator interface {
	Login(ctx context.Context, body []byte) (*upstream.Response, error)
}

type loginRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// CreateLoginHandler relays a login to the clinic API and keeps the returned
// token in an HttpOnly cookie.
func CreateLoginHandler(auth Authenticator, jwtSecret string, secureCookie bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 64<<10))
		if err != nil {
			respond.Message(w, http.StatusBadRequest, "invalid request body")
			return
		}
		var req loginRequest
		if err := json.Unmarshal(body, &req); err != nil {
			respond.Message(w, http.StatusBadRequest, "invalid request body")
			return
		}
		errs := map[string]string{}
		if strings.TrimSpace(req.Email) == "" && strings.TrimSpace(req.Username) == "" {
			errs["email"] = "email or username is required"
		}
		if req.Password == "" {
			errs["password"] = "password is required"
		}
		if len(errs) > 0 {
			respond.Validation(w, "email and password are required", errs)
			return
		}

		resp, err := auth.Login(r.Context(), body)
		if err != nil {
			slog.Error("login relay failed", slog.Any("err", err))
			respond.Message(w, http.StatusInternalServerError, err.Error())
			return
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			respond.UpstreamError(w, &upstream.StatusError{Method: http.MethodPost, Path: "login", StatusCode: resp.StatusCode, Body: resp.Body})
			return
		}

		token := extractToken(resp.Body)
		if token == "" {
			respond.Message(w, http.StatusBadGateway, "login response carried no token")
			return
		}
		cred, err := sessioncookie.ParseCredential(token, jwtSecret)
		if err != nil {
			slog.Warn("login token rejected", slog.Any("err", err))
			respond.Unauthorized(w)
			return
		}

		http.SetCookie(w, sessioncookie.TokenCookie(token, sessioncookie.TokenLifetime(cred), secureCookie))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(resp.Body)
	}
}

// extractToken finds the bearer token in the clinic API login reply, which
// may be top-level or wrapped in a data envelope.
func extractToken(body []byte) string {
	var reply struct {
		Token       string `json:"token"`
		AccessToken string `json:"accessToken"`
		Data        *struct {
			Token       string `json:"token"`
			AccessToken string `json:"accessToken"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &reply); err != nil {
		return ""
	}
	for _, t := range []string{reply.Token, reply.AccessToken} {
		if t != "" {
			return t
		}
	}
	if reply.Data != nil {
		if reply.Data.Token != "" {
			return reply.Data.Token
		}
		return reply.Data.AccessToken
	}
	return ""
}
