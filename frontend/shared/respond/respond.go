package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"vetgateway/infrastructure/upstream"
)

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response failed", slog.Any("err", err))
	}
}

// Message writes {"message": msg}.
func Message(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, map[string]string{"message": msg})
}

// Validation writes a 422 with per-field messages.
func Validation(w http.ResponseWriter, msg string, fields map[string]string) {
	JSON(w, http.StatusUnprocessableEntity, map[string]any{"message": msg, "errors": fields})
}

func Unauthorized(w http.ResponseWriter) {
	Message(w, http.StatusUnauthorized, "Unauthorized")
}

// UpstreamError relays a clinic API rejection verbatim, and maps any other
// failure to a 500 carrying the error text.
func UpstreamError(w http.ResponseWriter, err error) {
	var se *upstream.StatusError
	if errors.As(err, &se) {
		ct := "application/json"
		if !json.Valid(se.Body) {
			ct = "text/plain; charset=utf-8"
		}
		w.Header().Set("Content-Type", ct)
		w.WriteHeader(se.StatusCode)
		_, _ = w.Write(se.Body)
		return
	}
	slog.Error("upstream call failed", slog.Any("err", err))
	Message(w, http.StatusInternalServerError, err.Error())
}

// DecodeJSON reads a request body into v and answers 400 on failure.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		Message(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
