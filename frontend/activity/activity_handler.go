package activity

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	sharedcontext "vetgateway/frontend/shared/context"
	"vetgateway/frontend/shared/respond"
	"vetgateway/infrastructure/sqlite"
)

// ActivityQueryHandler lists recent audit entries for the caller's clinic.
func ActivityQueryHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := sharedcontext.GetCredentialFromContext(r.Context()); !ok {
			respond.Unauthorized(w)
			return
		}
		params := r.URL.Query()
		clinicID, ok := sharedcontext.LocalClinicID(r.Context(), strings.TrimSpace(params.Get("clinicId")))
		if !ok {
			respond.Message(w, http.StatusForbidden, "activity requires a verified token for the requested clinic")
			return
		}
		q := Query{
			ClinicID:   clinicID,
			EntityType: strings.TrimSpace(params.Get("entityType")),
			EntityID:   strings.TrimSpace(params.Get("entityId")),
		}
		if raw := strings.TrimSpace(params.Get("limit")); raw != "" {
			limit, err := strconv.Atoi(raw)
			if err != nil || limit <= 0 {
				respond.Validation(w, "limit: must be a positive integer", map[string]string{"limit": "must be a positive integer"})
				return
			}
			q.Limit = limit
		}

		rows, err := LoadActivity(r.Context(), db, q)
		if err != nil {
			slog.Error("load activity failed", slog.Any("err", err))
			respond.Message(w, http.StatusInternalServerError, err.Error())
			return
		}
		respond.JSON(w, http.StatusOK, rows)
	}
}
