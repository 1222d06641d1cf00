package login

import (
	"net/http"
	"time"

	sharedcontext "vetgateway/frontend/shared/context"
	"vetgateway/frontend/shared/respond"
)

type meResponse struct {
	Subject   string     `json:"subject"`
	Name      string     `json:"name,omitempty"`
	Role      string     `json:"role,omitempty"`
	ClinicID  string     `json:"clinicId,omitempty"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

// MeQueryHandler returns the identity carried by the caller's token.
func MeQueryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cred, ok := sharedcontext.GetCredentialFromContext(r.Context())
		if !ok {
			respond.Unauthorized(w)
			return
		}
		respond.JSON(w, http.StatusOK, meResponse{
			Subject:   cred.Subject,
			Name:      cred.Name,
			Role:      cred.Role,
			ClinicID:  cred.ClinicID,
			ExpiresAt: cred.ExpiresAt,
		})
	}
}
