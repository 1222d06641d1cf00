package proxy

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	sharedcontext "vetgateway/frontend/shared/context"
	"vetgateway/frontend/shared/respond"
	"vetgateway/infrastructure/audit"
	"vetgateway/infrastructure/upstream"
)

// resources maps the lower-cased route segment to the clinic API resource.
var resources = map[string]string{
	"clinic":                        "Clinic",
	"client":                        "Client",
	"patient":                       "Patient",
	"appointment":                   "Appointment",
	"vaccinationdetail":             "VaccinationDetail",
	"vaccinationmaster":             "VaccinationMaster",
	"certificate":                   "Certificate",
	"product":                       "Product",
	"supplier":                      "Supplier",
	"inventory":                     "Inventory",
	"purchaseorder":                 "PurchaseOrder",
	"purchaseorderreceived":         "PurchaseOrderReceived",
	"purchaseorderreceivinghistory": "PurchaseOrderReceivingHistory",
	"user":                          "User",
	"role":                          "Role",
}

const maxProxyBody = 10 << 20

// Doer sends one raw request upstream.
type Doer interface {
	Do(ctx context.Context, token, method, path string, query url.Values, body io.Reader, contentType string) (*upstream.Response, error)
}

// ProxyHandler relays a request for an allow-listed resource and returns the
// upstream status and body unchanged as text/plain.
func ProxyHandler(client Doer, auditSvc *audit.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cred, ok := sharedcontext.GetCredentialFromContext(r.Context())
		if !ok || cred.Token == "" {
			respond.Unauthorized(w)
			return
		}
		name, ok := resources[strings.ToLower(chi.URLParam(r, "resource"))]
		if !ok {
			respond.Message(w, http.StatusNotFound, "unknown resource")
			return
		}
		path := "/api/" + name
		id := chi.URLParam(r, "id")
		if id != "" {
			path += "/" + url.PathEscape(id)
		}

		var body []byte
		if r.Method == http.MethodPost || r.Method == http.MethodPut {
			var err error
			body, err = io.ReadAll(http.MaxBytesReader(w, r.Body, maxProxyBody))
			if err != nil {
				respond.Message(w, http.StatusBadRequest, "invalid request body")
				return
			}
		}
		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}

		resp, err := client.Do(r.Context(), cred.Token, r.Method, path, r.URL.Query(), reader, r.Header.Get("Content-Type"))
		if err != nil {
			slog.Error("proxy request failed", slog.String("method", r.Method), slog.String("path", path), slog.Any("err", err))
			respond.Message(w, http.StatusInternalServerError, err.Error())
			return
		}

		if r.Method != http.MethodGet && resp.StatusCode >= 200 && resp.StatusCode < 300 {
			recordMutation(r, auditSvc, cred.Actor(), name, id, body)
		}

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(resp.StatusCode)
		_, _ = w.Write(resp.Body)
	}
}

func recordMutation(r *http.Request, auditSvc *audit.Service, actor, resource, id string, body []byte) {
	var after any
	if len(body) > 0 && json.Valid(body) {
		after = json.RawMessage(body)
	}
	action := map[string]string{
		http.MethodPost:   "create",
		http.MethodPut:    "update",
		http.MethodDelete: "delete",
	}[r.Method]
	if err := auditSvc.Record(r.Context(), audit.Entry{
		Actor:      actor,
		ClinicID:   sharedcontext.ResolveClinicID(r.Context(), r.URL.Query().Get("clinicId")),
		Action:     strings.ToLower(resource) + "." + action,
		EntityType: resource,
		EntityID:   id,
		After:      after,
	}); err != nil {
		slog.Error("record proxy audit failed", slog.String("resource", resource), slog.Any("err", err))
	}
}
