package receiving

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	sharedcontext "vetgateway/frontend/shared/context"
	"vetgateway/frontend/shared/respond"
	"vetgateway/infrastructure/audit"
	"vetgateway/models"
)

// Client is the upstream surface used while receiving.
type Client interface {
	GetPurchaseOrder(ctx context.Context, token, id string) (models.PurchaseOrder, error)
	ReceivePurchaseOrder(ctx context.Context, token, id string, payload any) (models.PurchaseOrder, error)
}

// PreviewReceiptQueryHandler returns the clamped plan and any validation
// errors without submitting.
func PreviewReceiptQueryHandler(client Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cred, ok := sharedcontext.GetCredentialFromContext(r.Context())
		if !ok {
			respond.Unauthorized(w)
			return
		}
		po, req, ok := loadOrderAndRequest(w, r, client, cred)
		if !ok {
			return
		}
		respond.JSON(w, http.StatusOK, BuildPlan(po, req, time.Now()))
	}
}

// ReceiveCommandHandler submits received batches against a purchase order.
func ReceiveCommandHandler(client Client, auditSvc *audit.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cred, ok := sharedcontext.GetCredentialFromContext(r.Context())
		if !ok {
			respond.Unauthorized(w)
			return
		}
		po, req, ok := loadOrderAndRequest(w, r, client, cred)
		if !ok {
			return
		}
		if err := CheckOpen(po); err != nil {
			respond.Message(w, http.StatusConflict, "purchase order is "+po.Status)
			return
		}

		now := time.Now()
		plan := BuildPlan(po, req, now)
		if len(plan.Errors) > 0 {
			respond.Validation(w, summarize(plan.Errors), plan.Errors)
			return
		}

		payload := BuildPayload(po, plan, req, now)
		updated, err := client.ReceivePurchaseOrder(r.Context(), cred.Token, po.ID, payload)
		if err != nil {
			respond.UpstreamError(w, err)
			return
		}

		if err := auditSvc.Record(r.Context(), audit.Entry{
			Actor:      cred.Actor(),
			ClinicID:   po.ClinicID,
			Action:     "purchase_order.receive",
			EntityType: "purchase_order",
			EntityID:   po.ID,
			Before:     map[string]any{"status": po.Status},
			After:      map[string]any{"status": plan.Status, "lines": plan.Lines},
		}); err != nil {
			slog.Error("record receiving audit failed", slog.String("purchase_order_id", po.ID), slog.Any("err", err))
		}
		if updated.ID == "" {
			updated = po
			updated.Status = plan.Status
		}
		respond.JSON(w, http.StatusOK, updated)
	}
}

func loadOrderAndRequest(w http.ResponseWriter, r *http.Request, client Client, cred models.Credential) (models.PurchaseOrder, ReceiveRequest, bool) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		respond.Message(w, http.StatusBadRequest, "invalid purchase order id")
		return models.PurchaseOrder{}, ReceiveRequest{}, false
	}
	var req ReceiveRequest
	if !respond.DecodeJSON(w, r, &req) {
		return models.PurchaseOrder{}, ReceiveRequest{}, false
	}
	po, err := client.GetPurchaseOrder(r.Context(), cred.Token, id)
	if err != nil {
		respond.UpstreamError(w, err)
		return models.PurchaseOrder{}, ReceiveRequest{}, false
	}
	if po.ID == "" {
		po.ID = id
	}
	return po, req, true
}

func summarize(errs map[string]string) string {
	if msg, ok := errs["items"]; ok && len(errs) == 1 {
		return msg
	}
	return "receiving has invalid entries"
}
