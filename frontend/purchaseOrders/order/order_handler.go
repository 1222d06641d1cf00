package order

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	sharedcontext "vetgateway/frontend/shared/context"
	"vetgateway/frontend/shared/respond"
	"vetgateway/infrastructure/audit"
	"vetgateway/models"
)

// Client is the upstream surface used to create orders.
type Client interface {
	SupplierLookup
	CreatePurchaseOrder(ctx context.Context, token string, po models.PurchaseOrder) (models.PurchaseOrder, error)
}

// PreviewOrderQueryHandler computes totals and validation without creating
// anything upstream.
func PreviewOrderQueryHandler(lookup SupplierLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cred, ok := sharedcontext.GetCredentialFromContext(r.Context())
		if !ok {
			respond.Unauthorized(w)
			return
		}
		var req CreateOrderRequest
		if !respond.DecodeJSON(w, r, &req) {
			return
		}
		errs, err := Validate(r.Context(), lookup, cred.Token, req)
		if err != nil {
			respond.UpstreamError(w, err)
			return
		}
		respond.JSON(w, http.StatusOK, PreviewResponse{
			Totals: ComputeOrder(req),
			Errors: errs,
			Valid:  len(errs) == 0,
		})
	}
}

// CreateOrderCommandHandler validates, totals and creates a pending order.
func CreateOrderCommandHandler(client Client, auditSvc *audit.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cred, ok := sharedcontext.GetCredentialFromContext(r.Context())
		if !ok {
			respond.Unauthorized(w)
			return
		}
		var req CreateOrderRequest
		if !respond.DecodeJSON(w, r, &req) {
			return
		}
		clinicID := sharedcontext.ResolveClinicID(r.Context(), req.ClinicID)
		errs, err := Validate(r.Context(), client, cred.Token, req)
		if err != nil {
			respond.UpstreamError(w, err)
			return
		}
		if clinicID == "" {
			errs["clinicId"] = "clinic is required"
		}
		if len(errs) > 0 {
			respond.Validation(w, Summarize(errs), errs)
			return
		}

		totals := ComputeOrder(req)
		po := BuildPurchaseOrder(req, totals, clinicID, time.Now())
		created, err := client.CreatePurchaseOrder(r.Context(), cred.Token, po)
		if err != nil {
			respond.UpstreamError(w, err)
			return
		}

		if err := auditSvc.Record(r.Context(), audit.Entry{
			Actor:      cred.Actor(),
			ClinicID:   clinicID,
			Action:     "purchase_order.create",
			EntityType: "purchase_order",
			EntityID:   created.ID,
			After:      created,
		}); err != nil {
			slog.Error("record purchase order audit failed", slog.String("purchase_order_id", created.ID), slog.Any("err", err))
		}
		respond.JSON(w, http.StatusCreated, created)
	}
}
