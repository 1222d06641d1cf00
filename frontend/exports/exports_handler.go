package exports

import (
	"bytes"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"vetgateway/frontend/inventory/locations"
	sharedcontext "vetgateway/frontend/shared/context"
	"vetgateway/frontend/shared/respond"
	"vetgateway/models"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type sheetBuilder func(r *http.Request, src Source, token, clinicID string) (Sheet, error)

// BatchesExportHandler exports the batch listing for the requested tab and filters.
func BatchesExportHandler(src Source, runs Runs) http.HandlerFunc {
	return exportHandler(src, runs, TypeBatches, "batches", func(r *http.Request, src Source, token, clinicID string) (Sheet, error) {
		batches, _, err := locations.LoadBatches(r.Context(), src, token, clinicID)
		if err != nil {
			return Sheet{}, err
		}
		listing := locations.Build(batches, locations.ParseFilter(r.URL.Query()))
		return batchSheet(listing.Batches), nil
	})
}

// PurchaseOrdersExportHandler exports every purchase order line.
func PurchaseOrdersExportHandler(src Source, runs Runs) http.HandlerFunc {
	return exportHandler(src, runs, TypePurchaseOrders, "purchase-orders", func(r *http.Request, src Source, token, clinicID string) (Sheet, error) {
		orders, err := src.ListPurchaseOrders(r.Context(), token, clinicID)
		if err != nil {
			return Sheet{}, err
		}
		return purchaseOrderSheet(orders), nil
	})
}

// StockExportHandler exports the raw inventory rows.
func StockExportHandler(src Source, runs Runs) http.HandlerFunc {
	return exportHandler(src, runs, TypeStock, "stock", func(r *http.Request, src Source, token, clinicID string) (Sheet, error) {
		items, err := src.ListInventory(r.Context(), token, clinicID)
		if err != nil {
			return Sheet{}, err
		}
		return stockSheet(items), nil
	})
}

// RecentExportsQueryHandler lists the latest export runs for the caller's clinic.
func RecentExportsQueryHandler(store *RunStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := sharedcontext.GetCredentialFromContext(r.Context()); !ok {
			respond.Unauthorized(w)
			return
		}
		clinicID, ok := sharedcontext.LocalClinicID(r.Context(), r.URL.Query().Get("clinicId"))
		if !ok {
			respond.Message(w, http.StatusForbidden, "export history requires a verified token for the requested clinic")
			return
		}
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		runs, err := store.Recent(r.Context(), clinicID, limit)
		if err != nil {
			slog.Error("list export runs failed", slog.Any("err", err))
			respond.Message(w, http.StatusInternalServerError, err.Error())
			return
		}
		respond.JSON(w, http.StatusOK, runs)
	}
}

func exportHandler(src Source, runs Runs, exportType, filePrefix string, build sheetBuilder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cred, ok := sharedcontext.GetCredentialFromContext(r.Context())
		if !ok {
			respond.Unauthorized(w)
			return
		}
		clinicID := sharedcontext.ResolveClinicID(r.Context(), r.URL.Query().Get("clinicId"))
		if clinicID == "" {
			respond.Message(w, http.StatusBadRequest, "clinicId is required")
			return
		}

		sheet, err := build(r, src, cred.Token, clinicID)
		if err != nil {
			respond.UpstreamError(w, err)
			return
		}
		var buf bytes.Buffer
		if err := writeWorkbook(&buf, sheet); err != nil {
			slog.Error("render workbook failed", slog.String("type", exportType), slog.Any("err", err))
			respond.Message(w, http.StatusInternalServerError, "failed to export workbook")
			return
		}

		filename := filePrefix + "-" + time.Now().Format("20060102") + ".xlsx"
		w.Header().Set("Content-Type", xlsxContentType)
		w.Header().Set("Content-Disposition", "attachment; filename="+filename)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(buf.Bytes())

		if runs == nil {
			return
		}
		if err := runs.Record(r.Context(), models.ExportRun{
			Actor:      cred.Actor(),
			ClinicID:   clinicID,
			ExportType: exportType,
			RowCount:   len(sheet.Rows),
		}); err != nil {
			slog.Error("record export run failed", slog.String("type", exportType), slog.Any("err", err))
		}
	}
}
