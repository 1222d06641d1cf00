package locations

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	sharedcontext "vetgateway/frontend/shared/context"
	"vetgateway/frontend/shared/respond"
	"vetgateway/infrastructure/audit"
)

// ListBatchesQueryHandler serves the reconciled batch listing for one tab.
func ListBatchesQueryHandler(src Source) http.HandlerFunc {
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
		batches, _, err := LoadBatches(r.Context(), src, cred.Token, clinicID)
		if err != nil {
			respond.UpstreamError(w, err)
			return
		}
		respond.JSON(w, http.StatusOK, Build(batches, ParseFilter(r.URL.Query())))
	}
}

// AssignLocationCommandHandler sets the shelf/bin of one batch.
func AssignLocationCommandHandler(store Store, auditSvc *audit.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cred, ok := sharedcontext.GetCredentialFromContext(r.Context())
		if !ok {
			respond.Unauthorized(w)
			return
		}
		key, err := batchKeyParam(r)
		if err != nil {
			respond.Message(w, http.StatusBadRequest, "invalid batch key")
			return
		}
		var req AssignLocationRequest
		if !respond.DecodeJSON(w, r, &req) {
			return
		}
		if errs := ValidateAssign(req); len(errs) > 0 {
			respond.Validation(w, "invalid location", errs)
			return
		}
		clinicID := sharedcontext.ResolveClinicID(r.Context(), r.URL.Query().Get("clinicId"))
		if clinicID == "" {
			respond.Message(w, http.StatusBadRequest, "clinicId is required")
			return
		}

		result, err := AssignLocation(r.Context(), store, auditSvc, cred, clinicID, key, req)
		switch {
		case errors.Is(err, ErrBatchNotFound):
			respond.Message(w, http.StatusNotFound, "batch not found")
			return
		case errors.Is(err, ErrNoLocationTarget):
			respond.Validation(w, "batch cannot be located", map[string]string{"key": "batch only exists on a purchase order"})
			return
		case err != nil:
			respond.UpstreamError(w, err)
			return
		}
		respond.JSON(w, http.StatusOK, result)
	}
}

// BatchLabelsQueryHandler renders labels for the batch in the path, or for
// every key= query value when the path has none.
func BatchLabelsQueryHandler(src Source) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cred, ok := sharedcontext.GetCredentialFromContext(r.Context())
		if !ok {
			respond.Unauthorized(w)
			return
		}
		var keys []string
		if chi.URLParam(r, "key") != "" {
			key, err := batchKeyParam(r)
			if err != nil {
				respond.Message(w, http.StatusBadRequest, "invalid batch key")
				return
			}
			keys = []string{key}
		} else {
			keys = r.URL.Query()["key"]
		}
		if len(keys) == 0 {
			respond.Message(w, http.StatusBadRequest, "no batch selected")
			return
		}
		clinicID := sharedcontext.ResolveClinicID(r.Context(), r.URL.Query().Get("clinicId"))
		if clinicID == "" {
			respond.Message(w, http.StatusBadRequest, "clinicId is required")
			return
		}

		batches, _, err := LoadBatches(r.Context(), src, cred.Token, clinicID)
		if err != nil {
			respond.UpstreamError(w, err)
			return
		}
		byKey := make(map[string]BatchData, len(batches))
		for _, b := range batches {
			byKey[b.Key] = b
		}
		selected := make([]BatchData, 0, len(keys))
		for _, k := range keys {
			b, ok := byKey[k]
			if !ok {
				respond.Message(w, http.StatusNotFound, "batch not found: "+k)
				return
			}
			selected = append(selected, b)
		}

		pdfBytes, err := renderBatchLabelsPDF(selected, time.Now())
		if err != nil {
			respond.Message(w, http.StatusInternalServerError, "failed to render label")
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", labelFilename(selected)))
		_, _ = w.Write(pdfBytes)
	}
}

// ParseFilter reads listing filters from query parameters.
func ParseFilter(q url.Values) Filter {
	f := Filter{
		Tab:         strings.ToLower(strings.TrimSpace(q.Get("tab"))),
		Search:      q.Get("search"),
		Shelf:       strings.TrimSpace(q.Get("shelf")),
		Bin:         strings.TrimSpace(q.Get("bin")),
		BatchNumber: strings.TrimSpace(q.Get("batchNumber")),
	}
	switch strings.ToLower(strings.TrimSpace(q.Get("hasLocation"))) {
	case "true", "yes", "1":
		v := true
		f.HasLocation = &v
	case "false", "no", "0":
		v := false
		f.HasLocation = &v
	}
	return f
}

func batchKeyParam(r *http.Request) (string, error) {
	key, err := url.PathUnescape(chi.URLParam(r, "key"))
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(key) == "" {
		return "", errors.New("empty key")
	}
	return key, nil
}

func labelFilename(batches []BatchData) string {
	if len(batches) == 1 {
		return "batch-" + sanitizeFilename(batches[0].BatchNumber) + ".pdf"
	}
	return "batch-labels-" + strconv.Itoa(len(batches)) + ".pdf"
}

func sanitizeFilename(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, s)
}
