package activity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/uptrace/bun"

	sharedcontext "vetgateway/frontend/shared/context"
	"vetgateway/infrastructure/sqlite"
	"vetgateway/models"
)

func openActivityTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db, err := sqlite.OpenDB(filepath.Join(t.TempDir(), "activity-test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})
	if err := sqlite.ApplyEmbeddedMigrations(context.Background(), db); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}

	err = db.WithWriteTx(context.Background(), func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.ExecContext(ctx, `
INSERT INTO audit_logs (actor, clinic_id, action, entity_type, entity_id, before_json, after_json, created_at)
VALUES
('u-1', 'c1', 'purchase_order.create', 'purchase_order', 'po-1', '', '{"status":"pending"}', DATETIME('now', '-5 minutes')),
('u-1', 'c1', 'batch.location.assign', 'batch', 'P1-B1', '{"shelf":null}', '{"shelf":"A"}', DATETIME('now', '-3 minutes')),
('u-2', 'c1', 'purchase_order.receive', 'purchase_order', 'po-1', '', '{"status":"partial"}', DATETIME('now', '-1 minutes')),
('', 'c2', 'patient.update', 'patient', 'pt-9', '', '{}', DATETIME('now'))`)
		return err
	})
	if err != nil {
		t.Fatalf("seed audit logs: %v", err)
	}
	return db
}

func TestLoadActivity_FiltersAndOrders(t *testing.T) {
	db := openActivityTestDB(t)

	rows, err := LoadActivity(context.Background(), db, Query{ClinicID: "c1", EntityType: "PURCHASE_ORDER"})
	if err != nil {
		t.Fatalf("load activity: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 purchase order rows, got %d", len(rows))
	}
	if rows[0].Action != "purchase_order.receive" || rows[1].Action != "purchase_order.create" {
		t.Fatalf("expected newest first, got %s then %s", rows[0].Action, rows[1].Action)
	}

	rows, err = LoadActivity(context.Background(), db, Query{ClinicID: "c1", Limit: 1})
	if err != nil {
		t.Fatalf("load activity: %v", err)
	}
	if len(rows) != 1 || rows[0].Action != "purchase_order.receive" {
		t.Fatalf("unexpected limited rows %+v", rows)
	}
}

func TestLoadActivity_DefaultsBlankActor(t *testing.T) {
	db := openActivityTestDB(t)
	rows, err := LoadActivity(context.Background(), db, Query{ClinicID: "c2"})
	if err != nil {
		t.Fatalf("load activity: %v", err)
	}
	if len(rows) != 1 || rows[0].Actor != "-" {
		t.Fatalf("unexpected rows %+v", rows)
	}
}

var verifiedCred = models.Credential{Token: "t", Subject: "u-1", ClinicID: "c1", Verified: true}

func TestActivityQueryHandler(t *testing.T) {
	db := openActivityTestDB(t)
	h := ActivityQueryHandler(db)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/activity", nil))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/activity?entityType=batch", nil)
	req = req.WithContext(sharedcontext.NewContextWithCredential(req.Context(), verifiedCred))
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var rows []LogRow
	if err := json.Unmarshal(rr.Body.Bytes(), &rows); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(rows) != 1 || rows[0].EntityID != "P1-B1" {
		t.Fatalf("unexpected rows %+v", rows)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/activity?limit=abc", nil)
	req = req.WithContext(sharedcontext.NewContextWithCredential(req.Context(), verifiedCred))
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rr.Code)
	}
}

func TestActivityQueryHandler_RejectsUnverifiedAndCrossClinic(t *testing.T) {
	h := ActivityQueryHandler(openActivityTestDB(t))
	cases := []struct {
		name   string
		target string
		cred   models.Credential
	}{
		{"opaque token", "/api/activity", models.Credential{Token: "totally-forged"}},
		{"opaque token naming a clinic", "/api/activity?clinicId=c2", models.Credential{Token: "totally-forged"}},
		{"unverified claims", "/api/activity", models.Credential{Token: "t", Subject: "u-1", ClinicID: "c2"}},
		{"verified token without clinic", "/api/activity", models.Credential{Token: "t", Subject: "u-1", Verified: true}},
		{"other clinic", "/api/activity?clinicId=c2", verifiedCred},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.target, nil)
			req = req.WithContext(sharedcontext.NewContextWithCredential(req.Context(), tc.cred))
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)
			if rr.Code != http.StatusForbidden {
				t.Fatalf("expected 403, got %d: %s", rr.Code, rr.Body.String())
			}
			if strings.Contains(rr.Body.String(), "pt-9") {
				t.Fatalf("leaked another clinic's entry: %s", rr.Body.String())
			}
		})
	}

	req := httptest.NewRequest(http.MethodGet, "/api/activity?clinicId=c1", nil)
	req = req.WithContext(sharedcontext.NewContextWithCredential(req.Context(), verifiedCred))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK || strings.Contains(rr.Body.String(), "pt-9") {
		t.Fatalf("expected own clinic only, got %d %s", rr.Code, rr.Body.String())
	}
}
