package audit

import (
	"context"
	"encoding/json"

	"github.com/uptrace/bun"

	"vetgateway/infrastructure/sqlite"
	"vetgateway/models"
)

// Entry describes one change relayed to the clinic API.
type Entry struct {
	Actor      string
	ClinicID   string
	Action     string
	EntityType string
	EntityID   string
	Before     any
	After      any
}

// Service writes audit records into the local sqlite store.
type Service struct {
	db *sqlite.DB
}

func NewService(db *sqlite.DB) *Service {
	return &Service{db: db}
}

// Record writes e in its own transaction. A nil Service is a no-op so
// handlers can run without an audit trail in tests.
func (s *Service) Record(ctx context.Context, e Entry) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return s.Write(ctx, tx, e)
	})
}

// Write inserts e inside the caller's transaction.
func (s *Service) Write(ctx context.Context, tx bun.Tx, e Entry) error {
	beforeJSON, err := marshal(e.Before)
	if err != nil {
		return err
	}
	afterJSON, err := marshal(e.After)
	if err != nil {
		return err
	}
	log := &models.AuditLog{
		Actor:      e.Actor,
		ClinicID:   e.ClinicID,
		Action:     e.Action,
		EntityType: e.EntityType,
		EntityID:   e.EntityID,
		BeforeJSON: beforeJSON,
		AfterJSON:  afterJSON,
	}
	_, err = tx.NewInsert().Model(log).Exec(ctx)
	return err
}

func marshal(v any) (string, error) {
	if v == nil {
		return "", nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
