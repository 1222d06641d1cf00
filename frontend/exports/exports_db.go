package exports

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"vetgateway/infrastructure/sqlite"
	"vetgateway/models"
)

// RunStore writes and reads export_runs.
type RunStore struct {
	db *sqlite.DB
}

func NewRunStore(db *sqlite.DB) *RunStore {
	return &RunStore{db: db}
}

func (s *RunStore) Record(ctx context.Context, run models.ExportRun) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewInsert().Model(&run).Exec(ctx)
		return err
	})
}

// Recent lists the latest export runs for a clinic, newest first.
func (s *RunStore) Recent(ctx context.Context, clinicID string, limit int) ([]models.ExportRun, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	runs := make([]models.ExportRun, 0)
	err := s.db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		q := tx.NewSelect().Model(&runs).OrderExpr("er.created_at DESC, er.id DESC").Limit(limit)
		if clinicID != "" {
			q = q.Where("er.clinic_id = ?", clinicID)
		}
		return q.Scan(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("list export runs: %w", err)
	}
	return runs, nil
}
