package activity

import (
	"context"
	"strings"

	"github.com/uptrace/bun"

	"vetgateway/infrastructure/sqlite"
)

const (
	defaultLimit = 50
	maxLimit     = 500
)

// LoadActivity returns audit entries newest first.
func LoadActivity(ctx context.Context, db *sqlite.DB, q Query) ([]LogRow, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	type row struct {
		ID         int64  `bun:"id"`
		CreatedAt  string `bun:"created_at_iso"`
		Actor      string `bun:"actor"`
		Action     string `bun:"action"`
		EntityType string `bun:"entity_type"`
		EntityID   string `bun:"entity_id"`
		BeforeJSON string `bun:"before_json"`
		AfterJSON  string `bun:"after_json"`
	}
	rows := make([]row, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		sql := `
SELECT
	al.id,
	COALESCE(strftime('%Y-%m-%dT%H:%M:%SZ', al.created_at), '') AS created_at_iso,
	al.actor,
	al.action,
	al.entity_type,
	al.entity_id,
	COALESCE(al.before_json, '') AS before_json,
	COALESCE(al.after_json, '') AS after_json
FROM audit_logs al
WHERE 1 = 1`
		args := make([]any, 0, 4)
		if q.ClinicID != "" {
			sql += " AND al.clinic_id = ?"
			args = append(args, q.ClinicID)
		}
		if q.EntityType != "" {
			sql += " AND LOWER(al.entity_type) = LOWER(?)"
			args = append(args, q.EntityType)
		}
		if q.EntityID != "" {
			sql += " AND al.entity_id = ?"
			args = append(args, q.EntityID)
		}
		sql += " ORDER BY al.created_at DESC, al.id DESC LIMIT ?"
		args = append(args, limit)
		return tx.NewRaw(sql, args...).Scan(ctx, &rows)
	})
	if err != nil {
		return nil, err
	}

	out := make([]LogRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, LogRow{
			ID:         r.ID,
			CreatedAt:  r.CreatedAt,
			Actor:      defaultActor(r.Actor),
			Action:     strings.TrimSpace(r.Action),
			EntityType: strings.TrimSpace(r.EntityType),
			EntityID:   strings.TrimSpace(r.EntityID),
			BeforeJSON: strings.TrimSpace(r.BeforeJSON),
			AfterJSON:  strings.TrimSpace(r.AfterJSON),
		})
	}
	return out, nil
}

func defaultActor(actor string) string {
	actor = strings.TrimSpace(actor)
	if actor == "" {
		return "-"
	}
	return actor
}
