package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Credential is the caller identity resolved once per request from the
// token cookie or Authorization header.
type Credential struct {
	Token     string
	Subject   string
	Name      string
	Role      string
	ClinicID  string
	ExpiresAt *time.Time
	// Verified is set when the token signature was checked against the
	// configured secret.
	Verified bool
}

// Expired returns true when the token carries an expiry that has passed.
func (c Credential) Expired() bool {
	return c.ExpiresAt != nil && time.Now().After(*c.ExpiresAt)
}

// Actor names the caller in audit and export records.
func (c Credential) Actor() string {
	if c.Subject != "" {
		return c.Subject
	}
	return "anonymous"
}

// AuditLog captures immutable change history for mutations relayed upstream.
type AuditLog struct {
	bun.BaseModel `bun:"table:audit_logs,alias:al"`

	ID         int64     `bun:"id,pk,autoincrement"`
	Actor      string    `bun:"actor,notnull"`
	ClinicID   string    `bun:"clinic_id"`
	Action     string    `bun:"action,notnull"`
	EntityType string    `bun:"entity_type,notnull"`
	EntityID   string    `bun:"entity_id,notnull"`
	BeforeJSON string    `bun:"before_json"`
	AfterJSON  string    `bun:"after_json"`
	CreatedAt  time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

// ExportRun records each spreadsheet export served to a user.
type ExportRun struct {
	bun.BaseModel `bun:"table:export_runs,alias:er"`

	ID         int64     `bun:"id,pk,autoincrement"`
	Actor      string    `bun:"actor,notnull"`
	ClinicID   string    `bun:"clinic_id"`
	ExportType string    `bun:"export_type,notnull"`
	RowCount   int       `bun:"row_count,notnull,default:0"`
	CreatedAt  time.Time `bun:"created_at,notnull,default:current_timestamp"`
}
