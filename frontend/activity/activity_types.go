package activity

// Query narrows the activity feed. Empty fields match everything.
type Query struct {
	ClinicID   string
	EntityType string
	EntityID   string
	Limit      int
}

type LogRow struct {
	ID         int64  `json:"id"`
	CreatedAt  string `json:"createdAt"`
	Actor      string `json:"actor"`
	Action     string `json:"action"`
	EntityType string `json:"entityType"`
	EntityID   string `json:"entityId"`
	BeforeJSON string `json:"before,omitempty"`
	AfterJSON  string `json:"after,omitempty"`
}
