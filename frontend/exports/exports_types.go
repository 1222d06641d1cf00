package exports

import (
	"context"

	"vetgateway/frontend/inventory/locations"
	"vetgateway/models"
)

// Export types recorded in export_runs.
const (
	TypeBatches        = "batches_xlsx"
	TypePurchaseOrders = "purchase_orders_xlsx"
	TypeStock          = "stock_xlsx"
)

// Source is the clinic data an export reads. It is the batch listing source
// since the batch workbook needs all four collections.
type Source interface {
	locations.Source
}

// Sheet is one worksheet: a header row followed by data rows.
type Sheet struct {
	Name   string
	Header []string
	Rows   [][]any
}

// Runs persists export history.
type Runs interface {
	Record(ctx context.Context, run models.ExportRun) error
}
