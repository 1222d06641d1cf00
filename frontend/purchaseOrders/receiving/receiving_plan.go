package receiving

import (
	"fmt"
	"math"
	"strings"
	"time"

	"vetgateway/models"
)

// ClampBatches caps each batch at what is left of max after the batches
// before it. Results are never negative.
func ClampBatches(max float64, requested []float64) []float64 {
	out := make([]float64, len(requested))
	used := 0.0
	for i, q := range requested {
		remaining := math.Max(0, max-used)
		q = math.Max(0, q)
		if q > remaining {
			q = remaining
		}
		out[i] = q
		used += q
	}
	return out
}

// CheckOpen rejects receiving against cancelled or completed orders.
func CheckOpen(po models.PurchaseOrder) error {
	switch po.Status {
	case models.POStatusCancelled, models.POStatusReceived:
		return fmt.Errorf("%w: status %s", ErrOrderClosed, po.Status)
	}
	return nil
}

// BuildPlan clamps, validates and derives the resulting order status.
// Day-level comparisons are made against now.
func BuildPlan(po models.PurchaseOrder, req ReceiveRequest, now time.Time) Plan {
	plan := Plan{PurchaseOrderID: po.ID, Lines: []LinePlan{}}
	errs := map[string]string{}
	today := models.StartOfDay(now)

	lines := make(map[string]models.PurchaseOrderItem, len(po.Items))
	for _, it := range po.Items {
		lines[it.ID] = it
	}
	used := map[string]float64{}
	positive := false

	for i, in := range req.Items {
		line, ok := lines[in.PurchaseOrderItemID]
		if !ok {
			errs[fmt.Sprintf("items[%d].purchaseOrderItemId", i)] = "item is not on this purchase order"
			continue
		}
		max := math.Max(0, line.QuantityOrdered-line.QuantityReceived)
		lp := LinePlan{
			PurchaseOrderItemID: line.ID,
			ProductID:           line.ProductID,
			QuantityOrdered:     line.QuantityOrdered,
			AlreadyReceived:     line.QuantityReceived,
			MaxReceivable:       max,
			Batches:             []PlannedBatch{},
		}

		requested := make([]float64, len(in.Batches))
		for j, b := range in.Batches {
			prefix := fmt.Sprintf("items[%d].batches[%d].", i, j)
			if b.QuantityReceived < 0 {
				errs[prefix+"quantityReceived"] = "quantity must not be negative"
			}
			requested[j] = b.QuantityReceived
			validateDates(b, today, prefix, errs)
		}

		// Earlier lines for the same item consume the allowance first.
		clamped := ClampBatches(max-used[line.ID], requested)
		for j, q := range clamped {
			used[line.ID] += q
			if q <= 0 {
				continue
			}
			b := in.Batches[j]
			b.QuantityReceived = q
			b.BatchNumber = strings.TrimSpace(b.BatchNumber)
			lp.Batches = append(lp.Batches, PlannedBatch{
				BatchInput: b,
				Requested:  requested[j],
				Clamped:    q < requested[j],
			})
			lp.Receiving += q
			positive = true
		}
		plan.Lines = append(plan.Lines, lp)
	}

	if !positive {
		errs["items"] = "at least one batch with a positive quantity is required"
	}
	plan.Status = deriveStatus(po, used)
	if len(errs) > 0 {
		plan.Errors = errs
	}
	return plan
}

func validateDates(b BatchInput, today time.Time, prefix string, errs map[string]string) {
	if s := strings.TrimSpace(b.DateOfManufacture); s != "" {
		t, err := models.ParseDate(s)
		switch {
		case err != nil:
			errs[prefix+"dateOfManufacture"] = "manufacture date is invalid"
		case models.StartOfDay(t).After(today):
			errs[prefix+"dateOfManufacture"] = "manufacture date cannot be in the future"
		}
	}
	if s := strings.TrimSpace(b.ExpiryDate); s != "" {
		t, err := models.ParseDate(s)
		switch {
		case err != nil:
			errs[prefix+"expiryDate"] = "expiry date is invalid"
		case models.StartOfDay(t).Before(today):
			errs[prefix+"expiryDate"] = "expiry date cannot be in the past"
		}
	}
}

// deriveStatus is received when every line is fully received after this
// submission, otherwise partial.
func deriveStatus(po models.PurchaseOrder, receiving map[string]float64) string {
	if len(po.Items) == 0 {
		return models.POStatusPartial
	}
	for _, it := range po.Items {
		if it.QuantityReceived+receiving[it.ID] < it.QuantityOrdered {
			return models.POStatusPartial
		}
	}
	return models.POStatusReceived
}

// BuildPayload turns a valid plan into the upstream submission.
func BuildPayload(po models.PurchaseOrder, plan Plan, req ReceiveRequest, now time.Time) Payload {
	receivedAt := models.NewDate(now.UTC())
	if s := strings.TrimSpace(req.ReceivedDate); s != "" {
		if t, err := models.ParseDate(s); err == nil {
			receivedAt = models.NewDate(t)
		}
	}
	lines := make(map[string]models.PurchaseOrderItem, len(po.Items))
	for _, it := range po.Items {
		lines[it.ID] = it
	}

	p := Payload{
		PurchaseOrderID: po.ID,
		Status:          plan.Status,
		ReceivedDate:    receivedAt,
		Notes:           strings.TrimSpace(req.Notes),
		Items:           []models.ReceivedItem{},
	}
	for _, lp := range plan.Lines {
		line := lines[lp.PurchaseOrderItemID]
		for _, b := range lp.Batches {
			p.Items = append(p.Items, models.ReceivedItem{
				PurchaseOrderID:     po.ID,
				PurchaseOrderItemID: line.ID,
				OrderNumber:         po.OrderNumber,
				SupplierName:        po.SupplierName(),
				ProductID:           line.ProductID,
				Product:             line.Product,
				QuantityReceived:    b.QuantityReceived,
				BatchNumber:         b.BatchNumber,
				LotNumber:           strings.TrimSpace(b.LotNumber),
				Barcode:             strings.TrimSpace(b.Barcode),
				ExpiryDate:          optionalDate(b.ExpiryDate),
				DateOfManufacture:   optionalDate(b.DateOfManufacture),
				ReceivedDate:        receivedAt,
				UnitCost:            line.UnitCost,
				Shelf:               optionalString(b.Shelf),
				Bin:                 optionalString(b.Bin),
			})
		}
	}
	return p
}

func optionalDate(s string) *models.Date {
	t, err := models.ParseDate(s)
	if err != nil {
		return nil
	}
	return models.NewDate(t)
}

func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
