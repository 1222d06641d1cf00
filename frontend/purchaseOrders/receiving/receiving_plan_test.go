package receiving

import (
	"errors"
	"testing"
	"time"

	"vetgateway/models"
)

var now = time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)

func order(lines ...models.PurchaseOrderItem) models.PurchaseOrder {
	return models.PurchaseOrder{ID: "po1", OrderNumber: "PO-1", Status: models.POStatusOrdered, Items: lines}
}

func TestClampBatches(t *testing.T) {
	t.Parallel()

	got := ClampBatches(6, []float64{5, 5})
	if got[0] != 5 || got[1] != 1 {
		t.Fatalf("expected [5 1], got %v", got)
	}
	got = ClampBatches(3, []float64{-2, 4, 2})
	if got[0] != 0 || got[1] != 3 || got[2] != 0 {
		t.Fatalf("expected [0 3 0], got %v", got)
	}
	got = ClampBatches(0, []float64{1})
	if got[0] != 0 {
		t.Fatalf("expected [0], got %v", got)
	}
}

func TestBuildPlan_ClampsToRemainingQuantity(t *testing.T) {
	t.Parallel()

	po := order(models.PurchaseOrderItem{ID: "l1", ProductID: "p1", QuantityOrdered: 10, QuantityReceived: 4})
	plan := BuildPlan(po, ReceiveRequest{Items: []LineInput{{
		PurchaseOrderItemID: "l1",
		Batches:             []BatchInput{{QuantityReceived: 5, BatchNumber: "B1"}, {QuantityReceived: 5, BatchNumber: "B2"}},
	}}}, now)

	if len(plan.Errors) != 0 {
		t.Fatalf("unexpected errors %v", plan.Errors)
	}
	line := plan.Lines[0]
	if line.MaxReceivable != 6 || line.Receiving != 6 {
		t.Fatalf("expected line clamped to 6, got %+v", line)
	}
	if line.Batches[0].QuantityReceived != 5 || line.Batches[1].QuantityReceived != 1 || !line.Batches[1].Clamped {
		t.Fatalf("unexpected batches %+v", line.Batches)
	}
	if plan.Status != models.POStatusReceived {
		t.Fatalf("expected received status, got %s", plan.Status)
	}
}

func TestBuildPlan_SumNeverExceedsRemaining(t *testing.T) {
	t.Parallel()

	po := order(models.PurchaseOrderItem{ID: "l1", QuantityOrdered: 7, QuantityReceived: 2})
	plan := BuildPlan(po, ReceiveRequest{Items: []LineInput{
		{PurchaseOrderItemID: "l1", Batches: []BatchInput{{QuantityReceived: 3}, {QuantityReceived: 4}}},
		{PurchaseOrderItemID: "l1", Batches: []BatchInput{{QuantityReceived: 9}}},
	}}, now)

	total := 0.0
	for _, lp := range plan.Lines {
		for _, b := range lp.Batches {
			total += b.QuantityReceived
		}
	}
	if total != 5 {
		t.Fatalf("expected total 5 across lines, got %v", total)
	}
}

func TestBuildPlan_PartialStatusAndDroppedZeroBatches(t *testing.T) {
	t.Parallel()

	po := order(
		models.PurchaseOrderItem{ID: "l1", QuantityOrdered: 10},
		models.PurchaseOrderItem{ID: "l2", QuantityOrdered: 2},
	)
	plan := BuildPlan(po, ReceiveRequest{Items: []LineInput{{
		PurchaseOrderItemID: "l1",
		Batches:             []BatchInput{{QuantityReceived: 0, BatchNumber: "Z"}, {QuantityReceived: 10, BatchNumber: "A"}},
	}}}, now)

	if plan.Status != models.POStatusPartial {
		t.Fatalf("expected partial, got %s", plan.Status)
	}
	if len(plan.Lines[0].Batches) != 1 || plan.Lines[0].Batches[0].BatchNumber != "A" {
		t.Fatalf("zero batch should be dropped, got %+v", plan.Lines[0].Batches)
	}
}

func TestBuildPlan_RejectsNoPositiveBatch(t *testing.T) {
	t.Parallel()

	po := order(models.PurchaseOrderItem{ID: "l1", QuantityOrdered: 5, QuantityReceived: 5})
	plan := BuildPlan(po, ReceiveRequest{Items: []LineInput{{PurchaseOrderItemID: "l1", Batches: []BatchInput{{QuantityReceived: 3}}}}}, now)
	if plan.Errors["items"] == "" {
		t.Fatalf("expected items error, got %v", plan.Errors)
	}
}

func TestBuildPlan_DateChecksAreDayLevel(t *testing.T) {
	t.Parallel()

	po := order(models.PurchaseOrderItem{ID: "l1", QuantityOrdered: 10})
	plan := BuildPlan(po, ReceiveRequest{Items: []LineInput{{
		PurchaseOrderItemID: "l1",
		Batches: []BatchInput{
			{QuantityReceived: 1, DateOfManufacture: "2026-03-10", ExpiryDate: "2026-03-10"},
			{QuantityReceived: 1, DateOfManufacture: "2026-03-11", ExpiryDate: "2026-03-09"},
			{QuantityReceived: 1, DateOfManufacture: "soon"},
		},
	}}}, now)

	if _, bad := plan.Errors["items[0].batches[0].dateOfManufacture"]; bad {
		t.Fatalf("same-day manufacture must be accepted: %v", plan.Errors)
	}
	if _, bad := plan.Errors["items[0].batches[0].expiryDate"]; bad {
		t.Fatalf("same-day expiry must be accepted: %v", plan.Errors)
	}
	if plan.Errors["items[0].batches[1].dateOfManufacture"] != "manufacture date cannot be in the future" {
		t.Fatalf("expected future manufacture error, got %v", plan.Errors)
	}
	if plan.Errors["items[0].batches[1].expiryDate"] != "expiry date cannot be in the past" {
		t.Fatalf("expected past expiry error, got %v", plan.Errors)
	}
	if plan.Errors["items[0].batches[2].dateOfManufacture"] == "" {
		t.Fatalf("expected invalid date error, got %v", plan.Errors)
	}
}

func TestBuildPlan_UnknownLine(t *testing.T) {
	t.Parallel()

	plan := BuildPlan(order(), ReceiveRequest{Items: []LineInput{{PurchaseOrderItemID: "nope", Batches: []BatchInput{{QuantityReceived: 1}}}}}, now)
	if plan.Errors["items[0].purchaseOrderItemId"] == "" {
		t.Fatalf("expected unknown line error, got %v", plan.Errors)
	}
}

func TestCheckOpen(t *testing.T) {
	t.Parallel()

	for _, status := range []string{models.POStatusCancelled, models.POStatusReceived} {
		if err := CheckOpen(models.PurchaseOrder{Status: status}); !errors.Is(err, ErrOrderClosed) {
			t.Fatalf("status %s: expected ErrOrderClosed, got %v", status, err)
		}
	}
	for _, status := range []string{models.POStatusPending, models.POStatusOrdered, models.POStatusPartial} {
		if err := CheckOpen(models.PurchaseOrder{Status: status}); err != nil {
			t.Fatalf("status %s: unexpected error %v", status, err)
		}
	}
}

func TestBuildPayload(t *testing.T) {
	t.Parallel()

	po := order(models.PurchaseOrderItem{ID: "l1", ProductID: "p1", QuantityOrdered: 4, UnitCost: 2.5})
	po.Supplier = &models.SupplierRef{Name: "VetSupply"}
	req := ReceiveRequest{ReceivedDate: "2026-03-09", Items: []LineInput{{
		PurchaseOrderItemID: "l1",
		Batches:             []BatchInput{{QuantityReceived: 4, BatchNumber: " B1 ", ExpiryDate: "2027-01-01", Shelf: "A", Bin: " "}},
	}}}
	plan := BuildPlan(po, req, now)
	p := BuildPayload(po, plan, req, now)

	if p.Status != models.POStatusReceived || len(p.Items) != 1 {
		t.Fatalf("unexpected payload %+v", p)
	}
	it := p.Items[0]
	if it.BatchNumber != "B1" || it.SupplierName != "VetSupply" || it.UnitCost != 2.5 || it.ProductID != "p1" {
		t.Fatalf("unexpected item %+v", it)
	}
	if it.Shelf == nil || *it.Shelf != "A" || it.Bin != nil {
		t.Fatalf("unexpected shelf/bin %v %v", it.Shelf, it.Bin)
	}
	if !it.ExpiryDate.Valid() || it.DateOfManufacture != nil {
		t.Fatalf("unexpected dates %+v", it)
	}
	if p.ReceivedDate.Format("2006-01-02") != "2026-03-09" {
		t.Fatalf("unexpected received date %v", p.ReceivedDate)
	}
}
