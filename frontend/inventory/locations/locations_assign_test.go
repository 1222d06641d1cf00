package locations

import (
	"context"
	"errors"
	"sync"
	"testing"

	"vetgateway/models"
)

type fakeStore struct {
	mu      sync.Mutex
	sources Sources
	listErr error
	putErr  error

	inventoryPuts []models.InventoryItem
	receivedPuts  []models.ReceivedItem
	historyPuts   []models.ReceivedItem
}

func (f *fakeStore) ListInventory(context.Context, string, string) ([]models.InventoryItem, error) {
	return f.sources.Inventory, f.listErr
}

func (f *fakeStore) ListPurchaseOrders(context.Context, string, string) ([]models.PurchaseOrder, error) {
	return f.sources.PurchaseOrders, nil
}

func (f *fakeStore) ListReceivedItems(context.Context, string, string) ([]models.ReceivedItem, error) {
	return f.sources.Received, nil
}

func (f *fakeStore) ListReceivingHistory(context.Context, string, string) ([]models.ReceivedItem, error) {
	return f.sources.History, nil
}

func (f *fakeStore) UpdateInventoryItem(_ context.Context, _ string, item models.InventoryItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.putErr != nil {
		return f.putErr
	}
	f.inventoryPuts = append(f.inventoryPuts, item)
	return nil
}

func (f *fakeStore) UpdateReceivedItem(_ context.Context, _ string, item models.ReceivedItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.putErr != nil {
		return f.putErr
	}
	f.receivedPuts = append(f.receivedPuts, item)
	return nil
}

func (f *fakeStore) UpdateReceivingHistoryItem(_ context.Context, _ string, item models.ReceivedItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.putErr != nil {
		return f.putErr
	}
	f.historyPuts = append(f.historyPuts, item)
	return nil
}

var testCred = models.Credential{Token: "tok", Subject: "u-1"}

func TestAssignLocation_InventoryBatchUpdatesEveryRow(t *testing.T) {
	t.Parallel()

	store := &fakeStore{sources: Sources{Inventory: []models.InventoryItem{
		{ID: "i1", ProductID: "P", BatchNumber: "B", QuantityOnHand: 2},
		{ID: "i2", ProductID: "P", BatchNumber: "B", QuantityOnHand: 3, Location: strPtr("OLD-1")},
		{ID: "i3", ProductID: "P", BatchNumber: "OTHER", QuantityOnHand: 1},
	}}}

	res, err := AssignLocation(context.Background(), store, nil, testCred, "c1", "P-B", AssignLocationRequest{Shelf: "A", Bin: "7"})
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if res.Target != SourceInventory || len(res.RecordIDs) != 2 {
		t.Fatalf("unexpected result %+v", res)
	}
	if len(store.inventoryPuts) != 2 {
		t.Fatalf("expected 2 inventory updates, got %d", len(store.inventoryPuts))
	}
	for _, it := range store.inventoryPuts {
		if it.Location == nil || *it.Location != "A-7" {
			t.Fatalf("expected location A-7, got %+v", it)
		}
		if it.BatchNumber != "B" {
			t.Fatalf("updated row outside the batch: %+v", it)
		}
	}
	if len(store.receivedPuts)+len(store.historyPuts) != 0 {
		t.Fatal("no received/history updates expected")
	}
}

func TestAssignLocation_HistoryTakesPriority(t *testing.T) {
	t.Parallel()

	store := &fakeStore{sources: Sources{
		Inventory: []models.InventoryItem{{ID: "i1", ProductID: "P", BatchNumber: "B"}},
		Received:  []models.ReceivedItem{{ID: "r1", ProductID: "P", BatchNumber: "B"}},
		History:   []models.ReceivedItem{{ID: "h1", ProductID: "P", BatchNumber: "B", LotNumber: "L-1"}},
	}}

	res, err := AssignLocation(context.Background(), store, nil, testCred, "c1", "P-B", AssignLocationRequest{Shelf: " C ", Bin: "3"})
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if res.Target != SourceHistory || len(store.historyPuts) != 1 {
		t.Fatalf("expected one history update, got %+v", res)
	}
	put := store.historyPuts[0]
	if *put.Shelf != "C" || *put.Bin != "3" || put.LotNumber != "L-1" {
		t.Fatalf("history update should keep the record and set shelf/bin, got %+v", put)
	}
	if len(store.inventoryPuts)+len(store.receivedPuts) != 0 {
		t.Fatal("only the history item should be updated")
	}
	if res.Batch.Location == nil || *res.Batch.Location != "C-3" {
		t.Fatalf("unexpected batch after assignment %+v", res.Batch)
	}
}

func TestAssignLocation_ReceivedWithoutHistory(t *testing.T) {
	t.Parallel()

	store := &fakeStore{sources: Sources{Received: []models.ReceivedItem{{ID: "r1", ProductID: "P", BatchNumber: "B"}}}}
	res, err := AssignLocation(context.Background(), store, nil, testCred, "c1", "P-B", AssignLocationRequest{Shelf: "A", Bin: "1"})
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if res.Target != SourceReceived || len(store.receivedPuts) != 1 || store.receivedPuts[0].ID != "r1" {
		t.Fatalf("expected received update, got %+v", res)
	}
}

func TestAssignLocation_PurchaseOrderOnlyHasNoTarget(t *testing.T) {
	t.Parallel()

	store := &fakeStore{sources: Sources{PurchaseOrders: []models.PurchaseOrder{{
		ID: "po1", Items: []models.PurchaseOrderItem{{ID: "l1", ProductID: "P", BatchNumber: "B", QuantityOrdered: 5}},
	}}}}
	_, err := AssignLocation(context.Background(), store, nil, testCred, "c1", "P-B", AssignLocationRequest{Shelf: "A", Bin: "1"})
	if !errors.Is(err, ErrNoLocationTarget) {
		t.Fatalf("expected ErrNoLocationTarget, got %v", err)
	}
}

func TestAssignLocation_UnknownBatch(t *testing.T) {
	t.Parallel()

	_, err := AssignLocation(context.Background(), &fakeStore{}, nil, testCred, "c1", "X-Y", AssignLocationRequest{Shelf: "A", Bin: "1"})
	if !errors.Is(err, ErrBatchNotFound) {
		t.Fatalf("expected ErrBatchNotFound, got %v", err)
	}
}

func TestAssignLocation_UpstreamFailureIsReturned(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	store := &fakeStore{
		sources: Sources{Inventory: []models.InventoryItem{{ID: "i1", ProductID: "P", BatchNumber: "B"}}},
		putErr:  boom,
	}
	_, err := AssignLocation(context.Background(), store, nil, testCred, "c1", "P-B", AssignLocationRequest{Shelf: "A", Bin: "1"})
	if !errors.Is(err, boom) {
		t.Fatalf("expected upstream error, got %v", err)
	}
}

func TestValidateAssign(t *testing.T) {
	t.Parallel()

	errs := ValidateAssign(AssignLocationRequest{Shelf: "A-1", Bin: ""})
	if errs["shelf"] == "" || errs["bin"] == "" {
		t.Fatalf("expected shelf and bin errors, got %v", errs)
	}
	if errs := ValidateAssign(AssignLocationRequest{Shelf: "A", Bin: "1-2"}); len(errs) != 0 {
		t.Fatalf("expected valid request, got %v", errs)
	}
}
