package locations

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"vetgateway/infrastructure/audit"
	"vetgateway/models"
)

// Store is the upstream surface a location edit needs.
type Store interface {
	Source
	UpdateInventoryItem(ctx context.Context, token string, item models.InventoryItem) error
	UpdateReceivedItem(ctx context.Context, token string, item models.ReceivedItem) error
	UpdateReceivingHistoryItem(ctx context.Context, token string, item models.ReceivedItem) error
}

// ValidateAssign checks a shelf/bin pair and returns per-field messages.
func ValidateAssign(req AssignLocationRequest) map[string]string {
	errs := map[string]string{}
	shelf := strings.TrimSpace(req.Shelf)
	bin := strings.TrimSpace(req.Bin)
	if shelf == "" {
		errs["shelf"] = "shelf is required"
	} else if strings.Contains(shelf, "-") {
		errs["shelf"] = "shelf must not contain '-'"
	}
	if bin == "" {
		errs["bin"] = "bin is required"
	}
	return errs
}

// AssignLocation writes a shelf/bin to the single upstream record type that
// owns the batch's location: its receiving-history item, else its received
// item, else every inventory row of the batch. The audit entry is recorded
// only after all writes succeed.
func AssignLocation(ctx context.Context, store Store, auditSvc *audit.Service, cred models.Credential, clinicID, key string, req AssignLocationRequest) (AssignResult, error) {
	shelf := strings.TrimSpace(req.Shelf)
	bin := strings.TrimSpace(req.Bin)
	location := shelf + "-" + bin

	batches, sources, err := LoadBatches(ctx, store, cred.Token, clinicID)
	if err != nil {
		return AssignResult{}, err
	}
	var before *BatchData
	for i := range batches {
		if batches[i].Key == key {
			before = &batches[i]
			break
		}
	}
	if before == nil {
		return AssignResult{}, ErrBatchNotFound
	}

	result := AssignResult{Key: key}
	switch {
	case before.IsHistoryItem:
		item, ok := findReceived(sources.History, before.HistoryItemID)
		if !ok {
			return AssignResult{}, fmt.Errorf("history item %s: %w", before.HistoryItemID, ErrBatchNotFound)
		}
		item.Shelf, item.Bin = &shelf, &bin
		if err := store.UpdateReceivingHistoryItem(ctx, cred.Token, item); err != nil {
			return AssignResult{}, fmt.Errorf("update history item %s: %w", item.ID, err)
		}
		result.Target = SourceHistory
		result.RecordIDs = []string{item.ID}
	case before.IsReceivedItem:
		item, ok := findReceived(sources.Received, before.ReceivedItemID)
		if !ok {
			return AssignResult{}, fmt.Errorf("received item %s: %w", before.ReceivedItemID, ErrBatchNotFound)
		}
		item.Shelf, item.Bin = &shelf, &bin
		if err := store.UpdateReceivedItem(ctx, cred.Token, item); err != nil {
			return AssignResult{}, fmt.Errorf("update received item %s: %w", item.ID, err)
		}
		result.Target = SourceReceived
		result.RecordIDs = []string{item.ID}
	case before.IsInventoryItem:
		ids := make(map[string]struct{}, len(before.InventoryItemIDs))
		for _, id := range before.InventoryItemIDs {
			ids[id] = struct{}{}
		}
		for _, item := range sources.Inventory {
			if _, ok := ids[item.ID]; !ok {
				continue
			}
			loc := location
			item.Location = &loc
			if err := store.UpdateInventoryItem(ctx, cred.Token, item); err != nil {
				return AssignResult{}, fmt.Errorf("update inventory item %s: %w", item.ID, err)
			}
			result.RecordIDs = append(result.RecordIDs, item.ID)
		}
		result.Target = SourceInventory
	default:
		return AssignResult{}, ErrNoLocationTarget
	}

	after := *before
	after.Location = &location
	after.Shelf = &shelf
	after.Bin = &bin
	after.LocationSource = result.Target
	result.Batch = after

	err = auditSvc.Record(ctx, audit.Entry{
		Actor:      cred.Actor(),
		ClinicID:   clinicID,
		Action:     "batch.location.assign",
		EntityType: "batch",
		EntityID:   key,
		Before:     locationSnapshot(*before),
		After:      map[string]any{"location": location, "shelf": shelf, "bin": bin, "target": result.Target, "recordIds": result.RecordIDs},
	})
	if err != nil {
		slog.Error("record location audit failed", slog.String("batch", key), slog.Any("err", err))
	}
	return result, nil
}

func findReceived(items []models.ReceivedItem, id string) (models.ReceivedItem, bool) {
	for _, it := range items {
		if it.ID == id {
			return it, true
		}
	}
	return models.ReceivedItem{}, false
}

func locationSnapshot(b BatchData) map[string]any {
	return map[string]any{
		"location":       b.Location,
		"shelf":          b.Shelf,
		"bin":            b.Bin,
		"locationSource": b.LocationSource,
	}
}
