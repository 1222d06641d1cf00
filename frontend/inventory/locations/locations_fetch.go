package locations

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"vetgateway/models"
)

// Source reads the clinic collections a batch listing needs.
type Source interface {
	ListInventory(ctx context.Context, token, clinicID string) ([]models.InventoryItem, error)
	ListPurchaseOrders(ctx context.Context, token, clinicID string) ([]models.PurchaseOrder, error)
	ListReceivedItems(ctx context.Context, token, clinicID string) ([]models.ReceivedItem, error)
	ListReceivingHistory(ctx context.Context, token, clinicID string) ([]models.ReceivedItem, error)
}

// FetchSources loads all four collections concurrently. The first failure
// cancels the remaining calls.
func FetchSources(ctx context.Context, src Source, token, clinicID string) (Sources, error) {
	var out Sources
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		items, err := src.ListInventory(gctx, token, clinicID)
		if err != nil {
			return fmt.Errorf("list inventory: %w", err)
		}
		out.Inventory = items
		return nil
	})
	g.Go(func() error {
		items, err := src.ListPurchaseOrders(gctx, token, clinicID)
		if err != nil {
			return fmt.Errorf("list purchase orders: %w", err)
		}
		out.PurchaseOrders = items
		return nil
	})
	g.Go(func() error {
		items, err := src.ListReceivedItems(gctx, token, clinicID)
		if err != nil {
			return fmt.Errorf("list received items: %w", err)
		}
		out.Received = items
		return nil
	})
	g.Go(func() error {
		items, err := src.ListReceivingHistory(gctx, token, clinicID)
		if err != nil {
			return fmt.Errorf("list receiving history: %w", err)
		}
		out.History = items
		return nil
	})
	if err := g.Wait(); err != nil {
		return Sources{}, err
	}
	return out, nil
}

// LoadBatches fetches and merges in one step.
func LoadBatches(ctx context.Context, src Source, token, clinicID string) ([]BatchData, Sources, error) {
	sources, err := FetchSources(ctx, src, token, clinicID)
	if err != nil {
		return nil, Sources{}, err
	}
	return Merge(sources), sources, nil
}
