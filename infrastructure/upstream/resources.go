package upstream

import (
	"bytes"
	"context"
	"net/http"
	"net/url"
	"strconv"

	"vetgateway/models"
)

const (
	inventoryPath        = "/api/Inventory"
	purchaseOrderPath    = "/api/PurchaseOrder"
	receivedItemPath     = "/api/PurchaseOrderReceived"
	receivingHistoryPath = "/api/PurchaseOrderReceivingHistory"
	supplierPath         = "/api/Supplier"
	loginPath            = "/api/Auth/login"
)

func (c *Client) clinicQuery(clinicID string) url.Values {
	q := url.Values{}
	q.Set("clinicId", clinicID)
	q.Set("pageSize", strconv.Itoa(c.pageSize))
	return q
}

func (c *Client) ListInventory(ctx context.Context, token, clinicID string) ([]models.InventoryItem, error) {
	return list[models.InventoryItem](ctx, c, token, inventoryPath, c.clinicQuery(clinicID))
}

func (c *Client) ListPurchaseOrders(ctx context.Context, token, clinicID string) ([]models.PurchaseOrder, error) {
	return list[models.PurchaseOrder](ctx, c, token, purchaseOrderPath, c.clinicQuery(clinicID))
}

func (c *Client) ListReceivedItems(ctx context.Context, token, clinicID string) ([]models.ReceivedItem, error) {
	return list[models.ReceivedItem](ctx, c, token, receivedItemPath, c.clinicQuery(clinicID))
}

func (c *Client) ListReceivingHistory(ctx context.Context, token, clinicID string) ([]models.ReceivedItem, error) {
	return list[models.ReceivedItem](ctx, c, token, receivingHistoryPath, c.clinicQuery(clinicID))
}

func (c *Client) UpdateInventoryItem(ctx context.Context, token string, item models.InventoryItem) error {
	return c.SendJSON(ctx, token, http.MethodPut, inventoryPath+"/"+url.PathEscape(item.ID), item, nil)
}

func (c *Client) UpdateReceivedItem(ctx context.Context, token string, item models.ReceivedItem) error {
	return c.SendJSON(ctx, token, http.MethodPut, receivedItemPath+"/"+url.PathEscape(item.ID), item, nil)
}

func (c *Client) UpdateReceivingHistoryItem(ctx context.Context, token string, item models.ReceivedItem) error {
	return c.SendJSON(ctx, token, http.MethodPut, receivingHistoryPath+"/"+url.PathEscape(item.ID), item, nil)
}

func (c *Client) GetSupplier(ctx context.Context, token, supplierID string) (models.Supplier, error) {
	var s models.Supplier
	err := c.GetJSON(ctx, token, supplierPath+"/"+url.PathEscape(supplierID), nil, &s)
	return s, err
}

func (c *Client) GetPurchaseOrder(ctx context.Context, token, id string) (models.PurchaseOrder, error) {
	var po models.PurchaseOrder
	err := c.GetJSON(ctx, token, purchaseOrderPath+"/"+url.PathEscape(id), nil, &po)
	return po, err
}

func (c *Client) CreatePurchaseOrder(ctx context.Context, token string, po models.PurchaseOrder) (models.PurchaseOrder, error) {
	var created models.PurchaseOrder
	err := c.SendJSON(ctx, token, http.MethodPost, purchaseOrderPath, po, &created)
	return created, err
}

// ReceivePurchaseOrder posts a receiving submission; payload is owned by the
// receiving feature.
func (c *Client) ReceivePurchaseOrder(ctx context.Context, token, id string, payload any) (models.PurchaseOrder, error) {
	var updated models.PurchaseOrder
	err := c.SendJSON(ctx, token, http.MethodPost, purchaseOrderPath+"/"+url.PathEscape(id)+"/receive", payload, &updated)
	return updated, err
}

// Login relays credentials and returns the raw reply so the caller can both
// read the token and pass the body through.
func (c *Client) Login(ctx context.Context, body []byte) (*Response, error) {
	return c.Do(ctx, "", http.MethodPost, loginPath, nil, bytes.NewReader(body), "application/json")
}
