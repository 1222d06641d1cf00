package locations

import (
	"errors"

	"vetgateway/models"
)

var (
	ErrBatchNotFound    = errors.New("batch not found")
	ErrNoLocationTarget = errors.New("batch has no inventory, received or history record to locate")
)

// Location sources, lowest precedence first.
const (
	SourceInventory     = "inventory"
	SourcePurchaseOrder = "purchaseOrder"
	SourceReceived      = "received"
	SourceHistory       = "history"
)

// Tabs of the batch listing.
const (
	TabLocated   = "located"
	TabUnlocated = "unlocated"
	TabAll       = "all"
)

// BatchData is one product batch reconciled across inventory, purchase
// orders, received items and receiving history.
type BatchData struct {
	Key              string       `json:"key"`
	ProductID        string       `json:"productId"`
	ProductName      string       `json:"productName"`
	ProductNumber    string       `json:"productNumber"`
	BatchNumber      string       `json:"batchNumber"`
	TotalQuantity    float64      `json:"totalQuantity"`
	QuantityOrdered  float64      `json:"quantityOrdered"`
	QuantityReceived float64      `json:"quantityReceived"`
	Location         *string      `json:"location"`
	Shelf            *string      `json:"shelf"`
	Bin              *string      `json:"bin"`
	LocationSource   string       `json:"locationSource,omitempty"`
	ExpirationDate   *models.Date `json:"expirationDate"`
	ReceivedDate     *models.Date `json:"receivedDate"`
	UnitCost         float64      `json:"unitCost"`
	SupplierName     string       `json:"supplierName,omitempty"`
	OrderNumber      string       `json:"orderNumber,omitempty"`
	PurchaseOrderID  string       `json:"purchaseOrderId,omitempty"`

	IsInventoryItem     bool `json:"isInventoryItem"`
	IsPurchaseOrderItem bool `json:"isPurchaseOrderItem"`
	IsReceivedItem      bool `json:"isReceivedItem"`
	IsHistoryItem       bool `json:"isHistoryItem"`

	InventoryItemIDs []string `json:"inventoryItemIds"`
	ReceivedItemID   string   `json:"receivedItemId,omitempty"`
	HistoryItemID    string   `json:"historyItemId,omitempty"`
}

// Located reports whether the batch has a usable storage address.
func (b BatchData) Located() bool {
	return b.Location != nil || (b.Shelf != nil && b.Bin != nil)
}

// Sources are the four clinic collections a listing is built from.
type Sources struct {
	Inventory      []models.InventoryItem
	PurchaseOrders []models.PurchaseOrder
	Received       []models.ReceivedItem
	History        []models.ReceivedItem
}

// Filter narrows a batch listing. Empty fields match everything.
type Filter struct {
	Tab         string
	Search      string
	Shelf       string
	Bin         string
	BatchNumber string
	// HasLocation is nil for "any".
	HasLocation *bool
}

type Listing struct {
	Tab       string      `json:"tab"`
	Batches   []BatchData `json:"batches"`
	Located   int         `json:"locatedCount"`
	Unlocated int         `json:"unlocatedCount"`
	Shelves   []string    `json:"shelves"`
	Bins      []string    `json:"bins"`
}

type AssignLocationRequest struct {
	Shelf string `json:"shelf"`
	Bin   string `json:"bin"`
}

// AssignResult reports which upstream records a location edit touched.
type AssignResult struct {
	Key       string    `json:"key"`
	Target    string    `json:"target"`
	RecordIDs []string  `json:"recordIds"`
	Batch     BatchData `json:"batch"`
}
