package receiving

import (
	"errors"

	"vetgateway/models"
)

var ErrOrderClosed = errors.New("purchase order is closed for receiving")

// BatchInput is one received batch of an ordered line.
type BatchInput struct {
	QuantityReceived  float64 `json:"quantityReceived"`
	BatchNumber       string  `json:"batchNumber"`
	LotNumber         string  `json:"lotNumber"`
	Barcode           string  `json:"barcode"`
	ExpiryDate        string  `json:"expiryDate"`
	DateOfManufacture string  `json:"dateOfManufacture"`
	Shelf             string  `json:"shelf"`
	Bin               string  `json:"bin"`
}

type LineInput struct {
	PurchaseOrderItemID string       `json:"purchaseOrderItemId"`
	Batches             []BatchInput `json:"batches"`
}

type ReceiveRequest struct {
	ReceivedDate string      `json:"receivedDate"`
	Notes        string      `json:"notes"`
	Items        []LineInput `json:"items"`
}

// PlannedBatch is a batch after clamping.
type PlannedBatch struct {
	BatchInput
	Requested float64 `json:"requested"`
	Clamped   bool    `json:"clamped"`
}

type LinePlan struct {
	PurchaseOrderItemID string         `json:"purchaseOrderItemId"`
	ProductID           string         `json:"productId"`
	QuantityOrdered     float64        `json:"quantityOrdered"`
	AlreadyReceived     float64        `json:"alreadyReceived"`
	MaxReceivable       float64        `json:"maxReceivable"`
	Receiving           float64        `json:"receiving"`
	Batches             []PlannedBatch `json:"batches"`
}

// Plan is what a submission would post upstream.
type Plan struct {
	PurchaseOrderID string            `json:"purchaseOrderId"`
	Status          string            `json:"status"`
	Lines           []LinePlan        `json:"lines"`
	Errors          map[string]string `json:"errors,omitempty"`
}

// Payload is the receiving submission sent to the clinic API.
type Payload struct {
	PurchaseOrderID string                `json:"purchaseOrderId"`
	Status          string                `json:"status"`
	ReceivedDate    *models.Date          `json:"receivedDate"`
	Notes           string                `json:"notes,omitempty"`
	Items           []models.ReceivedItem `json:"items"`
}
