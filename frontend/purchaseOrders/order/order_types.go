package order

import (
	"github.com/shopspring/decimal"
)

// LineInput is one order line as entered by the user.
type LineInput struct {
	ProductID          string          `json:"productId"`
	Quantity           decimal.Decimal `json:"quantity"`
	UnitCost           decimal.Decimal `json:"unitCost"`
	DiscountPercentage decimal.Decimal `json:"discountPercentage"`
	TaxAmount          decimal.Decimal `json:"taxAmount"`
	BatchNumber        string          `json:"batchNumber,omitempty"`
}

// CreateOrderRequest is the body of a purchase-order create or preview.
type CreateOrderRequest struct {
	ClinicID             string          `json:"clinicId"`
	SupplierID           string          `json:"supplierId"`
	ExpectedDeliveryDate string          `json:"expectedDeliveryDate"`
	DiscountPercentage   decimal.Decimal `json:"discountPercentage"`
	Notes                string          `json:"notes"`
	Items                []LineInput     `json:"items"`
}

// LineTotals are the derived amounts for one line.
type LineTotals struct {
	Subtotal         decimal.Decimal `json:"subtotal"`
	DiscountedAmount decimal.Decimal `json:"discountedAmount"`
	ExtendedAmount   decimal.Decimal `json:"extendedAmount"`
	TaxAmount        decimal.Decimal `json:"taxAmount"`
	TotalAmount      decimal.Decimal `json:"totalAmount"`
}

// OrderTotals are the derived amounts for the whole order.
type OrderTotals struct {
	Lines          []LineTotals    `json:"lines"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	TaxTotal       decimal.Decimal `json:"taxTotal"`
	Total          decimal.Decimal `json:"total"`
}

type PreviewResponse struct {
	Totals OrderTotals       `json:"totals"`
	Errors map[string]string `json:"errors,omitempty"`
	Valid  bool              `json:"valid"`
}
