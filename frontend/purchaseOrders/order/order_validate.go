package order

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"vetgateway/infrastructure/upstream"
	"vetgateway/models"
)

// SupplierLookup resolves a supplier so its active flag can be checked.
type SupplierLookup interface {
	GetSupplier(ctx context.Context, token, supplierID string) (models.Supplier, error)
}

// Validate returns per-field messages for req. The error is non-nil only when
// the supplier lookup itself failed.
func Validate(ctx context.Context, lookup SupplierLookup, token string, req CreateOrderRequest) (map[string]string, error) {
	errs := map[string]string{}

	if strings.TrimSpace(req.SupplierID) == "" {
		errs["supplierId"] = "supplier is required"
	} else if lookup != nil {
		supplier, err := lookup.GetSupplier(ctx, token, req.SupplierID)
		switch {
		case upstream.IsNotFound(err):
			errs["supplierId"] = "supplier not found"
		case err != nil:
			return nil, fmt.Errorf("lookup supplier %s: %w", req.SupplierID, err)
		case !supplier.IsActive:
			errs["supplierId"] = "supplier is inactive"
		}
	}

	if strings.TrimSpace(req.ExpectedDeliveryDate) == "" {
		errs["expectedDeliveryDate"] = "expected delivery date is required"
	} else if _, err := models.ParseDate(req.ExpectedDeliveryDate); err != nil {
		errs["expectedDeliveryDate"] = "expected delivery date is invalid"
	}

	if msg := percentError(req.DiscountPercentage); msg != "" {
		errs["discountPercentage"] = msg
	}

	if len(req.Items) == 0 {
		errs["items"] = "at least one item is required"
	}
	for i, item := range req.Items {
		prefix := fmt.Sprintf("items[%d].", i)
		if strings.TrimSpace(item.ProductID) == "" {
			errs[prefix+"productId"] = "product is required"
		}
		if !item.Quantity.IsPositive() {
			errs[prefix+"quantity"] = "quantity must be greater than 0"
		}
		if item.UnitCost.IsNegative() {
			errs[prefix+"unitCost"] = "unit cost must not be negative"
		}
		if item.TaxAmount.IsNegative() {
			errs[prefix+"taxAmount"] = "tax must not be negative"
		}
		if msg := percentError(item.DiscountPercentage); msg != "" {
			errs[prefix+"discountPercentage"] = msg
		}
	}
	return errs, nil
}

func percentError(p decimal.Decimal) string {
	if p.IsNegative() || p.GreaterThan(hundred) {
		return "discount must be between 0 and 100"
	}
	return ""
}

// Summarize joins field messages into one sentence in field order.
func Summarize(errs map[string]string) string {
	fields := make([]string, 0, len(errs))
	for f := range errs {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	msgs := make([]string, 0, len(fields))
	for _, f := range fields {
		msgs = append(msgs, f+": "+errs[f])
	}
	return strings.Join(msgs, "; ")
}

// BuildPurchaseOrder maps a validated request and its totals to the clinic
// API shape. New orders start pending.
func BuildPurchaseOrder(req CreateOrderRequest, totals OrderTotals, clinicID string, now time.Time) models.PurchaseOrder {
	po := models.PurchaseOrder{
		ClinicID:           clinicID,
		SupplierID:         req.SupplierID,
		Status:             models.POStatusPending,
		OrderDate:          models.NewDate(now.UTC()),
		DiscountPercentage: req.DiscountPercentage.InexactFloat64(),
		DiscountedAmount:   totals.DiscountAmount.InexactFloat64(),
		ExtendedAmount:     totals.Subtotal.InexactFloat64(),
		TaxAmount:          totals.TaxTotal.InexactFloat64(),
		TotalAmount:        totals.Total.InexactFloat64(),
		Notes:              strings.TrimSpace(req.Notes),
		Items:              make([]models.PurchaseOrderItem, 0, len(req.Items)),
	}
	if t, err := models.ParseDate(req.ExpectedDeliveryDate); err == nil {
		po.ExpectedDeliveryDate = models.NewDate(t)
	}
	for i, item := range req.Items {
		lt := totals.Lines[i]
		po.Items = append(po.Items, models.PurchaseOrderItem{
			ProductID:          item.ProductID,
			QuantityOrdered:    item.Quantity.InexactFloat64(),
			UnitCost:           item.UnitCost.InexactFloat64(),
			BatchNumber:        strings.TrimSpace(item.BatchNumber),
			DiscountPercentage: item.DiscountPercentage.InexactFloat64(),
			DiscountedAmount:   lt.DiscountedAmount.InexactFloat64(),
			ExtendedAmount:     lt.ExtendedAmount.InexactFloat64(),
			TaxAmount:          lt.TaxAmount.InexactFloat64(),
			TotalAmount:        lt.TotalAmount.InexactFloat64(),
		})
	}
	return po
}
