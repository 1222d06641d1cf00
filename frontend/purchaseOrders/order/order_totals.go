package order

import (
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ComputeLine derives a line's amounts. Tax is an absolute amount added
// after the line discount.
func ComputeLine(l LineInput) LineTotals {
	subtotal := l.Quantity.Mul(l.UnitCost)
	discounted := subtotal.Mul(l.DiscountPercentage).Div(hundred)
	extended := subtotal.Sub(discounted)
	return LineTotals{
		Subtotal:         subtotal.Round(2),
		DiscountedAmount: discounted.Round(2),
		ExtendedAmount:   extended.Round(2),
		TaxAmount:        l.TaxAmount.Round(2),
		TotalAmount:      extended.Add(l.TaxAmount).Round(2),
	}
}

// ComputeOrder sums line amounts and applies the order-level discount to the
// extended subtotal. Tax is not discounted.
func ComputeOrder(req CreateOrderRequest) OrderTotals {
	totals := OrderTotals{Lines: make([]LineTotals, 0, len(req.Items))}
	subtotal := decimal.Zero
	tax := decimal.Zero
	for _, item := range req.Items {
		lt := ComputeLine(item)
		totals.Lines = append(totals.Lines, lt)
		subtotal = subtotal.Add(lt.ExtendedAmount)
		tax = tax.Add(lt.TaxAmount)
	}
	discount := subtotal.Mul(req.DiscountPercentage).Div(hundred).Round(2)
	totals.Subtotal = subtotal
	totals.DiscountAmount = discount
	totals.TaxTotal = tax
	totals.Total = subtotal.Sub(discount).Add(tax)
	return totals
}
