package order

import (
	"testing"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestComputeLine(t *testing.T) {
	t.Parallel()

	lt := ComputeLine(LineInput{Quantity: d("10"), UnitCost: d("12.50"), DiscountPercentage: d("10"), TaxAmount: d("3.75")})
	checks := map[string][2]decimal.Decimal{
		"subtotal":   {lt.Subtotal, d("125")},
		"discounted": {lt.DiscountedAmount, d("12.5")},
		"extended":   {lt.ExtendedAmount, d("112.5")},
		"total":      {lt.TotalAmount, d("116.25")},
	}
	for name, c := range checks {
		if !c[0].Equal(c[1]) {
			t.Fatalf("%s: got %s want %s", name, c[0], c[1])
		}
	}
}

func TestComputeLineMatchesClosedForm(t *testing.T) {
	t.Parallel()

	cases := []LineInput{
		{Quantity: d("3"), UnitCost: d("9.99"), DiscountPercentage: d("0"), TaxAmount: d("0")},
		{Quantity: d("7"), UnitCost: d("1.10"), DiscountPercentage: d("25"), TaxAmount: d("0.5")},
		{Quantity: d("1"), UnitCost: d("100"), DiscountPercentage: d("100"), TaxAmount: d("2")},
	}
	for _, in := range cases {
		lt := ComputeLine(in)
		want := in.Quantity.Mul(in.UnitCost).Mul(decimal.NewFromInt(1).Sub(in.DiscountPercentage.Div(hundred))).Add(in.TaxAmount).Round(2)
		if !lt.TotalAmount.Equal(want) {
			t.Fatalf("total for %+v: got %s want %s", in, lt.TotalAmount, want)
		}
	}
}

func TestComputeOrder(t *testing.T) {
	t.Parallel()

	totals := ComputeOrder(CreateOrderRequest{
		DiscountPercentage: d("10"),
		Items: []LineInput{
			{Quantity: d("2"), UnitCost: d("50"), TaxAmount: d("5")},
			{Quantity: d("1"), UnitCost: d("100"), DiscountPercentage: d("20"), TaxAmount: d("1")},
		},
	})
	if !totals.Subtotal.Equal(d("180")) {
		t.Fatalf("subtotal: got %s", totals.Subtotal)
	}
	if !totals.DiscountAmount.Equal(d("18")) {
		t.Fatalf("discount: got %s", totals.DiscountAmount)
	}
	if !totals.TaxTotal.Equal(d("6")) {
		t.Fatalf("tax: got %s", totals.TaxTotal)
	}
	if !totals.Total.Equal(d("168")) {
		t.Fatalf("total: got %s", totals.Total)
	}
	if len(totals.Lines) != 2 {
		t.Fatalf("expected 2 line totals, got %d", len(totals.Lines))
	}
}
