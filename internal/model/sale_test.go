package model

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestSaleComputeTotals(t *testing.T) {
	// Two items at 10.00, discount 1.00, paid 20.00
	sale := Sale{
		Discount:   decimal.RequireFromString("1.00"),
		AmountPaid: decimal.RequireFromString("20.00"),
		Items: []SaleItem{
			{TotalPrice: decimal.RequireFromString("10.00")},
			{TotalPrice: decimal.RequireFromString("10.00")},
		},
	}
	sale.ComputeTotals()

	if !sale.Subtotal.Equal(decimal.RequireFromString("20.00")) {
		t.Errorf("Subtotal = %s, want 20.00", sale.Subtotal)
	}
	if !sale.TotalAmount.Equal(decimal.RequireFromString("19.00")) {
		t.Errorf("TotalAmount = %s, want 19.00", sale.TotalAmount)
	}
	if !sale.ChangeAmount.Equal(decimal.RequireFromString("1.00")) {
		t.Errorf("ChangeAmount = %s, want 1.00", sale.ChangeAmount)
	}
}

func TestSaleChangeNeverNegative(t *testing.T) {
	sale := Sale{
		AmountPaid: decimal.RequireFromString("15.00"),
		Items: []SaleItem{
			{TotalPrice: decimal.RequireFromString("19.00")},
		},
	}
	sale.ComputeTotals()

	if !sale.ChangeAmount.IsZero() {
		t.Errorf("ChangeAmount = %s, want 0", sale.ChangeAmount)
	}
}
