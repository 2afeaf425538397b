package model

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestRefreshStockStatus(t *testing.T) {
	cases := []struct {
		quantity string
		minimum  string
		want     string
	}{
		{"0", "5", StockOut},
		{"-1", "5", StockOut},
		{"3", "5", StockLow},
		{"5", "5", StockLow},
		{"6", "5", StockInStock},
		{"0.5", "0", StockInStock},
	}
	for _, tc := range cases {
		p := Product{
			StockQuantity: decimal.RequireFromString(tc.quantity),
			MinimumStock:  decimal.RequireFromString(tc.minimum),
		}
		p.RefreshStockStatus()
		if p.StockStatus != tc.want {
			t.Errorf("qty=%s min=%s: status = %s, want %s", tc.quantity, tc.minimum, p.StockStatus, tc.want)
		}
	}
}

func TestCanSell(t *testing.T) {
	p := Product{
		IsActive:      true,
		StockQuantity: decimal.RequireFromString("10"),
	}
	p.RefreshStockStatus()
	if !p.CanSell() {
		t.Error("active product with stock should be sellable")
	}

	p.StockQuantity = decimal.Zero
	p.RefreshStockStatus()
	if p.CanSell() {
		t.Error("product out of stock should not be sellable")
	}

	p.StockQuantity = decimal.RequireFromString("10")
	p.RefreshStockStatus()
	p.IsActive = false
	if p.CanSell() {
		t.Error("inactive product should not be sellable")
	}
}
