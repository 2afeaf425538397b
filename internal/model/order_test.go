package model

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to string }{
		{OrderPending, OrderPaymentUploaded},
		{OrderPending, OrderConfirmed},
		{OrderPending, OrderCancelled},
		{OrderPaymentUploaded, OrderConfirmed},
		{OrderConfirmed, OrderProcessing},
		{OrderProcessing, OrderReady},
		{OrderReady, OrderCompleted},
		{OrderReady, OrderCancelled},
	}
	for _, tc := range allowed {
		if !CanTransition(tc.from, tc.to) {
			t.Errorf("CanTransition(%s, %s) = false, want true", tc.from, tc.to)
		}
	}

	forbidden := []struct{ from, to string }{
		{OrderPending, OrderCompleted},
		{OrderPending, OrderReady},
		{OrderPaymentUploaded, OrderProcessing},
		{OrderConfirmed, OrderCompleted},
		{OrderCompleted, OrderCancelled},
		{OrderCancelled, OrderPending},
		{OrderCompleted, OrderPending},
	}
	for _, tc := range forbidden {
		if CanTransition(tc.from, tc.to) {
			t.Errorf("CanTransition(%s, %s) = true, want false", tc.from, tc.to)
		}
	}
}

func TestOrderComputeTotals(t *testing.T) {
	order := Order{
		Discount: decimal.RequireFromString("5.00"),
		Items: []OrderItem{
			{TotalPrice: decimal.RequireFromString("30.00")},
			{TotalPrice: decimal.RequireFromString("12.50")},
		},
	}
	order.ComputeTotals()

	if !order.Subtotal.Equal(decimal.RequireFromString("42.50")) {
		t.Errorf("Subtotal = %s, want 42.50", order.Subtotal)
	}
	if !order.TotalAmount.Equal(decimal.RequireFromString("37.50")) {
		t.Errorf("TotalAmount = %s, want 37.50", order.TotalAmount)
	}
}

func TestOrderStockTaken(t *testing.T) {
	taken := []string{OrderConfirmed, OrderProcessing, OrderReady, OrderCompleted}
	for _, status := range taken {
		if !(&Order{Status: status}).StockTaken() {
			t.Errorf("StockTaken() at %s = false, want true", status)
		}
	}
	notTaken := []string{OrderPending, OrderPaymentUploaded, OrderCancelled}
	for _, status := range notTaken {
		if (&Order{Status: status}).StockTaken() {
			t.Errorf("StockTaken() at %s = true, want false", status)
		}
	}
}
