package schema

import (
	"errors"
	"testing"
	"time"

	contractx "github.com/supportline/supportline/agent/contract"
)

func validOrder() OrderInfo {
	return OrderInfo{
		OrderID:      "ORD-2024-001",
		CustomerName: "John Doe",
		OrderDate:    time.Date(2024, 9, 15, 0, 0, 0, 0, time.UTC),
		Status:       OrderDelivered,
		Items: []OrderItem{
			{ProductName: "Wireless Headphones", Quantity: 1, UnitPrice: 79.99},
			{ProductName: "Phone Case", Quantity: 2, UnitPrice: 15.99},
		},
		TotalAmount:     111.97,
		ShippingAddress: "123 Main St, San Francisco, CA 94102",
		TrackingNumber:  "TRK-1234567890",
	}
}

func TestValidateOrderInfoPassThrough(t *testing.T) {
	t.Parallel()

	order := validOrder()
	before := order

	if err := ValidateOrderInfo(order); err != nil {
		t.Fatalf("ValidateOrderInfo() error = %v", err)
	}
	if order.OrderID != before.OrderID || order.TotalAmount != before.TotalAmount {
		t.Fatal("validation must not mutate the record")
	}
	if len(order.Items) != len(before.Items) {
		t.Fatal("validation must not touch items")
	}
}

func TestValidateOrderInfoNotFoundAllowsEmptyItems(t *testing.T) {
	t.Parallel()

	if err := ValidateOrderInfo(NotFoundOrder()); err != nil {
		t.Fatalf("NOT_FOUND order must validate, got %v", err)
	}
}

func TestValidateOrderInfoViolations(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		mutate func(*OrderInfo)
		field  string
	}{
		{"missing order id", func(o *OrderInfo) { o.OrderID = "" }, "order_id"},
		{"bad status", func(o *OrderInfo) { o.Status = "lost" }, "status"},
		{"negative total", func(o *OrderInfo) { o.TotalAmount = -1 }, "total_amount"},
		{"empty items", func(o *OrderInfo) { o.Items = nil }, "items"},
		{"zero quantity", func(o *OrderInfo) { o.Items[0].Quantity = 0 }, "items[0].quantity"},
		{"negative price", func(o *OrderInfo) { o.Items[1].UnitPrice = -0.01 }, "items[1].unit_price"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			order := validOrder()
			tc.mutate(&order)

			err := ValidateOrderInfo(order)
			if err == nil {
				t.Fatal("expected violation but got nil")
			}
			if !errors.Is(err, contractx.ErrSchemaViolation) {
				t.Fatalf("expected ErrSchemaViolation, got %v", err)
			}

			var v *Violation
			if !errors.As(err, &v) {
				t.Fatalf("expected *Violation, got %T", err)
			}
			if v.Field != tc.field {
				t.Fatalf("offending field = %s, want %s", v.Field, tc.field)
			}
		})
	}
}

func TestValidateRefundResult(t *testing.T) {
	t.Parallel()

	res := RefundResult{
		RefundID:       "REF-2024-001",
		OrderID:        "ORD-2024-001",
		Status:         RefundApproved,
		RefundAmount:   111.97,
		Reason:         "delivered within 30 days",
		ProcessingTime: "3-5 business days",
		RefundMethod:   MethodOriginalPayment,
	}
	if err := ValidateRefundResult(res); err != nil {
		t.Fatalf("ValidateRefundResult() error = %v", err)
	}

	res.RefundMethod = "cash"
	err := ValidateRefundResult(res)
	if !errors.Is(err, contractx.ErrSchemaViolation) {
		t.Fatalf("expected ErrSchemaViolation, got %v", err)
	}
}

func TestValidateDispatchesByKind(t *testing.T) {
	t.Parallel()

	if err := Validate(validOrder()); err != nil {
		t.Fatalf("Validate(OrderInfo) error = %v", err)
	}

	err := Validate(RefundResult{})
	if !errors.Is(err, contractx.ErrSchemaViolation) {
		t.Fatalf("expected ErrSchemaViolation for empty refund, got %v", err)
	}
}

func TestValidateRawIntentResult(t *testing.T) {
	t.Parallel()

	if err := ValidateRaw(DocIntentResult, []byte(`{"intent":"refund","confidence":0.92}`)); err != nil {
		t.Fatalf("ValidateRaw() error = %v", err)
	}

	err := ValidateRaw(DocIntentResult, []byte(`{"intent":"escalate"}`))
	if !errors.Is(err, contractx.ErrSchemaViolation) {
		t.Fatalf("expected ErrSchemaViolation for unknown intent, got %v", err)
	}
}

func TestValidateRawUnknownDoc(t *testing.T) {
	t.Parallel()

	err := ValidateRaw("mystery", []byte(`{}`))
	if !errors.Is(err, contractx.ErrSchemaViolation) {
		t.Fatalf("expected ErrSchemaViolation, got %v", err)
	}
}
