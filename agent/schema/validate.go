package schema

import (
	"fmt"

	contractx "github.com/supportline/supportline/agent/contract"
)

// Violation reports which field of a structured record failed which
// constraint. It wraps contract.ErrSchemaViolation so callers can test with
// errors.Is while logging the offending field.
type Violation struct {
	Field      string
	Constraint string
}

func (v *Violation) Error() string {
	return fmt.Sprintf("%v: field=%s constraint=%s", contractx.ErrSchemaViolation, v.Field, v.Constraint)
}

func (v *Violation) Unwrap() error { return contractx.ErrSchemaViolation }

func violation(field, constraint string) error {
	return &Violation{Field: field, Constraint: constraint}
}

// Validate checks a structured record against its registered constraints.
// Valid records pass through untouched; nothing is ever coerced.
func Validate(rec contractx.StructuredRecord) error {
	switch r := rec.(type) {
	case OrderInfo:
		return ValidateOrderInfo(r)
	case *OrderInfo:
		return ValidateOrderInfo(*r)
	case RefundResult:
		return ValidateRefundResult(r)
	case *RefundResult:
		return ValidateRefundResult(*r)
	default:
		return fmt.Errorf("%w: unregistered record kind %T", contractx.ErrSchemaViolation, rec)
	}
}

func ValidateOrderInfo(o OrderInfo) error {
	if o.OrderID == "" {
		return violation("order_id", "required")
	}
	if !o.Status.Valid() && !o.IsNotFound() {
		return violation("status", "must be one of pending|shipped|delivered|cancelled")
	}
	if o.TotalAmount < 0 {
		return violation("total_amount", "must be non-negative")
	}
	if len(o.Items) == 0 && !o.IsNotFound() {
		return violation("items", "must be non-empty unless order is NOT_FOUND")
	}
	for idx, item := range o.Items {
		if item.ProductName == "" {
			return violation(fmt.Sprintf("items[%d].product_name", idx), "required")
		}
		if item.Quantity <= 0 {
			return violation(fmt.Sprintf("items[%d].quantity", idx), "must be positive")
		}
		if item.UnitPrice < 0 {
			return violation(fmt.Sprintf("items[%d].unit_price", idx), "must be non-negative")
		}
	}
	return nil
}

func ValidateRefundResult(r RefundResult) error {
	if r.RefundID == "" {
		return violation("refund_id", "required")
	}
	if r.OrderID == "" {
		return violation("order_id", "required")
	}
	if !r.Status.Valid() {
		return violation("status", "must be one of approved|rejected|pending")
	}
	if r.RefundAmount < 0 {
		return violation("refund_amount", "must be non-negative")
	}
	if r.Reason == "" {
		return violation("reason", "required")
	}
	if !r.RefundMethod.Valid() {
		return violation("refund_method", "must be one of original_payment|store_credit")
	}
	return nil
}
