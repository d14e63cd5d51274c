// Package refund evaluates refund requests. The policy itself is a pure
// function of (order status, age in days, total amount) so it can be tested
// without a provider or a clock.
package refund

import (
	"fmt"

	schemax "github.com/supportline/supportline/agent/schema"
)

const (
	fullRefundWindowDays = 30
	halfRefundWindowDays = 60
)

// Decision is the outcome of applying the refund policy.
type Decision struct {
	Status schemax.RefundStatus
	Amount float64
	Reason string
}

// Decide applies the refund policy table:
//
//	delivered, age <= 30 days  -> approved, 100%
//	delivered, 30 < age <= 60  -> approved, 50%
//	delivered, age > 60 days   -> rejected
//	cancelled                  -> rejected (already refunded)
//	pending or shipped         -> approved, 100% (order is cancelled)
func Decide(status schemax.OrderStatus, ageDays int, total float64) Decision {
	switch status {
	case schemax.OrderDelivered:
		switch {
		case ageDays <= fullRefundWindowDays:
			return Decision{
				Status: schemax.RefundApproved,
				Amount: total,
				Reason: fmt.Sprintf("Order delivered %d days ago, within the 30-day full refund window.", ageDays),
			}
		case ageDays <= halfRefundWindowDays:
			return Decision{
				Status: schemax.RefundApproved,
				Amount: roundCents(total * 0.5),
				Reason: fmt.Sprintf("Order delivered %d days ago; between 30 and 60 days only a 50%% refund applies.", ageDays),
			}
		default:
			return Decision{
				Status: schemax.RefundRejected,
				Amount: 0,
				Reason: fmt.Sprintf("Order delivered %d days ago, past the 60-day refund window.", ageDays),
			}
		}
	case schemax.OrderCancelled:
		return Decision{
			Status: schemax.RefundRejected,
			Amount: 0,
			Reason: "Order was already cancelled and refunded.",
		}
	case schemax.OrderPending, schemax.OrderShipped:
		return Decision{
			Status: schemax.RefundApproved,
			Amount: total,
			Reason: "Order has not been delivered yet; it will be cancelled for a full refund.",
		}
	default:
		return Decision{
			Status: schemax.RefundRejected,
			Amount: 0,
			Reason: fmt.Sprintf("Order status %q is not eligible for a refund.", status),
		}
	}
}

func roundCents(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}
