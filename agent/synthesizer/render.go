// Package synthesizer turns a handler's output into the final user-facing
// message. Rendering is presentation only: deterministic, no mutation, and
// it never calls back into a handler.
package synthesizer

import (
	"fmt"
	"strings"

	contractx "github.com/supportline/supportline/agent/contract"
	schemax "github.com/supportline/supportline/agent/schema"
)

// ClosingPrompt ends every reply, matching the support desk's house style.
const ClosingPrompt = "Is there anything else I can help you with?"

type options struct {
	verbose bool
}

type Option func(*options)

// Verbose includes the shipping address in order summaries. Off by default;
// addresses are only shown when explicitly requested.
func Verbose() Option {
	return func(o *options) { o.verbose = true }
}

// Render converts a HandlerOutput into the reply string, dispatching on the
// union tag.
func Render(out contractx.HandlerOutput, opts ...Option) string {
	var o options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	if !out.IsRecord() {
		return withClosing(out.Text())
	}

	switch rec := out.Record().(type) {
	case schemax.OrderInfo:
		return withClosing(renderOrder(rec, o))
	case *schemax.OrderInfo:
		return withClosing(renderOrder(*rec, o))
	case schemax.RefundResult:
		return withClosing(renderRefund(rec))
	case *schemax.RefundResult:
		return withClosing(renderRefund(*rec))
	default:
		// Unknown record kinds should have been rejected by validation.
		return withClosing("I'm sorry, I couldn't process that result.")
	}
}

func renderOrder(o schemax.OrderInfo, opts options) string {
	if o.IsNotFound() {
		return "I couldn't find an order matching that request. Could you double-check the order number?"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Here's what I found for order %s:\n", o.OrderID)
	fmt.Fprintf(&b, "Status: %s\n", o.Status)

	if len(o.Items) > 0 {
		b.WriteString("Items:\n")
		for _, item := range o.Items {
			fmt.Fprintf(&b, "- %s x%d @ $%.2f\n", item.ProductName, item.Quantity, item.UnitPrice)
		}
	}

	fmt.Fprintf(&b, "Total: $%.2f", o.TotalAmount)

	if tracking := strings.TrimSpace(o.TrackingNumber); tracking != "" && tracking != schemax.NoTracking {
		fmt.Fprintf(&b, "\nTracking number: %s", tracking)
	}

	if opts.verbose && strings.TrimSpace(o.ShippingAddress) != "" {
		fmt.Fprintf(&b, "\nShipping to: %s", o.ShippingAddress)
	}

	return b.String()
}

func renderRefund(r schemax.RefundResult) string {
	var b strings.Builder

	switch r.Status {
	case schemax.RefundApproved:
		fmt.Fprintf(&b, "Good news! Your refund for order %s has been approved.\n", r.OrderID)
		fmt.Fprintf(&b, "Refund amount: $%.2f\n", r.RefundAmount)
		fmt.Fprintf(&b, "Reason: %s\n", r.Reason)
		fmt.Fprintf(&b, "Processing time: %s\n", r.ProcessingTime)
		fmt.Fprintf(&b, "Method: %s", methodLabel(r.RefundMethod))
	case schemax.RefundPending:
		fmt.Fprintf(&b, "Your refund request for order %s is pending review.\n", r.OrderID)
		fmt.Fprintf(&b, "Reason: %s", r.Reason)
	default:
		fmt.Fprintf(&b, "I'm sorry, but the refund request for order %s was rejected.\n", r.OrderID)
		fmt.Fprintf(&b, "Reason: %s", r.Reason)
	}

	return b.String()
}

func methodLabel(m schemax.RefundMethod) string {
	switch m {
	case schemax.MethodStoreCredit:
		return "store credit"
	default:
		return "original payment method"
	}
}

func withClosing(text string) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		trimmed = "I'm sorry, I don't have an answer for that."
	}
	if strings.Contains(trimmed, ClosingPrompt) {
		return trimmed
	}
	return trimmed + "\n\n" + ClosingPrompt
}
