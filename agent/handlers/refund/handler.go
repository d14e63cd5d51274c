package refund

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	contractx "github.com/supportline/supportline/agent/contract"
	providerx "github.com/supportline/supportline/agent/provider"
	schemax "github.com/supportline/supportline/agent/schema"
)

const approvedProcessingTime = "3-5 business days"

// IDGenerator produces the sequence part of a refund id. Uniqueness across
// restarts is the caller's concern; the default is monotonic per process.
type IDGenerator func() int

// NewSequence returns the default in-process id generator.
func NewSequence() IDGenerator {
	var counter int64
	return func() int {
		return int(atomic.AddInt64(&counter, 1))
	}
}

// FormatRefundID renders the REF-<year>-<zero-padded sequence> id.
func FormatRefundID(year, seq int) string {
	return fmt.Sprintf("REF-%d-%03d", year, seq)
}

type Handler struct {
	provider providerx.OrderProvider
	nextSeq  IDGenerator
	now      func() time.Time
}

// Option customizes the handler; the clock is injectable so the policy's
// age computation stays deterministic in tests.
type Option func(*Handler)

func WithClock(now func() time.Time) Option {
	return func(h *Handler) {
		if now != nil {
			h.now = now
		}
	}
}

func WithIDGenerator(gen IDGenerator) Option {
	return func(h *Handler) {
		if gen != nil {
			h.nextSeq = gen
		}
	}
}

func New(provider providerx.OrderProvider, opts ...Option) (*Handler, error) {
	if provider == nil {
		return nil, errors.New("order provider is required")
	}

	h := &Handler{
		provider: provider,
		nextSeq:  NewSequence(),
		now:      time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	return h, nil
}

// Handle evaluates a refund request. Like order lookup, absence of a
// matching order is a structured result (a rejection), never an error.
func (h *Handler) Handle(ctx context.Context, req contractx.Request) (contractx.HandlerOutput, error) {
	if err := ctx.Err(); err != nil {
		return contractx.HandlerOutput{}, fmt.Errorf("%w: refund: %v", contractx.ErrHandlerUnavailable, err)
	}

	order, err := h.resolve(ctx, req)
	if err != nil {
		return contractx.HandlerOutput{}, fmt.Errorf("%w: refund lookup: %v", contractx.ErrHandlerUnavailable, err)
	}

	now := h.now().UTC()

	if order == nil {
		return contractx.RecordOutput(schemax.RefundResult{
			RefundID:       FormatRefundID(now.Year(), h.nextSeq()),
			OrderID:        schemax.NotFoundOrderID,
			Status:         schemax.RefundRejected,
			RefundAmount:   0,
			Reason:         "No matching order was found for this refund request.",
			ProcessingTime: schemax.NoTracking,
			RefundMethod:   schemax.MethodOriginalPayment,
		}), nil
	}

	ageDays := int(now.Sub(order.OrderDate).Hours() / 24)
	decision := Decide(order.Status, ageDays, order.TotalAmount)

	processing := schemax.NoTracking
	if decision.Status == schemax.RefundApproved {
		processing = approvedProcessingTime
	}

	result := schemax.RefundResult{
		RefundID:       FormatRefundID(now.Year(), h.nextSeq()),
		OrderID:        order.OrderID,
		Status:         decision.Status,
		RefundAmount:   decision.Amount,
		Reason:         decision.Reason,
		ProcessingTime: processing,
		RefundMethod:   schemax.MethodOriginalPayment,
	}

	log.Debug().
		Str("refund_id", result.RefundID).
		Str("order_id", result.OrderID).
		Str("status", string(result.Status)).
		Float64("amount", result.RefundAmount).
		Msg("refund decision")

	return contractx.RecordOutput(result), nil
}

func (h *Handler) resolve(ctx context.Context, req contractx.Request) (*schemax.OrderInfo, error) {
	if req.OrderID != "" {
		return h.provider.LookupByID(ctx, req.OrderID)
	}
	if req.CustomerName != "" {
		return h.provider.LookupByCustomer(ctx, req.CustomerName)
	}
	return nil, nil
}
