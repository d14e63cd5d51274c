// Package orderlookup resolves order inquiries against the injected order
// provider and always answers with a structured OrderInfo record.
package orderlookup

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	contractx "github.com/supportline/supportline/agent/contract"
	providerx "github.com/supportline/supportline/agent/provider"
	schemax "github.com/supportline/supportline/agent/schema"
)

type Handler struct {
	provider providerx.OrderProvider
}

func New(provider providerx.OrderProvider) (*Handler, error) {
	if provider == nil {
		return nil, errors.New("order provider is required")
	}
	return &Handler{provider: provider}, nil
}

// Handle resolves by order id first, then by customer name. A miss returns
// the NOT_FOUND record; only an unreachable provider is an error.
func (h *Handler) Handle(ctx context.Context, req contractx.Request) (contractx.HandlerOutput, error) {
	order, err := h.resolve(ctx, req)
	if err != nil {
		return contractx.HandlerOutput{}, fmt.Errorf("%w: order lookup: %v", contractx.ErrHandlerUnavailable, err)
	}

	if order == nil {
		log.Debug().
			Str("order_id", req.OrderID).
			Str("customer", req.CustomerName).
			Msg("order not found")
		return contractx.RecordOutput(schemax.NotFoundOrder()), nil
	}

	return contractx.RecordOutput(*order), nil
}

func (h *Handler) resolve(ctx context.Context, req contractx.Request) (*schemax.OrderInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if req.OrderID != "" {
		return h.provider.LookupByID(ctx, req.OrderID)
	}
	if req.CustomerName != "" {
		return h.provider.LookupByCustomer(ctx, req.CustomerName)
	}
	return nil, nil
}
