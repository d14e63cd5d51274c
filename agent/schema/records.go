// Package schema defines the structured record types handlers may return
// and the validators the dispatcher runs before a record is rendered.
package schema

import (
	"time"

	contractx "github.com/supportline/supportline/agent/contract"
)

// NotFoundOrderID marks an OrderInfo that represents "no matching order".
// Absence of a result is data, not an error: the conversation still has to
// produce a coherent reply.
const NotFoundOrderID = "NOT_FOUND"

// NoTracking is the tracking-number placeholder for orders without one.
const NoTracking = "N/A"

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderShipped   OrderStatus = "shipped"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderShipped, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

type RefundStatus string

const (
	RefundApproved RefundStatus = "approved"
	RefundRejected RefundStatus = "rejected"
	RefundPending  RefundStatus = "pending"
)

func (s RefundStatus) Valid() bool {
	switch s {
	case RefundApproved, RefundRejected, RefundPending:
		return true
	}
	return false
}

type RefundMethod string

const (
	MethodOriginalPayment RefundMethod = "original_payment"
	MethodStoreCredit     RefundMethod = "store_credit"
)

func (m RefundMethod) Valid() bool {
	switch m {
	case MethodOriginalPayment, MethodStoreCredit:
		return true
	}
	return false
}

// OrderItem is a value type; item order within an OrderInfo matters for
// display.
type OrderItem struct {
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
}

func (i OrderItem) Subtotal() float64 {
	return float64(i.Quantity) * i.UnitPrice
}

// OrderInfo is produced fresh per lookup and owned by the response pipeline
// for the duration of one turn.
type OrderInfo struct {
	OrderID         string      `json:"order_id"`
	CustomerName    string      `json:"customer_name"`
	OrderDate       time.Time   `json:"order_date"`
	Status          OrderStatus `json:"status"`
	Items           []OrderItem `json:"items"`
	TotalAmount     float64     `json:"total_amount"`
	ShippingAddress string      `json:"shipping_address"`
	TrackingNumber  string      `json:"tracking_number"`
}

func (OrderInfo) Kind() contractx.RecordKind { return contractx.KindOrderInfo }

func (o OrderInfo) IsNotFound() bool { return o.OrderID == NotFoundOrderID }

// NotFoundOrder returns the safe-defaults record for a missing order.
func NotFoundOrder() OrderInfo {
	return OrderInfo{
		OrderID:        NotFoundOrderID,
		Items:          []OrderItem{},
		TotalAmount:    0,
		TrackingNumber: NoTracking,
	}
}

// RefundResult is produced once per refund evaluation and immutable after
// creation.
type RefundResult struct {
	RefundID       string       `json:"refund_id"`
	OrderID        string       `json:"order_id"`
	Status         RefundStatus `json:"status"`
	RefundAmount   float64      `json:"refund_amount"`
	Reason         string       `json:"reason"`
	ProcessingTime string       `json:"processing_time"`
	RefundMethod   RefundMethod `json:"refund_method"`
}

func (RefundResult) Kind() contractx.RecordKind { return contractx.KindRefundResult }
