// Package provider supplies order records to the lookup and refund
// handlers. Ownership and persistence of the records is entirely the
// provider's responsibility; handlers only read.
package provider

import (
	"context"
	"strings"
	"sync"
	"time"

	schemax "github.com/supportline/supportline/agent/schema"
)

// OrderProvider is the data collaborator queried by OrderLookup and
// RefundProcessor. A miss is (nil, nil); errors are reserved for the
// backing store being unreachable.
type OrderProvider interface {
	LookupByID(ctx context.Context, orderID string) (*schemax.OrderInfo, error)
	LookupByCustomer(ctx context.Context, name string) (*schemax.OrderInfo, error)
}

// MemoryProvider keeps orders in memory. The zero set matches the demo
// catalog; tests and the default wiring both use it.
type MemoryProvider struct {
	mu     sync.RWMutex
	orders map[string]schemax.OrderInfo
}

// NewMemoryProvider returns a provider seeded with the demo orders.
func NewMemoryProvider() *MemoryProvider {
	p := &MemoryProvider{orders: map[string]schemax.OrderInfo{}}
	for _, o := range SeedOrders() {
		p.orders[o.OrderID] = o
	}
	return p
}

// NewEmptyProvider returns a provider with no orders.
func NewEmptyProvider() *MemoryProvider {
	return &MemoryProvider{orders: map[string]schemax.OrderInfo{}}
}

func (p *MemoryProvider) Put(order schemax.OrderInfo) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.orders[order.OrderID] = order
}

func (p *MemoryProvider) LookupByID(ctx context.Context, orderID string) (*schemax.OrderInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	order, ok := p.orders[strings.ToUpper(strings.TrimSpace(orderID))]
	if !ok {
		return nil, nil
	}
	copied := order
	return &copied, nil
}

func (p *MemoryProvider) LookupByCustomer(ctx context.Context, name string) (*schemax.OrderInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return nil, nil
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	// Deterministic pick when a customer has several orders: newest wins.
	var best *schemax.OrderInfo
	for _, order := range p.orders {
		if strings.ToLower(order.CustomerName) != needle {
			continue
		}
		if best == nil || order.OrderDate.After(best.OrderDate) {
			copied := order
			best = &copied
		}
	}
	return best, nil
}

// SeedOrders is the demo order catalog.
func SeedOrders() []schemax.OrderInfo {
	return []schemax.OrderInfo{
		{
			OrderID:      "ORD-2024-001",
			CustomerName: "John Doe",
			OrderDate:    time.Date(2024, 9, 15, 0, 0, 0, 0, time.UTC),
			Status:       schemax.OrderDelivered,
			Items: []schemax.OrderItem{
				{ProductName: "Wireless Headphones", Quantity: 1, UnitPrice: 79.99},
				{ProductName: "Phone Case", Quantity: 2, UnitPrice: 15.99},
			},
			TotalAmount:     111.97,
			ShippingAddress: "123 Main St, San Francisco, CA 94102",
			TrackingNumber:  "TRK-1234567890",
		},
		{
			OrderID:      "ORD-2024-002",
			CustomerName: "Jane Smith",
			OrderDate:    time.Date(2024, 9, 28, 0, 0, 0, 0, time.UTC),
			Status:       schemax.OrderShipped,
			Items: []schemax.OrderItem{
				{ProductName: "Laptop Stand", Quantity: 1, UnitPrice: 49.99},
				{ProductName: "USB-C Cable", Quantity: 3, UnitPrice: 12.99},
			},
			TotalAmount:     88.96,
			ShippingAddress: "456 Oak Ave, New York, NY 10001",
			TrackingNumber:  "TRK-0987654321",
		},
		{
			OrderID:      "ORD-2024-003",
			CustomerName: "Bob Johnson",
			OrderDate:    time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC),
			Status:       schemax.OrderPending,
			Items: []schemax.OrderItem{
				{ProductName: "Mechanical Keyboard", Quantity: 1, UnitPrice: 129.99},
				{ProductName: "Mouse Pad", Quantity: 1, UnitPrice: 19.99},
			},
			TotalAmount:     149.98,
			ShippingAddress: "789 Pine Rd, Austin, TX 78701",
			TrackingNumber:  schemax.NoTracking,
		},
		{
			OrderID:      "ORD-2024-004",
			CustomerName: "Alice Williams",
			OrderDate:    time.Date(2024, 9, 20, 0, 0, 0, 0, time.UTC),
			Status:       schemax.OrderCancelled,
			Items: []schemax.OrderItem{
				{ProductName: "Smartwatch", Quantity: 1, UnitPrice: 299.99},
			},
			TotalAmount:     299.99,
			ShippingAddress: "321 Elm St, Seattle, WA 98101",
			TrackingNumber:  schemax.NoTracking,
		},
	}
}
