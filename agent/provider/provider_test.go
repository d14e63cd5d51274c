package provider

import (
	"context"
	"testing"

	schemax "github.com/supportline/supportline/agent/schema"
)

func TestMemoryProviderLookupByID(t *testing.T) {
	t.Parallel()

	p := NewMemoryProvider()

	order, err := p.LookupByID(context.Background(), "ord-2024-003")
	if err != nil {
		t.Fatalf("LookupByID() error = %v", err)
	}
	if order == nil {
		t.Fatal("expected order, got nil")
	}
	if order.Status != schemax.OrderPending {
		t.Fatalf("unexpected status: %s", order.Status)
	}
	if order.TrackingNumber != schemax.NoTracking {
		t.Fatalf("unexpected tracking: %s", order.TrackingNumber)
	}
}

func TestMemoryProviderMissReturnsNilNil(t *testing.T) {
	t.Parallel()

	p := NewMemoryProvider()

	order, err := p.LookupByID(context.Background(), "ORD-2024-999")
	if err != nil {
		t.Fatalf("LookupByID() error = %v", err)
	}
	if order != nil {
		t.Fatalf("expected nil for a miss, got %+v", order)
	}
}

func TestMemoryProviderLookupByCustomerPicksNewest(t *testing.T) {
	t.Parallel()

	p := NewMemoryProvider()
	seed := SeedOrders()[0]
	older := seed
	older.OrderID = "ORD-2023-001"
	older.OrderDate = older.OrderDate.AddDate(-1, 0, 0)
	p.Put(older)

	order, err := p.LookupByCustomer(context.Background(), "john doe")
	if err != nil {
		t.Fatalf("LookupByCustomer() error = %v", err)
	}
	if order == nil || order.OrderID != "ORD-2024-001" {
		t.Fatalf("expected newest order ORD-2024-001, got %+v", order)
	}
}

func TestMemoryProviderCancelledContext(t *testing.T) {
	t.Parallel()

	p := NewMemoryProvider()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := p.LookupByID(ctx, "ORD-2024-001"); err == nil {
		t.Fatal("expected context error")
	}
}

func TestLookupReturnsCopy(t *testing.T) {
	t.Parallel()

	p := NewMemoryProvider()

	first, err := p.LookupByID(context.Background(), "ORD-2024-001")
	if err != nil {
		t.Fatalf("LookupByID() error = %v", err)
	}
	first.CustomerName = "mutated"

	second, err := p.LookupByID(context.Background(), "ORD-2024-001")
	if err != nil {
		t.Fatalf("LookupByID() error = %v", err)
	}
	if second.CustomerName != "John Doe" {
		t.Fatal("provider must hand out copies, not shared records")
	}
}
