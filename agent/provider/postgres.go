package provider

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	schemax "github.com/supportline/supportline/agent/schema"
)

// PostgresConfig configures the bun-backed provider.
type PostgresConfig struct {
	DSN     string        `envconfig:"DSN" split_words:"true" required:"true"`
	Timeout time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"5s"`
}

type orderRow struct {
	bun.BaseModel `bun:"table:orders,alias:o"`

	OrderID         string             `bun:"order_id,pk"`
	CustomerName    string             `bun:"customer_name"`
	OrderDate       time.Time          `bun:"order_date"`
	Status          string             `bun:"status"`
	Items           []schemax.OrderItem `bun:"items,type:jsonb"`
	TotalAmount     float64            `bun:"total_amount"`
	ShippingAddress string             `bun:"shipping_address"`
	TrackingNumber  string             `bun:"tracking_number"`
}

// PostgresProvider reads order records from Postgres through bun. It
// satisfies the same contract as MemoryProvider, so the two are
// interchangeable behind OrderProvider.
type PostgresProvider struct {
	db      *bun.DB
	timeout time.Duration
}

func NewPostgresProvider(cfg PostgresConfig) (*PostgresProvider, error) {
	dsn := strings.TrimSpace(cfg.DSN)
	if dsn == "" {
		return nil, errors.New("postgres dsn is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())

	return &PostgresProvider{db: db, timeout: timeout}, nil
}

func (p *PostgresProvider) Close() error {
	return p.db.Close()
}

func (p *PostgresProvider) LookupByID(ctx context.Context, orderID string) (*schemax.OrderInfo, error) {
	id := strings.ToUpper(strings.TrimSpace(orderID))
	if id == "" {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	var row orderRow
	err := p.db.NewSelect().Model(&row).Where("o.order_id = ?", id).Limit(1).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query order by id: %w", err)
	}
	return row.toOrderInfo(), nil
}

func (p *PostgresProvider) LookupByCustomer(ctx context.Context, name string) (*schemax.OrderInfo, error) {
	needle := strings.TrimSpace(name)
	if needle == "" {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	var row orderRow
	err := p.db.NewSelect().
		Model(&row).
		Where("lower(o.customer_name) = lower(?)", needle).
		Order("o.order_date DESC").
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query order by customer: %w", err)
	}
	return row.toOrderInfo(), nil
}

func (r *orderRow) toOrderInfo() *schemax.OrderInfo {
	tracking := r.TrackingNumber
	if strings.TrimSpace(tracking) == "" {
		tracking = schemax.NoTracking
	}
	return &schemax.OrderInfo{
		OrderID:         r.OrderID,
		CustomerName:    r.CustomerName,
		OrderDate:       r.OrderDate,
		Status:          schemax.OrderStatus(r.Status),
		Items:           r.Items,
		TotalAmount:     r.TotalAmount,
		ShippingAddress: r.ShippingAddress,
		TrackingNumber:  tracking,
	}
}
