// Package events publishes order lifecycle events.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"inventory/config"
	"inventory/models"
)

// OrderEvent is published whenever an order is created or changes status.
type OrderEvent struct {
	OrderID    string    `json:"order_id"`
	Number     string    `json:"number"`
	ProductID  string    `json:"product_id"`
	SupplierID string    `json:"supplier_id"`
	Quantity   int       `json:"quantity"`
	Status     string    `json:"status"`
	At         time.Time `json:"at"`
}

// NewOrderEvent snapshots order into an event.
func NewOrderEvent(order *models.Order) OrderEvent {
	return OrderEvent{
		OrderID:    order.ID,
		Number:     order.Number,
		ProductID:  order.ProductID,
		SupplierID: order.SupplierID,
		Quantity:   order.Quantity,
		Status:     order.Status,
		At:         order.UpdatedAt,
	}
}

// Publisher delivers order events to interested consumers.
type Publisher interface {
	PublishOrder(ctx context.Context, event OrderEvent) error
	Close()
}

// Open returns a NATS publisher when a URL is configured and a no-op publisher otherwise.
func Open(cfg config.EventsConfig) (Publisher, error) {
	if cfg.NATSURL == "" {
		return Nop{}, nil
	}
	return NewNATSPublisher(cfg.NATSURL, cfg.SubjectPrefix)
}

// Subject returns the subject an order event with status is published on.
func Subject(prefix, status string) string {
	if prefix == "" {
		return "orders." + status
	}
	return prefix + ".orders." + status
}

// NATSPublisher publishes events as JSON on core NATS subjects.
type NATSPublisher struct {
	conn   *nats.Conn
	prefix string
}

func NewNATSPublisher(url, prefix string) (*NATSPublisher, error) {
	conn, err := nats.Connect(url, nats.Name("inventory"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return &NATSPublisher{conn: conn, prefix: prefix}, nil
}

func (p *NATSPublisher) PublishOrder(ctx context.Context, event OrderEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode order event: %w", err)
	}
	subject := Subject(p.prefix, event.Status)
	if err := p.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("failed to publish to subject %s: %w", subject, err)
	}
	return nil
}

// Close flushes pending messages and closes the connection.
func (p *NATSPublisher) Close() {
	if err := p.conn.Drain(); err != nil {
		p.conn.Close()
	}
}

// Nop discards events.
type Nop struct{}

func (Nop) PublishOrder(context.Context, OrderEvent) error { return nil }
func (Nop) Close()                                         {}
