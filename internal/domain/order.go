package domain

import "time"

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// OrderLine holds one catalog item's quantity. ItemName and UnitPrice are
// snapshots taken when the line was first added.
type OrderLine struct {
	ItemID    string `json:"item_id"`
	ItemName  string `json:"item_name"`
	UnitPrice Money  `json:"unit_price"`
	Quantity  int    `json:"quantity"`
	Subtotal  Money  `json:"subtotal"`
}

type Order struct {
	ID           string      `json:"id"`
	CustomerID   string      `json:"customer_id"`
	CustomerName string      `json:"customer_name"`
	Lines        []OrderLine `json:"items"`
	Total        Money       `json:"total"`
	Status       OrderStatus `json:"status"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

type OrderStats struct {
	Count   int   `json:"count"`
	Revenue Money `json:"revenue"`
}

// OrderSubmission is what a client sends to create or update an order. Names
// and prices are resolved by the orders service from the catalog.
type OrderSubmission struct {
	CustomerID string           `json:"customer_id"`
	Items      []LineSubmission `json:"items"`
	Status     OrderStatus      `json:"status,omitempty"`
}

type LineSubmission struct {
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
}
