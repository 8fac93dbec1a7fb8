package domain

import "time"

type OrderFinalizedEvent struct {
	OrderID    string      `json:"order_id"`
	CustomerID string      `json:"customer_id"`
	Lines      []OrderLine `json:"items"`
	Total      Money       `json:"total"`
	Status     OrderStatus `json:"status"`
	Updated    bool        `json:"updated"`
	Timestamp  time.Time   `json:"timestamp"`
}
