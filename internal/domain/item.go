package domain

import "time"

// Item is a catalog item. Price is always positive.
type Item struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Price     Money     `json:"price"`
	CreatedAt time.Time `json:"created_at"`
}

type ItemInput struct {
	Name  string `json:"name"`
	Price Money  `json:"price"`
}

type ItemStats struct {
	Count      int   `json:"count"`
	TotalValue Money `json:"total_value"`
}
