package adminapi

import (
	"context"
	"net/http"

	"github.com/joao-fontenele/storefront-admin/internal/composer"
	"github.com/joao-fontenele/storefront-admin/internal/domain"
)

func (c *Client) ListOrders(ctx context.Context) ([]domain.Order, error) {
	var orders []domain.Order
	if err := c.do(ctx, http.MethodGet, "/orders", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *Client) GetOrder(ctx context.Context, id string) (domain.Order, error) {
	var order domain.Order
	err := c.do(ctx, http.MethodGet, "/orders/"+escape(id), nil, &order)
	return order, err
}

// Submission converts a draft into the payload accepted by the orders
// service.
func Submission(d *composer.Draft) domain.OrderSubmission {
	lines := d.Lines()
	sub := domain.OrderSubmission{
		CustomerID: d.CustomerID(),
		Items:      make([]domain.LineSubmission, 0, len(lines)),
	}
	for _, line := range lines {
		sub.Items = append(sub.Items, domain.LineSubmission{ItemID: line.ItemID, Quantity: line.Quantity})
	}
	if d.IsEdit() {
		sub.Status = d.Status()
	}
	return sub
}

// SubmitOrder validates the draft and sends it: POST for a new order, PUT
// for an edit. The draft is left untouched whatever the outcome, so a failed
// submission can be retried.
func (c *Client) SubmitOrder(ctx context.Context, d *composer.Draft) (domain.Order, error) {
	if err := d.Validate(); err != nil {
		return domain.Order{}, err
	}

	method, path := http.MethodPost, "/orders"
	if d.IsEdit() {
		method, path = http.MethodPut, "/orders/"+escape(d.OrderID())
	}

	var order domain.Order
	err := c.do(ctx, method, path, Submission(d), &order)
	return order, err
}

func (c *Client) UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus) (domain.Order, error) {
	var order domain.Order
	body := map[string]domain.OrderStatus{"status": status}
	err := c.do(ctx, http.MethodPatch, "/orders/"+escape(id)+"/status", body, &order)
	return order, err
}

func (c *Client) DeleteOrder(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/orders/"+escape(id), nil, nil)
}

func (c *Client) OrderStats(ctx context.Context) (domain.OrderStats, error) {
	var stats domain.OrderStats
	err := c.do(ctx, http.MethodGet, "/stats", nil, &stats)
	return stats, err
}
