package adminapi

import (
	"context"
	"net/http"

	"github.com/joao-fontenele/storefront-admin/internal/domain"
	"github.com/joao-fontenele/storefront-admin/internal/forms"
)

func (c *Client) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	var customers []domain.Customer
	if err := c.do(ctx, http.MethodGet, "/customers", nil, &customers); err != nil {
		return nil, err
	}
	return customers, nil
}

func (c *Client) GetCustomer(ctx context.Context, id string) (domain.Customer, error) {
	var customer domain.Customer
	err := c.do(ctx, http.MethodGet, "/customers/"+escape(id), nil, &customer)
	return customer, err
}

func (c *Client) CreateCustomer(ctx context.Context, form forms.CustomerForm) (domain.Customer, error) {
	var customer domain.Customer
	err := c.do(ctx, http.MethodPost, "/customers", form, &customer)
	return customer, err
}

func (c *Client) UpdateCustomer(ctx context.Context, id string, form forms.CustomerForm) (domain.Customer, error) {
	var customer domain.Customer
	err := c.do(ctx, http.MethodPut, "/customers/"+escape(id), form, &customer)
	return customer, err
}

func (c *Client) DeleteCustomer(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/customers/"+escape(id), nil, nil)
}

// ListItems returns the catalog.
func (c *Client) ListItems(ctx context.Context) ([]domain.Item, error) {
	var items []domain.Item
	if err := c.do(ctx, http.MethodGet, "/items", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Client) GetItem(ctx context.Context, id string) (domain.Item, error) {
	var item domain.Item
	err := c.do(ctx, http.MethodGet, "/items/"+escape(id), nil, &item)
	return item, err
}

func (c *Client) CreateItem(ctx context.Context, form forms.ItemForm) (domain.Item, error) {
	var item domain.Item
	err := c.do(ctx, http.MethodPost, "/items", form, &item)
	return item, err
}

func (c *Client) UpdateItem(ctx context.Context, id string, form forms.ItemForm) (domain.Item, error) {
	var item domain.Item
	err := c.do(ctx, http.MethodPut, "/items/"+escape(id), form, &item)
	return item, err
}

func (c *Client) DeleteItem(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/items/"+escape(id), nil, nil)
}

func (c *Client) ItemStats(ctx context.Context) (domain.ItemStats, error) {
	var stats domain.ItemStats
	err := c.do(ctx, http.MethodGet, "/items/stats", nil, &stats)
	return stats, err
}
