// Package adminctl is the command-line front end of the admin API. Orders are
// composed locally and only sent once they validate.
package adminctl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/joao-fontenele/storefront-admin/internal/adminapi"
	"github.com/joao-fontenele/storefront-admin/internal/composer"
	"github.com/joao-fontenele/storefront-admin/internal/domain"
	"github.com/joao-fontenele/storefront-admin/internal/forms"
)

// API is the part of the admin API the commands use.
type API interface {
	ListCustomers(ctx context.Context) ([]domain.Customer, error)
	GetCustomer(ctx context.Context, id string) (domain.Customer, error)
	CreateCustomer(ctx context.Context, form forms.CustomerForm) (domain.Customer, error)
	DeleteCustomer(ctx context.Context, id string) error

	ListItems(ctx context.Context) ([]domain.Item, error)
	GetItem(ctx context.Context, id string) (domain.Item, error)
	CreateItem(ctx context.Context, form forms.ItemForm) (domain.Item, error)
	DeleteItem(ctx context.Context, id string) error
	ItemStats(ctx context.Context) (domain.ItemStats, error)

	ListOrders(ctx context.Context) ([]domain.Order, error)
	GetOrder(ctx context.Context, id string) (domain.Order, error)
	SubmitOrder(ctx context.Context, d *composer.Draft) (domain.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus) (domain.Order, error)
	DeleteOrder(ctx context.Context, id string) error
	OrderStats(ctx context.Context) (domain.OrderStats, error)
}

// NewRootCommand builds the command tree. newAPI is called once flags are
// parsed, with the value of --api-url.
func NewRootCommand(defaultURL string, newAPI func(baseURL string) API) *cobra.Command {
	var (
		apiURL string
		api    API
	)

	root := &cobra.Command{
		Use:           "adminctl",
		Short:         "Manage storefront customers, items and orders",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			api = newAPI(apiURL)
		},
	}
	root.PersistentFlags().StringVar(&apiURL, "api-url", defaultURL, "admin API base URL")

	get := func() API { return api }
	root.AddCommand(
		customersCommand(get),
		itemsCommand(get),
		ordersCommand(get),
		statsCommand(get),
	)
	return root
}

// HTTPAPI returns the adminapi client for baseURL.
func HTTPAPI(baseURL string) API {
	return adminapi.NewClient(baseURL, &http.Client{Timeout: 10 * time.Second})
}

// explain renders field errors one per line; other errors pass through.
func explain(w io.Writer, err error) error {
	fields := forms.FromError(err)

	var pe *adminapi.PersistenceError
	if errors.As(err, &pe) && len(pe.Fields) > 0 {
		fields = pe.Fields
	}

	if len(fields) == 0 {
		return err
	}
	for _, field := range sortedKeys(fields) {
		fmt.Fprintf(w, "  %s: %s\n", field, fields[field])
	}
	return err
}
