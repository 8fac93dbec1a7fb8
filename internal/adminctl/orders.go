package adminctl

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joao-fontenele/storefront-admin/internal/adminapi"
	"github.com/joao-fontenele/storefront-admin/internal/composer"
	"github.com/joao-fontenele/storefront-admin/internal/domain"
)

type lineArg struct {
	itemID   string
	quantity int
}

// parseLine reads ID or ID:QTY.
func parseLine(raw string) (lineArg, error) {
	id, qty, found := strings.Cut(strings.TrimSpace(raw), ":")
	if id == "" {
		return lineArg{}, fmt.Errorf("invalid item %q: missing id", raw)
	}
	arg := lineArg{itemID: id, quantity: 1}
	if found {
		n, err := strconv.Atoi(qty)
		if err != nil || n < 0 {
			return lineArg{}, fmt.Errorf("invalid item %q: quantity must be a whole number", raw)
		}
		arg.quantity = n
	}
	return arg, nil
}

func ordersCommand(api func() API) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "List, compose and manage orders",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List orders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			orders, err := api().ListOrders(cmd.Context())
			if err != nil {
				return err
			}
			return printOrders(cmd.OutOrStdout(), orders)
		},
	}

	show := &cobra.Command{
		Use:   "show ID",
		Short: "Show one order with its lines",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			order, err := api().GetOrder(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printOrder(cmd.OutOrStdout(), order)
		},
	}

	status := &cobra.Command{
		Use:   "status ID STATUS",
		Short: "Set the status of an order (pending, completed, cancelled)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			next := domain.OrderStatus(args[1])
			if !next.Valid() {
				return composer.ErrInvalidStatus
			}
			order, err := api().UpdateOrderStatus(cmd.Context(), args[0], next)
			if err != nil {
				return explain(cmd.ErrOrStderr(), err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "order %s is now %s\n", order.ID, order.Status)
			return nil
		},
	}

	remove := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete an order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := api().DeleteOrder(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted order %s\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(list, show, createOrderCommand(api), editOrderCommand(api), status, remove)
	return cmd
}

func createOrderCommand(api func() API) *cobra.Command {
	var (
		customerID string
		items      []string
	)

	cmd := &cobra.Command{
		Use:     "create",
		Short:   "Compose a new order and submit it",
		Example: "  adminctl orders create --customer CUST-001 --item ITEM-001 --item ITEM-003:2",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			draft := composer.New()
			if customerID != "" {
				if err := selectCustomer(ctx, api(), draft, customerID); err != nil {
					return err
				}
			}
			for _, raw := range items {
				arg, err := parseLine(raw)
				if err != nil {
					return err
				}
				if err := addLine(ctx, out, api(), draft, arg); err != nil {
					return err
				}
			}

			return submit(ctx, cmd, api(), draft)
		},
	}
	cmd.Flags().StringVar(&customerID, "customer", "", "customer id")
	cmd.Flags().StringArrayVar(&items, "item", nil, "item to add as ID or ID:QTY, repeatable")
	return cmd
}

func editOrderCommand(api func() API) *cobra.Command {
	var (
		customerID string
		items      []string
		status     string
	)

	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Change the customer, lines or status of an order",
		Long: "Lines given with --item set the quantity of that item; a quantity of 0 removes it.\n" +
			"Existing lines keep the price they were ordered at.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			order, err := api().GetOrder(ctx, args[0])
			if err != nil {
				return err
			}
			draft := composer.Edit(order)

			if customerID != "" {
				if err := selectCustomer(ctx, api(), draft, customerID); err != nil {
					return err
				}
			}
			for _, raw := range items {
				arg, err := parseLine(raw)
				if err != nil {
					return err
				}
				if err := setLine(ctx, out, api(), draft, arg); err != nil {
					return err
				}
			}
			if status != "" {
				if err := draft.SetStatus(domain.OrderStatus(status)); err != nil {
					return err
				}
			}

			return submit(ctx, cmd, api(), draft)
		},
	}
	cmd.Flags().StringVar(&customerID, "customer", "", "new customer id")
	cmd.Flags().StringArrayVar(&items, "item", nil, "line to set as ID:QTY, repeatable")
	cmd.Flags().StringVar(&status, "status", "", "new status")
	return cmd
}

func selectCustomer(ctx context.Context, api API, d *composer.Draft, id string) error {
	customer, err := api.GetCustomer(ctx, id)
	if adminapi.IsNotFound(err) {
		return fmt.Errorf("customer %s not found", id)
	}
	if err != nil {
		return err
	}
	return d.SelectCustomer(customer)
}

// addLine adds arg.quantity units of an item on top of what the draft has.
func addLine(ctx context.Context, out io.Writer, api API, d *composer.Draft, arg lineArg) error {
	if arg.quantity == 0 {
		return nil
	}
	current := 0
	if line, ok := d.Line(arg.itemID); ok {
		current = line.Quantity
	}
	if arg.quantity > composer.MaxQuantity-current {
		return fmt.Errorf("item %s: %w", arg.itemID, composer.ErrQuantityTooLarge)
	}
	return setLine(ctx, out, api, d, lineArg{itemID: arg.itemID, quantity: current + arg.quantity})
}

// setLine sets the quantity of an item, fetching it from the catalog when the
// draft does not have it yet.
func setLine(ctx context.Context, out io.Writer, api API, d *composer.Draft, arg lineArg) error {
	if _, ok := d.Line(arg.itemID); !ok && arg.quantity > 0 {
		item, err := api.GetItem(ctx, arg.itemID)
		if adminapi.IsNotFound(err) {
			return fmt.Errorf("item %s not found", arg.itemID)
		}
		if err != nil {
			return err
		}
		if err := d.AddLine(item); err != nil {
			return err
		}
	}
	if err := d.SetQuantity(arg.itemID, arg.quantity); err != nil {
		return fmt.Errorf("item %s: %w", arg.itemID, err)
	}

	if line, ok := d.Line(arg.itemID); ok {
		fmt.Fprintf(out, "%d x %s = %s (running total %s)\n", line.Quantity, line.ItemName, line.Subtotal.Format(), d.Total().Format())
	} else {
		fmt.Fprintf(out, "removed %s (running total %s)\n", arg.itemID, d.Total().Format())
	}
	return nil
}

func submit(ctx context.Context, cmd *cobra.Command, api API, d *composer.Draft) error {
	if err := d.Validate(); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "order is not ready:")
		fmt.Fprintln(cmd.ErrOrStderr(), indent(err.Error()))
		return err
	}

	order, err := api.SubmitOrder(ctx, d)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "order was not saved:")
		return explain(cmd.ErrOrStderr(), err)
	}

	verb := "created"
	if d.IsEdit() {
		verb = "updated"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s order %s\n", verb, order.ID)
	return printOrder(cmd.OutOrStdout(), order)
}

func indent(s string) string {
	return "  " + strings.ReplaceAll(s, "\n", "\n  ")
}

func statsCommand(api func() API) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show order count and revenue from completed orders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := api().OrderStats(cmd.Context())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%d orders, revenue %s\n", stats.Count, stats.Revenue.Format())
			return err
		},
	}
}
