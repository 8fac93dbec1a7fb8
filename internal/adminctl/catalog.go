package adminctl

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joao-fontenele/storefront-admin/internal/forms"
)

func customersCommand(api func() API) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "customers",
		Short: "List and manage customers",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List customers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			customers, err := api().ListCustomers(cmd.Context())
			if err != nil {
				return err
			}
			return printCustomers(cmd.OutOrStdout(), customers)
		},
	}

	var form forms.CustomerForm
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a customer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := form.Validate().Err(); err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), "customer is invalid:")
				return explain(cmd.ErrOrStderr(), err)
			}
			customer, err := api().CreateCustomer(cmd.Context(), form)
			if err != nil {
				return explain(cmd.ErrOrStderr(), err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created customer %s (%s)\n", customer.ID, customer.Name)
			return nil
		},
	}
	create.Flags().StringVar(&form.Name, "name", "", "full name")
	create.Flags().StringVar(&form.Email, "email", "", "email address")
	create.Flags().StringVar(&form.Phone, "phone", "", "phone number")
	create.Flags().StringVar(&form.Address, "address", "", "postal address")

	remove := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a customer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := api().DeleteCustomer(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted customer %s\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(list, create, remove)
	return cmd
}

func itemsCommand(api func() API) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "items",
		Short: "List and manage catalog items",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List catalog items with their count and total value",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := api().ListItems(cmd.Context())
			if err != nil {
				return err
			}
			if err := printItems(cmd.OutOrStdout(), items); err != nil {
				return err
			}
			stats, err := api().ItemStats(cmd.Context())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "\n%d items, total value %s\n", stats.Count, stats.TotalValue.Format())
			return err
		},
	}

	var form forms.ItemForm
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a catalog item",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := form.Validate().Err(); err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), "item is invalid:")
				return explain(cmd.ErrOrStderr(), err)
			}
			item, err := api().CreateItem(cmd.Context(), form)
			if err != nil {
				return explain(cmd.ErrOrStderr(), err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created item %s (%s, %s)\n", item.ID, item.Name, item.Price.Format())
			return nil
		},
	}
	create.Flags().StringVar(&form.Name, "name", "", "item name")
	create.Flags().StringVar(&form.Price, "price", "", "unit price, e.g. 12.99")

	remove := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a catalog item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := api().DeleteItem(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted item %s\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(list, create, remove)
	return cmd
}
