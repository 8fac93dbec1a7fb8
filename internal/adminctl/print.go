package adminctl

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/joao-fontenele/storefront-admin/internal/domain"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func printCustomers(w io.Writer, customers []domain.Customer) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tPHONE\tADDRESS")
	for _, c := range customers {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", c.ID, c.Name, c.Email, c.Phone, c.Address)
	}
	return tw.Flush()
}

func printItems(w io.Writer, items []domain.Item) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNAME\tPRICE")
	for _, item := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", item.ID, item.Name, item.Price.Format())
	}
	return tw.Flush()
}

func printOrders(w io.Writer, orders []domain.Order) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tCUSTOMER\tITEMS\tTOTAL\tSTATUS\tDATE")
	for _, o := range orders {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\t%s\n",
			o.ID, o.CustomerName, len(o.Lines), o.Total.Format(), o.Status, o.CreatedAt.Format("2006-01-02 15:04"))
	}
	return tw.Flush()
}

func printOrder(w io.Writer, o domain.Order) error {
	fmt.Fprintf(w, "Order %s (%s)\nCustomer: %s\n", o.ID, o.Status, o.CustomerName)
	if err := printLines(w, o.Lines); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Total: %s\n", o.Total.Format())
	return err
}

func printLines(w io.Writer, lines []domain.OrderLine) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "ITEM\tPRICE\tQTY\tSUBTOTAL")
	for _, l := range lines {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", l.ItemName, l.UnitPrice.Format(), l.Quantity, l.Subtotal.Format())
	}
	return tw.Flush()
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
