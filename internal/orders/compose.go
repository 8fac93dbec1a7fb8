package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/joao-fontenele/storefront-admin/internal/adminapi"
	"github.com/joao-fontenele/storefront-admin/internal/composer"
	"github.com/joao-fontenele/storefront-admin/internal/domain"
	"github.com/joao-fontenele/storefront-admin/internal/forms"
)

const (
	fieldCustomer = "customer"
	fieldItems    = "items"
	fieldStatus   = "status"
)

// Catalog looks up the customer and item snapshots an order is built from.
type Catalog interface {
	GetCustomer(ctx context.Context, id string) (domain.Customer, error)
	GetItem(ctx context.Context, id string) (domain.Item, error)
}

// compose replays a submission into d. Lines already in d keep their unit
// price; new lines take the catalog's current price. Lines missing from the
// submission are removed. The returned Errors hold the rejected fields; the
// error is only set when the catalog could not be reached.
func compose(ctx context.Context, catalog Catalog, d *composer.Draft, sub domain.OrderSubmission) (forms.Errors, error) {
	fields := forms.Errors{}

	switch {
	case sub.CustomerID == "":
		d.ClearCustomer()
	case sub.CustomerID != d.CustomerID():
		customer, err := catalog.GetCustomer(ctx, sub.CustomerID)
		if adminapi.IsNotFound(err) {
			fields.Add(fieldCustomer, "customer not found")
			break
		}
		if err != nil {
			return nil, fmt.Errorf("get customer %s: %w", sub.CustomerID, err)
		}
		if err := d.SelectCustomer(customer); err != nil {
			fields.Add(fieldCustomer, err.Error())
		}
	}

	wanted := make(map[string]bool, len(sub.Items))
	for _, line := range sub.Items {
		if line.ItemID == "" {
			fields.Add(fieldItems, "item id is required")
			continue
		}
		wanted[line.ItemID] = true

		if _, ok := d.Line(line.ItemID); !ok {
			if line.Quantity <= 0 {
				continue
			}
			item, err := catalog.GetItem(ctx, line.ItemID)
			if adminapi.IsNotFound(err) {
				fields.Add(fieldItems, fmt.Sprintf("item %s not found", line.ItemID))
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("get item %s: %w", line.ItemID, err)
			}
			if err := d.AddLine(item); err != nil {
				fields.Add(fieldItems, fmt.Sprintf("item %s: %v", line.ItemID, err))
				continue
			}
		}
		if err := d.SetQuantity(line.ItemID, line.Quantity); err != nil {
			fields.Add(fieldItems, fmt.Sprintf("item %s: %v", line.ItemID, err))
		}
	}

	for _, line := range d.Lines() {
		if !wanted[line.ItemID] {
			d.RemoveLine(line.ItemID)
		}
	}

	if sub.Status != "" {
		if d.IsEdit() {
			if err := d.SetStatus(sub.Status); err != nil {
				fields.Add(fieldStatus, err.Error())
			}
		} else if sub.Status != domain.OrderStatusPending {
			fields.Add(fieldStatus, composer.ErrStatusNotEditable.Error())
		}
	}

	addDraftErrors(fields, d.Validate())
	return fields, nil
}

func addDraftErrors(fields forms.Errors, err error) {
	if errors.Is(err, composer.ErrMissingCustomer) {
		fields.Add(fieldCustomer, composer.ErrMissingCustomer.Error())
	}
	if errors.Is(err, composer.ErrEmptyOrder) {
		fields.Add(fieldItems, composer.ErrEmptyOrder.Error())
	}
}
