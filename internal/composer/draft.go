// Package composer holds the in-memory draft of an order being created or
// edited. A Draft is owned by a single caller and is not safe for concurrent
// use.
package composer

import (
	"errors"
	"time"

	"github.com/joao-fontenele/storefront-admin/internal/domain"
)

type customerRef struct {
	id   string
	name string
}

type Draft struct {
	customer *customerRef
	lines    []domain.OrderLine
	status   domain.OrderStatus

	// set only when editing a stored order
	orderID   string
	createdAt time.Time

	customerLocked bool
	now            func() time.Time
	newID          func() string
}

// New returns an empty draft for a new order.
func New(opts ...Option) *Draft {
	d := &Draft{
		status: domain.OrderStatusPending,
		now:    defaultNow,
		newID:  defaultID,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Edit returns a draft seeded from a stored order. The stored line snapshots
// are kept as they are.
func Edit(order domain.Order, opts ...Option) *Draft {
	d := New(opts...)
	d.orderID = order.ID
	d.createdAt = order.CreatedAt
	if order.Status.Valid() {
		d.status = order.Status
	}
	if order.CustomerID != "" {
		d.customer = &customerRef{id: order.CustomerID, name: order.CustomerName}
	}
	for _, line := range order.Lines {
		if line.Quantity <= 0 {
			continue
		}
		line.Subtotal = line.UnitPrice.Mul(line.Quantity)
		d.lines = append(d.lines, line)
	}
	return d
}

func (d *Draft) IsEdit() bool {
	return d.orderID != ""
}

func (d *Draft) OrderID() string {
	return d.orderID
}

// MaxQuantity bounds a single line so subtotals stay exact in int64 cents.
const MaxQuantity = 9999

// AddLine adds one unit of item. An item already in the draft keeps the unit
// price it was first added with.
func (d *Draft) AddLine(item domain.Item) error {
	if item.ID == "" || item.Price <= 0 {
		return ErrInvalidItem
	}

	if i := d.indexOf(item.ID); i >= 0 {
		line := &d.lines[i]
		if line.Quantity >= MaxQuantity {
			return ErrQuantityTooLarge
		}
		line.Quantity++
		line.Subtotal = line.UnitPrice.Mul(line.Quantity)
		return nil
	}

	d.lines = append(d.lines, domain.OrderLine{
		ItemID:    item.ID,
		ItemName:  item.Name,
		UnitPrice: item.Price,
		Quantity:  1,
		Subtotal:  item.Price,
	})
	return nil
}

// SetQuantity sets the quantity of an existing line. A quantity of zero or
// less removes the line. Unknown items are ignored. Quantities above
// MaxQuantity leave the line unchanged.
func (d *Draft) SetQuantity(itemID string, quantity int) error {
	if quantity <= 0 {
		d.RemoveLine(itemID)
		return nil
	}
	if quantity > MaxQuantity {
		return ErrQuantityTooLarge
	}

	i := d.indexOf(itemID)
	if i < 0 {
		return nil
	}
	d.lines[i].Quantity = quantity
	d.lines[i].Subtotal = d.lines[i].UnitPrice.Mul(quantity)
	return nil
}

func (d *Draft) RemoveLine(itemID string) {
	i := d.indexOf(itemID)
	if i < 0 {
		return
	}
	d.lines = append(d.lines[:i], d.lines[i+1:]...)
}

func (d *Draft) SelectCustomer(customer domain.Customer) error {
	if d.IsEdit() && d.customerLocked && d.customer != nil && d.customer.id != customer.ID {
		return ErrCustomerLocked
	}
	d.customer = &customerRef{id: customer.ID, name: customer.Name}
	return nil
}

func (d *Draft) ClearCustomer() {
	d.customer = nil
}

func (d *Draft) SetStatus(status domain.OrderStatus) error {
	if !d.IsEdit() {
		return ErrStatusNotEditable
	}
	if !status.Valid() {
		return ErrInvalidStatus
	}
	d.status = status
	return nil
}

func (d *Draft) Status() domain.OrderStatus {
	return d.status
}

// Customer returns the selected customer snapshot. Only ID and Name are set.
func (d *Draft) Customer() (domain.Customer, bool) {
	if d.customer == nil {
		return domain.Customer{}, false
	}
	return domain.Customer{ID: d.customer.id, Name: d.customer.name}, true
}

// CustomerID returns the selected customer, or "" when none is selected.
func (d *Draft) CustomerID() string {
	if d.customer == nil {
		return ""
	}
	return d.customer.id
}

func (d *Draft) Lines() []domain.OrderLine {
	lines := make([]domain.OrderLine, len(d.lines))
	copy(lines, d.lines)
	return lines
}

func (d *Draft) Line(itemID string) (domain.OrderLine, bool) {
	i := d.indexOf(itemID)
	if i < 0 {
		return domain.OrderLine{}, false
	}
	return d.lines[i], true
}

func (d *Draft) Total() domain.Money {
	var total domain.Money
	for _, line := range d.lines {
		total += line.Subtotal
	}
	return total
}

// Validate reports every reason the draft cannot be finalized, joined.
func (d *Draft) Validate() error {
	var errs []error
	if d.customer == nil {
		errs = append(errs, ErrMissingCustomer)
	}
	if len(d.lines) == 0 {
		errs = append(errs, ErrEmptyOrder)
	}
	return errors.Join(errs...)
}

// Finalize turns a valid draft into an order record. New orders get a fresh
// id and creation time; edited orders keep theirs.
func (d *Draft) Finalize() (domain.Order, error) {
	if err := d.Validate(); err != nil {
		return domain.Order{}, err
	}

	now := d.now()
	order := domain.Order{
		ID:           d.orderID,
		CustomerID:   d.customer.id,
		CustomerName: d.customer.name,
		Lines:        d.Lines(),
		Total:        d.Total(),
		Status:       d.status,
		CreatedAt:    d.createdAt,
		UpdatedAt:    now,
	}
	if !d.IsEdit() {
		order.ID = d.newID()
		order.CreatedAt = now
	}
	return order, nil
}

func (d *Draft) indexOf(itemID string) int {
	for i := range d.lines {
		if d.lines[i].ItemID == itemID {
			return i
		}
	}
	return -1
}
