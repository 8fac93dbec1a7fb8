package composer

import "errors"

var (
	ErrMissingCustomer   = errors.New("please select a customer")
	ErrEmptyOrder        = errors.New("please add at least one item to the order")
	ErrCustomerLocked    = errors.New("customer cannot be changed on an existing order")
	ErrStatusNotEditable = errors.New("status can only be changed on an existing order")
	ErrInvalidStatus     = errors.New("invalid order status")
	ErrInvalidItem       = errors.New("item must have an id and a positive price")
	ErrQuantityTooLarge  = errors.New("quantity cannot exceed 9999")
)
