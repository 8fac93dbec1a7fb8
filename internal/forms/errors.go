// Package forms validates customer and item input the way the admin forms
// do: every field is checked on submit, and an individual field's error is
// cleared when that field is edited.
package forms

import (
	"errors"
	"fmt"
	"sort"
)

type InvalidFieldError struct {
	Field  string
	Reason string
}

func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// InvalidField builds the error reported for one field.
func InvalidField(field, reason string) error {
	return &InvalidFieldError{Field: field, Reason: reason}
}

// Errors holds at most one message per field name.
type Errors map[string]string

func (e Errors) Add(field, reason string) {
	if _, ok := e[field]; !ok {
		e[field] = reason
	}
}

// Clear drops the error of a field the user is editing.
func (e Errors) Clear(field string) {
	delete(e, field)
}

func (e Errors) Has(field string) bool {
	_, ok := e[field]
	return ok
}

// Err joins one InvalidFieldError per field, ordered by field name, or
// returns nil when there are none.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	errs := make([]error, 0, len(fields))
	for _, f := range fields {
		errs = append(errs, InvalidField(f, e[f]))
	}
	return errors.Join(errs...)
}

// FromError collects the InvalidFieldErrors inside err back into Errors.
func FromError(err error) Errors {
	out := Errors{}
	collect(err, out)
	return out
}

func collect(err error, out Errors) {
	if err == nil {
		return
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			collect(e, out)
		}
		return
	}
	var fe *InvalidFieldError
	if errors.As(err, &fe) {
		out.Add(fe.Field, fe.Reason)
	}
}
