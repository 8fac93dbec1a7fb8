package composer

import (
	"time"

	"github.com/google/uuid"
)

type Option func(*Draft)

// WithClock overrides the timestamp source used by Finalize.
func WithClock(now func() time.Time) Option {
	return func(d *Draft) {
		d.now = now
	}
}

// WithIDGenerator overrides how new orders get their id.
func WithIDGenerator(newID func() string) Option {
	return func(d *Draft) {
		d.newID = newID
	}
}

// WithCustomerLockedOnEdit forbids switching to another customer when
// editing an existing order.
func WithCustomerLockedOnEdit(locked bool) Option {
	return func(d *Draft) {
		d.customerLocked = locked
	}
}

func defaultNow() time.Time {
	return time.Now().UTC()
}

func defaultID() string {
	return uuid.New().String()
}
