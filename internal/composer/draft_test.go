package composer

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joao-fontenele/storefront-admin/internal/domain"
)

var (
	widget     = domain.Item{ID: "1", Name: "Widget", Price: domain.MustParseMoney("10.00")}
	headphones = domain.Item{ID: "ITEM-001", Name: "Wireless Headphones", Price: domain.MustParseMoney("99.99")}
	cable      = domain.Item{ID: "ITEM-003", Name: "USB-C Cable", Price: domain.MustParseMoney("12.99")}
	jane       = domain.Customer{ID: "2", Name: "Jane Smith", Email: "jane@example.com"}
)

func TestDraft_AddLine(t *testing.T) {
	t.Run("adding the same item twice increments quantity", func(t *testing.T) {
		d := New()
		require.NoError(t, d.AddLine(widget))
		require.NoError(t, d.AddLine(widget))

		lines := d.Lines()
		require.Len(t, lines, 1)
		assert.Equal(t, "1", lines[0].ItemID)
		assert.Equal(t, 2, lines[0].Quantity)
		assert.Equal(t, domain.MustParseMoney("20.00"), lines[0].Subtotal)
		assert.Equal(t, domain.MustParseMoney("20.00"), d.Total())
	})

	t.Run("twice is the same as once then set quantity 2", func(t *testing.T) {
		a := New()
		require.NoError(t, a.AddLine(widget))
		require.NoError(t, a.AddLine(widget))

		b := New()
		require.NoError(t, b.AddLine(widget))
		b.SetQuantity(widget.ID, 2)

		assert.Equal(t, a.Lines(), b.Lines())
		assert.Equal(t, a.Total(), b.Total())
	})

	t.Run("keeps the snapshotted price when the catalog price changes", func(t *testing.T) {
		d := New()
		require.NoError(t, d.AddLine(widget))

		repriced := widget
		repriced.Name = "Widget v2"
		repriced.Price = domain.MustParseMoney("15.00")
		require.NoError(t, d.AddLine(repriced))

		line, ok := d.Line(widget.ID)
		require.True(t, ok)
		assert.Equal(t, "Widget", line.ItemName)
		assert.Equal(t, domain.MustParseMoney("10.00"), line.UnitPrice)
		assert.Equal(t, domain.MustParseMoney("20.00"), line.Subtotal)
	})

	t.Run("keeps insertion order", func(t *testing.T) {
		d := New()
		require.NoError(t, d.AddLine(cable))
		require.NoError(t, d.AddLine(headphones))
		require.NoError(t, d.AddLine(cable))

		lines := d.Lines()
		require.Len(t, lines, 2)
		assert.Equal(t, cable.ID, lines[0].ItemID)
		assert.Equal(t, headphones.ID, lines[1].ItemID)
	})

	t.Run("rejects items without a positive price", func(t *testing.T) {
		d := New()
		assert.ErrorIs(t, d.AddLine(domain.Item{ID: "x", Name: "Free"}), ErrInvalidItem)
		assert.Empty(t, d.Lines())
	})
}

func TestDraft_SetQuantity(t *testing.T) {
	for _, qty := range []int{0, -1} {
		d := New()
		require.NoError(t, d.AddLine(widget))
		d.SetQuantity(widget.ID, qty)

		assert.Empty(t, d.Lines(), "quantity %d should remove the line", qty)
		assert.Equal(t, domain.Money(0), d.Total())
	}

	t.Run("recomputes subtotal", func(t *testing.T) {
		d := New()
		require.NoError(t, d.AddLine(cable))
		d.SetQuantity(cable.ID, 5)

		line, ok := d.Line(cable.ID)
		require.True(t, ok)
		assert.Equal(t, 5, line.Quantity)
		assert.Equal(t, domain.MustParseMoney("64.95"), line.Subtotal)
	})

	t.Run("ignores unknown items", func(t *testing.T) {
		d := New()
		d.SetQuantity("missing", 3)
		assert.Empty(t, d.Lines())
	})

	t.Run("quantity limit", func(t *testing.T) {
		tests := []struct {
			qty     int
			wantErr error
			wantQty int
		}{
			{qty: MaxQuantity, wantQty: MaxQuantity},
			{qty: MaxQuantity + 1, wantErr: ErrQuantityTooLarge, wantQty: 1},
			{qty: 1 << 60, wantErr: ErrQuantityTooLarge, wantQty: 1},
		}
		for _, tt := range tests {
			d := New()
			require.NoError(t, d.AddLine(headphones))

			err := d.SetQuantity(headphones.ID, tt.qty)
			assert.ErrorIs(t, err, tt.wantErr)

			line, ok := d.Line(headphones.ID)
			require.True(t, ok)
			assert.Equal(t, tt.wantQty, line.Quantity)
			assert.Equal(t, headphones.Price.Mul(tt.wantQty), line.Subtotal)
			assert.Positive(t, int64(d.Total()))
		}
	})
}

func TestDraft_AddLineAtLimit(t *testing.T) {
	d := New()
	require.NoError(t, d.AddLine(widget))
	require.NoError(t, d.SetQuantity(widget.ID, MaxQuantity))

	assert.ErrorIs(t, d.AddLine(widget), ErrQuantityTooLarge)
	line, _ := d.Line(widget.ID)
	assert.Equal(t, MaxQuantity, line.Quantity)
}

func TestDraft_RemoveLine(t *testing.T) {
	d := New()
	require.NoError(t, d.AddLine(widget))
	require.NoError(t, d.AddLine(cable))

	d.RemoveLine("missing")
	assert.Len(t, d.Lines(), 2)

	d.RemoveLine(widget.ID)
	lines := d.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, cable.ID, lines[0].ItemID)
}

func TestDraft_Total(t *testing.T) {
	t.Run("empty draft totals zero", func(t *testing.T) {
		assert.Equal(t, domain.Money(0), New().Total())
	})

	t.Run("sums exactly in cents", func(t *testing.T) {
		d := New()
		require.NoError(t, d.AddLine(headphones))
		require.NoError(t, d.AddLine(cable))
		d.SetQuantity(cable.ID, 2)

		assert.Equal(t, domain.Money(12597), d.Total())
		assert.Equal(t, "125.97", d.Total().String())
	})

	t.Run("matches sum of quantity times price after random edits", func(t *testing.T) {
		catalog := []domain.Item{widget, headphones, cable,
			{ID: "ITEM-004", Name: "Phone Case", Price: domain.MustParseMoney("24.99")},
		}
		rng := rand.New(rand.NewSource(42))

		for round := 0; round < 50; round++ {
			d := New()
			for step := 0; step < 40; step++ {
				item := catalog[rng.Intn(len(catalog))]
				switch rng.Intn(3) {
				case 0:
					require.NoError(t, d.AddLine(item))
				case 1:
					d.SetQuantity(item.ID, rng.Intn(7)-2)
				case 2:
					d.RemoveLine(item.ID)
				}
			}

			var want domain.Money
			seen := map[string]bool{}
			for _, line := range d.Lines() {
				assert.False(t, seen[line.ItemID], "duplicate line for %s", line.ItemID)
				seen[line.ItemID] = true
				assert.GreaterOrEqual(t, line.Quantity, 1)
				assert.Equal(t, line.UnitPrice.Mul(line.Quantity), line.Subtotal)
				want += line.UnitPrice.Mul(line.Quantity)
			}
			assert.Equal(t, want, d.Total())
		}
	})
}

func TestDraft_Validate(t *testing.T) {
	t.Run("empty order regardless of customer", func(t *testing.T) {
		d := New()
		assert.ErrorIs(t, d.Validate(), ErrEmptyOrder)

		require.NoError(t, d.SelectCustomer(jane))
		err := d.Validate()
		assert.ErrorIs(t, err, ErrEmptyOrder)
		assert.NotErrorIs(t, err, ErrMissingCustomer)
	})

	t.Run("missing customer when lines exist", func(t *testing.T) {
		d := New()
		require.NoError(t, d.AddLine(widget))

		err := d.Validate()
		assert.ErrorIs(t, err, ErrMissingCustomer)
		assert.NotErrorIs(t, err, ErrEmptyOrder)
	})

	t.Run("reports both", func(t *testing.T) {
		err := New().Validate()
		assert.ErrorIs(t, err, ErrMissingCustomer)
		assert.ErrorIs(t, err, ErrEmptyOrder)
	})

	t.Run("valid draft", func(t *testing.T) {
		d := New()
		require.NoError(t, d.AddLine(widget))
		require.NoError(t, d.SelectCustomer(jane))
		assert.NoError(t, d.Validate())
		assert.Len(t, d.Lines(), 1)
	})
}

func TestDraft_Finalize(t *testing.T) {
	t.Run("new order gets a fresh id and timestamp", func(t *testing.T) {
		existing := map[string]bool{"1": true, "2": true}

		d := New()
		require.NoError(t, d.SelectCustomer(jane))
		require.NoError(t, d.AddLine(widget))

		validatedAt := time.Now().UTC()
		require.NoError(t, d.Validate())

		order, err := d.Finalize()
		require.NoError(t, err)
		assert.NotEmpty(t, order.ID)
		assert.False(t, existing[order.ID])
		assert.False(t, order.CreatedAt.Before(validatedAt))
		assert.Equal(t, "2", order.CustomerID)
		assert.Equal(t, "Jane Smith", order.CustomerName)
		assert.Equal(t, domain.OrderStatusPending, order.Status)
		assert.Equal(t, domain.MustParseMoney("10.00"), order.Total)

		again, err := d.Finalize()
		require.NoError(t, err)
		assert.NotEqual(t, order.ID, again.ID)
	})

	t.Run("refuses an invalid draft", func(t *testing.T) {
		_, err := New().Finalize()
		assert.ErrorIs(t, err, ErrEmptyOrder)
	})

	t.Run("edit keeps id and creation time", func(t *testing.T) {
		created := time.Date(2025, 5, 27, 10, 30, 0, 0, time.UTC)
		now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
		stored := domain.Order{
			ID:           "order-1",
			CustomerID:   "1",
			CustomerName: "John Doe",
			Lines: []domain.OrderLine{
				{ItemID: headphones.ID, ItemName: headphones.Name, UnitPrice: headphones.Price, Quantity: 1, Subtotal: headphones.Price},
			},
			Total:     headphones.Price,
			Status:    domain.OrderStatusPending,
			CreatedAt: created,
		}

		d := Edit(stored, WithClock(func() time.Time { return now }))
		require.NoError(t, d.SetStatus(domain.OrderStatusCompleted))
		require.NoError(t, d.AddLine(cable))

		order, err := d.Finalize()
		require.NoError(t, err)
		assert.Equal(t, "order-1", order.ID)
		assert.Equal(t, created, order.CreatedAt)
		assert.Equal(t, now, order.UpdatedAt)
		assert.Equal(t, domain.OrderStatusCompleted, order.Status)
		assert.Equal(t, domain.MustParseMoney("112.98"), order.Total)
	})

	t.Run("finalized lines are independent of the draft", func(t *testing.T) {
		d := New(WithIDGenerator(func() string { return "fixed" }))
		require.NoError(t, d.SelectCustomer(jane))
		require.NoError(t, d.AddLine(widget))

		order, err := d.Finalize()
		require.NoError(t, err)
		assert.Equal(t, "fixed", order.ID)

		d.SetQuantity(widget.ID, 9)
		assert.Equal(t, 1, order.Lines[0].Quantity)
	})
}

func TestDraft_Status(t *testing.T) {
	t.Run("not editable on new orders", func(t *testing.T) {
		d := New()
		assert.ErrorIs(t, d.SetStatus(domain.OrderStatusCompleted), ErrStatusNotEditable)
		assert.Equal(t, domain.OrderStatusPending, d.Status())
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		d := Edit(domain.Order{ID: "o", Status: domain.OrderStatusPending})
		assert.ErrorIs(t, d.SetStatus("shipped"), ErrInvalidStatus)
	})
}

func TestDraft_CustomerLock(t *testing.T) {
	stored := domain.Order{ID: "o", CustomerID: "1", CustomerName: "John Doe"}

	t.Run("customer change allowed by default", func(t *testing.T) {
		d := Edit(stored)
		require.NoError(t, d.SelectCustomer(jane))
		assert.Equal(t, "2", d.CustomerID())
	})

	t.Run("locked customer cannot change", func(t *testing.T) {
		d := Edit(stored, WithCustomerLockedOnEdit(true))
		assert.ErrorIs(t, d.SelectCustomer(jane), ErrCustomerLocked)
		assert.Equal(t, "1", d.CustomerID())
		assert.NoError(t, d.SelectCustomer(domain.Customer{ID: "1", Name: "John Doe"}))
	})

	t.Run("lock does not apply to new orders", func(t *testing.T) {
		d := New(WithCustomerLockedOnEdit(true))
		require.NoError(t, d.SelectCustomer(domain.Customer{ID: "1"}))
		assert.NoError(t, d.SelectCustomer(jane))
	})
}

func TestDraft_Customer(t *testing.T) {
	d := New()
	_, ok := d.Customer()
	assert.False(t, ok)

	require.NoError(t, d.SelectCustomer(jane))
	got, ok := d.Customer()
	require.True(t, ok)
	assert.Equal(t, domain.Customer{ID: "2", Name: "Jane Smith"}, got)

	d.ClearCustomer()
	_, ok = d.Customer()
	assert.False(t, ok)
}
