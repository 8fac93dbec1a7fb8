package orders

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/joao-fontenele/storefront-admin/internal/adminapi"
	"github.com/joao-fontenele/storefront-admin/internal/domain"
)

type memStore struct {
	orders    map[string]domain.Order
	createErr error
}

func newMemStore(orders ...domain.Order) *memStore {
	s := &memStore{orders: map[string]domain.Order{}}
	for _, o := range orders {
		s.orders[o.ID] = o
	}
	return s
}

func (s *memStore) Create(ctx context.Context, order domain.Order) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.orders[order.ID] = order
	return nil
}

func (s *memStore) Update(ctx context.Context, order domain.Order) error {
	if _, ok := s.orders[order.ID]; !ok {
		return ErrNotFound
	}
	s.orders[order.ID] = order
	return nil
}

func (s *memStore) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	o, ok := s.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &o, nil
}

func (s *memStore) List(ctx context.Context) ([]domain.Order, error) {
	out := []domain.Order{}
	for _, o := range s.orders {
		out = append(out, o)
	}
	return out, nil
}

func (s *memStore) Delete(ctx context.Context, id string) error {
	if _, ok := s.orders[id]; !ok {
		return ErrNotFound
	}
	delete(s.orders, id)
	return nil
}

func (s *memStore) Stats(ctx context.Context) (domain.OrderStats, error) {
	var stats domain.OrderStats
	for _, o := range s.orders {
		stats.Count++
		if o.Status == domain.OrderStatusCompleted {
			stats.Revenue += o.Total
		}
	}
	return stats, nil
}

type fakeCatalog struct {
	customers map[string]domain.Customer
	items     map[string]domain.Item
	down      bool
}

var errNotFound = &adminapi.PersistenceError{StatusCode: http.StatusNotFound, Message: "not found"}

func (c *fakeCatalog) GetCustomer(ctx context.Context, id string) (domain.Customer, error) {
	if c.down {
		return domain.Customer{}, errors.New("connection refused")
	}
	customer, ok := c.customers[id]
	if !ok {
		return domain.Customer{}, errNotFound
	}
	return customer, nil
}

func (c *fakeCatalog) GetItem(ctx context.Context, id string) (domain.Item, error) {
	if c.down {
		return domain.Item{}, errors.New("connection refused")
	}
	item, ok := c.items[id]
	if !ok {
		return domain.Item{}, errNotFound
	}
	return item, nil
}

func newCatalog() *fakeCatalog {
	return &fakeCatalog{
		customers: map[string]domain.Customer{
			"CUST-001": {ID: "CUST-001", Name: "John Doe"},
			"CUST-002": {ID: "CUST-002", Name: "Jane Smith"},
		},
		items: map[string]domain.Item{
			"ITEM-001": {ID: "ITEM-001", Name: "Wireless Headphones", Price: 9999},
			"ITEM-002": {ID: "ITEM-002", Name: "Bluetooth Speaker", Price: 4999},
			"ITEM-003": {ID: "ITEM-003", Name: "USB-C Cable", Price: 1299},
		},
	}
}

type recordingPublisher struct {
	events []domain.OrderFinalizedEvent
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, key string, event any) error {
	p.events = append(p.events, event.(domain.OrderFinalizedEvent))
	return p.err
}

type memIdempotency struct {
	keys map[string]string
}

func (m *memIdempotency) Claim(ctx context.Context, key, orderID string) (string, bool, error) {
	if existing, ok := m.keys[key]; ok {
		return existing, false, nil
	}
	m.keys[key] = orderID
	return orderID, true, nil
}

func (m *memIdempotency) Release(ctx context.Context, key string) error {
	delete(m.keys, key)
	return nil
}

func newTestMux(t *testing.T, store Store, catalog Catalog, opts ...HandlerOption) *http.ServeMux {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h, err := NewHandler(store, catalog, logger, opts...)
	if err != nil {
		t.Fatalf("NewHandler: %v", err)
	}
	mux := http.NewServeMux()
	h.Register(mux, nil)
	return mux
}

func do(mux http.Handler, method, path, body string, header ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

type validationBody struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

func storedOrder() domain.Order {
	created := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	return domain.Order{
		ID:           "ORD-001",
		CustomerID:   "CUST-001",
		CustomerName: "John Doe",
		Lines: []domain.OrderLine{
			{ItemID: "ITEM-001", ItemName: "Wireless Headphones", UnitPrice: 8999, Quantity: 1, Subtotal: 8999},
		},
		Total:     8999,
		Status:    domain.OrderStatusPending,
		CreatedAt: created,
		UpdatedAt: created,
	}
}

func TestHandleCreate(t *testing.T) {
	t.Run("composes order from catalog snapshots", func(t *testing.T) {
		store := newMemStore()
		pub := &recordingPublisher{}
		mux := newTestMux(t, store, newCatalog(), WithPublisher(pub))

		rec := do(mux, http.MethodPost, "/orders",
			`{"customer_id":"CUST-001","items":[{"item_id":"ITEM-001","quantity":1},{"item_id":"ITEM-003","quantity":2}]}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
		}

		var order domain.Order
		if err := json.NewDecoder(rec.Body).Decode(&order); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if order.ID == "" {
			t.Error("expected order id to be assigned")
		}
		if order.CustomerName != "John Doe" {
			t.Errorf("expected customer name John Doe, got %q", order.CustomerName)
		}
		if order.Total != 12597 {
			t.Errorf("expected total 12597, got %d", order.Total)
		}
		if order.Status != domain.OrderStatusPending {
			t.Errorf("expected status pending, got %q", order.Status)
		}
		if len(order.Lines) != 2 || order.Lines[1].Subtotal != 2598 {
			t.Errorf("unexpected lines: %+v", order.Lines)
		}
		if _, ok := store.orders[order.ID]; !ok {
			t.Error("expected order to be stored")
		}
		if len(pub.events) != 1 || pub.events[0].OrderID != order.ID || pub.events[0].Updated {
			t.Errorf("unexpected events: %+v", pub.events)
		}
	})

	t.Run("rejects missing customer and empty order", func(t *testing.T) {
		store := newMemStore()
		mux := newTestMux(t, store, newCatalog())

		rec := do(mux, http.MethodPost, "/orders", `{"customer_id":"","items":[]}`)

		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected status 422, got %d", rec.Code)
		}
		var body validationBody
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if body.Fields["customer"] == "" || body.Fields["items"] == "" {
			t.Errorf("expected customer and items errors, got %v", body.Fields)
		}
		if len(store.orders) != 0 {
			t.Error("expected nothing stored")
		}
	})

	t.Run("zero quantity lines are dropped", func(t *testing.T) {
		mux := newTestMux(t, newMemStore(), newCatalog())

		rec := do(mux, http.MethodPost, "/orders",
			`{"customer_id":"CUST-001","items":[{"item_id":"ITEM-001","quantity":0}]}`)

		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected status 422, got %d", rec.Code)
		}
	})

	t.Run("unknown item", func(t *testing.T) {
		mux := newTestMux(t, newMemStore(), newCatalog())

		rec := do(mux, http.MethodPost, "/orders",
			`{"customer_id":"CUST-001","items":[{"item_id":"ITEM-999","quantity":1}]}`)

		var body validationBody
		_ = json.NewDecoder(rec.Body).Decode(&body)
		if rec.Code != http.StatusUnprocessableEntity || !strings.Contains(body.Fields["items"], "ITEM-999") {
			t.Errorf("expected 422 naming ITEM-999, got %d %v", rec.Code, body.Fields)
		}
	})

	t.Run("non-pending status on create", func(t *testing.T) {
		mux := newTestMux(t, newMemStore(), newCatalog())

		rec := do(mux, http.MethodPost, "/orders",
			`{"customer_id":"CUST-001","items":[{"item_id":"ITEM-001","quantity":1}],"status":"completed"}`)

		var body validationBody
		_ = json.NewDecoder(rec.Body).Decode(&body)
		if rec.Code != http.StatusUnprocessableEntity || body.Fields["status"] == "" {
			t.Errorf("expected 422 on status, got %d %v", rec.Code, body.Fields)
		}
	})

	t.Run("catalog unavailable", func(t *testing.T) {
		catalog := newCatalog()
		catalog.down = true
		mux := newTestMux(t, newMemStore(), catalog)

		rec := do(mux, http.MethodPost, "/orders",
			`{"customer_id":"CUST-001","items":[{"item_id":"ITEM-001","quantity":1}]}`)

		if rec.Code != http.StatusBadGateway {
			t.Errorf("expected status 502, got %d", rec.Code)
		}
	})

	t.Run("publish failure does not fail the request", func(t *testing.T) {
		pub := &recordingPublisher{err: errors.New("broker down")}
		mux := newTestMux(t, newMemStore(), newCatalog(), WithPublisher(pub))

		rec := do(mux, http.MethodPost, "/orders",
			`{"customer_id":"CUST-002","items":[{"item_id":"ITEM-002","quantity":1}]}`)

		if rec.Code != http.StatusCreated {
			t.Errorf("expected status 201, got %d", rec.Code)
		}
	})

	t.Run("store failure", func(t *testing.T) {
		store := newMemStore()
		store.createErr = errors.New("db down")
		mux := newTestMux(t, store, newCatalog())

		rec := do(mux, http.MethodPost, "/orders",
			`{"customer_id":"CUST-002","items":[{"item_id":"ITEM-002","quantity":1}]}`)

		if rec.Code != http.StatusInternalServerError {
			t.Errorf("expected status 500, got %d", rec.Code)
		}
	})

	t.Run("invalid body", func(t *testing.T) {
		mux := newTestMux(t, newMemStore(), newCatalog())

		rec := do(mux, http.MethodPost, "/orders", `{`)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", rec.Code)
		}
	})
}

func TestHandleCreate_QuantityLimit(t *testing.T) {
	tests := []struct {
		name     string
		quantity string
		want     int
	}{
		{name: "at the limit", quantity: "9999", want: http.StatusCreated},
		{name: "one above the limit", quantity: "10000", want: http.StatusUnprocessableEntity},
		{name: "would overflow the subtotal", quantity: "1152921504606846976", want: http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore()
			mux := newTestMux(t, store, newCatalog())

			rec := do(mux, http.MethodPost, "/orders",
				`{"customer_id":"CUST-001","items":[{"item_id":"ITEM-001","quantity":`+tt.quantity+`}]}`)

			if rec.Code != tt.want {
				t.Fatalf("expected status %d, got %d: %s", tt.want, rec.Code, rec.Body.String())
			}
			if tt.want == http.StatusCreated {
				var order domain.Order
				if err := json.NewDecoder(rec.Body).Decode(&order); err != nil {
					t.Fatalf("failed to decode response: %v", err)
				}
				if order.Total != 9999*9999 {
					t.Errorf("expected total %d, got %d", 9999*9999, order.Total)
				}
				return
			}

			var body validationBody
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if !strings.Contains(body.Fields["items"], "quantity cannot exceed") {
				t.Errorf("expected quantity error on items, got %v", body.Fields)
			}
			if len(store.orders) != 0 {
				t.Error("expected nothing stored")
			}
		})
	}
}

func TestHandleCreate_Idempotency(t *testing.T) {
	store := newMemStore()
	idem := &memIdempotency{keys: map[string]string{}}
	mux := newTestMux(t, store, newCatalog(), WithIdempotency(idem))
	body := `{"customer_id":"CUST-001","items":[{"item_id":"ITEM-001","quantity":1}]}`

	first := do(mux, http.MethodPost, "/orders", body, IdempotencyHeader, "abc")
	second := do(mux, http.MethodPost, "/orders", body, IdempotencyHeader, "abc")

	if first.Code != http.StatusCreated {
		t.Fatalf("expected first status 201, got %d", first.Code)
	}
	if second.Code != http.StatusOK {
		t.Fatalf("expected replay status 200, got %d", second.Code)
	}

	var a, b domain.Order
	_ = json.NewDecoder(first.Body).Decode(&a)
	_ = json.NewDecoder(second.Body).Decode(&b)
	if a.ID != b.ID {
		t.Errorf("expected same order, got %s and %s", a.ID, b.ID)
	}
	if len(store.orders) != 1 {
		t.Errorf("expected 1 stored order, got %d", len(store.orders))
	}

	third := do(mux, http.MethodPost, "/orders", body, IdempotencyHeader, "other")
	if third.Code != http.StatusCreated || len(store.orders) != 2 {
		t.Errorf("expected a new order for a new key, got %d with %d stored", third.Code, len(store.orders))
	}
}

func TestHandleUpdate(t *testing.T) {
	t.Run("keeps stored snapshot price and adds new lines at catalog price", func(t *testing.T) {
		store := newMemStore(storedOrder())
		pub := &recordingPublisher{}
		mux := newTestMux(t, store, newCatalog(), WithPublisher(pub))

		rec := do(mux, http.MethodPut, "/orders/ORD-001",
			`{"customer_id":"CUST-001","items":[{"item_id":"ITEM-001","quantity":2},{"item_id":"ITEM-002","quantity":1}],"status":"completed"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
		}
		order := store.orders["ORD-001"]
		// 2 x 89.99 (stored) + 49.99 (catalog)
		if order.Total != 22997 {
			t.Errorf("expected total 22997, got %d", order.Total)
		}
		if order.Status != domain.OrderStatusCompleted {
			t.Errorf("expected status completed, got %q", order.Status)
		}
		if !order.CreatedAt.Equal(storedOrder().CreatedAt) {
			t.Error("expected created_at to be kept")
		}
		if len(pub.events) != 1 || !pub.events[0].Updated {
			t.Errorf("expected one update event, got %+v", pub.events)
		}
	})

	t.Run("omitted lines are removed", func(t *testing.T) {
		store := newMemStore(storedOrder())
		mux := newTestMux(t, store, newCatalog())

		rec := do(mux, http.MethodPut, "/orders/ORD-001",
			`{"customer_id":"CUST-001","items":[{"item_id":"ITEM-003","quantity":1}]}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		lines := store.orders["ORD-001"].Lines
		if len(lines) != 1 || lines[0].ItemID != "ITEM-003" {
			t.Errorf("unexpected lines: %+v", lines)
		}
	})

	t.Run("customer change allowed by default", func(t *testing.T) {
		store := newMemStore(storedOrder())
		mux := newTestMux(t, store, newCatalog())

		rec := do(mux, http.MethodPut, "/orders/ORD-001",
			`{"customer_id":"CUST-002","items":[{"item_id":"ITEM-001","quantity":1}]}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		if store.orders["ORD-001"].CustomerName != "Jane Smith" {
			t.Errorf("expected customer Jane Smith, got %q", store.orders["ORD-001"].CustomerName)
		}
	})

	t.Run("customer change rejected when locked", func(t *testing.T) {
		store := newMemStore(storedOrder())
		mux := newTestMux(t, store, newCatalog(), WithCustomerLockedOnEdit(true))

		rec := do(mux, http.MethodPut, "/orders/ORD-001",
			`{"customer_id":"CUST-002","items":[{"item_id":"ITEM-001","quantity":1}]}`)

		var body validationBody
		_ = json.NewDecoder(rec.Body).Decode(&body)
		if rec.Code != http.StatusUnprocessableEntity || body.Fields["customer"] == "" {
			t.Errorf("expected 422 on customer, got %d %v", rec.Code, body.Fields)
		}
		if store.orders["ORD-001"].CustomerID != "CUST-001" {
			t.Error("expected stored order to be unchanged")
		}
	})

	t.Run("not found", func(t *testing.T) {
		mux := newTestMux(t, newMemStore(), newCatalog())

		rec := do(mux, http.MethodPut, "/orders/missing", `{"customer_id":"CUST-001","items":[]}`)

		if rec.Code != http.StatusNotFound {
			t.Errorf("expected status 404, got %d", rec.Code)
		}
	})
}

func TestHandleUpdateStatus(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		want       domain.OrderStatus
	}{
		{name: "completed", body: `{"status":"completed"}`, wantStatus: http.StatusOK, want: domain.OrderStatusCompleted},
		{name: "cancelled", body: `{"status":"cancelled"}`, wantStatus: http.StatusOK, want: domain.OrderStatusCancelled},
		{name: "unknown status", body: `{"status":"shipped"}`, wantStatus: http.StatusUnprocessableEntity, want: domain.OrderStatusPending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore(storedOrder())
			mux := newTestMux(t, store, newCatalog())

			rec := do(mux, http.MethodPatch, "/orders/ORD-001/status", tt.body)

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}
			if got := store.orders["ORD-001"].Status; got != tt.want {
				t.Errorf("expected stored status %q, got %q", tt.want, got)
			}
		})
	}
}

func TestHandleGetAndDelete(t *testing.T) {
	store := newMemStore(storedOrder())
	mux := newTestMux(t, store, newCatalog())

	rec := do(mux, http.MethodGet, "/orders/ORD-001", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	rec = do(mux, http.MethodDelete, "/orders/ORD-001", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", rec.Code)
	}

	rec = do(mux, http.MethodGet, "/orders/ORD-001", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status 404 after delete, got %d", rec.Code)
	}

	rec = do(mux, http.MethodDelete, "/orders/ORD-001", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status 404 on second delete, got %d", rec.Code)
	}
}

func TestHandleStats(t *testing.T) {
	completed := storedOrder()
	completed.ID = "ORD-002"
	completed.Status = domain.OrderStatusCompleted
	completed.Total = 12597
	mux := newTestMux(t, newMemStore(storedOrder(), completed), newCatalog())

	rec := do(mux, http.MethodGet, "/stats", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var stats domain.OrderStats
	if err := json.NewDecoder(rec.Body).Decode(&stats); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if stats.Count != 2 || stats.Revenue != 12597 {
		t.Errorf("expected count 2 revenue 12597, got %+v", stats)
	}
}
