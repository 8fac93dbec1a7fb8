package orders

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/joao-fontenele/storefront-admin/internal/composer"
	"github.com/joao-fontenele/storefront-admin/internal/domain"
	"github.com/joao-fontenele/storefront-admin/internal/forms"
)

var meter = otel.Meter("orders")

type Store interface {
	Create(ctx context.Context, order domain.Order) error
	Update(ctx context.Context, order domain.Order) error
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	List(ctx context.Context) ([]domain.Order, error)
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (domain.OrderStats, error)
}

type Publisher interface {
	Publish(ctx context.Context, key string, event any) error
}

type Handler struct {
	repo         Store
	catalog      Catalog
	publisher    Publisher
	idempotency  IdempotencyStore
	lockCustomer bool
	logger       *slog.Logger

	finalized metric.Int64Counter
	revenue   metric.Int64Counter
}

type HandlerOption func(*Handler)

// WithPublisher publishes an order.finalized event after every create and
// update.
func WithPublisher(p Publisher) HandlerOption {
	return func(h *Handler) {
		h.publisher = p
	}
}

func WithIdempotency(store IdempotencyStore) HandlerOption {
	return func(h *Handler) {
		h.idempotency = store
	}
}

func WithCustomerLockedOnEdit(locked bool) HandlerOption {
	return func(h *Handler) {
		h.lockCustomer = locked
	}
}

func NewHandler(repo Store, catalog Catalog, logger *slog.Logger, opts ...HandlerOption) (*Handler, error) {
	h := &Handler{
		repo:    repo,
		catalog: catalog,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(h)
	}

	var err error
	h.finalized, err = meter.Int64Counter("orders.finalized",
		metric.WithDescription("Orders created or updated"),
	)
	if err != nil {
		return nil, err
	}
	h.revenue, err = meter.Int64Counter("orders.revenue_cents",
		metric.WithDescription("Total of orders that reached the completed status"),
		metric.WithUnit("{cent}"),
	)
	if err != nil {
		return nil, err
	}

	return h, nil
}

// Register mounts the order routes on mux.
func (h *Handler) Register(mux *http.ServeMux, wrap func(http.HandlerFunc) http.HandlerFunc) {
	if wrap == nil {
		wrap = func(f http.HandlerFunc) http.HandlerFunc { return f }
	}
	mux.HandleFunc("GET /orders", wrap(h.HandleList))
	mux.HandleFunc("POST /orders", wrap(h.HandleCreate))
	mux.HandleFunc("GET /orders/{id}", wrap(h.HandleGet))
	mux.HandleFunc("PUT /orders/{id}", wrap(h.HandleUpdate))
	mux.HandleFunc("PATCH /orders/{id}/status", wrap(h.HandleUpdateStatus))
	mux.HandleFunc("DELETE /orders/{id}", wrap(h.HandleDelete))
	mux.HandleFunc("GET /stats", wrap(h.HandleStats))
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var sub domain.OrderSubmission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	draft := composer.New()
	fields, err := compose(r.Context(), h.catalog, draft, sub)
	if err != nil {
		h.logger.Error("failed to compose order", "error", err)
		h.writeError(w, http.StatusBadGateway, "catalog service unavailable")
		return
	}
	if len(fields) > 0 {
		h.writeValidation(w, fields)
		return
	}

	order, err := draft.Finalize()
	if err != nil {
		h.writeValidation(w, fieldsOf(err))
		return
	}

	key := idempotencyKey(r)
	if key != "" && h.idempotency != nil {
		existing, claimed, err := h.idempotency.Claim(r.Context(), key, order.ID)
		if err != nil {
			h.logger.Error("failed to claim idempotency key", "error", err, "key", key)
			h.writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		if !claimed {
			h.replay(w, r, existing)
			return
		}
	}

	if err := h.repo.Create(r.Context(), order); err != nil {
		h.logger.Error("failed to create order", "error", err)
		if key != "" && h.idempotency != nil {
			if err := h.idempotency.Release(r.Context(), key); err != nil {
				h.logger.Error("failed to release idempotency key", "error", err, "key", key)
			}
		}
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.finalize(r.Context(), order, false, "")

	h.logger.Info("order created", "order_id", order.ID, "customer_id", order.CustomerID, "total", order.Total.String())
	h.writeJSON(w, http.StatusCreated, order)
}

// replay answers a repeated create with the order the key first produced.
func (h *Handler) replay(w http.ResponseWriter, r *http.Request, orderID string) {
	order, err := h.repo.GetByID(r.Context(), orderID)
	if errors.Is(err, ErrNotFound) {
		h.writeError(w, http.StatusConflict, "request with this idempotency key is in progress")
		return
	}
	if err != nil {
		h.logger.Error("failed to get order", "error", err, "id", orderID)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.logger.Info("order create replayed", "order_id", order.ID)
	h.writeJSON(w, http.StatusOK, order)
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var sub domain.OrderSubmission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	stored, ok := h.load(w, r, id)
	if !ok {
		return
	}

	draft := composer.Edit(*stored, composer.WithCustomerLockedOnEdit(h.lockCustomer))
	fields, err := compose(r.Context(), h.catalog, draft, sub)
	if err != nil {
		h.logger.Error("failed to compose order", "error", err, "id", id)
		h.writeError(w, http.StatusBadGateway, "catalog service unavailable")
		return
	}
	if len(fields) > 0 {
		h.writeValidation(w, fields)
		return
	}

	h.save(w, r, draft, stored.Status)
}

type updateStatusRequest struct {
	Status domain.OrderStatus `json:"status"`
}

func (h *Handler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	stored, ok := h.load(w, r, id)
	if !ok {
		return
	}

	draft := composer.Edit(*stored)
	if err := draft.SetStatus(req.Status); err != nil {
		h.writeValidation(w, forms.Errors{fieldStatus: err.Error()})
		return
	}

	h.save(w, r, draft, stored.Status)
}

func (h *Handler) load(w http.ResponseWriter, r *http.Request, id string) (*domain.Order, bool) {
	order, err := h.repo.GetByID(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		h.writeError(w, http.StatusNotFound, "order not found")
		return nil, false
	}
	if err != nil {
		h.logger.Error("failed to get order", "error", err, "id", id)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return nil, false
	}
	return order, true
}

func (h *Handler) save(w http.ResponseWriter, r *http.Request, draft *composer.Draft, previous domain.OrderStatus) {
	order, err := draft.Finalize()
	if err != nil {
		h.writeValidation(w, fieldsOf(err))
		return
	}

	if err := h.repo.Update(r.Context(), order); err != nil {
		if errors.Is(err, ErrNotFound) {
			h.writeError(w, http.StatusNotFound, "order not found")
			return
		}
		h.logger.Error("failed to update order", "error", err, "id", order.ID)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.finalize(r.Context(), order, true, previous)

	h.logger.Info("order updated", "order_id", order.ID, "status", order.Status, "total", order.Total.String())
	h.writeJSON(w, http.StatusOK, order)
}

// finalize records metrics and publishes the event for a stored order.
// Publish failures are logged only.
func (h *Handler) finalize(ctx context.Context, order domain.Order, updated bool, previous domain.OrderStatus) {
	h.finalized.Add(ctx, 1, metric.WithAttributes(
		attribute.String("status", string(order.Status)),
		attribute.Bool("updated", updated),
	))
	if order.Status == domain.OrderStatusCompleted && previous != domain.OrderStatusCompleted {
		h.revenue.Add(ctx, int64(order.Total))
	}

	if h.publisher == nil {
		return
	}
	event := domain.OrderFinalizedEvent{
		OrderID:    order.ID,
		CustomerID: order.CustomerID,
		Lines:      order.Lines,
		Total:      order.Total,
		Status:     order.Status,
		Updated:    updated,
		Timestamp:  order.UpdatedAt,
	}
	if err := h.publisher.Publish(ctx, order.ID, event); err != nil {
		h.logger.Error("failed to publish order finalized event", "error", err, "order_id", order.ID)
	}
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	order, ok := h.load(w, r, r.PathValue("id"))
	if !ok {
		return
	}

	h.logger.Info("order retrieved", "order_id", order.ID)
	h.writeJSON(w, http.StatusOK, order)
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	orders, err := h.repo.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list orders", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.logger.Info("orders listed", "count", len(orders))
	h.writeJSON(w, http.StatusOK, orders)
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	err := h.repo.Delete(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		h.writeError(w, http.StatusNotFound, "order not found")
		return
	}
	if err != nil {
		h.logger.Error("failed to delete order", "error", err, "id", id)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.logger.Info("order deleted", "order_id", id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.repo.Stats(r.Context())
	if err != nil {
		h.logger.Error("failed to compute order stats", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.writeJSON(w, http.StatusOK, stats)
}

func fieldsOf(err error) forms.Errors {
	fields := forms.Errors{}
	addDraftErrors(fields, err)
	if len(fields) == 0 {
		fields.Add(fieldItems, err.Error())
	}
	return fields
}

type validationResponse struct {
	Error  string       `json:"error"`
	Fields forms.Errors `json:"fields"`
}

func (h *Handler) writeValidation(w http.ResponseWriter, fields forms.Errors) {
	h.writeJSON(w, http.StatusUnprocessableEntity, validationResponse{
		Error:  "validation failed",
		Fields: fields,
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
