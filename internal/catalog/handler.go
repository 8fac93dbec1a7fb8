package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/joao-fontenele/storefront-admin/internal/domain"
	"github.com/joao-fontenele/storefront-admin/internal/forms"
)

type CustomerStore interface {
	List(ctx context.Context) ([]domain.Customer, error)
	Get(ctx context.Context, id string) (*domain.Customer, error)
	Create(ctx context.Context, in domain.CustomerInput) (*domain.Customer, error)
	Update(ctx context.Context, id string, in domain.CustomerInput) (*domain.Customer, error)
	Delete(ctx context.Context, id string) error
}

type ItemStore interface {
	List(ctx context.Context) ([]domain.Item, error)
	Get(ctx context.Context, id string) (*domain.Item, error)
	Create(ctx context.Context, in domain.ItemInput) (*domain.Item, error)
	Update(ctx context.Context, id string, in domain.ItemInput) (*domain.Item, error)
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (domain.ItemStats, error)
}

type Handler struct {
	customers CustomerStore
	items     ItemStore
	logger    *slog.Logger
}

func NewHandler(customers CustomerStore, items ItemStore, logger *slog.Logger) *Handler {
	return &Handler{
		customers: customers,
		items:     items,
		logger:    logger,
	}
}

// Register mounts the customer and item routes on mux.
func (h *Handler) Register(mux *http.ServeMux, wrap func(http.HandlerFunc) http.HandlerFunc) {
	if wrap == nil {
		wrap = func(f http.HandlerFunc) http.HandlerFunc { return f }
	}
	mux.HandleFunc("GET /customers", wrap(h.HandleListCustomers))
	mux.HandleFunc("POST /customers", wrap(h.HandleCreateCustomer))
	mux.HandleFunc("GET /customers/{id}", wrap(h.HandleGetCustomer))
	mux.HandleFunc("PUT /customers/{id}", wrap(h.HandleUpdateCustomer))
	mux.HandleFunc("DELETE /customers/{id}", wrap(h.HandleDeleteCustomer))
	mux.HandleFunc("GET /items", wrap(h.HandleListItems))
	mux.HandleFunc("POST /items", wrap(h.HandleCreateItem))
	mux.HandleFunc("GET /items/stats", wrap(h.HandleItemStats))
	mux.HandleFunc("GET /items/{id}", wrap(h.HandleGetItem))
	mux.HandleFunc("PUT /items/{id}", wrap(h.HandleUpdateItem))
	mux.HandleFunc("DELETE /items/{id}", wrap(h.HandleDeleteItem))
}

type validationResponse struct {
	Error  string       `json:"error"`
	Fields forms.Errors `json:"fields"`
}

func (h *Handler) writeValidation(w http.ResponseWriter, errs forms.Errors) {
	h.writeJSON(w, http.StatusUnprocessableEntity, validationResponse{Error: "validation failed", Fields: errs})
}

// writeStoreError maps repository errors to responses. what names the
// resource in the not-found message.
func (h *Handler) writeStoreError(w http.ResponseWriter, err error, what, msg string, args ...any) {
	if errors.Is(err, ErrNotFound) {
		h.writeError(w, http.StatusNotFound, what+" not found")
		return
	}
	h.logger.Error(msg, append([]any{"error", err}, args...)...)
	h.writeError(w, http.StatusInternalServerError, "internal server error")
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
