package catalog

import (
	"encoding/json"
	"net/http"

	"github.com/joao-fontenele/storefront-admin/internal/forms"
)

func (h *Handler) HandleListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.customers.List(r.Context())
	if err != nil {
		h.writeStoreError(w, err, "customer", "failed to list customers")
		return
	}

	h.logger.Info("customers listed", "count", len(customers))
	h.writeJSON(w, http.StatusOK, customers)
}

func (h *Handler) HandleGetCustomer(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "missing customer id")
		return
	}

	customer, err := h.customers.Get(r.Context(), id)
	if err != nil {
		h.writeStoreError(w, err, "customer", "failed to get customer", "customer_id", id)
		return
	}

	h.writeJSON(w, http.StatusOK, customer)
}

func (h *Handler) HandleCreateCustomer(w http.ResponseWriter, r *http.Request) {
	var form forms.CustomerForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	in, err := form.Input()
	if err != nil {
		h.writeValidation(w, forms.FromError(err))
		return
	}

	customer, err := h.customers.Create(r.Context(), in)
	if err != nil {
		h.writeStoreError(w, err, "customer", "failed to create customer")
		return
	}

	h.logger.Info("customer created", "customer_id", customer.ID)
	h.writeJSON(w, http.StatusCreated, customer)
}

func (h *Handler) HandleUpdateCustomer(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "missing customer id")
		return
	}

	var form forms.CustomerForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	in, err := form.Input()
	if err != nil {
		h.writeValidation(w, forms.FromError(err))
		return
	}

	customer, err := h.customers.Update(r.Context(), id, in)
	if err != nil {
		h.writeStoreError(w, err, "customer", "failed to update customer", "customer_id", id)
		return
	}

	h.logger.Info("customer updated", "customer_id", id)
	h.writeJSON(w, http.StatusOK, customer)
}

func (h *Handler) HandleDeleteCustomer(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "missing customer id")
		return
	}

	if err := h.customers.Delete(r.Context(), id); err != nil {
		h.writeStoreError(w, err, "customer", "failed to delete customer", "customer_id", id)
		return
	}

	h.logger.Info("customer deleted", "customer_id", id)
	w.WriteHeader(http.StatusNoContent)
}
