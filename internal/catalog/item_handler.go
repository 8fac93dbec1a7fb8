package catalog

import (
	"encoding/json"
	"net/http"

	"github.com/joao-fontenele/storefront-admin/internal/domain"
	"github.com/joao-fontenele/storefront-admin/internal/forms"
)

func (h *Handler) HandleListItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.items.List(r.Context())
	if err != nil {
		h.writeStoreError(w, err, "item", "failed to list items")
		return
	}

	h.logger.Info("items listed", "count", len(items))
	h.writeJSON(w, http.StatusOK, items)
}

func (h *Handler) HandleGetItem(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "missing item id")
		return
	}

	item, err := h.items.Get(r.Context(), id)
	if err != nil {
		h.writeStoreError(w, err, "item", "failed to get item", "item_id", id)
		return
	}

	h.writeJSON(w, http.StatusOK, item)
}

func (h *Handler) HandleItemStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.items.Stats(r.Context())
	if err != nil {
		h.writeStoreError(w, err, "item", "failed to compute item stats")
		return
	}

	h.writeJSON(w, http.StatusOK, stats)
}

// itemRequest accepts the price either as a decimal string ("12.99") or as
// integer cents (1299). Fractional JSON numbers are ambiguous and rejected.
type itemRequest struct {
	Name  string          `json:"name"`
	Price json.RawMessage `json:"price"`
}

const priceFormatReason = `Price must be a decimal string such as "12.99" or integer cents`

// form returns the typed form, or a reason when the price is neither a
// string nor integer cents.
func (req itemRequest) form() (forms.ItemForm, string) {
	form := forms.ItemForm{Name: req.Name}
	if len(req.Price) == 0 || string(req.Price) == "null" {
		return form, ""
	}

	var typed string
	if err := json.Unmarshal(req.Price, &typed); err == nil {
		form.Price = typed
		return form, ""
	}

	var cents int64
	if err := json.Unmarshal(req.Price, &cents); err == nil {
		form.Price = domain.Money(cents).String()
		return form, ""
	}

	return form, priceFormatReason
}

func (h *Handler) decodeItem(w http.ResponseWriter, r *http.Request) (forms.ItemForm, bool) {
	var req itemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return forms.ItemForm{}, false
	}

	form, reason := req.form()
	if reason != "" {
		errs := form.Validate()
		errs.Clear(forms.FieldPrice)
		errs.Add(forms.FieldPrice, reason)
		h.writeValidation(w, errs)
		return forms.ItemForm{}, false
	}
	return form, true
}

func (h *Handler) HandleCreateItem(w http.ResponseWriter, r *http.Request) {
	form, ok := h.decodeItem(w, r)
	if !ok {
		return
	}

	in, err := form.Input()
	if err != nil {
		h.writeValidation(w, forms.FromError(err))
		return
	}

	item, err := h.items.Create(r.Context(), in)
	if err != nil {
		h.writeStoreError(w, err, "item", "failed to create item")
		return
	}

	h.logger.Info("item created", "item_id", item.ID, "price", item.Price.String())
	h.writeJSON(w, http.StatusCreated, item)
}

func (h *Handler) HandleUpdateItem(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "missing item id")
		return
	}

	form, ok := h.decodeItem(w, r)
	if !ok {
		return
	}

	in, err := form.Input()
	if err != nil {
		h.writeValidation(w, forms.FromError(err))
		return
	}

	item, err := h.items.Update(r.Context(), id, in)
	if err != nil {
		h.writeStoreError(w, err, "item", "failed to update item", "item_id", id)
		return
	}

	h.logger.Info("item updated", "item_id", id)
	h.writeJSON(w, http.StatusOK, item)
}

func (h *Handler) HandleDeleteItem(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "missing item id")
		return
	}

	if err := h.items.Delete(r.Context(), id); err != nil {
		h.writeStoreError(w, err, "item", "failed to delete item", "item_id", id)
		return
	}

	h.logger.Info("item deleted", "item_id", id)
	w.WriteHeader(http.StatusNoContent)
}
