package cart

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/hypecare/storefront/internal/catalog"
	"github.com/hypecare/storefront/internal/domain"
	"github.com/hypecare/storefront/internal/telemetry"
)

type Handler struct {
	store    *Store
	products *catalog.Catalog
	metrics  *telemetry.Metrics
	logger   *slog.Logger
}

func NewHandler(store *Store, products *catalog.Catalog, metrics *telemetry.Metrics, logger *slog.Logger) *Handler {
	return &Handler{
		store:    store,
		products: products,
		metrics:  metrics,
		logger:   logger,
	}
}

type cartView struct {
	Items      []domain.CartItem `json:"items"`
	TotalItems int               `json:"totalItems"`
	TotalPrice int64             `json:"totalPrice"`
}

func (h *Handler) view() cartView {
	return cartView{
		Items:      h.store.Items(),
		TotalItems: h.store.TotalItems(),
		TotalPrice: h.store.TotalPrice(),
	}
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.view())
}

type addItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

func (h *Handler) HandleAddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	product, ok := h.products.Get(req.ProductID)
	if !ok {
		h.writeError(w, http.StatusNotFound, "product not found")
		return
	}

	h.store.Add(r.Context(), product, req.Quantity)
	h.metrics.CartMutation(r.Context(), "add")

	h.logger.Info("item added to cart", "product_id", product.ID, "quantity", req.Quantity)
	h.writeJSON(w, http.StatusOK, h.view())
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

func (h *Handler) HandleUpdateQuantity(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "missing item id")
		return
	}

	var req updateQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	h.store.UpdateQuantity(r.Context(), id, req.Quantity)
	h.metrics.CartMutation(r.Context(), "update")

	h.logger.Info("cart quantity updated", "item_id", id, "quantity", req.Quantity)
	h.writeJSON(w, http.StatusOK, h.view())
}

func (h *Handler) HandleRemoveItem(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "missing item id")
		return
	}

	h.store.Remove(r.Context(), id)
	h.metrics.CartMutation(r.Context(), "remove")

	h.logger.Info("item removed from cart", "item_id", id)
	h.writeJSON(w, http.StatusOK, h.view())
}

func (h *Handler) HandleClear(w http.ResponseWriter, r *http.Request) {
	h.store.Clear(r.Context())
	h.metrics.CartMutation(r.Context(), "clear")

	h.logger.Info("cart cleared")
	h.writeJSON(w, http.StatusOK, h.view())
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
