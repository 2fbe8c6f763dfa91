package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/prabinkarki/storefront/internal/checkout/app"
	"github.com/prabinkarki/storefront/internal/checkout/domain"
	"github.com/prabinkarki/storefront/internal/checkout/ports"
)

// ownerHeader carries the opaque owner identifier supplied by the identity
// layer in front of this service. The core never authenticates users itself.
const ownerHeader = "X-Owner-ID"

// Handler exposes HTTP endpoints for cart, checkout and payment operations.
type Handler struct {
	service *app.Service
}

// NewHandler constructs a Handler.
func NewHandler(service *app.Service) *Handler {
	return &Handler{service: service}
}

// Register binds the handlers to the provided ServeMux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/v1/cart", h.handleCart)
	mux.HandleFunc("/v1/cart/items", h.handleCartItems)
	mux.HandleFunc("/v1/cart/items/", h.handleCartItemByID)
	mux.HandleFunc("/v1/checkout", h.handleCheckout)
	mux.HandleFunc("/v1/orders", h.handleOrders)
	mux.HandleFunc("/v1/orders/", h.handleOrderByID)
	mux.HandleFunc("/v1/payments/confirmation", h.handleConfirmation)
}

func (h *Handler) handleCart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	ownerID, ok := ownerFrom(w, r)
	if !ok {
		return
	}

	cart, err := h.service.GetCart(r.Context(), ownerID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"cart": cart})
}

func (h *Handler) handleCartItems(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	ownerID, ok := ownerFrom(w, r)
	if !ok {
		return
	}

	var payload app.AddItemInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	cart, err := h.service.AddItem(r.Context(), ownerID, payload)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"cart": cart})
}

func (h *Handler) handleCartItemByID(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerFrom(w, r)
	if !ok {
		return
	}

	trimmed := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/v1/cart/items/"), "/")
	lineID, err := uuid.Parse(trimmed)
	if err != nil {
		writeError(w, http.StatusNotFound, "cart line not found")
		return
	}

	switch r.Method {
	case http.MethodPatch:
		var payload struct {
			Delta int32 `json:"delta"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON payload")
			return
		}

		cart, err := h.service.AdjustItem(r.Context(), ownerID, lineID, payload.Delta)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"cart": cart})
	case http.MethodDelete:
		cart, err := h.service.RemoveItem(r.Context(), ownerID, lineID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"cart": cart})
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *Handler) handleCheckout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	ownerID, ok := ownerFrom(w, r)
	if !ok {
		return
	}

	ctx := r.Context()
	idemKey := strings.TrimSpace(r.Header.Get("Idempotency-Key"))
	if idemKey != "" {
		stored, err := h.service.GetIdempotentResponse(ctx, idemKey)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if stored != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(stored.StatusCode)
			_, _ = w.Write(stored.Body)
			return
		}
	}

	order, err := h.service.Checkout(ctx, ownerID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	body, err := json.Marshal(map[string]any{"order": order})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if idemKey != "" {
		stored := ports.StoredResponse{
			StatusCode: http.StatusCreated,
			Body:       body,
			OrderID:    order.ID.String(),
		}
		if err := h.service.SaveIdempotentResponse(ctx, idemKey, stored); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_, _ = w.Write(body)
}

func (h *Handler) handleOrders(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	filter := ports.ListFilter{}
	if statusParam := r.URL.Query().Get("status"); statusParam != "" {
		status := domain.OrderStatus(statusParam)
		if !status.Valid() {
			writeError(w, http.StatusUnprocessableEntity, "unknown order status")
			return
		}
		filter.Status = &status
	}
	if pageParam := r.URL.Query().Get("page"); pageParam != "" {
		if page, err := strconv.Atoi(pageParam); err == nil {
			filter.Page = page
		}
	}
	if pageSizeParam := r.URL.Query().Get("page_size"); pageSizeParam != "" {
		if pageSize, err := strconv.Atoi(pageSizeParam); err == nil {
			filter.PageSize = pageSize
		}
	}

	orders, err := h.service.ListOrders(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"orders": orders})
}

func (h *Handler) handleOrderByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	trimmed := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/v1/orders/"), "/")
	orderID, err := uuid.Parse(trimmed)
	if err != nil {
		writeError(w, http.StatusNotFound, "order not found")
		return
	}

	order, err := h.service.GetOrder(r.Context(), orderID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"order": order})
}

// handleConfirmation is the gateway callback. Deliveries are at-least-once
// and may be concurrent; replays get the current terminal state back.
func (h *Handler) handleConfirmation(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var payload app.ConfirmationInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	order, err := h.service.RecordConfirmation(r.Context(), payload)
	if err != nil {
		if errors.Is(err, domain.ErrAmountMismatch) {
			writeJSON(w, http.StatusConflict, map[string]any{
				"error": err.Error(),
				"order": order,
			})
			return
		}
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"order": order})
}

func ownerFrom(w http.ResponseWriter, r *http.Request) (string, bool) {
	ownerID := strings.TrimSpace(r.Header.Get(ownerHeader))
	if ownerID == "" {
		writeError(w, http.StatusBadRequest, ownerHeader+" header required")
		return "", false
	}
	return ownerID, true
}

// writeDomainError maps the error taxonomy onto HTTP statuses: validation
// errors are rejected requests, consistency errors are conflicts, and
// transient errors tell the caller to retry.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrCartNotFound),
		errors.Is(err, domain.ErrLineNotFound),
		errors.Is(err, domain.ErrOrderNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrProductNotFound),
		errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrCurrencyMismatch):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, domain.ErrCartCheckedOut),
		errors.Is(err, domain.ErrEmptyCart):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrConcurrentModification),
		errors.Is(err, domain.ErrVerifierUnavailable):
		w.Header().Set("Retry-After", "1")
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		writeError(w, http.StatusBadRequest, err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": message})
}
