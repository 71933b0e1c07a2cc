package http

import (
	"net/http"
	"strings"

	"github.com/YelzhanWeb/storefront/internal/adapter/logger"
	"github.com/YelzhanWeb/storefront/internal/domain"
	"github.com/YelzhanWeb/storefront/internal/interfaces"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// StorefrontHandler serves the customer view.
type StorefrontHandler struct {
	catalog  interfaces.CatalogService
	carts    interfaces.CartService
	orders   interfaces.OrderService
	tracking interfaces.TrackingService
	settings interfaces.SettingsService
	who      identities
	logger   logger.Logger
}

func NewStorefrontHandler(
	catalog interfaces.CatalogService,
	carts interfaces.CartService,
	orders interfaces.OrderService,
	tracking interfaces.TrackingService,
	settings interfaces.SettingsService,
	accounts interfaces.AccountService,
	logger logger.Logger,
) *StorefrontHandler {
	return &StorefrontHandler{
		catalog:  catalog,
		carts:    carts,
		orders:   orders,
		tracking: tracking,
		settings: settings,
		who:      identities{accounts: accounts},
		logger:   logger,
	}
}

func (h *StorefrontHandler) RegisterRoutes(r chi.Router) {
	r.Get("/config", h.getConfig)
	r.Get("/products", h.listProducts)
	r.Post("/devices", h.issueDevice)

	r.Route("/cart", func(r chi.Router) {
		r.Get("/", h.getCart)
		r.Delete("/", h.clearCart)
		r.Post("/items", h.addItem)
		r.Post("/items/{productID}/increment", h.increment)
		r.Post("/items/{productID}/decrement", h.decrement)
		r.Put("/items/{productID}/note", h.setNote)
	})

	r.Post("/checkout", h.checkout)
	r.Get("/orders/active", h.activeOrder)
	r.Get("/orders/{id}/status", h.orderStatus)
}

func (h *StorefrontHandler) getConfig(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.settings.Current(r.Context()).Public())
}

func (h *StorefrontHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	category := domain.Category(r.URL.Query().Get("category"))
	if category != "" && !category.Valid() {
		respondBadRequest(w, "unknown category")
		return
	}
	respondJSON(w, http.StatusOK, h.catalog.List(r.Context(), category))
}

// issueDevice hands out the opaque id the client keeps and sends back in
// X-Device-ID.
func (h *StorefrontHandler) issueDevice(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusCreated, map[string]string{"device_id": uuid.NewString()})
}

func (h *StorefrontHandler) getCart(w http.ResponseWriter, r *http.Request) {
	who, err := h.who.resolve(r.Context(), r)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, CartResponse{CartView: h.carts.Get(r.Context(), who)})
}

func (h *StorefrontHandler) clearCart(w http.ResponseWriter, r *http.Request) {
	who, err := h.who.resolve(r.Context(), r)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	h.carts.Clear(r.Context(), who)
	respondJSON(w, http.StatusOK, CartResponse{CartView: h.carts.Get(r.Context(), who)})
}

type addItemRequest struct {
	ProductID string `json:"product_id"`
}

func (h *StorefrontHandler) addItem(w http.ResponseWriter, r *http.Request) {
	who, err := h.who.resolve(r.Context(), r)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	var req addItemRequest
	if err := decodeJSON(w, r, &req); err != nil || req.ProductID == "" {
		respondBadRequest(w, "product_id is required")
		return
	}

	view, err := h.carts.Add(r.Context(), who, req.ProductID)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, CartResponse{
		CartView: view,
		Toast:    &Toast{Type: ToastSuccess, Message: "Adicionado ao carrinho"},
	})
}

func (h *StorefrontHandler) increment(w http.ResponseWriter, r *http.Request) {
	who, err := h.who.resolve(r.Context(), r)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, CartResponse{CartView: h.carts.Increment(r.Context(), who, chi.URLParam(r, "productID"))})
}

func (h *StorefrontHandler) decrement(w http.ResponseWriter, r *http.Request) {
	who, err := h.who.resolve(r.Context(), r)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, CartResponse{CartView: h.carts.Decrement(r.Context(), who, chi.URLParam(r, "productID"))})
}

type noteRequest struct {
	Note string `json:"note"`
}

func (h *StorefrontHandler) setNote(w http.ResponseWriter, r *http.Request) {
	who, err := h.who.resolve(r.Context(), r)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	var req noteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}

	respondJSON(w, http.StatusOK, CartResponse{CartView: h.carts.SetNote(r.Context(), who, chi.URLParam(r, "productID"), req.Note)})
}

type checkoutRequest struct {
	Phone         string               `json:"phone"`
	Address       string               `json:"address"`
	PaymentMethod domain.PaymentMethod `json:"payment_method"`
}

func (h *StorefrontHandler) checkout(w http.ResponseWriter, r *http.Request) {
	who, err := h.who.resolve(r.Context(), r)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	var req checkoutRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}

	result, err := h.orders.Checkout(r.Context(), who, domain.CheckoutForm{
		Phone:         req.Phone,
		Address:       req.Address,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	resp := CheckoutResponse{
		Order:       result.Order,
		WhatsAppURL: result.WhatsAppURL,
		Toast:       Toast{Type: ToastSuccess, Message: "Pedido Processado!"},
	}
	if result.RelayErr != nil {
		resp.RelayError = result.RelayErr.Error()
	}

	h.logger.Debug("checkout_completed", "Checkout completed", RequestIDFrom(r.Context()), map[string]interface{}{
		"order_id":      result.Order.ID,
		"relay_failure": result.RelayErr != nil,
	})

	respondJSON(w, http.StatusCreated, resp)
}

func (h *StorefrontHandler) activeOrder(w http.ResponseWriter, r *http.Request) {
	who, err := h.who.resolve(r.Context(), r)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	resp, err := h.tracking.ActiveOrder(r.Context(), who)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *StorefrontHandler) orderStatus(w http.ResponseWriter, r *http.Request) {
	resp, err := h.tracking.OrderStatus(r.Context(), orderIDParam(r))
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

// orderIDParam accepts the id with or without its leading '#', which
// clients would otherwise have to percent-encode.
func orderIDParam(r *http.Request) string {
	id := chi.URLParam(r, "id")
	if !strings.HasPrefix(id, "#") {
		id = "#" + id
	}
	return id
}
