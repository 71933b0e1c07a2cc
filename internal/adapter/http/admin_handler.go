package http

import (
	"net/http"

	"github.com/YelzhanWeb/storefront/internal/adapter/logger"
	"github.com/YelzhanWeb/storefront/internal/domain"
	"github.com/YelzhanWeb/storefront/internal/interfaces"

	"github.com/go-chi/chi/v5"
)

// AdminHandler serves the PIN-gated operator view.
type AdminHandler struct {
	admin    interfaces.AdminService
	orders   interfaces.OrderService
	catalog  interfaces.CatalogService
	settings interfaces.SettingsService
	activity interfaces.ActivityService
	logger   logger.Logger
}

func NewAdminHandler(
	admin interfaces.AdminService,
	orders interfaces.OrderService,
	catalog interfaces.CatalogService,
	settings interfaces.SettingsService,
	activity interfaces.ActivityService,
	logger logger.Logger,
) *AdminHandler {
	return &AdminHandler{
		admin:    admin,
		orders:   orders,
		catalog:  catalog,
		settings: settings,
		activity: activity,
		logger:   logger,
	}
}

func (h *AdminHandler) RegisterRoutes(r chi.Router) {
	r.Post("/unlock", h.unlock)

	r.Group(func(r chi.Router) {
		r.Use(h.requireOperator)

		r.Post("/lock", h.lock)
		r.Get("/orders", h.listOrders)
		r.Patch("/orders/{id}/status", h.updateStatus)
		r.Get("/products", h.listProducts)
		r.Post("/products", h.createProduct)
		r.Put("/products/{id}", h.updateProduct)
		r.Delete("/products/{id}", h.deleteProduct)
		r.Get("/config", h.getConfig)
		r.Put("/config", h.updateConfig)
		r.Get("/dashboard", h.dashboard)
		r.Post("/advice", h.advice)
		r.Get("/activity", h.listActivity)
	})
}

func (h *AdminHandler) requireOperator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !h.admin.Authorized(r.Context(), r.Header.Get(AdminTokenHeader)) {
			respondError(w, r, h.logger, domain.ErrUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type unlockRequest struct {
	PIN string `json:"pin"`
}

func (h *AdminHandler) unlock(w http.ResponseWriter, r *http.Request) {
	var req unlockRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}

	token, err := h.admin.Unlock(r.Context(), req.PIN)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"toast": Toast{Type: ToastSuccess, Message: "Painel liberado"},
	})
}

func (h *AdminHandler) lock(w http.ResponseWriter, r *http.Request) {
	h.admin.Lock(r.Context(), r.Header.Get(AdminTokenHeader))
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) listOrders(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.orders.ListOrders(r.Context()))
}

type statusRequest struct {
	Status domain.Status `json:"status"`
}

func (h *AdminHandler) updateStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}

	order, err := h.orders.UpdateStatus(r.Context(), orderIDParam(r), req.Status, "operator")
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, order)
}

func (h *AdminHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.catalog.List(r.Context(), ""))
}

func (h *AdminHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}

	product, err := h.catalog.Create(r.Context(), req.toProduct(domain.DefaultStock))
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, product)
}

func (h *AdminHandler) updateProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}

	id := chi.URLParam(r, "id")
	current, err := h.catalog.Get(r.Context(), id)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	product, err := h.catalog.Update(r.Context(), id, req.toProduct(current.Stock))
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, product)
}

func (h *AdminHandler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) getConfig(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, toAdminConfigView(h.settings.Current(r.Context())))
}

func (h *AdminHandler) updateConfig(w http.ResponseWriter, r *http.Request) {
	var req ConfigPatchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}

	cfg, err := h.settings.Update(r.Context(), req.toPatch())
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, toAdminConfigView(cfg))
}

func (h *AdminHandler) dashboard(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.admin.Dashboard(r.Context()))
}

func (h *AdminHandler) advice(w http.ResponseWriter, r *http.Request) {
	advice, err := h.admin.Advice(r.Context())
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"advice": advice})
}

func (h *AdminHandler) listActivity(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.activity.List(r.Context()))
}
