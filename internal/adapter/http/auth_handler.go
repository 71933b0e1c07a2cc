package http

import (
	"net/http"

	"github.com/YelzhanWeb/storefront/internal/adapter/logger"
	"github.com/YelzhanWeb/storefront/internal/interfaces"

	"github.com/go-chi/chi/v5"
)

type AuthHandler struct {
	accounts interfaces.AccountService
	settings interfaces.SettingsService
	logger   logger.Logger
}

func NewAuthHandler(accounts interfaces.AccountService, settings interfaces.SettingsService, logger logger.Logger) *AuthHandler {
	return &AuthHandler{accounts: accounts, settings: settings, logger: logger}
}

func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/register", h.register)
	r.Post("/login", h.login)
	r.Post("/logout", h.logout)
	r.Get("/me", h.me)
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}

	session, err := h.accounts.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	respondJSON(w, http.StatusCreated, h.sessionResponse(r, session))
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}

	session, err := h.accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, h.sessionResponse(r, session))
}

func (h *AuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.accounts.Logout(r.Context(), bearerToken(r)); err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]Toast{"toast": {Type: ToastSuccess, Message: "Sessão encerrada"}})
}

func (h *AuthHandler) me(w http.ResponseWriter, r *http.Request) {
	user, err := h.accounts.Resolve(r.Context(), bearerToken(r))
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, toUserView(user))
}

func (h *AuthHandler) sessionResponse(r *http.Request, s *interfaces.Session) SessionResponse {
	return SessionResponse{
		Token: s.Token,
		User:  toUserView(s.User),
		Toast: Toast{Type: ToastSuccess, Message: "Bem-vindo ao " + h.settings.Current(r.Context()).StoreName},
	}
}
