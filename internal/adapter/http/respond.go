package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/YelzhanWeb/storefront/internal/adapter/logger"
	"github.com/YelzhanWeb/storefront/internal/domain"
)

const (
	ToastSuccess = "success"
	ToastError   = "error"
)

type Toast struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error  string            `json:"error"`
	Toast  *Toast            `json:"toast,omitempty"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type errorMapping struct {
	status int
	toast  string
}

var knownErrors = []struct {
	err error
	errorMapping
}{
	{domain.ErrEmptyCart, errorMapping{http.StatusBadRequest, "Seu carrinho está vazio"}},
	{domain.ErrStoreClosed, errorMapping{http.StatusConflict, "Loja fechada no momento"}},
	{domain.ErrCheckoutInFlight, errorMapping{http.StatusConflict, "Seu pedido já está sendo processado"}},
	{domain.ErrInvalidPIN, errorMapping{http.StatusUnauthorized, "PIN inválido"}},
	{domain.ErrEmailTaken, errorMapping{http.StatusConflict, "E-mail já cadastrado"}},
	{domain.ErrInvalidCredentials, errorMapping{http.StatusUnauthorized, "E-mail ou senha incorretos"}},
	{domain.ErrAdviceInFlight, errorMapping{http.StatusConflict, "Análise já em andamento"}},
	{domain.ErrMissingIdentity, errorMapping{http.StatusBadRequest, "Dispositivo não identificado"}},
	{domain.ErrOrderNotFound, errorMapping{http.StatusNotFound, "Pedido não encontrado"}},
	{domain.ErrProductNotFound, errorMapping{http.StatusNotFound, "Produto não encontrado"}},
	{domain.ErrInvalidStatus, errorMapping{http.StatusBadRequest, "Status inválido"}},
	{domain.ErrUnauthorized, errorMapping{http.StatusUnauthorized, "Acesso restrito"}},
}

func respondJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// respondError turns a service error into the toast payload the views show.
// Anything unrecognised is logged and reported as a 500.
func respondError(w http.ResponseWriter, r *http.Request, lgr logger.Logger, err error) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		fields := make([]ValidationError, len(verr.Fields))
		for i, f := range verr.Fields {
			fields[i] = ValidationError{Field: f.Field, Message: f.Message}
		}
		respondJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:  "validation failed",
			Toast:  &Toast{Type: ToastError, Message: "Verifique os dados informados"},
			Errors: fields,
		})
		return
	}

	for _, k := range knownErrors {
		if errors.Is(err, k.err) {
			respondJSON(w, k.status, ErrorResponse{
				Error: k.err.Error(),
				Toast: &Toast{Type: ToastError, Message: k.toast},
			})
			return
		}
	}

	lgr.Error("request_failed", "Unhandled error", RequestIDFrom(r.Context()), map[string]interface{}{
		"path": r.URL.Path,
	}, err)
	respondJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error: "internal server error",
		Toast: &Toast{Type: ToastError, Message: "Erro interno"},
	})
}

func respondBadRequest(w http.ResponseWriter, message string) {
	respondJSON(w, http.StatusBadRequest, ErrorResponse{
		Error: message,
		Toast: &Toast{Type: ToastError, Message: "Requisição inválida"},
	})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(dst)
}
