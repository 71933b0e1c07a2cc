package http

import (
	"github.com/YelzhanWeb/storefront/internal/domain"
	"github.com/YelzhanWeb/storefront/internal/interfaces"

	"github.com/shopspring/decimal"
)

type UserView struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Photo string `json:"photo"`
}

func toUserView(u *domain.User) UserView {
	return UserView{Name: u.Name, Email: u.Email, Photo: u.Photo}
}

type SessionResponse struct {
	Token string   `json:"token"`
	User  UserView `json:"user"`
	Toast Toast    `json:"toast"`
}

type CheckoutResponse struct {
	Order       *domain.Order `json:"order"`
	WhatsAppURL string        `json:"whatsapp_url"`
	RelayError  string        `json:"relay_error,omitempty"`
	Toast       Toast         `json:"toast"`
}

type CartResponse struct {
	interfaces.CartView
	Toast *Toast `json:"toast,omitempty"`
}

// AdminConfigView is the full store record minus the PIN hash.
type AdminConfigView struct {
	IsOpen         bool            `json:"is_open"`
	StoreName      string          `json:"store_name"`
	DeliveryFee    decimal.Decimal `json:"delivery_fee"`
	WhatsAppNumber string          `json:"whatsapp_number"`
	FormID         string          `json:"form_id"`
}

func toAdminConfigView(c domain.BusinessConfig) AdminConfigView {
	return AdminConfigView{
		IsOpen:         c.IsOpen,
		StoreName:      c.StoreName,
		DeliveryFee:    c.DeliveryFee,
		WhatsAppNumber: c.WhatsAppNumber,
		FormID:         c.FormID,
	}
}

type ConfigPatchRequest struct {
	IsOpen         *bool            `json:"is_open"`
	StoreName      *string          `json:"store_name"`
	DeliveryFee    *decimal.Decimal `json:"delivery_fee"`
	WhatsAppNumber *string          `json:"whatsapp_number"`
	FormID         *string          `json:"form_id"`
	AdminPIN       *string          `json:"admin_pin"`
}

func (r ConfigPatchRequest) toPatch() domain.ConfigPatch {
	return domain.ConfigPatch{
		IsOpen:         r.IsOpen,
		StoreName:      r.StoreName,
		DeliveryFee:    r.DeliveryFee,
		WhatsAppNumber: r.WhatsAppNumber,
		FormID:         r.FormID,
		AdminPIN:       r.AdminPIN,
	}
}

type ProductRequest struct {
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Category    domain.Category `json:"category"`
	Image       string          `json:"image"`
	Stock       *int            `json:"stock"`
}

// toProduct uses defaultStock when the request leaves stock out. An explicit
// zero marks the product sold out.
func (r ProductRequest) toProduct(defaultStock int) domain.Product {
	stock := defaultStock
	if r.Stock != nil {
		stock = *r.Stock
	}
	return domain.Product{
		Name:        r.Name,
		Price:       r.Price,
		Description: r.Description,
		Category:    r.Category,
		Image:       r.Image,
		Stock:       stock,
	}
}
