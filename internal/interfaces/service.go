package interfaces

import (
	"context"
	"time"

	"github.com/YelzhanWeb/storefront/internal/domain"
	"github.com/shopspring/decimal"
)

type CatalogService interface {
	List(ctx context.Context, category domain.Category) []domain.Product
	Get(ctx context.Context, id string) (*domain.Product, error)
	Create(ctx context.Context, p domain.Product) (*domain.Product, error)
	Update(ctx context.Context, id string, p domain.Product) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
}

type CartService interface {
	Get(ctx context.Context, who domain.Identity) CartView
	Add(ctx context.Context, who domain.Identity, productID string) (CartView, error)
	Increment(ctx context.Context, who domain.Identity, productID string) CartView
	Decrement(ctx context.Context, who domain.Identity, productID string) CartView
	SetNote(ctx context.Context, who domain.Identity, productID, note string) CartView
	Clear(ctx context.Context, who domain.Identity)
	Remove(ctx context.Context, who domain.Identity, items []domain.OrderItem)
	Items(ctx context.Context, who domain.Identity) []domain.OrderItem
}

type OrderService interface {
	Checkout(ctx context.Context, who domain.Identity, form domain.CheckoutForm) (*CheckoutResult, error)
	UpdateStatus(ctx context.Context, orderID string, status domain.Status, changedBy string) (*domain.Order, error)
	ListOrders(ctx context.Context) []domain.Order
	FindByID(ctx context.Context, orderID string) (*domain.Order, error)
}

type TrackingService interface {
	ActiveOrder(ctx context.Context, who domain.Identity) (*TrackingOrderResponse, error)
	OrderStatus(ctx context.Context, orderID string) (*TrackingOrderResponse, error)
}

// RelayService delivers queued orders to the form endpoint.
type RelayService interface {
	ProcessOrder(ctx context.Context, msg OrderMessage) error
}

type SettingsService interface {
	Current(ctx context.Context) domain.BusinessConfig
	Update(ctx context.Context, patch domain.ConfigPatch) (domain.BusinessConfig, error)
	VerifyPIN(ctx context.Context, pin string) bool
}

type AdminService interface {
	Unlock(ctx context.Context, pin string) (string, error)
	Lock(ctx context.Context, token string)
	Authorized(ctx context.Context, token string) bool
	Dashboard(ctx context.Context) DashboardResponse
	Advice(ctx context.Context) (string, error)
}

type AccountService interface {
	Register(ctx context.Context, name, email, password string) (*Session, error)
	Login(ctx context.Context, email, password string) (*Session, error)
	Logout(ctx context.Context, token string) error
	Resolve(ctx context.Context, token string) (*domain.User, error)
}

type ActivityService interface {
	Record(ctx context.Context, kind domain.ActivityType, message string)
	List(ctx context.Context) []domain.Activity
}

type CartView struct {
	Items       []domain.OrderItem `json:"items"`
	Subtotal    decimal.Decimal    `json:"subtotal"`
	DeliveryFee decimal.Decimal    `json:"delivery_fee"`
	Total       decimal.Decimal    `json:"total"`
}

type CheckoutResult struct {
	Order       *domain.Order
	WhatsAppURL string
	// RelayErr is reported to the customer but never undoes the order.
	RelayErr error
}

type TrackingOrderResponse struct {
	OrderID       string                `json:"order_id"`
	CurrentStatus domain.Status         `json:"current_status"`
	StatusLabel   string                `json:"status_label"`
	Steps         []domain.ProgressStep `json:"steps"`
	Total         decimal.Decimal       `json:"total"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
}

type DashboardResponse struct {
	Revenue    decimal.Decimal       `json:"revenue"`
	OrderCount int                   `json:"order_count"`
	IsOpen     bool                  `json:"is_open"`
	ByStatus   map[domain.Status]int `json:"by_status"`
}

type Session struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}
