package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// BusinessConfig is the singleton store record read by every catalog render
// and checkout. The operator PIN is only ever kept as a bcrypt hash.
type BusinessConfig struct {
	IsOpen         bool            `json:"is_open"`
	AdminPINHash   string          `json:"admin_pin_hash"`
	StoreName      string          `json:"store_name"`
	DeliveryFee    decimal.Decimal `json:"delivery_fee"`
	WhatsAppNumber string          `json:"whatsapp_number"`
	FormID         string          `json:"form_id"`
}

// PublicConfig is what the customer view may see.
type PublicConfig struct {
	IsOpen         bool            `json:"is_open"`
	StoreName      string          `json:"store_name"`
	DeliveryFee    decimal.Decimal `json:"delivery_fee"`
	WhatsAppNumber string          `json:"whatsapp_number"`
}

func (c BusinessConfig) Public() PublicConfig {
	return PublicConfig{
		IsOpen:         c.IsOpen,
		StoreName:      c.StoreName,
		DeliveryFee:    c.DeliveryFee,
		WhatsAppNumber: c.WhatsAppNumber,
	}
}

// ConfigPatch carries the operator settings form; nil fields are untouched.
type ConfigPatch struct {
	IsOpen         *bool
	StoreName      *string
	DeliveryFee    *decimal.Decimal
	WhatsAppNumber *string
	FormID         *string
	AdminPIN       *string
}

func (p ConfigPatch) Validate() error {
	verr := &ValidationError{}
	if p.DeliveryFee != nil && p.DeliveryFee.IsNegative() {
		verr.Add("delivery_fee", "delivery fee must not be negative")
	}
	if p.StoreName != nil && strings.TrimSpace(*p.StoreName) == "" {
		verr.Add("store_name", "store name must not be empty")
	}
	if p.AdminPIN != nil && len(*p.AdminPIN) < 3 {
		verr.Add("admin_pin", "PIN must have at least 3 characters")
	}
	if p.WhatsAppNumber != nil {
		if _, ok := NormalizePhone(*p.WhatsAppNumber); !ok {
			verr.Add("whatsapp_number", "WhatsApp number must contain 10 to 13 digits")
		}
	}
	return verr.Err()
}

// Activity is an observational log line; it is never replayed.
type Activity struct {
	ID        string       `json:"id"`
	Type      ActivityType `json:"type"`
	Message   string       `json:"message"`
	Timestamp time.Time    `json:"timestamp"`
}

// User is a customer account of the account-based tracking variant.
type User struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"password_hash"`
	Photo        string `json:"photo"`
}
