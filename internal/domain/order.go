package domain

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// OrderItem is a product snapshot with a quantity. It only ever lives inside
// a cart or an order.
type OrderItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
	Note     string  `json:"note,omitempty"`
}

func (i OrderItem) LineTotal() decimal.Decimal {
	return i.Product.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Order is immutable after creation except for Status and UpdatedAt.
type Order struct {
	ID            string          `json:"id"`
	DeviceID      string          `json:"device_id"`
	CustomerEmail string          `json:"customer_email,omitempty"`
	CustomerName  string          `json:"customer_name"`
	CustomerPhone string          `json:"customer_phone"`
	Address       string          `json:"address"`
	Items         []OrderItem     `json:"items"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	DeliveryFee   decimal.Decimal `json:"delivery_fee"`
	Discount      decimal.Decimal `json:"discount"`
	Total         decimal.Decimal `json:"total"`
	Status        Status          `json:"status"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// Identity scopes "my orders" without real authentication: the account email
// when the customer is logged in, the device id otherwise.
type Identity struct {
	DeviceID string
	Email    string
	Name     string
}

func (id Identity) Key() string {
	if id.Email != "" {
		return "user:" + id.Email
	}
	return "device:" + id.DeviceID
}

func (id Identity) Empty() bool {
	return id.DeviceID == "" && id.Email == ""
}

// Owns reports whether the order belongs to this identity.
func (id Identity) Owns(o *Order) bool {
	if id.Email != "" {
		return o.CustomerEmail == id.Email
	}
	return id.DeviceID != "" && o.DeviceID == id.DeviceID
}

type CheckoutForm struct {
	Phone         string
	Address       string
	PaymentMethod PaymentMethod
}

var phoneDigits = regexp.MustCompile(`\D`)

// NormalizePhone strips punctuation and reports whether what is left looks
// like a DDD-prefixed WhatsApp number.
func NormalizePhone(raw string) (string, bool) {
	digits := phoneDigits.ReplaceAllString(raw, "")
	return digits, len(digits) >= 10 && len(digits) <= 13
}

func (f *CheckoutForm) Validate() error {
	verr := &ValidationError{}

	if _, ok := NormalizePhone(f.Phone); !ok {
		verr.Add("phone", "phone must contain 10 to 13 digits including area code")
	}
	if strings.TrimSpace(f.Address) == "" {
		verr.Add("address", "delivery address is required")
	}
	if !f.PaymentMethod.Valid() {
		verr.Add("payment_method", "payment method must be one of: card_machine, cash, pix_on_delivery")
	}

	return verr.Err()
}

// NewOrder builds a pending order from the cart contents. Totals are fixed
// here and never recomputed.
func NewOrder(id string, who Identity, form CheckoutForm, items []OrderItem, deliveryFee decimal.Decimal, now time.Time) (*Order, error) {
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}
	if err := form.Validate(); err != nil {
		return nil, err
	}

	phone, _ := NormalizePhone(form.Phone)
	order := &Order{
		ID:            id,
		DeviceID:      who.DeviceID,
		CustomerEmail: who.Email,
		CustomerName:  who.Name,
		CustomerPhone: phone,
		Address:       strings.TrimSpace(form.Address),
		Items:         append([]OrderItem(nil), items...),
		DeliveryFee:   deliveryFee,
		Discount:      decimal.Zero,
		Status:        StatusPending,
		PaymentMethod: form.PaymentMethod,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	order.CalculateTotal()

	return order, nil
}

// CalculateTotal applies total = subtotal + delivery fee - discount.
func (o *Order) CalculateTotal() {
	o.Subtotal = Subtotal(o.Items)
	o.Total = o.Subtotal.Add(o.DeliveryFee).Sub(o.Discount)
}

// SetStatus moves the order to any state; the operator may jump freely.
// It reports whether anything changed.
func (o *Order) SetStatus(s Status, now time.Time) (bool, error) {
	if !s.Valid() {
		return false, ErrInvalidStatus
	}
	if o.Status == s {
		return false, nil
	}
	o.Status = s
	o.UpdatedAt = now
	return true, nil
}

func Subtotal(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// ProgressStep is one node of the customer tracker.
type ProgressStep struct {
	Status Status `json:"status"`
	Label  string `json:"label"`
	Done   bool   `json:"done"`
	Active bool   `json:"active"`
}

// Progress marks every step up to the current one as done.
func (o *Order) Progress() []ProgressStep {
	current := -1
	for i, s := range ProgressSteps {
		if s == o.Status {
			current = i
		}
	}

	steps := make([]ProgressStep, len(ProgressSteps))
	for i, s := range ProgressSteps {
		steps[i] = ProgressStep{
			Status: s,
			Label:  s.Label(),
			Done:   current >= i,
			Active: o.Status == s,
		}
	}
	return steps
}
