package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

const DefaultStock = 100

// Product is a menu entry managed from the operator panel.
type Product struct {
	ID          string          `json:"id" yaml:"id"`
	Name        string          `json:"name" yaml:"name"`
	Price       decimal.Decimal `json:"price" yaml:"price"`
	Description string          `json:"description" yaml:"description"`
	Category    Category        `json:"category" yaml:"category"`
	Image       string          `json:"image" yaml:"image"`
	Stock       int             `json:"stock" yaml:"stock"`
}

// Validate applies the operator form rules: name, a positive price and an
// image are mandatory.
func (p *Product) Validate() error {
	verr := &ValidationError{}

	if strings.TrimSpace(p.Name) == "" {
		verr.Add("name", "product name is required")
	}
	if !p.Price.IsPositive() {
		verr.Add("price", "price must be greater than zero")
	}
	if strings.TrimSpace(p.Image) == "" {
		verr.Add("image", "image URL is required")
	}
	if p.Category != "" && !p.Category.Valid() {
		verr.Add("category", "unknown category")
	}
	if p.Stock < 0 {
		verr.Add("stock", "stock must not be negative")
	}

	return verr.Err()
}

// Normalize fills the defaults the operator form leaves blank.
func (p *Product) Normalize() {
	p.Name = strings.TrimSpace(p.Name)
	p.Description = strings.TrimSpace(p.Description)
	p.Image = strings.TrimSpace(p.Image)
	if p.Category == "" {
		p.Category = CategoryBurgers
	}
}
