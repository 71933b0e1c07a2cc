package catalog

import (
	_ "embed"
	"fmt"

	"github.com/YelzhanWeb/storefront/internal/domain"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed menu.yaml
var defaultMenu []byte

type menuFile struct {
	Products []menuEntry `yaml:"products"`
}

// menuEntry keeps the price as a string so it never passes through float64.
type menuEntry struct {
	ID          string          `yaml:"id"`
	Name        string          `yaml:"name"`
	Price       string          `yaml:"price"`
	Description string          `yaml:"description"`
	Category    domain.Category `yaml:"category"`
	Image       string          `yaml:"image"`
	Stock       int             `yaml:"stock"`
}

// ParseMenu decodes a YAML menu document.
func ParseMenu(data []byte) ([]domain.Product, error) {
	var file menuFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse menu: %w", err)
	}

	products := make([]domain.Product, 0, len(file.Products))
	for _, e := range file.Products {
		price, err := decimal.NewFromString(e.Price)
		if err != nil {
			return nil, fmt.Errorf("invalid price %q for %s: %w", e.Price, e.ID, err)
		}
		p := domain.Product{
			ID:          e.ID,
			Name:        e.Name,
			Price:       price,
			Description: e.Description,
			Category:    e.Category,
			Image:       e.Image,
			Stock:       e.Stock,
		}
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("invalid menu entry %s: %w", e.ID, err)
		}
		products = append(products, p)
	}

	return products, nil
}

// DefaultProducts is the bundled menu. The embedded file is covered by tests,
// so a parse failure here is a build defect.
func DefaultProducts() []domain.Product {
	products, err := ParseMenu(defaultMenu)
	if err != nil {
		panic(err)
	}
	return products
}
