package product

import (
	"github.com/shopspring/decimal"
)

// Product is a flooring material with its per-square-foot pricing.
type Product struct {
	Type                   string `validate:"required"`
	CostPerSquareFoot      decimal.Decimal
	LaborCostPerSquareFoot decimal.Decimal
}

// Provider exposes the product catalog. Product types are expected to be
// unique; callers detect violations when matching.
type Provider interface {
	Products() []Product
}

// Catalog is an in-memory Provider.
type Catalog []Product

// Products returns a copy of the catalog entries.
func (c Catalog) Products() []Product {
	out := make([]Product, len(c))
	copy(out, c)
	return out
}

// Match returns every product whose type equals productType exactly.
func Match(products []Product, productType string) []Product {
	var out []Product
	for _, p := range products {
		if p.Type == productType {
			out = append(out, p)
		}
	}
	return out
}
