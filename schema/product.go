package schema

import "github.com/shopspring/decimal"

// Product represents a catalog product.
type Product struct {
	Id          int             `json:"id"`
	Name        string          `json:"name"`
	Sku         string          `json:"sku,omitempty"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock,omitempty"`
}

func (p Product) Key() int { return p.Id }

// ProductInput is the create/update body of a product.
type ProductInput struct {
	Name        string          `json:"name"`
	Sku         string          `json:"sku,omitempty"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock,omitempty"`
}
