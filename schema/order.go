package schema

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order statuses known to the API.
const (
	OrderStatusNew       = "new"
	OrderStatusConfirmed = "confirmed"
	OrderStatusShipped   = "shipped"
	OrderStatusCancelled = "cancelled"
)

type (
	// Order represents a contractor order.
	Order struct {
		Id           int             `json:"id"`
		ContractorId int             `json:"contractor_id"`
		Contractor   *Contractor     `json:"contractor,omitempty"`
		Status       string          `json:"status,omitempty"`
		Items        []OrderLine     `json:"items,omitempty"`
		Total        decimal.Decimal `json:"total"`
		Comment      string          `json:"comment,omitempty"`
		CreatedAt    *time.Time      `json:"created_at,omitempty"`
	}

	// OrderLine is a single product position of an order.
	OrderLine struct {
		ProductId int             `json:"product_id"`
		Quantity  int             `json:"quantity"`
		Price     decimal.Decimal `json:"price"`
	}

	// OrderInput is the create/update body of an order.
	OrderInput struct {
		ContractorId int         `json:"contractor_id"`
		Status       string      `json:"status,omitempty"`
		Comment      string      `json:"comment,omitempty"`
		Items        []OrderLine `json:"items"`
	}
)

func (o Order) Key() int { return o.Id }
