// Package cart keeps the product lines of an order being composed.
package cart

import (
	"errors"
	"sync"

	"github.com/granddizzy/orders/client"
	"github.com/granddizzy/orders/schema"
	"github.com/shopspring/decimal"
)

// ErrEmpty is returned when an order is drafted from an empty cart.
var ErrEmpty = errors.New("cart is empty")

// Line is a product position; ProductId is unique within a cart.
type Line struct {
	ProductId int
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal
}

// Amount returns UnitPrice * Quantity.
func (l Line) Amount() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Ledger is a concurrency safe cart.
type Ledger struct {
	mu    sync.RWMutex
	lines []Line
}

// Add adds quantity of product; an existing line has its quantity increased.
func (l *Ledger) Add(product schema.Product, quantity int) error {
	if quantity <= 0 {
		return &client.ValidationError{Field: "quantity", Msg: "must be positive"}
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.lines {
		if l.lines[i].ProductId == product.Id {
			l.lines[i].Quantity += quantity
			return nil
		}
	}
	l.lines = append(l.lines, Line{ProductId: product.Id, Name: product.Name, Quantity: quantity, UnitPrice: product.Price})
	return nil
}

// SetQuantity replaces the quantity of a line; zero removes it.
func (l *Ledger) SetQuantity(productId, quantity int) error {
	if quantity < 0 {
		return &client.ValidationError{Field: "quantity", Msg: "must not be negative"}
	}
	if quantity == 0 {
		l.Remove(productId)
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.lines {
		if l.lines[i].ProductId == productId {
			l.lines[i].Quantity = quantity
			return nil
		}
	}
	return &client.NotFoundError{Resource: "cart line", Id: productId}
}

// Remove drops the line of productId.
func (l *Ledger) Remove(productId int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.lines {
		if l.lines[i].ProductId == productId {
			l.lines = append(l.lines[:i:i], l.lines[i+1:]...)
			return true
		}
	}
	return false
}

// Lines returns a copy of the lines in insertion order.
func (l *Ledger) Lines() []Line {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]Line(nil), l.lines...)
}

// Len returns the number of lines.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.lines)
}

// Total returns the sum of line amounts.
func (l *Ledger) Total() decimal.Decimal {
	l.mu.RLock()
	defer l.mu.RUnlock()
	ret := decimal.Zero
	for _, line := range l.lines {
		ret = ret.Add(line.Amount())
	}
	return ret
}

// Clear drops every line.
func (l *Ledger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = nil
}

// Order drafts the create body of an order for contractorId.
func (l *Ledger) Order(contractorId int, comment string) (*schema.OrderInput, error) {
	if contractorId <= 0 {
		return nil, &client.ValidationError{Field: "contractor_id", Msg: "is required"}
	}
	lines := l.Lines()
	if len(lines) == 0 {
		return nil, ErrEmpty
	}
	ret := &schema.OrderInput{ContractorId: contractorId, Status: schema.OrderStatusNew, Comment: comment}
	for _, line := range lines {
		ret.Items = append(ret.Items, schema.OrderLine{ProductId: line.ProductId, Quantity: line.Quantity, Price: line.UnitPrice})
	}
	return ret, nil
}

// New creates an empty ledger.
func New() *Ledger {
	return &Ledger{}
}
