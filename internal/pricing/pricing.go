// Package pricing computes the monetary summary of an order from its line
// items, delivery fee and discount. All functions are pure and safe for
// concurrent use.
package pricing

import (
	"fmt"
	"math"

	"green-kart/internal/model"
)

// DefaultGSTRate is the tax rate applied to the taxable amount
// (subtotal minus discount) unless the engine is configured otherwise.
const DefaultGSTRate = 0.18

// LineItem is a priced order line used as pricing input.
type LineItem struct {
	ProductID string
	Quantity  int
	UnitPrice float64
}

// Engine computes order summaries at a fixed tax rate.
type Engine struct {
	taxRate float64
}

// NewEngine creates a pricing engine. A non-positive taxRate falls back to
// DefaultGSTRate.
func NewEngine(taxRate float64) *Engine {
	if taxRate <= 0 {
		taxRate = DefaultGSTRate
	}
	return &Engine{taxRate: taxRate}
}

// ComputeSummary derives the order summary:
//
//	subtotal = Σ unitPrice × quantity
//	discount = subtotal × discountPercent / 100
//	tax      = (subtotal − discount) × taxRate
//	total    = subtotal − discount + tax + deliveryFee
//
// Inputs are validated, not clamped: a non-positive quantity, negative
// unit price, negative delivery fee or a discount percent outside [0, 100]
// is rejected. Rounding to 2 decimal places happens once, on the final
// summary fields; intermediate steps are not rounded.
func (e *Engine) ComputeSummary(items []LineItem, deliveryFee, discountPercent float64) (*model.OrderSummary, error) {
	if deliveryFee < 0 {
		return nil, model.NewDomainError(model.ErrCodeValidation, "delivery fee must not be negative")
	}
	if discountPercent < 0 || discountPercent > 100 {
		return nil, model.NewDomainError(model.ErrCodeValidation, "discount percent must be between 0 and 100")
	}

	var subtotal float64
	for i, item := range items {
		if item.Quantity <= 0 {
			return nil, model.ErrInvalidQuantity
		}
		if item.UnitPrice < 0 {
			return nil, model.NewDomainError(model.ErrCodeValidation,
				fmt.Sprintf("item %d: unit price must not be negative", i))
		}
		subtotal += item.UnitPrice * float64(item.Quantity)
	}

	discount := subtotal * discountPercent / 100
	taxable := subtotal - discount
	tax := taxable * e.taxRate
	total := taxable + tax + deliveryFee

	return &model.OrderSummary{
		Subtotal:    round2(subtotal),
		DeliveryFee: round2(deliveryFee),
		Tax:         round2(tax),
		Discount:    round2(discount),
		Total:       round2(total),
	}, nil
}

// round2 rounds to 2 decimal places, half away from zero.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
