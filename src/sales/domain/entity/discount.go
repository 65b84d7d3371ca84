package entity

import "github.com/shopspring/decimal"

// DiscountType tipo de descuento
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

var hundred = decimal.NewFromInt(100)

// Discount descuento por item o general de la venta
type Discount struct {
	Type  DiscountType    `json:"type"`
	Value decimal.Decimal `json:"value"`
}

// NoDiscount descuento nulo
func NoDiscount() Discount {
	return Discount{Type: DiscountFixed, Value: decimal.Zero}
}

// IsZero indica si el descuento no descuenta nada
func (d Discount) IsZero() bool {
	return d.Value.IsZero()
}

// Validate verifica tipo y valor del descuento
func (d Discount) Validate() error {
	if d.Type != DiscountPercentage && d.Type != DiscountFixed {
		return ErrInvalidDiscount
	}
	if d.Value.LessThan(decimal.Zero) {
		return ErrInvalidDiscount
	}
	if d.Type == DiscountPercentage && d.Value.GreaterThan(hundred) {
		return ErrInvalidDiscount
	}
	return nil
}

// AmountOn calcula el monto descontado sobre una base, topeado a la base:
// un descuento nunca genera un total negativo
func (d Discount) AmountOn(base decimal.Decimal) decimal.Decimal {
	var amount decimal.Decimal
	if d.Type == DiscountPercentage {
		amount = base.Mul(d.Value).Div(hundred).Round(2)
	} else {
		amount = d.Value.Round(2)
	}
	if amount.GreaterThan(base) {
		return base
	}
	return amount
}
