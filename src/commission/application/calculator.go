package application

import (
	"sales/src/commission/domain/entity"

	"github.com/shopspring/decimal"
)

// FallbackPercent tasa plana que aplica cuando ninguna política resuelve
// para una venta elegible
var FallbackPercent = decimal.NewFromInt(5)

var hundred = decimal.NewFromInt(100)

// Calculator aplica una política (o el fallback) al neto de una venta
type Calculator struct{}

// NewCalculator crea una nueva instancia del calculador
func NewCalculator() *Calculator {
	return &Calculator{}
}

// Calculate calcula la comisión sobre el neto de la venta (total después de
// descuentos, antes de devoluciones). Redondea a precisión de moneda.
//   - percentage: neto × valor / 100
//   - fixed: valor, topeado al neto si el neto es menor
//   - fixed_per_unit: valor × Σ cantidades de items
//   - sin política: fallback 5% del neto
func (c *Calculator) Calculate(netAmount decimal.Decimal, totalUnits int, policy *entity.Policy) decimal.Decimal {
	if policy == nil {
		return netAmount.Mul(FallbackPercent).Div(hundred).Round(2)
	}

	switch policy.Type {
	case entity.TypePercentage:
		return netAmount.Mul(policy.Value).Div(hundred).Round(2)
	case entity.TypeFixed:
		if netAmount.LessThan(policy.Value) {
			return netAmount.Round(2)
		}
		return policy.Value.Round(2)
	case entity.TypeFixedPerUnit:
		return policy.Value.Mul(decimal.NewFromInt(int64(totalUnits))).Round(2)
	}

	return decimal.Zero
}
