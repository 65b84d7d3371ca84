package entity

import (
	"time"

	"sales/src/shared/domain/saletype"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PriceRange rango de precio por cantidad para un (servicio, tipo de venta).
// MaxQty nil significa rango sin tope superior.
type PriceRange struct {
	ID            uuid.UUID         `json:"id"`
	ServiceID     uuid.UUID         `json:"service_id"`
	SaleType      saletype.SaleType `json:"sale_type"`
	MinQty        int               `json:"min_qty"`
	MaxQty        *int              `json:"max_qty,omitempty"`
	UnitPrice     decimal.Decimal   `json:"unit_price"`
	EffectiveFrom time.Time         `json:"effective_from"`
	Active        bool              `json:"active"`
}

// Contains indica si la cantidad cae dentro del rango
func (r *PriceRange) Contains(qty int) bool {
	if qty < r.MinQty {
		return false
	}
	return r.MaxQty == nil || qty <= *r.MaxQty
}
