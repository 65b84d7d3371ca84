package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PricingModel modelo de cálculo de precio del servicio.
// Es un campo explícito configurado en el catálogo: nunca se infiere
// del nombre del servicio.
type PricingModel string

const (
	// PricingFlat precio unitario plano según el rango que contiene la cantidad
	PricingFlat PricingModel = "flat"
	// PricingProgressive cálculo marginal por tramos, como las escalas impositivas:
	// las primeras N unidades al precio del tramo 1, el resto al precio del tramo 2
	PricingProgressive PricingModel = "progressive"
)

// Service servicio medido del catálogo
type Service struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	BasePrice    decimal.Decimal `json:"base_price"`
	PricingModel PricingModel    `json:"pricing_model"`
	Active       bool            `json:"active"`
	CreatedAt    time.Time       `json:"created_at"`
}

// IsProgressive indica si el servicio se factura por tramos marginales
func (s *Service) IsProgressive() bool {
	return s.PricingModel == PricingProgressive
}
