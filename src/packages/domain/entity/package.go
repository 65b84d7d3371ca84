package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Package saldo de créditos prepagos de un servicio, propiedad de un portador.
// Invariante: AvailableQuantity = InitialQuantity − ConsumedQuantity ≥ 0.
// El saldo solo muta a través del ledger: issue, consume y reversa.
type Package struct {
	ID                uuid.UUID       `json:"id"`
	ClientID          uuid.UUID       `json:"client_id"` // portador (cliente tipo "package")
	ServiceID         uuid.UUID       `json:"service_id"`
	OriginSaleID      uuid.UUID       `json:"origin_sale_id"`
	InitialQuantity   int             `json:"initial_quantity"`
	ConsumedQuantity  int             `json:"consumed_quantity"`
	AvailableQuantity int             `json:"available_quantity"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	TotalPaid         decimal.Decimal `json:"total_paid"`
	Active            bool            `json:"active"`
	ExpiresAt         *time.Time      `json:"expires_at,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
}

// NewPackage crea un paquete recién emitido: todo el saldo disponible,
// precio unitario derivado del total pagado
func NewPackage(clientID, serviceID, originSaleID uuid.UUID, quantity int, totalPaid decimal.Decimal, expiresAt *time.Time) (*Package, error) {
	if quantity <= 0 {
		return nil, ErrInvalidPackageQuantity
	}
	if totalPaid.LessThan(decimal.Zero) {
		return nil, ErrInvalidPackageAmount
	}

	unitPrice := totalPaid.Div(decimal.NewFromInt(int64(quantity))).Round(2)

	return &Package{
		ID:                uuid.New(),
		ClientID:          clientID,
		ServiceID:         serviceID,
		OriginSaleID:      originSaleID,
		InitialQuantity:   quantity,
		ConsumedQuantity:  0,
		AvailableQuantity: quantity,
		UnitPrice:         unitPrice,
		TotalPaid:         totalPaid,
		Active:            true,
		ExpiresAt:         expiresAt,
		CreatedAt:         time.Now(),
	}, nil
}

// Expired indica si el paquete venció
func (p *Package) Expired(now time.Time) bool {
	return p.ExpiresAt != nil && now.After(*p.ExpiresAt)
}
