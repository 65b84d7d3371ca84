package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Refund devolución parcial contra una venta confirmada.
// Las filas son append-only: nunca se mutan ni se borran;
// la suma de devoluciones de una venta nunca supera su total.
type Refund struct {
	ID        uuid.UUID       `json:"id"`
	SaleID    uuid.UUID       `json:"sale_id"`
	Amount    decimal.Decimal `json:"amount"`
	Reason    string          `json:"reason"`
	CreatedBy uuid.UUID       `json:"created_by"`
	CreatedAt time.Time       `json:"created_at"`
}

// NewRefund crea una devolución validando monto y motivo
func NewRefund(saleID uuid.UUID, amount decimal.Decimal, reason string, createdBy uuid.UUID) (*Refund, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidRefundAmount
	}
	if reason == "" {
		return nil, ErrRefundReasonRequired
	}

	return &Refund{
		ID:        uuid.New(),
		SaleID:    saleID,
		Amount:    amount.Round(2),
		Reason:    reason,
		CreatedBy: createdBy,
		CreatedAt: time.Now(),
	}, nil
}
