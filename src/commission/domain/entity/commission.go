package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CommissionStatus estado de la comisión
type CommissionStatus string

const (
	CommissionPending   CommissionStatus = "pending"
	CommissionPaid      CommissionStatus = "paid"
	CommissionCancelled CommissionStatus = "cancelled"
)

// Commission comisión devengada por un atendente sobre una venta.
// Se crea pending dentro de la transacción de la venta; si la venta se
// cancela pasa a cancelled, nunca queda pending con la venta cancelada.
type Commission struct {
	ID            uuid.UUID        `json:"id"`
	SaleID        uuid.UUID        `json:"sale_id"`
	AttendantID   uuid.UUID        `json:"attendant_id"`
	Amount        decimal.Decimal  `json:"amount"`
	PolicyID      *uuid.UUID       `json:"policy_id,omitempty"`
	Status        CommissionStatus `json:"status"`
	ReferenceDate time.Time        `json:"reference_date"`
	CreatedAt     time.Time        `json:"created_at"`
}

// NewCommission crea una comisión pending para una venta
func NewCommission(saleID, attendantID uuid.UUID, amount decimal.Decimal, policyID *uuid.UUID, referenceDate time.Time) *Commission {
	return &Commission{
		ID:            uuid.New(),
		SaleID:        saleID,
		AttendantID:   attendantID,
		Amount:        amount,
		PolicyID:      policyID,
		Status:        CommissionPending,
		ReferenceDate: referenceDate,
		CreatedAt:     time.Now(),
	}
}
