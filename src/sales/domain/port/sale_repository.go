package port

import (
	"context"
	"time"

	"sales/src/sales/domain/entity"
	"sales/src/shared/domain/criteria"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleRepository persistencia del aggregate Sale (venta + items).
// Los métodos participan de la transacción abierta por el caso de uso.
type SaleRepository interface {
	// Create inserta la venta y sus items
	Create(ctx context.Context, sale *entity.Sale) error

	// FindByID carga el aggregate completo con sus items
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Sale, error)

	// List busca ventas según criteria con paginación; devuelve también el total
	List(ctx context.Context, c criteria.Criteria) ([]*entity.Sale, int, error)

	// Update reescribe totales, descuento general y reemplaza los items
	// de una venta abierta que se está editando
	Update(ctx context.Context, sale *entity.Sale) error

	// Confirm transición condicional open → confirmed; devuelve
	// ErrSaleNotOpen si la fila no estaba open
	Confirm(ctx context.Context, id uuid.UUID, confirmedAt time.Time) error

	// Cancel transición condicional open|confirmed → cancelled; devuelve
	// ErrSaleAlreadyCancelled si la fila ya estaba cancelled
	Cancel(ctx context.Context, id uuid.UUID, cancelledAt time.Time) error

	// ApplyRefund incrementa refund_total solo si la venta sigue confirmed
	// y el acumulado no supera el total; devuelve ErrRefundExceedsTotal
	// cuando la condición no se cumple
	ApplyRefund(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error
}

// RefundRepository persistencia de las devoluciones (append-only)
type RefundRepository interface {
	Create(ctx context.Context, refund *entity.Refund) error
	ListBySale(ctx context.Context, saleID uuid.UUID) ([]*entity.Refund, error)
}
