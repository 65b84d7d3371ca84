package port

import (
	"context"

	"sales/src/commission/domain/entity"

	"github.com/google/uuid"
)

// PolicyRepository acceso de lectura a las políticas de comisión
type PolicyRepository interface {
	FindActive(ctx context.Context) ([]entity.Policy, error)
}

// CommissionRepository persistencia de las comisiones devengadas
type CommissionRepository interface {
	Create(ctx context.Context, commission *entity.Commission) error
	FindBySaleID(ctx context.Context, saleID uuid.UUID) (*entity.Commission, error)

	// CancelBySaleID pasa a cancelled la comisión pending de la venta.
	// Es idempotente: sin comisión pending no hace nada.
	CancelBySaleID(ctx context.Context, saleID uuid.UUID) error

	// DeleteBySaleID elimina la comisión de una venta abierta que se está
	// re-editando; la edición recalcula y vuelve a crear la fila
	DeleteBySaleID(ctx context.Context, saleID uuid.UUID) error

	// MarkPaid marca una comisión pending como pagada (acción externa explícita)
	MarkPaid(ctx context.Context, id uuid.UUID) error
}
