package port

import (
	"context"

	"sales/src/packages/domain/entity"

	"github.com/google/uuid"
)

// PackageRepository persistencia de los saldos de paquetes.
// Consume y RevertConsumption son decrementos/incrementos condicionales
// aplicados en una sola sentencia: nunca read-then-write separados.
type PackageRepository interface {
	Create(ctx context.Context, pkg *entity.Package) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Package, error)
	FindByOriginSale(ctx context.Context, saleID uuid.UUID) (*entity.Package, error)
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]*entity.Package, error)

	// Consume descuenta qty del saldo disponible solo si alcanza;
	// devuelve ErrInsufficientBalance cuando la condición no se cumple
	Consume(ctx context.Context, id uuid.UUID, qty int) error

	// RevertConsumption devuelve qty al saldo disponible (cancelación de
	// una venta de consumo confirmada)
	RevertConsumption(ctx context.Context, id uuid.UUID, qty int) error

	// Deactivate desactiva un paquete sin consumos (cancelación de emisión)
	Deactivate(ctx context.Context, id uuid.UUID) error
}
