package port

import (
	"context"

	"sales/src/pricing/domain/entity"
	"sales/src/shared/domain/saletype"

	"github.com/google/uuid"
)

// ServiceRepository acceso de lectura al catálogo de servicios y sus rangos de precio
type ServiceRepository interface {
	FindServiceByID(ctx context.Context, id uuid.UUID) (*entity.Service, error)

	// FindActiveRanges devuelve los rangos vigentes de un (servicio, tipo de venta),
	// ordenados por min_qty ascendente
	FindActiveRanges(ctx context.Context, serviceID uuid.UUID, st saletype.SaleType) ([]entity.PriceRange, error)
}
