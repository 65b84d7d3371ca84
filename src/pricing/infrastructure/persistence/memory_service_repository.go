package persistence

import (
	"context"
	"sync"

	"sales/src/pricing/domain/entity"
	"sales/src/shared/domain/saletype"

	"github.com/google/uuid"
)

// MemoryServiceRepository implementación en memoria de ServiceRepository
// para tests y desarrollo sin base de datos
type MemoryServiceRepository struct {
	mu       sync.RWMutex
	services map[uuid.UUID]entity.Service
	ranges   []entity.PriceRange
}

// NewMemoryServiceRepository crea un repositorio vacío
func NewMemoryServiceRepository() *MemoryServiceRepository {
	return &MemoryServiceRepository{services: make(map[uuid.UUID]entity.Service)}
}

// SeedService carga un servicio de prueba
func (r *MemoryServiceRepository) SeedService(svc entity.Service) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.services[svc.ID] = svc
}

// SeedRange carga un rango de precio de prueba
func (r *MemoryServiceRepository) SeedRange(rg entity.PriceRange) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ranges = append(r.ranges, rg)
}

// FindServiceByID busca un servicio por su ID
func (r *MemoryServiceRepository) FindServiceByID(ctx context.Context, id uuid.UUID) (*entity.Service, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	svc, ok := r.services[id]
	if !ok {
		return nil, entity.ErrServiceNotFound
	}
	copy := svc
	return &copy, nil
}

// FindActiveRanges devuelve los rangos activos de un (servicio, tipo de venta)
func (r *MemoryServiceRepository) FindActiveRanges(ctx context.Context, serviceID uuid.UUID, st saletype.SaleType) ([]entity.PriceRange, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []entity.PriceRange
	for _, rg := range r.ranges {
		if rg.ServiceID == serviceID && rg.SaleType == st && rg.Active {
			out = append(out, rg)
		}
	}
	return out, nil
}
