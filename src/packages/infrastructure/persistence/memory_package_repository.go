package persistence

import (
	"context"
	"sort"
	"sync"

	"sales/src/packages/domain/entity"

	"github.com/google/uuid"
)

// MemoryPackageRepository implementación en memoria de PackageRepository.
// Reproduce la semántica del decremento condicional bajo un mutex, por lo
// que los tests de concurrencia ejercitan el mismo invariante que PostgreSQL.
type MemoryPackageRepository struct {
	mu       sync.Mutex
	packages map[uuid.UUID]*entity.Package
}

// NewMemoryPackageRepository crea un repositorio vacío
func NewMemoryPackageRepository() *MemoryPackageRepository {
	return &MemoryPackageRepository{packages: make(map[uuid.UUID]*entity.Package)}
}

// Create inserta un paquete
func (r *MemoryPackageRepository) Create(ctx context.Context, pkg *entity.Package) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copy := *pkg
	r.packages[pkg.ID] = &copy
	return nil
}

// FindByID busca un paquete por su ID
func (r *MemoryPackageRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Package, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	pkg, ok := r.packages[id]
	if !ok {
		return nil, entity.ErrPackageNotFound
	}
	copy := *pkg
	return &copy, nil
}

// FindByOriginSale busca el paquete emitido por una venta
func (r *MemoryPackageRepository) FindByOriginSale(ctx context.Context, saleID uuid.UUID) (*entity.Package, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, pkg := range r.packages {
		if pkg.OriginSaleID == saleID {
			copy := *pkg
			return &copy, nil
		}
	}
	return nil, entity.ErrPackageNotFound
}

// ListByClient devuelve los paquetes de un portador
func (r *MemoryPackageRepository) ListByClient(ctx context.Context, clientID uuid.UUID) ([]*entity.Package, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*entity.Package
	for _, pkg := range r.packages {
		if pkg.ClientID == clientID {
			copy := *pkg
			out = append(out, &copy)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// Consume decremento condicional: verifica y muta bajo el mismo lock
func (r *MemoryPackageRepository) Consume(ctx context.Context, id uuid.UUID, qty int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	pkg, ok := r.packages[id]
	if !ok {
		return entity.ErrPackageNotFound
	}
	if !pkg.Active || pkg.AvailableQuantity < qty {
		return entity.ErrInsufficientBalance
	}

	pkg.ConsumedQuantity += qty
	pkg.AvailableQuantity -= qty
	return nil
}

// RevertConsumption acredita qty de vuelta al saldo
func (r *MemoryPackageRepository) RevertConsumption(ctx context.Context, id uuid.UUID, qty int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	pkg, ok := r.packages[id]
	if !ok {
		return entity.ErrPackageNotFound
	}
	if pkg.ConsumedQuantity < qty {
		return entity.ErrInvalidConsumption
	}

	pkg.ConsumedQuantity -= qty
	pkg.AvailableQuantity += qty
	return nil
}

// Deactivate desactiva un paquete sin consumos
func (r *MemoryPackageRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	pkg, ok := r.packages[id]
	if !ok {
		return entity.ErrPackageNotFound
	}
	if pkg.ConsumedQuantity != 0 {
		return entity.ErrPackageAlreadyConsumed
	}

	pkg.Active = false
	return nil
}
