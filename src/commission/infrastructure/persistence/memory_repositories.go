package persistence

import (
	"context"
	"sync"

	"sales/src/commission/domain/entity"

	"github.com/google/uuid"
)

// MemoryPolicyRepository implementación en memoria de PolicyRepository
type MemoryPolicyRepository struct {
	mu       sync.RWMutex
	policies []entity.Policy
}

// NewMemoryPolicyRepository crea un repositorio vacío
func NewMemoryPolicyRepository() *MemoryPolicyRepository {
	return &MemoryPolicyRepository{}
}

// Seed carga políticas de prueba
func (r *MemoryPolicyRepository) Seed(policies ...entity.Policy) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.policies = append(r.policies, policies...)
}

// FindActive devuelve las políticas activas
func (r *MemoryPolicyRepository) FindActive(ctx context.Context) ([]entity.Policy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []entity.Policy
	for _, p := range r.policies {
		if p.Active {
			out = append(out, p)
		}
	}
	return out, nil
}

// MemoryCommissionRepository implementación en memoria de CommissionRepository
type MemoryCommissionRepository struct {
	mu          sync.RWMutex
	commissions map[uuid.UUID]*entity.Commission // por sale_id
}

// NewMemoryCommissionRepository crea un repositorio vacío
func NewMemoryCommissionRepository() *MemoryCommissionRepository {
	return &MemoryCommissionRepository{commissions: make(map[uuid.UUID]*entity.Commission)}
}

// Create inserta una comisión
func (r *MemoryCommissionRepository) Create(ctx context.Context, commission *entity.Commission) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copy := *commission
	r.commissions[commission.SaleID] = &copy
	return nil
}

// FindBySaleID busca la comisión de una venta
func (r *MemoryCommissionRepository) FindBySaleID(ctx context.Context, saleID uuid.UUID) (*entity.Commission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.commissions[saleID]
	if !ok {
		return nil, entity.ErrCommissionNotFound
	}
	copy := *c
	return &copy, nil
}

// CancelBySaleID pasa a cancelled la comisión pending de la venta (idempotente)
func (r *MemoryCommissionRepository) CancelBySaleID(ctx context.Context, saleID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.commissions[saleID]; ok && c.Status == entity.CommissionPending {
		c.Status = entity.CommissionCancelled
	}
	return nil
}

// DeleteBySaleID elimina la comisión de una venta
func (r *MemoryCommissionRepository) DeleteBySaleID(ctx context.Context, saleID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.commissions, saleID)
	return nil
}

// MarkPaid marca una comisión pending como pagada
func (r *MemoryCommissionRepository) MarkPaid(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range r.commissions {
		if c.ID == id {
			if c.Status != entity.CommissionPending {
				return entity.ErrCommissionNotPending
			}
			c.Status = entity.CommissionPaid
			return nil
		}
	}
	return entity.ErrCommissionNotFound
}
