package persistence

import (
	"context"
	"sort"
	"sync"

	"sales/src/sales/domain/entity"

	"github.com/google/uuid"
)

// MemoryRefundRepository implementación en memoria de RefundRepository para tests
type MemoryRefundRepository struct {
	mu      sync.RWMutex
	refunds map[uuid.UUID]*entity.Refund
}

// NewMemoryRefundRepository crea una nueva instancia del repositorio
func NewMemoryRefundRepository() *MemoryRefundRepository {
	return &MemoryRefundRepository{refunds: make(map[uuid.UUID]*entity.Refund)}
}

// Create inserta la devolución
func (r *MemoryRefundRepository) Create(ctx context.Context, refund *entity.Refund) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *refund
	r.refunds[refund.ID] = &clone
	return nil
}

// ListBySale devuelve las devoluciones de una venta, más antiguas primero
func (r *MemoryRefundRepository) ListBySale(ctx context.Context, saleID uuid.UUID) ([]*entity.Refund, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*entity.Refund
	for _, refund := range r.refunds {
		if refund.SaleID == saleID {
			clone := *refund
			result = append(result, &clone)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})

	return result, nil
}
