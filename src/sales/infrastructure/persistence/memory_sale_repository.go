package persistence

import (
	"context"
	"sort"
	"sync"
	"time"

	"sales/src/sales/domain/entity"
	"sales/src/shared/domain/criteria"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MemorySaleRepository implementación en memoria de SaleRepository para tests.
// Replica la semántica condicional del repositorio Postgres: las transiciones
// de estado y el tope de devoluciones se verifican bajo el mismo lock.
type MemorySaleRepository struct {
	mu    sync.RWMutex
	sales map[uuid.UUID]*entity.Sale
}

// NewMemorySaleRepository crea una nueva instancia del repositorio
func NewMemorySaleRepository() *MemorySaleRepository {
	return &MemorySaleRepository{sales: make(map[uuid.UUID]*entity.Sale)}
}

// Create inserta la venta y sus items
func (r *MemorySaleRepository) Create(ctx context.Context, sale *entity.Sale) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sales[sale.ID] = cloneSale(sale)
	return nil
}

// FindByID carga el aggregate completo
func (r *MemorySaleRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sale, ok := r.sales[id]
	if !ok {
		return nil, entity.ErrSaleNotFound
	}
	return cloneSale(sale), nil
}

// List filtra y pagina en memoria
func (r *MemorySaleRepository) List(ctx context.Context, c criteria.Criteria) ([]*entity.Sale, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*entity.Sale
	for _, sale := range r.sales {
		if matchesFilters(sale, c.Filters) {
			matched = append(matched, cloneSale(sale))
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)
	if c.Limit != nil && c.Offset != nil {
		start := *c.Offset
		if start > total {
			start = total
		}
		end := start + *c.Limit
		if end > total {
			end = total
		}
		matched = matched[start:end]
	}

	return matched, total, nil
}

// Update reescribe la venta si sigue abierta
func (r *MemorySaleRepository) Update(ctx context.Context, sale *entity.Sale) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.sales[sale.ID]
	if !ok {
		return entity.ErrSaleNotFound
	}
	if current.Status != entity.SaleStatusOpen {
		return entity.ErrSaleNotOpen
	}
	r.sales[sale.ID] = cloneSale(sale)
	return nil
}

// Confirm transición condicional open → confirmed
func (r *MemorySaleRepository) Confirm(ctx context.Context, id uuid.UUID, confirmedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	sale, ok := r.sales[id]
	if !ok {
		return entity.ErrSaleNotFound
	}
	if sale.Status != entity.SaleStatusOpen {
		return entity.ErrSaleNotOpen
	}
	sale.Status = entity.SaleStatusConfirmed
	t := confirmedAt
	sale.ConfirmedAt = &t
	return nil
}

// Cancel transición condicional open|confirmed → cancelled
func (r *MemorySaleRepository) Cancel(ctx context.Context, id uuid.UUID, cancelledAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	sale, ok := r.sales[id]
	if !ok {
		return entity.ErrSaleNotFound
	}
	if sale.Status == entity.SaleStatusCancelled {
		return entity.ErrSaleAlreadyCancelled
	}
	sale.Status = entity.SaleStatusCancelled
	t := cancelledAt
	sale.CancelledAt = &t
	return nil
}

// ApplyRefund incrementa refund_total con tope en el total
func (r *MemorySaleRepository) ApplyRefund(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	sale, ok := r.sales[id]
	if !ok {
		return entity.ErrSaleNotFound
	}
	if sale.Status != entity.SaleStatusConfirmed {
		return entity.ErrSaleNotConfirmed
	}
	if sale.RefundTotal.Add(amount).GreaterThan(sale.Total) {
		return entity.ErrRefundExceedsTotal
	}
	sale.RefundTotal = sale.RefundTotal.Add(amount)
	return nil
}

func cloneSale(sale *entity.Sale) *entity.Sale {
	clone := *sale
	clone.Items = append([]entity.SaleItem(nil), sale.Items...)
	return &clone
}

func matchesFilters(sale *entity.Sale, filters criteria.Filters) bool {
	for _, f := range filters.Items {
		if !matchesFilter(sale, f) {
			return false
		}
	}
	return true
}

func matchesFilter(sale *entity.Sale, f criteria.Filter) bool {
	switch f.Field {
	case "attendant_id":
		return f.Value == sale.AttendantID
	case "client_id":
		return f.Value == sale.ClientID
	case "sale_type":
		return f.Value == string(sale.SaleType)
	case "status":
		return f.Value == string(sale.Status)
	case "sale_date":
		day, ok := f.Value.(string)
		if !ok {
			return false
		}
		saleDay := sale.SaleDate.Format("2006-01-02")
		switch f.Operator {
		case criteria.OpGreaterThanOrEqual:
			return saleDay >= day
		case criteria.OpLessThanOrEqual:
			return saleDay <= day
		case criteria.OpEqual:
			return saleDay == day
		}
	}
	return false
}
