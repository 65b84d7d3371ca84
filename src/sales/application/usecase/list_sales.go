package usecase

import (
	"context"

	"sales/src/catalog/infrastructure/cache"
	"sales/src/sales/application/response"
	"sales/src/sales/domain/port"
	"sales/src/shared/domain/criteria"

	"github.com/google/uuid"
)

// ListSalesQuery filtros y paginación del listado de ventas
type ListSalesQuery struct {
	AttendantID *uuid.UUID
	ClientID    *uuid.UUID
	SaleType    string
	Status      string
	DateFrom    string // YYYY-MM-DD inclusive
	DateTo      string // YYYY-MM-DD inclusive
	Page        int
	PageSize    int
}

// ListSalesUseCase listado paginado de ventas con filtros
type ListSalesUseCase struct {
	saleRepo       port.SaleRepository
	paymentMethods *cache.PaymentMethodCache
}

// NewListSalesUseCase crea una nueva instancia del caso de uso
func NewListSalesUseCase(saleRepo port.SaleRepository, paymentMethods *cache.PaymentMethodCache) *ListSalesUseCase {
	return &ListSalesUseCase{saleRepo: saleRepo, paymentMethods: paymentMethods}
}

// Execute lista las ventas más recientes primero
func (uc *ListSalesUseCase) Execute(ctx context.Context, query ListSalesQuery) (*response.ListSalesResponse, error) {
	if query.Page < 1 {
		query.Page = 1
	}
	if query.PageSize < 1 || query.PageSize > 100 {
		query.PageSize = 20
	}

	filters := criteria.NewFilters()
	if query.AttendantID != nil {
		filters.Add(criteria.Filter{Field: "attendant_id", Operator: criteria.OpEqual, Value: *query.AttendantID})
	}
	if query.ClientID != nil {
		filters.Add(criteria.Filter{Field: "client_id", Operator: criteria.OpEqual, Value: *query.ClientID})
	}
	if query.SaleType != "" {
		filters.Add(criteria.Filter{Field: "sale_type", Operator: criteria.OpEqual, Value: query.SaleType})
	}
	if query.Status != "" {
		filters.Add(criteria.Filter{Field: "status", Operator: criteria.OpEqual, Value: query.Status})
	}
	if query.DateFrom != "" {
		filters.Add(criteria.Filter{Field: "sale_date", Operator: criteria.OpGreaterThanOrEqual, Value: query.DateFrom})
	}
	if query.DateTo != "" {
		filters.Add(criteria.Filter{Field: "sale_date", Operator: criteria.OpLessThanOrEqual, Value: query.DateTo})
	}

	limit := query.PageSize
	offset := (query.Page - 1) * query.PageSize
	crit := criteria.NewCriteria(filters, criteria.NewOrder("created_at", criteria.DESC), &limit, &offset)

	sales, total, err := uc.saleRepo.List(ctx, crit)
	if err != nil {
		return nil, err
	}

	items := make([]*response.SaleResponse, 0, len(sales))
	for _, sale := range sales {
		name := ""
		if uc.paymentMethods != nil {
			name = uc.paymentMethods.GetName(sale.PaymentMethod)
		}
		items = append(items, response.FromSale(sale, name))
	}

	return &response.ListSalesResponse{
		Items:      items,
		TotalCount: total,
		Page:       query.Page,
		PageSize:   query.PageSize,
	}, nil
}
