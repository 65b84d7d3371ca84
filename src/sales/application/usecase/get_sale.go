package usecase

import (
	"context"

	"sales/src/catalog/infrastructure/cache"
	"sales/src/sales/application/response"
	"sales/src/sales/domain/port"

	"github.com/google/uuid"
)

// GetSaleUseCase lectura de una venta con sus items
type GetSaleUseCase struct {
	saleRepo       port.SaleRepository
	paymentMethods *cache.PaymentMethodCache
}

// NewGetSaleUseCase crea una nueva instancia del caso de uso
func NewGetSaleUseCase(saleRepo port.SaleRepository, paymentMethods *cache.PaymentMethodCache) *GetSaleUseCase {
	return &GetSaleUseCase{saleRepo: saleRepo, paymentMethods: paymentMethods}
}

// Execute devuelve la venta
func (uc *GetSaleUseCase) Execute(ctx context.Context, saleID uuid.UUID) (*response.SaleResponse, error) {
	sale, err := uc.saleRepo.FindByID(ctx, saleID)
	if err != nil {
		return nil, err
	}

	name := ""
	if uc.paymentMethods != nil {
		name = uc.paymentMethods.GetName(sale.PaymentMethod)
	}
	return response.FromSale(sale, name), nil
}
