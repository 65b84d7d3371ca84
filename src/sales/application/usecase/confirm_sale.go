package usecase

import (
	"context"
	"log"
	"time"

	"sales/src/catalog/infrastructure/cache"
	"sales/src/sales/application/response"
	"sales/src/sales/domain/port"

	"github.com/google/uuid"
)

// ConfirmSaleUseCase transición open → confirmed.
// La confirmación en base es condicional por estado: dos confirmaciones
// concurrentes nunca pisan una cancelación.
type ConfirmSaleUseCase struct {
	saleRepo       port.SaleRepository
	paymentMethods *cache.PaymentMethodCache
}

// NewConfirmSaleUseCase crea una nueva instancia del caso de uso
func NewConfirmSaleUseCase(saleRepo port.SaleRepository, paymentMethods *cache.PaymentMethodCache) *ConfirmSaleUseCase {
	return &ConfirmSaleUseCase{saleRepo: saleRepo, paymentMethods: paymentMethods}
}

// Execute confirma la venta
func (uc *ConfirmSaleUseCase) Execute(ctx context.Context, saleID uuid.UUID) (*response.SaleResponse, error) {
	now := time.Now()
	if err := uc.saleRepo.Confirm(ctx, saleID, now); err != nil {
		return nil, err
	}

	sale, err := uc.saleRepo.FindByID(ctx, saleID)
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Venta confirmada: ID=%s", sale.ID)

	name := ""
	if uc.paymentMethods != nil {
		name = uc.paymentMethods.GetName(sale.PaymentMethod)
	}
	return response.FromSale(sale, name), nil
}
