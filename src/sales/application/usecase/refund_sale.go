package usecase

import (
	"context"
	"log"

	"sales/src/sales/application/request"
	"sales/src/sales/domain/entity"
	"sales/src/sales/domain/port"
	sharedPort "sales/src/shared/domain/port"
	"sales/src/shared/infrastructure/metrics"

	"github.com/google/uuid"
)

// RefundSaleUseCase registra una devolución parcial sobre una venta confirmada.
// El acumulado de devoluciones nunca supera el total de la venta: el guard
// final es un UPDATE condicional sobre refund_total, no una lectura previa.
// Las devoluciones no recalculan la comisión devengada.
type RefundSaleUseCase struct {
	saleRepo   port.SaleRepository
	refundRepo port.RefundRepository
	tx         sharedPort.TxManager
	metrics    *metrics.SalesMetrics
}

// NewRefundSaleUseCase crea una nueva instancia del caso de uso
func NewRefundSaleUseCase(saleRepo port.SaleRepository, refundRepo port.RefundRepository, tx sharedPort.TxManager, salesMetrics *metrics.SalesMetrics) *RefundSaleUseCase {
	return &RefundSaleUseCase{saleRepo: saleRepo, refundRepo: refundRepo, tx: tx, metrics: salesMetrics}
}

// Execute registra la devolución
func (uc *RefundSaleUseCase) Execute(ctx context.Context, saleID, actorID uuid.UUID, req *request.RefundSaleRequest) (*entity.Refund, error) {
	sale, err := uc.saleRepo.FindByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if sale.Status != entity.SaleStatusConfirmed {
		return nil, entity.ErrSaleNotConfirmed
	}

	refund, err := entity.NewRefund(saleID, req.Amount, req.Reason, actorID)
	if err != nil {
		return nil, err
	}

	err = uc.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := uc.saleRepo.ApplyRefund(ctx, saleID, refund.Amount); err != nil {
			return err
		}
		return uc.refundRepo.Create(ctx, refund)
	})
	if err != nil {
		return nil, err
	}

	uc.metrics.RefundRecorded()
	log.Printf("✅ Devolución registrada: Venta=%s, Monto=%s", saleID, refund.Amount)
	return refund, nil
}
