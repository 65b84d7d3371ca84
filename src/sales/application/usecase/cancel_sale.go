package usecase

import (
	"context"
	"log"
	"time"

	commissionPort "sales/src/commission/domain/port"
	packagesApp "sales/src/packages/application"
	"sales/src/sales/domain/entity"
	"sales/src/sales/domain/port"
	"sales/src/shared/domain/saletype"
	sharedPort "sales/src/shared/domain/port"
	"sales/src/shared/infrastructure/metrics"

	"github.com/google/uuid"
)

// CancelSaleUseCase cancela una venta abierta o confirmada.
// En una sola transacción: marca la venta cancelada, cancela la comisión
// pending y revierte el efecto sobre el paquete (reacreditar consumo o dar
// de baja la emisión). Cancelar una venta ya cancelada es un no-op.
type CancelSaleUseCase struct {
	saleRepo       port.SaleRepository
	commissionRepo commissionPort.CommissionRepository
	packageLedger  *packagesApp.Ledger
	tx             sharedPort.TxManager
	metrics        *metrics.SalesMetrics
}

// NewCancelSaleUseCase crea una nueva instancia del caso de uso
func NewCancelSaleUseCase(
	saleRepo port.SaleRepository,
	commissionRepo commissionPort.CommissionRepository,
	packageLedger *packagesApp.Ledger,
	tx sharedPort.TxManager,
	salesMetrics *metrics.SalesMetrics,
) *CancelSaleUseCase {
	return &CancelSaleUseCase{
		saleRepo:       saleRepo,
		commissionRepo: commissionRepo,
		packageLedger:  packageLedger,
		tx:             tx,
		metrics:        salesMetrics,
	}
}

// Execute cancela la venta
func (uc *CancelSaleUseCase) Execute(ctx context.Context, saleID uuid.UUID) error {
	sale, err := uc.saleRepo.FindByID(ctx, saleID)
	if err != nil {
		return err
	}

	if sale.Status == entity.SaleStatusCancelled {
		// idempotente: repetir la cancelación no duplica reversas
		log.Printf("Venta %s ya estaba cancelada, no-op", saleID)
		return nil
	}

	now := time.Now()
	err = uc.tx.WithTransaction(ctx, func(ctx context.Context) error {
		// UPDATE condicional por estado: si otra request la canceló entre
		// la lectura y acá, RowsAffected=0 y se trata como no-op
		if err := uc.saleRepo.Cancel(ctx, saleID, now); err != nil {
			if err == entity.ErrSaleAlreadyCancelled {
				return nil
			}
			return err
		}

		if err := uc.commissionRepo.CancelBySaleID(ctx, saleID); err != nil {
			return err
		}

		// las cantidades se releen dentro de la transacción: una edición
		// concurrente pudo cambiar el consumo después del snapshot inicial
		current, err := uc.saleRepo.FindByID(ctx, saleID)
		if err != nil {
			return err
		}

		switch current.SaleType {
		case saletype.PackageConsumption:
			if current.PackageID != nil {
				if err := uc.packageLedger.RevertConsumption(ctx, *current.PackageID, current.TotalUnits()); err != nil {
					return err
				}
			}
		case saletype.PackageIssue:
			if err := uc.packageLedger.CancelIssuance(ctx, saleID); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	uc.metrics.SaleCancelled()
	log.Printf("✅ Venta cancelada: ID=%s, Tipo=%s", saleID, sale.SaleType)
	return nil
}
