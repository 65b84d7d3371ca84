package usecase

import (
	"context"
	"log"

	"sales/src/catalog/infrastructure/cache"
	commissionApp "sales/src/commission/application"
	commissionEntity "sales/src/commission/domain/entity"
	commissionPort "sales/src/commission/domain/port"
	packagesApp "sales/src/packages/application"
	pricingApp "sales/src/pricing/application"
	"sales/src/sales/application/request"
	"sales/src/sales/application/response"
	"sales/src/sales/domain/entity"
	"sales/src/sales/domain/port"
	"sales/src/shared/domain/saletype"
	sharedPort "sales/src/shared/domain/port"

	"github.com/google/uuid"
)

// UpdateSaleUseCase reemplaza items y descuento general de una venta abierta.
// Recalcula totales y reexpide la comisión; en consumo de paquete la
// diferencia de cantidad se ajusta contra el saldo del paquete.
type UpdateSaleUseCase struct {
	saleRepo           port.SaleRepository
	pricingResolver    *pricingApp.Resolver
	commissionResolver *commissionApp.Resolver
	commissionCalc     *commissionApp.Calculator
	commissionRepo     commissionPort.CommissionRepository
	packageLedger      *packagesApp.Ledger
	paymentMethods     *cache.PaymentMethodCache
	tx                 sharedPort.TxManager
}

// NewUpdateSaleUseCase crea una nueva instancia del caso de uso
func NewUpdateSaleUseCase(
	saleRepo port.SaleRepository,
	pricingResolver *pricingApp.Resolver,
	commissionResolver *commissionApp.Resolver,
	commissionCalc *commissionApp.Calculator,
	commissionRepo commissionPort.CommissionRepository,
	packageLedger *packagesApp.Ledger,
	paymentMethods *cache.PaymentMethodCache,
	tx sharedPort.TxManager,
) *UpdateSaleUseCase {
	return &UpdateSaleUseCase{
		saleRepo:           saleRepo,
		pricingResolver:    pricingResolver,
		commissionResolver: commissionResolver,
		commissionCalc:     commissionCalc,
		commissionRepo:     commissionRepo,
		packageLedger:      packageLedger,
		paymentMethods:     paymentMethods,
		tx:                 tx,
	}
}

// Execute edita la venta. Solo el atendente dueño o un admin pueden editar,
// y solo mientras la venta sigue abierta.
func (uc *UpdateSaleUseCase) Execute(ctx context.Context, saleID, actorID uuid.UUID, isAdmin bool, req *request.UpdateSaleRequest) (*response.SaleResponse, error) {
	sale, err := uc.saleRepo.FindByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if sale.Status != entity.SaleStatusOpen {
		return nil, entity.ErrSaleNotOpen
	}
	if !isAdmin && sale.AttendantID != actorID {
		return nil, entity.ErrForbidden
	}

	if sale.SaleType.UsesPackage() && len(req.Items) != 1 {
		return nil, entity.ErrSingleItemRequired
	}

	items, err := buildItems(ctx, uc.pricingResolver, sale.SaleType, req.Items)
	if err != nil {
		return nil, err
	}
	if sale.SaleType.UsesPackage() && items[0].ServiceID == nil {
		return nil, entity.ErrInvalidSaleType
	}

	generalDiscount, err := toDiscount(req.GeneralDiscount)
	if err != nil {
		return nil, err
	}

	oldUnits := sale.TotalUnits()
	if err := sale.ReplaceItems(items, generalDiscount); err != nil {
		return nil, err
	}

	// Comisión reexpedida desde cero con el nuevo neto
	var commission *commissionEntity.Commission
	if sale.SaleType.EarnsCommission() {
		policy, err := uc.commissionResolver.Resolve(ctx, sale.AttendantID, singleServiceID(items), sale.SaleDate, sale.SaleType)
		if err != nil {
			return nil, err
		}
		amount := uc.commissionCalc.Calculate(sale.Total, sale.TotalUnits(), policy)
		sale.CommissionAmount = amount
		sale.CommissionPolicyID = nil
		if policy != nil {
			policyID := policy.ID
			sale.CommissionPolicyID = &policyID
		}
		commission = commissionEntity.NewCommission(sale.ID, sale.AttendantID, amount, sale.CommissionPolicyID, sale.SaleDate)
	}

	err = uc.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if sale.SaleType == saletype.PackageConsumption && sale.PackageID != nil {
			// ajusta la diferencia contra el saldo; el incremento es el
			// mismo decremento condicional de la creación
			newUnits := sale.TotalUnits()
			switch {
			case newUnits > oldUnits:
				if _, err := uc.packageLedger.Consume(ctx, *sale.PackageID, deref(sale.CarrierID), newUnits-oldUnits); err != nil {
					return err
				}
			case newUnits < oldUnits:
				if err := uc.packageLedger.RevertConsumption(ctx, *sale.PackageID, oldUnits-newUnits); err != nil {
					return err
				}
			}
		}

		if err := uc.saleRepo.Update(ctx, sale); err != nil {
			return err
		}

		if commission != nil {
			if err := uc.commissionRepo.DeleteBySaleID(ctx, sale.ID); err != nil {
				return err
			}
			if err := uc.commissionRepo.Create(ctx, commission); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Venta actualizada: ID=%s, Total=%s", sale.ID, sale.Total)

	return response.FromSale(sale, uc.paymentMethodName(sale.PaymentMethod)), nil
}

func (uc *UpdateSaleUseCase) paymentMethodName(code string) string {
	if uc.paymentMethods == nil {
		return ""
	}
	return uc.paymentMethods.GetName(code)
}

func deref(id *uuid.UUID) uuid.UUID {
	if id == nil {
		return uuid.Nil
	}
	return *id
}
