package usecase

import (
	"context"
	"log"
	"time"

	catalogEntity "sales/src/catalog/domain/entity"
	catalogPort "sales/src/catalog/domain/port"
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
	"sales/src/shared/infrastructure/metrics"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateSaleUseCase caso de uso para crear una venta.
// Orquesta pricing, comisión y ledger de paquetes dentro de UNA transacción:
// la venta, sus items, la comisión y la mutación de paquete se confirman
// juntos o se revierten juntos.
type CreateSaleUseCase struct {
	saleRepo           port.SaleRepository
	clientRepo         catalogPort.ClientRepository
	pricingResolver    *pricingApp.Resolver
	commissionResolver *commissionApp.Resolver
	commissionCalc     *commissionApp.Calculator
	commissionRepo     commissionPort.CommissionRepository
	packageLedger      *packagesApp.Ledger
	paymentMethods     *cache.PaymentMethodCache
	tx                 sharedPort.TxManager
	metrics            *metrics.SalesMetrics
}

// NewCreateSaleUseCase crea una nueva instancia del caso de uso
func NewCreateSaleUseCase(
	saleRepo port.SaleRepository,
	clientRepo catalogPort.ClientRepository,
	pricingResolver *pricingApp.Resolver,
	commissionResolver *commissionApp.Resolver,
	commissionCalc *commissionApp.Calculator,
	commissionRepo commissionPort.CommissionRepository,
	packageLedger *packagesApp.Ledger,
	paymentMethods *cache.PaymentMethodCache,
	tx sharedPort.TxManager,
	salesMetrics *metrics.SalesMetrics,
) *CreateSaleUseCase {
	return &CreateSaleUseCase{
		saleRepo:           saleRepo,
		clientRepo:         clientRepo,
		pricingResolver:    pricingResolver,
		commissionResolver: commissionResolver,
		commissionCalc:     commissionCalc,
		commissionRepo:     commissionRepo,
		packageLedger:      packageLedger,
		paymentMethods:     paymentMethods,
		tx:                 tx,
		metrics:            salesMetrics,
	}
}

// Execute crea la venta.
// 1. Valida precondiciones del tipo de venta (cliente/portador/paquete)
// 2. Resuelve el subtotal autoritativo de cada item vía Pricing Resolver
// 3. Arma el aggregate con descuentos por item y general
// 4. Resuelve y calcula la comisión (salteado para emisión de paquete)
// 5. Dentro de la transacción: consumo/emisión de paquete + inserts
func (uc *CreateSaleUseCase) Execute(ctx context.Context, attendantID uuid.UUID, req *request.CreateSaleRequest) (*response.SaleResponse, error) {
	st := saletype.SaleType(req.SaleType)
	if !st.Valid() {
		return nil, entity.ErrInvalidSaleType
	}

	if uc.paymentMethods != nil && !uc.paymentMethods.Valid(req.PaymentMethod) {
		return nil, catalogEntity.ErrUnknownPaymentMethod
	}

	saleDate, err := parseSaleDate(req.SaleDate)
	if err != nil {
		return nil, err
	}

	status := entity.SaleStatus(req.Status)
	if req.Status == "" {
		status = entity.SaleStatusOpen
	}
	if status != entity.SaleStatusOpen && status != entity.SaleStatusConfirmed {
		return nil, entity.ErrInvalidSaleStatus
	}

	// Precondiciones por tipo de venta: quién compra y quién porta el paquete
	billedClientID, carrierID, err := uc.resolveParties(ctx, st, req)
	if err != nil {
		return nil, err
	}

	// Emisión y consumo operan sobre un único servicio del paquete
	if st.UsesPackage() && len(req.Items) != 1 {
		return nil, entity.ErrSingleItemRequired
	}

	items, err := buildItems(ctx, uc.pricingResolver, st, req.Items)
	if err != nil {
		return nil, err
	}
	if st.UsesPackage() && items[0].ServiceID == nil {
		// emisión y consumo operan siempre sobre un servicio de catálogo
		return nil, entity.ErrInvalidSaleType
	}

	generalDiscount, err := toDiscount(req.GeneralDiscount)
	if err != nil {
		return nil, err
	}

	var packageID *uuid.UUID
	var consumeQty int
	if st == saletype.PackageConsumption {
		// el guard final es el decremento condicional dentro de la transacción;
		// acá solo se valida que el paquete exista y sea del servicio vendido
		pkg, err := uc.packageLedger.Get(ctx, *req.PackageID)
		if err != nil {
			return nil, err
		}
		if items[0].ServiceID == nil || *items[0].ServiceID != pkg.ServiceID {
			return nil, entity.ErrInvalidSaleType
		}
		packageID = req.PackageID
		consumeQty = items[0].Quantity
	}

	sale, err := entity.NewSale(entity.NewSaleParams{
		ClientID:        billedClientID,
		CarrierID:       carrierID,
		AttendantID:     attendantID,
		SaleDate:        saleDate,
		SaleType:        st,
		PaymentMethod:   req.PaymentMethod,
		GeneralDiscount: generalDiscount,
		PackageID:       packageID,
		Items:           items,
	})
	if err != nil {
		return nil, err
	}

	if status == entity.SaleStatusConfirmed {
		// punto de entrada directo: la venta nace confirmada
		if err := sale.Confirm(time.Now()); err != nil {
			return nil, err
		}
	}

	// Comisión sobre el neto (la emisión de paquete nunca comisiona)
	var commission *commissionEntity.Commission
	if st.EarnsCommission() {
		policy, err := uc.commissionResolver.Resolve(ctx, attendantID, singleServiceID(items), saleDate, st)
		if err != nil {
			return nil, err
		}
		amount := uc.commissionCalc.Calculate(sale.Total, sale.TotalUnits(), policy)
		sale.CommissionAmount = amount
		if policy != nil {
			policyID := policy.ID
			sale.CommissionPolicyID = &policyID
		}
		commission = commissionEntity.NewCommission(sale.ID, attendantID, amount, sale.CommissionPolicyID, saleDate)
	}

	// Transacción de creación: todo o nada
	err = uc.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if st == saletype.PackageConsumption {
			// decremento condicional: dos consumos concurrentes nunca
			// exceden juntos el saldo disponible
			if _, err := uc.packageLedger.Consume(ctx, *packageID, *carrierID, consumeQty); err != nil {
				return err
			}
		}

		if err := uc.saleRepo.Create(ctx, sale); err != nil {
			return err
		}

		if commission != nil {
			if err := uc.commissionRepo.Create(ctx, commission); err != nil {
				return err
			}
		}

		if st == saletype.PackageIssue {
			expiresAt, err := parseExpiry(req.PackageExpiresAt)
			if err != nil {
				return err
			}
			pkg, err := uc.packageLedger.Issue(ctx, *carrierID, *items[0].ServiceID, sale.ID, items[0].Quantity, sale.Total, expiresAt)
			if err != nil {
				return err
			}
			log.Printf("Paquete %s emitido: %d unidades a %s", pkg.ID, pkg.InitialQuantity, pkg.UnitPrice)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.metrics.SaleCreated(string(st))
	log.Printf("✅ Venta creada: ID=%s, Tipo=%s, Total=%s, Estado=%s", sale.ID, sale.SaleType, sale.Total, sale.Status)

	return response.FromSale(sale, uc.paymentMethodName(req.PaymentMethod)), nil
}

// resolveParties valida las precondiciones de cliente/portador según el tipo:
//   - common: exige cliente final y rechaza portadores
//   - package_issue: exige portador tipo "package"; el comprador es el portador
//   - package_consumption: exige portador y además el cliente final atendido
func (uc *CreateSaleUseCase) resolveParties(ctx context.Context, st saletype.SaleType, req *request.CreateSaleRequest) (uuid.UUID, *uuid.UUID, error) {
	switch st {
	case saletype.Common:
		if req.ClientID == nil {
			return uuid.Nil, nil, entity.ErrClientRequired
		}
		client, err := uc.clientRepo.FindByID(ctx, *req.ClientID)
		if err != nil {
			return uuid.Nil, nil, err
		}
		if !client.Active {
			return uuid.Nil, nil, catalogEntity.ErrClientInactive
		}
		if client.IsCarrier() {
			return uuid.Nil, nil, entity.ErrClientIsCarrier
		}
		return client.ID, nil, nil

	case saletype.PackageIssue:
		carrier, err := uc.requireCarrier(ctx, req.CarrierID)
		if err != nil {
			return uuid.Nil, nil, err
		}
		id := carrier.ID
		return id, &id, nil

	case saletype.PackageConsumption:
		carrier, err := uc.requireCarrier(ctx, req.CarrierID)
		if err != nil {
			return uuid.Nil, nil, err
		}
		if req.ClientID == nil {
			return uuid.Nil, nil, entity.ErrClientRequired
		}
		if req.PackageID == nil {
			return uuid.Nil, nil, entity.ErrPackageIDRequired
		}
		endClient, err := uc.clientRepo.FindByID(ctx, *req.ClientID)
		if err != nil {
			return uuid.Nil, nil, err
		}
		if !endClient.Active {
			return uuid.Nil, nil, catalogEntity.ErrClientInactive
		}
		if endClient.IsCarrier() {
			return uuid.Nil, nil, entity.ErrClientIsCarrier
		}
		carrierID := carrier.ID
		return endClient.ID, &carrierID, nil
	}

	return uuid.Nil, nil, entity.ErrInvalidSaleType
}

func (uc *CreateSaleUseCase) requireCarrier(ctx context.Context, carrierID *uuid.UUID) (*catalogEntity.Client, error) {
	if carrierID == nil {
		return nil, entity.ErrCarrierRequired
	}
	carrier, err := uc.clientRepo.FindByID(ctx, *carrierID)
	if err != nil {
		return nil, err
	}
	if !carrier.Active {
		return nil, catalogEntity.ErrClientInactive
	}
	if !carrier.IsCarrier() {
		return nil, entity.ErrClientIsNotCarrier
	}
	return carrier, nil
}

// buildItems resuelve el subtotal autoritativo de cada item.
// Un subtotal enviado por el cliente es solo pista de display: si difiere
// del resuelto se loguea la discrepancia y manda la cifra del servidor.
func buildItems(ctx context.Context, resolver *pricingApp.Resolver, st saletype.SaleType, reqs []request.SaleItemRequest) ([]entity.SaleItem, error) {
	var items []entity.SaleItem
	for _, itemReq := range reqs {
		discount, err := toDiscount(itemReq.Discount)
		if err != nil {
			return nil, err
		}

		var item *entity.SaleItem
		if itemReq.ServiceID != nil {
			quote, err := resolver.Resolve(ctx, *itemReq.ServiceID, st, itemReq.Quantity)
			if err != nil {
				return nil, err
			}
			if itemReq.Subtotal != nil && !itemReq.Subtotal.Equal(quote.Subtotal) {
				log.Printf("⚠️ Subtotal del cliente difiere del resuelto para servicio %s: %s vs %s",
					quote.Service.ID, itemReq.Subtotal, quote.Subtotal)
			}
			item, err = entity.NewSaleItem(itemReq.ServiceID, quote.Service.Name, itemReq.Quantity, quote.UnitPrice, quote.Subtotal, discount)
			if err != nil {
				return nil, err
			}
		} else {
			// item libre sin servicio de catálogo: requiere nombre y precio
			if itemReq.UnitPrice == nil {
				return nil, entity.ErrUnitPriceRequired
			}
			subtotal := itemReq.UnitPrice.Mul(decimal.NewFromInt(int64(itemReq.Quantity))).Round(2)
			item, err = entity.NewSaleItem(nil, itemReq.ProductName, itemReq.Quantity, *itemReq.UnitPrice, subtotal, discount)
			if err != nil {
				return nil, err
			}
		}

		items = append(items, *item)
	}

	return items, nil
}

func (uc *CreateSaleUseCase) paymentMethodName(code string) string {
	if uc.paymentMethods == nil {
		return ""
	}
	return uc.paymentMethods.GetName(code)
}

// singleServiceID devuelve el servicio cuando la venta tiene un único item
// de catálogo; las políticas con alcance por producto matchean contra él
func singleServiceID(items []entity.SaleItem) *uuid.UUID {
	if len(items) == 1 {
		return items[0].ServiceID
	}
	return nil
}

func toDiscount(req *request.DiscountRequest) (entity.Discount, error) {
	if req == nil {
		return entity.NoDiscount(), nil
	}
	d := entity.Discount{Type: entity.DiscountType(req.Type), Value: req.Value}
	if err := d.Validate(); err != nil {
		return entity.Discount{}, err
	}
	return d, nil
}

func parseSaleDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Now(), nil
	}
	date, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, entity.ErrInvalidSaleDate
	}
	return date, nil
}

func parseExpiry(raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, *raw)
	if err != nil {
		return nil, entity.ErrInvalidExpiryDate
	}
	return &t, nil
}
