package usecase

import (
	"context"
	"testing"
	"time"

	catalogEntity "sales/src/catalog/domain/entity"
	catalogPersistence "sales/src/catalog/infrastructure/persistence"
	"sales/src/catalog/infrastructure/cache"
	commissionApp "sales/src/commission/application"
	commissionEntity "sales/src/commission/domain/entity"
	commissionPersistence "sales/src/commission/infrastructure/persistence"
	packagesApp "sales/src/packages/application"
	packagesEntity "sales/src/packages/domain/entity"
	packagesPersistence "sales/src/packages/infrastructure/persistence"
	pricingApp "sales/src/pricing/application"
	pricingEntity "sales/src/pricing/domain/entity"
	pricingPersistence "sales/src/pricing/infrastructure/persistence"
	"sales/src/sales/application/request"
	"sales/src/sales/domain/entity"
	salesPersistence "sales/src/sales/infrastructure/persistence"
	sharedPort "sales/src/shared/domain/port"
	"sales/src/shared/domain/saletype"
	sharedPersistence "sales/src/shared/infrastructure/persistence"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type fixture struct {
	clients     *catalogPersistence.MemoryClientRepository
	services    *pricingPersistence.MemoryServiceRepository
	policies    *commissionPersistence.MemoryPolicyRepository
	commissions *commissionPersistence.MemoryCommissionRepository
	packages    *packagesPersistence.MemoryPackageRepository
	sales       *salesPersistence.MemorySaleRepository
	refunds     *salesPersistence.MemoryRefundRepository
	ledger      *packagesApp.Ledger

	create  *CreateSaleUseCase
	update  *UpdateSaleUseCase
	confirm *ConfirmSaleUseCase
	cancel  *CancelSaleUseCase
	refund  *RefundSaleUseCase
	list    *ListSalesUseCase
}

func newFixture() *fixture {
	f := &fixture{
		clients:     catalogPersistence.NewMemoryClientRepository(),
		services:    pricingPersistence.NewMemoryServiceRepository(),
		policies:    commissionPersistence.NewMemoryPolicyRepository(),
		commissions: commissionPersistence.NewMemoryCommissionRepository(),
		packages:    packagesPersistence.NewMemoryPackageRepository(),
		sales:       salesPersistence.NewMemorySaleRepository(),
		refunds:     salesPersistence.NewMemoryRefundRepository(),
	}

	paymentMethods := cache.NewPaymentMethodCache()
	paymentMethods.Seed(
		cache.PaymentMethod{Code: "cash", Name: "Efectivo"},
		cache.PaymentMethod{Code: "card", Name: "Tarjeta"},
	)

	f.ledger = packagesApp.NewLedger(f.packages)
	pricingResolver := pricingApp.NewResolver(f.services)
	commissionResolver := commissionApp.NewResolver(f.policies)
	calculator := commissionApp.NewCalculator()
	tx := sharedPersistence.NewMemoryTxManager()

	f.create = NewCreateSaleUseCase(f.sales, f.clients, pricingResolver, commissionResolver, calculator, f.commissions, f.ledger, paymentMethods, tx, nil)
	f.update = NewUpdateSaleUseCase(f.sales, pricingResolver, commissionResolver, calculator, f.commissions, f.ledger, paymentMethods, tx)
	f.confirm = NewConfirmSaleUseCase(f.sales, paymentMethods)
	f.cancel = NewCancelSaleUseCase(f.sales, f.commissions, f.ledger, tx, nil)
	f.refund = NewRefundSaleUseCase(f.sales, f.refunds, tx, nil)
	f.list = NewListSalesUseCase(f.sales, paymentMethods)

	return f
}

func (f *fixture) seedClient(clientType catalogEntity.ClientType) uuid.UUID {
	id := uuid.New()
	f.clients.Seed(catalogEntity.Client{
		ID:        id,
		Name:      "cliente " + id.String()[:8],
		Type:      clientType,
		Active:    true,
		CreatedAt: time.Now(),
	})
	return id
}

// seedFlatService servicio con un único rango para ventas comunes
func (f *fixture) seedFlatService(unitPrice int64) uuid.UUID {
	id := uuid.New()
	f.services.SeedService(pricingEntity.Service{
		ID:           id,
		Name:         "análisis bioquímico",
		BasePrice:    decimal.NewFromInt(unitPrice),
		PricingModel: pricingEntity.PricingFlat,
		Active:       true,
		CreatedAt:    time.Now(),
	})
	f.services.SeedRange(pricingEntity.PriceRange{
		ID:            uuid.New(),
		ServiceID:     id,
		SaleType:      saletype.Common,
		MinQty:        1,
		UnitPrice:     decimal.NewFromInt(unitPrice),
		EffectiveFrom: time.Now().Add(-24 * time.Hour),
		Active:        true,
	})
	return id
}

func (f *fixture) seedPercentagePolicy(percent int64) {
	f.policies.Seed(commissionEntity.Policy{
		ID:             uuid.New(),
		Scope:          commissionEntity.ScopeAll,
		Type:           commissionEntity.TypePercentage,
		Value:          decimal.NewFromInt(percent),
		SaleTypeFilter: commissionEntity.SaleTypeFilterAll,
		AppliesTo:      commissionEntity.DaysAll,
		ValidFrom:      time.Now().Add(-30 * 24 * time.Hour),
		Active:         true,
		CreatedAt:      time.Now(),
	})
}

func percentDiscount(value int64) *request.DiscountRequest {
	return &request.DiscountRequest{Type: "percentage", Value: decimal.NewFromInt(value)}
}

func fixedDiscount(value int64) *request.DiscountRequest {
	return &request.DiscountRequest{Type: "fixed", Value: decimal.NewFromInt(value)}
}

func TestCreateCommonSaleTotalsInvariant(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	clientID := f.seedClient(catalogEntity.ClientTypePerson)
	serviceID := f.seedFlatService(50)
	f.seedPercentagePolicy(10)
	attendant := uuid.New()

	sale, err := f.create.Execute(ctx, attendant, &request.CreateSaleRequest{
		SaleType:        string(saletype.Common),
		ClientID:        &clientID,
		PaymentMethod:   "cash",
		GeneralDiscount: fixedDiscount(20),
		Items: []request.SaleItemRequest{
			{ServiceID: &serviceID, Quantity: 10, Discount: percentDiscount(10)},
		},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// 10 × 50 = 500, descuento item 10% = 50, descuento general fijo 20
	if !sale.Subtotal.Equal(decimal.NewFromInt(500)) {
		t.Fatalf("subtotal = %s, want 500", sale.Subtotal)
	}
	if !sale.Total.Equal(decimal.NewFromInt(430)) {
		t.Fatalf("total = %s, want 430", sale.Total)
	}
	if !sale.Subtotal.Sub(sale.TotalDiscount).Equal(sale.Total) {
		t.Fatalf("invariante roto: %s - %s != %s", sale.Subtotal, sale.TotalDiscount, sale.Total)
	}
	if sale.Status != string(entity.SaleStatusOpen) {
		t.Fatalf("status = %s, want open", sale.Status)
	}

	// comisión 10% sobre el neto
	commission, err := f.commissions.FindBySaleID(ctx, sale.SaleID)
	if err != nil {
		t.Fatalf("commission: %v", err)
	}
	if !commission.Amount.Equal(decimal.NewFromInt(43)) {
		t.Fatalf("commission = %s, want 43", commission.Amount)
	}
	if commission.Status != commissionEntity.CommissionPending {
		t.Fatalf("commission status = %s, want pending", commission.Status)
	}
}

func TestCreateSaleConfirmedAtCreation(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	clientID := f.seedClient(catalogEntity.ClientTypePerson)
	serviceID := f.seedFlatService(100)

	sale, err := f.create.Execute(ctx, uuid.New(), &request.CreateSaleRequest{
		SaleType:      string(saletype.Common),
		ClientID:      &clientID,
		PaymentMethod: "card",
		Status:        "confirmed",
		Items:         []request.SaleItemRequest{{ServiceID: &serviceID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if sale.Status != string(entity.SaleStatusConfirmed) {
		t.Fatalf("status = %s, want confirmed", sale.Status)
	}
	if sale.ConfirmedAt == nil {
		t.Fatal("confirmed_at should be set")
	}
}

func TestCreateCommonSaleRejectsCarrier(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	carrierID := f.seedClient(catalogEntity.ClientTypePackage)
	serviceID := f.seedFlatService(50)

	_, err := f.create.Execute(ctx, uuid.New(), &request.CreateSaleRequest{
		SaleType:      string(saletype.Common),
		ClientID:      &carrierID,
		PaymentMethod: "cash",
		Items:         []request.SaleItemRequest{{ServiceID: &serviceID, Quantity: 1}},
	})
	if err != entity.ErrClientIsCarrier {
		t.Fatalf("expected ErrClientIsCarrier, got %v", err)
	}
}

func TestPackageIssueCreatesPackageWithoutCommission(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	carrierID := f.seedClient(catalogEntity.ClientTypePackage)
	serviceID := f.seedFlatService(40)
	f.seedPercentagePolicy(10)

	sale, err := f.create.Execute(ctx, uuid.New(), &request.CreateSaleRequest{
		SaleType:      string(saletype.PackageIssue),
		CarrierID:     &carrierID,
		PaymentMethod: "cash",
		Items:         []request.SaleItemRequest{{ServiceID: &serviceID, Quantity: 10}},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	pkgs, err := f.ledger.ListByClient(ctx, carrierID)
	if err != nil || len(pkgs) != 1 {
		t.Fatalf("packages = %d (%v), want 1", len(pkgs), err)
	}
	pkg := pkgs[0]
	if pkg.AvailableQuantity != 10 || pkg.ConsumedQuantity != 0 {
		t.Fatalf("package balance: available=%d consumed=%d", pkg.AvailableQuantity, pkg.ConsumedQuantity)
	}
	if !pkg.UnitPrice.Equal(decimal.NewFromInt(40)) {
		t.Fatalf("unit price = %s, want 40", pkg.UnitPrice)
	}
	if pkg.OriginSaleID != sale.SaleID {
		t.Fatal("origin sale mismatch")
	}

	// la emisión nunca devenga comisión
	if _, err := f.commissions.FindBySaleID(ctx, sale.SaleID); err != commissionEntity.ErrCommissionNotFound {
		t.Fatalf("expected no commission, got %v", err)
	}
	if !sale.CommissionAmount.IsZero() {
		t.Fatalf("commission amount = %s, want 0", sale.CommissionAmount)
	}
}

func TestPackageConsumptionDecrementsBalance(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	carrierID := f.seedClient(catalogEntity.ClientTypePackage)
	clientID := f.seedClient(catalogEntity.ClientTypePerson)
	serviceID := f.seedFlatService(50)

	pkg, err := f.ledger.Issue(ctx, carrierID, serviceID, uuid.New(), 5, decimal.NewFromInt(200), nil)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	sale, err := f.create.Execute(ctx, uuid.New(), &request.CreateSaleRequest{
		SaleType:      string(saletype.PackageConsumption),
		ClientID:      &clientID,
		CarrierID:     &carrierID,
		PackageID:     &pkg.ID,
		PaymentMethod: "cash",
		Items:         []request.SaleItemRequest{{ServiceID: &serviceID, Quantity: 3}},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if sale.PackageID == nil || *sale.PackageID != pkg.ID {
		t.Fatal("sale should reference the consumed package")
	}

	after, _ := f.ledger.Get(ctx, pkg.ID)
	if after.AvailableQuantity != 2 || after.ConsumedQuantity != 3 {
		t.Fatalf("after consume: available=%d consumed=%d", after.AvailableQuantity, after.ConsumedQuantity)
	}
}

func TestPackageConsumptionInsufficientBalancePersistsNothing(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	carrierID := f.seedClient(catalogEntity.ClientTypePackage)
	clientID := f.seedClient(catalogEntity.ClientTypePerson)
	serviceID := f.seedFlatService(50)

	pkg, _ := f.ledger.Issue(ctx, carrierID, serviceID, uuid.New(), 5, decimal.NewFromInt(200), nil)

	_, err := f.create.Execute(ctx, uuid.New(), &request.CreateSaleRequest{
		SaleType:      string(saletype.PackageConsumption),
		ClientID:      &clientID,
		CarrierID:     &carrierID,
		PackageID:     &pkg.ID,
		PaymentMethod: "cash",
		Items:         []request.SaleItemRequest{{ServiceID: &serviceID, Quantity: 7}},
	})
	if err != packagesEntity.ErrInsufficientBalance {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}

	// ni la venta ni el consumo quedaron registrados
	result, _ := f.list.Execute(ctx, ListSalesQuery{})
	if result.TotalCount != 0 {
		t.Fatalf("sales persisted = %d, want 0", result.TotalCount)
	}
	after, _ := f.ledger.Get(ctx, pkg.ID)
	if after.AvailableQuantity != 5 {
		t.Fatalf("package mutated: available=%d, want 5", after.AvailableQuantity)
	}
}

func TestCancelSaleIsIdempotentAndRevertsConsumption(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	carrierID := f.seedClient(catalogEntity.ClientTypePackage)
	clientID := f.seedClient(catalogEntity.ClientTypePerson)
	serviceID := f.seedFlatService(50)
	f.seedPercentagePolicy(10)

	pkg, _ := f.ledger.Issue(ctx, carrierID, serviceID, uuid.New(), 5, decimal.NewFromInt(200), nil)

	sale, err := f.create.Execute(ctx, uuid.New(), &request.CreateSaleRequest{
		SaleType:      string(saletype.PackageConsumption),
		ClientID:      &clientID,
		CarrierID:     &carrierID,
		PackageID:     &pkg.ID,
		PaymentMethod: "cash",
		Status:        "confirmed",
		Items:         []request.SaleItemRequest{{ServiceID: &serviceID, Quantity: 3}},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := f.cancel.Execute(ctx, sale.SaleID); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	after, _ := f.ledger.Get(ctx, pkg.ID)
	if after.AvailableQuantity != 5 || after.ConsumedQuantity != 0 {
		t.Fatalf("consumption not reverted: available=%d consumed=%d", after.AvailableQuantity, after.ConsumedQuantity)
	}

	commission, err := f.commissions.FindBySaleID(ctx, sale.SaleID)
	if err != nil {
		t.Fatalf("commission: %v", err)
	}
	if commission.Status != commissionEntity.CommissionCancelled {
		t.Fatalf("commission status = %s, want cancelled", commission.Status)
	}

	// repetir la cancelación es un no-op: no duplica la reversa
	if err := f.cancel.Execute(ctx, sale.SaleID); err != nil {
		t.Fatalf("second cancel: %v", err)
	}
	again, _ := f.ledger.Get(ctx, pkg.ID)
	if again.AvailableQuantity != 5 {
		t.Fatalf("double revert: available=%d, want 5", again.AvailableQuantity)
	}
}

func TestRefundAccumulatesAndNeverExceedsTotal(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	clientID := f.seedClient(catalogEntity.ClientTypePerson)
	serviceID := f.seedFlatService(100)
	attendant := uuid.New()

	sale, err := f.create.Execute(ctx, attendant, &request.CreateSaleRequest{
		SaleType:      string(saletype.Common),
		ClientID:      &clientID,
		PaymentMethod: "cash",
		Status:        "confirmed",
		Items:         []request.SaleItemRequest{{ServiceID: &serviceID, Quantity: 2}},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := f.refund.Execute(ctx, sale.SaleID, attendant, &request.RefundSaleRequest{
		Amount: decimal.NewFromInt(80),
		Reason: "resultado demorado",
	}); err != nil {
		t.Fatalf("first refund: %v", err)
	}

	// 80 + 150 > 200: se rechaza sin registrar nada
	if _, err := f.refund.Execute(ctx, sale.SaleID, attendant, &request.RefundSaleRequest{
		Amount: decimal.NewFromInt(150),
		Reason: "reclamo",
	}); err != entity.ErrRefundExceedsTotal {
		t.Fatalf("expected ErrRefundExceedsTotal, got %v", err)
	}

	stored, _ := f.sales.FindByID(ctx, sale.SaleID)
	if !stored.RefundTotal.Equal(decimal.NewFromInt(80)) {
		t.Fatalf("refund_total = %s, want 80", stored.RefundTotal)
	}
	refunds, _ := f.refunds.ListBySale(ctx, sale.SaleID)
	if len(refunds) != 1 {
		t.Fatalf("refunds = %d, want 1", len(refunds))
	}
}

func TestRefundRequiresConfirmedSale(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	clientID := f.seedClient(catalogEntity.ClientTypePerson)
	serviceID := f.seedFlatService(100)
	attendant := uuid.New()

	sale, _ := f.create.Execute(ctx, attendant, &request.CreateSaleRequest{
		SaleType:      string(saletype.Common),
		ClientID:      &clientID,
		PaymentMethod: "cash",
		Items:         []request.SaleItemRequest{{ServiceID: &serviceID, Quantity: 1}},
	})

	_, err := f.refund.Execute(ctx, sale.SaleID, attendant, &request.RefundSaleRequest{
		Amount: decimal.NewFromInt(10),
		Reason: "error de carga",
	})
	if err != entity.ErrSaleNotConfirmed {
		t.Fatalf("expected ErrSaleNotConfirmed, got %v", err)
	}
}

func TestUpdateSaleOnlyOwnerOrAdmin(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	clientID := f.seedClient(catalogEntity.ClientTypePerson)
	serviceID := f.seedFlatService(50)
	owner := uuid.New()

	sale, err := f.create.Execute(ctx, owner, &request.CreateSaleRequest{
		SaleType:      string(saletype.Common),
		ClientID:      &clientID,
		PaymentMethod: "cash",
		Items:         []request.SaleItemRequest{{ServiceID: &serviceID, Quantity: 2}},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	newItems := &request.UpdateSaleRequest{
		Items: []request.SaleItemRequest{{ServiceID: &serviceID, Quantity: 4}},
	}

	if _, err := f.update.Execute(ctx, sale.SaleID, uuid.New(), false, newItems); err != entity.ErrForbidden {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	updated, err := f.update.Execute(ctx, sale.SaleID, uuid.New(), true, newItems)
	if err != nil {
		t.Fatalf("admin update: %v", err)
	}
	if !updated.Total.Equal(decimal.NewFromInt(200)) {
		t.Fatalf("total = %s, want 200", updated.Total)
	}
}

func TestUpdateConfirmedSaleRejected(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	clientID := f.seedClient(catalogEntity.ClientTypePerson)
	serviceID := f.seedFlatService(50)
	owner := uuid.New()

	sale, _ := f.create.Execute(ctx, owner, &request.CreateSaleRequest{
		SaleType:      string(saletype.Common),
		ClientID:      &clientID,
		PaymentMethod: "cash",
		Status:        "confirmed",
		Items:         []request.SaleItemRequest{{ServiceID: &serviceID, Quantity: 2}},
	})

	_, err := f.update.Execute(ctx, sale.SaleID, owner, false, &request.UpdateSaleRequest{
		Items: []request.SaleItemRequest{{ServiceID: &serviceID, Quantity: 1}},
	})
	if err != entity.ErrSaleNotOpen {
		t.Fatalf("expected ErrSaleNotOpen, got %v", err)
	}
}

func TestConfirmSaleTransition(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	clientID := f.seedClient(catalogEntity.ClientTypePerson)
	serviceID := f.seedFlatService(50)

	sale, _ := f.create.Execute(ctx, uuid.New(), &request.CreateSaleRequest{
		SaleType:      string(saletype.Common),
		ClientID:      &clientID,
		PaymentMethod: "cash",
		Items:         []request.SaleItemRequest{{ServiceID: &serviceID, Quantity: 1}},
	})

	confirmed, err := f.confirm.Execute(ctx, sale.SaleID)
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if confirmed.Status != string(entity.SaleStatusConfirmed) {
		t.Fatalf("status = %s, want confirmed", confirmed.Status)
	}

	// confirmar de nuevo choca con la transición condicional
	if _, err := f.confirm.Execute(ctx, sale.SaleID); err != entity.ErrSaleNotOpen {
		t.Fatalf("expected ErrSaleNotOpen, got %v", err)
	}
}

func TestListSalesFiltersByAttendant(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	clientID := f.seedClient(catalogEntity.ClientTypePerson)
	serviceID := f.seedFlatService(50)
	attendantA := uuid.New()
	attendantB := uuid.New()

	for i := 0; i < 3; i++ {
		if _, err := f.create.Execute(ctx, attendantA, &request.CreateSaleRequest{
			SaleType:      string(saletype.Common),
			ClientID:      &clientID,
			PaymentMethod: "cash",
			Items:         []request.SaleItemRequest{{ServiceID: &serviceID, Quantity: 1}},
		}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	if _, err := f.create.Execute(ctx, attendantB, &request.CreateSaleRequest{
		SaleType:      string(saletype.Common),
		ClientID:      &clientID,
		PaymentMethod: "card",
		Items:         []request.SaleItemRequest{{ServiceID: &serviceID, Quantity: 1}},
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	result, err := f.list.Execute(ctx, ListSalesQuery{AttendantID: &attendantA})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if result.TotalCount != 3 || len(result.Items) != 3 {
		t.Fatalf("filtered = %d/%d, want 3/3", len(result.Items), result.TotalCount)
	}

	all, _ := f.list.Execute(ctx, ListSalesQuery{PageSize: 2})
	if all.TotalCount != 4 || len(all.Items) != 2 {
		t.Fatalf("paginated = %d of %d, want 2 of 4", len(all.Items), all.TotalCount)
	}
}

func TestCreateSaleRejectsMalformedDates(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	clientID := f.seedClient(catalogEntity.ClientTypePerson)
	carrierID := f.seedClient(catalogEntity.ClientTypePackage)
	serviceID := f.seedFlatService(50)

	_, err := f.create.Execute(ctx, uuid.New(), &request.CreateSaleRequest{
		SaleType:      string(saletype.Common),
		ClientID:      &clientID,
		SaleDate:      "15/01/2026",
		PaymentMethod: "cash",
		Items:         []request.SaleItemRequest{{ServiceID: &serviceID, Quantity: 1}},
	})
	if err != entity.ErrInvalidSaleDate {
		t.Fatalf("expected ErrInvalidSaleDate, got %v", err)
	}

	badExpiry := "mañana"
	_, err = f.create.Execute(ctx, uuid.New(), &request.CreateSaleRequest{
		SaleType:         string(saletype.PackageIssue),
		CarrierID:        &carrierID,
		PaymentMethod:    "cash",
		PackageExpiresAt: &badExpiry,
		Items:            []request.SaleItemRequest{{ServiceID: &serviceID, Quantity: 5}},
	})
	if err != entity.ErrInvalidExpiryDate {
		t.Fatalf("expected ErrInvalidExpiryDate, got %v", err)
	}

	// la venta de la emisión fallida no quedó registrada
	result, _ := f.list.Execute(ctx, ListSalesQuery{})
	if result.TotalCount != 0 {
		t.Fatalf("sales persisted = %d, want 0", result.TotalCount)
	}
}

func TestPackageConsumptionValidatesEndClient(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	carrierID := f.seedClient(catalogEntity.ClientTypePackage)
	serviceID := f.seedFlatService(50)

	inactiveID := uuid.New()
	f.clients.Seed(catalogEntity.Client{
		ID:        inactiveID,
		Name:      "cliente dado de baja",
		Type:      catalogEntity.ClientTypePerson,
		Active:    false,
		CreatedAt: time.Now(),
	})

	pkg, _ := f.ledger.Issue(ctx, carrierID, serviceID, uuid.New(), 5, decimal.NewFromInt(200), nil)

	req := &request.CreateSaleRequest{
		SaleType:      string(saletype.PackageConsumption),
		ClientID:      &inactiveID,
		CarrierID:     &carrierID,
		PackageID:     &pkg.ID,
		PaymentMethod: "cash",
		Items:         []request.SaleItemRequest{{ServiceID: &serviceID, Quantity: 1}},
	}
	if _, err := f.create.Execute(ctx, uuid.New(), req); err != catalogEntity.ErrClientInactive {
		t.Fatalf("expected ErrClientInactive, got %v", err)
	}

	// un portador tampoco puede ser el cliente final atendido
	otherCarrier := f.seedClient(catalogEntity.ClientTypePackage)
	req.ClientID = &otherCarrier
	if _, err := f.create.Execute(ctx, uuid.New(), req); err != entity.ErrClientIsCarrier {
		t.Fatalf("expected ErrClientIsCarrier, got %v", err)
	}

	after, _ := f.ledger.Get(ctx, pkg.ID)
	if after.AvailableQuantity != 5 {
		t.Fatalf("package mutated: available=%d, want 5", after.AvailableQuantity)
	}
}

func TestGeneralPercentageAppliesOverDiscountedItems(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	clientID := f.seedClient(catalogEntity.ClientTypePerson)
	serviceID := f.seedFlatService(100)

	sale, err := f.create.Execute(ctx, uuid.New(), &request.CreateSaleRequest{
		SaleType:        string(saletype.Common),
		ClientID:        &clientID,
		PaymentMethod:   "cash",
		GeneralDiscount: percentDiscount(10),
		Items: []request.SaleItemRequest{
			{ServiceID: &serviceID, Quantity: 1, Discount: fixedDiscount(10)},
		},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// 100 − 10 de item = 90; el 10% general aplica sobre el neto de items:
	// 90 − 9 = 81
	if !sale.Subtotal.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("subtotal = %s, want 100", sale.Subtotal)
	}
	if !sale.Total.Equal(decimal.NewFromInt(81)) {
		t.Fatalf("total = %s, want 81", sale.Total)
	}
	if !sale.TotalDiscount.Equal(decimal.NewFromInt(19)) {
		t.Fatalf("total_discount = %s, want 19", sale.TotalDiscount)
	}
}

// interceptTxManager corre un hook antes de delegar la transacción,
// simulando una escritura que entra entre el snapshot y el commit
type interceptTxManager struct {
	inner  sharedPort.TxManager
	before func()
}

func (m *interceptTxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.before != nil {
		hook := m.before
		m.before = nil
		hook()
	}
	return m.inner.WithTransaction(ctx, fn)
}

func TestCancelRevertsQuantityEditedAfterSnapshot(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	carrierID := f.seedClient(catalogEntity.ClientTypePackage)
	clientID := f.seedClient(catalogEntity.ClientTypePerson)
	serviceID := f.seedFlatService(50)
	owner := uuid.New()

	pkg, _ := f.ledger.Issue(ctx, carrierID, serviceID, uuid.New(), 10, decimal.NewFromInt(400), nil)

	sale, err := f.create.Execute(ctx, owner, &request.CreateSaleRequest{
		SaleType:      string(saletype.PackageConsumption),
		ClientID:      &clientID,
		CarrierID:     &carrierID,
		PackageID:     &pkg.ID,
		PaymentMethod: "cash",
		Items:         []request.SaleItemRequest{{ServiceID: &serviceID, Quantity: 3}},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// una edición sube el consumo a 5 después de que la cancelación ya
	// leyó la venta pero antes de que abra su transacción
	tx := &interceptTxManager{inner: sharedPersistence.NewMemoryTxManager()}
	tx.before = func() {
		if _, err := f.update.Execute(ctx, sale.SaleID, owner, false, &request.UpdateSaleRequest{
			Items: []request.SaleItemRequest{{ServiceID: &serviceID, Quantity: 5}},
		}); err != nil {
			t.Fatalf("interleaved update: %v", err)
		}
	}
	cancel := NewCancelSaleUseCase(f.sales, f.commissions, f.ledger, tx, nil)

	if err := cancel.Execute(ctx, sale.SaleID); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	// la reversa acredita las 5 unidades vigentes, no las 3 del snapshot
	after, _ := f.ledger.Get(ctx, pkg.ID)
	if after.AvailableQuantity != 10 || after.ConsumedQuantity != 0 {
		t.Fatalf("stale revert: available=%d consumed=%d, want 10/0", after.AvailableQuantity, after.ConsumedQuantity)
	}
}
