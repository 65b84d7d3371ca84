package application

import (
	"context"
	"time"

	"sales/src/packages/domain/entity"
	"sales/src/packages/domain/port"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Ledger operaciones del libro de paquetes: emisión, consumo atómico y
// reversas. Todas las operaciones asumen que el caller ya abrió la
// transacción de la venta; acá no se abre ninguna.
type Ledger struct {
	packages port.PackageRepository
}

// NewLedger crea una nueva instancia del ledger
func NewLedger(packages port.PackageRepository) *Ledger {
	return &Ledger{packages: packages}
}

// Issue emite un paquete nuevo a partir de una venta de emisión:
// todo el saldo disponible, precio unitario = totalPaid / quantity
func (l *Ledger) Issue(ctx context.Context, carrierID, serviceID, saleID uuid.UUID, quantity int, totalPaid decimal.Decimal, expiresAt *time.Time) (*entity.Package, error) {
	pkg, err := entity.NewPackage(carrierID, serviceID, saleID, quantity, totalPaid, expiresAt)
	if err != nil {
		return nil, err
	}

	if err := l.packages.Create(ctx, pkg); err != nil {
		return nil, err
	}

	return pkg, nil
}

// Consume descuenta créditos de un paquete para una venta de consumo.
// Verifica propiedad, vigencia y saldo; el decremento es una única
// operación condicional, de modo que dos consumos concurrentes nunca
// pueden exceder juntos el saldo disponible.
func (l *Ledger) Consume(ctx context.Context, packageID, carrierID uuid.UUID, qty int) (*entity.Package, error) {
	if qty <= 0 {
		return nil, entity.ErrInvalidConsumption
	}

	pkg, err := l.packages.FindByID(ctx, packageID)
	if err != nil {
		return nil, err
	}
	if pkg.ClientID != carrierID {
		return nil, entity.ErrPackageOwnershipMismatch
	}
	if !pkg.Active {
		return nil, entity.ErrPackageInactive
	}
	if pkg.Expired(time.Now()) {
		return nil, entity.ErrPackageExpired
	}

	if err := l.packages.Consume(ctx, packageID, qty); err != nil {
		return nil, err
	}

	pkg.ConsumedQuantity += qty
	pkg.AvailableQuantity -= qty
	return pkg, nil
}

// RevertConsumption acredita de vuelta al paquete los créditos de una
// venta de consumo cancelada
func (l *Ledger) RevertConsumption(ctx context.Context, packageID uuid.UUID, qty int) error {
	if qty <= 0 {
		return entity.ErrInvalidConsumption
	}
	return l.packages.RevertConsumption(ctx, packageID, qty)
}

// CancelIssuance da de baja el paquete originado por una venta de emisión
// cancelada. Si ya hubo consumos la cancelación se bloquea: el saldo
// entregado no puede retirarse retroactivamente.
func (l *Ledger) CancelIssuance(ctx context.Context, originSaleID uuid.UUID) error {
	pkg, err := l.packages.FindByOriginSale(ctx, originSaleID)
	if err != nil {
		return err
	}
	if pkg.ConsumedQuantity > 0 {
		return entity.ErrPackageAlreadyConsumed
	}
	return l.packages.Deactivate(ctx, pkg.ID)
}

// Get devuelve un paquete por ID (lectura para statements)
func (l *Ledger) Get(ctx context.Context, id uuid.UUID) (*entity.Package, error) {
	return l.packages.FindByID(ctx, id)
}

// ListByClient devuelve los paquetes de un portador (lectura para statements)
func (l *Ledger) ListByClient(ctx context.Context, clientID uuid.UUID) ([]*entity.Package, error) {
	return l.packages.ListByClient(ctx, clientID)
}
