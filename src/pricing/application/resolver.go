package application

import (
	"context"
	"sort"

	"sales/src/pricing/domain/entity"
	"sales/src/pricing/domain/port"
	"sales/src/shared/domain/saletype"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Quote resultado de resolver el precio de un servicio para una cantidad.
// El subtotal calculado acá es la cifra financiera autoritativa: cualquier
// subtotal que venga del cliente es solo una pista de display.
type Quote struct {
	Service   *entity.Service
	UnitPrice decimal.Decimal
	Subtotal  decimal.Decimal
}

// Resolver resuelve precio unitario y subtotal desde los rangos configurados
type Resolver struct {
	services port.ServiceRepository
}

// NewResolver crea una nueva instancia del resolver
func NewResolver(services port.ServiceRepository) *Resolver {
	return &Resolver{services: services}
}

// Resolve determina el precio de `qty` unidades de un servicio para un tipo de venta.
// Reglas:
//  1. Los rangos se buscan para el tipo de venta pedido; si no hay ninguno,
//     se usa el tipo por defecto "common".
//  2. Se elige el rango que contiene la cantidad; si ningún tope la cubre se
//     extrapola con el rango de mayor min_qty: el precio queda definido para
//     toda cantidad positiva, una venta nunca se bloquea por falta de tope.
//  3. Servicios con modelo progresivo facturan por tramos marginales.
//  4. Un servicio sin rangos para ningún tipo de venta falla con
//     ErrNoPricingConfigured.
func (r *Resolver) Resolve(ctx context.Context, serviceID uuid.UUID, st saletype.SaleType, qty int) (*Quote, error) {
	if qty <= 0 {
		return nil, entity.ErrInvalidQuantity
	}

	svc, err := r.services.FindServiceByID(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	if !svc.Active {
		return nil, entity.ErrServiceInactive
	}

	ranges, err := r.rangesFor(ctx, serviceID, st)
	if err != nil {
		return nil, err
	}

	if svc.IsProgressive() {
		unitPrice, subtotal := progressiveTotal(ranges, qty)
		return &Quote{Service: svc, UnitPrice: unitPrice, Subtotal: subtotal}, nil
	}

	selected := selectRange(ranges, qty)
	subtotal := selected.UnitPrice.Mul(decimal.NewFromInt(int64(qty))).Round(2)
	return &Quote{Service: svc, UnitPrice: selected.UnitPrice, Subtotal: subtotal}, nil
}

// rangesFor busca los rangos del tipo pedido con fallback al tipo "common"
func (r *Resolver) rangesFor(ctx context.Context, serviceID uuid.UUID, st saletype.SaleType) ([]entity.PriceRange, error) {
	// los rangos solo se configuran para common y package_issue;
	// el consumo de paquete se valoriza a tarifa common
	lookup := st
	if lookup != saletype.PackageIssue {
		lookup = saletype.Common
	}

	ranges, err := r.services.FindActiveRanges(ctx, serviceID, lookup)
	if err != nil {
		return nil, err
	}

	if len(ranges) == 0 && lookup != saletype.Common {
		ranges, err = r.services.FindActiveRanges(ctx, serviceID, saletype.Common)
		if err != nil {
			return nil, err
		}
	}

	if len(ranges) == 0 {
		return nil, entity.ErrNoPricingConfigured
	}

	sort.SliceStable(ranges, func(i, j int) bool { return ranges[i].MinQty < ranges[j].MinQty })
	return ranges, nil
}

// selectRange elige el rango que contiene la cantidad, o extrapola con el
// rango de mayor min_qty cuando ningún tope la cubre
func selectRange(ranges []entity.PriceRange, qty int) entity.PriceRange {
	for _, rg := range ranges {
		if rg.Contains(qty) {
			return rg
		}
	}
	// sin tope que cubra qty: extrapolar desde el rango más alto
	return ranges[len(ranges)-1]
}

// progressiveTotal calcula el total marginal de dos tramos: las primeras N
// unidades al precio del tramo 1 y cada unidad por encima de N al precio del
// tramo 2. N es el tope del primer rango; sin tope, todo se factura al tramo 1.
func progressiveTotal(ranges []entity.PriceRange, qty int) (decimal.Decimal, decimal.Decimal) {
	bracket1 := ranges[0]
	qtyDec := decimal.NewFromInt(int64(qty))

	if bracket1.MaxQty == nil || len(ranges) == 1 {
		subtotal := bracket1.UnitPrice.Mul(qtyDec).Round(2)
		return bracket1.UnitPrice, subtotal
	}

	n := *bracket1.MaxQty
	bracket2 := ranges[1]

	inFirst := qty
	if inFirst > n {
		inFirst = n
	}
	beyond := qty - n
	if beyond < 0 {
		beyond = 0
	}

	subtotal := bracket1.UnitPrice.Mul(decimal.NewFromInt(int64(inFirst))).
		Add(bracket2.UnitPrice.Mul(decimal.NewFromInt(int64(beyond)))).
		Round(2)

	// precio unitario efectivo para display
	unitPrice := subtotal.Div(qtyDec).Round(2)
	return unitPrice, subtotal
}
