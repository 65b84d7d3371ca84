package application

import (
	"context"
	"sort"
	"time"

	"sales/src/commission/domain/entity"
	"sales/src/commission/domain/port"
	"sales/src/shared/domain/saletype"

	"github.com/google/uuid"
)

// Resolver resuelve la única política de comisión aplicable a una venta, o ninguna
type Resolver struct {
	policies port.PolicyRepository
}

// NewResolver crea una nueva instancia del resolver
func NewResolver(policies port.PolicyRepository) *Resolver {
	return &Resolver{policies: policies}
}

// Resolve devuelve la política aplicable o nil si ninguna matchea.
// Candidatas: políticas activas cuya ventana contiene la fecha, cuyo tipo de
// día matchea (o es "all") y cuyo filtro de tipo de venta matchea. Orden de
// especificidad: user > product > all; empate se resuelve por la creada más
// recientemente y, en última instancia, por ID para que el resultado sea
// determinístico.
func (r *Resolver) Resolve(ctx context.Context, attendantID uuid.UUID, productID *uuid.UUID, saleDate time.Time, st saletype.SaleType) (*entity.Policy, error) {
	if !st.EarnsCommission() {
		return nil, nil
	}

	policies, err := r.policies.FindActive(ctx)
	if err != nil {
		return nil, err
	}

	var candidates []entity.Policy
	for _, p := range policies {
		if !p.InWindow(saleDate) || !p.MatchesDay(saleDate) || !p.MatchesSaleType(st) {
			continue
		}
		if !p.MatchesAttendant(attendantID) || !p.MatchesProduct(productID) {
			continue
		}
		candidates = append(candidates, p)
	}

	if len(candidates) == 0 {
		return nil, nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Specificity() != candidates[j].Specificity() {
			return candidates[i].Specificity() > candidates[j].Specificity()
		}
		if !candidates[i].CreatedAt.Equal(candidates[j].CreatedAt) {
			return candidates[i].CreatedAt.After(candidates[j].CreatedAt)
		}
		return candidates[i].ID.String() < candidates[j].ID.String()
	})

	best := candidates[0]
	return &best, nil
}
