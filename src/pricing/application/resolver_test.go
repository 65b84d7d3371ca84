package application

import (
	"context"
	"testing"
	"time"

	"sales/src/pricing/domain/entity"
	"sales/src/pricing/infrastructure/persistence"
	"sales/src/shared/domain/saletype"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func intPtr(v int) *int { return &v }

func seedFlatService(repo *persistence.MemoryServiceRepository) uuid.UUID {
	id := uuid.New()
	repo.SeedService(entity.Service{
		ID:           id,
		Name:         "Consulta",
		BasePrice:    decimal.NewFromInt(100),
		PricingModel: entity.PricingFlat,
		Active:       true,
	})
	repo.SeedRange(entity.PriceRange{
		ID:            uuid.New(),
		ServiceID:     id,
		SaleType:      saletype.Common,
		MinQty:        1,
		MaxQty:        intPtr(10),
		UnitPrice:     decimal.NewFromInt(100),
		EffectiveFrom: time.Now().Add(-time.Hour),
		Active:        true,
	})
	repo.SeedRange(entity.PriceRange{
		ID:            uuid.New(),
		ServiceID:     id,
		SaleType:      saletype.Common,
		MinQty:        11,
		MaxQty:        intPtr(20),
		UnitPrice:     decimal.NewFromInt(90),
		EffectiveFrom: time.Now().Add(-time.Hour),
		Active:        true,
	})
	return id
}

func TestResolveFlatRanges(t *testing.T) {
	ctx := context.Background()
	repo := persistence.NewMemoryServiceRepository()
	svcID := seedFlatService(repo)
	resolver := NewResolver(repo)

	cases := []struct {
		name     string
		qty      int
		subtotal string
	}{
		{"primer rango", 5, "500"},
		{"limite del primer rango", 10, "1000"},
		{"segundo rango", 15, "1350"},
		{"extrapola sin tope", 50, "4500"}, // ningún max_qty cubre 50: usa el rango más alto
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q, err := resolver.Resolve(ctx, svcID, saletype.Common, tc.qty)
			if err != nil {
				t.Fatalf("resolve qty=%d: %v", tc.qty, err)
			}
			want := decimal.RequireFromString(tc.subtotal)
			if !q.Subtotal.Equal(want) {
				t.Fatalf("qty=%d: subtotal = %s, want %s", tc.qty, q.Subtotal, want)
			}
		})
	}
}

func TestResolveProgressiveBrackets(t *testing.T) {
	ctx := context.Background()
	repo := persistence.NewMemoryServiceRepository()
	resolver := NewResolver(repo)

	// tramo 1: 1..10 @ 40.00, tramo 2: 11+ @ 15.00
	svcID := uuid.New()
	repo.SeedService(entity.Service{
		ID:           svcID,
		Name:         "Lavado por volumen",
		BasePrice:    decimal.NewFromInt(40),
		PricingModel: entity.PricingProgressive,
		Active:       true,
	})
	repo.SeedRange(entity.PriceRange{
		ID: uuid.New(), ServiceID: svcID, SaleType: saletype.Common,
		MinQty: 1, MaxQty: intPtr(10), UnitPrice: decimal.NewFromInt(40), Active: true,
	})
	repo.SeedRange(entity.PriceRange{
		ID: uuid.New(), ServiceID: svcID, SaleType: saletype.Common,
		MinQty: 11, MaxQty: nil, UnitPrice: decimal.NewFromInt(15), Active: true,
	})

	cases := []struct {
		qty      int
		subtotal string
	}{
		{10, "400"},
		{15, "475"}, // 10×40 + 5×15
		{1, "40"},
	}

	for _, tc := range cases {
		q, err := resolver.Resolve(ctx, svcID, saletype.Common, tc.qty)
		if err != nil {
			t.Fatalf("resolve qty=%d: %v", tc.qty, err)
		}
		want := decimal.RequireFromString(tc.subtotal)
		if !q.Subtotal.Equal(want) {
			t.Fatalf("qty=%d: subtotal = %s, want %s", tc.qty, q.Subtotal, want)
		}
	}
}

func TestResolveFallsBackToCommonRanges(t *testing.T) {
	ctx := context.Background()
	repo := persistence.NewMemoryServiceRepository()
	svcID := seedFlatService(repo)
	resolver := NewResolver(repo)

	// no hay rangos package_issue configurados: cae a common
	q, err := resolver.Resolve(ctx, svcID, saletype.PackageIssue, 5)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !q.Subtotal.Equal(decimal.NewFromInt(500)) {
		t.Fatalf("subtotal = %s, want 500", q.Subtotal)
	}
}

func TestResolveNoPricingConfigured(t *testing.T) {
	ctx := context.Background()
	repo := persistence.NewMemoryServiceRepository()
	resolver := NewResolver(repo)

	svcID := uuid.New()
	repo.SeedService(entity.Service{
		ID: svcID, Name: "Sin rangos", PricingModel: entity.PricingFlat, Active: true,
	})

	_, err := resolver.Resolve(ctx, svcID, saletype.Common, 3)
	if err != entity.ErrNoPricingConfigured {
		t.Fatalf("expected ErrNoPricingConfigured, got %v", err)
	}
}

func TestResolveRejectsNonPositiveQuantity(t *testing.T) {
	ctx := context.Background()
	repo := persistence.NewMemoryServiceRepository()
	svcID := seedFlatService(repo)
	resolver := NewResolver(repo)

	for _, qty := range []int{0, -3} {
		if _, err := resolver.Resolve(ctx, svcID, saletype.Common, qty); err != entity.ErrInvalidQuantity {
			t.Fatalf("qty=%d: expected ErrInvalidQuantity, got %v", qty, err)
		}
	}
}

func TestResolveUnknownService(t *testing.T) {
	ctx := context.Background()
	repo := persistence.NewMemoryServiceRepository()
	resolver := NewResolver(repo)

	_, err := resolver.Resolve(ctx, uuid.New(), saletype.Common, 1)
	if err != entity.ErrServiceNotFound {
		t.Fatalf("expected ErrServiceNotFound, got %v", err)
	}
}
