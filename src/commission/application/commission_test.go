package application

import (
	"context"
	"testing"
	"time"

	"sales/src/commission/domain/entity"
	"sales/src/commission/infrastructure/persistence"
	"sales/src/shared/domain/saletype"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// lunes, día de semana
var weekday = time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)

// sábado
var saturday = time.Date(2025, 6, 7, 10, 0, 0, 0, time.UTC)

func activePolicy(scope entity.PolicyScope, createdAt time.Time) entity.Policy {
	return entity.Policy{
		ID:             uuid.New(),
		Scope:          scope,
		Type:           entity.TypePercentage,
		Value:          decimal.NewFromInt(10),
		SaleTypeFilter: entity.SaleTypeFilterAll,
		AppliesTo:      entity.DaysAll,
		ValidFrom:      weekday.AddDate(-1, 0, 0),
		Active:         true,
		CreatedAt:      createdAt,
	}
}

func TestResolverSpecificityUserOverProductOverAll(t *testing.T) {
	ctx := context.Background()
	repo := persistence.NewMemoryPolicyRepository()
	resolver := NewResolver(repo)

	attendant := uuid.New()
	product := uuid.New()

	allPolicy := activePolicy(entity.ScopeAll, weekday)

	productPolicy := activePolicy(entity.ScopeProduct, weekday)
	productPolicy.ProductID = &product

	userPolicy := activePolicy(entity.ScopeUser, weekday)
	userPolicy.AttendantID = &attendant

	repo.Seed(allPolicy, productPolicy, userPolicy)

	got, err := resolver.Resolve(ctx, attendant, &product, weekday, saletype.Common)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got == nil || got.ID != userPolicy.ID {
		t.Fatalf("expected user-scoped policy, got %+v", got)
	}

	// sin política de usuario para otro atendente: gana la de producto
	got, err = resolver.Resolve(ctx, uuid.New(), &product, weekday, saletype.Common)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got == nil || got.ID != productPolicy.ID {
		t.Fatalf("expected product-scoped policy, got %+v", got)
	}
}

func TestResolverTieBreaksByMostRecentlyCreated(t *testing.T) {
	ctx := context.Background()
	repo := persistence.NewMemoryPolicyRepository()
	resolver := NewResolver(repo)

	older := activePolicy(entity.ScopeAll, weekday.Add(-48*time.Hour))
	newer := activePolicy(entity.ScopeAll, weekday.Add(-1*time.Hour))
	repo.Seed(older, newer)

	got, err := resolver.Resolve(ctx, uuid.New(), nil, weekday, saletype.Common)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got == nil || got.ID != newer.ID {
		t.Fatalf("expected most recently created policy, got %+v", got)
	}
}

func TestResolverDayScope(t *testing.T) {
	ctx := context.Background()
	repo := persistence.NewMemoryPolicyRepository()
	resolver := NewResolver(repo)

	weekdaysOnly := activePolicy(entity.ScopeAll, weekday)
	weekdaysOnly.AppliesTo = entity.DaysWeekdays
	repo.Seed(weekdaysOnly)

	got, err := resolver.Resolve(ctx, uuid.New(), nil, saturday, saletype.Common)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got != nil {
		t.Fatalf("weekdays-only policy must not apply on saturday, got %+v", got)
	}

	got, err = resolver.Resolve(ctx, uuid.New(), nil, weekday, saletype.Common)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got == nil {
		t.Fatal("weekdays-only policy must apply on a weekday")
	}
}

func TestResolverValidityWindow(t *testing.T) {
	ctx := context.Background()
	repo := persistence.NewMemoryPolicyRepository()
	resolver := NewResolver(repo)

	expired := activePolicy(entity.ScopeAll, weekday)
	until := weekday.AddDate(0, -1, 0)
	expired.ValidUntil = &until
	repo.Seed(expired)

	got, err := resolver.Resolve(ctx, uuid.New(), nil, weekday, saletype.Common)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got != nil {
		t.Fatalf("expired policy must not resolve, got %+v", got)
	}
}

func TestResolverPackageIssueNeverEarnsCommission(t *testing.T) {
	ctx := context.Background()
	repo := persistence.NewMemoryPolicyRepository()
	resolver := NewResolver(repo)
	repo.Seed(activePolicy(entity.ScopeAll, weekday))

	got, err := resolver.Resolve(ctx, uuid.New(), nil, weekday, saletype.PackageIssue)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got != nil {
		t.Fatalf("package issue sales never earn commission, got %+v", got)
	}
}

func TestCalculatorPercentage(t *testing.T) {
	calc := NewCalculator()

	policy := activePolicy(entity.ScopeAll, weekday)
	policy.Type = entity.TypePercentage
	policy.Value = decimal.NewFromInt(5)

	got := calc.Calculate(decimal.NewFromInt(1000), 3, &policy)
	if !got.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("commission = %s, want 50", got)
	}
}

func TestCalculatorFallbackFivePercent(t *testing.T) {
	calc := NewCalculator()

	got := calc.Calculate(decimal.NewFromInt(1000), 3, nil)
	if !got.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("fallback commission = %s, want 50", got)
	}
}

func TestCalculatorFixedCappedAtNet(t *testing.T) {
	calc := NewCalculator()

	policy := activePolicy(entity.ScopeAll, weekday)
	policy.Type = entity.TypeFixed
	policy.Value = decimal.NewFromInt(80)

	got := calc.Calculate(decimal.NewFromInt(50), 1, &policy)
	if !got.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("fixed commission = %s, want capped 50", got)
	}

	got = calc.Calculate(decimal.NewFromInt(200), 1, &policy)
	if !got.Equal(decimal.NewFromInt(80)) {
		t.Fatalf("fixed commission = %s, want 80", got)
	}
}

func TestCalculatorFixedPerUnit(t *testing.T) {
	calc := NewCalculator()

	policy := activePolicy(entity.ScopeAll, weekday)
	policy.Type = entity.TypeFixedPerUnit
	policy.Value = decimal.RequireFromString("2.50")

	got := calc.Calculate(decimal.NewFromInt(500), 4, &policy)
	if !got.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("per-unit commission = %s, want 10", got)
	}
}

func TestCalculatorRoundsToCurrencyPrecision(t *testing.T) {
	calc := NewCalculator()

	policy := activePolicy(entity.ScopeAll, weekday)
	policy.Type = entity.TypePercentage
	policy.Value = decimal.RequireFromString("3.33")

	// 99.99 × 3.33% = 3.329667 → 3.33
	got := calc.Calculate(decimal.RequireFromString("99.99"), 1, &policy)
	if !got.Equal(decimal.RequireFromString("3.33")) {
		t.Fatalf("rounded commission = %s, want 3.33", got)
	}
}

func TestMarkPaidDistinguishesMissingFromNotPending(t *testing.T) {
	ctx := context.Background()
	repo := persistence.NewMemoryCommissionRepository()

	// id inexistente: not found, no conflicto de estado
	if err := repo.MarkPaid(ctx, uuid.New()); err != entity.ErrCommissionNotFound {
		t.Fatalf("expected ErrCommissionNotFound, got %v", err)
	}

	commission := entity.NewCommission(uuid.New(), uuid.New(), decimal.NewFromInt(50), nil, weekday)
	if err := repo.Create(ctx, commission); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.MarkPaid(ctx, commission.ID); err != nil {
		t.Fatalf("mark paid: %v", err)
	}

	// pagarla de nuevo choca con el estado, no con la existencia
	if err := repo.MarkPaid(ctx, commission.ID); err != entity.ErrCommissionNotPending {
		t.Fatalf("expected ErrCommissionNotPending, got %v", err)
	}
}
