package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"sales/src/pricing/domain/entity"
	"sales/src/shared/domain/saletype"
	sharedPersistence "sales/src/shared/infrastructure/persistence"

	"github.com/google/uuid"
)

// ServicePostgresRepository implementa ServiceRepository usando PostgreSQL
type ServicePostgresRepository struct {
	db *sql.DB
}

// NewServicePostgresRepository crea una nueva instancia del repositorio
func NewServicePostgresRepository(db *sql.DB) *ServicePostgresRepository {
	return &ServicePostgresRepository{db: db}
}

// FindServiceByID busca un servicio por su ID
func (r *ServicePostgresRepository) FindServiceByID(ctx context.Context, id uuid.UUID) (*entity.Service, error) {
	query := `
		SELECT id, name, base_price, pricing_model, is_active, created_at
		FROM services
		WHERE id = $1
	`

	svc := &entity.Service{}
	err := sharedPersistence.From(ctx, r.db).QueryRowContext(ctx, query, id).Scan(
		&svc.ID,
		&svc.Name,
		&svc.BasePrice,
		&svc.PricingModel,
		&svc.Active,
		&svc.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, entity.ErrServiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error finding service: %w", err)
	}

	return svc, nil
}

// FindActiveRanges devuelve los rangos vigentes de un (servicio, tipo de venta)
func (r *ServicePostgresRepository) FindActiveRanges(ctx context.Context, serviceID uuid.UUID, st saletype.SaleType) ([]entity.PriceRange, error) {
	query := `
		SELECT id, service_id, sale_type, min_qty, max_qty, unit_price, effective_from, is_active
		FROM price_ranges
		WHERE service_id = $1
		  AND sale_type = $2
		  AND is_active = true
		  AND effective_from <= NOW()
		ORDER BY min_qty ASC
	`

	rows, err := sharedPersistence.From(ctx, r.db).QueryContext(ctx, query, serviceID, st)
	if err != nil {
		return nil, fmt.Errorf("error querying price ranges: %w", err)
	}
	defer rows.Close()

	var ranges []entity.PriceRange
	for rows.Next() {
		var rg entity.PriceRange
		var maxQty sql.NullInt64
		err := rows.Scan(
			&rg.ID,
			&rg.ServiceID,
			&rg.SaleType,
			&rg.MinQty,
			&maxQty,
			&rg.UnitPrice,
			&rg.EffectiveFrom,
			&rg.Active,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning price range: %w", err)
		}
		if maxQty.Valid {
			v := int(maxQty.Int64)
			rg.MaxQty = &v
		}
		ranges = append(ranges, rg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating price ranges: %w", err)
	}

	return ranges, nil
}
