package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"sales/src/commission/domain/entity"
	sharedPersistence "sales/src/shared/infrastructure/persistence"
)

// PolicyPostgresRepository implementa PolicyRepository usando PostgreSQL
type PolicyPostgresRepository struct {
	db *sql.DB
}

// NewPolicyPostgresRepository crea una nueva instancia del repositorio
func NewPolicyPostgresRepository(db *sql.DB) *PolicyPostgresRepository {
	return &PolicyPostgresRepository{db: db}
}

// FindActive devuelve todas las políticas de comisión activas
func (r *PolicyPostgresRepository) FindActive(ctx context.Context) ([]entity.Policy, error) {
	query := `
		SELECT id, scope, product_id, attendant_id, type, value,
		       sale_type_filter, applies_to, valid_from, valid_until,
		       is_active, created_at
		FROM commission_policies
		WHERE is_active = true
	`

	rows, err := sharedPersistence.From(ctx, r.db).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error querying commission policies: %w", err)
	}
	defer rows.Close()

	var policies []entity.Policy
	for rows.Next() {
		var p entity.Policy
		var productID, attendantID sql.NullString
		var validUntil sql.NullTime
		err := rows.Scan(
			&p.ID,
			&p.Scope,
			&productID,
			&attendantID,
			&p.Type,
			&p.Value,
			&p.SaleTypeFilter,
			&p.AppliesTo,
			&p.ValidFrom,
			&validUntil,
			&p.Active,
			&p.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning commission policy: %w", err)
		}
		if productID.Valid {
			id, err := parseUUID(productID.String)
			if err != nil {
				return nil, fmt.Errorf("invalid product_id in policy %s: %w", p.ID, err)
			}
			p.ProductID = &id
		}
		if attendantID.Valid {
			id, err := parseUUID(attendantID.String)
			if err != nil {
				return nil, fmt.Errorf("invalid attendant_id in policy %s: %w", p.ID, err)
			}
			p.AttendantID = &id
		}
		if validUntil.Valid {
			t := validUntil.Time
			p.ValidUntil = &t
		}
		policies = append(policies, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating commission policies: %w", err)
	}

	return policies, nil
}
