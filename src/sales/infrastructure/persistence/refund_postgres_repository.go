package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"sales/src/sales/domain/entity"
	sharedPersistence "sales/src/shared/infrastructure/persistence"

	"github.com/google/uuid"
)

// RefundPostgresRepository implementa RefundRepository usando PostgreSQL
type RefundPostgresRepository struct {
	db *sql.DB
}

// NewRefundPostgresRepository crea una nueva instancia del repositorio
func NewRefundPostgresRepository(db *sql.DB) *RefundPostgresRepository {
	return &RefundPostgresRepository{db: db}
}

// Create inserta la devolución (participa de la transacción del caso de uso)
func (r *RefundPostgresRepository) Create(ctx context.Context, refund *entity.Refund) error {
	query := `
		INSERT INTO refunds (id, sale_id, amount, reason, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := sharedPersistence.From(ctx, r.db).ExecContext(ctx, query,
		refund.ID,
		refund.SaleID,
		refund.Amount,
		refund.Reason,
		refund.CreatedBy,
		refund.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("error creating refund: %w", err)
	}

	return nil
}

// ListBySale devuelve las devoluciones de una venta, más antiguas primero
func (r *RefundPostgresRepository) ListBySale(ctx context.Context, saleID uuid.UUID) ([]*entity.Refund, error) {
	query := `
		SELECT id, sale_id, amount, reason, created_by, created_at
		FROM refunds
		WHERE sale_id = $1
		ORDER BY created_at ASC
	`

	rows, err := sharedPersistence.From(ctx, r.db).QueryContext(ctx, query, saleID)
	if err != nil {
		return nil, fmt.Errorf("error listing refunds: %w", err)
	}
	defer rows.Close()

	var refunds []*entity.Refund
	for rows.Next() {
		refund := &entity.Refund{}
		err := rows.Scan(
			&refund.ID,
			&refund.SaleID,
			&refund.Amount,
			&refund.Reason,
			&refund.CreatedBy,
			&refund.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning refund: %w", err)
		}
		refunds = append(refunds, refund)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating refunds: %w", err)
	}

	return refunds, nil
}
