package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"sales/src/commission/domain/entity"
	sharedPersistence "sales/src/shared/infrastructure/persistence"

	"github.com/google/uuid"
)

func parseUUID(s string) (uuid.UUID, error) {
	return uuid.Parse(s)
}

// CommissionPostgresRepository implementa CommissionRepository usando PostgreSQL
type CommissionPostgresRepository struct {
	db *sql.DB
}

// NewCommissionPostgresRepository crea una nueva instancia del repositorio
func NewCommissionPostgresRepository(db *sql.DB) *CommissionPostgresRepository {
	return &CommissionPostgresRepository{db: db}
}

// Create inserta una comisión (participa de la transacción de la venta)
func (r *CommissionPostgresRepository) Create(ctx context.Context, commission *entity.Commission) error {
	query := `
		INSERT INTO commissions (
			id, sale_id, attendant_id, amount, policy_id, status, reference_date, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		)
	`

	_, err := sharedPersistence.From(ctx, r.db).ExecContext(ctx, query,
		commission.ID,
		commission.SaleID,
		commission.AttendantID,
		commission.Amount,
		commission.PolicyID,
		commission.Status,
		commission.ReferenceDate,
		commission.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("error creating commission: %w", err)
	}

	return nil
}

// FindBySaleID busca la comisión de una venta
func (r *CommissionPostgresRepository) FindBySaleID(ctx context.Context, saleID uuid.UUID) (*entity.Commission, error) {
	query := `
		SELECT id, sale_id, attendant_id, amount, policy_id, status, reference_date, created_at
		FROM commissions
		WHERE sale_id = $1
	`

	c := &entity.Commission{}
	var policyID sql.NullString
	err := sharedPersistence.From(ctx, r.db).QueryRowContext(ctx, query, saleID).Scan(
		&c.ID,
		&c.SaleID,
		&c.AttendantID,
		&c.Amount,
		&policyID,
		&c.Status,
		&c.ReferenceDate,
		&c.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, entity.ErrCommissionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error finding commission: %w", err)
	}

	if policyID.Valid {
		id, err := parseUUID(policyID.String)
		if err != nil {
			return nil, fmt.Errorf("invalid policy_id in commission %s: %w", c.ID, err)
		}
		c.PolicyID = &id
	}

	return c, nil
}

// CancelBySaleID pasa a cancelled la comisión pending de la venta (idempotente)
func (r *CommissionPostgresRepository) CancelBySaleID(ctx context.Context, saleID uuid.UUID) error {
	query := `
		UPDATE commissions
		SET status = 'cancelled'
		WHERE sale_id = $1 AND status = 'pending'
	`

	if _, err := sharedPersistence.From(ctx, r.db).ExecContext(ctx, query, saleID); err != nil {
		return fmt.Errorf("error cancelling commission: %w", err)
	}

	return nil
}

// DeleteBySaleID elimina la comisión de una venta que se está re-editando
func (r *CommissionPostgresRepository) DeleteBySaleID(ctx context.Context, saleID uuid.UUID) error {
	query := `DELETE FROM commissions WHERE sale_id = $1`

	if _, err := sharedPersistence.From(ctx, r.db).ExecContext(ctx, query, saleID); err != nil {
		return fmt.Errorf("error deleting commission: %w", err)
	}

	return nil
}

// MarkPaid marca una comisión pending como pagada
func (r *CommissionPostgresRepository) MarkPaid(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE commissions
		SET status = 'paid'
		WHERE id = $1 AND status = 'pending'
	`

	result, err := sharedPersistence.From(ctx, r.db).ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("error marking commission as paid: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		// 0 filas: la comisión no existe o no estaba pending
		var status string
		err := sharedPersistence.From(ctx, r.db).QueryRowContext(ctx,
			`SELECT status FROM commissions WHERE id = $1`, id).Scan(&status)
		if err == sql.ErrNoRows {
			return entity.ErrCommissionNotFound
		}
		if err != nil {
			return fmt.Errorf("error checking commission status: %w", err)
		}
		return entity.ErrCommissionNotPending
	}

	return nil
}
