package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"sales/src/packages/domain/entity"
	sharedPersistence "sales/src/shared/infrastructure/persistence"

	"github.com/google/uuid"
)

// PackagePostgresRepository implementa PackageRepository usando PostgreSQL
type PackagePostgresRepository struct {
	db *sql.DB
}

// NewPackagePostgresRepository crea una nueva instancia del repositorio
func NewPackagePostgresRepository(db *sql.DB) *PackagePostgresRepository {
	return &PackagePostgresRepository{db: db}
}

const packageColumns = `
	id, client_id, service_id, origin_sale_id,
	initial_quantity, consumed_quantity, available_quantity,
	unit_price, total_paid, is_active, expires_at, created_at
`

// Create inserta un paquete (participa de la transacción de la venta de emisión)
func (r *PackagePostgresRepository) Create(ctx context.Context, pkg *entity.Package) error {
	query := `
		INSERT INTO packages (` + packageColumns + `) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
		)
	`

	_, err := sharedPersistence.From(ctx, r.db).ExecContext(ctx, query,
		pkg.ID,
		pkg.ClientID,
		pkg.ServiceID,
		pkg.OriginSaleID,
		pkg.InitialQuantity,
		pkg.ConsumedQuantity,
		pkg.AvailableQuantity,
		pkg.UnitPrice,
		pkg.TotalPaid,
		pkg.Active,
		pkg.ExpiresAt,
		pkg.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("error creating package: %w", err)
	}

	return nil
}

// FindByID busca un paquete por su ID
func (r *PackagePostgresRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Package, error) {
	query := `SELECT ` + packageColumns + ` FROM packages WHERE id = $1`
	return r.scanOne(sharedPersistence.From(ctx, r.db).QueryRowContext(ctx, query, id))
}

// FindByOriginSale busca el paquete emitido por una venta
func (r *PackagePostgresRepository) FindByOriginSale(ctx context.Context, saleID uuid.UUID) (*entity.Package, error) {
	query := `SELECT ` + packageColumns + ` FROM packages WHERE origin_sale_id = $1`
	return r.scanOne(sharedPersistence.From(ctx, r.db).QueryRowContext(ctx, query, saleID))
}

// ListByClient devuelve los paquetes de un portador
func (r *PackagePostgresRepository) ListByClient(ctx context.Context, clientID uuid.UUID) ([]*entity.Package, error) {
	query := `
		SELECT ` + packageColumns + `
		FROM packages
		WHERE client_id = $1
		ORDER BY created_at DESC
	`

	rows, err := sharedPersistence.From(ctx, r.db).QueryContext(ctx, query, clientID)
	if err != nil {
		return nil, fmt.Errorf("error listing packages: %w", err)
	}
	defer rows.Close()

	var packages []*entity.Package
	for rows.Next() {
		pkg, err := scanPackage(rows)
		if err != nil {
			return nil, err
		}
		packages = append(packages, pkg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating packages: %w", err)
	}

	return packages, nil
}

// Consume aplica el decremento condicional de saldo. La condición
// available_quantity >= $1 viaja en el UPDATE: si otra transacción consumió
// primero y el saldo ya no alcanza, RowsAffected es 0 y no se muta nada.
func (r *PackagePostgresRepository) Consume(ctx context.Context, id uuid.UUID, qty int) error {
	query := `
		UPDATE packages
		SET consumed_quantity = consumed_quantity + $1,
		    available_quantity = available_quantity - $1
		WHERE id = $2
		  AND is_active = true
		  AND available_quantity >= $1
	`

	result, err := sharedPersistence.From(ctx, r.db).ExecContext(ctx, query, qty, id)
	if err != nil {
		return fmt.Errorf("error consuming package balance: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		// distinguir saldo insuficiente de paquete inexistente
		if _, err := r.FindByID(ctx, id); err != nil {
			return err
		}
		return entity.ErrInsufficientBalance
	}

	return nil
}

// RevertConsumption acredita qty de vuelta al saldo disponible
func (r *PackagePostgresRepository) RevertConsumption(ctx context.Context, id uuid.UUID, qty int) error {
	query := `
		UPDATE packages
		SET consumed_quantity = consumed_quantity - $1,
		    available_quantity = available_quantity + $1
		WHERE id = $2
		  AND consumed_quantity >= $1
	`

	result, err := sharedPersistence.From(ctx, r.db).ExecContext(ctx, query, qty, id)
	if err != nil {
		return fmt.Errorf("error reverting package consumption: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		if _, err := r.FindByID(ctx, id); err != nil {
			return err
		}
		return entity.ErrInvalidConsumption
	}

	return nil
}

// Deactivate desactiva un paquete que aún no tuvo consumos
func (r *PackagePostgresRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE packages
		SET is_active = false
		WHERE id = $1 AND consumed_quantity = 0
	`

	result, err := sharedPersistence.From(ctx, r.db).ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("error deactivating package: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		if _, err := r.FindByID(ctx, id); err != nil {
			return err
		}
		return entity.ErrPackageAlreadyConsumed
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *PackagePostgresRepository) scanOne(row *sql.Row) (*entity.Package, error) {
	pkg, err := scanPackage(row)
	if err == sql.ErrNoRows {
		return nil, entity.ErrPackageNotFound
	}
	if err != nil {
		return nil, err
	}
	return pkg, nil
}

func scanPackage(row rowScanner) (*entity.Package, error) {
	pkg := &entity.Package{}
	var expiresAt sql.NullTime
	err := row.Scan(
		&pkg.ID,
		&pkg.ClientID,
		&pkg.ServiceID,
		&pkg.OriginSaleID,
		&pkg.InitialQuantity,
		&pkg.ConsumedQuantity,
		&pkg.AvailableQuantity,
		&pkg.UnitPrice,
		&pkg.TotalPaid,
		&pkg.Active,
		&expiresAt,
		&pkg.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if expiresAt.Valid {
		t := expiresAt.Time
		pkg.ExpiresAt = &t
	}
	return pkg, nil
}
