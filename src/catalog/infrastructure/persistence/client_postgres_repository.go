package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"sales/src/catalog/domain/entity"
	sharedPersistence "sales/src/shared/infrastructure/persistence"

	"github.com/google/uuid"
)

// ClientPostgresRepository implementa ClientRepository usando PostgreSQL
type ClientPostgresRepository struct {
	db *sql.DB
}

// NewClientPostgresRepository crea una nueva instancia del repositorio
func NewClientPostgresRepository(db *sql.DB) *ClientPostgresRepository {
	return &ClientPostgresRepository{db: db}
}

// FindByID busca un cliente por su ID
func (r *ClientPostgresRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Client, error) {
	query := `
		SELECT id, name, type, is_active, created_at
		FROM clients
		WHERE id = $1
	`

	client := &entity.Client{}
	err := sharedPersistence.From(ctx, r.db).QueryRowContext(ctx, query, id).Scan(
		&client.ID,
		&client.Name,
		&client.Type,
		&client.Active,
		&client.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, entity.ErrClientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error finding client: %w", err)
	}

	return client, nil
}
