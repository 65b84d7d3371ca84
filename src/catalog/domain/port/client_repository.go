package port

import (
	"context"

	"sales/src/catalog/domain/entity"

	"github.com/google/uuid"
)

// ClientRepository acceso de solo lectura al catálogo de clientes.
// Este servicio valida claves foráneas contra el catálogo pero nunca lo muta.
type ClientRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Client, error)
}
