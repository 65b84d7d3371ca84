package persistence

import (
	"context"
	"sync"

	"sales/src/catalog/domain/entity"

	"github.com/google/uuid"
)

// MemoryClientRepository implementación en memoria de ClientRepository,
// usada en tests y como fallback de desarrollo sin base de datos
type MemoryClientRepository struct {
	mu      sync.RWMutex
	clients map[uuid.UUID]entity.Client
}

// NewMemoryClientRepository crea un repositorio vacío
func NewMemoryClientRepository() *MemoryClientRepository {
	return &MemoryClientRepository{clients: make(map[uuid.UUID]entity.Client)}
}

// Seed carga clientes de prueba
func (r *MemoryClientRepository) Seed(clients ...entity.Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range clients {
		r.clients[c.ID] = c
	}
}

// FindByID busca un cliente por su ID
func (r *MemoryClientRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.clients[id]
	if !ok {
		return nil, entity.ErrClientNotFound
	}
	copy := c
	return &copy, nil
}
