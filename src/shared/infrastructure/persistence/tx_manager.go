package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
)

// Executor abstrae *sql.DB y *sql.Tx para que los repositorios
// participen en la transacción abierta por el caso de uso
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type txKey struct{}

// SQLTxManager implementa TxManager sobre database/sql.
// La transacción viaja en el context; los repositorios la recuperan con From.
type SQLTxManager struct {
	db *sql.DB
}

// NewSQLTxManager crea una nueva instancia del manager
func NewSQLTxManager(db *sql.DB) *SQLTxManager {
	return &SQLTxManager{db: db}
}

// WithTransaction abre una transacción, ejecuta fn y hace commit.
// Si fn devuelve error (o hace panic) toda la transacción se revierte.
// Las llamadas anidadas reutilizan la transacción ya abierta.
func (m *SQLTxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok && tx != nil {
		return fn(ctx)
	}

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing transaction: %w", err)
	}

	return nil
}

// From devuelve el executor activo: la transacción del context si existe,
// o la conexión base en su defecto
func From(ctx context.Context, db *sql.DB) Executor {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok && tx != nil {
		return tx
	}
	return db
}

// MemoryTxManager implementa TxManager para los repositorios en memoria.
// Serializa las "transacciones" con un mutex; no hay rollback real, los
// tests ordenan las operaciones condicionales antes de las escrituras.
type MemoryTxManager struct {
	mu sync.Mutex
}

// NewMemoryTxManager crea una nueva instancia del manager en memoria
func NewMemoryTxManager() *MemoryTxManager {
	return &MemoryTxManager{}
}

// WithTransaction ejecuta fn bajo el lock global del manager
func (m *MemoryTxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(ctx)
}
