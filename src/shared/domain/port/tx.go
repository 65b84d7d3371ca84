package port

import "context"

// TxManager ejecuta una función dentro de una transacción.
// La venta y sus efectos (items, comisión, mutación de paquete) se
// persisten juntos o no se persisten: cualquier error dentro de fn
// revierte todo lo escrito.
type TxManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
