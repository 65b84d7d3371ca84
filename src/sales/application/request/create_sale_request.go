package request

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DiscountRequest descuento por item o general
type DiscountRequest struct {
	Type  string          `json:"type" binding:"required"` // percentage | fixed
	Value decimal.Decimal `json:"value" binding:"required"`
}

// SaleItemRequest item de la venta a crear.
// Subtotal es una pista de display del cliente: el subtotal financiero
// se recalcula siempre en el servidor desde los rangos de precio.
type SaleItemRequest struct {
	ServiceID   *uuid.UUID       `json:"service_id"`
	ProductName string           `json:"product_name,omitempty"` // requerido si no hay service_id
	Quantity    int              `json:"quantity" binding:"required,gt=0"`
	UnitPrice   *decimal.Decimal `json:"unit_price,omitempty"` // requerido si no hay service_id
	Subtotal    *decimal.Decimal `json:"subtotal,omitempty"`   // opcional, solo cross-check
	Discount    *DiscountRequest `json:"discount,omitempty"`
}

// CreateSaleRequest request de creación de venta.
// Status soporta los dos puntos de entrada: "open" (default) para ventas
// que se confirman después, y "confirmed" para ventas cerradas en el acto.
type CreateSaleRequest struct {
	SaleType      string     `json:"sale_type" binding:"required"`
	ClientID      *uuid.UUID `json:"client_id"`
	CarrierID     *uuid.UUID `json:"carrier_id"`
	PackageID     *uuid.UUID `json:"package_id"`
	SaleDate      string     `json:"sale_date,omitempty"` // YYYY-MM-DD, default hoy
	PaymentMethod string     `json:"payment_method" binding:"required"`
	Status        string     `json:"status,omitempty"` // open (default) | confirmed

	GeneralDiscount *DiscountRequest `json:"general_discount,omitempty"`

	Items []SaleItemRequest `json:"items" binding:"required,min=1,dive"`

	// PackageExpiresAt vencimiento opcional del paquete en emisiones (RFC 3339)
	PackageExpiresAt *string `json:"package_expires_at,omitempty"`
}

// UpdateSaleRequest reemplaza los items y el descuento general de una venta abierta
type UpdateSaleRequest struct {
	Items           []SaleItemRequest `json:"items" binding:"required,min=1,dive"`
	GeneralDiscount *DiscountRequest  `json:"general_discount,omitempty"`
}

// RefundSaleRequest registra una devolución parcial
type RefundSaleRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
	Reason string          `json:"reason" binding:"required"`
}
