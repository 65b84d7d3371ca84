package entity

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleItem item de una venta. Invariante: Total = Subtotal − DiscountAmount.
type SaleItem struct {
	ID             uuid.UUID       `json:"id"`
	SaleID         uuid.UUID       `json:"sale_id"`
	ServiceID      *uuid.UUID      `json:"service_id,omitempty"` // NULL = item libre sin servicio de catálogo
	ProductName    string          `json:"product_name"`
	Quantity       int             `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	Discount       Discount        `json:"discount"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	Total          decimal.Decimal `json:"total"`
}

// NewSaleItem crea un item con el subtotal autoritativo ya resuelto por el
// pricing. El descuento por item se topea al subtotal.
func NewSaleItem(serviceID *uuid.UUID, productName string, quantity int, unitPrice, subtotal decimal.Decimal, discount Discount) (*SaleItem, error) {
	if productName == "" {
		return nil, ErrProductNameRequired
	}
	if quantity <= 0 {
		return nil, ErrInvalidItemQuantity
	}
	if unitPrice.LessThan(decimal.Zero) || subtotal.LessThan(decimal.Zero) {
		return nil, ErrInvalidItemPrice
	}
	if err := discount.Validate(); err != nil {
		return nil, err
	}

	discountAmount := discount.AmountOn(subtotal)

	return &SaleItem{
		ID:             uuid.New(),
		ServiceID:      serviceID,
		ProductName:    productName,
		Quantity:       quantity,
		UnitPrice:      unitPrice,
		Discount:       discount,
		Subtotal:       subtotal,
		DiscountAmount: discountAmount,
		Total:          subtotal.Sub(discountAmount),
	}, nil
}
