package entity

import (
	"time"

	"sales/src/shared/domain/saletype"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleStatus estado de la venta
type SaleStatus string

const (
	SaleStatusOpen      SaleStatus = "open"
	SaleStatusConfirmed SaleStatus = "confirmed"
	SaleStatusCancelled SaleStatus = "cancelled"
)

// Sale venta de servicios medidos (Aggregate Root).
// Invariantes: Total = Subtotal − TotalDiscount ≥ 0; RefundTotal ≤ Total.
// Máquina de estados: open → confirmed → cancelled; cancelled es terminal.
type Sale struct {
	ID          uuid.UUID         `json:"id"`
	ClientID    uuid.UUID         `json:"client_id"`
	CarrierID   *uuid.UUID        `json:"carrier_id,omitempty"` // trazabilidad en consumo de paquete
	AttendantID uuid.UUID         `json:"attendant_id"`
	SaleDate    time.Time         `json:"sale_date"`
	SaleType    saletype.SaleType `json:"sale_type"`
	Status      SaleStatus        `json:"status"`

	PaymentMethod   string   `json:"payment_method"`
	GeneralDiscount Discount `json:"general_discount"`

	Subtotal      decimal.Decimal `json:"subtotal"`
	TotalDiscount decimal.Decimal `json:"total_discount"`
	Total         decimal.Decimal `json:"total"`
	RefundTotal   decimal.Decimal `json:"refund_total"`

	CommissionAmount   decimal.Decimal `json:"commission_amount"`
	CommissionPolicyID *uuid.UUID      `json:"commission_policy_id,omitempty"`

	PackageID *uuid.UUID `json:"package_id,omitempty"` // paquete consumido (consumo)

	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`

	Items []SaleItem `json:"items"`
}

// NewSaleParams parámetros de construcción del aggregate
type NewSaleParams struct {
	ClientID        uuid.UUID
	CarrierID       *uuid.UUID
	AttendantID     uuid.UUID
	SaleDate        time.Time
	SaleType        saletype.SaleType
	PaymentMethod   string
	GeneralDiscount Discount
	PackageID       *uuid.UUID
	Items           []SaleItem
}

// NewSale crea una venta abierta calculando los totales desde los items.
// El descuento general porcentual aplica sobre la suma de totales de items;
// el total final nunca baja de cero y el invariante Total = Subtotal −
// TotalDiscount se mantiene ajustando TotalDiscount.
func NewSale(p NewSaleParams) (*Sale, error) {
	if len(p.Items) == 0 {
		return nil, ErrSaleMustHaveItems
	}
	if !p.SaleType.Valid() {
		return nil, ErrInvalidSaleType
	}
	if p.PaymentMethod == "" {
		return nil, ErrPaymentMethodRequired
	}
	if err := p.GeneralDiscount.Validate(); err != nil {
		return nil, err
	}

	saleID := uuid.New()
	for i := range p.Items {
		p.Items[i].SaleID = saleID
	}

	sale := &Sale{
		ID:              saleID,
		ClientID:        p.ClientID,
		CarrierID:       p.CarrierID,
		AttendantID:     p.AttendantID,
		SaleDate:        p.SaleDate,
		SaleType:        p.SaleType,
		Status:          SaleStatusOpen,
		PaymentMethod:   p.PaymentMethod,
		GeneralDiscount: p.GeneralDiscount,
		RefundTotal:     decimal.Zero,
		PackageID:       p.PackageID,
		CreatedAt:       time.Now(),
		Items:           p.Items,
	}
	sale.recalculateTotals()

	return sale, nil
}

// recalculateTotals recalcula subtotal, descuentos y total desde los items
func (s *Sale) recalculateTotals() {
	subtotal := decimal.Zero
	itemsTotal := decimal.Zero
	for _, item := range s.Items {
		subtotal = subtotal.Add(item.Subtotal)
		itemsTotal = itemsTotal.Add(item.Total)
	}

	generalAmount := s.GeneralDiscount.AmountOn(itemsTotal)
	total := itemsTotal.Sub(generalAmount)
	if total.LessThan(decimal.Zero) {
		total = decimal.Zero
	}

	s.Subtotal = subtotal
	s.Total = total
	s.TotalDiscount = subtotal.Sub(total)
}

// ReplaceItems reemplaza todos los items (solo ventas abiertas) y recalcula
func (s *Sale) ReplaceItems(items []SaleItem, generalDiscount Discount) error {
	if s.Status != SaleStatusOpen {
		return ErrSaleNotOpen
	}
	if len(items) == 0 {
		return ErrSaleMustHaveItems
	}
	if err := generalDiscount.Validate(); err != nil {
		return err
	}

	for i := range items {
		items[i].SaleID = s.ID
	}
	s.Items = items
	s.GeneralDiscount = generalDiscount
	s.recalculateTotals()
	return nil
}

// Confirm transición open → confirmed
func (s *Sale) Confirm(now time.Time) error {
	if s.Status != SaleStatusOpen {
		return ErrSaleNotOpen
	}
	s.Status = SaleStatusConfirmed
	s.ConfirmedAt = &now
	return nil
}

// Cancel transición open|confirmed → cancelled (terminal)
func (s *Sale) Cancel(now time.Time) error {
	if s.Status == SaleStatusCancelled {
		return ErrSaleAlreadyCancelled
	}
	s.Status = SaleStatusCancelled
	s.CancelledAt = &now
	return nil
}

// TotalUnits suma de cantidades de los items
func (s *Sale) TotalUnits() int {
	units := 0
	for _, item := range s.Items {
		units += item.Quantity
	}
	return units
}

// RemainingRefundable saldo aún reembolsable
func (s *Sale) RemainingRefundable() decimal.Decimal {
	return s.Total.Sub(s.RefundTotal)
}
