package response

import (
	"time"

	"sales/src/sales/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleItemResponse item en la respuesta de venta
type SaleItemResponse struct {
	ItemID         uuid.UUID       `json:"item_id"`
	ServiceID      *uuid.UUID      `json:"service_id,omitempty"`
	ProductName    string          `json:"product_name"`
	Quantity       int             `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	Total          decimal.Decimal `json:"total"`
}

// SaleResponse respuesta completa de una venta
type SaleResponse struct {
	SaleID            uuid.UUID          `json:"sale_id"`
	SaleType          string             `json:"sale_type"`
	Status            string             `json:"status"`
	ClientID          uuid.UUID          `json:"client_id"`
	CarrierID         *uuid.UUID         `json:"carrier_id,omitempty"`
	AttendantID       uuid.UUID          `json:"attendant_id"`
	SaleDate          time.Time          `json:"sale_date"`
	PaymentMethod     string             `json:"payment_method"`
	PaymentMethodName string             `json:"payment_method_name,omitempty"`
	Items             []SaleItemResponse `json:"items"`
	Subtotal          decimal.Decimal    `json:"subtotal"`
	TotalDiscount     decimal.Decimal    `json:"total_discount"`
	Total             decimal.Decimal    `json:"total"`
	RefundTotal       decimal.Decimal    `json:"refund_total"`
	CommissionAmount  decimal.Decimal    `json:"commission_amount"`
	PackageID         *uuid.UUID         `json:"package_id,omitempty"`
	ConfirmedAt       *time.Time         `json:"confirmed_at,omitempty"`
	CancelledAt       *time.Time         `json:"cancelled_at,omitempty"`
	CreatedAt         time.Time          `json:"created_at"`
}

// FromSale arma la respuesta desde el aggregate
func FromSale(sale *entity.Sale, paymentMethodName string) *SaleResponse {
	items := make([]SaleItemResponse, 0, len(sale.Items))
	for _, item := range sale.Items {
		items = append(items, SaleItemResponse{
			ItemID:         item.ID,
			ServiceID:      item.ServiceID,
			ProductName:    item.ProductName,
			Quantity:       item.Quantity,
			UnitPrice:      item.UnitPrice,
			Subtotal:       item.Subtotal,
			DiscountAmount: item.DiscountAmount,
			Total:          item.Total,
		})
	}

	return &SaleResponse{
		SaleID:            sale.ID,
		SaleType:          string(sale.SaleType),
		Status:            string(sale.Status),
		ClientID:          sale.ClientID,
		CarrierID:         sale.CarrierID,
		AttendantID:       sale.AttendantID,
		SaleDate:          sale.SaleDate,
		PaymentMethod:     sale.PaymentMethod,
		PaymentMethodName: paymentMethodName,
		Items:             items,
		Subtotal:          sale.Subtotal,
		TotalDiscount:     sale.TotalDiscount,
		Total:             sale.Total,
		RefundTotal:       sale.RefundTotal,
		CommissionAmount:  sale.CommissionAmount,
		PackageID:         sale.PackageID,
		ConfirmedAt:       sale.ConfirmedAt,
		CancelledAt:       sale.CancelledAt,
		CreatedAt:         sale.CreatedAt,
	}
}

// ListSalesResponse página de ventas
type ListSalesResponse struct {
	Items      []*SaleResponse `json:"items"`
	TotalCount int             `json:"total_count"`
	Page       int             `json:"page"`
	PageSize   int             `json:"page_size"`
}
