package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"sales/src/sales/domain/entity"
	domainCriteria "sales/src/shared/domain/criteria"
	infraCriteria "sales/src/shared/infrastructure/criteria"
	sharedPersistence "sales/src/shared/infrastructure/persistence"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SalePostgresRepository implementa SaleRepository usando PostgreSQL
type SalePostgresRepository struct {
	db        *sql.DB
	converter *infraCriteria.SQLCriteriaConverter
}

// NewSalePostgresRepository crea una nueva instancia del repositorio
func NewSalePostgresRepository(db *sql.DB) *SalePostgresRepository {
	return &SalePostgresRepository{
		db:        db,
		converter: infraCriteria.NewSQLCriteriaConverter(),
	}
}

const saleColumns = `
	id, client_id, carrier_id, attendant_id, sale_date, sale_type, status,
	payment_method, general_discount_type, general_discount_value,
	subtotal, total_discount, total, refund_total,
	commission_amount, commission_policy_id, package_id,
	confirmed_at, cancelled_at, created_at
`

const saleItemColumns = `
	id, sale_id, service_id, product_name, quantity, unit_price,
	discount_type, discount_value, subtotal, discount_amount, total
`

// Create inserta la venta y sus items dentro de la transacción del caso de uso
func (r *SalePostgresRepository) Create(ctx context.Context, sale *entity.Sale) error {
	query := `
		INSERT INTO sales (` + saleColumns + `) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18, $19, $20
		)
	`

	exec := sharedPersistence.From(ctx, r.db)
	_, err := exec.ExecContext(ctx, query,
		sale.ID,
		sale.ClientID,
		uuidOrNil(sale.CarrierID),
		sale.AttendantID,
		sale.SaleDate,
		sale.SaleType,
		sale.Status,
		sale.PaymentMethod,
		sale.GeneralDiscount.Type,
		sale.GeneralDiscount.Value,
		sale.Subtotal,
		sale.TotalDiscount,
		sale.Total,
		sale.RefundTotal,
		sale.CommissionAmount,
		uuidOrNil(sale.CommissionPolicyID),
		uuidOrNil(sale.PackageID),
		sale.ConfirmedAt,
		sale.CancelledAt,
		sale.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("error creating sale: %w", err)
	}

	return r.insertItems(ctx, sale)
}

// FindByID carga el aggregate completo con sus items
func (r *SalePostgresRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE id = $1`

	exec := sharedPersistence.From(ctx, r.db)
	sale, err := scanSale(exec.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, entity.ErrSaleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error finding sale: %w", err)
	}

	items, err := r.loadItems(ctx, sale.ID)
	if err != nil {
		return nil, err
	}
	sale.Items = items

	return sale, nil
}

// List busca ventas según criteria; los items se cargan por venta
func (r *SalePostgresRepository) List(ctx context.Context, c domainCriteria.Criteria) ([]*entity.Sale, int, error) {
	baseQuery := `SELECT ` + saleColumns + ` FROM sales`
	query, params := r.converter.ToSelectSQL(baseQuery, c)

	exec := sharedPersistence.From(ctx, r.db)
	rows, err := exec.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing sales: %w", err)
	}
	defer rows.Close()

	var sales []*entity.Sale
	for rows.Next() {
		sale, err := scanSale(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning sale: %w", err)
		}
		sales = append(sales, sale)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating sales: %w", err)
	}

	for _, sale := range sales {
		items, err := r.loadItems(ctx, sale.ID)
		if err != nil {
			return nil, 0, err
		}
		sale.Items = items
	}

	countQuery, countParams := r.converter.ToCountSQL(`SELECT COUNT(*) FROM sales`, c)
	var total int
	if err := exec.QueryRowContext(ctx, countQuery, countParams...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting sales: %w", err)
	}

	return sales, total, nil
}

// Update reescribe totales y descuento general, y reemplaza todos los items.
// El WHERE por estado garantiza que solo se editan ventas abiertas.
func (r *SalePostgresRepository) Update(ctx context.Context, sale *entity.Sale) error {
	query := `
		UPDATE sales
		SET general_discount_type = $1,
		    general_discount_value = $2,
		    subtotal = $3,
		    total_discount = $4,
		    total = $5,
		    commission_amount = $6,
		    commission_policy_id = $7
		WHERE id = $8 AND status = 'open'
	`

	exec := sharedPersistence.From(ctx, r.db)
	result, err := exec.ExecContext(ctx, query,
		sale.GeneralDiscount.Type,
		sale.GeneralDiscount.Value,
		sale.Subtotal,
		sale.TotalDiscount,
		sale.Total,
		sale.CommissionAmount,
		uuidOrNil(sale.CommissionPolicyID),
		sale.ID,
	)
	if err != nil {
		return fmt.Errorf("error updating sale: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		if _, err := r.FindByID(ctx, sale.ID); err != nil {
			return err
		}
		return entity.ErrSaleNotOpen
	}

	if _, err := exec.ExecContext(ctx, `DELETE FROM sale_items WHERE sale_id = $1`, sale.ID); err != nil {
		return fmt.Errorf("error clearing sale items: %w", err)
	}

	return r.insertItems(ctx, sale)
}

// Confirm transición condicional open → confirmed
func (r *SalePostgresRepository) Confirm(ctx context.Context, id uuid.UUID, confirmedAt time.Time) error {
	query := `
		UPDATE sales
		SET status = 'confirmed', confirmed_at = $1
		WHERE id = $2 AND status = 'open'
	`

	result, err := sharedPersistence.From(ctx, r.db).ExecContext(ctx, query, confirmedAt, id)
	if err != nil {
		return fmt.Errorf("error confirming sale: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		if _, err := r.FindByID(ctx, id); err != nil {
			return err
		}
		return entity.ErrSaleNotOpen
	}

	return nil
}

// Cancel transición condicional open|confirmed → cancelled
func (r *SalePostgresRepository) Cancel(ctx context.Context, id uuid.UUID, cancelledAt time.Time) error {
	query := `
		UPDATE sales
		SET status = 'cancelled', cancelled_at = $1
		WHERE id = $2 AND status != 'cancelled'
	`

	result, err := sharedPersistence.From(ctx, r.db).ExecContext(ctx, query, cancelledAt, id)
	if err != nil {
		return fmt.Errorf("error cancelling sale: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		if _, err := r.FindByID(ctx, id); err != nil {
			return err
		}
		return entity.ErrSaleAlreadyCancelled
	}

	return nil
}

// ApplyRefund incrementa refund_total con el tope en el total de la venta.
// La condición viaja en el UPDATE: dos devoluciones concurrentes nunca
// superan juntas el total.
func (r *SalePostgresRepository) ApplyRefund(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error {
	query := `
		UPDATE sales
		SET refund_total = refund_total + $1
		WHERE id = $2
		  AND status = 'confirmed'
		  AND refund_total + $1 <= total
	`

	result, err := sharedPersistence.From(ctx, r.db).ExecContext(ctx, query, amount, id)
	if err != nil {
		return fmt.Errorf("error applying refund: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		sale, err := r.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if sale.Status != entity.SaleStatusConfirmed {
			return entity.ErrSaleNotConfirmed
		}
		return entity.ErrRefundExceedsTotal
	}

	return nil
}

func (r *SalePostgresRepository) insertItems(ctx context.Context, sale *entity.Sale) error {
	query := `
		INSERT INTO sale_items (` + saleItemColumns + `) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
		)
	`

	exec := sharedPersistence.From(ctx, r.db)
	for _, item := range sale.Items {
		_, err := exec.ExecContext(ctx, query,
			item.ID,
			item.SaleID,
			uuidOrNil(item.ServiceID),
			item.ProductName,
			item.Quantity,
			item.UnitPrice,
			item.Discount.Type,
			item.Discount.Value,
			item.Subtotal,
			item.DiscountAmount,
			item.Total,
		)
		if err != nil {
			return fmt.Errorf("error creating sale item: %w", err)
		}
	}

	return nil
}

func (r *SalePostgresRepository) loadItems(ctx context.Context, saleID uuid.UUID) ([]entity.SaleItem, error) {
	query := `SELECT ` + saleItemColumns + ` FROM sale_items WHERE sale_id = $1 ORDER BY product_name`

	exec := sharedPersistence.From(ctx, r.db)
	rows, err := exec.QueryContext(ctx, query, saleID)
	if err != nil {
		return nil, fmt.Errorf("error loading sale items: %w", err)
	}
	defer rows.Close()

	var items []entity.SaleItem
	for rows.Next() {
		var item entity.SaleItem
		var serviceID sql.NullString
		err := rows.Scan(
			&item.ID,
			&item.SaleID,
			&serviceID,
			&item.ProductName,
			&item.Quantity,
			&item.UnitPrice,
			&item.Discount.Type,
			&item.Discount.Value,
			&item.Subtotal,
			&item.DiscountAmount,
			&item.Total,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning sale item: %w", err)
		}
		item.ServiceID = parseUUID(serviceID)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sale items: %w", err)
	}

	return items, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSale(row rowScanner) (*entity.Sale, error) {
	sale := &entity.Sale{}
	var carrierID, policyID, packageID sql.NullString
	var confirmedAt, cancelledAt sql.NullTime

	err := row.Scan(
		&sale.ID,
		&sale.ClientID,
		&carrierID,
		&sale.AttendantID,
		&sale.SaleDate,
		&sale.SaleType,
		&sale.Status,
		&sale.PaymentMethod,
		&sale.GeneralDiscount.Type,
		&sale.GeneralDiscount.Value,
		&sale.Subtotal,
		&sale.TotalDiscount,
		&sale.Total,
		&sale.RefundTotal,
		&sale.CommissionAmount,
		&policyID,
		&packageID,
		&confirmedAt,
		&cancelledAt,
		&sale.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	sale.CarrierID = parseUUID(carrierID)
	sale.CommissionPolicyID = parseUUID(policyID)
	sale.PackageID = parseUUID(packageID)
	if confirmedAt.Valid {
		t := confirmedAt.Time
		sale.ConfirmedAt = &t
	}
	if cancelledAt.Valid {
		t := cancelledAt.Time
		sale.CancelledAt = &t
	}

	return sale, nil
}

func parseUUID(ns sql.NullString) *uuid.UUID {
	if !ns.Valid {
		return nil
	}
	id, err := uuid.Parse(ns.String)
	if err != nil {
		return nil
	}
	return &id
}

func uuidOrNil(id *uuid.UUID) interface{} {
	if id == nil {
		return nil
	}
	return *id
}
