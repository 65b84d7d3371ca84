package entity

import (
	"time"

	"sales/src/shared/domain/saletype"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PolicyScope alcance de la política de comisión
type PolicyScope string

const (
	ScopeAll     PolicyScope = "all"
	ScopeProduct PolicyScope = "product"
	ScopeUser    PolicyScope = "user"
)

// PolicyType forma de cálculo de la comisión
type PolicyType string

const (
	TypePercentage   PolicyType = "percentage"
	TypeFixed        PolicyType = "fixed"
	TypeFixedPerUnit PolicyType = "fixed_per_unit"
)

// DayScope a qué días aplica la política
type DayScope string

const (
	DaysAll              DayScope = "all"
	DaysWeekdays         DayScope = "weekdays"
	DaysWeekendsHolidays DayScope = "weekends_holidays"
)

// SaleTypeFilterAll la política aplica a cualquier tipo de venta elegible
const SaleTypeFilterAll = "all"

// Policy política de comisión acotada en el tiempo, con alcance por
// producto, usuario y tipo de día
type Policy struct {
	ID             uuid.UUID       `json:"id"`
	Scope          PolicyScope     `json:"scope"`
	ProductID      *uuid.UUID      `json:"product_id,omitempty"`
	AttendantID    *uuid.UUID      `json:"attendant_id,omitempty"`
	Type           PolicyType      `json:"type"`
	Value          decimal.Decimal `json:"value"`
	SaleTypeFilter string          `json:"sale_type_filter"`
	AppliesTo      DayScope        `json:"applies_to"`
	ValidFrom      time.Time       `json:"valid_from"`
	ValidUntil     *time.Time      `json:"valid_until,omitempty"`
	Active         bool            `json:"active"`
	CreatedAt      time.Time       `json:"created_at"`
}

// InWindow indica si la fecha cae dentro de la ventana de vigencia
func (p *Policy) InWindow(date time.Time) bool {
	if date.Before(p.ValidFrom) {
		return false
	}
	return p.ValidUntil == nil || !date.After(*p.ValidUntil)
}

// MatchesDay indica si la política aplica al tipo de día de la fecha.
// Sábado y domingo cuentan como fin de semana.
func (p *Policy) MatchesDay(date time.Time) bool {
	switch p.AppliesTo {
	case DaysAll:
		return true
	case DaysWeekdays:
		return !isWeekend(date)
	case DaysWeekendsHolidays:
		return isWeekend(date)
	}
	return false
}

// MatchesSaleType indica si la política aplica al tipo de venta
func (p *Policy) MatchesSaleType(st saletype.SaleType) bool {
	return p.SaleTypeFilter == SaleTypeFilterAll || p.SaleTypeFilter == string(st)
}

// MatchesAttendant indica si la política alcanza al atendente
func (p *Policy) MatchesAttendant(attendantID uuid.UUID) bool {
	if p.Scope != ScopeUser {
		return true
	}
	return p.AttendantID != nil && *p.AttendantID == attendantID
}

// MatchesProduct indica si la política alcanza al producto
func (p *Policy) MatchesProduct(productID *uuid.UUID) bool {
	if p.Scope != ScopeProduct {
		return true
	}
	return p.ProductID != nil && productID != nil && *p.ProductID == *productID
}

// Specificity orden de especificidad: user > product > all
func (p *Policy) Specificity() int {
	switch p.Scope {
	case ScopeUser:
		return 3
	case ScopeProduct:
		return 2
	default:
		return 1
	}
}

func isWeekend(date time.Time) bool {
	wd := date.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
