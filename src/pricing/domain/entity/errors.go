package entity

import "errors"

var (
	ErrServiceNotFound     = errors.New("service not found")
	ErrServiceInactive     = errors.New("service is not active")
	ErrNoPricingConfigured = errors.New("no pricing configured for service")
	ErrInvalidQuantity     = errors.New("quantity must be greater than 0")
)
