package entity

import "errors"

var (
	ErrPackageNotFound          = errors.New("package not found")
	ErrPackageInactive          = errors.New("package is not active")
	ErrPackageExpired           = errors.New("package is expired")
	ErrInsufficientBalance      = errors.New("insufficient package balance")
	ErrPackageOwnershipMismatch = errors.New("package does not belong to the sale carrier")
	ErrPackageAlreadyConsumed   = errors.New("package has consumed credits and cannot be cancelled")
	ErrInvalidPackageQuantity   = errors.New("package quantity must be greater than 0")
	ErrInvalidPackageAmount     = errors.New("package total paid must be greater than or equal to 0")
	ErrInvalidConsumption       = errors.New("consumption quantity must be greater than 0")
)
