package entity

import "errors"

var (
	ErrSaleNotFound         = errors.New("sale not found")
	ErrSaleNotOpen          = errors.New("sale is not in open status")
	ErrSaleNotConfirmed     = errors.New("sale is not in confirmed status")
	ErrSaleAlreadyCancelled = errors.New("sale is already cancelled")
	ErrSaleMustHaveItems    = errors.New("sale must have at least one item")
	ErrInvalidSaleType      = errors.New("invalid sale type")
	ErrInvalidSaleStatus    = errors.New("invalid sale status")

	ErrClientRequired        = errors.New("client_id is required")
	ErrCarrierRequired       = errors.New("carrier_id of a package-typed client is required")
	ErrClientIsCarrier       = errors.New("sales cannot be billed to a package-typed client")
	ErrClientIsNotCarrier    = errors.New("client is not a package-typed carrier")
	ErrPackageIDRequired     = errors.New("package_id is required for package consumption")
	ErrPaymentMethodRequired = errors.New("payment_method is required")
	ErrInvalidSaleDate       = errors.New("sale_date must have format YYYY-MM-DD")
	ErrInvalidExpiryDate     = errors.New("package_expires_at must be an RFC3339 timestamp")

	ErrProductNameRequired = errors.New("product_name is required")
	ErrInvalidItemQuantity = errors.New("item quantity must be greater than 0")
	ErrInvalidItemPrice    = errors.New("item price must be greater than or equal to 0")
	ErrUnitPriceRequired   = errors.New("unit_price is required for items without a service")
	ErrInvalidDiscount     = errors.New("invalid discount type or value")
	ErrSingleItemRequired  = errors.New("package issue and consumption sales take exactly one item")

	ErrInvalidRefundAmount  = errors.New("refund amount must be greater than 0")
	ErrRefundReasonRequired = errors.New("refund reason is required")
	ErrRefundExceedsTotal   = errors.New("refund exceeds the remaining refundable total")

	ErrForbidden = errors.New("operation not allowed for this attendant")
)
