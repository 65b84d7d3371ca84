package entity

import "errors"

var (
	ErrClientNotFound       = errors.New("client not found")
	ErrClientInactive       = errors.New("client is not active")
	ErrUnknownPaymentMethod = errors.New("unknown payment method")
)
