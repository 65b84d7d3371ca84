package entity

import "errors"

var (
	ErrCommissionNotFound   = errors.New("commission not found")
	ErrCommissionNotPending = errors.New("commission is not in pending status")
)
