package apperrors

import "errors"

var (
	ErrInvalidPayload    = errors.New("invalid preview payload")
	ErrPayloadTooLarge   = errors.New("preview payload too large")
	ErrUnknownField      = errors.New("unknown field")
	ErrColumnNotSortable = errors.New("column is not sortable")
	ErrLocaleNotFound    = errors.New("locale not found")
)
