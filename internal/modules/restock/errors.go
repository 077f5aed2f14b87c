package restock

import "errors"

var (
	ErrSessionNotFound = errors.New("restock session not found")
	ErrInvalidState    = errors.New("operation not allowed in current state")
	ErrEmptySelection  = errors.New("no items selected")
	ErrUnknownItem     = errors.New("item is not a restock candidate")
	ErrInvalidQuantity = errors.New("quantity must not be negative")
	ErrReportFailed    = errors.New("failed to report broken items")
	ErrSubmitFailed    = errors.New("failed to submit restock requests")
)
