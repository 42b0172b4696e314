package payroll

import "errors"

var (
	ErrInvalidRange    = errors.New("period end is before start")
	ErrInvalidDiscount = errors.New("discount value must be positive with at most 2 decimal places")
)
