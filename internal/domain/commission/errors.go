package commission

import "errors"

var (
	ErrInvalidAmount     = errors.New("extra amount must be a non-negative value in cents")
	ErrAlreadyRecorded   = errors.New("commission already recorded for appointment")
	ErrInvalidPercentage = errors.New("commission percentage must be between 0 and 100 with at most 2 decimal places")
)
