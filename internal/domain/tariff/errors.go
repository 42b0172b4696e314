package tariff

import "errors"

var (
	ErrInvalidPrice = errors.New("price must not be negative")
	ErrOutOfOrder   = errors.New("effective date precedes the open tariff")
	ErrNoTariff     = errors.New("no tariff in effect")
)
