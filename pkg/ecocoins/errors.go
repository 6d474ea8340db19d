package ecocoins

import "errors"

// Domain-level error values returned by the coin service.
var (
	ErrInsufficientCoins    = errors.New("insufficient coins")
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrInvalidLimit         = errors.New("invalid limit")
	ErrInvalidServiceConfig = errors.New("invalid service config")
)
