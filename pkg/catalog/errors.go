package catalog

import "errors"

// Domain-level error values returned by catalog helpers.
var (
	ErrInvalidImpactTier = errors.New("invalid carbon impact tier")
	ErrInvalidQuantity   = errors.New("invalid quantity")
	ErrUnknownProduct    = errors.New("unknown product")
)
