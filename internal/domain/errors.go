package domain

import "errors"

var (
	// ErrInvalidVariant: the storage is not one of the record's storages.
	ErrInvalidVariant = errors.New("invalid variant")
	// ErrPricingNotConfigured: no buy price for the storage+condition.
	ErrPricingNotConfigured = errors.New("pricing not configured for this variant")
	ErrNotFound             = errors.New("phone not found")
	ErrDuplicate            = errors.New("phone with this brand and model already exists")
	ErrNoPrices             = errors.New("no prices for model")
	ErrInvalidRecord        = errors.New("invalid phone record")
	// ErrInvalidInput: a request field failed validation.
	ErrInvalidInput = errors.New("invalid input")
	// ErrAmbiguousPrice: a source supplied 0 or a negative number instead of null for "not offered".
	ErrAmbiguousPrice = errors.New("ambiguous price: use null for variants not offered")
)
