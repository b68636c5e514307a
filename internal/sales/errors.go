package sales

import (
	"errors"
	"strings"

	"jelpapharm/server/internal/loyalty"
	"jelpapharm/server/internal/stock"
)

var (
	// ErrForbidden is returned when the access gate rejects the principal.
	ErrForbidden = errors.New("forbidden")

	// ErrValidation is returned for malformed carts: empty item list,
	// non-positive quantity, negative discount.
	ErrValidation = errors.New("invalid sale request")

	// ErrDuplicateIdentifier is returned once receipt number generation has
	// collided on every permitted retry. Collisions within the bound are
	// retried transparently.
	ErrDuplicateIdentifier = errors.New("duplicate identifier")

	ErrSaleNotFound = errors.New("sale not found")
	ErrAlreadyVoid  = errors.New("sale already void")
)

// IsClientError reports whether the error is the caller's fault (400-class)
// rather than a storage or engine failure.
func IsClientError(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrAlreadyVoid) ||
		errors.Is(err, stock.ErrItemNotFound) ||
		errors.Is(err, stock.ErrItemInactive) ||
		errors.Is(err, stock.ErrInsufficientStock) ||
		errors.Is(err, stock.ErrPrescriptionRequired) ||
		errors.Is(err, loyalty.ErrInsufficientPoints)
}

// IsNotFound reports whether the error names a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrSaleNotFound) ||
		errors.Is(err, stock.ErrItemNotFound) ||
		errors.Is(err, loyalty.ErrCustomerNotFound)
}

// isUniqueViolation sniffs driver-specific unique index errors. SQLite says
// "UNIQUE constraint failed", Postgres "duplicate key value violates unique
// constraint".
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}
