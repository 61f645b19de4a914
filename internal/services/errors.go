// Package services defines the business logic for users, orders, and
// authentication. This file centralizes common service-level error values
// so that they can be consistently returned by service methods and checked
// by callers.
//
// These errors are intended for internal use by the service layer and
// translation into user-facing messages or HTTP status codes should be
// performed at the handler layer.
package services

import (
	"errors"
	"fmt"
)

var (
	// ErrUserNotFound indicates that the requested user does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailTaken is returned when a registration or profile update would
	// reuse an email address that already belongs to another account.
	ErrEmailTaken = errors.New("email is already in use")

	// ErrInvalidCredentials is returned for login failures. Unknown emails
	// and wrong passwords share this error so responses cannot be used to
	// probe which accounts exist.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrWrongPassword is returned when a password change supplies a
	// current password that does not match.
	ErrWrongPassword = errors.New("current password is incorrect")

	// ErrOrderNotFound indicates that the requested order does not exist.
	ErrOrderNotFound = errors.New("order not found")

	// ErrNoItems is returned when an order is created without any items.
	ErrNoItems = errors.New("order must contain at least one item")

	// ErrInvalidItem is returned when an order item has a non-positive
	// quantity or price.
	ErrInvalidItem = errors.New("order item quantity and price must be positive")

	// ErrInvalidStatus is returned when an order status value is outside
	// the allowed set.
	ErrInvalidStatus = errors.New("invalid order status")

	// ErrUserServiceUnavailable indicates the user service could not be
	// reached at all (connection refused, timeout).
	ErrUserServiceUnavailable = errors.New("user service unavailable")
)

// UpstreamError is returned when the user service answered with a
// non-success status code. It preserves the upstream status so handlers
// can decide how to translate it.
type UpstreamError struct {
	Status int
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("user service responded with status %d", e.Status)
}
