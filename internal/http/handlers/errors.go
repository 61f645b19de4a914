// Package handlers – service error translation
//
// This file maps service-level sentinel errors onto HTTP statuses and
// user-facing messages. Handlers call respondServiceError for any error they
// do not handle specially, keeping the translation table in one place.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ordersbridge/go-order-backend/internal/services"
)

// respondServiceError translates a service error into the standard envelope.
// Unrecognized errors become a generic 500.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUserNotFound):
		fail(c, http.StatusNotFound, "User not found")
	case errors.Is(err, services.ErrOrderNotFound):
		fail(c, http.StatusNotFound, "Order not found")
	case errors.Is(err, services.ErrEmailTaken):
		fail(c, http.StatusConflict, "Email is already in use")
	case errors.Is(err, services.ErrInvalidCredentials):
		fail(c, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, services.ErrWrongPassword):
		fail(c, http.StatusUnauthorized, "Current password is incorrect")
	case errors.Is(err, services.ErrNoItems):
		fail(c, http.StatusBadRequest, "Order must contain at least one item")
	case errors.Is(err, services.ErrInvalidItem):
		fail(c, http.StatusBadRequest, "Order item quantity and price must be positive")
	case errors.Is(err, services.ErrInvalidStatus):
		fail(c, http.StatusBadRequest, "Invalid order status")
	case errors.Is(err, services.ErrUserServiceUnavailable):
		fail(c, http.StatusServiceUnavailable, "User service is currently unavailable")
	default:
		var upstream *services.UpstreamError
		if errors.As(err, &upstream) {
			fail(c, http.StatusBadGateway, "User service request failed")
			return
		}
		fail(c, http.StatusInternalServerError, "Internal server error")
	}
}
