// Authentication HTTP handlers.
//
// This file exposes REST endpoints for account creation and login:
//   - POST /api/auth/register
//   - POST /api/auth/login
//
// Handlers are transport-thin: they validate input, call the auth service,
// and translate results into HTTP responses.
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ordersbridge/go-order-backend/internal/domain"
	"github.com/ordersbridge/go-order-backend/internal/services"
)

// AuthService defines the authentication operations consumed by HTTP
// handlers. Implementations must honor the provided context.
type AuthService interface {
	// Register creates a new customer account and issues a token.
	Register(ctx context.Context, in services.RegisterInput) (*domain.User, string, error)
	// Login verifies credentials and issues a token.
	Login(ctx context.Context, email, password string) (*domain.User, string, error)
}

// RegisterRequest is the JSON payload for creating an account. A role field
// in the request body is deliberately absent: accounts always start as
// customers.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Phone    string `json:"phone" binding:"omitempty,max=20"`
	Address  string `json:"address"`
}

// LoginRequest is the JSON payload for logging in.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthPayload wraps the authenticated user and their access token.
type AuthPayload struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}

// Register handles POST /api/auth/register.
func (h *Handlers) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	u, tok, err := h.authSvc.Register(c.Request.Context(), services.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
		Address:  req.Address,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	ok(c, http.StatusCreated, AuthPayload{User: u, Token: tok})
}

// Login handles POST /api/auth/login.
func (h *Handlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	u, tok, err := h.authSvc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	ok(c, http.StatusOK, AuthPayload{User: u, Token: tok})
}
