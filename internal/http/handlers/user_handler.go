// User HTTP handlers.
//
// This file exposes REST endpoints for user resources:
//   - GET    /api/users             (list, paginated, admin only)
//   - POST   /api/users             (provision account, admin only)
//   - GET    /api/users/me          (caller's own profile)
//   - PATCH  /api/users/me          (caller's own profile update)
//   - GET    /api/users/batch       (bulk fetch by ids, admin only)
//   - GET    /api/users/{id}        (single fetch, any authenticated user)
//   - PATCH  /api/users/{id}        (profile update, admin or self)
//   - PATCH  /api/users/{id}/password (password change, self only)
//   - DELETE /api/users/{id}        (admin or self)
//
// The single fetch stays open to every authenticated caller because the
// order service resolves owners through it once user data moves out of the
// monolith.
package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ordersbridge/go-order-backend/internal/domain"
	"github.com/ordersbridge/go-order-backend/internal/http/middleware"
	"github.com/ordersbridge/go-order-backend/internal/repo"
	"github.com/ordersbridge/go-order-backend/internal/services"
)

// UserService defines the user profile operations consumed by HTTP handlers.
type UserService interface {
	Create(ctx context.Context, in services.UserCreateInput) (*domain.User, error)
	Get(ctx context.Context, id int) (*domain.User, error)
	ListPage(ctx context.Context, page, pageSize int) ([]domain.User, int64, error)
	GetByIDs(ctx context.Context, ids []int) ([]domain.User, error)
	Update(ctx context.Context, id int, up repo.UserUpdate) (*domain.User, error)
	ChangePassword(ctx context.Context, id int, current, next string) error
	Delete(ctx context.Context, id int) error
}

// Handlers groups the HTTP endpoints for auth, users, and orders. It depends
// on abstract service interfaces to keep transport concerns separate from
// business logic.
type Handlers struct {
	authSvc  AuthService
	userSvc  UserService
	orderSvc OrderService
}

// New constructs a Handlers instance bound to the given services. Any of the
// services may be nil when the corresponding routes are not mounted.
func New(authSvc AuthService, userSvc UserService, orderSvc OrderService) *Handlers {
	return &Handlers{authSvc: authSvc, userSvc: userSvc, orderSvc: orderSvc}
}

// pathID parses the :id path parameter, failing the request on garbage.
func pathID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		fail(c, http.StatusBadRequest, "Invalid id parameter")
		return 0, false
	}
	return id, true
}

// isAdminOrSelf reports whether the caller may act on the given user id.
func isAdminOrSelf(c *gin.Context, id int) bool {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		return false
	}
	return claims.Role == domain.RoleAdmin || claims.UserID == id
}

// UpdateUserRequest is the JSON payload for a partial profile update. Only
// present fields are applied.
type UpdateUserRequest struct {
	Name    *string `json:"name" binding:"omitempty,min=1,max=100"`
	Email   *string `json:"email" binding:"omitempty,email"`
	Phone   *string `json:"phone" binding:"omitempty,max=20"`
	Address *string `json:"address"`
	Role    *string `json:"role" binding:"omitempty,oneof=admin customer"`
}

// ChangePasswordRequest is the JSON payload for a password change.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=8"`
}

// CreateUserRequest is the JSON payload for the admin create endpoint.
// Unlike registration it may assign the role directly.
type CreateUserRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Phone    string `json:"phone" binding:"omitempty,max=20"`
	Address  string `json:"address"`
	Role     string `json:"role" binding:"omitempty,oneof=admin customer"`
}

// CreateUser handles POST /api/users. Admin only; the route guard enforces
// the role before this handler runs.
func (h *Handlers) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	u, err := h.userSvc.Create(c.Request.Context(), services.UserCreateInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
		Address:  req.Address,
		Role:     req.Role,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	ok(c, http.StatusCreated, gin.H{"user": u})
}

// GetMe handles GET /api/users/me, returning the caller's own profile as
// identified by the token claims.
func (h *Handlers) GetMe(c *gin.Context) {
	claims, okClaims := middleware.ClaimsFrom(c)
	if !okClaims {
		fail(c, http.StatusUnauthorized, "You are not logged in! Please log in to get access.")
		return
	}
	u, err := h.userSvc.Get(c.Request.Context(), claims.UserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"user": u})
}

// UpdateMe handles PATCH /api/users/me. The target id comes from the token
// claims; role changes still require admin.
func (h *Handlers) UpdateMe(c *gin.Context) {
	claims, okClaims := middleware.ClaimsFrom(c)
	if !okClaims {
		fail(c, http.StatusUnauthorized, "You are not logged in! Please log in to get access.")
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Role != nil && claims.Role != domain.RoleAdmin && *req.Role != claims.Role {
		fail(c, http.StatusForbidden, "You do not have permission to change roles")
		return
	}

	u, err := h.userSvc.Update(c.Request.Context(), claims.UserID, repo.UserUpdate{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
		Role:    req.Role,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"user": u})
}

// ListUsers handles GET /api/users.
func (h *Handlers) ListUsers(c *gin.Context) {
	page, limit := clampPagination(c)
	users, total, err := h.userSvc.ListPage(c.Request.Context(), page, limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	okPage(c, gin.H{"users": users}, NewPagination(page, limit, total))
}

// GetUsersBatch handles GET /api/users/batch?ids=1,2,3. Unknown ids are
// silently omitted from the result.
func (h *Handlers) GetUsersBatch(c *gin.Context) {
	raw := strings.TrimSpace(c.Query("ids"))
	if raw == "" {
		fail(c, http.StatusBadRequest, "ids query parameter is required")
		return
	}

	var ids []int
	for _, part := range strings.Split(raw, ",") {
		id, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || id < 1 {
			fail(c, http.StatusBadRequest, "ids must be a comma-separated list of positive integers")
			return
		}
		ids = append(ids, id)
	}

	users, err := h.userSvc.GetByIDs(c.Request.Context(), ids)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if users == nil {
		users = []domain.User{}
	}
	ok(c, http.StatusOK, gin.H{"users": users})
}

// GetUser handles GET /api/users/:id.
func (h *Handlers) GetUser(c *gin.Context) {
	id, okID := pathID(c)
	if !okID {
		return
	}
	u, err := h.userSvc.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"user": u})
}

// UpdateUser handles PATCH /api/users/:id. Role changes are reserved for
// admins; everything else is admin-or-self.
func (h *Handlers) UpdateUser(c *gin.Context) {
	id, okID := pathID(c)
	if !okID {
		return
	}
	if !isAdminOrSelf(c, id) {
		fail(c, http.StatusForbidden, "You do not have permission to perform this action")
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	claims, _ := middleware.ClaimsFrom(c)
	if req.Role != nil && claims.Role != domain.RoleAdmin {
		fail(c, http.StatusForbidden, "You do not have permission to change roles")
		return
	}

	u, err := h.userSvc.Update(c.Request.Context(), id, repo.UserUpdate{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
		Role:    req.Role,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"user": u})
}

// ChangePassword handles PATCH /api/users/:id/password. Only the account
// owner may change their password; knowing the current one is required.
func (h *Handlers) ChangePassword(c *gin.Context) {
	id, okID := pathID(c)
	if !okID {
		return
	}
	claims, okClaims := middleware.ClaimsFrom(c)
	if !okClaims || claims.UserID != id {
		fail(c, http.StatusForbidden, "You do not have permission to perform this action")
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if err := h.userSvc.ChangePassword(c.Request.Context(), id, req.CurrentPassword, req.NewPassword); err != nil {
		respondServiceError(c, err)
		return
	}
	noContent(c)
}

// DeleteUser handles DELETE /api/users/:id.
func (h *Handlers) DeleteUser(c *gin.Context) {
	id, okID := pathID(c)
	if !okID {
		return
	}
	if !isAdminOrSelf(c, id) {
		fail(c, http.StatusForbidden, "You do not have permission to perform this action")
		return
	}

	if err := h.userSvc.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	noContent(c)
}
