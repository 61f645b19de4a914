// Order HTTP handlers.
//
// This file exposes REST endpoints for order resources:
//   - POST   /api/orders             (create)
//   - GET    /api/orders             (list, paginated, filterable)
//   - GET    /api/orders/{id}        (single fetch)
//   - PATCH  /api/orders/{id}/status (status transition)
//   - DELETE /api/orders/{id}
//   - GET    /api/users/{id}/orders  (nested listing for one account)
//
// Customers only ever see their own orders: list filters are overridden to
// the caller's id, and direct fetches of someone else's order return 403.
// Admins see everything.
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/ordersbridge/go-order-backend/internal/domain"
	"github.com/ordersbridge/go-order-backend/internal/http/middleware"
	"github.com/ordersbridge/go-order-backend/internal/repo"
	"github.com/ordersbridge/go-order-backend/internal/services"
	"github.com/ordersbridge/go-order-backend/internal/utils"
)

// OrderService defines the order operations consumed by HTTP handlers.
type OrderService interface {
	Create(ctx context.Context, userID int, status string, items []services.ItemInput) (*domain.Order, error)
	Get(ctx context.Context, id int) (*domain.Order, error)
	ListPage(ctx context.Context, f repo.OrderFilter, page, pageSize int) ([]domain.Order, int64, error)
	UpdateStatus(ctx context.Context, id int, status string) (*domain.Order, error)
	Delete(ctx context.Context, id int) error
}

// OrderItemRequest is one requested order line.
type OrderItemRequest struct {
	ProductName string          `json:"product_name" binding:"required,min=1,max=100"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
}

// CreateOrderRequest is the JSON payload for creating an order. UserID is
// optional and only honored for admins creating orders on behalf of
// others. An omitted status becomes pending.
type CreateOrderRequest struct {
	UserID int                `json:"user_id"`
	Status string             `json:"status"`
	Items  []OrderItemRequest `json:"items"`
}

// UpdateOrderStatusRequest is the JSON payload for a status transition.
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// clampPagination parses and bounds page and limit query params.
func clampPagination(c *gin.Context) (page, limit int) {
	const (
		defaultPage  = 1
		defaultLimit = 20
		maxLimit     = 100
	)
	page = utils.AtoiDefault(c.Query("page"), defaultPage)
	if page < 1 {
		page = 1
	}
	limit = utils.AtoiDefault(c.Query("limit"), defaultLimit)
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return page, limit
}

// orderCtx builds the request context used for order operations, carrying
// the caller's bearer token so remote user resolution can authenticate.
func orderCtx(c *gin.Context) context.Context {
	return services.WithUpstreamToken(c.Request.Context(), middleware.RawToken(c))
}

// CreateOrder handles POST /api/orders.
func (h *Handlers) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	claims, okClaims := middleware.ClaimsFrom(c)
	if !okClaims {
		fail(c, http.StatusUnauthorized, "You are not logged in! Please log in to get access.")
		return
	}

	target := claims.UserID
	if req.UserID > 0 && req.UserID != claims.UserID {
		if claims.Role != domain.RoleAdmin {
			fail(c, http.StatusForbidden, "You do not have permission to perform this action")
			return
		}
		target = req.UserID
	}

	items := make([]services.ItemInput, len(req.Items))
	for i, it := range req.Items {
		items[i] = services.ItemInput{ProductName: it.ProductName, Quantity: it.Quantity, Price: it.Price}
	}

	o, err := h.orderSvc.Create(orderCtx(c), target, req.Status, items)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	ok(c, http.StatusCreated, gin.H{"order": o})
}

// ListOrders handles GET /api/orders. Supports user_id and status filters;
// non-admin callers are pinned to their own orders regardless of the
// user_id they asked for.
func (h *Handlers) ListOrders(c *gin.Context) {
	claims, okClaims := middleware.ClaimsFrom(c)
	if !okClaims {
		fail(c, http.StatusUnauthorized, "You are not logged in! Please log in to get access.")
		return
	}

	f := repo.OrderFilter{
		UserID: utils.AtoiDefault(c.Query("user_id"), 0),
		Status: c.Query("status"),
	}
	if claims.Role != domain.RoleAdmin {
		f.UserID = claims.UserID
	}
	if f.Status != "" && !domain.ValidStatus(f.Status) {
		fail(c, http.StatusBadRequest, "Invalid order status")
		return
	}

	page, limit := clampPagination(c)
	orders, total, err := h.orderSvc.ListPage(orderCtx(c), f, page, limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	okPage(c, gin.H{"orders": orders}, NewPagination(page, limit, total))
}

// ListUserOrders handles GET /api/users/:id/orders, the nested listing for
// one account. Admin or the account owner only.
func (h *Handlers) ListUserOrders(c *gin.Context) {
	id, okID := pathID(c)
	if !okID {
		return
	}
	if !isAdminOrSelf(c, id) {
		fail(c, http.StatusForbidden, "You do not have permission to perform this action")
		return
	}

	f := repo.OrderFilter{UserID: id, Status: c.Query("status")}
	if f.Status != "" && !domain.ValidStatus(f.Status) {
		fail(c, http.StatusBadRequest, "Invalid order status")
		return
	}

	page, limit := clampPagination(c)
	orders, total, err := h.orderSvc.ListPage(orderCtx(c), f, page, limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	okPage(c, gin.H{"orders": orders}, NewPagination(page, limit, total))
}

// GetOrder handles GET /api/orders/:id.
func (h *Handlers) GetOrder(c *gin.Context) {
	id, okID := pathID(c)
	if !okID {
		return
	}

	o, err := h.orderSvc.Get(orderCtx(c), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if !isAdminOrSelf(c, o.UserID) {
		fail(c, http.StatusForbidden, "You do not have permission to perform this action")
		return
	}
	ok(c, http.StatusOK, gin.H{"order": o})
}

// UpdateOrderStatus handles PATCH /api/orders/:id/status.
func (h *Handlers) UpdateOrderStatus(c *gin.Context) {
	id, okID := pathID(c)
	if !okID {
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	existing, err := h.orderSvc.Get(orderCtx(c), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if !isAdminOrSelf(c, existing.UserID) {
		fail(c, http.StatusForbidden, "You do not have permission to perform this action")
		return
	}

	o, err := h.orderSvc.UpdateStatus(orderCtx(c), id, req.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"order": o})
}

// DeleteOrder handles DELETE /api/orders/:id.
func (h *Handlers) DeleteOrder(c *gin.Context) {
	id, okID := pathID(c)
	if !okID {
		return
	}

	existing, err := h.orderSvc.Get(orderCtx(c), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if !isAdminOrSelf(c, existing.UserID) {
		fail(c, http.StatusForbidden, "You do not have permission to perform this action")
		return
	}

	if err := h.orderSvc.Delete(orderCtx(c), id); err != nil {
		respondServiceError(c, err)
		return
	}
	noContent(c)
}
