// Package handlers provides HTTP handler implementations for the public API.
//
// This file defines the standard response utilities used across all
// endpoints. Every response shares one envelope so clients can branch on a
// single field:
//
//	HTTP/1.1 200 OK
//	{ "status": "success", "data": { ... }, "pagination": { ... } }
//
//	HTTP/1.1 404 Not Found
//	{ "status": "fail", "message": "Order not found" }
//
//	HTTP/1.1 503 Service Unavailable
//	{ "status": "error", "message": "User service is currently unavailable" }
//
// Client-caused failures (4xx) use "fail"; server-side failures (5xx) use
// "error" and are logged with request context.
package handlers

import (
	"math"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ordersbridge/go-order-backend/internal/http/middleware"
)

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalItems int64 `json:"totalItems"`
	TotalPages int   `json:"totalPages"`
}

// NewPagination computes page metadata for a total item count.
func NewPagination(page, limit int, total int64) Pagination {
	pages := 0
	if limit > 0 {
		pages = int(math.Ceil(float64(total) / float64(limit)))
	}
	return Pagination{Page: page, Limit: limit, TotalItems: total, TotalPages: pages}
}

type envelope struct {
	Status     string      `json:"status"`
	Data       any         `json:"data,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
	Message    string      `json:"message,omitempty"`
}

// ok writes a success envelope with the given payload.
func ok(c *gin.Context, status int, data any) {
	c.JSON(status, envelope{Status: "success", Data: data})
}

// okPage writes a success envelope with payload and pagination metadata.
func okPage(c *gin.Context, data any, p Pagination) {
	c.JSON(http.StatusOK, envelope{Status: "success", Data: data, Pagination: &p})
}

// fail aborts the request with the standard failure envelope. Server errors
// (>= 500) are logged with the request-scoped logger.
func fail(c *gin.Context, status int, msg string) {
	kind := "fail"
	if status >= http.StatusInternalServerError {
		kind = "error"
		middleware.LoggerFrom(c).Error().
			Int("status", status).
			Str("message", msg).
			Msg("api error")
	}
	c.AbortWithStatusJSON(status, envelope{Status: kind, Message: msg})
}

// Fail is the exported variant of fail(), for router-level fallbacks.
func Fail(c *gin.Context, status int, msg string) { fail(c, status, msg) }

// noContent writes an HTTP 204 No Content response.
func noContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
