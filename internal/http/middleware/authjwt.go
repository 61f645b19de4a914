// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements bearer-token authentication. Expired tokens get a
// distinct message from invalid ones so clients know to re-authenticate
// instead of treating the failure as a bug.
package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ordersbridge/go-order-backend/internal/auth"
)

const (
	claimsKey   = "authClaims"
	rawTokenKey = "authRawToken"
)

// AuthRequired verifies the Authorization bearer token and stores its claims
// in the Gin context. Requests without a valid token are aborted with 401.
func AuthRequired(tokens *auth.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(raw) == "" {
			abortUnauthorized(c, "You are not logged in! Please log in to get access.")
			return
		}
		raw = strings.TrimSpace(raw)

		claims, err := tokens.Parse(raw)
		if err != nil {
			if errors.Is(err, auth.ErrTokenExpired) {
				abortUnauthorized(c, "Your token has expired! Please log in again.")
				return
			}
			abortUnauthorized(c, "Invalid token. Please log in again.")
			return
		}

		c.Set(claimsKey, claims)
		c.Set(rawTokenKey, raw)
		c.Next()
	}
}

// RequireRoles aborts with 403 unless the authenticated user holds one of
// the given roles. Must run after AuthRequired.
func RequireRoles(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		claims, ok := ClaimsFrom(c)
		if !ok {
			abortUnauthorized(c, "You are not logged in! Please log in to get access.")
			return
		}
		if _, ok := allowed[claims.Role]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"status":  "fail",
				"message": "You do not have permission to perform this action",
			})
			return
		}
		c.Next()
	}
}

// ClaimsFrom returns the verified token claims attached by AuthRequired.
func ClaimsFrom(c *gin.Context) (*auth.Claims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*auth.Claims)
	return claims, ok
}

// RawToken returns the bearer token string attached by AuthRequired, so it
// can be forwarded to upstream services with the caller's identity.
func RawToken(c *gin.Context) string {
	v, ok := c.Get(rawTokenKey)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"status":  "fail",
		"message": msg,
	})
}
