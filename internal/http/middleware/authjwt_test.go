package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ordersbridge/go-order-backend/internal/auth"
	"github.com/ordersbridge/go-order-backend/internal/domain"
)

func authTestRouter(t *testing.T, tokens *auth.TokenService, extra ...gin.HandlerFunc) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	hs := append([]gin.HandlerFunc{AuthRequired(tokens)}, extra...)
	r.GET("/secure", append(hs, func(c *gin.Context) {
		claims, _ := ClaimsFrom(c)
		c.JSON(http.StatusOK, gin.H{
			"userId": claims.UserID,
			"role":   claims.Role,
			"raw":    RawToken(c),
		})
	})...)
	return r
}

func doAuthed(r *gin.Engine, header string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	r.ServeHTTP(w, req)
	return w
}

func failMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	msg, _ := body["message"].(string)
	return msg
}

func TestAuthRequired_TokenStates(t *testing.T) {
	tokens := auth.NewTokenService("mw-secret", time.Hour)
	r := authTestRouter(t, tokens)

	// Missing header
	w := doAuthed(r, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("missing header = %d", w.Code)
	}
	if got := failMessage(t, w); got != "You are not logged in! Please log in to get access." {
		t.Fatalf("missing-token message = %q", got)
	}

	// Wrong scheme
	w = doAuthed(r, "Basic abc123")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("wrong scheme = %d", w.Code)
	}

	// Garbage token
	w = doAuthed(r, "Bearer not-a-jwt")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("garbage token = %d", w.Code)
	}
	if got := failMessage(t, w); got != "Invalid token. Please log in again." {
		t.Fatalf("invalid-token message = %q", got)
	}

	// Expired token
	expired := auth.NewTokenService("mw-secret", -time.Minute)
	tok, err := expired.Issue(1, "a@b.c", domain.RoleCustomer)
	if err != nil {
		t.Fatalf("issue expired token: %v", err)
	}
	w = doAuthed(r, "Bearer "+tok)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expired token = %d", w.Code)
	}
	if got := failMessage(t, w); got != "Your token has expired! Please log in again." {
		t.Fatalf("expired-token message = %q", got)
	}

	// Valid token: claims and raw token exposed to the handler
	tok, err = tokens.Issue(42, "ok@example.com", domain.RoleAdmin)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	w = doAuthed(r, "Bearer "+tok)
	if w.Code != http.StatusOK {
		t.Fatalf("valid token = %d body=%s", w.Code, w.Body.String())
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if body["userId"] != float64(42) || body["role"] != domain.RoleAdmin || body["raw"] != tok {
		t.Fatalf("handler saw wrong claims: %v", body)
	}
}

func TestRequireRoles(t *testing.T) {
	tokens := auth.NewTokenService("mw-secret", time.Hour)
	r := authTestRouter(t, tokens, RequireRoles(domain.RoleAdmin))

	// Customer is rejected
	tok, err := tokens.Issue(7, "c@example.com", domain.RoleCustomer)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	w := doAuthed(r, "Bearer "+tok)
	if w.Code != http.StatusForbidden {
		t.Fatalf("customer on admin route = %d", w.Code)
	}
	if got := failMessage(t, w); got != "You do not have permission to perform this action" {
		t.Fatalf("forbidden message = %q", got)
	}

	// Admin passes
	tok, err = tokens.Issue(8, "a@example.com", domain.RoleAdmin)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	if w = doAuthed(r, "Bearer "+tok); w.Code != http.StatusOK {
		t.Fatalf("admin on admin route = %d", w.Code)
	}
}

func TestRequireRoles_WithoutAuthRequired(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	// Misordered stack: RequireRoles with no claims falls back to 401
	r.GET("/secure", RequireRoles(domain.RoleAdmin), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without claims, got %d", w.Code)
	}
}

func TestClaimsFrom_And_RawToken_Defaults(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	if _, ok := ClaimsFrom(c); ok {
		t.Fatalf("expected no claims on a bare context")
	}
	if RawToken(c) != "" {
		t.Fatalf("expected empty raw token on a bare context")
	}
}
