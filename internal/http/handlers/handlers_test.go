package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ordersbridge/go-order-backend/internal/auth"
	"github.com/ordersbridge/go-order-backend/internal/domain"
	"github.com/ordersbridge/go-order-backend/internal/http/middleware"
	"github.com/ordersbridge/go-order-backend/internal/repo"
	"github.com/ordersbridge/go-order-backend/internal/services"
)

type stubAuthSvc struct {
	registerFn func(ctx context.Context, in services.RegisterInput) (*domain.User, string, error)
	loginFn    func(ctx context.Context, email, password string) (*domain.User, string, error)
}

func (s *stubAuthSvc) Register(ctx context.Context, in services.RegisterInput) (*domain.User, string, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthSvc) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	return s.loginFn(ctx, email, password)
}

type stubUserSvc struct {
	createFn func(ctx context.Context, in services.UserCreateInput) (*domain.User, error)
	getFn    func(ctx context.Context, id int) (*domain.User, error)
	updateFn func(ctx context.Context, id int, up repo.UserUpdate) (*domain.User, error)
}

func (s *stubUserSvc) Create(ctx context.Context, in services.UserCreateInput) (*domain.User, error) {
	return s.createFn(ctx, in)
}

func (s *stubUserSvc) Get(ctx context.Context, id int) (*domain.User, error) {
	return s.getFn(ctx, id)
}

func (s *stubUserSvc) ListPage(context.Context, int, int) ([]domain.User, int64, error) {
	return []domain.User{}, 0, nil
}

func (s *stubUserSvc) GetByIDs(context.Context, []int) ([]domain.User, error) {
	return []domain.User{}, nil
}

func (s *stubUserSvc) Update(ctx context.Context, id int, up repo.UserUpdate) (*domain.User, error) {
	return s.updateFn(ctx, id, up)
}

func (s *stubUserSvc) ChangePassword(context.Context, int, string, string) error { return nil }

func (s *stubUserSvc) Delete(context.Context, int) error { return nil }

type stubOrderSvc struct {
	createFn   func(ctx context.Context, userID int, status string, items []services.ItemInput) (*domain.Order, error)
	getFn      func(ctx context.Context, id int) (*domain.Order, error)
	listFn     func(ctx context.Context, f repo.OrderFilter, page, pageSize int) ([]domain.Order, int64, error)
	lastFilter repo.OrderFilter
}

func (s *stubOrderSvc) Create(ctx context.Context, userID int, status string, items []services.ItemInput) (*domain.Order, error) {
	return s.createFn(ctx, userID, status, items)
}

func (s *stubOrderSvc) Get(ctx context.Context, id int) (*domain.Order, error) {
	return s.getFn(ctx, id)
}

func (s *stubOrderSvc) ListPage(ctx context.Context, f repo.OrderFilter, page, pageSize int) ([]domain.Order, int64, error) {
	s.lastFilter = f
	if s.listFn != nil {
		return s.listFn(ctx, f, page, pageSize)
	}
	return []domain.Order{}, 0, nil
}

func (s *stubOrderSvc) UpdateStatus(ctx context.Context, id int, status string) (*domain.Order, error) {
	o, err := s.getFn(ctx, id)
	if err != nil {
		return nil, err
	}
	o.Status = status
	return o, nil
}

func (s *stubOrderSvc) Delete(context.Context, int) error { return nil }

func testTokens() *auth.TokenService {
	return auth.NewTokenService("test-secret", time.Hour)
}

// newRouter mounts the handlers the way the production router does,
// including the auth middleware.
func newRouter(h *Handlers, tokens *auth.TokenService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/api")

	api.POST("/auth/register", h.Register)
	api.POST("/auth/login", h.Login)

	users := api.Group("/users", middleware.AuthRequired(tokens))
	users.GET("", middleware.RequireRoles(domain.RoleAdmin), h.ListUsers)
	users.POST("", middleware.RequireRoles(domain.RoleAdmin), h.CreateUser)
	users.GET("/me", h.GetMe)
	users.PATCH("/me", h.UpdateMe)
	users.GET("/batch", middleware.RequireRoles(domain.RoleAdmin), h.GetUsersBatch)
	users.GET("/:id", h.GetUser)
	users.PATCH("/:id", h.UpdateUser)
	users.PATCH("/:id/password", h.ChangePassword)
	users.DELETE("/:id", h.DeleteUser)

	orders := api.Group("/orders", middleware.AuthRequired(tokens))
	orders.POST("", h.CreateOrder)
	orders.GET("", h.ListOrders)
	orders.GET("/:id", h.GetOrder)
	orders.PATCH("/:id/status", h.UpdateOrderStatus)
	orders.DELETE("/:id", h.DeleteOrder)

	api.GET("/users/:id/orders", middleware.AuthRequired(tokens), h.ListUserOrders)
	return r
}

func bearer(t *testing.T, tokens *auth.TokenService, id int, role string) string {
	t.Helper()
	tok, err := tokens.Issue(id, "u@example.com", role)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return "Bearer " + tok
}

func do(r *gin.Engine, method, path, body, authz string) *httptest.ResponseRecorder {
	var rdr *strings.Reader
	if body == "" {
		rdr = strings.NewReader("")
	} else {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set("Content-Type", "application/json")
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type envelopeBody struct {
	Status     string          `json:"status"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
	Pagination *Pagination     `json:"pagination"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelopeBody {
	t.Helper()
	var e envelopeBody
	if err := json.Unmarshal(w.Body.Bytes(), &e); err != nil {
		t.Fatalf("decode envelope: %v (body %s)", err, w.Body.String())
	}
	return e
}

func TestRegister_Success(t *testing.T) {
	authSvc := &stubAuthSvc{
		registerFn: func(_ context.Context, in services.RegisterInput) (*domain.User, string, error) {
			return &domain.User{ID: 1, Name: in.Name, Email: in.Email, Role: domain.RoleCustomer}, "tok", nil
		},
	}
	r := newRouter(New(authSvc, &stubUserSvc{}, &stubOrderSvc{}), testTokens())

	w := do(r, http.MethodPost, "/api/auth/register",
		`{"name":"Alice","email":"alice@example.com","password":"longenough"}`, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	env := decodeEnvelope(t, w)
	if env.Status != "success" {
		t.Errorf("envelope status = %q", env.Status)
	}
}

func TestRegister_EmailTaken(t *testing.T) {
	authSvc := &stubAuthSvc{
		registerFn: func(context.Context, services.RegisterInput) (*domain.User, string, error) {
			return nil, "", services.ErrEmailTaken
		},
	}
	r := newRouter(New(authSvc, &stubUserSvc{}, &stubOrderSvc{}), testTokens())

	w := do(r, http.MethodPost, "/api/auth/register",
		`{"name":"Alice","email":"alice@example.com","password":"longenough"}`, "")
	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d", w.Code)
	}
	env := decodeEnvelope(t, w)
	if env.Status != "fail" || env.Message != "Email is already in use" {
		t.Errorf("envelope = %+v", env)
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	authSvc := &stubAuthSvc{
		loginFn: func(context.Context, string, string) (*domain.User, string, error) {
			return nil, "", services.ErrInvalidCredentials
		},
	}
	r := newRouter(New(authSvc, &stubUserSvc{}, &stubOrderSvc{}), testTokens())

	w := do(r, http.MethodPost, "/api/auth/login",
		`{"email":"alice@example.com","password":"wrong"}`, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", w.Code)
	}
	env := decodeEnvelope(t, w)
	if env.Status != "fail" || env.Message != "Invalid credentials" {
		t.Errorf("envelope = %+v", env)
	}
}

func TestAuth_TokenStates(t *testing.T) {
	tokens := testTokens()
	orderSvc := &stubOrderSvc{}
	r := newRouter(New(&stubAuthSvc{}, &stubUserSvc{}, orderSvc), tokens)

	// Missing token.
	w := do(r, http.MethodGet, "/api/orders", "", "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("missing token status = %d", w.Code)
	}
	if env := decodeEnvelope(t, w); env.Message != "You are not logged in! Please log in to get access." {
		t.Errorf("message = %q", env.Message)
	}

	// Expired token: issued with a lifetime already in the past.
	expired := auth.NewTokenService("test-secret", -time.Minute)
	tok, err := expired.Issue(1, "a@example.com", domain.RoleCustomer)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	w = do(r, http.MethodGet, "/api/orders", "", "Bearer "+tok)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expired token status = %d", w.Code)
	}
	if env := decodeEnvelope(t, w); env.Message != "Your token has expired! Please log in again." {
		t.Errorf("message = %q", env.Message)
	}

	// Invalid token.
	w = do(r, http.MethodGet, "/api/orders", "", "Bearer garbage")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("invalid token status = %d", w.Code)
	}
	if env := decodeEnvelope(t, w); env.Message != "Invalid token. Please log in again." {
		t.Errorf("message = %q", env.Message)
	}
}

func TestListOrders_CustomerFilterPinnedToSelf(t *testing.T) {
	tokens := testTokens()
	orderSvc := &stubOrderSvc{}
	r := newRouter(New(&stubAuthSvc{}, &stubUserSvc{}, orderSvc), tokens)

	w := do(r, http.MethodGet, "/api/orders?user_id=1", "", bearer(t, tokens, 7, domain.RoleCustomer))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if orderSvc.lastFilter.UserID != 7 {
		t.Errorf("filter user id = %d, want caller's own 7", orderSvc.lastFilter.UserID)
	}

	// Admins keep the filter they asked for.
	w = do(r, http.MethodGet, "/api/orders?user_id=1", "", bearer(t, tokens, 2, domain.RoleAdmin))
	if w.Code != http.StatusOK {
		t.Fatalf("admin status = %d", w.Code)
	}
	if orderSvc.lastFilter.UserID != 1 {
		t.Errorf("admin filter user id = %d, want 1", orderSvc.lastFilter.UserID)
	}
}

func TestGetOrder_ForbiddenForOtherCustomer(t *testing.T) {
	tokens := testTokens()
	orderSvc := &stubOrderSvc{
		getFn: func(_ context.Context, id int) (*domain.Order, error) {
			return &domain.Order{ID: id, UserID: 99}, nil
		},
	}
	r := newRouter(New(&stubAuthSvc{}, &stubUserSvc{}, orderSvc), tokens)

	w := do(r, http.MethodGet, "/api/orders/5", "", bearer(t, tokens, 7, domain.RoleCustomer))
	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d", w.Code)
	}

	w = do(r, http.MethodGet, "/api/orders/5", "", bearer(t, tokens, 99, domain.RoleCustomer))
	if w.Code != http.StatusOK {
		t.Fatalf("owner status = %d", w.Code)
	}

	w = do(r, http.MethodGet, "/api/orders/5", "", bearer(t, tokens, 2, domain.RoleAdmin))
	if w.Code != http.StatusOK {
		t.Fatalf("admin status = %d", w.Code)
	}
}

func TestCreateOrder_EmptyItems(t *testing.T) {
	tokens := testTokens()
	orderSvc := &stubOrderSvc{
		createFn: func(context.Context, int, string, []services.ItemInput) (*domain.Order, error) {
			return nil, services.ErrNoItems
		},
	}
	r := newRouter(New(&stubAuthSvc{}, &stubUserSvc{}, orderSvc), tokens)

	w := do(r, http.MethodPost, "/api/orders", `{"items":[]}`, bearer(t, tokens, 7, domain.RoleCustomer))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
	if env := decodeEnvelope(t, w); env.Message != "Order must contain at least one item" {
		t.Errorf("message = %q", env.Message)
	}
}

func TestCreateOrder_OnBehalfOfOthers(t *testing.T) {
	tokens := testTokens()
	var gotUser int
	orderSvc := &stubOrderSvc{
		createFn: func(_ context.Context, userID int, _ string, _ []services.ItemInput) (*domain.Order, error) {
			gotUser = userID
			return &domain.Order{ID: 1, UserID: userID, Status: domain.StatusPending}, nil
		},
	}
	r := newRouter(New(&stubAuthSvc{}, &stubUserSvc{}, orderSvc), tokens)

	body := `{"user_id":3,"items":[{"product_name":"Widget","quantity":1,"price":"5.00"}]}`

	w := do(r, http.MethodPost, "/api/orders", body, bearer(t, tokens, 7, domain.RoleCustomer))
	if w.Code != http.StatusForbidden {
		t.Fatalf("customer status = %d", w.Code)
	}

	w = do(r, http.MethodPost, "/api/orders", body, bearer(t, tokens, 2, domain.RoleAdmin))
	if w.Code != http.StatusCreated {
		t.Fatalf("admin status = %d, body %s", w.Code, w.Body.String())
	}
	if gotUser != 3 {
		t.Errorf("order created for user %d, want 3", gotUser)
	}
}

func TestUsersBatch_AdminOnly(t *testing.T) {
	tokens := testTokens()
	r := newRouter(New(&stubAuthSvc{}, &stubUserSvc{}, &stubOrderSvc{}), tokens)

	w := do(r, http.MethodGet, "/api/users/batch?ids=1,2", "", bearer(t, tokens, 7, domain.RoleCustomer))
	if w.Code != http.StatusForbidden {
		t.Fatalf("customer status = %d", w.Code)
	}

	w = do(r, http.MethodGet, "/api/users/batch?ids=1,2", "", bearer(t, tokens, 1, domain.RoleAdmin))
	if w.Code != http.StatusOK {
		t.Fatalf("admin status = %d", w.Code)
	}

	w = do(r, http.MethodGet, "/api/users/batch", "", bearer(t, tokens, 1, domain.RoleAdmin))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing ids status = %d", w.Code)
	}

	w = do(r, http.MethodGet, "/api/users/batch?ids=1,abc", "", bearer(t, tokens, 1, domain.RoleAdmin))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad ids status = %d", w.Code)
	}
}

func TestUpdateUser_RoleChangeRequiresAdmin(t *testing.T) {
	tokens := testTokens()
	userSvc := &stubUserSvc{
		updateFn: func(_ context.Context, id int, up repo.UserUpdate) (*domain.User, error) {
			u := &domain.User{ID: id, Name: "Alice", Role: domain.RoleCustomer}
			if up.Role != nil {
				u.Role = *up.Role
			}
			return u, nil
		},
	}
	r := newRouter(New(&stubAuthSvc{}, userSvc, &stubOrderSvc{}), tokens)

	// A customer may edit their own profile but not their role.
	w := do(r, http.MethodPatch, "/api/users/7", `{"role":"admin"}`, bearer(t, tokens, 7, domain.RoleCustomer))
	if w.Code != http.StatusForbidden {
		t.Fatalf("self role change status = %d", w.Code)
	}

	w = do(r, http.MethodPatch, "/api/users/7", `{"name":"Alice B"}`, bearer(t, tokens, 7, domain.RoleCustomer))
	if w.Code != http.StatusOK {
		t.Fatalf("self profile update status = %d, body %s", w.Code, w.Body.String())
	}

	// Another customer's profile is off limits entirely.
	w = do(r, http.MethodPatch, "/api/users/8", `{"name":"X"}`, bearer(t, tokens, 7, domain.RoleCustomer))
	if w.Code != http.StatusForbidden {
		t.Fatalf("other profile update status = %d", w.Code)
	}

	w = do(r, http.MethodPatch, "/api/users/7", `{"role":"admin"}`, bearer(t, tokens, 1, domain.RoleAdmin))
	if w.Code != http.StatusOK {
		t.Fatalf("admin role change status = %d", w.Code)
	}
}

func TestGetUser_AnyAuthenticatedCaller(t *testing.T) {
	tokens := testTokens()
	userSvc := &stubUserSvc{
		getFn: func(_ context.Context, id int) (*domain.User, error) {
			return &domain.User{ID: id, Name: "Bob", Email: "bob@example.com"}, nil
		},
	}
	r := newRouter(New(&stubAuthSvc{}, userSvc, &stubOrderSvc{}), tokens)

	// Customers can read other profiles; the remote order resolver relies
	// on this staying open.
	w := do(r, http.MethodGet, "/api/users/9", "", bearer(t, tokens, 7, domain.RoleCustomer))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestGetUser_NotFound(t *testing.T) {
	tokens := testTokens()
	userSvc := &stubUserSvc{
		getFn: func(context.Context, int) (*domain.User, error) {
			return nil, services.ErrUserNotFound
		},
	}
	r := newRouter(New(&stubAuthSvc{}, userSvc, &stubOrderSvc{}), tokens)

	w := do(r, http.MethodGet, "/api/users/9", "", bearer(t, tokens, 7, domain.RoleCustomer))
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d", w.Code)
	}
	if env := decodeEnvelope(t, w); env.Status != "fail" || env.Message != "User not found" {
		t.Errorf("envelope = %+v", env)
	}
}

func TestPathID_Garbage(t *testing.T) {
	tokens := testTokens()
	r := newRouter(New(&stubAuthSvc{}, &stubUserSvc{}, &stubOrderSvc{}), tokens)

	w := do(r, http.MethodGet, "/api/orders/abc", "", bearer(t, tokens, 7, domain.RoleCustomer))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestListUserOrders_AdminOrSelf(t *testing.T) {
	tokens := testTokens()
	orderSvc := &stubOrderSvc{}
	r := newRouter(New(&stubAuthSvc{}, &stubUserSvc{}, orderSvc), tokens)

	// Owner lists their own orders; filter pinned to the path id.
	w := do(r, http.MethodGet, "/api/users/7/orders", "", bearer(t, tokens, 7, domain.RoleCustomer))
	if w.Code != http.StatusOK {
		t.Fatalf("owner status = %d body=%s", w.Code, w.Body.String())
	}
	if orderSvc.lastFilter.UserID != 7 {
		t.Errorf("filter user id = %d, want 7", orderSvc.lastFilter.UserID)
	}

	// Another customer is rejected.
	w = do(r, http.MethodGet, "/api/users/7/orders", "", bearer(t, tokens, 8, domain.RoleCustomer))
	if w.Code != http.StatusForbidden {
		t.Fatalf("other customer status = %d", w.Code)
	}

	// Admin can list anyone's orders.
	w = do(r, http.MethodGet, "/api/users/7/orders", "", bearer(t, tokens, 1, domain.RoleAdmin))
	if w.Code != http.StatusOK {
		t.Fatalf("admin status = %d", w.Code)
	}
	if orderSvc.lastFilter.UserID != 7 {
		t.Errorf("admin filter user id = %d, want 7", orderSvc.lastFilter.UserID)
	}

	// Bad status filter is rejected before hitting the service.
	w = do(r, http.MethodGet, "/api/users/7/orders?status=bogus", "", bearer(t, tokens, 7, domain.RoleCustomer))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad status filter = %d", w.Code)
	}
}

func TestGetMe_UsesClaimsID(t *testing.T) {
	tokens := testTokens()
	userSvc := &stubUserSvc{
		getFn: func(_ context.Context, id int) (*domain.User, error) {
			return &domain.User{ID: id, Name: "Carol", Email: "carol@example.com"}, nil
		},
	}
	r := newRouter(New(&stubAuthSvc{}, userSvc, &stubOrderSvc{}), tokens)

	// /me must resolve through the token claims, never the :id route.
	w := do(r, http.MethodGet, "/api/users/me", "", bearer(t, tokens, 9, domain.RoleCustomer))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var data struct {
		User domain.User `json:"user"`
	}
	if err := json.Unmarshal(decodeEnvelope(t, w).Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if data.User.ID != 9 {
		t.Errorf("user id = %d, want 9", data.User.ID)
	}

	w = do(r, http.MethodGet, "/api/users/me", "", "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("unauthenticated status = %d", w.Code)
	}
}

func TestUpdateMe_RoleChangeRequiresAdmin(t *testing.T) {
	tokens := testTokens()
	var gotID int
	userSvc := &stubUserSvc{
		updateFn: func(_ context.Context, id int, up repo.UserUpdate) (*domain.User, error) {
			gotID = id
			u := &domain.User{ID: id, Name: "Dana", Role: domain.RoleCustomer}
			if up.Name != nil {
				u.Name = *up.Name
			}
			return u, nil
		},
	}
	r := newRouter(New(&stubAuthSvc{}, userSvc, &stubOrderSvc{}), tokens)

	w := do(r, http.MethodPatch, "/api/users/me", `{"role":"admin"}`, bearer(t, tokens, 4, domain.RoleCustomer))
	if w.Code != http.StatusForbidden {
		t.Fatalf("role escalation status = %d", w.Code)
	}

	// Restating the current role is not an escalation.
	w = do(r, http.MethodPatch, "/api/users/me", `{"name":"Dana B","role":"customer"}`, bearer(t, tokens, 4, domain.RoleCustomer))
	if w.Code != http.StatusOK {
		t.Fatalf("self update status = %d, body %s", w.Code, w.Body.String())
	}
	if gotID != 4 {
		t.Errorf("updated user %d, want 4", gotID)
	}
}

func TestCreateUser_AdminOnly(t *testing.T) {
	tokens := testTokens()
	userSvc := &stubUserSvc{
		createFn: func(_ context.Context, in services.UserCreateInput) (*domain.User, error) {
			role := in.Role
			if role == "" {
				role = domain.RoleCustomer
			}
			return &domain.User{ID: 11, Name: in.Name, Email: in.Email, Role: role}, nil
		},
	}
	r := newRouter(New(&stubAuthSvc{}, userSvc, &stubOrderSvc{}), tokens)

	body := `{"name":"Eve","email":"eve@example.com","password":"longenough","role":"admin"}`

	w := do(r, http.MethodPost, "/api/users", body, bearer(t, tokens, 7, domain.RoleCustomer))
	if w.Code != http.StatusForbidden {
		t.Fatalf("customer status = %d", w.Code)
	}

	w = do(r, http.MethodPost, "/api/users", body, bearer(t, tokens, 1, domain.RoleAdmin))
	if w.Code != http.StatusCreated {
		t.Fatalf("admin status = %d, body %s", w.Code, w.Body.String())
	}
	var data struct {
		User domain.User `json:"user"`
	}
	if err := json.Unmarshal(decodeEnvelope(t, w).Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if data.User.Role != domain.RoleAdmin {
		t.Errorf("role = %q, want admin", data.User.Role)
	}

	w = do(r, http.MethodPost, "/api/users", `{"name":"","email":"bad"}`, bearer(t, tokens, 1, domain.RoleAdmin))
	if w.Code != http.StatusBadRequest {
		t.Errorf("invalid body status = %d", w.Code)
	}
}
