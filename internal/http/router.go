// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, panic recovery, metrics,
// CORS, security headers, and rate limiting.
//
// Three topologies share this wiring:
//   - Monolith: auth, users, and orders served locally from one database.
//   - User service: auth and users only, the extracted microservice.
//   - Order gateway: orders served locally with remote user resolution,
//     while user and auth traffic is proxied to the user service.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/ordersbridge/go-order-backend/internal/auth"
	"github.com/ordersbridge/go-order-backend/internal/config"
	"github.com/ordersbridge/go-order-backend/internal/domain"
	"github.com/ordersbridge/go-order-backend/internal/http/handlers"
	"github.com/ordersbridge/go-order-backend/internal/http/middleware"
	"github.com/ordersbridge/go-order-backend/internal/http/proxy"
	"github.com/ordersbridge/go-order-backend/internal/repo"
	"github.com/ordersbridge/go-order-backend/internal/schema"
	"github.com/ordersbridge/go-order-backend/internal/services"
)

// userRepoShim adapts the repository free functions to the repo interfaces
// expected by the services. It carries the schema router because every
// mutation dual-writes through it. This keeps services decoupled from the
// concrete repo package while reusing existing functions.
type userRepoShim struct{ rt *schema.Router }

func (s userRepoShim) CreateUser(ctx context.Context, db *gorm.DB, u *domain.User) error {
	return repo.CreateUser(ctx, db, s.rt, u)
}

func (s userRepoShim) GetUser(ctx context.Context, db *gorm.DB, id int) (*domain.User, error) {
	return repo.GetUser(ctx, db, id)
}

func (s userRepoShim) GetUserByEmail(ctx context.Context, db *gorm.DB, email string) (*domain.User, error) {
	return repo.GetUserByEmail(ctx, db, email)
}

func (s userRepoShim) ListUsers(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.User, error) {
	return repo.ListUsers(ctx, db, offset, limit)
}

func (s userRepoShim) ListUsersByIDs(ctx context.Context, db *gorm.DB, ids []int) ([]domain.User, error) {
	return repo.ListUsersByIDs(ctx, db, ids)
}

func (s userRepoShim) CountUsers(ctx context.Context, db *gorm.DB) (int64, error) {
	return repo.CountUsers(ctx, db)
}

func (s userRepoShim) UpdateUser(ctx context.Context, db *gorm.DB, id int, up repo.UserUpdate) (*domain.User, error) {
	return repo.UpdateUser(ctx, db, s.rt, id, up)
}

func (s userRepoShim) UpdateUserPassword(ctx context.Context, db *gorm.DB, id int, hash string) error {
	return repo.UpdateUserPassword(ctx, db, s.rt, id, hash)
}

func (s userRepoShim) DeleteUser(ctx context.Context, db *gorm.DB, id int) error {
	return repo.DeleteUser(ctx, db, s.rt, id)
}

// orderRepoShim adapts the order repository free functions the same way.
type orderRepoShim struct{ rt *schema.Router }

func (s orderRepoShim) CreateOrder(ctx context.Context, db *gorm.DB, o *domain.Order, items []domain.OrderItem) error {
	return repo.CreateOrder(ctx, db, s.rt, o, items)
}

func (s orderRepoShim) GetOrder(ctx context.Context, db *gorm.DB, id int) (*domain.Order, error) {
	return repo.GetOrder(ctx, db, id)
}

func (s orderRepoShim) ListOrders(ctx context.Context, db *gorm.DB, f repo.OrderFilter, offset, limit int) ([]domain.Order, error) {
	return repo.ListOrders(ctx, db, f, offset, limit)
}

func (s orderRepoShim) CountOrders(ctx context.Context, db *gorm.DB, f repo.OrderFilter) (int64, error) {
	return repo.CountOrders(ctx, db, f)
}

func (s orderRepoShim) UpdateOrderStatus(ctx context.Context, db *gorm.DB, id int, status string) (*domain.Order, error) {
	return repo.UpdateOrderStatus(ctx, db, s.rt, id, status)
}

func (s orderRepoShim) DeleteOrder(ctx context.Context, db *gorm.DB, id int) error {
	return repo.DeleteOrder(ctx, db, s.rt, id)
}

// useCore installs the shared middleware stack, the health and metrics
// endpoints, and the router fallbacks.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. RedactingLogger: structured logs with credential scrubbing
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Metrics
//  7. Rate limiter (per user/IP)
//  8. CORS, security headers, gzip
func useCore(r *gin.Engine, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))
	r.Use(middleware.RequestID())
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{}))
	r.Use(middleware.Recovery())
	r.Use(limitBody(1 << 20))
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByUserOrIP())
	r.Use(rl.Handler())

	if len(cfg.CORS.AllowedOrigins) == 0 {
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      false,
		EnablePolicy: true,
	}))
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, "Route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, "Method not allowed")
	})

	// Liveness stays local in every topology, including behind the gateway.
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "success"}) })
}

// mountAuth attaches registration and login under /auth.
func mountAuth(api *gin.RouterGroup, h *handlers.Handlers) {
	api.POST("/auth/register", h.Register)
	api.POST("/auth/login", h.Login)
}

// mountUsers attaches the user routes under /users.
func mountUsers(api *gin.RouterGroup, h *handlers.Handlers, tokens *auth.TokenService) {
	users := api.Group("/users", middleware.AuthRequired(tokens))
	{
		users.GET("", middleware.RequireRoles(domain.RoleAdmin), h.ListUsers)
		users.POST("", middleware.RequireRoles(domain.RoleAdmin), h.CreateUser)
		// Static segments win over :id, so /me never parses as an id.
		users.GET("/me", h.GetMe)
		users.PATCH("/me", h.UpdateMe)
		users.GET("/batch", middleware.RequireRoles(domain.RoleAdmin), h.GetUsersBatch)
		users.GET("/:id", h.GetUser)
		users.PATCH("/:id", h.UpdateUser)
		users.PATCH("/:id/password", h.ChangePassword)
		users.DELETE("/:id", h.DeleteUser)
	}
}

// mountOrders attaches the order routes under /orders.
func mountOrders(api *gin.RouterGroup, h *handlers.Handlers, tokens *auth.TokenService) {
	orders := api.Group("/orders", middleware.AuthRequired(tokens))
	{
		orders.POST("", h.CreateOrder)
		orders.GET("", h.ListOrders)
		orders.GET("/:id", h.GetOrder)
		orders.PATCH("/:id/status", h.UpdateOrderStatus)
		orders.DELETE("/:id", h.DeleteOrder)
	}
}

// RegisterMonolith mounts the full API: auth, users, and orders backed by
// one database, with local user resolution for order aggregation.
func RegisterMonolith(r *gin.Engine, db *gorm.DB, rt *schema.Router, cfg config.Config) {
	useCore(r, cfg)

	tokens := auth.NewTokenService(cfg.JWT.Secret, cfg.JWT.Expiration)
	hasher := auth.NewHasher(cfg.JWT.BcryptCost)
	users := userRepoShim{rt: rt}

	authSvc := services.NewAuthService(db, users, tokens, hasher)
	userSvc := services.NewUserService(db, users, hasher)
	orderSvc := services.NewOrderService(db, orderRepoShim{rt: rt}, &services.LocalUserResolver{DB: db, Repo: users})
	h := handlers.New(authSvc, userSvc, orderSvc)

	api := groupWithPrefix(r, cfg.APIBasePath)
	mountAuth(api, h)
	mountUsers(api, h, tokens)
	mountOrders(api, h, tokens)

	// Nested per-account listing only exists where orders and users share a
	// process. Behind the gateway all /users traffic belongs to the user
	// service; the equivalent there is GET /orders?user_id=N.
	api.GET("/users/:id/orders", middleware.AuthRequired(tokens), h.ListUserOrders)
}

// RegisterUserService mounts only the auth and user routes. This is the
// extracted user service; both sides of the split must share JWT_SECRET so
// tokens issued here verify everywhere.
func RegisterUserService(r *gin.Engine, db *gorm.DB, rt *schema.Router, cfg config.Config) {
	useCore(r, cfg)

	tokens := auth.NewTokenService(cfg.JWT.Secret, cfg.JWT.Expiration)
	hasher := auth.NewHasher(cfg.JWT.BcryptCost)
	users := userRepoShim{rt: rt}

	authSvc := services.NewAuthService(db, users, tokens, hasher)
	userSvc := services.NewUserService(db, users, hasher)
	h := handlers.New(authSvc, userSvc, nil)

	api := groupWithPrefix(r, cfg.APIBasePath)
	mountAuth(api, h)
	mountUsers(api, h, tokens)
}

// RegisterOrderGateway mounts the order routes locally, resolving users
// through the remote user service, and relays user and auth traffic to that
// service untouched.
func RegisterOrderGateway(r *gin.Engine, db *gorm.DB, rt *schema.Router, cfg config.Config) error {
	useCore(r, cfg)

	tokens := auth.NewTokenService(cfg.JWT.Secret, cfg.JWT.Expiration)
	resolver := &services.RemoteUserResolver{
		BaseURL: cfg.UserServiceURL,
		Client:  &http.Client{Timeout: cfg.UpstreamTimeout},
	}
	orderSvc := services.NewOrderService(db, orderRepoShim{rt: rt}, resolver)
	h := handlers.New(nil, nil, orderSvc)

	api := groupWithPrefix(r, cfg.APIBasePath)
	mountOrders(api, h, tokens)

	userProxy, err := proxy.New(cfg.UserServiceURL, "user",
		"User service is currently unavailable", cfg.UpstreamTimeout)
	if err != nil {
		return err
	}
	authProxy, err := proxy.New(cfg.UserServiceURL, "auth",
		"Authentication service is currently unavailable", cfg.UpstreamTimeout)
	if err != nil {
		return err
	}

	api.Any("/users", userProxy.Handler())
	api.Any("/users/*proxyPath", userProxy.Handler())
	api.Any("/auth/*proxyPath", authProxy.Handler())
	return nil
}

// limitBody caps the request body size for all endpoints using
// http.MaxBytesReader. Requests exceeding the cap error on body read.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
