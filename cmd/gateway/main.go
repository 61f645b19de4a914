// The order gateway is the monolith's final form: it keeps serving orders
// locally, resolves order owners through the user service, and relays user
// and auth traffic to that service so clients keep a single entry point.
package main

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/ordersbridge/go-order-backend/internal/config"
	httpapi "github.com/ordersbridge/go-order-backend/internal/http"
	"github.com/ordersbridge/go-order-backend/internal/observability"
	"github.com/ordersbridge/go-order-backend/internal/repo"
	"github.com/ordersbridge/go-order-backend/internal/schema"
	"github.com/ordersbridge/go-order-backend/internal/server"
)

func main() {
	_ = godotenv.Load()
	cfg := config.MustLoad()
	observability.InitLogger(cfg.LogLevel, cfg.LogPretty)

	if cfg.UserServiceURL == "" {
		log.Fatal().Msg("USER_SERVICE_URL is required in the gateway topology")
	}

	ctx := context.Background()
	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, "1.0.0")
	if err != nil {
		log.Fatal().Err(err).Msg("otel setup failed")
	}
	defer func() { _ = shutdownOTel(ctx) }()

	db, err := repo.Open(cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DB.Driver).Msg("database connection failed")
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}

	rt := schema.NewRouter(schema.Mapping{UseNewSchema: cfg.UseNewSchema})
	if err := repo.MigrateMirror(db, rt); err != nil {
		log.Fatal().Err(err).Msg("mirror schema migration failed")
	}

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	if err := httpapi.RegisterOrderGateway(r, db, rt, cfg); err != nil {
		log.Fatal().Err(err).Str("upstream", cfg.UserServiceURL).Msg("gateway wiring failed")
	}
	log.Info().Str("user_service", cfg.UserServiceURL).Msg("proxying users and auth upstream")

	if err := server.Run(server.Build(cfg, r)); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}
