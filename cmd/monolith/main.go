// The monolith serves the full API (auth, users, orders) from one database.
// This is the starting topology of the migration: the dual-schema flag
// controls whether writes are mirrored into the per-service schemas that
// the extracted services will eventually own.
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
	log.Info().Bool("use_new_schema", rt.Enabled()).Msg("schema routing configured")

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	httpapi.RegisterMonolith(r, db, rt, cfg)

	if err := server.Run(server.Build(cfg, r)); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}
