package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/cartfolio/insights/app/analytics"
	"github.com/cartfolio/insights/app/catalog"
	"github.com/cartfolio/insights/app/dashboard"
	"github.com/cartfolio/insights/app/ingest"
	"github.com/cartfolio/insights/app/orders"
	"github.com/cartfolio/insights/metrics"
	"github.com/cartfolio/insights/models"
)

func main() {
	_ = godotenv.Load()
	log := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := gorm.Open(postgres.Open(os.Getenv("DATABASE_DSN")), &gorm.Config{})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := db.AutoMigrate(&models.Product{}, &models.Order{}, &models.OrderItem{}); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate schema")
	}

	cacheTTL := time.Hour
	if v := os.Getenv("CACHE_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			log.Fatal().Err(err).Str("value", v).Msg("invalid CACHE_TTL")
		}
		cacheTTL = ttl
	}

	productsRepo := models.NewProductsRepository(db)
	ordersRepo := models.NewOrdersRepository(db)
	svc := analytics.NewService(productsRepo, ordersRepo, analytics.NewCache(cacheTTL), log)

	reg := metrics.NewRegistry()
	client := catalog.NewClient(envOr("CATALOG_API_URL", "http://127.0.0.1:5000"))
	pipeline := ingest.NewPipeline(
		catalog.NewLoader(client, log),
		orders.NewLoader(envOr("ORDERS_CSV_PATH", "data/orders.csv"), log),
		productsRepo,
		ordersRepo,
		svc,
		reg,
		log,
	)
	runner := func(ctx context.Context) (ingest.Report, error) {
		var report ingest.Report
		err := models.WithIngestLock(db, func() error {
			var err error
			report, err = pipeline.Run(ctx)
			return err
		})
		return report, err
	}

	dashboardHandler := dashboard.NewDashboardHandler(svc)
	ingestHandler := ingest.NewHandler(runner)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /dashboard", dashboardHandler.HandleGet)
	mux.HandleFunc("GET /dashboard/filters", dashboardHandler.HandleGetFilters)
	mux.HandleFunc("POST /ingest", ingestHandler.HandleRun)
	mux.Handle("GET /metrics", reg.Handler())

	addr := envOr("LISTEN_ADDR", ":8080")
	log.Info().Str("addr", addr).Msg("server listening")
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
