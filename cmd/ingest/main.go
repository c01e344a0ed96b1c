package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/cartfolio/insights/app/catalog"
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

	client := catalog.NewClient(envOr("CATALOG_API_URL", "http://127.0.0.1:5000"))
	pipeline := ingest.NewPipeline(
		catalog.NewLoader(client, log),
		orders.NewLoader(envOr("ORDERS_CSV_PATH", "data/orders.csv"), log),
		models.NewProductsRepository(db),
		models.NewOrdersRepository(db),
		nil, // cache lives in the server process
		metrics.NewRegistry(),
		log,
	)

	err = models.WithIngestLock(db, func() error {
		_, err := pipeline.Run(context.Background())
		return err
	})
	if err != nil {
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
