package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/cartfolio/insights/app/orders"
	"github.com/cartfolio/insights/metrics"
	"github.com/cartfolio/insights/models"
)

// CatalogLoader yields the cleaned product batch for this run.
type CatalogLoader interface {
	Load(ctx context.Context) ([]models.Product, error)
}

// OrderLoader yields the raw order lines for this run.
type OrderLoader interface {
	Load() ([]orders.Line, error)
}

// ProductStore is the products table boundary.
type ProductStore interface {
	UpsertBatch(products []models.Product) error
}

// OrderStore is the orders + order_items boundary. Both tables commit
// together.
type OrderStore interface {
	InsertBatch(orders []models.Order, items []models.OrderItem) (ordersInserted, itemsAppended int64, err error)
}

// CacheInvalidator is notified after a successful run so stale aggregation
// results are dropped.
type CacheInvalidator interface {
	Invalidate()
}

// Report summarizes one ingestion run.
type Report struct {
	Products       int   `json:"products"`
	OrdersInserted int64 `json:"orders_inserted"`
	ItemsAppended  int64 `json:"items_appended"`
	UnresolvedRefs int   `json:"unresolved_refs"`
}

// Pipeline runs one full-batch ingestion: fetch → clean → upsert. Writes
// happen in two phases matching the source system: the product upsert
// commits first, then orders and items commit together. A phase-two failure
// leaves the committed product batch in place.
type Pipeline struct {
	catalog  CatalogLoader
	orders   OrderLoader
	products ProductStore
	sales    OrderStore
	cache    CacheInvalidator
	metrics  *metrics.Registry
	log      zerolog.Logger
}

func NewPipeline(
	catalog CatalogLoader,
	orderSource OrderLoader,
	products ProductStore,
	sales OrderStore,
	cache CacheInvalidator,
	reg *metrics.Registry,
	log zerolog.Logger,
) *Pipeline {
	return &Pipeline{
		catalog:  catalog,
		orders:   orderSource,
		products: products,
		sales:    sales,
		cache:    cache,
		metrics:  reg,
		log:      log,
	}
}

func (p *Pipeline) Run(ctx context.Context) (Report, error) {
	start := time.Now()
	p.metrics.RunsStarted.Inc()

	report, err := p.run(ctx)
	if err != nil {
		p.metrics.RunsFailed.Inc()
		p.log.Error().Err(err).Msg("ingestion run aborted")
		return report, err
	}

	p.metrics.RunDurationSec.Observe(time.Since(start).Seconds())
	p.log.Info().
		Int("products", report.Products).
		Int64("orders_inserted", report.OrdersInserted).
		Int64("items_appended", report.ItemsAppended).
		Int("unresolved_refs", report.UnresolvedRefs).
		Msg("ingestion run complete")
	return report, nil
}

func (p *Pipeline) run(ctx context.Context) (Report, error) {
	var report Report

	// Both sources are read before anything is written, so a malformed
	// order file aborts with the store untouched.
	products, err := p.catalog.Load(ctx)
	if err != nil {
		return report, err
	}

	lines, err := p.orders.Load()
	if err != nil {
		if !errors.Is(err, orders.ErrSourceMissing) {
			return report, err
		}
		p.log.Warn().Err(err).Msg("no order file, proceeding with zero orders")
		lines = nil
	}

	// Phase 1: product upsert.
	if err := p.products.UpsertBatch(products); err != nil {
		return report, fmt.Errorf("product upsert: %w", err)
	}
	report.Products = len(products)

	// Snapshot prices from the just-loaded batch. A product whose source
	// omitted the price snapshots as 0; it still counts as resolved.
	prices := make(map[string]decimal.Decimal, len(products))
	for _, product := range products {
		price := decimal.Zero
		if product.Price.Valid {
			price = product.Price.Decimal
		}
		prices[product.ProductID] = price
	}

	headers, items := buildOrderBatch(lines, prices, &report, p.log)
	if report.UnresolvedRefs > 0 {
		p.metrics.UnresolvedRefs.Add(float64(report.UnresolvedRefs))
	}

	// Phase 2: orders + items, one transaction. Phase 1 stays committed
	// even if this fails.
	ordersInserted, itemsAppended, err := p.sales.InsertBatch(headers, items)
	if err != nil {
		return report, fmt.Errorf("order insert: %w", err)
	}
	report.OrdersInserted = ordersInserted
	report.ItemsAppended = itemsAppended

	p.metrics.ProductsUpserted.Add(float64(report.Products))
	p.metrics.OrdersInserted.Add(float64(ordersInserted))
	p.metrics.ItemsAppended.Add(float64(itemsAppended))

	if p.cache != nil {
		p.cache.Invalidate()
	}
	return report, nil
}

// buildOrderBatch splits raw lines into deduplicated order headers and
// append-only items with snapshotted prices. The first occurrence of an
// order_id supplies the header; an unknown product_id resolves to a 0.0
// price rather than failing the batch.
func buildOrderBatch(lines []orders.Line, prices map[string]decimal.Decimal, report *Report, log zerolog.Logger) ([]models.Order, []models.OrderItem) {
	var headers []models.Order
	seen := make(map[string]bool, len(lines))
	items := make([]models.OrderItem, 0, len(lines))

	for _, line := range lines {
		if !seen[line.OrderID] {
			seen[line.OrderID] = true
			headers = append(headers, models.Order{
				OrderID:    line.OrderID,
				CustomerID: line.CustomerID,
				OrderDate:  line.OrderDate,
			})
		}

		price, ok := prices[line.ProductID]
		if !ok {
			price = decimal.Zero
			report.UnresolvedRefs++
			log.Warn().
				Str("order_id", line.OrderID).
				Str("product_id", line.ProductID).
				Msg("order line references unknown product, price snapshot falls back to 0")
		}

		items = append(items, models.OrderItem{
			OrderID:          line.OrderID,
			ProductID:        line.ProductID,
			Quantity:         line.Quantity,
			UnitPriceAtOrder: price,
		})
	}
	return headers, items
}
