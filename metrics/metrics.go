package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Registry struct {
	reg *prometheus.Registry

	RunsStarted      prometheus.Counter
	RunsFailed       prometheus.Counter
	ProductsUpserted prometheus.Counter
	OrdersInserted   prometheus.Counter
	ItemsAppended    prometheus.Counter
	UnresolvedRefs   prometheus.Counter
	RunDurationSec   prometheus.Histogram
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()
	runsStarted := prometheus.NewCounter(prometheus.CounterOpts{Name: "ingest_runs_started_total"})
	runsFailed := prometheus.NewCounter(prometheus.CounterOpts{Name: "ingest_runs_failed_total"})
	productsUpserted := prometheus.NewCounter(prometheus.CounterOpts{Name: "ingest_products_upserted_total"})
	ordersInserted := prometheus.NewCounter(prometheus.CounterOpts{Name: "ingest_orders_inserted_total"})
	itemsAppended := prometheus.NewCounter(prometheus.CounterOpts{Name: "ingest_order_items_appended_total"})
	unresolvedRefs := prometheus.NewCounter(prometheus.CounterOpts{Name: "ingest_unresolved_product_refs_total"})
	runDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "ingest_run_duration_seconds",
		Buckets: prometheus.DefBuckets,
	})

	r.MustRegister(runsStarted, runsFailed, productsUpserted, ordersInserted, itemsAppended, unresolvedRefs, runDuration)
	return &Registry{
		reg:              r,
		RunsStarted:      runsStarted,
		RunsFailed:       runsFailed,
		ProductsUpserted: productsUpserted,
		OrdersInserted:   ordersInserted,
		ItemsAppended:    itemsAppended,
		UnresolvedRefs:   unresolvedRefs,
		RunDurationSec:   runDuration,
	}
}

func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}
