package analytics

import (
	"github.com/rs/zerolog"

	"github.com/cartfolio/insights/models"
)

// ProductReader reads the persisted product snapshot.
type ProductReader interface {
	GetAll() ([]models.Product, error)
}

// SalesReader reads the persisted order snapshot.
type SalesReader interface {
	GetAllOrders() ([]models.Order, error)
	GetAllItems() ([]models.OrderItem, error)
}

// Service is the aggregation entry point for the presentation layer. Reads
// are non-blocking with respect to ingestion: a snapshot taken mid-upsert is
// acceptable, bounded staleness comes from the cache.
type Service struct {
	products ProductReader
	sales    SalesReader
	cache    *Cache
	log      zerolog.Logger
}

func NewService(products ProductReader, sales SalesReader, cache *Cache, log zerolog.Logger) *Service {
	return &Service{products: products, sales: sales, cache: cache, log: log}
}

func (s *Service) Dashboard(f Filter) (*Dashboard, error) {
	if d, ok := s.cache.Get(f.Key()); ok {
		return d, nil
	}

	products, orders, items, err := s.snapshot()
	if err != nil {
		return nil, err
	}

	d := Aggregate(products, orders, items, f)
	s.cache.Add(f.Key(), d)
	s.log.Debug().Str("filter", f.Key()).Msg("dashboard recomputed")
	return d, nil
}

func (s *Service) FilterValues() (*FilterValues, error) {
	products, orders, items, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return AvailableFilters(products, orders, items), nil
}

// Invalidate drops cached dashboards; called after a successful ingestion.
func (s *Service) Invalidate() {
	s.cache.Invalidate()
}

func (s *Service) snapshot() ([]models.Product, []models.Order, []models.OrderItem, error) {
	products, err := s.products.GetAll()
	if err != nil {
		return nil, nil, nil, err
	}
	orders, err := s.sales.GetAllOrders()
	if err != nil {
		return nil, nil, nil, err
	}
	items, err := s.sales.GetAllItems()
	if err != nil {
		return nil, nil, nil, err
	}
	return products, orders, items, nil
}
