package analytics

import (
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cartfolio/insights/models"
)

type stubProducts struct {
	products []models.Product
	calls    int
	err      error
}

func (s *stubProducts) GetAll() ([]models.Product, error) {
	s.calls++
	return s.products, s.err
}

type stubSales struct {
	orders []models.Order
	items  []models.OrderItem
}

func (s *stubSales) GetAllOrders() ([]models.Order, error)    { return s.orders, nil }
func (s *stubSales) GetAllItems() ([]models.OrderItem, error) { return s.items, nil }

func newTestService(products *stubProducts, sales *stubSales, ttl time.Duration) *Service {
	return NewService(products, sales, NewCache(ttl), zerolog.Nop())
}

func TestServiceCachesPerFilter(t *testing.T) {
	products := &stubProducts{products: []models.Product{testProduct("P1", "Widget", "", "", "9.99")}}
	sales := &stubSales{
		orders: []models.Order{testOrder("O1", jan1)},
		items:  []models.OrderItem{testItem("O1", "P1", 3, "9.99")},
	}
	svc := newTestService(products, sales, time.Hour)

	first, err := svc.Dashboard(Filter{})
	require.NoError(t, err)
	second, err := svc.Dashboard(Filter{})
	require.NoError(t, err)

	assert.Same(t, first, second, "identical filters within the TTL hit the cache")
	assert.Equal(t, 1, products.calls)

	_, err = svc.Dashboard(Filter{Category: "Home"})
	require.NoError(t, err)
	assert.Equal(t, 2, products.calls, "a different filter recomputes")
}

func TestServiceInvalidateForcesRecompute(t *testing.T) {
	products := &stubProducts{}
	svc := newTestService(products, &stubSales{}, time.Hour)

	_, err := svc.Dashboard(Filter{})
	require.NoError(t, err)
	svc.Invalidate()
	_, err = svc.Dashboard(Filter{})
	require.NoError(t, err)

	assert.Equal(t, 2, products.calls)
}

func TestServicePropagatesStoreError(t *testing.T) {
	boom := errors.New("store down")
	svc := newTestService(&stubProducts{err: boom}, &stubSales{}, time.Hour)

	_, err := svc.Dashboard(Filter{})

	assert.ErrorIs(t, err, boom)
}

func TestFilterKeyCanonical(t *testing.T) {
	assert.Equal(t, "|||", Filter{}.Key())
	assert.Equal(t, "Home|Acme|2024-01-01|2024-01-02",
		Filter{Category: "Home", Brand: "Acme", From: &jan1, To: &jan2}.Key())
}
