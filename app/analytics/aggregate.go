package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cartfolio/insights/models"
)

const topProductsLimit = 10

// KPIs are the headline numbers over the filtered set.
type KPIs struct {
	TotalRevenue  decimal.Decimal
	TotalOrders   int
	TotalQuantity int64
}

// DailyRevenue is one point of the daily revenue series.
type DailyRevenue struct {
	Day     string // calendar day, 2006-01-02
	Revenue decimal.Decimal
}

// ProductRevenue is one entry of the top-products ranking.
type ProductRevenue struct {
	ProductID string
	Name      string
	Category  string
	Brand     string
	Quantity  int64
	Revenue   decimal.Decimal
}

// CategoryRevenue is one slice of the category breakdown.
type CategoryRevenue struct {
	Category string
	Revenue  decimal.Decimal
}

// ProductSummary is one line of the full per-product table. Attribute values
// are the first seen per product; quantity, revenue and order count are
// summed over the filtered rows.
type ProductSummary struct {
	ProductID    string
	Name         string
	Category     string
	Brand        string
	Price        decimal.Decimal
	Rating       decimal.Decimal
	ReviewsCount int
	QuantitySold int64
	Revenue      decimal.Decimal
	OrderCount   int
}

// Dashboard is everything the presentation layer renders for one filter.
type Dashboard struct {
	KPIs          KPIs
	DailySales    []DailyRevenue
	TopProducts   []ProductRevenue
	CategorySales []CategoryRevenue
	Products      []ProductSummary
}

// FilterValues are the choices the presentation layer can offer.
type FilterValues struct {
	Categories []string
	Brands     []string
	MinDate    time.Time
	MaxDate    time.Time
}

// row is one joined order line: OrderItem ⋈ Product ⋈ Order. product is nil
// for orphaned items; such rows are kept with zeroed product attributes.
type row struct {
	productID string
	orderID   string
	orderDate time.Time
	quantity  int64
	revenue   decimal.Decimal
	product   *models.Product
}

// joinRows left-joins items against products and orders and derives
// item_revenue. Rows are dropped only when a structurally required field
// (product_id, order_id, order_date) cannot be resolved; revenue is never
// null because null numeric inputs coerce to 0 before multiplying.
func joinRows(products []models.Product, orders []models.Order, items []models.OrderItem) []row {
	productByID := make(map[string]*models.Product, len(products))
	for i := range products {
		productByID[products[i].ProductID] = &products[i]
	}
	orderByID := make(map[string]*models.Order, len(orders))
	for i := range orders {
		orderByID[orders[i].OrderID] = &orders[i]
	}

	rows := make([]row, 0, len(items))
	for _, item := range items {
		if item.ProductID == "" || item.OrderID == "" {
			continue
		}
		order, ok := orderByID[item.OrderID]
		if !ok || order.OrderDate.IsZero() {
			continue
		}

		qty := int64(item.Quantity)
		if qty < 0 {
			qty = 0
		}
		rows = append(rows, row{
			productID: item.ProductID,
			orderID:   item.OrderID,
			orderDate: order.OrderDate,
			quantity:  qty,
			revenue:   item.UnitPriceAtOrder.Mul(decimal.NewFromInt(qty)),
			product:   productByID[item.ProductID],
		})
	}
	return rows
}

// Aggregate computes the full dashboard over a snapshot. Pure: the same
// snapshot and filter always produce the same result.
func Aggregate(products []models.Product, orders []models.Order, items []models.OrderItem, f Filter) *Dashboard {
	var rows []row
	for _, r := range joinRows(products, orders, items) {
		if f.matches(r) {
			rows = append(rows, r)
		}
	}

	d := &Dashboard{}
	orderIDs := make(map[string]bool)
	daily := make(map[string]decimal.Decimal)
	byCategory := make(map[string]decimal.Decimal)
	summaries := make(map[string]*ProductSummary)
	var productOrder []string
	productOrders := make(map[string]map[string]bool)

	for _, r := range rows {
		d.KPIs.TotalRevenue = d.KPIs.TotalRevenue.Add(r.revenue)
		d.KPIs.TotalQuantity += r.quantity
		orderIDs[r.orderID] = true

		day := r.orderDate.Format("2006-01-02")
		daily[day] = daily[day].Add(r.revenue)

		category := ""
		if r.product != nil && r.product.Category.Valid {
			category = r.product.Category.String
		}
		byCategory[category] = byCategory[category].Add(r.revenue)

		s, ok := summaries[r.productID]
		if !ok {
			s = &ProductSummary{ProductID: r.productID}
			if r.product != nil {
				s.Name = r.product.Name
				s.Category = category
				if r.product.Brand.Valid {
					s.Brand = r.product.Brand.String
				}
				if r.product.Price.Valid {
					s.Price = r.product.Price.Decimal
				}
				if r.product.Rating.Valid {
					s.Rating = r.product.Rating.Decimal
				}
				s.ReviewsCount = r.product.ReviewsCount
			}
			summaries[r.productID] = s
			productOrder = append(productOrder, r.productID)
			productOrders[r.productID] = make(map[string]bool)
		}
		s.QuantitySold += r.quantity
		s.Revenue = s.Revenue.Add(r.revenue)
		productOrders[r.productID][r.orderID] = true
	}
	d.KPIs.TotalOrders = len(orderIDs)

	for id, orderSet := range productOrders {
		summaries[id].OrderCount = len(orderSet)
	}

	days := make([]string, 0, len(daily))
	for day := range daily {
		days = append(days, day)
	}
	sort.Strings(days)
	for _, day := range days {
		d.DailySales = append(d.DailySales, DailyRevenue{Day: day, Revenue: daily[day]})
	}

	for _, id := range productOrder {
		s := summaries[id]
		d.Products = append(d.Products, *s)
		d.TopProducts = append(d.TopProducts, ProductRevenue{
			ProductID: s.ProductID,
			Name:      s.Name,
			Category:  s.Category,
			Brand:     s.Brand,
			Quantity:  s.QuantitySold,
			Revenue:   s.Revenue,
		})
	}
	sort.Slice(d.Products, func(i, j int) bool {
		return d.Products[i].ProductID < d.Products[j].ProductID
	})

	// Revenue descending; equal revenue breaks ties on product_id ascending
	// so the ranking is deterministic.
	sort.Slice(d.TopProducts, func(i, j int) bool {
		if !d.TopProducts[i].Revenue.Equal(d.TopProducts[j].Revenue) {
			return d.TopProducts[i].Revenue.GreaterThan(d.TopProducts[j].Revenue)
		}
		return d.TopProducts[i].ProductID < d.TopProducts[j].ProductID
	})
	if len(d.TopProducts) > topProductsLimit {
		d.TopProducts = d.TopProducts[:topProductsLimit]
	}

	for category, revenue := range byCategory {
		d.CategorySales = append(d.CategorySales, CategoryRevenue{Category: category, Revenue: revenue})
	}
	sort.Slice(d.CategorySales, func(i, j int) bool {
		if !d.CategorySales[i].Revenue.Equal(d.CategorySales[j].Revenue) {
			return d.CategorySales[i].Revenue.GreaterThan(d.CategorySales[j].Revenue)
		}
		return d.CategorySales[i].Category < d.CategorySales[j].Category
	})

	return d
}

// AvailableFilters derives the distinct filter choices from the unfiltered
// joined data.
func AvailableFilters(products []models.Product, orders []models.Order, items []models.OrderItem) *FilterValues {
	v := &FilterValues{}
	categories := make(map[string]bool)
	brands := make(map[string]bool)

	for _, r := range joinRows(products, orders, items) {
		if r.product != nil {
			if r.product.Category.Valid {
				categories[r.product.Category.String] = true
			}
			if r.product.Brand.Valid {
				brands[r.product.Brand.String] = true
			}
		}
		if v.MinDate.IsZero() || r.orderDate.Before(v.MinDate) {
			v.MinDate = r.orderDate
		}
		if r.orderDate.After(v.MaxDate) {
			v.MaxDate = r.orderDate
		}
	}

	for c := range categories {
		v.Categories = append(v.Categories, c)
	}
	for b := range brands {
		v.Brands = append(v.Brands, b)
	}
	sort.Strings(v.Categories)
	sort.Strings(v.Brands)
	return v
}
