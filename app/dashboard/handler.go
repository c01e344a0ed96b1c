package dashboard

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/cartfolio/insights/app/analytics"
)

type KPIsResponse struct {
	TotalRevenue      float64 `json:"total_revenue"`
	TotalOrders       int     `json:"total_orders"`
	TotalProductsSold int64   `json:"total_products_sold"`
}

type DailyRevenueResponse struct {
	Day     string  `json:"day"`
	Revenue float64 `json:"revenue"`
}

type ProductRevenueResponse struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Category  string  `json:"category,omitempty"`
	Brand     string  `json:"brand,omitempty"`
	Quantity  int64   `json:"quantity"`
	Revenue   float64 `json:"revenue"`
}

type CategoryRevenueResponse struct {
	Category string  `json:"category"`
	Revenue  float64 `json:"revenue"`
}

type ProductSummaryResponse struct {
	ProductID    string  `json:"product_id"`
	Name         string  `json:"name"`
	Category     string  `json:"category,omitempty"`
	Brand        string  `json:"brand,omitempty"`
	Price        float64 `json:"price"`
	Rating       float64 `json:"rating"`
	ReviewsCount int     `json:"reviews_count"`
	QuantitySold int64   `json:"quantity_sold"`
	Revenue      float64 `json:"revenue"`
	OrderCount   int     `json:"order_count"`
}

type Response struct {
	KPIs          KPIsResponse              `json:"kpis"`
	DailySales    []DailyRevenueResponse    `json:"daily_sales"`
	TopProducts   []ProductRevenueResponse  `json:"top_products"`
	CategorySales []CategoryRevenueResponse `json:"category_sales"`
	Products      []ProductSummaryResponse  `json:"products"`
}

type FiltersResponse struct {
	Categories []string `json:"categories"`
	Brands     []string `json:"brands"`
	MinDate    string   `json:"min_date,omitempty"`
	MaxDate    string   `json:"max_date,omitempty"`
}

type AnalyticsProvider interface {
	Dashboard(f analytics.Filter) (*analytics.Dashboard, error)
	FilterValues() (*analytics.FilterValues, error)
}

type DashboardHandler struct {
	svc AnalyticsProvider
}

func NewDashboardHandler(svc AnalyticsProvider) *DashboardHandler {
	return &DashboardHandler{
		svc: svc,
	}
}

func (h *DashboardHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	filter := analytics.Filter{
		Category: r.URL.Query().Get("category"),
		Brand:    r.URL.Query().Get("brand"),
	}

	if fromStr := r.URL.Query().Get("from"); fromStr != "" {
		from, err := time.Parse("2006-01-02", fromStr)
		if err != nil {
			http.Error(w, "Invalid from date", http.StatusBadRequest)
			return
		}
		filter.From = &from
	}
	if toStr := r.URL.Query().Get("to"); toStr != "" {
		to, err := time.Parse("2006-01-02", toStr)
		if err != nil {
			http.Error(w, "Invalid to date", http.StatusBadRequest)
			return
		}
		filter.To = &to
	}

	d, err := h.svc.Dashboard(filter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	// Map response. Empty aggregations come out as empty arrays, not null:
	// no data matching the filter is a valid state, never an error.
	response := Response{
		KPIs: KPIsResponse{
			TotalRevenue:      d.KPIs.TotalRevenue.InexactFloat64(),
			TotalOrders:       d.KPIs.TotalOrders,
			TotalProductsSold: d.KPIs.TotalQuantity,
		},
		DailySales:    make([]DailyRevenueResponse, len(d.DailySales)),
		TopProducts:   make([]ProductRevenueResponse, len(d.TopProducts)),
		CategorySales: make([]CategoryRevenueResponse, len(d.CategorySales)),
		Products:      make([]ProductSummaryResponse, len(d.Products)),
	}
	for i, p := range d.DailySales {
		response.DailySales[i] = DailyRevenueResponse{
			Day:     p.Day,
			Revenue: p.Revenue.InexactFloat64(),
		}
	}
	for i, p := range d.TopProducts {
		response.TopProducts[i] = ProductRevenueResponse{
			ProductID: p.ProductID,
			Name:      p.Name,
			Category:  p.Category,
			Brand:     p.Brand,
			Quantity:  p.Quantity,
			Revenue:   p.Revenue.InexactFloat64(),
		}
	}
	for i, c := range d.CategorySales {
		response.CategorySales[i] = CategoryRevenueResponse{
			Category: c.Category,
			Revenue:  c.Revenue.InexactFloat64(),
		}
	}
	for i, s := range d.Products {
		response.Products[i] = ProductSummaryResponse{
			ProductID:    s.ProductID,
			Name:         s.Name,
			Category:     s.Category,
			Brand:        s.Brand,
			Price:        s.Price.InexactFloat64(),
			Rating:       s.Rating.InexactFloat64(),
			ReviewsCount: s.ReviewsCount,
			QuantitySold: s.QuantitySold,
			Revenue:      s.Revenue.InexactFloat64(),
			OrderCount:   s.OrderCount,
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *DashboardHandler) HandleGetFilters(w http.ResponseWriter, r *http.Request) {
	values, err := h.svc.FilterValues()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	response := FiltersResponse{
		Categories: values.Categories,
		Brands:     values.Brands,
	}
	if response.Categories == nil {
		response.Categories = []string{}
	}
	if response.Brands == nil {
		response.Brands = []string{}
	}
	if !values.MinDate.IsZero() {
		response.MinDate = values.MinDate.Format("2006-01-02")
	}
	if !values.MaxDate.IsZero() {
		response.MaxDate = values.MaxDate.Format("2006-01-02")
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
