package analytics

import (
	"fmt"
	"time"
)

// Filter restricts aggregation to a slice of the joined data. Every field is
// optional; set fields combine with AND semantics.
type Filter struct {
	Category string
	Brand    string
	From     *time.Time
	To       *time.Time
}

// Key renders the filter as a canonical cache key.
func (f Filter) Key() string {
	from, to := "", ""
	if f.From != nil {
		from = f.From.Format("2006-01-02")
	}
	if f.To != nil {
		to = f.To.Format("2006-01-02")
	}
	return fmt.Sprintf("%s|%s|%s|%s", f.Category, f.Brand, from, to)
}

func (f Filter) matches(r row) bool {
	if f.Category != "" && (r.product == nil || !r.product.Category.Valid || r.product.Category.String != f.Category) {
		return false
	}
	if f.Brand != "" && (r.product == nil || !r.product.Brand.Valid || r.product.Brand.String != f.Brand) {
		return false
	}
	if f.From != nil && r.orderDate.Before(*f.From) {
		return false
	}
	if f.To != nil && r.orderDate.After(endOfDay(*f.To)) {
		return false
	}
	return true
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}
