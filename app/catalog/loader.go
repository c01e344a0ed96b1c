package catalog

import (
	"context"
	"database/sql"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/cartfolio/insights/app/harmonize"
	"github.com/cartfolio/insights/models"
)

// Fetcher is the raw catalog source.
type Fetcher interface {
	FetchAll(ctx context.Context) ([]harmonize.Record, error)
}

// Loader fetches, harmonizes and cleans the upstream catalog into a product
// batch ready for upserting.
type Loader struct {
	source Fetcher
	log    zerolog.Logger
}

func NewLoader(source Fetcher, log zerolog.Logger) *Loader {
	return &Loader{source: source, log: log}
}

func (l *Loader) Load(ctx context.Context) ([]models.Product, error) {
	raw, err := l.source.FetchAll(ctx)
	if err != nil {
		return nil, err
	}
	products := Clean(harmonize.Records(raw))
	l.log.Info().
		Int("fetched", len(raw)).
		Int("clean", len(products)).
		Msg("catalog batch loaded")
	return products, nil
}

// Clean validates and deduplicates a harmonized batch:
//
//   - price and rating are coerced to decimal; a value that will not coerce
//     becomes null, the row is kept
//   - reviews_count is coerced to a non-negative integer, defaulting to 0
//   - rows missing product_id or name are dropped
//   - duplicates by product_id keep the last occurrence, output order stays
//     stable relative to the input
func Clean(recs []harmonize.Record) []models.Product {
	products := make([]models.Product, 0, len(recs))
	seen := make(map[string]int, len(recs))

	for _, rec := range recs {
		id := asString(rec[harmonize.FieldProductID])
		name := asString(rec[harmonize.FieldName])
		if id == "" || name == "" {
			continue
		}

		p := models.Product{
			ProductID:    id,
			Name:         name,
			Category:     asNullString(rec[harmonize.FieldCategory]),
			Brand:        asNullString(rec[harmonize.FieldBrand]),
			Price:        asNullDecimal(rec[harmonize.FieldPrice]),
			Rating:       asNullDecimal(rec[harmonize.FieldRating]),
			ReviewsCount: asCount(rec[harmonize.FieldReviewsCount]),
		}

		if i, ok := seen[id]; ok {
			products[i] = p // last occurrence wins
		} else {
			seen[id] = len(products)
			products = append(products, p)
		}
	}
	return products
}

// asString renders an id or display value as a trimmed string. Numeric json
// values come out without a trailing ".0" so they join against string ids.
func asString(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	default:
		return ""
	}
}

func asNullString(v any) sql.NullString {
	s := asString(v)
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func asNullDecimal(v any) decimal.NullDecimal {
	switch t := v.(type) {
	case float64:
		return decimal.NullDecimal{Decimal: decimal.NewFromFloat(t), Valid: true}
	case int:
		return decimal.NullDecimal{Decimal: decimal.NewFromInt(int64(t)), Valid: true}
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(t))
		if err != nil {
			return decimal.NullDecimal{}
		}
		return decimal.NullDecimal{Decimal: d, Valid: true}
	default:
		return decimal.NullDecimal{}
	}
}

func asCount(v any) int {
	var n int
	switch t := v.(type) {
	case float64:
		n = int(t)
	case int:
		n = t
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return 0
		}
		n = parsed
	default:
		return 0
	}
	if n < 0 {
		return 0
	}
	return n
}
