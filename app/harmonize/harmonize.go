package harmonize

// Canonical product field names. Every upstream catalog source is translated
// into records keyed by exactly this set.
const (
	FieldProductID    = "product_id"
	FieldName         = "name"
	FieldCategory     = "category"
	FieldBrand        = "brand"
	FieldPrice        = "price"
	FieldRating       = "rating"
	FieldReviewsCount = "reviews_count"
)

// Known source identifiers.
const (
	SourceA = "source_a"
	SourceB = "source_b"
)

// Record is a raw field→value product record, either straight from a source
// or in canonical form after translation.
type Record map[string]any

var canonicalFields = []string{
	FieldProductID,
	FieldName,
	FieldCategory,
	FieldBrand,
	FieldPrice,
	FieldRating,
	FieldReviewsCount,
}

// fieldMaps translates each source's field names to the canonical ones,
// keyed by source identifier. Source A already speaks the canonical schema.
var fieldMaps = map[string]map[string]string{
	SourceA: {
		"product_id":    FieldProductID,
		"name":          FieldName,
		"category":      FieldCategory,
		"brand":         FieldBrand,
		"price":         FieldPrice,
		"rating":        FieldRating,
		"reviews_count": FieldReviewsCount,
	},
	SourceB: {
		"item_id":          FieldProductID,
		"product_title":    FieldName,
		"department":       FieldCategory,
		"manufacturer":     FieldBrand,
		"cost":             FieldPrice,
		"avg_review_score": FieldRating,
		"num_reviews":      FieldReviewsCount,
	},
}

// DetectSource fingerprints a raw record by its identity field. Records that
// carry source B's "item_id" use its vocabulary; everything else is assumed
// to already be in source A's (canonical) vocabulary.
func DetectSource(rec Record) string {
	if _, ok := rec["item_id"]; ok {
		return SourceB
	}
	return SourceA
}

// Apply translates one raw record into canonical form. Recognized source
// fields are renamed, unrecognized fields are dropped, and canonical fields
// absent from the input come out nil. No value coercion happens here; that
// is the catalog loader's job.
func Apply(source string, rec Record) Record {
	fields, ok := fieldMaps[source]
	if !ok {
		fields = fieldMaps[SourceA]
	}

	out := make(Record, len(canonicalFields))
	for _, f := range canonicalFields {
		out[f] = nil
	}
	for name, value := range rec {
		if canonical, ok := fields[name]; ok {
			out[canonical] = value
		}
	}
	return out
}

// Records translates a batch, detecting the source of each record
// individually and preserving input order.
func Records(recs []Record) []Record {
	out := make([]Record, len(recs))
	for i, rec := range recs {
		out[i] = Apply(DetectSource(rec), rec)
	}
	return out
}
