package orders

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

var (
	// ErrSourceMissing is returned when the order file does not exist. This
	// is recoverable: downstream treats zero orders as a valid batch.
	ErrSourceMissing = errors.New("order source missing")

	// ErrMalformedInput is returned for rows that cannot be parsed. Order
	// integrity matters, so the entire run aborts rather than silently
	// dropping rows.
	ErrMalformedInput = errors.New("malformed order input")
)

// Line is one raw order-line row from the source file.
type Line struct {
	OrderID    string
	CustomerID string
	ProductID  string
	OrderDate  time.Time
	Quantity   int
}

var requiredColumns = []string{"order_id", "customer_id", "product_id", "order_date", "quantity"}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// Loader reads order-line rows from a delimited file.
type Loader struct {
	path string
	log  zerolog.Logger
}

func NewLoader(path string, log zerolog.Logger) *Loader {
	return &Loader{path: path, log: log}
}

func (l *Loader) Load() ([]Line, error) {
	f, err := os.Open(l.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSourceMissing, l.path)
		}
		return nil, err
	}
	defer f.Close()

	lines, err := parse(csv.NewReader(f))
	if err != nil {
		return nil, err
	}
	l.log.Info().Int("lines", len(lines)).Str("path", l.path).Msg("order file loaded")
	return lines, nil
}

func parse(r *csv.Reader) ([]Line, error) {
	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty file", ErrMalformedInput)
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}
	for _, name := range requiredColumns {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrMalformedInput, name)
		}
	}

	var lines []Line
	for row := 2; ; row++ {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", ErrMalformedInput, row, err)
		}

		date, err := parseDate(record[col["order_date"]])
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", ErrMalformedInput, row, err)
		}

		qty, err := strconv.Atoi(strings.TrimSpace(record[col["quantity"]]))
		if err != nil || qty < 0 {
			return nil, fmt.Errorf("%w: row %d: bad quantity %q", ErrMalformedInput, row, record[col["quantity"]])
		}

		lines = append(lines, Line{
			OrderID:    strings.TrimSpace(record[col["order_id"]]),
			CustomerID: strings.TrimSpace(record[col["customer_id"]]),
			// Kept as a string so numeric-looking ids still join against
			// the string-typed catalog ids.
			ProductID: strings.TrimSpace(record[col["product_id"]]),
			OrderDate: date,
			Quantity:  qty,
		})
	}
	return lines, nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", s)
}
