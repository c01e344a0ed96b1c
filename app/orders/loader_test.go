package orders

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeOrderFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "orders.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("Parses well-formed rows", func(t *testing.T) {
		path := writeOrderFile(t,
			"order_id,customer_id,product_id,order_date,quantity\n"+
				"O1,C1,P1,2024-01-01,3\n"+
				"O2,C2,P2,2024-01-02 13:45:00,1\n")

		lines, err := NewLoader(path, zerolog.Nop()).Load()

		require.NoError(t, err)
		require.Len(t, lines, 2)
		assert.Equal(t, "O1", lines[0].OrderID)
		assert.Equal(t, "C1", lines[0].CustomerID)
		assert.Equal(t, "P1", lines[0].ProductID)
		assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), lines[0].OrderDate)
		assert.Equal(t, 3, lines[0].Quantity)
		assert.Equal(t, time.Date(2024, 1, 2, 13, 45, 0, 0, time.UTC), lines[1].OrderDate)
	})

	t.Run("Numeric-looking product ids stay strings", func(t *testing.T) {
		path := writeOrderFile(t,
			"order_id,customer_id,product_id,order_date,quantity\n"+
				"O1,C1,101,2024-01-01,2\n")

		lines, err := NewLoader(path, zerolog.Nop()).Load()

		require.NoError(t, err)
		assert.Equal(t, "101", lines[0].ProductID)
	})

	t.Run("Missing file signals SourceMissing", func(t *testing.T) {
		lines, err := NewLoader(filepath.Join(t.TempDir(), "nope.csv"), zerolog.Nop()).Load()

		assert.ErrorIs(t, err, ErrSourceMissing)
		assert.Empty(t, lines)
	})

	t.Run("Unparseable date aborts with MalformedInput", func(t *testing.T) {
		path := writeOrderFile(t,
			"order_id,customer_id,product_id,order_date,quantity\n"+
				"O1,C1,P1,2024-01-01,3\n"+
				"O2,C2,P2,not-a-date,1\n")

		lines, err := NewLoader(path, zerolog.Nop()).Load()

		assert.ErrorIs(t, err, ErrMalformedInput)
		assert.Empty(t, lines, "a malformed row must abort the whole load")
	})

	t.Run("Bad quantity aborts with MalformedInput", func(t *testing.T) {
		path := writeOrderFile(t,
			"order_id,customer_id,product_id,order_date,quantity\n"+
				"O1,C1,P1,2024-01-01,lots\n")

		_, err := NewLoader(path, zerolog.Nop()).Load()

		assert.ErrorIs(t, err, ErrMalformedInput)
	})

	t.Run("Missing column aborts with MalformedInput", func(t *testing.T) {
		path := writeOrderFile(t,
			"order_id,customer_id,order_date,quantity\n"+
				"O1,C1,2024-01-01,3\n")

		_, err := NewLoader(path, zerolog.Nop()).Load()

		assert.ErrorIs(t, err, ErrMalformedInput)
	})

	t.Run("Header-only file yields zero lines", func(t *testing.T) {
		path := writeOrderFile(t, "order_id,customer_id,product_id,order_date,quantity\n")

		lines, err := NewLoader(path, zerolog.Nop()).Load()

		require.NoError(t, err)
		assert.Empty(t, lines)
	})
}
