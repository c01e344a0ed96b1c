package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cartfolio/insights/models"
)

func TestFetchAll(t *testing.T) {
	t.Run("Returns raw records on success", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/products", r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode([]map[string]any{
				{"product_id": "P1", "name": "Widget", "price": "9.99"},
				{"item_id": "B1", "product_title": "Lamp"},
			})
		}))
		defer srv.Close()

		records, err := NewClient(srv.URL).FetchAll(context.Background())

		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, "P1", records[0]["product_id"])
		assert.Equal(t, "B1", records[1]["item_id"])
	})

	t.Run("Error status signals source unavailable", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}))
		defer srv.Close()

		records, err := NewClient(srv.URL).FetchAll(context.Background())

		assert.ErrorIs(t, err, ErrSourceUnavailable)
		assert.Empty(t, records)
	})

	t.Run("Unreachable endpoint signals source unavailable", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close() // nothing listening anymore

		records, err := NewClient(srv.URL).FetchAll(context.Background())

		assert.ErrorIs(t, err, ErrSourceUnavailable)
		assert.Empty(t, records)
	})

	t.Run("Malformed body signals source unavailable", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("{not json"))
		}))
		defer srv.Close()

		_, err := NewClient(srv.URL).FetchAll(context.Background())

		assert.ErrorIs(t, err, ErrSourceUnavailable)
	})
}

func TestFetchByID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/products/P1":
			json.NewEncoder(w).Encode(map[string]any{"product_id": "P1", "name": "Widget"})
		default:
			http.Error(w, "not found", http.StatusNotFound)
		}
	}))
	defer srv.Close()

	client := NewClient(srv.URL)

	record, err := client.FetchByID(context.Background(), "P1")
	require.NoError(t, err)
	assert.Equal(t, "Widget", record["name"])

	_, err = client.FetchByID(context.Background(), "P9")
	assert.ErrorIs(t, err, models.ErrProductNotFound)
}
