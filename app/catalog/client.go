package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/cartfolio/insights/app/harmonize"
	"github.com/cartfolio/insights/models"
)

// ErrSourceUnavailable is returned when the catalog endpoint cannot be
// reached or answers with an error status. The caller must treat this as
// "ingestion aborted": the store is left untouched.
var ErrSourceUnavailable = errors.New("catalog source unavailable")

// Client fetches raw product records from the upstream catalog endpoint.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// FetchAll returns every raw product record published by the source.
func (c *Client) FetchAll(ctx context.Context) ([]harmonize.Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/products", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("%w: status %d", ErrSourceUnavailable, resp.StatusCode)
	}

	var records []harmonize.Record
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", ErrSourceUnavailable, err)
	}
	return records, nil
}

// FetchByID returns the raw record for one product id, or
// models.ErrProductNotFound when the source does not know the id.
func (c *Client) FetchByID(ctx context.Context, id string) (harmonize.Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/products/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, models.ErrProductNotFound
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("%w: status %d", ErrSourceUnavailable, resp.StatusCode)
	}

	var record harmonize.Record
	if err := json.NewDecoder(resp.Body).Decode(&record); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", ErrSourceUnavailable, err)
	}
	return record, nil
}
