package currency

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

// Source provides live exchange rates quoted in the base currency:
// each returned rate means "1 unit of base currency equals rate units of
// the keyed currency". Rates must be inverted to convert toward base.
type Source interface {
	FetchBaseQuotedRates(ctx context.Context) (map[string]decimal.Decimal, error)
}

// HTTPSource fetches base-quoted rates from a JSON endpoint.
//
// Expected payload shape:
//
//	{"success": true, "base": "THB", "rates": {"USD": 0.028, "EUR": 0.026}}
//
// A missing "success" field is tolerated; an explicit false is a failure.
type HTTPSource struct {
	url    string
	client *http.Client
}

// NewHTTPSource creates a source for the given endpoint URL.
// The timeout bounds the whole request; zero means 5 seconds.
func NewHTTPSource(url string, timeout time.Duration) *HTTPSource {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HTTPSource{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// FetchBaseQuotedRates performs the HTTP call. Any non-2xx status, transport
// error, malformed body or success=false is returned as an error; the caller
// decides the fallback.
func (s *HTTPSource) FetchBaseQuotedRates(ctx context.Context) (map[string]decimal.Decimal, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build rates request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch rates: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("rates endpoint returned status %d", resp.StatusCode)
	}

	var payload struct {
		Success *bool                      `json:"success"`
		Rates   map[string]decimal.Decimal `json:"rates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode rates payload: %w", err)
	}
	if payload.Success != nil && !*payload.Success {
		return nil, fmt.Errorf("rates endpoint reported failure")
	}
	if len(payload.Rates) == 0 {
		return nil, fmt.Errorf("rates payload contained no rates")
	}

	return payload.Rates, nil
}
