package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"tradedesk/internal/domain"
)

// AlpacaBridge implements QuoteService against the Alpaca market-data
// API. It is a stateless pass-through adapter; responses are reshaped
// and nothing is cached or retried.
type AlpacaBridge struct {
	baseURL    string
	apiKey     string
	apiSecret  string
	httpClient *http.Client
}

// NewAlpacaBridge creates a new market-data bridge
func NewAlpacaBridge(baseURL, apiKey, apiSecret string) domain.QuoteService {
	return &AlpacaBridge{
		baseURL:   baseURL,
		apiKey:    apiKey,
		apiSecret: apiSecret,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type alpacaBar struct {
	Time   string  `json:"t"`
	Open   float64 `json:"o"`
	High   float64 `json:"h"`
	Low    float64 `json:"l"`
	Close  float64 `json:"c"`
	Volume int64   `json:"v"`
}

type barsResponse struct {
	Bars   []alpacaBar `json:"bars"`
	Symbol string      `json:"symbol"`
}

// GetBars fetches recent daily bars for a symbol
func (b *AlpacaBridge) GetBars(ctx context.Context, symbol string, limit int) ([]domain.Bar, error) {
	if limit <= 0 {
		limit = 100
	}

	url := fmt.Sprintf("%s/v2/stocks/%s/bars?timeframe=1Day&limit=%d", b.baseURL, symbol, limit)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("APCA-API-KEY-ID", b.apiKey)
	req.Header.Set("APCA-API-SECRET-KEY", b.apiSecret)

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call market data API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("market data API returned error: status=%d, body=%s", resp.StatusCode, string(body))
	}

	var barsResp barsResponse
	if err := json.NewDecoder(resp.Body).Decode(&barsResp); err != nil {
		return nil, fmt.Errorf("failed to decode market data response: %w", err)
	}

	bars := make([]domain.Bar, 0, len(barsResp.Bars))
	for _, bar := range barsResp.Bars {
		bars = append(bars, domain.Bar{
			Time:   bar.Time,
			Open:   bar.Open,
			High:   bar.High,
			Low:    bar.Low,
			Close:  bar.Close,
			Volume: bar.Volume,
		})
	}

	return bars, nil
}
