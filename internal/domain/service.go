package domain

import "context"

// Bar is one reshaped candle from the market-data provider
type Bar struct {
	Time   string  `json:"time"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

// QuoteService defines the interface to the external market-data API
type QuoteService interface {
	// GetBars fetches recent daily bars for a symbol
	GetBars(ctx context.Context, symbol string, limit int) ([]Bar, error)
}
