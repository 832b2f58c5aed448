package http

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"tradedesk/internal/domain"
)

// StockHandler proxies quote requests to the market-data provider
type StockHandler struct {
	quotes domain.QuoteService
}

// NewStockHandler creates a new StockHandler
func NewStockHandler(quotes domain.QuoteService) *StockHandler {
	return &StockHandler{
		quotes: quotes,
	}
}

// GetBars returns recent daily bars for a symbol
// GET /api/stocks/:symbol
func (h *StockHandler) GetBars(c echo.Context) error {
	symbol := strings.ToUpper(strings.TrimSpace(c.Param("symbol")))
	if symbol == "" {
		return BadRequestResponse(c, "symbol is required")
	}

	limit := 100
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return BadRequestResponse(c, "limit must be a positive integer")
		}
		limit = parsed
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	bars, err := h.quotes.GetBars(ctx, symbol, limit)
	if err != nil {
		return InternalServerErrorResponse(c, "Failed to fetch stock data", err)
	}

	return SuccessResponse(c, map[string]interface{}{
		"symbol": symbol,
		"bars":   bars,
	})
}
