package http

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"tradedesk/internal/delivery/http/dto"
	"tradedesk/internal/domain"
	"tradedesk/internal/middleware"
	"tradedesk/internal/usecase"
)

// TradeHandler handles trade-ledger requests
type TradeHandler struct {
	tradingService *usecase.TradingService
}

// NewTradeHandler creates a new TradeHandler
func NewTradeHandler(tradingService *usecase.TradingService) *TradeHandler {
	return &TradeHandler{
		tradingService: tradingService,
	}
}

// CreateTrade records one buy/sell action
// POST /api/trade
func (h *TradeHandler) CreateTrade(c echo.Context) error {
	sessionUserID, err := middleware.GetUserID(c)
	if err != nil {
		return UnauthorizedResponse(c, "User not authenticated")
	}
	role, _ := middleware.GetUserRole(c)

	var req dto.TradeRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return BadRequestResponse(c, "symbol, action (buy/sell), positive quantity and positive price are required")
	}

	// Trades land on the session user unless a broker or admin is
	// acting on someone else's behalf.
	targetID := sessionUserID
	if req.UserID != "" {
		parsed, err := uuid.Parse(req.UserID)
		if err != nil {
			return BadRequestResponse(c, "Invalid userId")
		}
		if parsed != sessionUserID && !domain.CanAccess(role, domain.RoleBroker) {
			return ForbiddenResponse(c, "Cannot trade on behalf of another user")
		}
		targetID = parsed
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	trade, err := h.tradingService.RecordTrade(ctx, targetID, req.Symbol, req.Action, req.Quantity, req.Price)
	if err != nil {
		if domain.IsValidation(err) {
			return BadRequestResponse(c, err.Error())
		}
		if errors.Is(err, domain.ErrInsufficientCredit) {
			return BadRequestResponse(c, "Insufficient available credit")
		}
		if errors.Is(err, domain.ErrUserNotFound) {
			return NotFoundResponse(c, "User not found")
		}
		return InternalServerErrorResponse(c, "Failed to record trade", err)
	}

	return SuccessResponse(c, toTradeOutput(trade))
}

// GetTrades returns the session user's trading history
// GET /api/trades
func (h *TradeHandler) GetTrades(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return UnauthorizedResponse(c, "User not authenticated")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	trades, err := h.tradingService.GetHistory(ctx, userID, 100)
	if err != nil {
		return InternalServerErrorResponse(c, "Failed to get trading history", err)
	}

	output := make([]dto.TradeOutput, 0, len(trades))
	for _, trade := range trades {
		output = append(output, toTradeOutput(trade))
	}

	return SuccessResponse(c, map[string]interface{}{
		"trades": output,
		"count":  len(output),
	})
}

// toTradeOutput converts a domain trade to its API shape
func toTradeOutput(trade *domain.Trade) dto.TradeOutput {
	return dto.TradeOutput{
		ID:          trade.ID.String(),
		UserID:      trade.UserID.String(),
		Symbol:      trade.Symbol,
		Action:      trade.Action,
		Quantity:    trade.Quantity,
		Price:       trade.Price,
		TotalAmount: trade.TotalAmount,
		TradeDate:   trade.TradeDate.Format(time.RFC3339),
	}
}
