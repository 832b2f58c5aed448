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
)

// UserHandler handles user-related requests
type UserHandler struct {
	userRepo     domain.UserRepository
	activityRepo domain.ActivityLogRepository
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userRepo domain.UserRepository, activityRepo domain.ActivityLogRepository) *UserHandler {
	return &UserHandler{
		userRepo:     userRepo,
		activityRepo: activityRepo,
	}
}

// GetMe returns current user details
// GET /api/user/me
func (h *UserHandler) GetMe(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return UnauthorizedResponse(c, "User not authenticated")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	user, err := h.userRepo.GetByID(ctx, userID)
	if err != nil {
		return InternalServerErrorResponse(c, "Failed to get user details", err)
	}

	return SuccessResponse(c, toUserOutput(user))
}

// GetProfile returns another user's profile. Only the user themselves
// or an admin may view it.
// GET /api/user/profile/:id
func (h *UserHandler) GetProfile(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return UnauthorizedResponse(c, "User not authenticated")
	}
	role, _ := middleware.GetUserRole(c)

	targetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return BadRequestResponse(c, "Invalid user id")
	}

	if targetID != userID && !domain.CanAccess(role, domain.RoleAdmin) {
		return ForbiddenResponse(c, "Cannot view another user's profile")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	user, err := h.userRepo.GetByID(ctx, targetID)
	if errors.Is(err, domain.ErrUserNotFound) {
		return NotFoundResponse(c, "User not found")
	}
	if err != nil {
		return InternalServerErrorResponse(c, "Failed to get user profile", err)
	}

	return SuccessResponse(c, toUserOutput(user))
}

// GetUserDashboard returns the user dashboard payload
// GET /dashboard/user
func (h *UserHandler) GetUserDashboard(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return UnauthorizedResponse(c, "User not authenticated")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	user, err := h.userRepo.GetByID(ctx, userID)
	if err != nil {
		return InternalServerErrorResponse(c, "Failed to load dashboard", err)
	}

	activity, err := h.activityRepo.GetByUser(ctx, userID, 10)
	if err != nil {
		return InternalServerErrorResponse(c, "Failed to load dashboard", err)
	}

	return SuccessResponse(c, map[string]interface{}{
		"title":    "User Dashboard",
		"message":  "Welcome to the User Dashboard!",
		"user":     toUserOutput(user),
		"activity": activity,
	})
}

// toUserOutput converts a domain user to its API shape
func toUserOutput(user *domain.User) dto.UserOutput {
	out := dto.UserOutput{
		ID:              user.ID.String(),
		Username:        user.Username,
		Email:           user.Email,
		Role:            user.Role,
		TradingBalance:  user.TradingBalance,
		AvailableCredit: user.AvailableCredit,
		TotalInvested:   user.TotalInvested,
		CreatedAt:       user.CreatedAt.Format(time.RFC3339),
	}
	if user.LastLogin != nil {
		ll := user.LastLogin.Format(time.RFC3339)
		out.LastLogin = &ll
	}
	return out
}
