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
	"tradedesk/internal/service"
)

// AdminHandler handles admin-only requests
type AdminHandler struct {
	userRepo    domain.UserRepository
	authService *service.AuthService
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(userRepo domain.UserRepository, authService *service.AuthService) *AdminHandler {
	return &AdminHandler{
		userRepo:    userRepo,
		authService: authService,
	}
}

// GetAdminDashboard returns the admin dashboard payload
// GET /dashboard/admin
func (h *AdminHandler) GetAdminDashboard(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	users, err := h.userRepo.GetAll(ctx)
	if err != nil {
		return InternalServerErrorResponse(c, "Failed to load dashboard", err)
	}

	return SuccessResponse(c, map[string]interface{}{
		"title":      "Admin Dashboard",
		"message":    "Welcome to the Admin Dashboard!",
		"user_count": len(users),
	})
}

// ListUsers returns all users
// GET /api/admin/users
func (h *AdminHandler) ListUsers(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	users, err := h.userRepo.GetAll(ctx)
	if err != nil {
		return InternalServerErrorResponse(c, "Failed to list users", err)
	}

	output := make([]dto.UserOutput, 0, len(users))
	for _, user := range users {
		output = append(output, toUserOutput(user))
	}

	return SuccessResponse(c, map[string]interface{}{
		"users": output,
		"count": len(output),
	})
}

// SetRole changes a user's role
// PUT /api/admin/users/:id/role
func (h *AdminHandler) SetRole(c echo.Context) error {
	actingID, err := middleware.GetUserID(c)
	if err != nil {
		return UnauthorizedResponse(c, "User not authenticated")
	}

	targetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return BadRequestResponse(c, "Invalid user id")
	}

	var req dto.SetRoleRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return BadRequestResponse(c, "role is required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.authService.SetRole(ctx, actingID, targetID, req.Role); err != nil {
		if domain.IsValidation(err) {
			return BadRequestResponse(c, err.Error())
		}
		if errors.Is(err, domain.ErrForbidden) {
			return ForbiddenResponse(c, "Admin access required")
		}
		if errors.Is(err, domain.ErrUserNotFound) {
			return NotFoundResponse(c, "User not found")
		}
		return InternalServerErrorResponse(c, "Failed to change role", err)
	}

	return SuccessMessageResponse(c, "Role updated", map[string]string{
		"user_id": targetID.String(),
		"role":    req.Role,
	})
}

// DeleteUser removes a user and invalidates their sessions
// DELETE /api/admin/users/:id
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	actingID, err := middleware.GetUserID(c)
	if err != nil {
		return UnauthorizedResponse(c, "User not authenticated")
	}

	targetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return BadRequestResponse(c, "Invalid user id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.authService.DeleteUser(ctx, actingID, targetID); err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			return ForbiddenResponse(c, "Admin access required")
		}
		if errors.Is(err, domain.ErrUserNotFound) {
			return NotFoundResponse(c, "User not found")
		}
		return InternalServerErrorResponse(c, "Failed to delete user", err)
	}

	return SuccessMessageResponse(c, "User deleted", nil)
}
