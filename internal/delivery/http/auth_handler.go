package http

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"tradedesk/internal/delivery/http/dto"
	"tradedesk/internal/domain"
	"tradedesk/internal/middleware"
	"tradedesk/internal/service"
)

// AuthHandler handles authentication-related requests
type AuthHandler struct {
	authService  *service.AuthService
	cookieSecure bool
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *service.AuthService, cookieSecure bool) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		cookieSecure: cookieSecure,
	}
}

// Register handles user registration
// POST /register
func (h *AuthHandler) Register(c echo.Context) error {
	var req dto.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return BadRequestResponse(c, "Email and a password of at least 6 characters are required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	user, err := h.authService.Register(ctx, req.Username, req.Email, req.Password, req.ConfirmPassword)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return ConflictResponse(c, "Email is already registered")
		}
		if domain.IsValidation(err) {
			return BadRequestResponse(c, err.Error())
		}
		return InternalServerErrorResponse(c, "Failed to register user", err)
	}

	if isFormRequest(c) {
		return c.Redirect(http.StatusFound, "/login")
	}

	return CreatedResponse(c, toUserOutput(user))
}

// Login handles user login
// POST /login
func (h *AuthHandler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return BadRequestResponse(c, "Email and password are required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	user, token, err := h.authService.Login(ctx, req.Email, req.Password)
	if err != nil {
		// One branch for unknown email and wrong password alike
		if errors.Is(err, domain.ErrInvalidCredentials) {
			return UnauthorizedResponse(c, "Invalid credentials")
		}
		return InternalServerErrorResponse(c, "Failed to log in", err)
	}

	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int(domain.SessionTTL.Seconds()),
	})

	if isFormRequest(c) {
		if user.Role == domain.RoleAdmin {
			return c.Redirect(http.StatusFound, "/dashboard/admin")
		}
		return c.Redirect(http.StatusFound, "/dashboard/user")
	}

	out := toUserOutput(user)
	return SuccessResponse(c, dto.LoginResponse{User: &out})
}

// Logout handles user logout
// POST /logout
func (h *AuthHandler) Logout(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return UnauthorizedResponse(c, "User not authenticated")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if cookie, err := c.Cookie(middleware.SessionCookieName); err == nil && cookie.Value != "" {
		if err := h.authService.Logout(ctx, cookie.Value, userID); err != nil {
			return InternalServerErrorResponse(c, "Failed to log out", err)
		}
	}

	// Clear the cookie
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})

	if isFormRequest(c) {
		return c.Redirect(http.StatusFound, "/login")
	}

	return SuccessMessageResponse(c, "Logged out", nil)
}

// GetLoginPage is the login redirect target. Views are rendered by the
// frontend; this only tells API clients where they landed.
// GET /login
func (h *AuthHandler) GetLoginPage(c echo.Context) error {
	return SuccessMessageResponse(c, "Log in via POST /login", nil)
}

// GetRegisterPage mirrors GetLoginPage for registration
// GET /register
func (h *AuthHandler) GetRegisterPage(c echo.Context) error {
	return SuccessMessageResponse(c, "Register via POST /register", nil)
}

// isFormRequest reports whether the request came from a browser form
func isFormRequest(c echo.Context) bool {
	ct := c.Request().Header.Get(echo.HeaderContentType)
	return strings.HasPrefix(ct, echo.MIMEApplicationForm) || strings.HasPrefix(ct, echo.MIMEMultipartForm)
}
