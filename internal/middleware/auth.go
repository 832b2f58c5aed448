package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"tradedesk/internal/domain"
)

// SessionCookieName carries the opaque session token
const SessionCookieName = "session"

// SessionMiddleware resolves the request to Anonymous or
// Authenticated(userId, role). Proof of authentication is either the
// session cookie or a Bearer token minted by the external identity
// provider; both land in the same context keys.
func SessionMiddleware(store domain.SessionStore, principals *PrincipalVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// Provider-issued principal
			if authHeader := c.Request().Header.Get("Authorization"); authHeader != "" && principals != nil {
				parts := strings.Split(authHeader, " ")
				if len(parts) != 2 || parts[0] != "Bearer" {
					return echo.NewHTTPError(http.StatusUnauthorized, "Invalid authorization header format")
				}

				userID, role, err := principals.Verify(parts[1])
				if err != nil {
					return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
				}

				c.Set("user_id", userID)
				c.Set("role", role)
				return next(c)
			}

			// Locally-issued session
			cookie, err := c.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				return rejectAnonymous(c)
			}

			sess, err := store.Get(c.Request().Context(), cookie.Value)
			if errors.Is(err, domain.ErrSessionNotFound) {
				// Absent, expired or tampered: all the same outcome
				return rejectAnonymous(c)
			}
			if err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, "Session store unavailable")
			}

			c.Set("user_id", sess.UserID)
			c.Set("role", sess.Role)

			return next(c)
		}
	}
}

// RequireRole gates a route on domain.CanAccess. Failing the check is
// 403, distinct from the 401/redirect an anonymous request gets.
func RequireRole(required string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get("role").(string)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "User role not found in context")
			}

			if !domain.CanAccess(role, required) {
				return echo.NewHTTPError(http.StatusForbidden, fmt.Sprintf("%s access required", required))
			}

			return next(c)
		}
	}
}

// rejectAnonymous sends browsers to the login page and gives API
// clients a bare 401.
func rejectAnonymous(c echo.Context) error {
	if strings.HasPrefix(c.Request().URL.Path, "/api") {
		return echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
	}
	return c.Redirect(http.StatusFound, "/login")
}

// GetUserID extracts the authenticated user ID from echo context
func GetUserID(c echo.Context) (uuid.UUID, error) {
	userID, ok := c.Get("user_id").(uuid.UUID)
	if !ok {
		return uuid.Nil, fmt.Errorf("user_id not found in context")
	}
	return userID, nil
}

// GetUserRole extracts the authenticated role from echo context
func GetUserRole(c echo.Context) (string, error) {
	role, ok := c.Get("role").(string)
	if !ok {
		return "", fmt.Errorf("role not found in context")
	}
	return role, nil
}
