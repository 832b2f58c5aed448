package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	custommiddleware "tradedesk/internal/middleware"
	"tradedesk/internal/domain"
)

// RouterConfig holds all dependencies for routing
type RouterConfig struct {
	AuthHandler  *AuthHandler
	UserHandler  *UserHandler
	TradeHandler *TradeHandler
	AdminHandler *AdminHandler
	StockHandler *StockHandler
	Sessions     domain.SessionStore
	Principals   *custommiddleware.PrincipalVerifier
	LoginLimiter echo.MiddlewareFunc // nil disables rate limiting
}

// SetupRoutes configures all HTTP routes
func SetupRoutes(e *echo.Echo, config *RouterConfig) {
	// Middleware
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Skipper: func(c echo.Context) bool {
			return c.Request().URL.Path == "/health"
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestID())
	e.Use(middleware.Secure())

	// Health check
	e.GET("/health", func(c echo.Context) error {
		return SuccessResponse(c, map[string]interface{}{
			"status":  "healthy",
			"service": "tradedesk-api",
		})
	})

	// Public auth routes
	e.GET("/login", config.AuthHandler.GetLoginPage)
	e.GET("/register", config.AuthHandler.GetRegisterPage)

	if config.LoginLimiter != nil {
		e.POST("/login", config.AuthHandler.Login, config.LoginLimiter)
		e.POST("/register", config.AuthHandler.Register, config.LoginLimiter)
	} else {
		e.POST("/login", config.AuthHandler.Login)
		e.POST("/register", config.AuthHandler.Register)
	}

	authRequired := custommiddleware.SessionMiddleware(config.Sessions, config.Principals)

	e.POST("/logout", config.AuthHandler.Logout, authRequired)

	// Role-gated dashboards
	dashboard := e.Group("/dashboard", authRequired)
	{
		dashboard.GET("/user", config.UserHandler.GetUserDashboard)
		dashboard.GET("/admin", config.AdminHandler.GetAdminDashboard, custommiddleware.RequireRole(domain.RoleAdmin))
	}

	// API routes (protected)
	api := e.Group("/api", authRequired)
	{
		api.GET("/user/me", config.UserHandler.GetMe)
		api.GET("/user/profile/:id", config.UserHandler.GetProfile)
		api.POST("/trade", config.TradeHandler.CreateTrade)
		api.GET("/trades", config.TradeHandler.GetTrades)
		api.GET("/stocks/:symbol", config.StockHandler.GetBars)
	}

	// Admin routes
	admin := api.Group("/admin", custommiddleware.RequireRole(domain.RoleAdmin))
	{
		admin.GET("/users", config.AdminHandler.ListUsers)
		admin.PUT("/users/:id/role", config.AdminHandler.SetRole)
		admin.DELETE("/users/:id", config.AdminHandler.DeleteUser)
	}

	// Landing page
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"message": "Welcome to TradeDesk",
			"endpoints": map[string]string{
				"health":   "GET /health",
				"register": "POST /register",
				"login":    "POST /login",
				"trade":    "POST /api/trade",
				"stocks":   "GET /api/stocks/:symbol",
			},
		})
	})
}
