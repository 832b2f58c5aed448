package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"tradedesk/internal/service"
	"tradedesk/internal/usecase"
)

// testEnv wires the real services and router over in-memory fakes
type testEnv struct {
	e        *echo.Echo
	users    *memUserRepo
	trades   *memTradeRepo
	activity *memActivityRepo
	sessions *memSessionStore
	auth     *service.AuthService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	users := newMemUserRepo()
	trades := newMemTradeRepo()
	activity := newMemActivityRepo()
	sessions := newMemSessionStore()

	authService := service.NewAuthService(users, activity, sessions, 10000)
	tradingService := usecase.NewTradingService(trades)

	e := echo.New()
	e.Validator = NewRequestValidator()

	SetupRoutes(e, &RouterConfig{
		AuthHandler:  NewAuthHandler(authService, false),
		UserHandler:  NewUserHandler(users, activity),
		TradeHandler: NewTradeHandler(tradingService),
		AdminHandler: NewAdminHandler(users, authService),
		StockHandler: NewStockHandler(&fakeQuoteService{}),
		Sessions:     sessions,
	})

	return &testEnv{
		e:        e,
		users:    users,
		trades:   trades,
		activity: activity,
		sessions: sessions,
		auth:     authService,
	}
}

// performJSON sends a JSON request through the router
func performJSON(e *echo.Echo, method, path string, body interface{}, cookie *http.Cookie) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

// performForm sends a form-encoded request through the router
func performForm(e *echo.Echo, method, path string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	if cookie != nil {
		req.AddCookie(cookie)
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

// registerAndLogin creates an account and returns its session cookie
func registerAndLogin(t *testing.T, env *testEnv, email, password string) *http.Cookie {
	t.Helper()

	rec := performJSON(env.e, http.MethodPost, "/register", map[string]string{
		"email":           email,
		"password":        password,
		"confirmPassword": password,
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code, "register failed: %s", rec.Body.String())

	return login(t, env, email, password)
}

// login returns the session cookie for existing credentials
func login(t *testing.T, env *testEnv, email, password string) *http.Cookie {
	t.Helper()

	rec := performJSON(env.e, http.MethodPost, "/login", map[string]string{
		"email":    email,
		"password": password,
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code, "login failed: %s", rec.Body.String())

	for _, c := range rec.Result().Cookies() {
		if c.Name == "session" && c.Value != "" {
			return c
		}
	}
	t.Fatal("no session cookie issued on login")
	return nil
}

// decodeData unmarshals the data field of a standard response
func decodeData(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var resp struct {
		Status string                 `json:"status"`
		Data   map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Data
}
