package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/grocerystore/internal/logging"
	"github.com/Skotchmaster/grocerystore/internal/service"
	"github.com/Skotchmaster/grocerystore/internal/transport"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_register")

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", http.StatusBadRequest, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "Registration failed: invalid body")
	}

	if _, err := h.Svc.Register(ctx, req); err != nil {
		return fail(l, "register_error", "Registration failed: ", err)
	}

	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "User registered successfully"})
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", http.StatusBadRequest, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid credentials")
	}

	res, err := h.Svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) || errors.Is(err, service.ErrValidation) {
			l.Warn("login_error", "status", http.StatusBadRequest, "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid credentials")
		}
		return fail(l, "login_error", "", err)
	}

	l.Info("login_success")
	return c.JSON(http.StatusOK, transport.LoginResponse{
		Token: res.Token,
		Email: res.Email,
		Name:  res.Name,
		Role:  res.Role,
	})
}
