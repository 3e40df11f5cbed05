package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/grocerystore/internal/logging"
	authmw "github.com/Skotchmaster/grocerystore/internal/middleware/auth"
	"github.com/Skotchmaster/grocerystore/internal/service"
	"github.com/Skotchmaster/grocerystore/internal/transport"
)

type UserHTTP struct {
	Svc *service.UserService
}

func (h *UserHTTP) SearchUsers(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.search_users")

	users, err := h.Svc.SearchUsers(ctx, c.QueryParam("name"))
	if err != nil {
		return fail(l, "search_users_error", "", err)
	}
	return c.JSON(http.StatusOK, transport.NewUserSummaries(users))
}

func (h *UserHTTP) Me(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.me")

	id, ok := authmw.IdentityFrom(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusForbidden, "Access denied")
	}

	u, err := h.Svc.Profile(ctx, id.Email)
	if err != nil {
		return fail(l, "get_profile_error", "", err)
	}
	return c.JSON(http.StatusOK, transport.NewUserSummary(*u))
}

func (h *UserHTTP) UpdateMe(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.update_me")

	id, ok := authmw.IdentityFrom(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusForbidden, "Access denied")
	}

	var req transport.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_profile_error", "status", http.StatusBadRequest, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	u, err := h.Svc.UpdateProfile(ctx, id.Email, req)
	if err != nil {
		return fail(l, "update_profile_error", "Profile update failed: ", err)
	}

	l.Info("update_profile_success", "user_id", u.ID)
	return c.JSON(http.StatusOK, transport.NewUserSummary(*u))
}
