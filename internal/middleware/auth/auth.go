package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/grocerystore/internal/logging"
)

type TokenChecker interface {
	ExtractSubject(token string) (string, error)
	Validate(token, expectedSubject string) bool
}

type RoleLookup interface {
	RolesForEmail(ctx context.Context, email string) ([]string, error)
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// AccessFilter binds an Identity to the request when a valid bearer token is
// present. It never rejects a request: without a usable token the request
// continues anonymously and RequireRole decides. Roles come from storage, not
// from the token, so role changes apply to tokens already issued.
func AccessFilter(tokens TokenChecker, roles RoleLookup) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return next(c)
			}

			ctx := c.Request().Context()
			l := logging.FromContext(ctx).With("middleware", "access_filter")

			subject, err := tokens.ExtractSubject(token)
			if err != nil {
				l.Warn("token_extract_failed", "error", err)
				return next(c)
			}
			if _, bound := IdentityFrom(ctx); bound {
				return next(c)
			}

			current, err := roles.RolesForEmail(ctx, subject)
			if err != nil {
				l.Warn("token_subject_unknown", "subject", subject, "error", err)
				return next(c)
			}
			if !tokens.Validate(token, subject) {
				l.Warn("token_invalid", "subject", subject)
				return next(c)
			}

			ctx = WithIdentity(ctx, Identity{Email: subject, Roles: current})
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// RequireRole rejects with 403 before the handler runs when the request has
// no identity or the identity lacks role.
func RequireRole(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := IdentityFrom(c.Request().Context())
			if !ok || !id.HasRole(role) {
				logging.FromContext(c.Request().Context()).Warn("access_denied",
					"status", http.StatusForbidden, "required_role", role, "authenticated", ok)
				return echo.NewHTTPError(http.StatusForbidden, "Access denied")
			}
			return next(c)
		}
	}
}
