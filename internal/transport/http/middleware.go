package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/quizhub/quizhub-api/internal/domain"
	"github.com/quizhub/quizhub-api/internal/service"
	"github.com/quizhub/quizhub-api/internal/util"
)

const contextAccountKey = "auth.account"

// RequireAuth authenticates the session cookie and stores the resolved
// account on the request context. A missing or invalid session is 401.
func RequireAuth(auth *service.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(sessionCookieName)
			if err != nil || cookie.Value == "" {
				return c.JSON(http.StatusUnauthorized, util.Error(domain.ErrUnauthenticated.Error()))
			}
			account, err := auth.Authenticate(c.Request().Context(), cookie.Value)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, util.Error(domain.ErrUnauthenticated.Error()))
			}
			c.Set(contextAccountKey, account)
			return next(c)
		}
	}
}

// RequireRole runs after RequireAuth and denies accounts whose role does
// not dominate the required one. Denial is 403, never 401: an
// authenticated-but-underprivileged caller is a different failure from an
// unauthenticated one.
func RequireRole(required domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			account, ok := CurrentAccount(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, util.Error(domain.ErrUnauthenticated.Error()))
			}
			if !account.Role.Dominates(required) {
				return c.JSON(http.StatusForbidden, util.Error(domain.ErrForbidden.Error()))
			}
			return next(c)
		}
	}
}

func CurrentAccount(c echo.Context) (*domain.Account, bool) {
	account, ok := c.Get(contextAccountKey).(*domain.Account)
	return account, ok && account != nil
}
