package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/quizhub/quizhub-api/internal/domain"
	"github.com/quizhub/quizhub-api/internal/service"
	"github.com/quizhub/quizhub-api/internal/util"
)

const sessionCookieName = "session"

type AuthHandler struct {
	auth         *service.AuthService
	cookieSecure bool
}

func RegisterAuth(e *echo.Echo, auth *service.AuthService, cookieSecure bool) {
	h := &AuthHandler{auth: auth, cookieSecure: cookieSecure}

	g := e.Group("/api/v1/auth")
	g.POST("/register", h.Register)
	g.GET("/verify/:token", h.VerifyEmail)
	g.POST("/resend-verification", h.ResendVerification)
	g.POST("/login", h.Login)
	g.POST("/google", h.LoginWithGoogle)
	g.POST("/logout", h.Logout)
	g.GET("/me", h.Me, RequireAuth(auth))
	g.POST("/password-reset-request", h.RequestPasswordReset)
	g.POST("/reset-password", h.ResetPassword)
	g.POST("/change-password", h.ChangePassword, RequireAuth(auth))

	admin := e.Group("/api/v1/admin", RequireAuth(auth), RequireRole(domain.RoleAdmin))
	admin.GET("/accounts", h.ListAccounts)
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("bad body"))
	}
	if err := h.auth.Register(c.Request().Context(), req.Username, req.Email, req.Password, req.ConfirmPassword); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, AckResponse{Message: "registration accepted, check your email to verify your account"})
}

func (h *AuthHandler) VerifyEmail(c echo.Context) error {
	if err := h.auth.VerifyEmail(c.Request().Context(), c.Param("token")); err != nil {
		// 400 rather than 404: the token, not the account, is the
		// resource named by this unauthenticated GET.
		if errors.Is(err, domain.ErrNotFound) {
			return c.JSON(http.StatusBadRequest, util.Error(domain.ErrNotFound.Error()))
		}
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, AckResponse{Message: "email verified, you can now log in"})
}

func (h *AuthHandler) ResendVerification(c echo.Context) error {
	var req ResendVerificationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("bad body"))
	}
	if err := h.auth.ResendVerification(c.Request().Context(), req.Email); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, AckResponse{Message: "verification email sent"})
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("bad body"))
	}
	result, err := h.auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
		}
		return writeError(c, err)
	}
	h.setSessionCookie(c, result.Token, result.ExpiresAt)
	return c.JSON(http.StatusOK, util.Data("account", result.Account.Public()))
}

func (h *AuthHandler) LoginWithGoogle(c echo.Context) error {
	var req GoogleLoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("bad body"))
	}
	result, err := h.auth.LoginWithGoogle(c.Request().Context(), req.IDToken)
	if err != nil {
		if errors.Is(err, domain.ErrBadCredentials) {
			return c.JSON(http.StatusUnauthorized, util.Error("invalid google token"))
		}
		return writeError(c, err)
	}
	h.setSessionCookie(c, result.Token, result.ExpiresAt)
	return c.JSON(http.StatusOK, util.Data("account", result.Account.Public()))
}

// Logout clears the session cookie unconditionally. It succeeds whether
// or not a session existed.
func (h *AuthHandler) Logout(c echo.Context) error {
	h.clearSessionCookie(c)
	return c.JSON(http.StatusOK, AckResponse{Message: "logged out"})
}

func (h *AuthHandler) Me(c echo.Context) error {
	account, ok := CurrentAccount(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, util.Error(domain.ErrUnauthenticated.Error()))
	}
	return c.JSON(http.StatusOK, util.Data("account", account.Public()))
}

func (h *AuthHandler) RequestPasswordReset(c echo.Context) error {
	var req PasswordResetRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("bad body"))
	}
	if err := h.auth.RequestPasswordReset(c.Request().Context(), req.Email); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, AckResponse{Message: "password reset email sent"})
}

func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("bad body"))
	}
	if err := h.auth.ResetPassword(c.Request().Context(), req.Secret, req.NewPassword, req.ConfirmPassword); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, AckResponse{Message: "password updated, you can now log in"})
}

func (h *AuthHandler) ChangePassword(c echo.Context) error {
	account, ok := CurrentAccount(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, util.Error(domain.ErrUnauthenticated.Error()))
	}
	var req ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("bad body"))
	}
	if err := h.auth.ChangePassword(c.Request().Context(), account, req.CurrentPassword, req.NewPassword); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, AckResponse{Message: "password updated"})
}

func (h *AuthHandler) ListAccounts(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	accounts, err := h.auth.ListAccounts(c.Request().Context(), limit, offset)
	if err != nil {
		return writeError(c, err)
	}
	public := make([]domain.PublicAccount, 0, len(accounts))
	for i := range accounts {
		public = append(public, accounts[i].Public())
	}
	return c.JSON(http.StatusOK, echo.Map{
		"accounts": public,
		"meta":     echo.Map{"limit": limit, "offset": offset, "count": len(public)},
	})
}

// The cookie's Max-Age is derived from the token's own expiry, so the
// cookie can never outlive the signature it carries.
func (h *AuthHandler) setSessionCookie(c echo.Context, token string, expiresAt time.Time) {
	c.SetCookie(&http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(time.Until(expiresAt).Seconds()),
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *AuthHandler) clearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteStrictMode,
	})
}

func writeError(c echo.Context, err error) error {
	if domain.IsValidation(err) {
		return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
	}
	for _, sentinel := range []error{
		domain.ErrDuplicateEmail, domain.ErrBadCredentials, domain.ErrAlreadyVerified,
		domain.ErrInvalidToken, domain.ErrInvalidResetSecret,
	} {
		if errors.Is(err, sentinel) {
			return c.JSON(http.StatusBadRequest, util.Error(sentinel.Error()))
		}
	}
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.JSON(http.StatusNotFound, util.Error(domain.ErrNotFound.Error()))
	case errors.Is(err, domain.ErrUnverified):
		return c.JSON(http.StatusUnauthorized, util.Error(domain.ErrUnverified.Error()))
	case errors.Is(err, domain.ErrUnauthenticated):
		return c.JSON(http.StatusUnauthorized, util.Error(domain.ErrUnauthenticated.Error()))
	case errors.Is(err, domain.ErrForbidden):
		return c.JSON(http.StatusForbidden, util.Error(domain.ErrForbidden.Error()))
	default:
		c.Logger().Errorf("auth: %v", err)
		return c.JSON(http.StatusInternalServerError, util.Error("internal server error"))
	}
}
