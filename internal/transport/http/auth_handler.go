package http

import (
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/affistack/affistack-api/internal/apperr"
	"github.com/affistack/affistack-api/internal/domain"
	"github.com/affistack/affistack-api/internal/plan"
	"github.com/affistack/affistack-api/internal/service"
	"github.com/affistack/affistack-api/internal/util"
)

type AuthHandler struct {
	auth          *service.AuthService
	plans         *plan.Table
	secureCookies bool
}

// RegisterAuth mounts the authentication endpoints. These paths are always
// excluded from route gating; you must be able to reach login and signup
// without a token.
func RegisterAuth(e *echo.Echo, auth *service.AuthService, plans *plan.Table, secureCookies bool) {
	h := &AuthHandler{auth: auth, plans: plans, secureCookies: secureCookies}

	e.POST("/signup", h.signup)
	e.POST("/login", h.login)
	e.GET("/verify-token", h.verifyToken)
	e.POST("/logout", h.logout)
	e.POST("/logout-all", h.logoutAll)
	e.GET("/me", h.me)
}

// signup handles POST /signup
func (h *AuthHandler) signup(c echo.Context) error {
	var req SignupRequest
	if err := c.Bind(&req); err != nil {
		return h.writeError(c, apperr.Validation(map[string]string{"body": "malformed request body"}))
	}
	if err := c.Validate(&req); err != nil {
		return h.writeError(c, err)
	}

	res, err := h.auth.Signup(c.Request().Context(), service.SignupInput{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
		Plan:     domain.Plan(req.Plan),
	})
	if err != nil {
		return h.writeError(c, err)
	}

	SetAuthCookie(c, res.Token, int(util.SessionTTL(false).Seconds()), h.secureCookies)
	env := util.Success("user", h.userPayload(res.User))
	env["token"] = res.Token
	return c.JSON(http.StatusCreated, env)
}

// login handles POST /login
func (h *AuthHandler) login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return h.writeError(c, apperr.Validation(map[string]string{"body": "malformed request body"}))
	}
	if err := c.Validate(&req); err != nil {
		return h.writeError(c, err)
	}

	res, err := h.auth.Login(c.Request().Context(), req.Email, req.Password, req.RememberMe)
	if err != nil {
		return h.writeError(c, err)
	}

	SetAuthCookie(c, res.Token, int(util.SessionTTL(req.RememberMe).Seconds()), h.secureCookies)
	env := util.Success("user", h.userPayload(res.User))
	env["token"] = res.Token
	return c.JSON(http.StatusOK, env)
}

// verifyToken handles GET /verify-token
func (h *AuthHandler) verifyToken(c echo.Context) error {
	token, fromCookie := ExtractToken(c)
	if token == "" {
		return c.JSON(http.StatusUnauthorized, util.Fail("authentication required", "AUTH_REQUIRED"))
	}

	principal, err := h.auth.Authenticate(c.Request().Context(), token)
	if err != nil {
		appErr := apperr.From(err)
		if fromCookie && appErr.Status == http.StatusUnauthorized {
			ClearAuthCookie(c, h.secureCookies)
		}
		return h.writeError(c, err)
	}

	return c.JSON(http.StatusOK, util.Success("user", h.principalPayload(principal)))
}

// logout handles POST /logout. It is idempotent: the cookie is cleared even
// when the token is already dead.
func (h *AuthHandler) logout(c echo.Context) error {
	token, _ := ExtractToken(c)
	if token != "" {
		if principal, err := h.auth.Authenticate(c.Request().Context(), token); err == nil {
			if err := h.auth.Logout(c.Request().Context(), principal.UserID, principal.SessionID); err != nil {
				return h.writeError(c, err)
			}
		}
	}
	ClearAuthCookie(c, h.secureCookies)
	return c.JSON(http.StatusOK, util.OK())
}

// logoutAll handles POST /logout-all, revoking every session the user holds.
func (h *AuthHandler) logoutAll(c echo.Context) error {
	principal, err := h.authenticate(c)
	if err != nil {
		return h.writeError(c, err)
	}
	if err := h.auth.LogoutAll(c.Request().Context(), principal.UserID); err != nil {
		return h.writeError(c, err)
	}
	ClearAuthCookie(c, h.secureCookies)
	return c.JSON(http.StatusOK, util.OK())
}

// me handles GET /me
func (h *AuthHandler) me(c echo.Context) error {
	principal, err := h.authenticate(c)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, util.Success("user", h.principalPayload(principal)))
}

func (h *AuthHandler) authenticate(c echo.Context) (*domain.Principal, error) {
	token, _ := ExtractToken(c)
	if token == "" {
		return nil, apperr.ErrInvalidToken
	}
	return h.auth.Authenticate(c.Request().Context(), token)
}

func (h *AuthHandler) userPayload(user *domain.User) UserResponse {
	entitlements, _ := h.plans.Entitlements(user.Plan)
	createdAt := user.CreatedAt
	return UserResponse{
		ID:           user.ID,
		Email:        user.Email,
		FullName:     user.FullName,
		Plan:         string(user.Plan),
		WebsiteLimit: entitlements.WebsiteQuota,
		Features:     entitlements.Features,
		CreatedAt:    &createdAt,
	}
}

func (h *AuthHandler) principalPayload(p *domain.Principal) UserResponse {
	entitlements, _ := h.plans.Entitlements(p.Plan)
	return UserResponse{
		ID:           p.UserID,
		Email:        p.Email,
		Plan:         string(p.Plan),
		WebsiteLimit: entitlements.WebsiteQuota,
		Features:     entitlements.Features,
	}
}

// writeError maps a taxonomy error onto the response envelope. Client-facing
// messages stay generic; the cause is logged server-side.
func (h *AuthHandler) writeError(c echo.Context, err error) error {
	appErr := apperr.From(err)
	if appErr.Status >= http.StatusInternalServerError {
		log.Printf("auth: %s %s: %v", c.Request().Method, c.Request().URL.Path, err)
	}
	env := util.Fail(appErr.Message, appErr.Code)
	if len(appErr.Fields) > 0 {
		env["fields"] = appErr.Fields
	}
	return c.JSON(appErr.Status, env)
}
