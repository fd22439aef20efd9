package http

import (
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/affistack/affistack-api/internal/apperr"
	"github.com/affistack/affistack-api/internal/domain"
	"github.com/affistack/affistack-api/internal/service"
	"github.com/affistack/affistack-api/internal/util"
)

const (
	// AuthCookieName is the cookie carrying the bearer token for browsers.
	AuthCookieName = "auth-token"

	contextPrincipalKey = "principal"
)

// RouteGate is the request-time enforcement point. It rewrites legacy paths,
// passes public routes through untouched, and authenticates everything under a
// protected prefix. Browser requests bounce to /login with the original path
// preserved; API requests get a JSON 401. Store failures fail closed as 503
// rather than treating the caller as unauthenticated.
func RouteGate(auth *service.AuthService, table *RouteTable, secureCookies bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path

			if target, ok := table.Redirect(path); ok {
				return c.Redirect(http.StatusMovedPermanently, target)
			}
			if !table.RequiresAuth(path) {
				return next(c)
			}

			token, fromCookie := ExtractToken(c)
			if token == "" {
				if isAPIPath(path) {
					return c.JSON(http.StatusUnauthorized, util.Fail("authentication required", "AUTH_REQUIRED"))
				}
				return loginRedirect(c, path)
			}

			principal, err := auth.Authenticate(c.Request().Context(), token)
			if err != nil {
				appErr := apperr.From(err)
				if appErr.Status >= http.StatusInternalServerError {
					log.Printf("gate: %s %s: %v", c.Request().Method, path, err)
					return c.JSON(appErr.Status, util.Fail(appErr.Message, appErr.Code))
				}
				if fromCookie {
					ClearAuthCookie(c, secureCookies)
				}
				if isAPIPath(path) {
					return c.JSON(appErr.Status, util.Fail(appErr.Message, appErr.Code))
				}
				return loginRedirect(c, path)
			}

			c.Set(contextPrincipalKey, principal)
			return next(c)
		}
	}
}

// CurrentPrincipal returns the authenticated principal the gate attached to
// the request, if any.
func CurrentPrincipal(c echo.Context) (*domain.Principal, bool) {
	principal, ok := c.Get(contextPrincipalKey).(*domain.Principal)
	return principal, ok && principal != nil
}

// ExtractToken pulls the bearer token from the auth cookie, falling back to
// the Authorization header for non-browser clients. The second return value
// reports whether the token came from the cookie.
func ExtractToken(c echo.Context) (string, bool) {
	if cookie, err := c.Cookie(AuthCookieName); err == nil && cookie.Value != "" {
		return cookie.Value, true
	}
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return strings.TrimSpace(parts[1]), false
	}
	return "", false
}

// SetAuthCookie writes the token cookie. maxAge is 604800s, or 2592000s for
// remember-me logins; Secure is set outside development.
func SetAuthCookie(c echo.Context, token string, maxAge int, secure bool) {
	c.SetCookie(&http.Cookie{
		Name:     AuthCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearAuthCookie expires the token cookie.
func ClearAuthCookie(c echo.Context, secure bool) {
	c.SetCookie(&http.Cookie{
		Name:     AuthCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func loginRedirect(c echo.Context, originalPath string) error {
	return c.Redirect(http.StatusSeeOther, "/login?redirect="+url.QueryEscape(originalPath))
}

func isAPIPath(path string) bool {
	return path == "/api" || strings.HasPrefix(path, "/api/")
}
