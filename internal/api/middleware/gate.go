package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/csemotors/dealership/internal/api/auth"
	"github.com/csemotors/dealership/internal/api/metrics"
	"github.com/csemotors/dealership/internal/core/domain"
)

// Notices shown when the gate turns a page request away.
const (
	NoticeLogin      = "Please log in."
	NoticeStaffLogin = "Please log in with an employee or admin account."
)

// Notify queues a notice for the page the caller is redirected to.
type Notify func(c echo.Context, msg string) error

// Gate enforces per-route access policy. The authentication check always
// runs before the role check. Page routes are redirected to the login page
// with a notice; API routes get a JSON 401 or 403.
type Gate struct {
	loginPath string
	notify    Notify
	api       bool
}

// NewGate returns a page gate redirecting to loginPath.
func NewGate(loginPath string, notify Notify) *Gate {
	return &Gate{loginPath: loginPath, notify: notify}
}

// API returns a copy of the gate answering with JSON status codes.
func (g *Gate) API() *Gate {
	cp := *g
	cp.api = true
	return &cp
}

// RequireAuthenticated admits any caller holding a valid session.
func (g *Gate) RequireAuthenticated() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !auth.IdentityOf(c).IsAuthenticated() {
				return g.deny(c, http.StatusUnauthorized, "authenticated", NoticeLogin)
			}
			return next(c)
		}
	}
}

// RequireRole admits authenticated callers whose role is one of roles.
func (g *Gate) RequireRole(roles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := auth.IdentityOf(c).Claims()
			if !ok {
				return g.deny(c, http.StatusUnauthorized, "authenticated", NoticeLogin)
			}
			if _, ok := allowed[claims.Role]; !ok {
				return g.deny(c, http.StatusForbidden, "role", NoticeStaffLogin)
			}
			return next(c)
		}
	}
}

func (g *Gate) deny(c echo.Context, status int, policy, notice string) error {
	metrics.AccessDeniedTotal.WithLabelValues(policy).Inc()
	if g.api {
		return c.JSON(status, map[string]string{"error": http.StatusText(status)})
	}
	if g.notify != nil {
		if err := g.notify(c, notice); err != nil {
			return err
		}
	}
	return c.Redirect(http.StatusFound, g.loginPath)
}
