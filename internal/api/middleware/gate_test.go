package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/csemotors/dealership/internal/api/auth"
	"github.com/csemotors/dealership/internal/core/domain"
)

type noticeRecorder struct {
	msgs []string
}

func (r *noticeRecorder) notify(_ echo.Context, msg string) error {
	r.msgs = append(r.msgs, msg)
	return nil
}

func newCtx(id domain.Identity) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/inv/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	auth.SetIdentity(c, id)
	return c, rec
}

func identityWithRole(role domain.Role) domain.Identity {
	return domain.Authenticated(domain.Claims{AccountID: 1, Email: "a@b.com", Role: role})
}

func mustNotRun(t *testing.T) echo.HandlerFunc {
	return func(echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	}
}

func TestGate_RequireRole_AnonymousRedirectsToLogin(t *testing.T) {
	notices := &noticeRecorder{}
	gate := NewGate("/account/login", notices.notify)
	c, rec := newCtx(domain.Anonymous())

	if err := gate.RequireRole(domain.RoleEmployee, domain.RoleAdmin)(mustNotRun(t))(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != "/account/login" {
		t.Fatalf("expected redirect to login, got %q", loc)
	}
	if len(notices.msgs) != 1 || notices.msgs[0] != NoticeLogin {
		t.Fatalf("expected please-log-in notice, got %v", notices.msgs)
	}
}

func TestGate_RequireRole_WrongRoleRedirectsNot403(t *testing.T) {
	notices := &noticeRecorder{}
	gate := NewGate("/account/login", notices.notify)
	c, rec := newCtx(identityWithRole(domain.RoleClient))

	_ = gate.RequireRole(domain.RoleEmployee, domain.RoleAdmin)(mustNotRun(t))(c)

	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if len(notices.msgs) != 1 || notices.msgs[0] != NoticeStaffLogin {
		t.Fatalf("expected staff notice, got %v", notices.msgs)
	}
}

func TestGate_RequireRole_Allows(t *testing.T) {
	gate := NewGate("/account/login", nil)

	for _, role := range []domain.Role{domain.RoleEmployee, domain.RoleAdmin} {
		c, rec := newCtx(identityWithRole(role))
		called := false
		h := gate.RequireRole(domain.RoleEmployee, domain.RoleAdmin)(func(c echo.Context) error {
			called = true
			return c.NoContent(http.StatusOK)
		})
		if err := h(c); err != nil {
			t.Fatalf("handler error: %v", err)
		}
		if !called || rec.Code != http.StatusOK {
			t.Fatalf("role %s: expected pass-through, got %d", role, rec.Code)
		}
	}
}

func TestGate_RequireAuthenticated(t *testing.T) {
	notices := &noticeRecorder{}
	gate := NewGate("/account/login", notices.notify)

	c, rec := newCtx(domain.Anonymous())
	_ = gate.RequireAuthenticated()(mustNotRun(t))(c)
	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302 for anonymous, got %d", rec.Code)
	}

	c, rec = newCtx(identityWithRole(domain.RoleClient))
	called := false
	_ = gate.RequireAuthenticated()(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})(c)
	if !called || rec.Code != http.StatusOK {
		t.Fatalf("expected client to pass, got %d", rec.Code)
	}
}

func TestGate_RequireAuthenticated_UnsetIdentityIsAnonymous(t *testing.T) {
	gate := NewGate("/account/login", nil)
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/account/", nil), rec)

	_ = gate.RequireAuthenticated()(mustNotRun(t))(c)
	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
}

func TestGate_API_UsesStatusCodes(t *testing.T) {
	notices := &noticeRecorder{}
	gate := NewGate("/account/login", notices.notify).API()

	c, rec := newCtx(domain.Anonymous())
	_ = gate.RequireRole(domain.RoleEmployee)(mustNotRun(t))(c)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	c, rec = newCtx(identityWithRole(domain.RoleClient))
	_ = gate.RequireRole(domain.RoleEmployee)(mustNotRun(t))(c)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if len(notices.msgs) != 0 {
		t.Fatalf("API gate must not queue notices, got %v", notices.msgs)
	}
}

func TestJSONErrors_MarksContext(t *testing.T) {
	c, _ := newCtx(domain.Anonymous())
	if WantsJSON(c) {
		t.Fatalf("unmarked context must not want JSON")
	}
	_ = JSONErrors()(func(c echo.Context) error {
		if !WantsJSON(c) {
			t.Fatalf("expected JSON marker")
		}
		return nil
	})(c)
}
