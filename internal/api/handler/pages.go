package handler

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/csemotors/dealership/internal/api/auth"
	"github.com/csemotors/dealership/internal/api/flash"
	"github.com/csemotors/dealership/internal/api/metrics"
	"github.com/csemotors/dealership/internal/api/validation"
	"github.com/csemotors/dealership/internal/api/view"
	"github.com/csemotors/dealership/internal/core/domain"
)

// NavSource supplies the classification menu shown on every page.
type NavSource interface {
	Classifications(ctx context.Context) ([]domain.Classification, error)
}

var errBadForm = echo.NewHTTPError(http.StatusBadRequest, "invalid form submission")

// pages holds what every HTML handler needs to build a view.Page.
type pages struct {
	nav      NavSource
	pipeline *validation.Pipeline
	log      zerolog.Logger
}

func (p *pages) page(c echo.Context, title string) (view.Page, error) {
	nav, err := p.nav.Classifications(c.Request().Context())
	if err != nil {
		return view.Page{}, err
	}
	notices, err := flash.Pop(c)
	if err != nil {
		return view.Page{}, err
	}
	return view.Page{
		Title:    title,
		Identity: auth.IdentityOf(c),
		Notices:  notices,
		Nav:      nav,
	}, nil
}

// show renders name with form values, field errors and extra notices.
func (p *pages) show(c echo.Context, status int, name, title string, form any, errs validation.Errors, data any, notices ...string) error {
	pg, err := p.page(c, title)
	if err != nil {
		return err
	}
	pg.Form = form
	pg.Errors = errs
	pg.Data = data
	pg.Notices = append(pg.Notices, notices...)
	return c.Render(status, name, pg)
}

// converge sends a failed submission back to its form with every submitted
// value except the credential and a message per failing field.
func (p *pages) converge(c echo.Context, status int, name, title string, form any, errs validation.Errors, data any) error {
	if r, ok := form.(validation.Redactor); ok {
		r.Redact()
	}
	metrics.ValidationFailuresTotal.WithLabelValues(name).Inc()
	return p.show(c, status, name, title, form, errs, data)
}

// redirect queues notice and sends the browser to target.
func redirect(c echo.Context, target, notice string) error {
	if notice != "" {
		if err := flash.Add(c, notice); err != nil {
			return err
		}
	}
	return c.Redirect(http.StatusSeeOther, target)
}

// claimsOf returns the caller's claims. Routes using it sit behind the
// access gate, so a missing identity is a wiring mistake.
func claimsOf(c echo.Context) (domain.Claims, error) {
	claims, ok := auth.IdentityOf(c).Claims()
	if !ok {
		return domain.Claims{}, domain.ErrAuthorizationDenied
	}
	return claims, nil
}

func pathID(c echo.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	return id, err == nil && id > 0
}

func detailPath(inventoryID int64) string {
	return fmt.Sprintf("/inv/detail/%d", inventoryID)
}

// fallbackTarget picks where a denied comment action goes using only what
// the request itself carries: the vehicle it named, then a same-site
// Referer, then the home page. It never consults the store.
func fallbackTarget(c echo.Context, inventoryID int64) string {
	if inventoryID > 0 {
		return detailPath(inventoryID)
	}
	ref := c.Request().Referer()
	if ref == "" {
		return "/"
	}
	u, err := url.Parse(ref)
	if err != nil || (u.Host != "" && u.Host != c.Request().Host) {
		return "/"
	}
	if !strings.HasPrefix(u.Path, "/") || strings.HasPrefix(u.Path, "//") || strings.HasPrefix(u.Path, "/\\") {
		return "/"
	}
	return u.RequestURI()
}
