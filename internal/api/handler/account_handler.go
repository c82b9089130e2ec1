package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/csemotors/dealership/internal/api/auth"
	"github.com/csemotors/dealership/internal/api/metrics"
	"github.com/csemotors/dealership/internal/api/validation"
	"github.com/csemotors/dealership/internal/core/domain"
	"github.com/csemotors/dealership/internal/core/ports"
)

const (
	noticeCheckCredentials = "Please check your credentials and try again."
	noticeTooManyAttempts  = "Too many failed attempts. Please wait a few minutes and try again."
	msgEmailTaken          = "Email exists. Please log in or use different email."
)

// AccountHandler serves login, registration and account self-service.
type AccountHandler struct {
	pages
	accounts ports.AccountService
	comments ports.CommentService
	carrier  *auth.Carrier
}

func NewAccountHandler(
	accounts ports.AccountService,
	comments ports.CommentService,
	nav NavSource,
	carrier *auth.Carrier,
	pipeline *validation.Pipeline,
	log zerolog.Logger,
) *AccountHandler {
	return &AccountHandler{
		pages:    pages{nav: nav, pipeline: pipeline, log: log},
		accounts: accounts,
		comments: comments,
		carrier:  carrier,
	}
}

func (h *AccountHandler) LoginPage(c echo.Context) error {
	return h.show(c, http.StatusOK, "login", "Login", &loginForm{}, nil, nil)
}

// Login verifies the submitted credentials and, on success, sets the
// session cookie and redirects to the account home.
func (h *AccountHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()
	form := new(loginForm)
	if err := c.Bind(form); err != nil {
		return errBadForm
	}

	errs, err := h.pipeline.Run(ctx, form)
	if err != nil {
		return err
	}
	if errs != nil {
		return h.converge(c, http.StatusBadRequest, "login", "Login", form, errs, nil)
	}

	account, err := h.accounts.Login(ctx, ports.LoginInput{
		Email:    form.Email,
		Password: form.Password,
		RemoteIP: c.RealIP(),
	})
	switch {
	case errors.Is(err, domain.ErrCredentialInvalid):
		metrics.LoginsTotal.WithLabelValues("invalid").Inc()
		form.Redact()
		return h.show(c, http.StatusBadRequest, "login", "Login", form, nil, nil, noticeCheckCredentials)
	case errors.Is(err, domain.ErrTooManyAttempts):
		metrics.LoginsTotal.WithLabelValues("throttled").Inc()
		form.Redact()
		return h.show(c, http.StatusTooManyRequests, "login", "Login", form, nil, nil, noticeTooManyAttempts)
	case errors.Is(err, domain.ErrAuthorizationDenied):
		metrics.LoginsTotal.WithLabelValues("forbidden").Inc()
		return err
	case err != nil:
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return err
	}

	if err := h.carrier.Issue(c, account.Claims()); err != nil {
		return err
	}
	metrics.LoginsTotal.WithLabelValues("success").Inc()
	metrics.TokensIssuedTotal.WithLabelValues("login").Inc()
	return c.Redirect(http.StatusSeeOther, "/account/")
}

func (h *AccountHandler) RegisterPage(c echo.Context) error {
	return h.show(c, http.StatusOK, "register", "Register", &registerForm{}, nil, nil)
}

// Register creates a Client account. A taken email is reported on the
// form before anything is stored.
func (h *AccountHandler) Register(c echo.Context) error {
	ctx := c.Request().Context()
	form := new(registerForm)
	if err := c.Bind(form); err != nil {
		return errBadForm
	}

	errs, err := h.pipeline.Run(ctx, form, h.emailAvailable(&form.Email, ""))
	if err != nil {
		return err
	}
	if errs != nil {
		return h.converge(c, http.StatusUnprocessableEntity, "register", "Register", form, errs, nil)
	}

	account, err := h.accounts.Register(ctx, ports.RegisterInput{
		FirstName: form.FirstName,
		LastName:  form.LastName,
		Email:     form.Email,
		Password:  form.Password,
		RemoteIP:  c.RealIP(),
	})
	if errors.Is(err, domain.ErrEmailExists) {
		return h.converge(c, http.StatusUnprocessableEntity, "register", "Register", form,
			validation.Errors{"account_email": msgEmailTaken}, nil)
	}
	if err != nil {
		return err
	}

	return redirect(c, "/account/login",
		fmt.Sprintf("Congratulations, you're registered %s. Please log in.", account.FirstName))
}

// emailAvailable fails when *email is registered to someone other than
// the current owner. email is read after normalisation.
func (h *AccountHandler) emailAvailable(email *string, current string) validation.Check {
	return validation.Check{
		Field: "account_email",
		Fn: func(ctx context.Context) (string, error) {
			if *email == current {
				return "", nil
			}
			exists, err := h.accounts.EmailExists(ctx, *email)
			if err != nil || !exists {
				return "", err
			}
			return msgEmailTaken, nil
		},
	}
}

// Home is the account management landing page.
func (h *AccountHandler) Home(c echo.Context) error {
	return h.show(c, http.StatusOK, "account", "Account Management", nil, nil, nil)
}

// MyComments lists the caller's own comments.
func (h *AccountHandler) MyComments(c echo.Context) error {
	claims, err := claimsOf(c)
	if err != nil {
		return err
	}
	list, err := h.comments.ByAccount(c.Request().Context(), claims.AccountID)
	if err != nil {
		return err
	}
	return h.show(c, http.StatusOK, "comments", "My Comments", nil, nil, list)
}

func (h *AccountHandler) UpdatePage(c echo.Context) error {
	claims, err := claimsOf(c)
	if err != nil {
		return err
	}
	account, err := h.accounts.Account(c.Request().Context(), claims.AccountID)
	if err != nil {
		return err
	}
	return h.show(c, http.StatusOK, "update-account", "Edit Account", profileFormOf(account), nil, nil)
}

// UpdateProfile changes the caller's names and email. The account id comes
// from the session, never from the form. The session is re-issued so the
// new attributes take effect immediately.
func (h *AccountHandler) UpdateProfile(c echo.Context) error {
	ctx := c.Request().Context()
	claims, err := claimsOf(c)
	if err != nil {
		return err
	}
	form := new(profileForm)
	if err := c.Bind(form); err != nil {
		return errBadForm
	}

	current, err := h.accounts.Account(ctx, claims.AccountID)
	if err != nil {
		return err
	}

	errs, err := h.pipeline.Run(ctx, form, h.emailAvailable(&form.Email, current.Email))
	if err != nil {
		return err
	}
	if errs != nil {
		return h.converge(c, http.StatusUnprocessableEntity, "update-account", "Edit Account", form, errs, nil)
	}

	updated, err := h.accounts.UpdateProfile(ctx, claims.AccountID, ports.ProfileInput{
		FirstName: form.FirstName,
		LastName:  form.LastName,
		Email:     form.Email,
	})
	if errors.Is(err, domain.ErrEmailExists) {
		return h.converge(c, http.StatusUnprocessableEntity, "update-account", "Edit Account", form,
			validation.Errors{"account_email": msgEmailTaken}, nil)
	}
	if err != nil {
		return err
	}

	if err := h.carrier.Issue(c, updated.Claims()); err != nil {
		return err
	}
	metrics.TokensIssuedTotal.WithLabelValues("profile").Inc()
	return redirect(c, "/account/",
		fmt.Sprintf("Congratulations, %s, your information has been updated.", updated.FirstName))
}

// UpdatePassword replaces the caller's credential and re-issues the session.
func (h *AccountHandler) UpdatePassword(c echo.Context) error {
	ctx := c.Request().Context()
	claims, err := claimsOf(c)
	if err != nil {
		return err
	}
	form := new(passwordForm)
	if err := c.Bind(form); err != nil {
		return errBadForm
	}

	errs, err := h.pipeline.Run(ctx, form)
	if err != nil {
		return err
	}
	if errs != nil {
		form.Redact()
		account, err := h.accounts.Account(ctx, claims.AccountID)
		if err != nil {
			return err
		}
		return h.converge(c, http.StatusUnprocessableEntity, "update-account", "Edit Account", profileFormOf(account), errs, nil)
	}

	updated, err := h.accounts.UpdatePassword(ctx, claims.AccountID, form.Password)
	if err != nil {
		return err
	}
	if err := h.carrier.Issue(c, updated.Claims()); err != nil {
		return err
	}
	metrics.TokensIssuedTotal.WithLabelValues("password").Inc()
	return redirect(c, "/account/", "Your password has been updated.")
}

// Logout drops the session cookie. The token itself stays valid until it
// expires.
func (h *AccountHandler) Logout(c echo.Context) error {
	if claims, ok := auth.IdentityOf(c).Claims(); ok {
		h.accounts.Logout(c.Request().Context(), claims.AccountID, c.RealIP())
	}
	h.carrier.Clear(c)
	return redirect(c, "/", "You have been logged out.")
}
