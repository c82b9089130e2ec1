package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/csemotors/dealership/internal/api/auth"
	"github.com/csemotors/dealership/internal/api/middleware"
	"github.com/csemotors/dealership/internal/api/view"
	"github.com/csemotors/dealership/internal/core/domain"
	"github.com/csemotors/dealership/pkg/logger"
)

const (
	msgNotFound  = "Sorry, we appear to have lost that page."
	msgForbidden = "Access Forbidden"
	msgInternal  = "Oh no! There was a crash. Maybe try a different route?"
)

// errorResponse is the error envelope for JSON routes.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their HTTP status codes.
//   - Logs unexpected errors without leaking details to the client.
//   - Answers API routes with {"error": "<message>"} and page routes with
//     the rendered error page.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if middleware.WantsJSON(c) {
			_ = c.JSON(code, errorResponse{Error: msg})
			return
		}

		page := view.Page{
			Title:    fmt.Sprintf("%d", code),
			Identity: auth.IdentityOf(c),
			Data:     view.ErrorData{Status: code, Message: msg},
		}
		if rerr := c.Render(code, "error", page); rerr != nil {
			log.Error().Err(rerr).Msg("error page render failed")
			_ = c.String(code, msg)
		}
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Code == http.StatusNotFound {
			return he.Code, msgNotFound
		}
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	switch {
	case errors.Is(err, domain.ErrVehicleNotFound),
		errors.Is(err, domain.ErrClassificationNotFound),
		errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrCommentNotFound):
		return http.StatusNotFound, msgNotFound
	case errors.Is(err, domain.ErrAuthorizationDenied):
		return http.StatusForbidden, msgForbidden
	case errors.Is(err, domain.ErrCredentialInvalid):
		return http.StatusUnauthorized, "invalid credentials"
	}

	// Unexpected error: log the real cause, return a generic message. The
	// request logger already carries request_id and account_id.
	reqLog := logger.FromContext(c.Request().Context(), log)
	reqLog.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, msgInternal
}
