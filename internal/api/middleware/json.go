package middleware

import "github.com/labstack/echo/v4"

const jsonErrorsKey = "json_errors"

// JSONErrors marks a route group as an API surface so the error handler
// answers with a JSON envelope instead of the error page.
func JSONErrors() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(jsonErrorsKey, true)
			return next(c)
		}
	}
}

// WantsJSON reports whether errors for this request should be JSON.
func WantsJSON(c echo.Context) bool {
	marked, _ := c.Get(jsonErrorsKey).(bool)
	return marked
}
