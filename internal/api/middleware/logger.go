package middleware

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/csemotors/dealership/internal/api/auth"
	"github.com/csemotors/dealership/pkg/logger"
)

// ContextLogger puts a copy of log carrying the request id and, for signed-in
// callers, the account id on the request context. It must run after
// RequestID and the session carrier.
func ContextLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			lc := log.With().Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID))
			if id := auth.IdentityOf(c).AccountID(); id > 0 {
				lc = lc.Int64("account_id", id)
			}
			req := c.Request()
			c.SetRequest(req.WithContext(logger.WithContext(req.Context(), lc.Logger())))
			return next(c)
		}
	}
}

// RequestLogger logs one line per request through log.
func RequestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil || v.Status >= 500 {
				ev = log.Error().Err(v.Error)
			}
			if id := auth.IdentityOf(c).AccountID(); id > 0 {
				ev = ev.Int64("account_id", id)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}
