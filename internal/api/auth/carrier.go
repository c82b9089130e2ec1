// Package auth binds session tokens to the jwt cookie and exposes the
// resulting identity to the rest of the request.
package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/csemotors/dealership/internal/core/domain"
	"github.com/csemotors/dealership/internal/core/security"
)

// CookieName is the cookie holding the signed session token.
const CookieName = "jwt"

const identityKey = "identity"

// Carrier moves session tokens between the codec and the cookie jar.
type Carrier struct {
	codec  *security.TokenCodec
	secure bool
	log    zerolog.Logger
}

// NewCarrier returns a Carrier. secure sets the cookie Secure attribute and
// should be true only in production.
func NewCarrier(codec *security.TokenCodec, secure bool, log zerolog.Logger) *Carrier {
	return &Carrier{codec: codec, secure: secure, log: log}
}

// Attach writes token to the response cookie. The cookie lives exactly as
// long as the token.
func (cr *Carrier) Attach(c echo.Context, token string) {
	ttl := cr.codec.TTL()
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl / time.Second),
		Expires:  time.Now().Add(ttl),
		HttpOnly: true,
		Secure:   cr.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Issue signs a fresh token for claims, attaches it and switches the
// current request to the new identity. It is used on login and after every
// account mutation.
func (cr *Carrier) Issue(c echo.Context, claims domain.Claims) error {
	token, _, err := cr.codec.Issue(claims)
	if err != nil {
		return err
	}
	cr.Attach(c, token)
	SetIdentity(c, domain.Authenticated(claims))
	return nil
}

// Extract decodes the session cookie on r. Any failure yields Anonymous;
// it never aborts the request.
func (cr *Carrier) Extract(r *http.Request) domain.Identity {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return domain.Anonymous()
	}

	claims, err := cr.codec.Verify(cookie.Value)
	if err != nil {
		ev := cr.log.Debug()
		switch {
		case errors.Is(err, security.ErrExpired):
			ev = ev.Str("reason", "expired")
		case errors.Is(err, security.ErrInvalidSignature):
			ev = ev.Str("reason", "signature")
		default:
			ev = ev.Str("reason", "malformed")
		}
		ev.Msg("session token rejected")
		return domain.Anonymous()
	}
	return domain.Authenticated(claims)
}

// Clear expires the session cookie. Calling it without a session is fine.
func (cr *Carrier) Clear(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   cr.secure,
		SameSite: http.SameSiteLaxMode,
	})
	SetIdentity(c, domain.Anonymous())
}

// Middleware decodes the session for every request and stores the identity
// on the context.
func (cr *Carrier) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			SetIdentity(c, cr.Extract(c.Request()))
			return next(c)
		}
	}
}

// SetIdentity stores id on the request context.
func SetIdentity(c echo.Context, id domain.Identity) {
	c.Set(identityKey, id)
}

// IdentityOf returns the request identity, Anonymous when none was stored.
func IdentityOf(c echo.Context) domain.Identity {
	id, _ := c.Get(identityKey).(domain.Identity)
	return id
}
