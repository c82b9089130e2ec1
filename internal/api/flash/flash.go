// Package flash stores one-shot notices in a gorilla cookie session so they
// survive a redirect.
package flash

import (
	"errors"
	"fmt"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
)

// SessionName is the cookie session holding pending notices.
const SessionName = "notice"

// NewStore returns the cookie store backing notices. Register it with
// session.Middleware before any handler calls Add or Pop.
func NewStore(key string, secure bool) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(key))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   300,
		HttpOnly: true,
		Secure:   secure,
	}
	return store
}

// Add queues msg for the next rendered page.
func Add(c echo.Context, msg string) error {
	sess, err := get(c)
	if err != nil {
		return fmt.Errorf("flash add: %w", err)
	}
	sess.AddFlash(msg)
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		return fmt.Errorf("flash add: %w", err)
	}
	return nil
}

// Pop returns and clears every queued notice.
func Pop(c echo.Context) ([]string, error) {
	sess, err := get(c)
	if err != nil {
		return nil, fmt.Errorf("flash pop: %w", err)
	}
	raw := sess.Flashes()
	if len(raw) == 0 {
		return nil, nil
	}
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		return nil, fmt.Errorf("flash pop: %w", err)
	}

	out := make([]string, 0, len(raw))
	for _, f := range raw {
		if s, ok := f.(string); ok {
			out = append(out, s)
		}
	}
	return out, nil
}

// get loads the notice session. A cookie that no longer decodes (rotated
// key, tampering) is replaced by a fresh session instead of failing.
func get(c echo.Context) (*sessions.Session, error) {
	sess, err := session.Get(SessionName, c)
	if sess == nil {
		if err == nil {
			err = errors.New("notice session unavailable")
		}
		return nil, err
	}
	return sess, nil
}
