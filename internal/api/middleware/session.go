package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/pocketledger/expense-tracker/internal/core/domain"
)

// UserKey is the echo.Context key holding the resolved *domain.User.
const UserKey = "user"

// SessionResolver is the subset of the auth service the middleware needs.
type SessionResolver interface {
	ResolveCurrentUser(ctx context.Context, sessionID string) (*domain.User, error)
}

// SessionCookie describes how the opaque session identifier travels between
// the server and the browser.
type SessionCookie struct {
	Name   string
	Secure bool
	TTL    time.Duration
}

// Value returns the session identifier sent by the client, or "".
func (sc SessionCookie) Value(c echo.Context) string {
	ck, err := c.Cookie(sc.Name)
	if err != nil {
		return ""
	}
	return ck.Value
}

// Issue writes the cookie for sess.
func (sc SessionCookie) Issue(c echo.Context, sess *domain.Session) {
	c.SetCookie(&http.Cookie{
		Name:     sc.Name,
		Value:    sess.ID,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		MaxAge:   int(sc.TTL / time.Second),
		HttpOnly: true,
		Secure:   sc.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Clear tells the browser to drop the cookie.
func (sc SessionCookie) Clear(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     sc.Name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   sc.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// RequireSession resolves the session cookie into a user and stores it under
// UserKey. Requests without a live session fail with domain.ErrUnauthenticated;
// a stale cookie is cleared on the way out.
func RequireSession(resolver SessionResolver, cookie SessionCookie) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sid := cookie.Value(c)
			if sid == "" {
				return domain.ErrUnauthenticated
			}

			user, err := resolver.ResolveCurrentUser(c.Request().Context(), sid)
			if err != nil {
				if errors.Is(err, domain.ErrUnauthenticated) {
					cookie.Clear(c)
				}
				return err
			}

			c.Set(UserKey, user)
			return next(c)
		}
	}
}
