package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/exam-appointment-booking/internal/utils"
)

// SessionCookieName is the cookie holding the signed session token.
const SessionCookieName = "booking_session"

// sessionKey is the echo.Context key of the session id.
const sessionKey = "session_id"

// Session ensures every request carries a browser session id.  The id
// travels in an HS256 JWT cookie; a missing, tampered or expired cookie is
// replaced by a fresh id.  Handlers read it with SessionID.
func Session(secret string, ttl time.Duration, secure bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if ck, err := c.Cookie(SessionCookieName); err == nil {
				if sid, err := utils.ParseSessionToken(secret, ck.Value); err == nil {
					c.Set(sessionKey, sid)
					return next(c)
				}
			}

			sid := uuid.NewString()
			tok, err := utils.NewSessionToken(secret, sid, ttl, time.Now())
			if err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, "session unavailable").SetInternal(err)
			}
			c.SetCookie(&http.Cookie{
				Name:     SessionCookieName,
				Value:    tok.Token,
				Path:     "/",
				Expires:  tok.Exp,
				HttpOnly: true,
				Secure:   secure,
				SameSite: http.SameSiteLaxMode,
			})
			c.Set(sessionKey, sid)
			return next(c)
		}
	}
}

// SessionID returns the id set by Session, or "" when the middleware did
// not run.
func SessionID(c echo.Context) string {
	if s, ok := c.Get(sessionKey).(string); ok {
		return s
	}
	return ""
}
