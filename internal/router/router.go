// Package router wires the middleware stack and the HTTP routes.
package router

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/iliyamo/exam-appointment-booking/internal/handler"
	"github.com/iliyamo/exam-appointment-booking/internal/middleware"
)

// Options configures the middleware applied to every request.
type Options struct {
	Logger        *zap.Logger
	SessionSecret string
	SessionTTL    time.Duration
	SecureCookies bool
	CSRFEnabled   bool
	CORSOrigins   []string
}

// Use installs the global middleware: request id, logging, panic recovery,
// CORS, the browser session and, when enabled, CSRF protection for form
// posts.
func Use(e *echo.Echo, o Options) {
	e.Use(echomw.RequestID())
	if o.Logger != nil {
		e.Use(middleware.RequestLogger(o.Logger))
	}
	e.Use(echomw.Recover())
	if len(o.CORSOrigins) > 0 {
		e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
			AllowOrigins: o.CORSOrigins,
			AllowMethods: []string{http.MethodGet, http.MethodPost},
		}))
	}
	e.Use(middleware.Session(o.SessionSecret, o.SessionTTL, o.SecureCookies))
	if o.CSRFEnabled {
		e.Use(echomw.CSRFWithConfig(echomw.CSRFConfig{
			TokenLookup:    "form:csrf_token,header:X-CSRF-Token",
			CookieName:     "_csrf",
			CookiePath:     "/",
			CookieHTTPOnly: true,
			CookieSecure:   o.SecureCookies,
			CookieSameSite: http.SameSiteLaxMode,
		}))
	}
}

// RegisterRoutes registers the health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterBooking registers the booking pages and endpoints.  limit guards
// the form posts and cache fronts the fully-booked dates; either may be nil.
func RegisterBooking(e *echo.Echo, h *handler.BookingHandler, limit, cache echo.MiddlewareFunc) {
	e.GET("/", h.Root)
	e.GET("/change-language", h.ChangeLanguage)
	e.GET("/get-slots", h.GetSlots)
	e.GET("/get-unavailable-dates", h.GetUnavailableDates, optional(cache)...)
	e.POST("/save-appointment", h.SaveAppointment, optional(limit)...)
	e.POST("/verify-code", h.VerifyCode, optional(limit)...)
	// Catch-all locale page; static routes above take precedence.
	e.GET("/:lang", h.Index)
}

func optional(m echo.MiddlewareFunc) []echo.MiddlewareFunc {
	if m == nil {
		return nil
	}
	return []echo.MiddlewareFunc{m}
}
