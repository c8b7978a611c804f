package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/exam-appointment-booking/internal/booking"
	"github.com/iliyamo/exam-appointment-booking/internal/i18n"
	"github.com/iliyamo/exam-appointment-booking/internal/middleware"
	"github.com/iliyamo/exam-appointment-booking/internal/model"
	"github.com/iliyamo/exam-appointment-booking/internal/schedule"
	"github.com/iliyamo/exam-appointment-booking/internal/verification"
)

// BookingService is the workflow the handlers drive.  *booking.Service
// implements it.
type BookingService interface {
	Calendar() schedule.Calendar
	ListAvailable(ctx context.Context, date string) ([]string, error)
	UnavailableDates(ctx context.Context) ([]string, error)
	RequestBooking(ctx context.Context, sessionID string, b model.Booking) (*verification.Pending, error)
	ConfirmBooking(ctx context.Context, sessionID, code string) (*model.Appointment, error)
}

// BookingHandler serves the booking pages and their form endpoints.
type BookingHandler struct {
	Svc         BookingService
	DefaultLang string
	Log         *zap.Logger
	Now         func() time.Time
}

// NewBookingHandler returns a handler for svc.  A nil log discards output.
func NewBookingHandler(svc BookingService, defaultLang string, log *zap.Logger) *BookingHandler {
	if svc == nil {
		panic("nil service passed to NewBookingHandler")
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &BookingHandler{Svc: svc, DefaultLang: defaultLang, Log: log, Now: time.Now}
}

func (h *BookingHandler) page(c echo.Context, lang string) page {
	cal := h.Svc.Calendar()
	p := page{
		T:      i18n.Resolve(lang, h.DefaultLang),
		Langs:  i18n.All(),
		Levels: model.ExamLevels,
	}
	if tok, ok := c.Get("csrf").(string); ok {
		p.CSRF = tok
	}
	if cal.Location != nil {
		p.MinDate = cal.Day(h.Now()).Format(model.DateLayout)
		p.MaxDate = cal.End.Format(model.DateLayout)
	}
	return p
}

// Root handles GET / by redirecting to the default locale.
func (h *BookingHandler) Root(c echo.Context) error {
	return c.Redirect(http.StatusFound, "/"+i18n.Resolve(h.DefaultLang, i18n.Default).Lang)
}

// Index handles GET /:lang.  Unknown codes render the default locale.
func (h *BookingHandler) Index(c echo.Context) error {
	return c.Render(http.StatusOK, "index.html", h.page(c, c.Param("lang")))
}

// ChangeLanguage handles GET /change-language?lang=.
func (h *BookingHandler) ChangeLanguage(c echo.Context) error {
	return c.Render(http.StatusOK, "index.html", h.page(c, c.QueryParam("lang")))
}

// GetSlots handles GET /get-slots?date=YYYY-MM-DD&lang=.  It renders the
// <option> list of free times, or {date, slots} JSON when asked for JSON.
func (h *BookingHandler) GetSlots(c echo.Context) error {
	date := strings.TrimSpace(c.QueryParam("date"))
	slots, err := h.Svc.ListAvailable(c.Request().Context(), date)
	if err != nil {
		h.Log.Error("list available slots", zap.String("date", date), zap.Error(err))
		if wantsJSON(c) {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
		return c.NoContent(http.StatusInternalServerError)
	}
	if wantsJSON(c) {
		return c.JSON(http.StatusOK, echo.Map{"date": date, "slots": slots})
	}
	p := h.page(c, c.QueryParam("lang"))
	p.Date = date
	p.Slots = slots
	return c.Render(http.StatusOK, "slots.html", p)
}

// GetUnavailableDates handles GET /get-unavailable-dates.
func (h *BookingHandler) GetUnavailableDates(c echo.Context) error {
	dates, err := h.Svc.UnavailableDates(c.Request().Context())
	if err != nil {
		h.Log.Error("list unavailable dates", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, dates)
}

// SaveAppointment handles POST /save-appointment.  A valid request stores
// a pending verification, mails the code and renders the code form.
func (h *BookingHandler) SaveAppointment(c echo.Context) error {
	var form model.Booking
	if err := c.Bind(&form); err != nil {
		p := h.page(c, c.FormValue("lang"))
		p.Error = p.T.Error
		return c.Render(http.StatusBadRequest, "index.html", p)
	}
	p := h.page(c, form.Lang)
	form.Lang = p.T.Lang

	_, err := h.Svc.RequestBooking(c.Request().Context(), middleware.SessionID(c), form)
	if err == nil {
		return c.Render(http.StatusOK, "verify.html", p)
	}

	status, msg := h.failure(err, p.T)
	p.Error = msg
	var verr *booking.ValidationError
	if errors.As(err, &verr) || errors.Is(err, booking.ErrInvalidLevel) {
		p.Form = form
		return c.Render(status, "index.html", p)
	}
	return c.Render(status, "error.html", p)
}

// VerifyCode handles POST /verify-code.  A wrong code re-renders the code
// form so the visitor can retry until the code expires.
func (h *BookingHandler) VerifyCode(c echo.Context) error {
	p := h.page(c, c.FormValue("lang"))
	code := strings.TrimSpace(c.FormValue("code"))

	a, err := h.Svc.ConfirmBooking(c.Request().Context(), middleware.SessionID(c), code)
	if err == nil {
		p.Appointment = a
		return c.Render(http.StatusOK, "success.html", p)
	}

	status, msg := h.failure(err, p.T)
	p.Error = msg
	if errors.Is(err, verification.ErrCodeMismatch) {
		return c.Render(status, "verify.html", p)
	}
	return c.Render(status, "error.html", p)
}

// failure maps a workflow error to a status code and a localized message.
func (h *BookingHandler) failure(err error, t i18n.Messages) (int, string) {
	var verr *booking.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, t.Error
	case errors.Is(err, booking.ErrInvalidLevel):
		return http.StatusBadRequest, t.InvalidLevel
	case errors.Is(err, booking.ErrSlotNoLongerAvailable):
		return http.StatusConflict, t.SlotTaken
	case errors.Is(err, booking.ErrNotification):
		return http.StatusBadGateway, t.EmailError
	case errors.Is(err, verification.ErrNoPendingSession):
		return http.StatusUnauthorized, t.SessionExpired
	case errors.Is(err, verification.ErrExpired):
		return http.StatusGone, t.CodeExpired
	case errors.Is(err, verification.ErrCodeMismatch):
		return http.StatusBadRequest, t.InvalidCode
	}
	h.Log.Error("booking request failed", zap.Error(err))
	return http.StatusInternalServerError, t.ServerError
}

func wantsJSON(c echo.Context) bool {
	return strings.Contains(c.Request().Header.Get(echo.HeaderAccept), echo.MIMEApplicationJSON)
}
