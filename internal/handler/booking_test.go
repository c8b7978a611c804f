package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/exam-appointment-booking/internal/booking"
	"github.com/iliyamo/exam-appointment-booking/internal/handler"
	"github.com/iliyamo/exam-appointment-booking/internal/model"
	"github.com/iliyamo/exam-appointment-booking/internal/router"
	"github.com/iliyamo/exam-appointment-booking/internal/schedule"
	"github.com/iliyamo/exam-appointment-booking/internal/verification"
)

type stubService struct {
	slots      []string
	dates      []string
	listErr    error
	requestErr error
	confirmErr error
	gotSession string
	gotBooking model.Booking
	gotCode    string
}

func (s *stubService) Calendar() schedule.Calendar {
	return schedule.Calendar{
		End:      time.Date(2025, 3, 25, 0, 0, 0, 0, time.UTC),
		First:    9*time.Hour + 30*time.Minute,
		Last:     16*time.Hour + 30*time.Minute,
		Closed:   time.Sunday,
		Location: time.UTC,
	}
}

func (s *stubService) ListAvailable(_ context.Context, _ string) ([]string, error) {
	return s.slots, s.listErr
}

func (s *stubService) UnavailableDates(context.Context) ([]string, error) { return s.dates, nil }

func (s *stubService) RequestBooking(_ context.Context, sid string, b model.Booking) (*verification.Pending, error) {
	s.gotSession, s.gotBooking = sid, b
	if s.requestErr != nil {
		return nil, s.requestErr
	}
	return &verification.Pending{Code: "123456", Booking: b}, nil
}

func (s *stubService) ConfirmBooking(_ context.Context, sid, code string) (*model.Appointment, error) {
	s.gotSession, s.gotCode = sid, code
	if s.confirmErr != nil {
		return nil, s.confirmErr
	}
	return &model.Appointment{ID: 1, Date: "2025-03-10", Time: "10:00", Level: "N3"}, nil
}

func newServer(t *testing.T, svc *stubService) *echo.Echo {
	t.Helper()
	e := echo.New()
	r, err := handler.NewRenderer()
	require.NoError(t, err)
	e.Renderer = r
	router.Use(e, router.Options{SessionSecret: "s3cret", SessionTTL: time.Hour})
	router.RegisterRoutes(e)
	h := handler.NewBookingHandler(svc, "fr", nil)
	h.Now = func() time.Time { return time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC) }
	router.RegisterBooking(e, h, nil, nil)
	return e
}

func do(e *echo.Echo, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func postForm(path string, v url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(v.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	return req
}

func bookingForm() url.Values {
	return url.Values{
		"date": {"2025-03-10"}, "time": {"10:00"}, "name": {"Aiko"},
		"phone": {"0600000000"}, "email": {"aiko@example.com"}, "jlpt_level": {"N3"}, "lang": {"en"},
	}
}

func TestHealth(t *testing.T) {
	rec := do(newServer(t, &stubService{}), httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestRootRedirectsToDefaultLocale(t *testing.T) {
	rec := do(newServer(t, &stubService{}), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/fr", rec.Header().Get(echo.HeaderLocation))
}

func TestIndexLocales(t *testing.T) {
	e := newServer(t, &stubService{})

	rec := do(e, httptest.NewRequest(http.MethodGet, "/ja", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `lang="ja"`)
	assert.Contains(t, rec.Body.String(), `min="2025-03-10"`)
	assert.Contains(t, rec.Body.String(), `max="2025-03-25"`)

	rec = do(e, httptest.NewRequest(http.MethodGet, "/de", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `lang="fr"`)

	rec = do(e, httptest.NewRequest(http.MethodGet, "/change-language?lang=ar", nil))
	assert.Contains(t, rec.Body.String(), `dir="rtl"`)
}

func TestGetSlotsHTMLAndJSON(t *testing.T) {
	e := newServer(t, &stubService{slots: []string{"10:00", "10:30"}})

	rec := do(e, httptest.NewRequest(http.MethodGet, "/get-slots?date=2025-03-10&lang=en", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `<option value="10:30">10:30</option>`)

	req := httptest.NewRequest(http.MethodGet, "/get-slots?date=2025-03-10", nil)
	req.Header.Set(echo.HeaderAccept, echo.MIMEApplicationJSON)
	rec = do(e, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Date  string   `json:"date"`
		Slots []string `json:"slots"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "2025-03-10", body.Date)
	assert.Equal(t, []string{"10:00", "10:30"}, body.Slots)
}

func TestGetSlotsEmptyDay(t *testing.T) {
	e := newServer(t, &stubService{slots: []string{}})
	rec := do(e, httptest.NewRequest(http.MethodGet, "/get-slots?date=2025-03-16&lang=en", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No time slot available")
}

func TestGetUnavailableDates(t *testing.T) {
	e := newServer(t, &stubService{dates: []string{"2025-03-12"}})
	rec := do(e, httptest.NewRequest(http.MethodGet, "/get-unavailable-dates", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `["2025-03-12"]`, rec.Body.String())
}

func TestSaveAppointmentSuccess(t *testing.T) {
	svc := &stubService{}
	rec := do(newServer(t, svc), postForm("/save-appointment", bookingForm()))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `action="/verify-code"`)
	assert.NotContains(t, rec.Body.String(), "123456")
	assert.NotEmpty(t, svc.gotSession)
	assert.Equal(t, "aiko@example.com", svc.gotBooking.Email)
	assert.Equal(t, "N3", svc.gotBooking.Level)
	assert.Equal(t, "en", svc.gotBooking.Lang)
}

func TestSaveAppointmentFailures(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		marker string
	}{
		{"validation", &booking.ValidationError{Fields: []string{"name"}}, http.StatusBadRequest, "Please fill all fields correctly"},
		{"invalid level", booking.ErrInvalidLevel, http.StatusBadRequest, "Invalid JLPT level"},
		{"slot taken", booking.ErrSlotNoLongerAvailable, http.StatusConflict, "no longer available"},
		{"mail down", booking.ErrNotification, http.StatusBadGateway, "Error sending email"},
		{"storage", errors.New("db gone"), http.StatusInternalServerError, "Something went wrong"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(newServer(t, &stubService{requestErr: tc.err}), postForm("/save-appointment", bookingForm()))
			assert.Equal(t, tc.status, rec.Code)
			assert.Contains(t, rec.Body.String(), tc.marker)
		})
	}
}

func TestSaveAppointmentValidationKeepsForm(t *testing.T) {
	svc := &stubService{requestErr: &booking.ValidationError{Fields: []string{"email"}}}
	rec := do(newServer(t, svc), postForm("/save-appointment", bookingForm()))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `value="Aiko"`)
	assert.Contains(t, rec.Body.String(), `action="/save-appointment"`)
}

func TestVerifyCodeOutcomes(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		marker string
	}{
		{"success", nil, http.StatusOK, "Appointment successfully registered"},
		{"mismatch", verification.ErrCodeMismatch, http.StatusBadRequest, `action="/verify-code"`},
		{"no session", verification.ErrNoPendingSession, http.StatusUnauthorized, "window.location.href = '/en'"},
		{"expired", verification.ErrExpired, http.StatusGone, "Code expired"},
		{"slot taken", booking.ErrSlotNoLongerAvailable, http.StatusConflict, "no longer available"},
		{"storage", errors.New("db gone"), http.StatusInternalServerError, "Something went wrong"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &stubService{confirmErr: tc.err}
			rec := do(newServer(t, svc), postForm("/verify-code", url.Values{"code": {" 123456 "}, "lang": {"en"}}))
			assert.Equal(t, tc.status, rec.Code)
			assert.Contains(t, rec.Body.String(), tc.marker)
			assert.Equal(t, "123456", svc.gotCode)
		})
	}
}
