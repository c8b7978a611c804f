// Package booking is the appointment workflow: listing the free slots of a
// day, accepting a booking request, issuing the email code and committing
// the appointment once the code is confirmed.
package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/iliyamo/exam-appointment-booking/internal/model"
	"github.com/iliyamo/exam-appointment-booking/internal/repository"
	"github.com/iliyamo/exam-appointment-booking/internal/schedule"
	"github.com/iliyamo/exam-appointment-booking/internal/verification"
)

// Store is the persistence the workflow needs.  Both the MySQL and the
// PostgreSQL backends implement it.
type Store interface {
	SeedSlots(ctx context.Context, slots []model.Slot) (int64, error)
	AvailableTimes(ctx context.Context, date string) ([]string, error)
	FullyBookedDates(ctx context.Context, from string) ([]string, error)
	// CommitAppointment marks the slot booked and inserts the appointment
	// atomically, returning repository.ErrSlotUnavailable on conflict.
	CommitAppointment(ctx context.Context, a *model.Appointment) error
}

// Sessions keeps one pending verification per browser session.
type Sessions interface {
	CreatePending(ctx context.Context, sessionID string, b model.Booking) (*verification.Pending, error)
	Verify(ctx context.Context, sessionID, code string) (model.Booking, error)
	Clear(ctx context.Context, sessionID string) error
}

// Notifier delivers the verification code and the final confirmation.
type Notifier interface {
	SendCode(ctx context.Context, b model.Booking, code string, expiresAt time.Time) error
	SendConfirmation(ctx context.Context, a *model.Appointment, lang string, pdf []byte) error
}

// DocumentRenderer produces the confirmation PDF.
type DocumentRenderer interface {
	Render(a *model.Appointment) ([]byte, error)
}

// EventPublisher announces confirmed appointments to other systems.
type EventPublisher interface {
	PublishAppointmentConfirmed(ctx context.Context, a *model.Appointment, lang string) error
}

// Deps groups the collaborators of a Service.  Events may be nil.
type Deps struct {
	Store         Store
	Sessions      Sessions
	Notifier      Notifier
	Documents     DocumentRenderer
	Events        EventPublisher
	Calendar      schedule.Calendar
	Logger        *zap.Logger
	NotifyTimeout time.Duration
	Now           func() time.Time
}

// Service runs the booking workflow: listing free slots, issuing a
// verification code for a request and committing it once the code is
// confirmed.  It is safe for concurrent use.
type Service struct {
	store         Store
	sessions      Sessions
	notifier      Notifier
	docs          DocumentRenderer
	events        EventPublisher
	calendar      schedule.Calendar
	validate      *validator.Validate
	log           *zap.Logger
	notifyTimeout time.Duration
	now           func() time.Time
}

// NewService builds a Service from d.  Events may be nil; Now defaults to
// time.Now.
func NewService(d Deps) *Service {
	s := &Service{
		store:         d.Store,
		sessions:      d.Sessions,
		notifier:      d.Notifier,
		docs:          d.Documents,
		events:        d.Events,
		calendar:      d.Calendar,
		validate:      NewValidator(),
		log:           d.Logger,
		notifyTimeout: d.NotifyTimeout,
		now:           d.Now,
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.notifyTimeout <= 0 {
		s.notifyTimeout = 10 * time.Second
	}
	return s
}

// Calendar returns the calendar the service offers slots from.
func (s *Service) Calendar() schedule.Calendar { return s.calendar }

// InitializeSlots fills the slot table for the whole calendar when it is
// empty.  A populated table is left untouched.
func (s *Service) InitializeSlots(ctx context.Context) (int64, error) {
	slots := s.calendar.Generate(s.now())
	n, err := s.store.SeedSlots(ctx, slots)
	if err != nil {
		return 0, fmt.Errorf("initialize slots: %w", err)
	}
	if n == 0 {
		s.log.Info("slots already initialized")
	} else {
		s.log.Info("slots initialized",
			zap.Int64("inserted", n),
			zap.String("until", s.calendar.End.Format(model.DateLayout)))
	}
	return n, nil
}

// ListAvailable returns the free times of date in ascending order.  Dates
// that are unparsable, in the past, beyond the calendar or on the closed
// weekday yield an empty list.
func (s *Service) ListAvailable(ctx context.Context, date string) ([]string, error) {
	now := s.now()
	day, err := s.calendar.ParseDate(date)
	if err != nil || !s.calendar.IsOpen(day, now) {
		return []string{}, nil
	}
	free, err := s.store.AvailableTimes(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("list available times: %w", err)
	}
	out := s.calendar.Bookable(date, free, now)
	if out == nil {
		out = []string{}
	}
	return out, nil
}

// UnavailableDates lists the fully booked days from today on.
func (s *Service) UnavailableDates(ctx context.Context) ([]string, error) {
	from := s.calendar.Day(s.now()).Format(model.DateLayout)
	dates, err := s.store.FullyBookedDates(ctx, from)
	if err != nil {
		return nil, fmt.Errorf("list fully booked dates: %w", err)
	}
	return dates, nil
}

// RequestBooking validates the payload, checks the slot is still offered,
// stores a pending verification for the session and mails the code.  If
// the mail cannot be sent the pending record is dropped and
// ErrNotification is returned.
func (s *Service) RequestBooking(ctx context.Context, sessionID string, b model.Booking) (*verification.Pending, error) {
	b, err := s.normalize(b)
	if err != nil {
		return nil, err
	}
	free, err := s.ListAvailable(ctx, b.Date)
	if err != nil {
		return nil, err
	}
	if !contains(free, b.Time) {
		return nil, ErrSlotNoLongerAvailable
	}

	p, err := s.sessions.CreatePending(ctx, sessionID, b)
	if err != nil {
		return nil, fmt.Errorf("create pending verification: %w", err)
	}

	sendCtx, cancel := context.WithTimeout(ctx, s.notifyTimeout)
	defer cancel()
	if err := s.notifier.SendCode(sendCtx, b, p.Code, p.ExpiresAt); err != nil {
		s.log.Warn("verification code not sent",
			zap.String("email", b.Email),
			zap.Error(err))
		if cerr := s.sessions.Clear(ctx, sessionID); cerr != nil {
			s.log.Error("clear pending verification", zap.Error(cerr))
		}
		return nil, fmt.Errorf("%w: %v", ErrNotification, err)
	}
	s.log.Info("verification code sent",
		zap.String("date", b.Date),
		zap.String("time", b.Time))
	return p, nil
}

// ConfirmBooking checks the submitted code for the session and commits the
// pending booking.  Verification failures are returned as the
// verification package's errors.
func (s *Service) ConfirmBooking(ctx context.Context, sessionID, code string) (*model.Appointment, error) {
	b, err := s.sessions.Verify(ctx, sessionID, code)
	if err != nil {
		return nil, err
	}
	return s.Commit(ctx, b)
}

// Commit persists a verified booking.  The slot update and the insert are
// atomic; the confirmation document, mail and event that follow are best
// effort and only logged on failure.
func (s *Service) Commit(ctx context.Context, b model.Booking) (*model.Appointment, error) {
	b, err := s.normalize(b)
	if err != nil {
		return nil, err
	}
	a := b.Appointment()
	if err := s.store.CommitAppointment(ctx, a); err != nil {
		if errors.Is(err, repository.ErrSlotUnavailable) {
			s.log.Info("slot taken before commit",
				zap.String("date", a.Date),
				zap.String("time", a.Time))
			return nil, ErrSlotNoLongerAvailable
		}
		return nil, fmt.Errorf("commit appointment: %w", err)
	}
	s.log.Info("appointment committed",
		zap.Uint64("id", a.ID),
		zap.String("date", a.Date),
		zap.String("time", a.Time),
		zap.String("level", a.Level))

	s.afterCommit(context.WithoutCancel(ctx), a, b.Lang)
	return a, nil
}

func (s *Service) afterCommit(ctx context.Context, a *model.Appointment, lang string) {
	ctx, cancel := context.WithTimeout(ctx, s.notifyTimeout)
	defer cancel()

	pdf, err := s.docs.Render(a)
	if err != nil {
		s.log.Error("render confirmation", zap.Uint64("id", a.ID), zap.Error(err))
	} else if err := s.notifier.SendConfirmation(ctx, a, lang, pdf); err != nil {
		s.log.Error("send confirmation", zap.Uint64("id", a.ID), zap.Error(err))
	}

	if s.events != nil {
		if err := s.events.PublishAppointmentConfirmed(ctx, a, lang); err != nil {
			s.log.Warn("publish appointment.confirmed", zap.Uint64("id", a.ID), zap.Error(err))
		}
	}
}

func contains(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
