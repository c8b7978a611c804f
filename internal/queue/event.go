// Package queue defines the messages exchanged over the broker and the
// consumer that records them.
package queue

import (
	"time"

	"github.com/iliyamo/exam-appointment-booking/internal/model"
)

// AppointmentConfirmedQueue is the durable queue confirmed appointments
// are published to.
const AppointmentConfirmedQueue = "appointment.confirmed"

// AppointmentConfirmedEvent is published once an appointment is
// committed.  It carries enough for downstream consumers to log or notify
// without querying the database.
type AppointmentConfirmedEvent struct {
	AppointmentID uint64 `json:"appointment_id"`
	Date          string `json:"date"`
	Time          string `json:"time"`
	FullName      string `json:"full_name"`
	Email         string `json:"email"`
	Level         string `json:"level"`
	Lang          string `json:"lang"`
	ConfirmedAt   string `json:"confirmed_at"`
}

// NewAppointmentConfirmed builds the event for a committed appointment.
func NewAppointmentConfirmed(a *model.Appointment, lang string, at time.Time) AppointmentConfirmedEvent {
	return AppointmentConfirmedEvent{
		AppointmentID: a.ID,
		Date:          a.Date,
		Time:          a.Time,
		FullName:      a.FullName,
		Email:         a.Email,
		Level:         a.Level,
		Lang:          lang,
		ConfirmedAt:   at.UTC().Format(time.RFC3339),
	}
}
