package model

import "time"

// Slot is a bookable half-hour unit on a given day.  A slot is identified
// by its (Date, Time) pair and flips to unavailable once an appointment
// is committed on it.
//
// Fields:
//
//	ID        – primary key identifier.
//	Date      – calendar day, formatted YYYY-MM-DD.
//	Time      – time of day, formatted HH:MM (24h).
//	Available – false once the slot has been booked.
//	CreatedAt – creation timestamp.
type Slot struct {
	ID        uint64    // slots.id
	Date      string    // slots.slot_date
	Time      string    // slots.slot_time
	Available bool      // slots.available
	CreatedAt time.Time // slots.created_at
}

// DateLayout and TimeLayout are the canonical text forms of slot dates and
// times across the database, the HTTP surface and the mails.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)
