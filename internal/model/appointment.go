package model

import "time"

// Appointment records a confirmed booking.  It is written exactly once, at
// verification time, and never updated afterwards.
//
// Fields:
//
//	ID        – primary key identifier.
//	Date      – booked day (YYYY-MM-DD).
//	Time      – booked time (HH:MM).
//	FullName  – candidate name as typed in the form.
//	Phone     – contact phone.
//	Email     – address the code and confirmation were sent to.
//	Level     – exam level code (N1..N5).
//	CreatedAt – creation timestamp.
type Appointment struct {
	ID        uint64    // appointments.id
	Date      string    // appointments.slot_date
	Time      string    // appointments.slot_time
	FullName  string    // appointments.full_name
	Phone     string    // appointments.phone
	Email     string    // appointments.email
	Level     string    // appointments.exam_level
	CreatedAt time.Time // appointments.created_at
}
