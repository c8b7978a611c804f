package model

// Booking is the payload a visitor submits before the email code is
// confirmed.  It travels inside the verification record and becomes an
// Appointment on commit.
type Booking struct {
	Date  string `json:"date" form:"date" validate:"required,datetime=2006-01-02"`
	Time  string `json:"time" form:"time" validate:"required"`
	Name  string `json:"name" form:"name" validate:"required,max=120"`
	Phone string `json:"phone" form:"phone" validate:"required,max=32"`
	Email string `json:"email" form:"email" validate:"required,email,max=254"`
	Level string `json:"jlpt_level" form:"jlpt_level" validate:"required"`
	Lang  string `json:"lang" form:"lang"`
}

// Appointment converts the booking into the record stored on commit.
func (b Booking) Appointment() *Appointment {
	return &Appointment{
		Date:     b.Date,
		Time:     b.Time,
		FullName: b.Name,
		Phone:    b.Phone,
		Email:    b.Email,
		Level:    b.Level,
	}
}
