package booking

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/iliyamo/exam-appointment-booking/internal/model"
	"github.com/iliyamo/exam-appointment-booking/internal/schedule"
)

// NewValidator returns a validator that reports fields by their form name.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// normalize trims the payload, checks required fields and formats, and
// canonicalises the time and level.
func (s *Service) normalize(b model.Booking) (model.Booking, error) {
	b.Date = strings.TrimSpace(b.Date)
	b.Time = strings.TrimSpace(b.Time)
	b.Name = strings.TrimSpace(b.Name)
	b.Phone = strings.TrimSpace(b.Phone)
	b.Email = strings.TrimSpace(b.Email)
	b.Level = strings.TrimSpace(b.Level)
	b.Lang = strings.TrimSpace(b.Lang)

	var fields []string
	if err := s.validate.Struct(b); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return b, err
		}
		for _, fe := range verrs {
			fields = append(fields, fe.Field())
		}
	}
	if b.Time != "" {
		t, err := schedule.NormalizeTime(b.Time)
		if err != nil {
			fields = appendOnce(fields, "time")
		} else {
			b.Time = t
		}
	}
	if len(fields) > 0 {
		return b, &ValidationError{Fields: fields}
	}

	lvl, ok := model.NormalizeLevel(b.Level)
	if !ok {
		return b, ErrInvalidLevel
	}
	b.Level = lvl
	return b, nil
}

func appendOnce(list []string, v string) []string {
	for _, x := range list {
		if x == v {
			return list
		}
	}
	return append(list, v)
}
