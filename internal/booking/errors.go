package booking

import (
	"errors"
	"strings"
)

var (
	// ErrInvalidLevel is returned when the exam level is not one of N1..N5.
	ErrInvalidLevel = errors.New("invalid exam level")
	// ErrSlotNoLongerAvailable is returned when the requested slot is not
	// offered anymore, either at request time or because a concurrent
	// commit won the slot.
	ErrSlotNoLongerAvailable = errors.New("slot no longer available")
	// ErrNotification is returned when the verification code could not be
	// delivered.  The pending record is cleared in that case.
	ErrNotification = errors.New("notification failed")
)

// ValidationError lists the form fields that are missing or malformed.
// Nothing is stored when it is returned.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "invalid booking fields: " + strings.Join(e.Fields, ", ")
}
