package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/iliyamo/exam-appointment-booking/internal/model"
)

// Store is the MySQL backend of the booking workflow.  It combines the
// slot and appointment repositories and owns the commit transaction.
type Store struct {
	Slots        *SlotRepo
	Appointments *AppointmentRepo
}

// NewStore wires both repositories on the same database handle.
func NewStore(db *sql.DB) *Store {
	return &Store{Slots: NewSlotRepo(db), Appointments: NewAppointmentRepo(db)}
}

// SeedSlots populates the slot table when, and only when, it is empty.
// It returns the number of rows inserted; zero on an already populated
// table.
func (s *Store) SeedSlots(ctx context.Context, slots []model.Slot) (int64, error) {
	tx, err := s.Slots.DB().BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	n, err := s.Slots.CountTx(ctx, tx)
	if err != nil {
		return 0, fmt.Errorf("count slots: %w", err)
	}
	if n > 0 {
		return 0, nil
	}
	inserted, err := s.Slots.CreateBulkTx(ctx, tx, slots)
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	committed = true
	return inserted, nil
}

// AvailableTimes lists the free times of date in ascending order.
func (s *Store) AvailableTimes(ctx context.Context, date string) ([]string, error) {
	return s.Slots.AvailableTimes(ctx, date)
}

// FullyBookedDates returns the dates from "from" onward without a free slot.
func (s *Store) FullyBookedDates(ctx context.Context, from string) ([]string, error) {
	return s.Slots.FullyBookedDates(ctx, from)
}

// CommitAppointment closes the slot and records the appointment in one
// transaction.  ErrSlotUnavailable is returned untouched when the slot was
// taken in the meantime; nothing is persisted in that case.
func (s *Store) CommitAppointment(ctx context.Context, a *model.Appointment) error {
	tx, err := s.Slots.DB().BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := s.Slots.MarkBookedTx(ctx, tx, a.Date, a.Time); err != nil {
		if err == ErrSlotUnavailable {
			return err
		}
		return fmt.Errorf("mark slot booked: %w", err)
	}
	if err := s.Appointments.CreateTx(ctx, tx, a); err != nil {
		return fmt.Errorf("insert appointment: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	committed = true
	return nil
}
