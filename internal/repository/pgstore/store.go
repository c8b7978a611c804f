// Package pgstore is the PostgreSQL backend of the booking workflow.  It
// mirrors the MySQL repository and reports the same error values.
package pgstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iliyamo/exam-appointment-booking/internal/model"
	"github.com/iliyamo/exam-appointment-booking/internal/repository"
)

// Store is the PostgreSQL backend of the booking workflow.  It mirrors
// repository.Store on a pgx pool.
type Store struct {
	pool *pgxpool.Pool
}

// New returns a Store using pool.
func New(pool *pgxpool.Pool) *Store { return &Store{pool: pool} }

// SeedSlots inserts the given slots when the table is empty and returns
// the number of inserted rows.
func (s *Store) SeedSlots(ctx context.Context, slots []model.Slot) (int64, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback(ctx)
		}
	}()

	var n int
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM slots`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count slots: %w", err)
	}
	if n > 0 {
		return 0, nil
	}

	var inserted int64
	for start := 0; start < len(slots); start += repository.SeedBatchSize {
		end := start + repository.SeedBatchSize
		if end > len(slots) {
			end = len(slots)
		}
		q, args := insertSlotsQuery(slots[start:end])
		tag, err := tx.Exec(ctx, q, args...)
		if err != nil {
			return inserted, fmt.Errorf("insert slot batch at %d: %w", start, err)
		}
		inserted += tag.RowsAffected()
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	committed = true
	return inserted, nil
}

func insertSlotsQuery(batch []model.Slot) (string, []any) {
	var sb strings.Builder
	sb.WriteString(`INSERT INTO slots (slot_date, slot_time, available) VALUES `)
	args := make([]any, 0, len(batch)*3)
	for i, sl := range batch {
		if i > 0 {
			sb.WriteString(",")
		}
		p := i * 3
		fmt.Fprintf(&sb, "($%d::date, $%d, $%d)", p+1, p+2, p+3)
		args = append(args, sl.Date, sl.Time, sl.Available)
	}
	sb.WriteString(` ON CONFLICT (slot_date, slot_time) DO NOTHING`)
	return sb.String(), args
}

// AvailableTimes lists the free times of date in ascending order.
func (s *Store) AvailableTimes(ctx context.Context, date string) ([]string, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT slot_time FROM slots
		 WHERE slot_date = $1::date AND available
		 ORDER BY slot_time ASC`, date)
	if err != nil {
		return nil, err
	}
	times, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, err
	}
	if times == nil {
		times = []string{}
	}
	return times, nil
}

// FullyBookedDates returns the dates from "from" onward without a free slot.
func (s *Store) FullyBookedDates(ctx context.Context, from string) ([]string, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT to_char(slot_date, 'YYYY-MM-DD')
		 FROM slots
		 WHERE slot_date >= $1::date
		 GROUP BY slot_date
		 HAVING bool_or(available) = FALSE
		 ORDER BY slot_date ASC`, from)
	if err != nil {
		return nil, err
	}
	dates, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, err
	}
	if dates == nil {
		dates = []string{}
	}
	return dates, nil
}

// CommitAppointment marks the slot booked and inserts the appointment in a
// single transaction.  A slot that is no longer free yields
// repository.ErrSlotUnavailable.
func (s *Store) CommitAppointment(ctx context.Context, a *model.Appointment) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback(ctx)
		}
	}()

	tag, err := tx.Exec(ctx,
		`UPDATE slots SET available = FALSE
		 WHERE slot_date = $1::date AND slot_time = $2 AND available`, a.Date, a.Time)
	if err != nil {
		return fmt.Errorf("mark slot booked: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrSlotUnavailable
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO appointments (slot_date, slot_time, full_name, phone, email, exam_level)
		 VALUES ($1::date, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`,
		a.Date, a.Time, a.FullName, a.Phone, a.Email, a.Level).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert appointment: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	committed = true
	return nil
}
