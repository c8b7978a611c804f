package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/iliyamo/exam-appointment-booking/internal/model"
)

// SlotRepo provides data access to the slots table.  Dates are passed and
// returned as YYYY-MM-DD strings and times as HH:MM strings.
type SlotRepo struct {
	db *sql.DB
}

// NewSlotRepo returns a new SlotRepo bound to the provided database.
func NewSlotRepo(db *sql.DB) *SlotRepo { return &SlotRepo{db: db} }

// DB exposes the underlying sql.DB so callers can open transactions that
// span the slot and appointment repositories.
func (r *SlotRepo) DB() *sql.DB { return r.db }

// CountTx returns the number of slot rows.
func (r *SlotRepo) CountTx(ctx context.Context, tx *sql.Tx) (int, error) {
	var n int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM slots`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// CreateBulkTx inserts slots in batches of SeedBatchSize.  Rows that
// already exist for the same (date, time) are skipped.  Passing an empty
// slice has no effect.
func (r *SlotRepo) CreateBulkTx(ctx context.Context, tx *sql.Tx, slots []model.Slot) (int64, error) {
	var inserted int64
	for start := 0; start < len(slots); start += SeedBatchSize {
		end := start + SeedBatchSize
		if end > len(slots) {
			end = len(slots)
		}
		batch := slots[start:end]
		var sb strings.Builder
		sb.WriteString(`INSERT IGNORE INTO slots (slot_date, slot_time, available) VALUES `)
		args := make([]interface{}, 0, len(batch)*3)
		for i, s := range batch {
			if i > 0 {
				sb.WriteString(",")
			}
			sb.WriteString("(?, ?, ?)")
			args = append(args, s.Date, s.Time, s.Available)
		}
		res, err := tx.ExecContext(ctx, sb.String(), args...)
		if err != nil {
			return inserted, fmt.Errorf("insert slot batch at %d: %w", start, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return inserted, err
		}
		inserted += n
	}
	return inserted, nil
}

// AvailableTimes lists the free times of a day in ascending order.  An
// unknown date yields an empty slice.
func (r *SlotRepo) AvailableTimes(ctx context.Context, date string) ([]string, error) {
	const q = `SELECT slot_time FROM slots
               WHERE slot_date = ? AND available = TRUE
               ORDER BY slot_time ASC`
	rows, err := r.db.QueryContext(ctx, q, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	times := make([]string, 0)
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		times = append(times, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return times, nil
}

// FullyBookedDates returns the days on or after from that have slots but
// none of them free, ascending.
func (r *SlotRepo) FullyBookedDates(ctx context.Context, from string) ([]string, error) {
	const q = `SELECT DATE_FORMAT(slot_date, '%Y-%m-%d')
               FROM slots
               WHERE slot_date >= ?
               GROUP BY slot_date
               HAVING SUM(available) = 0
               ORDER BY slot_date ASC`
	rows, err := r.db.QueryContext(ctx, q, from)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	dates := make([]string, 0)
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		dates = append(dates, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return dates, nil
}

// MarkBookedTx flips a free slot to unavailable inside the caller's
// transaction.  The update is conditional on the slot still being free;
// when no row changes, ErrSlotUnavailable is returned and the caller must
// roll back.
func (r *SlotRepo) MarkBookedTx(ctx context.Context, tx *sql.Tx, date, tm string) error {
	const q = `UPDATE slots SET available = FALSE
               WHERE slot_date = ? AND slot_time = ? AND available = TRUE`
	res, err := tx.ExecContext(ctx, q, date, tm)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrSlotUnavailable
	}
	return nil
}
