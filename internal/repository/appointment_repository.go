package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/exam-appointment-booking/internal/model"
)

// AppointmentRepo persists confirmed appointments.  Rows are insert-only.
type AppointmentRepo struct {
	db *sql.DB
}

// NewAppointmentRepo returns a new AppointmentRepo bound to the given database.
func NewAppointmentRepo(db *sql.DB) *AppointmentRepo { return &AppointmentRepo{db: db} }

// CreateTx inserts an appointment within the scope of an existing
// transaction and populates the generated ID and creation timestamp.
func (r *AppointmentRepo) CreateTx(ctx context.Context, tx *sql.Tx, a *model.Appointment) error {
	const q = `INSERT INTO appointments (slot_date, slot_time, full_name, phone, email, exam_level)
               VALUES (?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, a.Date, a.Time, a.FullName, a.Phone, a.Email, a.Level)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)
	const sel = `SELECT created_at FROM appointments WHERE id = ?`
	return tx.QueryRowContext(ctx, sel, a.ID).Scan(&a.CreatedAt)
}
