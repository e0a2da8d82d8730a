package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type apptRepoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &apptRepoPG{pool: pool} }

const apptCols = `a.id, a.doctor_id, a.patient_id, a.facility_id, a.appointment_date,
	a.appointment_time, a.type, a.status, a.full_name, a.phone_number, a.email,
	a.is_anonymous, a.purpose, a.created_by, a.notes, a.created_at, a.updated_at`

func (r *apptRepoPG) scanAppt(row pgx.Row) (*Appointment, error) {
	var a Appointment
	err := row.Scan(&a.ID, &a.DoctorID, &a.PatientID, &a.FacilityID, &a.AppointmentDate,
		&a.AppointmentTime, &a.Type, &a.Status, &a.FullName, &a.PhoneNumber, &a.Email,
		&a.IsAnonymous, &a.Purpose, &a.CreatedBy, &a.Notes, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &a, err
}

func (r *apptRepoPG) scanApptWithDoctor(row pgx.Row) (*Appointment, error) {
	var a Appointment
	err := row.Scan(&a.ID, &a.DoctorID, &a.PatientID, &a.FacilityID, &a.AppointmentDate,
		&a.AppointmentTime, &a.Type, &a.Status, &a.FullName, &a.PhoneNumber, &a.Email,
		&a.IsAnonymous, &a.Purpose, &a.CreatedBy, &a.Notes, &a.CreatedAt, &a.UpdatedAt,
		&a.DoctorName)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &a, err
}

func (r *apptRepoPG) Create(ctx context.Context, a *Appointment) error {
	a.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO appointments (id, doctor_id, patient_id, facility_id,
			appointment_date, appointment_time, type, status, full_name,
			phone_number, email, is_anonymous, purpose, created_by, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)`,
		a.ID, a.DoctorID, a.PatientID, a.FacilityID,
		a.AppointmentDate, a.AppointmentTime, a.Type, a.Status, a.FullName,
		a.PhoneNumber, a.Email, a.IsAnonymous, a.Purpose, a.CreatedBy, a.Notes)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23503" {
		return ErrForeignKey
	}
	return err
}

func (r *apptRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return r.scanAppt(r.pool.QueryRow(ctx,
		`SELECT `+apptCols+` FROM appointments a WHERE a.id = $1`, id))
}

func (r *apptRepoPG) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE appointments SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

const apptJoin = `FROM appointments a
	JOIN doctors d ON d.id = a.doctor_id
	JOIN users u ON u.id = d.user_id`

func (r *apptRepoPG) ListByCreator(ctx context.Context, createdBy uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	var total int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM appointments WHERE created_by = $1`, createdBy).Scan(&total)
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+apptCols+`, u.full_name AS doctor_name `+apptJoin+`
		WHERE a.created_by = $1
		ORDER BY a.appointment_date DESC, a.appointment_time DESC
		LIMIT $2 OFFSET $3`, createdBy, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	items, err := r.collectWithDoctor(rows)
	return items, total, err
}

func (r *apptRepoPG) ListWithNotesByCreator(ctx context.Context, createdBy uuid.UUID) ([]*Appointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+apptCols+`, u.full_name AS doctor_name `+apptJoin+`
		WHERE a.created_by = $1 AND a.notes IS NOT NULL
		ORDER BY a.appointment_date DESC, a.appointment_time DESC`, createdBy)
	if err != nil {
		return nil, err
	}
	return r.collectWithDoctor(rows)
}

func (r *apptRepoPG) ListByContact(ctx context.Context, phone, email string) ([]*Appointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+apptCols+`, u.full_name AS doctor_name `+apptJoin+`
		WHERE (a.phone_number = $1 AND $1 <> '') OR (a.email = $2 AND $2 <> '')
		ORDER BY a.appointment_date DESC, a.appointment_time DESC`, phone, email)
	if err != nil {
		return nil, err
	}
	return r.collectWithDoctor(rows)
}

func (r *apptRepoPG) collectWithDoctor(rows pgx.Rows) ([]*Appointment, error) {
	defer rows.Close()
	var items []*Appointment
	for rows.Next() {
		a, err := r.scanApptWithDoctor(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

func (r *apptRepoPG) ExactDuplicate(ctx context.Context, createdBy, doctorID uuid.UUID, date time.Time, timeStr string) (*Appointment, error) {
	a, err := r.scanAppt(r.pool.QueryRow(ctx, `
		SELECT `+apptCols+` FROM appointments a
		WHERE a.created_by = $1 AND a.doctor_id = $2 AND a.appointment_date = $3
			AND a.appointment_time = $4 AND a.status <> 'Cancelled'
		LIMIT 1`, createdBy, doctorID, date, timeStr))
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	return a, err
}

func (r *apptRepoPG) CountSameDayWithDoctor(ctx context.Context, createdBy, doctorID uuid.UUID, date time.Time) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM appointments
		WHERE created_by = $1 AND doctor_id = $2 AND appointment_date = $3
			AND status <> 'Cancelled'`, createdBy, doctorID, date).Scan(&n)
	return n, err
}

func (r *apptRepoPG) ListOwnOnDate(ctx context.Context, createdBy uuid.UUID, date time.Time) ([]*Appointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+apptCols+`, u.full_name AS doctor_name `+apptJoin+`
		WHERE a.created_by = $1 AND a.appointment_date = $2 AND a.status <> 'Cancelled'
		ORDER BY a.appointment_time`, createdBy, date)
	if err != nil {
		return nil, err
	}
	return r.collectWithDoctor(rows)
}

func (r *apptRepoPG) CountAtSlot(ctx context.Context, doctorID uuid.UUID, date time.Time, timeStr string, excludeCreator *uuid.UUID) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM appointments
		WHERE doctor_id = $1 AND appointment_date = $2 AND appointment_time = $3
			AND status <> 'Cancelled'
			AND ($4::uuid IS NULL OR created_by IS DISTINCT FROM $4)`,
		doctorID, date, timeStr, excludeCreator).Scan(&n)
	return n, err
}

// truncateToDay drops the clock so a timestamp compares as a calendar date.
func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (r *apptRepoPG) CountUpcoming(ctx context.Context, createdBy uuid.UUID, from, to time.Time) (int, error) {
	// appointment_date is a DATE; a raw timestamp bound would exclude rows
	// on the boundary days.
	var n int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM appointments
		WHERE created_by = $1 AND appointment_date >= $2 AND appointment_date <= $3
			AND status <> 'Cancelled'`,
		createdBy, truncateToDay(from), truncateToDay(to)).Scan(&n)
	return n, err
}

func (r *apptRepoPG) ListDoctorTimesOnDate(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT appointment_time FROM appointments
		WHERE doctor_id = $1 AND appointment_date = $2 AND status <> 'Cancelled'`,
		doctorID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var times []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		times = append(times, t)
	}
	return times, rows.Err()
}

// =========== Facility Repository ===========

type facilityRepoPG struct{ pool *pgxpool.Pool }

func NewFacilityRepoPG(pool *pgxpool.Pool) FacilityRepository { return &facilityRepoPG{pool: pool} }

const facilityCols = `id, name, address, phone, created_at, updated_at`

// DefaultFacility returns the oldest facility row, creating one when the
// table is empty. The create is not serialized; a racing duplicate is
// harmless since both rows are valid facilities.
func (r *facilityRepoPG) DefaultFacility(ctx context.Context) (*Facility, error) {
	var f Facility
	err := r.pool.QueryRow(ctx,
		`SELECT `+facilityCols+` FROM facilities ORDER BY created_at LIMIT 1`).
		Scan(&f.ID, &f.Name, &f.Address, &f.Phone, &f.CreatedAt, &f.UpdatedAt)
	if err == nil {
		return &f, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	f = Facility{ID: uuid.New(), Name: "Phòng khám HIV - Cơ sở chính"}
	err = r.pool.QueryRow(ctx, `
		INSERT INTO facilities (id, name) VALUES ($1, $2)
		RETURNING created_at, updated_at`, f.ID, f.Name).
		Scan(&f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &f, nil
}
