package arv

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type regimenRepoPG struct{ pool *pgxpool.Pool }

func NewRegimenRepoPG(pool *pgxpool.Pool) RegimenRepository { return &regimenRepoPG{pool: pool} }

const regimenCols = `id, code, name, line, description, created_at`

func scanRegimen(row pgx.Row) (*Regimen, error) {
	var r Regimen
	err := row.Scan(&r.ID, &r.Code, &r.Name, &r.Line, &r.Description, &r.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrRegimenNotFound
	}
	return &r, err
}

func (r *regimenRepoPG) List(ctx context.Context) ([]*Regimen, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+regimenCols+` FROM arv_regimens ORDER BY line, code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Regimen
	for rows.Next() {
		reg, err := scanRegimen(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, reg)
	}
	return items, rows.Err()
}

func (r *regimenRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Regimen, error) {
	return scanRegimen(r.pool.QueryRow(ctx,
		`SELECT `+regimenCols+` FROM arv_regimens WHERE id = $1`, id))
}

type patientRegimenRepoPG struct{ pool *pgxpool.Pool }

func NewPatientRegimenRepoPG(pool *pgxpool.Pool) PatientRegimenRepository {
	return &patientRegimenRepoPG{pool: pool}
}

const patientRegimenCols = `pr.id, pr.user_id, pr.regimen_id, pr.started_at,
	pr.stopped_at, pr.status, r.code, r.name`

func scanPatientRegimen(row pgx.Row) (*PatientRegimen, error) {
	var pr PatientRegimen
	err := row.Scan(&pr.ID, &pr.UserID, &pr.RegimenID, &pr.StartedAt,
		&pr.StoppedAt, &pr.Status, &pr.RegimenCode, &pr.RegimenName)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoActiveRegimen
	}
	return &pr, err
}

func (r *patientRegimenRepoPG) Create(ctx context.Context, pr *PatientRegimen) error {
	pr.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO patient_regimens (id, user_id, regimen_id, started_at, status)
		VALUES ($1,$2,$3,$4,$5)`,
		pr.ID, pr.UserID, pr.RegimenID, pr.StartedAt, pr.Status)
	return err
}

func (r *patientRegimenRepoPG) ListByUser(ctx context.Context, userID uuid.UUID) ([]*PatientRegimen, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+patientRegimenCols+` FROM patient_regimens pr
		JOIN arv_regimens r ON r.id = pr.regimen_id
		WHERE pr.user_id = $1
		ORDER BY pr.started_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*PatientRegimen
	for rows.Next() {
		pr, err := scanPatientRegimen(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, pr)
	}
	return items, rows.Err()
}

func (r *patientRegimenRepoPG) GetActive(ctx context.Context, userID uuid.UUID) (*PatientRegimen, error) {
	return scanPatientRegimen(r.pool.QueryRow(ctx, `
		SELECT `+patientRegimenCols+` FROM patient_regimens pr
		JOIN arv_regimens r ON r.id = pr.regimen_id
		WHERE pr.user_id = $1 AND pr.status = 'active'
		ORDER BY pr.started_at DESC LIMIT 1`, userID))
}

func (r *patientRegimenRepoPG) Stop(ctx context.Context, id uuid.UUID, at time.Time) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE patient_regimens SET status = 'stopped', stopped_at = $2
		WHERE id = $1 AND status = 'active'`, id, at)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNoActiveRegimen
	}
	return nil
}
