package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// -- User Repository --

type userRepoPG struct{ pool *pgxpool.Pool }

func NewUserRepoPG(pool *pgxpool.Pool) UserRepository { return &userRepoPG{pool: pool} }

const userCols = `id, username, password, role_id, full_name, email, phone,
	is_active, last_login_at, created_at, updated_at`

func (r *userRepoPG) scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Username, &u.Password, &u.RoleID, &u.FullName,
		&u.Email, &u.Phone, &u.IsActive, &u.LastLoginAt, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &u, err
}

func (r *userRepoPG) Create(ctx context.Context, u *User) error {
	u.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO users (id, username, password, role_id, full_name, email, phone, is_active)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		u.ID, u.Username, u.Password, u.RoleID, u.FullName, u.Email, u.Phone, u.IsActive)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrUsernameTaken
	}
	return err
}

func (r *userRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return r.scanUser(r.pool.QueryRow(ctx, `SELECT `+userCols+` FROM users WHERE id = $1`, id))
}

func (r *userRepoPG) GetByUsername(ctx context.Context, username string) (*User, error) {
	return r.scanUser(r.pool.QueryRow(ctx, `SELECT `+userCols+` FROM users WHERE username = $1`, username))
}

func (r *userRepoPG) UpdateProfile(ctx context.Context, id uuid.UUID, upd ProfileUpdate) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE users SET
			full_name = COALESCE($2, full_name),
			email = COALESCE($3, email),
			phone = COALESCE($4, phone),
			updated_at = NOW()
		WHERE id = $1`,
		id, upd.FullName, upd.Email, upd.Phone)
	return err
}

func (r *userRepoPG) UpdatePassword(ctx context.Context, id uuid.UUID, password string) error {
	_, err := r.pool.Exec(ctx, `UPDATE users SET password = $2, updated_at = NOW() WHERE id = $1`, id, password)
	return err
}

func (r *userRepoPG) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	_, err := r.pool.Exec(ctx, `UPDATE users SET last_login_at = $2 WHERE id = $1`, id, at)
	return err
}

// -- Doctor Repository --

type doctorRepoPG struct{ pool *pgxpool.Pool }

func NewDoctorRepoPG(pool *pgxpool.Pool) DoctorRepository { return &doctorRepoPG{pool: pool} }

const doctorCols = `d.id, d.user_id, d.specialty, d.consultation_fee, d.bio,
	d.years_experience, d.rating, d.review_count, d.is_verified, d.is_available,
	d.created_at, d.updated_at, u.full_name, u.is_active`

func (r *doctorRepoPG) scanDoctor(row pgx.Row) (*Doctor, error) {
	var d Doctor
	err := row.Scan(&d.ID, &d.UserID, &d.Specialty, &d.ConsultationFee, &d.Bio,
		&d.YearsExperience, &d.Rating, &d.ReviewCount, &d.IsVerified, &d.IsAvailable,
		&d.CreatedAt, &d.UpdatedAt, &d.FullName, &d.IsActive)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &d, err
}

func (r *doctorRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	return r.scanDoctor(r.pool.QueryRow(ctx, `
		SELECT `+doctorCols+`
		FROM doctors d JOIN users u ON u.id = d.user_id
		WHERE d.id = $1`, id))
}

func (r *doctorRepoPG) ListActive(ctx context.Context, filter string) ([]*Doctor, error) {
	query := `
		SELECT ` + doctorCols + `
		FROM doctors d JOIN users u ON u.id = d.user_id
		WHERE d.is_available AND u.is_active`
	var args []interface{}
	if filter != "" {
		query += ` AND (d.specialty ILIKE $1 OR u.full_name ILIKE $1)`
		args = append(args, fmt.Sprintf("%%%s%%", filter))
	}
	query += ` ORDER BY u.full_name`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Doctor
	for rows.Next() {
		d, err := r.scanDoctor(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	return items, rows.Err()
}
