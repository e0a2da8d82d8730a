package db

import (
	"context"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// initStatements is the probe-then-patch DDL applied by the initialize
// endpoint. Every statement is idempotent so the endpoint can be re-run
// safely against a database in any intermediate state.
var initStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		username VARCHAR(100) NOT NULL UNIQUE,
		password VARCHAR(255) NOT NULL,
		role_id INT NOT NULL DEFAULT 1,
		full_name VARCHAR(255),
		email VARCHAR(255),
		phone VARCHAR(30),
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		last_login_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS doctors (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL REFERENCES users(id),
		specialty VARCHAR(150),
		consultation_fee NUMERIC(12,0),
		bio TEXT,
		years_experience INT,
		rating NUMERIC(3,1),
		review_count INT,
		is_verified BOOLEAN NOT NULL DEFAULT FALSE,
		is_available BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS facilities (
		id UUID PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		address VARCHAR(255),
		phone VARCHAR(30),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS patients (
		id UUID PRIMARY KEY,
		user_id UUID REFERENCES users(id),
		full_name VARCHAR(255),
		date_of_birth DATE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS appointments (
		id UUID PRIMARY KEY,
		doctor_id UUID NOT NULL REFERENCES doctors(id),
		patient_id UUID REFERENCES patients(id),
		facility_id UUID REFERENCES facilities(id),
		appointment_date DATE NOT NULL,
		appointment_time VARCHAR(5) NOT NULL,
		type VARCHAR(20) NOT NULL DEFAULT 'in-person',
		status VARCHAR(20) NOT NULL DEFAULT 'Scheduled',
		full_name VARCHAR(255),
		phone_number VARCHAR(30),
		email VARCHAR(255),
		purpose TEXT,
		is_anonymous BOOLEAN NOT NULL DEFAULT FALSE,
		created_by UUID,
		notes TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS arv_regimens (
		id UUID PRIMARY KEY,
		code VARCHAR(50) NOT NULL UNIQUE,
		name VARCHAR(255) NOT NULL,
		line VARCHAR(20) NOT NULL DEFAULT 'first',
		description TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS patient_regimens (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL REFERENCES users(id),
		regimen_id UUID NOT NULL REFERENCES arv_regimens(id),
		status VARCHAR(20) NOT NULL DEFAULT 'active',
		started_at DATE NOT NULL,
		stopped_at DATE,
		note TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS notifications (
		id BIGSERIAL PRIMARY KEY,
		user_id UUID NOT NULL REFERENCES users(id),
		title VARCHAR(255) NOT NULL,
		body TEXT,
		kind VARCHAR(30) NOT NULL DEFAULT 'system',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	// Columns added after the first deployments. Kept as ADD COLUMN patches
	// so initialize also repairs older databases.
	`ALTER TABLE users ADD COLUMN IF NOT EXISTS last_login_at TIMESTAMPTZ`,
	`ALTER TABLE doctors ADD COLUMN IF NOT EXISTS is_verified BOOLEAN NOT NULL DEFAULT FALSE`,
	`ALTER TABLE appointments ADD COLUMN IF NOT EXISTS is_anonymous BOOLEAN NOT NULL DEFAULT FALSE`,
	`ALTER TABLE appointments ADD COLUMN IF NOT EXISTS created_by UUID`,
	`ALTER TABLE appointments ADD COLUMN IF NOT EXISTS notes TEXT`,
}

// fixForeignKeyStatements re-creates the appointments.patient_id constraint
// as nullable. Older databases carried a NOT NULL foreign key against the
// effectively unused patients table, which broke anonymous booking.
var fixForeignKeyStatements = []string{
	`ALTER TABLE appointments ALTER COLUMN patient_id DROP NOT NULL`,
	`ALTER TABLE appointments DROP CONSTRAINT IF EXISTS appointments_patient_id_fkey`,
	`ALTER TABLE appointments ADD CONSTRAINT appointments_patient_id_fkey
		FOREIGN KEY (patient_id) REFERENCES patients(id)`,
}

// Maintenance exposes the one-off database maintenance endpoints. The
// statements are idempotent; both handlers assume they may be re-run.
type Maintenance struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

func NewMaintenance(pool *pgxpool.Pool, logger zerolog.Logger) *Maintenance {
	return &Maintenance{pool: pool, logger: logger}
}

func (m *Maintenance) RegisterRoutes(g *echo.Group) {
	g.POST("/db/initialize", m.Initialize)
	g.POST("/db/fix-foreign-key", m.FixForeignKey)
}

// Initialize handles POST /db/initialize.
func (m *Maintenance) Initialize(c echo.Context) error {
	ctx := c.Request().Context()
	for _, stmt := range initStatements {
		if _, err := m.pool.Exec(ctx, stmt); err != nil {
			m.logger.Error().Err(err).Msg("database initialize failed")
			return c.JSON(http.StatusInternalServerError, map[string]interface{}{
				"success": false,
				"message": "Khởi tạo cơ sở dữ liệu thất bại",
			})
		}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Khởi tạo cơ sở dữ liệu thành công",
	})
}

// FixForeignKey handles POST /db/fix-foreign-key.
func (m *Maintenance) FixForeignKey(c echo.Context) error {
	ctx := c.Request().Context()
	for _, stmt := range fixForeignKeyStatements {
		if _, err := m.pool.Exec(ctx, stmt); err != nil {
			m.logger.Error().Err(err).Str("stmt", stmt).Msg("fix foreign key failed")
			return c.JSON(http.StatusInternalServerError, map[string]interface{}{
				"success": false,
				"message": "Sửa khóa ngoại thất bại",
			})
		}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Đã sửa khóa ngoại bảng appointments",
	})
}

// demoDoctorPassword is the SHA-256 base64 digest of "doctor123", the same
// format the login path stores.
const demoDoctorPassword = "80jVYoYh89j1nIyr2g+OsKp+BRSpC+dXECCxM28mwRM="

// seedDoctors are the demo accounts created on an empty doctors table.
var seedDoctors = []struct {
	username  string
	fullName  string
	specialty string
	fee       int
}{
	{"bs.nguyen", "BS Nguyễn Văn An", "Nhiễm HIV/AIDS", 350000},
	{"bs.tran", "BS Trần Thị Bình", "Đa khoa", 200000},
}

// seedRegimens is the baseline ARV catalog.
var seedRegimens = []struct {
	code string
	name string
	line string
}{
	{"TDF/3TC/DTG", "Tenofovir + Lamivudine + Dolutegravir", "first"},
	{"TDF/3TC/EFV", "Tenofovir + Lamivudine + Efavirenz", "first"},
	{"AZT/3TC/LPV-r", "Zidovudine + Lamivudine + Lopinavir/ritonavir", "second"},
}

// Seed inserts the default facility, demo doctor accounts, and the baseline
// ARV regimen catalog when the corresponding tables are empty. Safe to call
// repeatedly.
func Seed(ctx context.Context, pool *pgxpool.Pool, defaultFacility string) error {
	_, err := pool.Exec(ctx, `
		INSERT INTO facilities (id, name)
		SELECT gen_random_uuid(), $1
		WHERE NOT EXISTS (SELECT 1 FROM facilities)`, defaultFacility)
	if err != nil {
		return err
	}

	var haveDoctors bool
	if err := pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM doctors)`).Scan(&haveDoctors); err != nil {
		return err
	}
	if !haveDoctors {
		for _, d := range seedDoctors {
			_, err = pool.Exec(ctx, `
				WITH u AS (
					INSERT INTO users (id, username, password, role_id, full_name)
					VALUES (gen_random_uuid(), $1, $2, 2, $3)
					ON CONFLICT (username) DO NOTHING
					RETURNING id
				)
				INSERT INTO doctors (id, user_id, specialty, consultation_fee, is_verified)
				SELECT gen_random_uuid(), u.id, $4, $5, TRUE FROM u`,
				d.username, demoDoctorPassword, d.fullName, d.specialty, d.fee)
			if err != nil {
				return err
			}
		}
	}

	for _, r := range seedRegimens {
		_, err = pool.Exec(ctx, `
			INSERT INTO arv_regimens (id, code, name, line)
			VALUES (gen_random_uuid(), $1, $2, $3)
			ON CONFLICT (code) DO NOTHING`, r.code, r.name, r.line)
		if err != nil {
			return err
		}
	}
	return nil
}
