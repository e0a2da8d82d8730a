package identity

import (
	"time"

	"github.com/google/uuid"
)

// Role IDs stored on the users table.
const (
	RolePatient = 1
	RoleDoctor  = 2
	RoleStaff   = 3
)

// User maps to the users table. Password holds either a plaintext value or
// a SHA-256 base64 digest; legacy rows are inconsistent and the login path
// accepts both (see VerifyPassword). Users are never hard-deleted.
type User struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	Username    string     `db:"username" json:"username"`
	Password    string     `db:"password" json:"-"`
	RoleID      int        `db:"role_id" json:"roleId"`
	FullName    string     `db:"full_name" json:"fullName"`
	Email       *string    `db:"email" json:"email,omitempty"`
	Phone       *string    `db:"phone" json:"phoneNumber,omitempty"`
	IsActive    bool       `db:"is_active" json:"isActive"`
	LastLoginAt *time.Time `db:"last_login_at" json:"lastLoginAt,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updatedAt"`
}

// Doctor maps to the doctors table, a 1:1 extension of a user with
// role_id=2. FullName and IsActive are joined in from users.
type Doctor struct {
	ID              uuid.UUID `db:"id" json:"id"`
	UserID          uuid.UUID `db:"user_id" json:"userId"`
	Specialty       *string   `db:"specialty" json:"specialty,omitempty"`
	ConsultationFee *float64  `db:"consultation_fee" json:"consultationFee,omitempty"`
	Bio             *string   `db:"bio" json:"bio,omitempty"`
	YearsExperience *int      `db:"years_experience" json:"yearsExperience,omitempty"`
	Rating          *float64  `db:"rating" json:"rating,omitempty"`
	ReviewCount     *int      `db:"review_count" json:"reviewCount,omitempty"`
	IsVerified      bool      `db:"is_verified" json:"isVerified"`
	IsAvailable     bool      `db:"is_available" json:"isAvailable"`
	CreatedAt       time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time `db:"updated_at" json:"updatedAt"`

	FullName string `db:"full_name" json:"fullName"`
	IsActive bool   `db:"is_active" json:"-"`
}

// RegisterRequest is the POST /auth/register body.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phoneNumber"`
}

// ProfileUpdate is the PUT /auth/profile/:id body. Nil fields are left
// unchanged.
type ProfileUpdate struct {
	FullName *string `json:"fullName"`
	Email    *string `json:"email"`
	Phone    *string `json:"phoneNumber"`
}
