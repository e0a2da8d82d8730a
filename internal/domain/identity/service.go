package identity

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type Service struct {
	users   UserRepository
	doctors DoctorRepository
	logger  zerolog.Logger
}

func NewService(users UserRepository, doctors DoctorRepository, logger zerolog.Logger) *Service {
	return &Service{users: users, doctors: doctors, logger: logger}
}

// Register creates a patient account. The password is stored as a SHA-256
// base64 digest.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" {
		return nil, fmt.Errorf("username is required")
	}
	if req.Password == "" {
		return nil, fmt.Errorf("password is required")
	}
	if req.FullName == "" {
		return nil, fmt.Errorf("fullName is required")
	}

	u := &User{
		Username: req.Username,
		Password: HashPassword(req.Password),
		RoleID:   RolePatient,
		FullName: req.FullName,
		IsActive: true,
	}
	if req.Email != "" {
		u.Email = &req.Email
	}
	if req.Phone != "" {
		u.Phone = &req.Phone
	}

	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Login authenticates a username/password pair. The stored value may be
// plaintext or a SHA-256 base64 digest; a plaintext match upgrades the row
// to the digest of the submitted password. Updates last_login_at.
func (s *Service) Login(ctx context.Context, username, password string) (*User, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if !u.IsActive {
		return nil, ErrInvalidCredentials
	}

	ok, plaintextMatch := VerifyPassword(u.Password, password)
	if !ok {
		return nil, ErrInvalidCredentials
	}

	if plaintextMatch {
		upgraded := HashPassword(password)
		if err := s.users.UpdatePassword(ctx, u.ID, upgraded); err != nil {
			// Login still succeeds; the upgrade is retried next time.
			s.logger.Warn().Err(err).Str("user_id", u.ID.String()).
				Msg("failed to upgrade legacy password")
		} else {
			u.Password = upgraded
		}
	}

	now := time.Now().UTC()
	if err := s.users.UpdateLastLogin(ctx, u.ID, now); err != nil {
		s.logger.Warn().Err(err).Str("user_id", u.ID.String()).
			Msg("failed to update last login")
	} else {
		u.LastLoginAt = &now
	}

	return u, nil
}

func (s *Service) GetProfile(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *Service) UpdateProfile(ctx context.Context, id uuid.UUID, upd ProfileUpdate) (*User, error) {
	if _, err := s.users.GetByID(ctx, id); err != nil {
		return nil, err
	}
	if err := s.users.UpdateProfile(ctx, id, upd); err != nil {
		return nil, err
	}
	return s.users.GetByID(ctx, id)
}

func (s *Service) GetDoctor(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	return s.doctors.GetByID(ctx, id)
}

func (s *Service) ListDoctors(ctx context.Context, filter string) ([]*Doctor, error) {
	return s.doctors.ListActive(ctx, filter)
}
