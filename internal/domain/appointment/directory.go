package appointment

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/hivcare/hivcare/internal/domain/identity"
)

// identityDirectory adapts the identity domain to DoctorDirectory.
type identityDirectory struct {
	svc *identity.Service
}

// NewIdentityDirectory wraps the identity service as a doctor directory.
func NewIdentityDirectory(svc *identity.Service) DoctorDirectory {
	return &identityDirectory{svc: svc}
}

func (d *identityDirectory) GetDoctor(ctx context.Context, id uuid.UUID) (*DoctorProfile, error) {
	doc, err := d.svc.GetDoctor(ctx, id)
	if err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			return nil, ErrDoctorNotFound
		}
		return nil, err
	}
	return toProfile(doc), nil
}

func (d *identityDirectory) ListAvailable(ctx context.Context, filter string) ([]*DoctorProfile, error) {
	docs, err := d.svc.ListDoctors(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]*DoctorProfile, 0, len(docs))
	for _, doc := range docs {
		out = append(out, toProfile(doc))
	}
	return out, nil
}

func toProfile(doc *identity.Doctor) *DoctorProfile {
	return &DoctorProfile{
		ID:              doc.ID,
		UserID:          doc.UserID,
		FullName:        doc.FullName,
		Specialty:       doc.Specialty,
		ConsultationFee: doc.ConsultationFee,
		YearsExperience: doc.YearsExperience,
		Rating:          doc.Rating,
		ReviewCount:     doc.ReviewCount,
		IsAvailable:     doc.IsAvailable && doc.IsActive,
	}
}
