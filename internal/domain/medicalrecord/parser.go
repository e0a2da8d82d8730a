package medicalrecord

import (
	"regexp"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Lab values live as `CD4=NNN, VL=NNN` tokens inside free-text appointment
// notes; there is no structured lab table.
var (
	cd4Pattern = regexp.MustCompile(`CD4\s*=\s*(\d+)`)
	vlPattern  = regexp.MustCompile(`VL\s*=\s*(\d+)`)
)

// Record is one medical record derived from an appointment.
type Record struct {
	AppointmentID uuid.UUID `json:"appointmentId"`
	Date          time.Time `json:"date"`
	Time          string    `json:"time"`
	DoctorName    string    `json:"doctorName,omitempty"`
	CD4Count      *int      `json:"cd4Count,omitempty"`
	ViralLoad     *int      `json:"viralLoad,omitempty"`
	Notes         string    `json:"notes,omitempty"`
}

// ParseLabValues extracts CD4 and viral load tokens from notes. Either
// value may be absent; both nil means the notes carry no lab data.
func ParseLabValues(notes string) (cd4, vl *int) {
	if m := cd4Pattern.FindStringSubmatch(notes); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			cd4 = &n
		}
	}
	if m := vlPattern.FindStringSubmatch(notes); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			vl = &n
		}
	}
	return cd4, vl
}
