package consultation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// notesPrefix labels the meeting link inside the appointment notes field,
// which is the only place the link is stored.
const notesPrefix = "Link tư vấn trực tuyến: "

var meetingURLPattern = regexp.MustCompile(`https://meet\.google\.com/[a-z0-9-]+`)

// MeetingURL templates a meet.google.com link from the booking parameters.
// The token is deterministic for a given doctor/date/time and is not
// registered anywhere; two bookings at the same slot share the same link.
func MeetingURL(doctorID uuid.UUID, dateStr, timeStr string) string {
	datePart := strings.ReplaceAll(dateStr, "-", "")
	if len(datePart) > 4 {
		datePart = datePart[4:] // MMDD
	}
	timePart := strings.ReplaceAll(timeStr, ":", "")
	idPart := strings.ReplaceAll(doctorID.String(), "-", "")
	if len(idPart) > 3 {
		idPart = idPart[:3]
	}
	return fmt.Sprintf("https://meet.google.com/%s-%s-%s", idPart, datePart, timePart)
}

// MeetingNotes builds the notes payload carrying the link.
func MeetingNotes(url string) string {
	return notesPrefix + url
}

// ExtractMeetingURL pulls a meeting link back out of free-text notes.
// Returns "" when the notes carry no link.
func ExtractMeetingURL(notes *string) string {
	if notes == nil {
		return ""
	}
	return meetingURLPattern.FindString(*notes)
}
