package appointment

import (
	"fmt"
	"time"
)

// The clinic runs the same 16 half-hour slots for every doctor: 8 in the
// morning, 8 in the afternoon. Availability is computed separately.
var (
	morningSlots = []string{
		"08:00", "08:30", "09:00", "09:30", "10:00", "10:30", "11:00", "11:30",
	}
	afternoonSlots = []string{
		"14:00", "14:30", "15:00", "15:30", "16:00", "16:30", "17:00", "17:30",
	}
)

// Vietnamese messages returned alongside empty slot lists.
const (
	msgPastDate = "Không thể đặt lịch cho ngày trong quá khứ"
	msgWeekend  = "Phòng khám không làm việc vào cuối tuần (Thứ 7, Chủ nhật)"
)

// SlotResult is the GET /appointments/timeslots response.
type SlotResult struct {
	Date      string   `json:"date"`
	Available bool     `json:"available"`
	Morning   []string `json:"morning"`
	Afternoon []string `json:"afternoon"`
	Message   string   `json:"message,omitempty"`
}

// Timeslots returns the fixed slot lists for date, or empty lists with a
// localized message when the date is in the past or falls on a weekend.
// now supplies "today" so the past-date cutoff is testable.
func Timeslots(date, now time.Time) SlotResult {
	res := SlotResult{
		Date:      date.Format("2006-01-02"),
		Morning:   []string{},
		Afternoon: []string{},
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, now.Location())
	if day.Before(today) {
		res.Message = msgPastDate
		return res
	}
	if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
		res.Message = msgWeekend
		return res
	}
	res.Available = true
	res.Morning = append(res.Morning, morningSlots...)
	res.Afternoon = append(res.Afternoon, afternoonSlots...)
	return res
}

// ParseDate parses a YYYY-MM-DD date string.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

// ParseClock converts an HH:MM label to minutes since midnight.
func ParseClock(s string) (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, ErrInvalidTime
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, ErrInvalidTime
	}
	return h*60 + m, nil
}

// IsValidSlot reports whether t is one of the 16 bookable labels.
func IsValidSlot(t string) bool {
	for _, s := range morningSlots {
		if s == t {
			return true
		}
	}
	for _, s := range afternoonSlots {
		if s == t {
			return true
		}
	}
	return false
}

// inWorkingHours reports whether minutes-since-midnight m falls inside the
// morning or afternoon blocks.
func inWorkingHours(m int) bool {
	return (m >= 8*60 && m <= 11*60+30) || (m >= 14*60 && m <= 17*60+30)
}
