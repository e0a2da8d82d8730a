package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hivcare/hivcare/pkg/metrics"
)

// Duplicate is the hard-blocking half of a conflict check result.
type Duplicate struct {
	Type        string   `json:"duplicateType"`
	Message     string   `json:"message"`
	DoctorName  string   `json:"doctorName"`
	Date        string   `json:"date"`
	Time        string   `json:"time"`
	Suggestions []string `json:"suggestions"`
}

// Warning is a non-blocking advisory attached to a booking.
type Warning struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// CheckResult carries either one blocking duplicate or a list of warnings;
// never both.
type CheckResult struct {
	IsValid     bool       `json:"isValid"`
	Duplicate   *Duplicate `json:"duplicate,omitempty"`
	Warnings    []Warning  `json:"warnings"`
	Suggestions []string   `json:"suggestions"`
}

func (r CheckResult) WarningMessages() []string {
	msgs := make([]string, 0, len(r.Warnings))
	for _, w := range r.Warnings {
		msgs = append(msgs, w.Message)
	}
	return msgs
}

const duplicateTypeExact = "EXACT_DUPLICATE"

// Warning kinds, used as metric labels.
const (
	warnSameDay     = "same_day"
	warnNearTime    = "near_time"
	warnDoctorLoad  = "doctor_load"
	warnFrequency   = "frequency"
	warnCheckFailed = "check_failed"
)

// Soft cap on concurrent bookings per doctor/slot. Not enforced; a fourth
// booking goes through with a warning.
const slotSoftCap = 3

var duplicateSuggestions = []string{
	"Chọn khung giờ khác trong cùng ngày",
	"Chọn bác sĩ khác có cùng chuyên khoa",
	"Hủy lịch hẹn cũ trước khi đặt lịch mới",
}

const msgCheckFailed = "Không thể kiểm tra trùng lịch hẹn, vui lòng tự kiểm tra lịch của bạn"

// ConflictChecker runs the duplicate/conflict sequence ahead of a booking.
// Every query error degrades to a warning rather than blocking the booking.
type ConflictChecker struct {
	repo    Repository
	doctors DoctorDirectory
	col     *metrics.Collector
	logger  zerolog.Logger
	now     func() time.Time
}

func NewConflictChecker(repo Repository, doctors DoctorDirectory, col *metrics.Collector, logger zerolog.Logger) *ConflictChecker {
	return &ConflictChecker{repo: repo, doctors: doctors, col: col, logger: logger, now: time.Now}
}

// Check runs the conflict sequence for a requested booking. createdBy is nil
// for anonymous bookings, which only run the slot-load and frequency checks.
// It short-circuits on an exact duplicate; everything else accumulates.
func (c *ConflictChecker) Check(ctx context.Context, createdBy *uuid.UUID, doctorID uuid.UUID, date time.Time, timeStr string) CheckResult {
	res := CheckResult{IsValid: true, Warnings: []Warning{}, Suggestions: []string{}}

	if createdBy != nil {
		// 1. Exact duplicate: hard reject.
		dup, err := c.repo.ExactDuplicate(ctx, *createdBy, doctorID, date, timeStr)
		if err != nil {
			return c.failOpen(res, err, "exact duplicate query")
		}
		if dup != nil {
			name := c.doctorName(ctx, doctorID)
			res.IsValid = false
			res.Duplicate = &Duplicate{
				Type:       duplicateTypeExact,
				Message:    fmt.Sprintf("Bạn đã có lịch hẹn với bác sĩ %s vào %s lúc %s", name, date.Format("02/01/2006"), timeStr),
				DoctorName: name,
				Date:       date.Format("2006-01-02"),
				Time:       timeStr,
				Suggestions: append([]string(nil), duplicateSuggestions...),
			}
			return res
		}

		// 2. Same doctor, same day.
		n, err := c.repo.CountSameDayWithDoctor(ctx, *createdBy, doctorID, date)
		if err != nil {
			return c.failOpen(res, err, "same-day query")
		}
		if n >= 1 {
			c.warn(&res, warnSameDay, "Bạn đã có lịch hẹn khác với bác sĩ này trong cùng ngày")
		}

		// 3. Own appointments that day within 30 minutes.
		reqMin, err := ParseClock(timeStr)
		if err == nil {
			own, err := c.repo.ListOwnOnDate(ctx, *createdBy, date)
			if err != nil {
				return c.failOpen(res, err, "same-day overlap query")
			}
			for _, a := range own {
				if a.DoctorID == doctorID && a.AppointmentTime == timeStr {
					continue
				}
				m, err := ParseClock(a.AppointmentTime)
				if err != nil {
					continue
				}
				gap := m - reqMin
				if gap < 0 {
					gap = -gap
				}
				if gap <= 30 {
					c.warn(&res, warnNearTime,
						fmt.Sprintf("Bạn có lịch hẹn với bác sĩ %s cách khung giờ này %d phút", a.DoctorName, gap))
				}
			}
		}
	}

	// 4. Doctor load at the exact slot.
	n, err := c.repo.CountAtSlot(ctx, doctorID, date, timeStr, createdBy)
	if err != nil {
		return c.failOpen(res, err, "slot load query")
	}
	if n >= slotSoftCap {
		c.warn(&res, warnDoctorLoad,
			fmt.Sprintf("Khung giờ này đã có %d người đặt, bạn có thể phải chờ lâu hơn", n))
	}

	// 5. Booking frequency over the next 7 days.
	if createdBy != nil {
		now := c.now()
		n, err := c.repo.CountUpcoming(ctx, *createdBy, now, now.AddDate(0, 0, 7))
		if err != nil {
			return c.failOpen(res, err, "frequency query")
		}
		if n >= 3 {
			c.warn(&res, warnFrequency,
				fmt.Sprintf("Bạn đã có %d lịch hẹn trong 7 ngày tới", n))
		}
	}

	return res
}

func (c *ConflictChecker) warn(res *CheckResult, kind, msg string) {
	res.Warnings = append(res.Warnings, Warning{Kind: kind, Message: msg})
	if c.col != nil {
		c.col.ConflictWarnings.WithLabelValues(kind).Inc()
	}
}

// failOpen converts a query error into a passing result with a warning.
func (c *ConflictChecker) failOpen(res CheckResult, err error, stage string) CheckResult {
	c.logger.Error().Err(err).Str("stage", stage).Msg("conflict check failed, passing with warning")
	res.IsValid = true
	res.Duplicate = nil
	c.warn(&res, warnCheckFailed, msgCheckFailed)
	return res
}

func (c *ConflictChecker) doctorName(ctx context.Context, doctorID uuid.UUID) string {
	d, err := c.doctors.GetDoctor(ctx, doctorID)
	if err != nil {
		return ""
	}
	return d.FullName
}
