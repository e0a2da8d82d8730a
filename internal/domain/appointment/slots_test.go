package appointment

import (
	"testing"
	"time"
)

var testNow = time.Date(2025, 7, 10, 9, 0, 0, 0, time.UTC) // a Thursday

func TestTimeslots_Weekday(t *testing.T) {
	res := Timeslots(time.Date(2025, 7, 14, 0, 0, 0, 0, time.UTC), testNow) // Monday
	if !res.Available {
		t.Fatalf("expected available, got message %q", res.Message)
	}
	if len(res.Morning) != 8 || len(res.Afternoon) != 8 {
		t.Errorf("expected 8+8 slots, got %d+%d", len(res.Morning), len(res.Afternoon))
	}
	if res.Morning[0] != "08:00" || res.Morning[7] != "11:30" {
		t.Errorf("unexpected morning slots: %v", res.Morning)
	}
	if res.Afternoon[0] != "14:00" || res.Afternoon[7] != "17:30" {
		t.Errorf("unexpected afternoon slots: %v", res.Afternoon)
	}
}

func TestTimeslots_Weekend(t *testing.T) {
	for _, day := range []int{12, 13} { // Saturday, Sunday
		res := Timeslots(time.Date(2025, 7, day, 0, 0, 0, 0, time.UTC), testNow)
		if res.Available {
			t.Errorf("day %d: expected unavailable", day)
		}
		if len(res.Morning) != 0 || len(res.Afternoon) != 0 {
			t.Errorf("day %d: expected empty slots", day)
		}
		if res.Message != msgWeekend {
			t.Errorf("day %d: expected weekend message, got %q", day, res.Message)
		}
	}
}

func TestTimeslots_PastDate(t *testing.T) {
	res := Timeslots(time.Date(2025, 7, 9, 0, 0, 0, 0, time.UTC), testNow)
	if res.Available {
		t.Error("expected past date to be unavailable")
	}
	if res.Message != msgPastDate {
		t.Errorf("expected past-date message, got %q", res.Message)
	}
}

func TestTimeslots_Today(t *testing.T) {
	res := Timeslots(testNow, testNow)
	if !res.Available {
		t.Errorf("today should be bookable, got %q", res.Message)
	}
}

func TestIsValidSlot(t *testing.T) {
	for _, s := range []string{"08:00", "11:30", "14:00", "17:30"} {
		if !IsValidSlot(s) {
			t.Errorf("%s should be a valid slot", s)
		}
	}
	for _, s := range []string{"07:30", "12:00", "13:30", "18:00", "08:15", ""} {
		if IsValidSlot(s) {
			t.Errorf("%s should not be a valid slot", s)
		}
	}
}

func TestParseClock(t *testing.T) {
	m, err := ParseClock("09:30")
	if err != nil || m != 9*60+30 {
		t.Errorf("ParseClock(09:30) = %d, %v", m, err)
	}
	for _, s := range []string{"", "abc", "25:00", "09:75"} {
		if _, err := ParseClock(s); err == nil {
			t.Errorf("ParseClock(%q) should fail", s)
		}
	}
}

func TestParseDate(t *testing.T) {
	if _, err := ParseDate("2025-07-14"); err != nil {
		t.Errorf("ParseDate: %v", err)
	}
	if _, err := ParseDate("14/07/2025"); err != ErrInvalidDate {
		t.Errorf("expected ErrInvalidDate, got %v", err)
	}
}
