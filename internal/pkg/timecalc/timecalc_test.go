package timecalc

import (
	"testing"
	"time"
)

func at(h, m int) time.Time {
	return time.Date(2025, 3, 10, h, m, 0, 0, time.UTC)
}

func TestLateness(t *testing.T) {
	shiftStart := at(9, 0)

	cases := []struct {
		name    string
		checkIn time.Time
		grace   int
		isLate  bool
		minutes int
	}{
		{"on time", at(9, 0), 15, false, 0},
		{"inside grace", at(9, 15), 15, false, 0},
		{"just past grace", at(9, 20), 15, true, 5},
		{"way past grace", at(10, 0), 15, true, 45},
		{"zero grace exact", at(9, 0), 0, false, 0},
		{"zero grace one minute", at(9, 1), 0, true, 1},
		{"early check-in", at(8, 30), 15, false, 0},
	}

	for _, c := range cases {
		isLate, mins := Lateness(c.checkIn, shiftStart, c.grace)
		if isLate != c.isLate || mins != c.minutes {
			t.Errorf("%s: Lateness() = (%v, %d), want (%v, %d)", c.name, isLate, mins, c.isLate, c.minutes)
		}
	}
}

func TestEarlyDeparture(t *testing.T) {
	shiftEnd := at(17, 0)

	cases := []struct {
		name      string
		checkOut  time.Time
		threshold int
		isEarly   bool
		minutes   int
	}{
		{"at shift end", at(17, 0), 15, false, 0},
		{"at threshold boundary", at(16, 45), 15, false, 0},
		{"half hour early", at(16, 30), 15, true, 15},
		{"left after shift end", at(17, 30), 15, false, 0},
		{"zero threshold", at(16, 59), 0, true, 1},
	}

	for _, c := range cases {
		isEarly, mins := EarlyDeparture(c.checkOut, shiftEnd, c.threshold)
		if isEarly != c.isEarly || mins != c.minutes {
			t.Errorf("%s: EarlyDeparture() = (%v, %d), want (%v, %d)", c.name, isEarly, mins, c.isEarly, c.minutes)
		}
	}
}

func TestOvertime(t *testing.T) {
	shiftEnd := at(17, 0)

	cases := []struct {
		name       string
		checkOut   time.Time
		startAfter int
		want       int
	}{
		{"no overtime before end", at(16, 30), 30, 0},
		{"inside buffer", at(17, 20), 30, 0},
		{"one hour past with 30m buffer", at(18, 0), 30, 30},
		{"exactly at buffer", at(17, 30), 30, 0},
		{"no buffer", at(17, 45), 0, 45},
	}

	for _, c := range cases {
		if got := Overtime(c.checkOut, shiftEnd, c.startAfter); got != c.want {
			t.Errorf("%s: Overtime() = %d, want %d", c.name, got, c.want)
		}
	}
}

func TestWorkingMinutes(t *testing.T) {
	cases := []struct {
		name         string
		in, out      time.Time
		breakMinutes int
		want         int
	}{
		{"full day with break", at(9, 0), at(17, 0), 60, 420},
		{"no break", at(9, 0), at(17, 0), 0, 480},
		{"break exceeds span", at(9, 0), at(9, 30), 60, 0},
		{"checkout equals checkin", at(9, 0), at(9, 0), 0, 0},
		{"checkout before checkin", at(9, 0), at(8, 0), 0, 0},
	}

	for _, c := range cases {
		if got := WorkingMinutes(c.in, c.out, c.breakMinutes); got != c.want {
			t.Errorf("%s: WorkingMinutes() = %d, want %d", c.name, got, c.want)
		}
	}
}

func TestDeriveStatus(t *testing.T) {
	cases := []struct {
		name    string
		working int
		minimum int
		isLate  bool
		isEarly bool
		want    Status
	}{
		{"normal day", 480, 480, false, false, StatusPresent},
		{"under half of minimum", 200, 480, false, false, StatusHalfDay},
		{"half day wins over late", 100, 480, true, false, StatusHalfDay},
		{"late", 470, 480, true, false, StatusLate},
		{"late wins over early", 400, 480, true, true, StatusLate},
		{"early departure", 400, 480, false, true, StatusEarlyDeparture},
		{"zero minimum never half day", 0, 0, false, false, StatusPresent},
	}

	for _, c := range cases {
		if got := DeriveStatus(c.working, c.minimum, c.isLate, c.isEarly); got != c.want {
			t.Errorf("%s: DeriveStatus() = %s, want %s", c.name, got, c.want)
		}
	}
}

func TestShiftBoundaries(t *testing.T) {
	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	day := ShiftBoundaries(date, 9*60, 17*60, time.UTC)
	if !day.Start.Equal(at(9, 0)) || !day.End.Equal(at(17, 0)) {
		t.Errorf("day shift boundaries = %v..%v", day.Start, day.End)
	}

	// 22:00-06:00 ends on the following calendar day.
	night := ShiftBoundaries(date, 22*60, 6*60, time.UTC)
	if !night.End.After(night.Start) {
		t.Fatalf("night shift end %v not after start %v", night.End, night.Start)
	}
	if night.End.Day() != 11 || night.End.Hour() != 6 {
		t.Errorf("night shift end = %v, want next day 06:00", night.End)
	}
}

func TestParseTimeOfDay(t *testing.T) {
	mins, err := ParseTimeOfDay("09:30")
	if err != nil || mins != 570 {
		t.Errorf("ParseTimeOfDay(09:30) = %d, %v", mins, err)
	}
	if _, err := ParseTimeOfDay("25:00"); err == nil {
		t.Error("ParseTimeOfDay(25:00) should fail")
	}
	if _, err := ParseTimeOfDay("groggy"); err == nil {
		t.Error("ParseTimeOfDay(groggy) should fail")
	}
}
