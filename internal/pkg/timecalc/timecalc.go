package timecalc

import (
	"fmt"
	"time"
)

// Status is the closed set of attendance outcomes. Values are produced here
// (or set to the administrative side-states absent/on_leave) and nowhere else.
type Status string

const (
	StatusPresent        Status = "present"
	StatusLate           Status = "late"
	StatusAbsent         Status = "absent"
	StatusHalfDay        Status = "half_day"
	StatusOnLeave        Status = "on_leave"
	StatusEarlyDeparture Status = "early_departure"
)

// ValidStatuses lists every accepted status value, for filter validation.
var ValidStatuses = []string{
	string(StatusPresent), string(StatusLate), string(StatusAbsent),
	string(StatusHalfDay), string(StatusOnLeave), string(StatusEarlyDeparture),
}

// IsValidStatus reports whether s is a member of the closed status set.
func IsValidStatus(s string) bool {
	for _, v := range ValidStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// Boundaries are the absolute shift start/end instants for one working day.
type Boundaries struct {
	Start time.Time
	End   time.Time
}

// ParseTimeOfDay parses "15:04" into minutes from midnight.
func ParseTimeOfDay(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// ShiftBoundaries resolves a policy's start/end times of day (minutes from
// midnight) into absolute instants on the given working day. An end at or
// before the start rolls over to the following calendar day, which covers
// night shifts spanning midnight.
func ShiftBoundaries(date time.Time, startMinutes, endMinutes int, loc *time.Location) Boundaries {
	if loc == nil {
		loc = time.UTC
	}
	start := time.Date(date.Year(), date.Month(), date.Day(), startMinutes/60, startMinutes%60, 0, 0, loc)
	end := time.Date(date.Year(), date.Month(), date.Day(), endMinutes/60, endMinutes%60, 0, 0, loc)
	if !end.After(start) {
		end = end.Add(24 * time.Hour)
	}
	return Boundaries{Start: start, End: end}
}

// Lateness classifies a check-in against the shift start plus grace period.
// Minutes inside the grace window are fully forgiven: lateMinutes counts from
// the end of the grace window, not from the scheduled start.
func Lateness(checkIn, shiftStart time.Time, graceMinutes int) (isLate bool, lateMinutes int) {
	graceLimit := shiftStart.Add(time.Duration(graceMinutes) * time.Minute)
	if !checkIn.After(graceLimit) {
		return false, 0
	}
	return true, int(checkIn.Sub(graceLimit) / time.Minute)
}

// EarlyDeparture classifies a check-out against the shift end minus the early
// departure threshold. Like Lateness, minutes are counted from the threshold
// boundary.
func EarlyDeparture(checkOut, shiftEnd time.Time, thresholdMinutes int) (isEarly bool, earlyMinutes int) {
	earliestOK := shiftEnd.Add(-time.Duration(thresholdMinutes) * time.Minute)
	if !checkOut.Before(earliestOK) {
		return false, 0
	}
	return true, int(earliestOK.Sub(checkOut) / time.Minute)
}

// Overtime returns the overtime minutes for a check-out past the shift end.
// The first overtimeStartAfter minutes past the end do not count.
func Overtime(checkOut, shiftEnd time.Time, overtimeStartAfter int) int {
	if !checkOut.After(shiftEnd) {
		return 0
	}
	minutesAfter := int(checkOut.Sub(shiftEnd) / time.Minute)
	if minutesAfter <= overtimeStartAfter {
		return 0
	}
	return minutesAfter - overtimeStartAfter
}

// WorkingMinutes is the attended span minus the policy break, never negative.
func WorkingMinutes(checkIn, checkOut time.Time, breakMinutes int) int {
	if !checkOut.After(checkIn) {
		return 0
	}
	mins := int(checkOut.Sub(checkIn)/time.Minute) - breakMinutes
	if mins < 0 {
		return 0
	}
	return mins
}

// DeriveStatus maps a completed day onto the status enum. Half-day wins over
// lateness, lateness over early departure.
func DeriveStatus(workingMinutes, minimumWorkMinutes int, isLate, isEarly bool) Status {
	if minimumWorkMinutes > 0 && workingMinutes < minimumWorkMinutes/2 {
		return StatusHalfDay
	}
	if isLate {
		return StatusLate
	}
	if isEarly {
		return StatusEarlyDeparture
	}
	return StatusPresent
}
