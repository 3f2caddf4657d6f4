package validator

import (
	"testing"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		got := IsEmpty(c.input)
		if got != c.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestIsValidUUID(t *testing.T) {
	valid := []string{
		"0188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b",
		"123e4567-e89b-42d3-a456-426614174000",
		"0188D0F2-7B8C-7B4A-8A2B-6B8B8B8B8B8B",
	}
	invalid := []string{
		"0188d0f27b8c7b4a8a2b6b8b8b8b8b8b",     // missing dashes
		"g188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b", // invalid hex
		"",
	}
	for _, uuid := range valid {
		if !IsValidUUID(uuid) {
			t.Errorf("IsValidUUID(%q) = false, want true", uuid)
		}
	}
	for _, uuid := range invalid {
		if IsValidUUID(uuid) {
			t.Errorf("IsValidUUID(%q) = true, want false", uuid)
		}
	}
}

func TestIsValidDate(t *testing.T) {
	if _, ok := IsValidDate("2025-03-10"); !ok {
		t.Error("IsValidDate(2025-03-10) = false, want true")
	}
	for _, bad := range []string{"2025-13-01", "10-03-2025", "2025-03-10T00:00:00Z", ""} {
		if _, ok := IsValidDate(bad); ok {
			t.Errorf("IsValidDate(%q) = true, want false", bad)
		}
	}
}

func TestIsValidDateTime(t *testing.T) {
	for _, good := range []string{"2024-01-15T10:30:00Z", "2024-01-15T10:30:00+07:00"} {
		if _, ok := IsValidDateTime(good); !ok {
			t.Errorf("IsValidDateTime(%q) = false, want true", good)
		}
	}
	for _, bad := range []string{"2024-01-15", "not a time", ""} {
		if _, ok := IsValidDateTime(bad); ok {
			t.Errorf("IsValidDateTime(%q) = true, want false", bad)
		}
	}
}

func TestIsValidTimeOfDay(t *testing.T) {
	for _, good := range []string{"00:00", "09:30", "23:59"} {
		if !IsValidTimeOfDay(good) {
			t.Errorf("IsValidTimeOfDay(%q) = false, want true", good)
		}
	}
	for _, bad := range []string{"24:00", "09:65", "noonish", ""} {
		if IsValidTimeOfDay(bad) {
			t.Errorf("IsValidTimeOfDay(%q) = true, want false", bad)
		}
	}
}

func TestIsValidEmployeeCode(t *testing.T) {
	if !IsValidEmployeeCode("2024-0042") {
		t.Error("IsValidEmployeeCode(2024-0042) = false, want true")
	}
	for _, bad := range []string{"20240042", "2024-42", "abcd-0042", ""} {
		if IsValidEmployeeCode(bad) {
			t.Errorf("IsValidEmployeeCode(%q) = true, want false", bad)
		}
	}
}

func TestIsValidMonthYear(t *testing.T) {
	if !IsValidMonth(1) || !IsValidMonth(12) || IsValidMonth(0) || IsValidMonth(13) {
		t.Error("IsValidMonth bounds wrong")
	}
	if !IsValidYear(2025) || IsValidYear(1999) || IsValidYear(2101) {
		t.Error("IsValidYear bounds wrong")
	}
}
