package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWorkingDays(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		year     int
		month    time.Month
		holidays []Holiday
		want     int
	}{
		{
			name:  "march 2026 no holidays",
			year:  2026,
			month: time.March,
			want:  22,
		},
		{
			name:  "weekday holiday subtracts",
			year:  2026,
			month: time.March,
			holidays: []Holiday{
				{Date: time.Date(2026, 3, 17, 0, 0, 0, 0, time.UTC), Name: "Nyepi"},
			},
			want: 21,
		},
		{
			name:  "weekend holiday does not subtract",
			year:  2026,
			month: time.March,
			holidays: []Holiday{
				{Date: time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC), Name: "Sunday holiday"},
			},
			want: 22,
		},
		{
			name:  "february non-leap",
			year:  2026,
			month: time.February,
			want:  20,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := WorkingDays(tt.year, tt.month, tt.holidays, time.UTC)
			assert.Equal(t, tt.want, got)
		})
	}
}
