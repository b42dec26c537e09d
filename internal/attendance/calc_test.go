package attendance_test

import (
	"testing"

	"go-attendance/internal/attendance"

	"github.com/stretchr/testify/assert"
)

func TestDayTotal(t *testing.T) {
	tests := []struct {
		name                                     string
		normal, otNormal, otHoliday, otFestival int
		want                                     float64
	}{
		{"typical month", 20, 2, 1, 0, 22},
		{"all zero", 0, 0, 0, 0, 0},
		{"overtime counts half", 0, 3, 0, 0, 1.5},
		{"holiday and festival count full", 0, 0, 2, 3, 5},
		{"mixed", 22, 4, 1, 2, 27},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := attendance.DayTotal(tt.normal, tt.otNormal, tt.otHoliday, tt.otFestival)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestPayableAmount(t *testing.T) {
	assert.InDelta(t, 220.0, attendance.PayableAmount(22, 10), 1e-9)
	assert.InDelta(t, 0.0, attendance.PayableAmount(0, 120), 1e-9)
	assert.InDelta(t, 337.5, attendance.PayableAmount(22.5, 15), 1e-9)
}

func TestDaysInMonth(t *testing.T) {
	assert.Equal(t, 31, attendance.DaysInMonth(1, 2025))
	assert.Equal(t, 28, attendance.DaysInMonth(2, 2025))
	assert.Equal(t, 29, attendance.DaysInMonth(2, 2024))
	assert.Equal(t, 30, attendance.DaysInMonth(4, 2025))
	assert.Equal(t, 31, attendance.DaysInMonth(12, 2025))
}
