package attendance

import "time"

// Day-value multipliers. Standard-rate overtime counts half a day;
// holiday and festival days count full.
const (
	overtimeDayFactor = 0.5
	holidayDayFactor  = 1.0
	festivalDayFactor = 1.0
)

// DayTotal converts the four raw day counts into the payable day
// total. The stored total is always recomputed from the raw counts and
// never taken from caller input.
func DayTotal(normal, otNormal, otHoliday, otFestival int) float64 {
	return float64(normal) +
		overtimeDayFactor*float64(otNormal) +
		holidayDayFactor*float64(otHoliday) +
		festivalDayFactor*float64(otFestival)
}

// PayableAmount is the monetary value of a day total at a worker's
// per-day rate.
func PayableAmount(dayTotal, dayValue float64) float64 {
	return dayTotal * dayValue
}

// DaysInMonth returns the number of calendar days of the given month.
func DaysInMonth(month, year int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
