package world

import "fmt"

// The standard calendar: twelve months of twenty-eight days.
const (
	DaysPerMonth  = 28
	MonthsPerYear = 12
	DaysPerYear   = DaysPerMonth * MonthsPerYear

	TurnsPerHour = 6
	HoursPerDay  = 24
	TurnsPerDay  = TurnsPerHour * HoursPerDay
)

var monthNames = [MonthsPerYear]string{
	"Nuwmont", "Vatermont", "Thaumont", "Flaurmont",
	"Yarthmont", "Klarmont", "Felmont", "Fyrmont",
	"Ambyrmont", "Sviftmont", "Eirmont", "Kaldmont",
}

// Calendar tracks simulated time as a monotonic turn counter.
type Calendar struct {
	Turn int `json:"turn"` // absolute turns since the epoch
	Year int `json:"year"` // starting year, e.g. 1000
}

// Day returns the absolute day count.
func (c Calendar) Day() int { return c.Turn / TurnsPerDay }

// Hour returns the hour of the current day, 0-23.
func (c Calendar) Hour() int { return c.Turn / TurnsPerHour % HoursPerDay }

// Advance moves the calendar forward one turn and reports whether the
// step crossed an hour or day boundary.
func (c *Calendar) Advance() (newHour, newDay bool) {
	c.Turn++
	newHour = c.Turn%TurnsPerHour == 0
	newDay = c.Turn%TurnsPerDay == 0
	return newHour, newDay
}

// Date renders the in-world date, e.g. "12 Thaumont, AC 1012".
func (c Calendar) Date() string {
	day := c.Day()
	year := c.Year + day/DaysPerYear
	dayOfYear := day % DaysPerYear
	month := monthNames[dayOfYear/DaysPerMonth]
	dayOfMonth := dayOfYear%DaysPerMonth + 1
	return fmt.Sprintf("%d %s, AC %d", dayOfMonth, month, year)
}

// Timestamp renders the date with the hour appended, used for chronicle
// world-time fields.
func (c Calendar) Timestamp() string {
	return fmt.Sprintf("%s, %02d:00", c.Date(), c.Hour())
}
