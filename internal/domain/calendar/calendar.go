// Package calendar provides the date arithmetic of the tracker: the start
// date (epoch), day numbering, week boundaries and Indonesian date labels.
//
// All comparisons are done on calendar dates in the configured location, so
// the results do not depend on the time of day or on DST transitions.
package calendar

import (
	"fmt"
	"time"
)

// DateLayout is the format used for configured dates
const DateLayout = "2006-01-02"

var weekdayNames = [...]string{"Minggu", "Senin", "Selasa", "Rabu", "Kamis", "Jumat", "Sabtu"}

var monthNames = [...]string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

// Calendar performs date computations relative to a fixed start date
type Calendar struct {
	epoch time.Time
	loc   *time.Location
}

// New creates a calendar whose day 1 is epochDate (YYYY-MM-DD) in loc
func New(epochDate string, loc *time.Location) (*Calendar, error) {
	if loc == nil {
		loc = time.Local
	}

	epoch, err := time.ParseInLocation(DateLayout, epochDate, loc)
	if err != nil {
		return nil, fmt.Errorf("failed to parse start date '%s': %w", epochDate, err)
	}

	return &Calendar{epoch: epoch, loc: loc}, nil
}

// Location returns the time zone used for day boundaries
func (c *Calendar) Location() *time.Location {
	return c.loc
}

// Epoch returns the start date at midnight
func (c *Calendar) Epoch() time.Time {
	return c.epoch
}

// Midnight strips the time of day from t
func (c *Calendar) Midnight(t time.Time) time.Time {
	y, m, d := t.In(c.loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, c.loc)
}

// AddDays moves t by n calendar days and returns the resulting midnight
func (c *Calendar) AddDays(t time.Time, n int) time.Time {
	y, m, d := t.In(c.loc).Date()
	return time.Date(y, m, d+n, 0, 0, 0, 0, c.loc)
}

// BeforeEpoch reports whether t falls on a day before the start date
func (c *Calendar) BeforeEpoch(t time.Time) bool {
	return c.Midnight(t).Before(c.epoch)
}

// DayNumber returns the 1-based day count of t since the start date.
// The result is only meaningful for dates on or after the start date.
func (c *Calendar) DayNumber(t time.Time) int {
	diff := civilDays(t.In(c.loc)) - civilDays(c.epoch)
	return int(diff) + 1
}

// DayLabel returns the day header, e.g. "HARI KE-3"
func (c *Calendar) DayLabel(t time.Time) string {
	return fmt.Sprintf("HARI KE-%d", c.DayNumber(t))
}

// WeekStart returns the Monday at or before now, at midnight
func (c *Calendar) WeekStart(now time.Time) time.Time {
	local := now.In(c.loc)
	day := int(local.Weekday())

	offset := 1 - day
	if day == 0 {
		offset = -6
	}

	return c.AddDays(local, offset)
}

// SameDay reports whether a and b fall on the same calendar date
func (c *Calendar) SameDay(a, b time.Time) bool {
	ay, am, ad := a.In(c.loc).Date()
	by, bm, bd := b.In(c.loc).Date()
	return ay == by && am == bm && ad == bd
}

// SameMonth reports whether a and b share month and year
func (c *Calendar) SameMonth(a, b time.Time) bool {
	ay, am, _ := a.In(c.loc).Date()
	by, bm, _ := b.In(c.loc).Date()
	return ay == by && am == bm
}

// SameYear reports whether a and b share the year
func (c *Calendar) SameYear(a, b time.Time) bool {
	return a.In(c.loc).Year() == b.In(c.loc).Year()
}

// FormatFull renders t as a long Indonesian date, e.g. "Senin, 19 Januari 2026"
func (c *Calendar) FormatFull(t time.Time) string {
	local := t.In(c.loc)
	return fmt.Sprintf("%s, %d %s %d",
		weekdayNames[local.Weekday()],
		local.Day(),
		monthNames[local.Month()-1],
		local.Year())
}

// civilDays counts days since the Unix epoch for the calendar date of t
func civilDays(t time.Time) int64 {
	y, m, d := t.Date()
	u := time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix()
	if u < 0 && u%86400 != 0 {
		return u/86400 - 1
	}
	return u / 86400
}
