// Package pktime formats instants in Pakistan Standard Time (UTC+5, no DST),
// the zone every printed and rendered date in the application uses.
package pktime

import "time"

// Location is a fixed UTC+5 zone so formatting never depends on the host's
// tz database.
var Location = time.FixedZone("PKT", 5*60*60)

const (
	DateLayout     = "02-01-2006"              // dd-MM-yyyy
	TimeLayout     = "03:04 PM"                // hh:mm a
	LongDateLayout = "Monday, 02 January 2006" // EEEE, dd MMMM yyyy
	FileDateLayout = "02012006"                // ddMMyyyy
	DateTimeLayout = DateLayout + " " + TimeLayout
)

func In(t time.Time) time.Time {
	return t.In(Location)
}

func FormatDate(t time.Time) string {
	return t.In(Location).Format(DateLayout)
}

func FormatTime(t time.Time) string {
	return t.In(Location).Format(TimeLayout)
}

func FormatDateTime(t time.Time) string {
	return t.In(Location).Format(DateTimeLayout)
}

func FormatLongDate(t time.Time) string {
	return t.In(Location).Format(LongDateLayout)
}

func FormatFileDate(t time.Time) string {
	return t.In(Location).Format(FileDateLayout)
}

// StartOfDay returns midnight PKT of the calendar day containing t.
func StartOfDay(t time.Time) time.Time {
	p := t.In(Location)
	return time.Date(p.Year(), p.Month(), p.Day(), 0, 0, 0, 0, Location)
}

// DayRange returns the half-open interval [start, end) of the PKT day
// containing t.
func DayRange(t time.Time) (time.Time, time.Time) {
	start := StartOfDay(t)
	return start, start.AddDate(0, 0, 1)
}
