package export

import (
	"fmt"
	"strings"
	"time"
)

// Locale describes how dates, times and durations are rendered for one
// audience, plus the column labels used by every export format.
type Locale struct {
	Name       string
	Location   *time.Location
	DateLayout string
	TimeLayout string

	Minute          string
	Minutes         string
	Hour            string
	Hours           string
	InvalidDuration string

	Columns      [ColumnCount]string
	CSVColumns   [ColumnCount]string
	PhotoColumns [2]string
}

// Indonesian mirrors the id-ID conventions the records were first
// displayed with: d/m/yyyy dates and dot-separated 24-hour times.
func Indonesian(loc *time.Location) Locale {
	return Locale{
		Name:            "id",
		Location:        loc,
		DateLayout:      "2/1/2006",
		TimeLayout:      "15.04",
		Minute:          "menit",
		Minutes:         "menit",
		Hour:            "jam",
		Hours:           "jam",
		InvalidDuration: "Waktu tidak valid",
		Columns: [ColumnCount]string{
			"No", "Nama", "Deskripsi", "Tgl Mulai", "Jam Mulai",
			"Tgl Selesai", "Jam Selesai", "Total", "Link Mulai", "Link Selesai",
		},
		CSVColumns: [ColumnCount]string{
			"No", "Nama", "Alasan/Deskripsi", "Tanggal Mulai", "Jam Mulai",
			"Tanggal Selesai", "Jam Selesai", "Total Waktu", "Link Bukti Mulai", "Link Bukti Selesai",
		},
		PhotoColumns: [2]string{"Foto Mulai", "Foto Selesai"},
	}
}

func English(loc *time.Location) Locale {
	return Locale{
		Name:            "en",
		Location:        loc,
		DateLayout:      "1/2/2006",
		TimeLayout:      "15:04",
		Minute:          "minute",
		Minutes:         "minutes",
		Hour:            "hour",
		Hours:           "hours",
		InvalidDuration: "invalid duration",
		Columns: [ColumnCount]string{
			"No", "Name", "Description", "Start Date", "Start Time",
			"End Date", "End Time", "Total", "Start Proof", "End Proof",
		},
		CSVColumns: [ColumnCount]string{
			"No", "Name", "Description", "Start Date", "Start Time",
			"End Date", "End Time", "Total Time", "Start Proof Link", "End Proof Link",
		},
		PhotoColumns: [2]string{"Start Photo", "End Photo"},
	}
}

// LocaleByName returns the profile for name ("id" or "en"). Unknown names
// fall back to Indonesian.
func LocaleByName(name string, loc *time.Location) Locale {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "en", "en-us", "english":
		return English(loc)
	default:
		return Indonesian(loc)
	}
}

func (l Locale) location() *time.Location {
	if l.Location == nil {
		return time.Local
	}
	return l.Location
}

// FormatDate renders t as a short date in the locale's zone. Zero times
// render as an empty string.
func (l Locale) FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(l.location()).Format(l.DateLayout)
}

// FormatClock renders the hour and minute of t in the locale's zone.
func (l Locale) FormatClock(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(l.location()).Format(l.TimeLayout)
}

// ParseDateTime reverses FormatDate and FormatClock. The result is in the
// locale's zone at minute precision.
func (l Locale) ParseDateTime(date, clock string) (time.Time, error) {
	return time.ParseInLocation(l.DateLayout+" "+l.TimeLayout, date+" "+clock, l.location())
}

// FormatMinutes renders a non-negative minute count using the three
// duration forms: minutes only, hours only, or hours and minutes.
func (l Locale) FormatMinutes(total int64) string {
	if total < 0 {
		return l.InvalidDuration
	}

	hours := total / 60
	minutes := total % 60

	switch {
	case hours == 0:
		return l.unit(minutes, l.Minute, l.Minutes)
	case minutes == 0:
		return l.unit(hours, l.Hour, l.Hours)
	default:
		return l.unit(hours, l.Hour, l.Hours) + " " + l.unit(minutes, l.Minute, l.Minutes)
	}
}

func (l Locale) unit(n int64, singular, plural string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, singular)
	}
	return fmt.Sprintf("%d %s", n, plural)
}
