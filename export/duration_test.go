package export

import (
	"fmt"
	"strconv"
	"strings"
	"testing"
	"time"
)

var wib = time.FixedZone("WIB", 7*60*60)

func TestFormatDuration(t *testing.T) {
	loc := Indonesian(wib)
	base := time.Date(2024, 3, 5, 17, 0, 0, 0, wib)

	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  string
	}{
		{"minutes only", base, base.Add(45 * time.Minute), "45 menit"},
		{"whole hours", base, base.Add(2 * time.Hour), "2 jam"},
		{"hours and minutes", base, base.Add(150 * time.Minute), "2 jam 30 menit"},
		{"same instant", base, base, "0 menit"},
		{"seconds are floored", base, base.Add(59*time.Second + 999*time.Millisecond), "0 menit"},
		{"end before start", base, base.Add(-time.Hour), "Waktu tidak valid"},
		{"end half a minute early", base, base.Add(-30 * time.Second), "Waktu tidak valid"},
		{"across midnight", base.Add(6 * time.Hour), base.Add(9*time.Hour + 15*time.Minute), "3 jam 15 menit"},
		{"zero start", time.Time{}, base, ""},
		{"zero end", base, time.Time{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatDuration(tt.start, tt.end, loc); got != tt.want {
				t.Errorf("FormatDuration() = %q, want %q", got, tt.want)
			}
		})
	}
}

// parseIndonesianDuration reverses the three duration forms back into minutes.
func parseIndonesianDuration(s string) (int64, error) {
	fields := strings.Fields(s)
	var total int64
	for i := 0; i+1 < len(fields); i += 2 {
		n, err := strconv.ParseInt(fields[i], 10, 64)
		if err != nil {
			return 0, err
		}
		switch fields[i+1] {
		case "jam":
			total += n * 60
		case "menit":
			total += n
		default:
			return 0, fmt.Errorf("unknown unit %q", fields[i+1])
		}
	}
	if len(fields)%2 != 0 || len(fields) == 0 {
		return 0, fmt.Errorf("malformed duration %q", s)
	}
	return total, nil
}

func TestFormatDurationShapes(t *testing.T) {
	loc := Indonesian(wib)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, wib)

	for m := int64(0); m <= 3000; m++ {
		got := FormatDuration(start, start.Add(time.Duration(m)*time.Minute), loc)

		var wantShape string
		switch {
		case m < 60:
			wantShape = "menit"
		case m%60 == 0:
			wantShape = "jam"
		default:
			wantShape = "jam menit"
		}

		fields := strings.Fields(got)
		var units []string
		for i := 1; i < len(fields); i += 2 {
			units = append(units, fields[i])
		}
		if shape := strings.Join(units, " "); shape != wantShape {
			t.Fatalf("%d minutes rendered as %q, want shape %q", m, got, wantShape)
		}

		back, err := parseIndonesianDuration(got)
		if err != nil {
			t.Fatalf("%d minutes rendered as %q: %v", m, got, err)
		}
		if back != m {
			t.Fatalf("%q sums to %d minutes, want %d", got, back, m)
		}
	}
}

func TestFormatDurationEnglish(t *testing.T) {
	loc := English(time.UTC)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		minutes int
		want    string
	}{
		{1, "1 minute"},
		{2, "2 minutes"},
		{60, "1 hour"},
		{61, "1 hour 1 minute"},
		{125, "2 hours 5 minutes"},
	}
	for _, tt := range tests {
		got := FormatDuration(start, start.Add(time.Duration(tt.minutes)*time.Minute), loc)
		if got != tt.want {
			t.Errorf("%d minutes = %q, want %q", tt.minutes, got, tt.want)
		}
	}

	if got := FormatDuration(start, start.Add(-time.Minute), loc); got != "invalid duration" {
		t.Errorf("negative duration = %q", got)
	}
}

func TestFormatDurationStrings(t *testing.T) {
	loc := Indonesian(wib)

	tests := []struct {
		name       string
		start, end string
		want       string
	}{
		{"both empty", "", "", ""},
		{"end missing", "2024-03-01T08:00", "", ""},
		{"whitespace only", "  ", "2024-03-01T08:00", ""},
		{"datetime-local", "2024-03-01T08:00", "2024-03-01T10:30", "2 jam 30 menit"},
		{"with seconds", "2024-03-01T08:00:00", "2024-03-01T08:45:30", "45 menit"},
		{"rfc3339 offsets", "2024-03-01T08:00:00+07:00", "2024-03-01T02:00:00Z", "1 jam"},
		{"unparseable", "yesterday", "2024-03-01T10:30", "Waktu tidak valid"},
		{"reversed", "2024-03-01T10:30", "2024-03-01T08:00", "Waktu tidak valid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatDurationStrings(tt.start, tt.end, loc); got != tt.want {
				t.Errorf("FormatDurationStrings(%q, %q) = %q, want %q", tt.start, tt.end, got, tt.want)
			}
		})
	}
}

func TestParseTimestampUsesLocation(t *testing.T) {
	got, err := ParseTimestamp("2024-03-01T08:00", wib)
	if err != nil {
		t.Fatalf("ParseTimestamp() error = %v", err)
	}
	want := time.Date(2024, 3, 1, 1, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("ParseTimestamp() = %v, want %v", got, want)
	}
}
