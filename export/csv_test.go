package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"lemburan/models"
)

const csvHeader = `"No","Nama","Alasan/Deskripsi","Tanggal Mulai","Jam Mulai","Tanggal Selesai","Jam Selesai","Total Waktu","Link Bukti Mulai","Link Bukti Selesai"` + "\n"

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, nil, Indonesian(wib)); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}

	if got, want := buf.String(), "\uFEFF"+csvHeader; got != want {
		t.Errorf("WriteCSV(nil) = %q, want %q", got, want)
	}
}

func TestWriteCSV(t *testing.T) {
	start := time.Date(2024, 3, 5, 17, 0, 0, 0, wib)
	rec := sampleRecord("Nur Ibnu Fadhilah", start, 45)
	rec.Description = `Server "prod" down, lanjut deploy`

	var buf bytes.Buffer
	if err := WriteCSV(&buf, []models.OvertimeRecord{rec, sampleRecord("B", start, 120)}, Indonesian(wib)); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}

	out := buf.String()
	if !strings.HasPrefix(out, "\uFEFF") {
		t.Fatal("missing byte-order mark")
	}
	if !strings.HasSuffix(out, "\n") {
		t.Error("last record is not newline terminated")
	}

	lines := strings.Split(strings.TrimSuffix(strings.TrimPrefix(out, "\uFEFF"), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3:\n%s", len(lines), out)
	}

	wantFirst := `"1","Nur Ibnu Fadhilah","Server ""prod"" down, lanjut deploy","5/3/2024","17.00","5/3/2024","17.45","45 menit","http://files.test/Nur Ibnu Fadhilah-start.png","http://files.test/Nur Ibnu Fadhilah-end.png"`
	if lines[1] != wantFirst {
		t.Errorf("first record =\n%s\nwant\n%s", lines[1], wantFirst)
	}
	if !strings.HasPrefix(lines[2], `"2","B",`) || !strings.Contains(lines[2], `"2 jam"`) {
		t.Errorf("second record = %s", lines[2])
	}
}

func TestQuoteField(t *testing.T) {
	tests := map[string]string{
		``:          `""`,
		`plain`:     `"plain"`,
		`a,b`:       `"a,b"`,
		`"`:         `""""`,
		"two\nline": "\"two\nline\"",
	}
	for in, want := range tests {
		if got := quoteField(in); got != want {
			t.Errorf("quoteField(%q) = %q, want %q", in, got, want)
		}
	}
}
