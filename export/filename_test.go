package export

import (
	"testing"
	"time"

	"lemburan/models"
)

func TestFilename(t *testing.T) {
	now := time.Date(2026, 10, 19, 9, 0, 0, 0, wib)

	tests := []struct {
		name   string
		base   string
		ext    string
		filter models.OvertimeFilter
		want   string
	}{
		{"no filter", "Lembur", "xlsx", models.OvertimeFilter{}, "Lembur_19-10-2026.xlsx"},
		{"employee and month", "Lembur", "xlsx", models.OvertimeFilter{EmployeeName: "A", Month: 3, Year: 2024}, "Lembur_A_3-2024_19-10-2026.xlsx"},
		{"year only", "Lemburan", "csv", models.OvertimeFilter{Year: 2025}, "Lemburan_2025_19-10-2026.csv"},
		{"month only", "Lembur", "xlsx", models.OvertimeFilter{Month: 3}, "Lembur_bulan-3_19-10-2026.xlsx"},
		{"name is sanitized", "Lembur", "xlsx", models.OvertimeFilter{EmployeeName: "Sakhaa' De Sela 'Aisy"}, "Lembur_Sakhaa_De_Sela_Aisy_19-10-2026.xlsx"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Filename(tt.base, tt.ext, tt.filter, now); got != tt.want {
				t.Errorf("Filename() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestContentDisposition(t *testing.T) {
	if got := ContentDisposition("Lembur_19-10-2026.xlsx"); got != `attachment; filename="Lembur_19-10-2026.xlsx"` {
		t.Errorf("ContentDisposition() = %s", got)
	}
}
