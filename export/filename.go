package export

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"lemburan/models"
)

const (
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypeCSV  = "text/csv;charset=utf-8"
)

// Filename builds a download name such as "Lembur_A_3-2024_19-10-2026.xlsx"
// from a base, the active filter and the current date.
func Filename(base, ext string, f models.OvertimeFilter, now time.Time) string {
	parts := []string{base}

	if name := filenameToken(f.EmployeeName); name != "" {
		parts = append(parts, name)
	}

	switch {
	case f.Month > 0 && f.Year > 0:
		parts = append(parts, fmt.Sprintf("%d-%d", f.Month, f.Year))
	case f.Year > 0:
		parts = append(parts, strconv.Itoa(f.Year))
	case f.Month > 0:
		parts = append(parts, fmt.Sprintf("bulan-%d", f.Month))
	}

	parts = append(parts, now.Format("2-1-2006"))
	return strings.Join(parts, "_") + "." + ext
}

// ContentDisposition returns an attachment header value for name.
func ContentDisposition(name string) string {
	return fmt.Sprintf("attachment; filename=%q", name)
}

// filenameToken keeps letters, digits, '-' and '_' and turns spaces into '_'.
func filenameToken(s string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(s) {
		switch {
		case r == ' ':
			b.WriteByte('_')
		case r == '-' || r == '_',
			r >= 'a' && r <= 'z',
			r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9':
			b.WriteRune(r)
		}
	}
	return b.String()
}
