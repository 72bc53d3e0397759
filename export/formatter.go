package export

import (
	"strconv"

	"lemburan/models"
)

// ColumnCount is the number of columns in every export.
const ColumnCount = 10

// Row is the display-ready form of one OvertimeRecord.
type Row struct {
	No            int
	EmployeeName  string
	Description   string
	StartDate     string
	StartTime     string
	EndDate       string
	EndTime       string
	Duration      string
	ProofStartURL string
	ProofEndURL   string
}

// FormatRecord maps rec to a Row. no is the 1-based position of the record
// in the export batch.
func FormatRecord(no int, rec models.OvertimeRecord, loc Locale) Row {
	return Row{
		No:            no,
		EmployeeName:  rec.EmployeeName,
		Description:   rec.Description,
		StartDate:     loc.FormatDate(rec.StartTime),
		StartTime:     loc.FormatClock(rec.StartTime),
		EndDate:       loc.FormatDate(rec.EndTime),
		EndTime:       loc.FormatClock(rec.EndTime),
		Duration:      FormatDuration(rec.StartTime, rec.EndTime, loc),
		ProofStartURL: rec.ProofStartURL,
		ProofEndURL:   rec.ProofEndURL,
	}
}

// FormatRecords numbers records from 1 in input order.
func FormatRecords(records []models.OvertimeRecord, loc Locale) []Row {
	rows := make([]Row, len(records))
	for i, rec := range records {
		rows[i] = FormatRecord(i+1, rec, loc)
	}
	return rows
}

// Strings returns the row as text cells in column order.
func (r Row) Strings() []string {
	return []string{
		strconv.Itoa(r.No),
		r.EmployeeName,
		r.Description,
		r.StartDate,
		r.StartTime,
		r.EndDate,
		r.EndTime,
		r.Duration,
		r.ProofStartURL,
		r.ProofEndURL,
	}
}
