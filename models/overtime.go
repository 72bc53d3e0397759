package models

import (
	"time"
)

// OvertimeRecord is one submitted overtime period with its two proof images.
// Records are never updated; they are only inserted and deleted.
type OvertimeRecord struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	CreatedAt     time.Time `gorm:"index" json:"created_at"`
	EmployeeName  string    `gorm:"column:name;not null;size:200;index" json:"name"`
	Description   string    `gorm:"not null;size:2000" json:"description"`
	StartTime     time.Time `gorm:"not null;index" json:"start_time"`
	EndTime       time.Time `gorm:"not null" json:"end_time"`
	ProofStartURL string    `gorm:"not null" json:"proof_start_url"`
	ProofEndURL   string    `gorm:"not null" json:"proof_end_url"`
}

// OvertimeFilter narrows a record listing. Zero fields match everything.
// Month and Year select on the start of the overtime period.
type OvertimeFilter struct {
	EmployeeName string
	Month        int
	Year         int
}

// Period returns the half-open [from, to) range selected by Year, or by
// Month and Year together. ok is false when Year is unset.
func (f OvertimeFilter) Period(loc *time.Location) (from, to time.Time, ok bool) {
	if f.Year <= 0 {
		return time.Time{}, time.Time{}, false
	}
	if f.Month >= 1 && f.Month <= 12 {
		from = time.Date(f.Year, time.Month(f.Month), 1, 0, 0, 0, 0, loc)
		return from, from.AddDate(0, 1, 0), true
	}
	from = time.Date(f.Year, 1, 1, 0, 0, 0, 0, loc)
	return from, from.AddDate(1, 0, 0), true
}
