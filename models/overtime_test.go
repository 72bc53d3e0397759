package models

import (
	"testing"
	"time"
)

func TestOvertimeFilterPeriod(t *testing.T) {
	loc := time.FixedZone("WIB", 7*60*60)

	tests := []struct {
		name     string
		filter   OvertimeFilter
		wantOK   bool
		wantFrom time.Time
		wantTo   time.Time
	}{
		{"no year", OvertimeFilter{Month: 3}, false, time.Time{}, time.Time{}},
		{"month and year", OvertimeFilter{Month: 3, Year: 2024}, true,
			time.Date(2024, 3, 1, 0, 0, 0, 0, loc), time.Date(2024, 4, 1, 0, 0, 0, 0, loc)},
		{"december wraps", OvertimeFilter{Month: 12, Year: 2024}, true,
			time.Date(2024, 12, 1, 0, 0, 0, 0, loc), time.Date(2025, 1, 1, 0, 0, 0, 0, loc)},
		{"year only", OvertimeFilter{Year: 2025}, true,
			time.Date(2025, 1, 1, 0, 0, 0, 0, loc), time.Date(2026, 1, 1, 0, 0, 0, 0, loc)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from, to, ok := tt.filter.Period(loc)
			if ok != tt.wantOK {
				t.Fatalf("Period() ok = %v, want %v", ok, tt.wantOK)
			}
			if !from.Equal(tt.wantFrom) || !to.Equal(tt.wantTo) {
				t.Errorf("Period() = [%v, %v), want [%v, %v)", from, to, tt.wantFrom, tt.wantTo)
			}
		})
	}
}

func TestUserPermissions(t *testing.T) {
	admin := &User{Role: RoleAdmin}
	hr := &User{Role: RoleHR}

	if !admin.CanViewRecords() || !admin.CanExport() || !admin.CanDeleteRecords() {
		t.Error("admin should view, export and delete")
	}
	if !hr.CanViewRecords() || !hr.CanExport() {
		t.Error("HR should view and export")
	}
	if hr.CanDeleteRecords() {
		t.Error("HR must not delete")
	}

	if _, ok := ParseRole("HR"); !ok {
		t.Error("ParseRole(HR) failed")
	}
	if _, ok := ParseRole("EMPLOYEE"); ok {
		t.Error("ParseRole accepted an unknown role")
	}
}
