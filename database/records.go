package database

import (
	"context"
	"time"

	"lemburan/models"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrRecordNotFound = errors.New("overtime record not found")

// RecordStore persists overtime records. Month and year filters are
// evaluated in loc so a record started late on the last day of a month
// belongs to that month.
type RecordStore struct {
	db  *gorm.DB
	loc *time.Location
}

func NewRecordStore(db *gorm.DB, loc *time.Location) *RecordStore {
	if loc == nil {
		loc = time.Local
	}
	return &RecordStore{db: db, loc: loc}
}

// List returns the records matching f ordered by creation time.
func (s *RecordStore) List(ctx context.Context, f models.OvertimeFilter, ascending bool) ([]models.OvertimeRecord, error) {
	query := s.db.WithContext(ctx).Model(&models.OvertimeRecord{})

	if f.EmployeeName != "" {
		query = query.Where("name = ?", f.EmployeeName)
	}

	if from, to, ok := f.Period(s.loc); ok {
		query = query.Where("start_time >= ? AND start_time < ?", from, to)
	} else if f.Month >= 1 && f.Month <= 12 {
		// Month only: that month in any year.
		query = query.Where("EXTRACT(MONTH FROM start_time AT TIME ZONE ?) = ?", s.loc.String(), f.Month)
	}

	order := "created_at desc, id desc"
	if ascending {
		order = "created_at asc, id asc"
	}

	var records []models.OvertimeRecord
	if err := query.Order(order).Find(&records).Error; err != nil {
		return nil, errors.Wrap(err, "listing overtime records")
	}
	return records, nil
}

// Recent returns at most n records, newest first.
func (s *RecordStore) Recent(ctx context.Context, n int) ([]models.OvertimeRecord, error) {
	var records []models.OvertimeRecord
	err := s.db.WithContext(ctx).
		Order("created_at desc, id desc").
		Limit(n).
		Find(&records).Error
	if err != nil {
		return nil, errors.Wrap(err, "listing recent overtime records")
	}
	return records, nil
}

func (s *RecordStore) Insert(ctx context.Context, rec *models.OvertimeRecord) (uint, error) {
	rec.ID = 0
	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		return 0, errors.Wrap(err, "inserting overtime record")
	}
	return rec.ID, nil
}

func (s *RecordStore) Get(ctx context.Context, id uint) (*models.OvertimeRecord, error) {
	var rec models.OvertimeRecord
	err := s.db.WithContext(ctx).First(&rec, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "loading overtime record %d", id)
	}
	return &rec, nil
}

func (s *RecordStore) DeleteByID(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&models.OvertimeRecord{}, id)
	if result.Error != nil {
		return errors.Wrapf(result.Error, "deleting overtime record %d", id)
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// DeleteAll removes every record and returns the deleted rows, read back
// from the same statement.
func (s *RecordStore) DeleteAll(ctx context.Context) ([]models.OvertimeRecord, error) {
	var deleted []models.OvertimeRecord
	err := s.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Clauses(clause.Returning{}).
		Delete(&deleted).Error
	if err != nil {
		return nil, errors.Wrap(err, "deleting all overtime records")
	}
	return deleted, nil
}
