package history

import (
	"errors"

	"github.com/robgonnella/portx/internal/exception"
	"gorm.io/gorm"
)

// SqliteRepo is our repo implementation for sqlite
type SqliteRepo struct {
	db *gorm.DB
}

// NewSqliteRepo returns a new portx sqlite repo
func NewSqliteRepo(db *gorm.DB) *SqliteRepo {
	return &SqliteRepo{
		db: db,
	}
}

// Create stores a new scan record
func (r *SqliteRepo) Create(record *Record) (*Record, error) {
	if record.ID == "" {
		return nil, errors.New("record id cannot be empty")
	}

	if result := r.db.Create(record); result.Error != nil {
		return nil, result.Error
	}

	return record, nil
}

// Get returns a scan record from the db
func (r *SqliteRepo) Get(id string) (*Record, error) {
	if id == "" {
		return nil, errors.New("record id cannot be empty")
	}

	record := Record{}

	if result := r.db.Where("id = ?", id).First(&record); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, exception.ErrRecordNotFound
		}

		return nil, result.Error
	}

	return &record, nil
}

// GetAll returns all scan records newest first
func (r *SqliteRepo) GetAll() ([]*Record, error) {
	records := []*Record{}

	if result := r.db.Order("date desc").Find(&records); result.Error != nil {
		return nil, result.Error
	}

	return records, nil
}

// Delete deletes a scan record from db
func (r *SqliteRepo) Delete(id string) error {
	if id == "" {
		return errors.New("record id cannot be empty")
	}

	result := r.db.Where("id = ?", id).Delete(&Record{})

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return exception.ErrRecordNotFound
	}

	return nil
}

// DeleteAll removes every scan record
func (r *SqliteRepo) DeleteAll() error {
	return r.db.Where("1 = 1").Delete(&Record{}).Error
}
