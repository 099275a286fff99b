package history

import (
	"time"

	"github.com/robgonnella/portx/internal/report"
	"gorm.io/datatypes"
)

//go:generate mockgen -destination=../mock/history/mock_history.go -package=mock_history . Repo,Service

// Record represents a persisted scan report
type Record struct {
	ID          string `gorm:"primaryKey"`
	Host        string
	Date        time.Time `gorm:"index"`
	DurationMS  int64
	Concurrency int
	TimeoutMS   int64
	Requested   int
	Open        int
	Closed      int
	Timeout     int
	Error       int
	Canceled    bool
	Results     datatypes.JSON
	Unprobed    datatypes.JSON
}

// Repo interface representing access to stored scan records
type Repo interface {
	Create(record *Record) (*Record, error)
	Get(id string) (*Record, error)
	GetAll() ([]*Record, error)
	Delete(id string) error
	DeleteAll() error
}

// Service interface for storing and retrieving scan reports
type Service interface {
	Save(r *report.Report) error
	List() ([]*report.Report, error)
	Get(id string) (*report.Report, error)
	Delete(id string) error
	Clear() error
}
