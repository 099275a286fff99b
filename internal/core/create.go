package core

import (
	"errors"
	"fmt"

	"github.com/robgonnella/portx/internal/config"
	"github.com/robgonnella/portx/internal/event"
	"github.com/robgonnella/portx/internal/history"
	"github.com/robgonnella/portx/internal/scanner"
	"github.com/spf13/viper"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// AppOption customizes application core creation
type AppOption func(o *appOptions)

type appOptions struct {
	recordHistory   bool
	historyFallback bool
}

// WithoutHistory disables recording scans to the history database
func WithoutHistory() AppOption {
	return func(o *appOptions) {
		o.recordHistory = false
	}
}

// WithHistoryFallback creates the core without history when the history
// database cannot be opened. The open failure is reported as a fatal
// error event once StartDaemon is called.
func WithHistoryFallback() AppOption {
	return func(o *appOptions) {
		o.historyFallback = true
	}
}

// getSqliteDbConnection creates and returns a sqlite database connection
func getSqliteDbConnection(dbFile string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dbFile), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})

	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&history.Record{}); err != nil {
		return nil, err
	}

	return db, nil
}

// CreateHistoryService opens the history database shared through viper
// and returns a history service backed by it
func CreateHistoryService() (*history.HistoryService, error) {
	dbFile := viper.GetString("database-file")

	if dbFile == "" {
		return nil, errors.New("failed to find database file path config")
	}

	db, err := getSqliteDbConnection(dbFile)

	if err != nil {
		return nil, err
	}

	return history.NewService(history.NewSqliteRepo(db)), nil
}

// CreateNewAppCore creates and returns a new instance of *core.Core
func CreateNewAppCore(opts ...AppOption) (*Core, error) {
	options := &appOptions{recordHistory: true}

	for _, o := range opts {
		o(options)
	}

	conf, err := config.Load(viper.GetString("config-file"))

	if err != nil {
		return nil, err
	}

	var historyService history.Service
	var startupErr error

	if options.recordHistory {
		svc, err := CreateHistoryService()

		switch {
		case err != nil && options.historyFallback:
			startupErr = fmt.Errorf("failed to open scan history: %w", err)
		case err != nil:
			return nil, err
		default:
			historyService = svc
		}
	}

	scheduler := scanner.NewScheduler(scanner.NewTCPProber())

	appCore := New(conf, scheduler, historyService, event.NewEventManager())
	appCore.startupErr = startupErr

	return appCore, nil
}
