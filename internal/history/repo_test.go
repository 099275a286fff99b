package history_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/robgonnella/portx/internal/exception"
	"github.com/robgonnella/portx/internal/history"
	"github.com/robgonnella/portx/internal/test_util"
	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
)

func TestHistorySqliteRepo(t *testing.T) {
	testDBFile := filepath.Join(t.TempDir(), "history.db")

	db, err := test_util.GetDBConnection(testDBFile)

	if err != nil {
		t.Logf("failed to create test db: %s", err.Error())
		t.FailNow()
	}

	if err := test_util.Migrate(db, &history.Record{}); err != nil {
		t.Logf("failed to migrate test db: %s", err.Error())
		t.FailNow()
	}

	repo := history.NewSqliteRepo(db)

	older := &history.Record{
		ID:        "older",
		Host:      "127.0.0.1",
		Date:      time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
		Requested: 2,
		Open:      1,
		Closed:    1,
		Results:   datatypes.JSON(`[{"port":22,"status":"open","elapsed_ms":3},{"port":80,"status":"closed","elapsed_ms":null}]`),
		Unprobed:  datatypes.JSON(`[]`),
	}

	newer := &history.Record{
		ID:        "newer",
		Host:      "example.com",
		Date:      time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC),
		Requested: 1,
		Timeout:   1,
		Results:   datatypes.JSON(`[{"port":443,"status":"timeout","elapsed_ms":null}]`),
		Unprobed:  datatypes.JSON(`[]`),
	}

	t.Run("Get returns record not found error", func(st *testing.T) {
		_, err := repo.Get("noop")

		assert.Error(st, err)
		assert.Equal(st, exception.ErrRecordNotFound, err)
	})

	t.Run("Create rejects empty id", func(st *testing.T) {
		_, err := repo.Create(&history.Record{})

		assert.Error(st, err)
	})

	t.Run("creates records", func(st *testing.T) {
		created, err := repo.Create(older)

		assert.NoError(st, err)
		assert.Equal(st, older, created)

		_, err = repo.Create(newer)

		assert.NoError(st, err)
	})

	t.Run("gets record by id", func(st *testing.T) {
		found, err := repo.Get("older")

		assert.NoError(st, err)
		assert.Equal(st, older.ID, found.ID)
		assert.Equal(st, older.Host, found.Host)
		assert.Equal(st, older.Open, found.Open)
		assert.True(st, older.Date.Equal(found.Date))
		assert.JSONEq(st, older.Results.String(), found.Results.String())
	})

	t.Run("gets all records newest first", func(st *testing.T) {
		found, err := repo.GetAll()

		assert.NoError(st, err)
		assert.Equal(st, 2, len(found))
		assert.Equal(st, "newer", found[0].ID)
		assert.Equal(st, "older", found[1].ID)
	})

	t.Run("deletes record", func(st *testing.T) {
		err := repo.Delete("older")

		assert.NoError(st, err)

		_, err = repo.Get("older")

		assert.ErrorIs(st, err, exception.ErrRecordNotFound)
	})

	t.Run("Delete returns record not found error", func(st *testing.T) {
		err := repo.Delete("older")

		assert.ErrorIs(st, err, exception.ErrRecordNotFound)
	})

	t.Run("deletes all records", func(st *testing.T) {
		err := repo.DeleteAll()

		assert.NoError(st, err)

		found, err := repo.GetAll()

		assert.NoError(st, err)
		assert.Empty(st, found)
	})
}
