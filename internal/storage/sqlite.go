package storage

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SQLiteBackend persists snapshots in a sqlite table, one row per entity.
// Each save replaces the whole table transactionally, mirroring the flat
// file's rewrite-on-save behavior. Uses the pure-Go sqlite driver, so no CGO
// is required.
type SQLiteBackend struct {
	db *gorm.DB
}

var _ Backend = (*SQLiteBackend)(nil)

// NewSQLiteBackend opens (or creates) the database at path and migrates the
// snapshot table. Pass ":memory:" for an ephemeral database in tests.
func NewSQLiteBackend(path string) (*SQLiteBackend, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %s", ErrPersistence, path, err)
	}
	if err := db.AutoMigrate(&Record{}); err != nil {
		return nil, fmt.Errorf("%w: migrate %s: %s", ErrPersistence, path, err)
	}
	return &SQLiteBackend{db: db}, nil
}

func (s *SQLiteBackend) Write(records []Record) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM task_records").Error; err != nil {
			return err
		}
		if len(records) == 0 {
			return nil
		}
		return tx.Create(&records).Error
	})
	if err != nil {
		return fmt.Errorf("%w: write snapshot: %s", ErrPersistence, err)
	}
	return nil
}

func (s *SQLiteBackend) Read() ([]Record, error) {
	var records []Record
	if err := s.db.Order("id").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("%w: read snapshot: %s", ErrPersistence, err)
	}
	return records, nil
}
