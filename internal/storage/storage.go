// Package storage persists store snapshots as flat records, one per entity.
// Two backends share the record shape: a comma-separated text file matching
// the classic tracker format, and a sqlite table.
package storage

import "errors"

// ErrPersistence reports that a snapshot could not be written or read. When a
// write-through save fails the in-memory mutation has already applied, so the
// persisted and in-memory states may disagree; callers must surface this
// separately from the mutation's own outcome.
var ErrPersistence = errors.New("persistence failure")

// timeLayout is the local-timestamp encoding of startTime fields.
const timeLayout = "2006-01-02T15:04:05"

// headerFields is the flat-file column order.
var headerFields = []string{"id", "type", "name", "status", "description", "epic", "startTime", "duration"}

// Record is the flat projection of one entity. Epic is the owning epic id for
// subtask rows and zero otherwise; StartTime is the encoded timestamp or
// empty; Duration is whole minutes.
type Record struct {
	ID          int    `gorm:"primaryKey"`
	Type        string `gorm:"not null"`
	Name        string
	Status      string
	Description string
	Epic        int
	StartTime   string
	Duration    int64
}

// TableName sets the sqlite table for snapshot rows.
func (Record) TableName() string {
	return "task_records"
}

// Backend reads and writes whole snapshots.
type Backend interface {
	// Write replaces the persisted snapshot with the given records.
	Write(records []Record) error
	// Read returns the persisted records, or an empty slice if nothing has
	// been persisted yet.
	Read() ([]Record, error)
}
