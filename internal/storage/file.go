package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

// FileBackend persists snapshots as comma-separated rows with a header line:
//
//	id,type,name,status,description,epic,startTime,duration
//
// The whole file is rewritten on every save.
type FileBackend struct {
	path string
}

var _ Backend = (*FileBackend)(nil)

// NewFileBackend persists to the given path. The file is created on first
// save; a missing file reads as an empty snapshot.
func NewFileBackend(path string) *FileBackend {
	return &FileBackend{path: path}
}

func (f *FileBackend) Write(records []Record) error {
	file, err := os.Create(f.path)
	if err != nil {
		return fmt.Errorf("%w: open %s: %s", ErrPersistence, f.path, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(headerFields); err != nil {
		return fmt.Errorf("%w: write header: %s", ErrPersistence, err)
	}
	for _, r := range records {
		if err := w.Write(encodeRow(r)); err != nil {
			return fmt.Errorf("%w: write record %d: %s", ErrPersistence, r.ID, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("%w: flush %s: %s", ErrPersistence, f.path, err)
	}
	return nil
}

func (f *FileBackend) Read() ([]Record, error) {
	file, err := os.Open(f.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %s", ErrPersistence, f.path, err)
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = len(headerFields)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %s", ErrPersistence, f.path, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	// First row is the header; blank lines are skipped by the csv reader.
	records := make([]Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec, err := decodeRow(row)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func encodeRow(r Record) []string {
	epic := ""
	if r.Epic != 0 {
		epic = strconv.Itoa(r.Epic)
	}
	duration := ""
	if r.Duration != 0 {
		duration = strconv.FormatInt(r.Duration, 10)
	}
	return []string{
		strconv.Itoa(r.ID),
		r.Type,
		r.Name,
		r.Status,
		r.Description,
		epic,
		r.StartTime,
		duration,
	}
}

func decodeRow(row []string) (Record, error) {
	id, err := strconv.Atoi(row[0])
	if err != nil {
		return Record{}, fmt.Errorf("%w: bad id %q: %s", ErrPersistence, row[0], err)
	}
	rec := Record{
		ID:          id,
		Type:        row[1],
		Name:        row[2],
		Status:      row[3],
		Description: row[4],
		StartTime:   row[6],
	}
	if row[5] != "" {
		rec.Epic, err = strconv.Atoi(row[5])
		if err != nil {
			return Record{}, fmt.Errorf("%w: record %d has bad epic id %q: %s", ErrPersistence, id, row[5], err)
		}
	}
	if row[7] != "" {
		rec.Duration, err = strconv.ParseInt(row[7], 10, 64)
		if err != nil {
			return Record{}, fmt.Errorf("%w: record %d has bad duration %q: %s", ErrPersistence, id, row[7], err)
		}
	}
	return rec, nil
}
