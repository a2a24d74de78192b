package storage

import (
	"fmt"
	"time"

	"task-tracker-api/internal/manager"
	"task-tracker-api/internal/models"
)

// snapshotRecords projects the store's collections into flat records: tasks,
// then subtasks, then epics, each in ascending id order.
func snapshotRecords(m *manager.InMemory) []Record {
	records := make([]Record, 0, len(m.Tasks())+len(m.Subtasks())+len(m.Epics()))
	for _, t := range m.Tasks() {
		records = append(records, taskRecord(t, models.TypeTask, 0))
	}
	for _, st := range m.Subtasks() {
		records = append(records, taskRecord(&st.Task, models.TypeSubtask, st.EpicID))
	}
	for _, e := range m.Epics() {
		records = append(records, taskRecord(&e.Task, models.TypeEpic, 0))
	}
	return records
}

func taskRecord(t *models.Task, kind models.EntityType, epicID int) Record {
	r := Record{
		ID:          t.ID,
		Type:        string(kind),
		Name:        t.Name,
		Status:      string(t.Status),
		Description: t.Description,
		Epic:        epicID,
		Duration:    t.Duration.Minutes(),
	}
	if t.StartTime != nil {
		r.StartTime = t.StartTime.Format(timeLayout)
	}
	return r
}

// restoreRecords rebuilds a store from flat records through the id-preserving
// restore entry points. Subtasks are deferred until every epic is in place,
// so epic references always resolve for well-formed snapshots.
func restoreRecords(m *manager.InMemory, records []Record) error {
	var subtasks []Record
	for _, r := range records {
		switch models.EntityType(r.Type) {
		case models.TypeTask:
			t, err := decodeTask(r)
			if err != nil {
				return err
			}
			if err := m.RestoreTask(t); err != nil {
				return fmt.Errorf("%w: %s", ErrPersistence, err)
			}
		case models.TypeEpic:
			t, err := decodeTask(r)
			if err != nil {
				return err
			}
			epic := &models.Epic{Task: *t}
			if err := m.RestoreEpic(epic); err != nil {
				return fmt.Errorf("%w: %s", ErrPersistence, err)
			}
		case models.TypeSubtask:
			subtasks = append(subtasks, r)
		default:
			return fmt.Errorf("%w: record %d has unknown type %q", ErrPersistence, r.ID, r.Type)
		}
	}
	for _, r := range subtasks {
		t, err := decodeTask(r)
		if err != nil {
			return err
		}
		st := &models.Subtask{Task: *t, EpicID: r.Epic}
		if err := m.RestoreSubtask(st); err != nil {
			return fmt.Errorf("%w: %s", ErrPersistence, err)
		}
	}
	return nil
}

func decodeTask(r Record) (*models.Task, error) {
	t := &models.Task{
		ID:          r.ID,
		Type:        models.EntityType(r.Type),
		Name:        r.Name,
		Description: r.Description,
		Status:      models.Status(r.Status),
		Duration:    models.Minutes(r.Duration),
	}
	if r.StartTime != "" {
		start, err := time.ParseInLocation(timeLayout, r.StartTime, time.Local)
		if err != nil {
			return nil, fmt.Errorf("%w: record %d has bad start time %q: %s", ErrPersistence, r.ID, r.StartTime, err)
		}
		t.StartTime = &start
	}
	return t, nil
}
