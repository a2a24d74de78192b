package storage

import (
	"task-tracker-api/internal/manager"
	"task-tracker-api/internal/models"
)

// Persistent is a write-through decorator over the in-memory store: every
// successful mutation is followed by a full snapshot save. A failed save is
// reported as an ErrPersistence-wrapped error while the in-memory mutation
// stays applied; the caller decides how to reconcile.
type Persistent struct {
	*manager.InMemory
	backend Backend
}

var _ manager.Service = (*Persistent)(nil)

// NewPersistent builds a store backed by the given backend, loading any
// existing snapshot first.
func NewPersistent(backend Backend, opts manager.Options) (*Persistent, error) {
	m := manager.New(opts)
	records, err := backend.Read()
	if err != nil {
		return nil, err
	}
	if err := restoreRecords(m, records); err != nil {
		return nil, err
	}
	return &Persistent{InMemory: m, backend: backend}, nil
}

func (p *Persistent) save() error {
	return p.backend.Write(snapshotRecords(p.InMemory))
}

func (p *Persistent) AddTask(t *models.Task) (int, error) {
	id, err := p.InMemory.AddTask(t)
	if err != nil {
		return id, err
	}
	return id, p.save()
}

func (p *Persistent) UpdateTask(t *models.Task) error {
	if err := p.InMemory.UpdateTask(t); err != nil {
		return err
	}
	return p.save()
}

func (p *Persistent) DeleteTask(id int) error {
	if err := p.InMemory.DeleteTask(id); err != nil {
		return err
	}
	return p.save()
}

func (p *Persistent) DeleteAllTasks() error {
	if err := p.InMemory.DeleteAllTasks(); err != nil {
		return err
	}
	return p.save()
}

func (p *Persistent) AddSubtask(st *models.Subtask) (int, error) {
	id, err := p.InMemory.AddSubtask(st)
	if err != nil {
		return id, err
	}
	return id, p.save()
}

func (p *Persistent) UpdateSubtask(st *models.Subtask) error {
	if err := p.InMemory.UpdateSubtask(st); err != nil {
		return err
	}
	return p.save()
}

func (p *Persistent) DeleteSubtask(id int) error {
	if err := p.InMemory.DeleteSubtask(id); err != nil {
		return err
	}
	return p.save()
}

func (p *Persistent) DeleteAllSubtasks() error {
	if err := p.InMemory.DeleteAllSubtasks(); err != nil {
		return err
	}
	return p.save()
}

func (p *Persistent) AddEpic(e *models.Epic) (int, error) {
	id, err := p.InMemory.AddEpic(e)
	if err != nil {
		return id, err
	}
	return id, p.save()
}

func (p *Persistent) UpdateEpic(e *models.Epic) error {
	if err := p.InMemory.UpdateEpic(e); err != nil {
		return err
	}
	return p.save()
}

func (p *Persistent) DeleteEpic(id int) error {
	if err := p.InMemory.DeleteEpic(id); err != nil {
		return err
	}
	return p.save()
}

func (p *Persistent) DeleteAllEpics() error {
	if err := p.InMemory.DeleteAllEpics(); err != nil {
		return err
	}
	return p.save()
}
