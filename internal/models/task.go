package models

import (
	"encoding/json"
	"time"
)

// Status represents the completion state of a task
type Status string

const (
	StatusNew        Status = "NEW"
	StatusInProgress Status = "IN_PROGRESS"
	StatusDone       Status = "DONE"
)

// EntityType discriminates the three entity kinds in API payloads and snapshots
type EntityType string

const (
	TypeTask    EntityType = "TASK"
	TypeEpic    EntityType = "EPIC"
	TypeSubtask EntityType = "SUBTASK"
)

// Duration is a task time span. It is JSON-encoded as a whole number of minutes.
type Duration time.Duration

// Minutes builds a Duration from a minute count.
func Minutes(n int64) Duration {
	return Duration(time.Duration(n) * time.Minute)
}

// Minutes returns the span as whole minutes.
func (d Duration) Minutes() int64 {
	return int64(time.Duration(d) / time.Minute)
}

// Std converts to the standard library representation.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Minutes())
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var minutes int64
	if err := json.Unmarshal(data, &minutes); err != nil {
		return err
	}
	*d = Minutes(minutes)
	return nil
}

// Entity is the common surface of Task, Subtask and Epic used by the history
// tracker and the prioritized view.
type Entity interface {
	TaskID() int
	EntityType() EntityType
	StartAt() *time.Time
	EndAt() *time.Time
	// Snapshot returns an independent deep copy; mutating the original
	// afterwards must not affect the copy.
	Snapshot() Entity
}

// Task represents a schedulable unit of work. The id is assigned by the store
// and identifies the task; all other fields are payload.
type Task struct {
	ID          int        `json:"id"`
	Type        EntityType `json:"type"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Status      Status     `json:"status"`
	StartTime   *time.Time `json:"startTime,omitempty"`
	Duration    Duration   `json:"duration"`
}

// NewTask builds an unstored task. An empty status defaults to NEW.
func NewTask(name, description string, status Status, start *time.Time, duration Duration) *Task {
	if status == "" {
		status = StatusNew
	}
	return &Task{
		Type:        TypeTask,
		Name:        name,
		Description: description,
		Status:      status,
		StartTime:   start,
		Duration:    duration,
	}
}

func (t *Task) TaskID() int {
	return t.ID
}

func (t *Task) EntityType() EntityType {
	return TypeTask
}

func (t *Task) StartAt() *time.Time {
	return t.StartTime
}

func (t *Task) EndAt() *time.Time {
	return t.EndTime()
}

// EndTime is the derived end of the scheduled interval: startTime + duration.
// A task without a start time has no end time; a zero-duration task ends the
// moment it starts.
func (t *Task) EndTime() *time.Time {
	if t.StartTime == nil {
		return nil
	}
	end := t.StartTime.Add(t.Duration.Std())
	return &end
}

// Equal compares by identity only. Two tasks with the same id are the same
// task regardless of their other fields.
func (t *Task) Equal(other *Task) bool {
	return other != nil && t.ID == other.ID
}

// UpdateFrom copies every non-zero field of other onto t, leaving the rest
// untouched. Used to apply partial updates from the API layer.
func (t *Task) UpdateFrom(other *Task) {
	if other.Name != "" {
		t.Name = other.Name
	}
	if other.Description != "" {
		t.Description = other.Description
	}
	if other.Status != "" {
		t.Status = other.Status
	}
	if other.StartTime != nil {
		start := *other.StartTime
		t.StartTime = &start
	}
	if other.Duration != 0 {
		t.Duration = other.Duration
	}
}

// Clone returns an independent deep copy.
func (t *Task) Clone() *Task {
	clone := *t
	if t.StartTime != nil {
		start := *t.StartTime
		clone.StartTime = &start
	}
	return &clone
}

func (t *Task) Snapshot() Entity {
	return t.Clone()
}

// Subtask is a task owned by exactly one epic.
type Subtask struct {
	Task
	EpicID int `json:"epicId"`
}

// NewSubtask builds an unstored subtask under the given epic.
func NewSubtask(name, description string, status Status, epicID int, start *time.Time, duration Duration) *Subtask {
	st := &Subtask{Task: *NewTask(name, description, status, start, duration)}
	st.Type = TypeSubtask
	st.EpicID = epicID
	return st
}

func (s *Subtask) EntityType() EntityType {
	return TypeSubtask
}

// SetEpicID relinks the subtask to another epic. A subtask can never be its
// own epic, so a value equal to the subtask's id is ignored.
func (s *Subtask) SetEpicID(epicID int) {
	if epicID != s.ID {
		s.EpicID = epicID
	}
}

// UpdateFrom copies every non-zero field of other onto s, including the epic
// link when other carries one.
func (s *Subtask) UpdateFrom(other *Subtask) {
	s.Task.UpdateFrom(&other.Task)
	if other.EpicID != 0 {
		s.SetEpicID(other.EpicID)
	}
}

func (s *Subtask) Clone() *Subtask {
	clone := *s
	clone.Task = *s.Task.Clone()
	return &clone
}

func (s *Subtask) Snapshot() Entity {
	return s.Clone()
}

// Epic is a task whose status and time window are derived aggregates of its
// subtasks. It holds subtask ids only; the store owns the subtask instances.
type Epic struct {
	Task
	SubtaskIDs []int `json:"subtaskIds"`
	// End caches the aggregated end time, which is independent of the base
	// startTime+duration computation.
	End *time.Time `json:"endTime,omitempty"`
}

// NewEpic builds an unstored epic with no subtasks. Status and time fields are
// owned by the store's aggregation and start out empty.
func NewEpic(name, description string) *Epic {
	e := &Epic{Task: *NewTask(name, description, StatusNew, nil, 0)}
	e.Type = TypeEpic
	return e
}

func (e *Epic) EntityType() EntityType {
	return TypeEpic
}

// EndTime returns the aggregated end of the epic's subtasks, shadowing the
// base computation.
func (e *Epic) EndTime() *time.Time {
	return e.End
}

func (e *Epic) EndAt() *time.Time {
	return e.End
}

func (e *Epic) Clone() *Epic {
	clone := *e
	clone.Task = *e.Task.Clone()
	if e.SubtaskIDs != nil {
		clone.SubtaskIDs = append([]int(nil), e.SubtaskIDs...)
	}
	if e.End != nil {
		end := *e.End
		clone.End = &end
	}
	return &clone
}

func (e *Epic) Snapshot() Entity {
	return e.Clone()
}
