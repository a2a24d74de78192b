package manager

import (
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"task-tracker-api/internal/history"
	"task-tracker-api/internal/models"
)

// Service is the full operation surface of the task store. The in-memory
// store implements it directly; the write-through persistent store in the
// storage package wraps it.
type Service interface {
	AddTask(t *models.Task) (int, error)
	TaskByID(id int) (*models.Task, error)
	UpdateTask(t *models.Task) error
	DeleteTask(id int) error
	DeleteAllTasks() error
	Tasks() []*models.Task

	AddSubtask(st *models.Subtask) (int, error)
	SubtaskByID(id int) (*models.Subtask, error)
	UpdateSubtask(st *models.Subtask) error
	DeleteSubtask(id int) error
	DeleteAllSubtasks() error
	Subtasks() []*models.Subtask
	SubtasksByEpic(epicID int) []*models.Subtask

	AddEpic(e *models.Epic) (int, error)
	EpicByID(id int) (*models.Epic, error)
	UpdateEpic(e *models.Epic) error
	DeleteEpic(id int) error
	DeleteAllEpics() error
	Epics() []*models.Epic

	Prioritized() []models.Entity
	History() []models.Entity
}

// Options configures a store.
type Options struct {
	// HistorySize bounds the view history; <= 0 means unbounded.
	HistorySize int
	Logger      *zap.SugaredLogger
}

// InMemory is the authoritative owner of all tasks, subtasks and epics. It is
// designed for exclusive single-threaded access; callers exposing it over a
// network must serialize operations themselves.
type InMemory struct {
	nextID      int
	tasks       map[int]*models.Task
	subtasks    map[int]*models.Subtask
	epics       map[int]*models.Epic
	history     *history.Tracker
	prioritized []models.Entity
	log         *zap.SugaredLogger
}

var _ Service = (*InMemory)(nil)

// New builds an empty store.
func New(opts Options) *InMemory {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &InMemory{
		tasks:    make(map[int]*models.Task),
		subtasks: make(map[int]*models.Subtask),
		epics:    make(map[int]*models.Epic),
		history:  history.New(opts.HistorySize, log),
		log:      log,
	}
}

// AddTask stores a new task under a freshly generated id. Any caller-supplied
// id is overwritten. Scheduled tasks that overlap an existing scheduled entity
// are rejected and the store is left unchanged.
func (m *InMemory) AddTask(t *models.Task) (int, error) {
	if m.hasConflict(t, 0) {
		return 0, fmt.Errorf("task %q: %w", t.Name, ErrTimeConflict)
	}
	t.ID = m.generateID()
	t.Type = models.TypeTask
	if t.Status == "" {
		t.Status = models.StatusNew
	}
	m.tasks[t.ID] = t
	m.addToPrioritized(t)
	return t.ID, nil
}

// TaskByID returns the live task and records a view snapshot in history.
func (m *InMemory) TaskByID(id int) (*models.Task, error) {
	t, ok := m.tasks[id]
	if !ok {
		return nil, fmt.Errorf("task %d: %w", id, ErrNotFound)
	}
	m.history.Add(t)
	return t, nil
}

// UpdateTask replaces the stored task with the same id.
func (m *InMemory) UpdateTask(t *models.Task) error {
	if _, ok := m.tasks[t.ID]; !ok {
		return fmt.Errorf("task %d: %w", t.ID, ErrNotFound)
	}
	if m.hasConflict(t, t.ID) {
		return fmt.Errorf("task %d: %w", t.ID, ErrTimeConflict)
	}
	t.Type = models.TypeTask
	if t.Status == "" {
		t.Status = models.StatusNew
	}
	m.removeFromPrioritized(t.ID)
	m.tasks[t.ID] = t
	m.addToPrioritized(t)
	return nil
}

// DeleteTask removes the task from the store and the prioritized view.
// History snapshots of the task survive; they record the past, not the
// current store contents.
func (m *InMemory) DeleteTask(id int) error {
	if _, ok := m.tasks[id]; !ok {
		return fmt.Errorf("task %d: %w", id, ErrNotFound)
	}
	m.removeFromPrioritized(id)
	delete(m.tasks, id)
	return nil
}

// DeleteAllTasks clears the task collection.
func (m *InMemory) DeleteAllTasks() error {
	for id := range m.tasks {
		m.removeFromPrioritized(id)
	}
	m.tasks = make(map[int]*models.Task)
	return nil
}

// Tasks returns all tasks in ascending id order.
func (m *InMemory) Tasks() []*models.Task {
	out := make([]*models.Task, 0, len(m.tasks))
	for _, id := range sortedKeys(m.tasks) {
		out = append(out, m.tasks[id])
	}
	return out
}

// AddSubtask stores a new subtask under a freshly generated id, links it to
// its epic and recomputes the epic's aggregates. The epic reference must name
// an existing epic and can never equal the subtask's own id.
func (m *InMemory) AddSubtask(st *models.Subtask) (int, error) {
	if st.EpicID == m.nextID+1 {
		return 0, fmt.Errorf("subtask cannot be its own epic: %w", ErrInvalidReference)
	}
	if _, ok := m.epics[st.EpicID]; !ok {
		return 0, fmt.Errorf("epic %d: %w", st.EpicID, ErrInvalidReference)
	}
	if m.hasConflict(st, 0) {
		return 0, fmt.Errorf("subtask %q: %w", st.Name, ErrTimeConflict)
	}
	st.ID = m.generateID()
	st.Type = models.TypeSubtask
	if st.Status == "" {
		st.Status = models.StatusNew
	}
	m.subtasks[st.ID] = st
	m.addToPrioritized(st)
	epic := m.epics[st.EpicID]
	epic.SubtaskIDs = append(epic.SubtaskIDs, st.ID)
	m.recomputeEpic(epic)
	return st.ID, nil
}

// SubtaskByID returns the live subtask and records a view snapshot in history.
func (m *InMemory) SubtaskByID(id int) (*models.Subtask, error) {
	st, ok := m.subtasks[id]
	if !ok {
		return nil, fmt.Errorf("subtask %d: %w", id, ErrNotFound)
	}
	m.history.Add(st)
	return st, nil
}

// UpdateSubtask replaces the stored subtask with the same id, relinking epics
// when the epic reference changed, and recomputes the affected epics.
func (m *InMemory) UpdateSubtask(st *models.Subtask) error {
	existing, ok := m.subtasks[st.ID]
	if !ok {
		return fmt.Errorf("subtask %d: %w", st.ID, ErrNotFound)
	}
	if st.EpicID == st.ID {
		return fmt.Errorf("subtask cannot be its own epic: %w", ErrInvalidReference)
	}
	if _, ok := m.epics[st.EpicID]; !ok {
		return fmt.Errorf("epic %d: %w", st.EpicID, ErrInvalidReference)
	}
	if m.hasConflict(st, st.ID) {
		return fmt.Errorf("subtask %d: %w", st.ID, ErrTimeConflict)
	}
	st.Type = models.TypeSubtask
	if st.Status == "" {
		st.Status = models.StatusNew
	}
	m.removeFromPrioritized(st.ID)
	m.subtasks[st.ID] = st
	m.addToPrioritized(st)
	if existing.EpicID != st.EpicID {
		if old, ok := m.epics[existing.EpicID]; ok {
			old.SubtaskIDs = removeID(old.SubtaskIDs, st.ID)
			m.recomputeEpic(old)
		}
		epic := m.epics[st.EpicID]
		epic.SubtaskIDs = append(epic.SubtaskIDs, st.ID)
		m.recomputeEpic(epic)
	} else {
		m.recomputeEpic(m.epics[st.EpicID])
	}
	return nil
}

// DeleteSubtask removes the subtask, unlinks it from its epic and recomputes
// the epic's aggregates.
func (m *InMemory) DeleteSubtask(id int) error {
	st, ok := m.subtasks[id]
	if !ok {
		return fmt.Errorf("subtask %d: %w", id, ErrNotFound)
	}
	m.removeFromPrioritized(id)
	delete(m.subtasks, id)
	if epic, ok := m.epics[st.EpicID]; ok {
		epic.SubtaskIDs = removeID(epic.SubtaskIDs, id)
		m.recomputeEpic(epic)
	}
	return nil
}

// DeleteAllSubtasks clears the subtask collection and resets every epic's
// aggregates.
func (m *InMemory) DeleteAllSubtasks() error {
	for id := range m.subtasks {
		m.removeFromPrioritized(id)
	}
	m.subtasks = make(map[int]*models.Subtask)
	for _, epic := range m.epics {
		epic.SubtaskIDs = nil
		m.recomputeEpic(epic)
	}
	return nil
}

// Subtasks returns all subtasks in ascending id order.
func (m *InMemory) Subtasks() []*models.Subtask {
	out := make([]*models.Subtask, 0, len(m.subtasks))
	for _, id := range sortedKeys(m.subtasks) {
		out = append(out, m.subtasks[id])
	}
	return out
}

// SubtasksByEpic returns the epic's subtasks in linkage order. An unknown
// epic id yields an empty result; this is a query, not a mutation.
func (m *InMemory) SubtasksByEpic(epicID int) []*models.Subtask {
	epic, ok := m.epics[epicID]
	if !ok {
		return []*models.Subtask{}
	}
	out := make([]*models.Subtask, 0, len(epic.SubtaskIDs))
	for _, id := range epic.SubtaskIDs {
		if st, ok := m.subtasks[id]; ok {
			out = append(out, st)
		}
	}
	return out
}

// AddEpic stores a new epic under a freshly generated id. Caller-supplied
// subtask links, status and time fields are discarded; they are derived state.
func (m *InMemory) AddEpic(e *models.Epic) (int, error) {
	e.ID = m.generateID()
	e.Type = models.TypeEpic
	e.SubtaskIDs = nil
	m.recomputeEpic(e)
	m.epics[e.ID] = e
	return e.ID, nil
}

// EpicByID returns the live epic and records a view snapshot in history.
func (m *InMemory) EpicByID(id int) (*models.Epic, error) {
	e, ok := m.epics[id]
	if !ok {
		return nil, fmt.Errorf("epic %d: %w", id, ErrNotFound)
	}
	m.history.Add(e)
	return e, nil
}

// UpdateEpic replaces the epic's own fields (name, description). Subtask
// linkage is preserved and status/time fields are recomputed from current
// subtasks regardless of what the caller supplied.
func (m *InMemory) UpdateEpic(e *models.Epic) error {
	existing, ok := m.epics[e.ID]
	if !ok {
		return fmt.Errorf("epic %d: %w", e.ID, ErrNotFound)
	}
	e.Type = models.TypeEpic
	e.SubtaskIDs = append([]int(nil), existing.SubtaskIDs...)
	m.epics[e.ID] = e
	m.recomputeEpic(e)
	return nil
}

// DeleteEpic cascade-deletes the epic's subtasks, then the epic itself.
func (m *InMemory) DeleteEpic(id int) error {
	epic, ok := m.epics[id]
	if !ok {
		return fmt.Errorf("epic %d: %w", id, ErrNotFound)
	}
	for _, subID := range epic.SubtaskIDs {
		m.removeFromPrioritized(subID)
		delete(m.subtasks, subID)
	}
	delete(m.epics, id)
	return nil
}

// DeleteAllEpics clears the epic collection, cascading to all subtasks first.
func (m *InMemory) DeleteAllEpics() error {
	if err := m.DeleteAllSubtasks(); err != nil {
		return err
	}
	m.epics = make(map[int]*models.Epic)
	return nil
}

// Epics returns all epics in ascending id order.
func (m *InMemory) Epics() []*models.Epic {
	out := make([]*models.Epic, 0, len(m.epics))
	for _, id := range sortedKeys(m.epics) {
		out = append(out, m.epics[id])
	}
	return out
}

// Prioritized returns all scheduled tasks and subtasks ordered by start time,
// with id as tie-break. Entities without a start time are excluded.
func (m *InMemory) Prioritized() []models.Entity {
	out := make([]models.Entity, len(m.prioritized))
	copy(out, m.prioritized)
	return out
}

// History returns the view history, oldest first.
func (m *InMemory) History() []models.Entity {
	return m.history.Entries()
}

// RemoveFromHistory drops the history entry for id, for callers that want
// deletions to purge history as well. The store itself never calls it:
// history entries are snapshots of the past and survive entity deletion.
func (m *InMemory) RemoveFromHistory(id int) {
	m.history.Remove(id)
}

// RestoreTask inserts a task preserving its id. It is the bulk-load entry
// point for persistence adapters and runs the same overlap validation as
// AddTask.
func (m *InMemory) RestoreTask(t *models.Task) error {
	if err := m.restorable(t.ID); err != nil {
		return fmt.Errorf("restore task: %w", err)
	}
	if m.hasConflict(t, 0) {
		return fmt.Errorf("restore task %d: %w", t.ID, ErrTimeConflict)
	}
	t.Type = models.TypeTask
	if t.Status == "" {
		t.Status = models.StatusNew
	}
	m.tasks[t.ID] = t
	m.addToPrioritized(t)
	m.bumpNextID(t.ID)
	return nil
}

// RestoreSubtask inserts a subtask preserving its id. The owning epic must
// already be restored.
func (m *InMemory) RestoreSubtask(st *models.Subtask) error {
	if err := m.restorable(st.ID); err != nil {
		return fmt.Errorf("restore subtask: %w", err)
	}
	if st.EpicID == st.ID {
		return fmt.Errorf("restore subtask %d: subtask cannot be its own epic: %w", st.ID, ErrInvalidReference)
	}
	if _, ok := m.epics[st.EpicID]; !ok {
		return fmt.Errorf("restore subtask %d: epic %d: %w", st.ID, st.EpicID, ErrInvalidReference)
	}
	if m.hasConflict(st, 0) {
		return fmt.Errorf("restore subtask %d: %w", st.ID, ErrTimeConflict)
	}
	st.Type = models.TypeSubtask
	if st.Status == "" {
		st.Status = models.StatusNew
	}
	m.subtasks[st.ID] = st
	m.addToPrioritized(st)
	epic := m.epics[st.EpicID]
	epic.SubtaskIDs = append(epic.SubtaskIDs, st.ID)
	m.recomputeEpic(epic)
	m.bumpNextID(st.ID)
	return nil
}

// RestoreEpic inserts an epic preserving its id. Subtask linkage is rebuilt
// by the subsequent RestoreSubtask calls.
func (m *InMemory) RestoreEpic(e *models.Epic) error {
	if err := m.restorable(e.ID); err != nil {
		return fmt.Errorf("restore epic: %w", err)
	}
	e.Type = models.TypeEpic
	e.SubtaskIDs = nil
	m.recomputeEpic(e)
	m.epics[e.ID] = e
	m.bumpNextID(e.ID)
	return nil
}

func (m *InMemory) restorable(id int) error {
	if id <= 0 {
		return fmt.Errorf("id %d must be positive: %w", id, ErrInvalidReference)
	}
	if m.known(id) {
		return fmt.Errorf("id %d already present: %w", id, ErrInvalidReference)
	}
	return nil
}

func (m *InMemory) known(id int) bool {
	if _, ok := m.tasks[id]; ok {
		return true
	}
	if _, ok := m.subtasks[id]; ok {
		return true
	}
	_, ok := m.epics[id]
	return ok
}

func (m *InMemory) generateID() int {
	m.nextID++
	return m.nextID
}

func (m *InMemory) bumpNextID(id int) {
	if id > m.nextID {
		m.nextID = id
	}
}

// recomputeEpic rederives the epic's status, start time, end time and
// duration from its current subtasks.
func (m *InMemory) recomputeEpic(e *models.Epic) {
	subs := make([]*models.Subtask, 0, len(e.SubtaskIDs))
	for _, id := range e.SubtaskIDs {
		if st, ok := m.subtasks[id]; ok {
			subs = append(subs, st)
		}
	}

	e.Status = aggregateStatus(subs)

	var start, end *time.Time
	for _, st := range subs {
		if s := st.StartTime; s != nil && (start == nil || s.Before(*start)) {
			v := *s
			start = &v
		}
		if en := st.EndTime(); en != nil && (end == nil || en.After(*end)) {
			end = en
		}
	}
	e.StartTime = start
	e.End = end
	if start != nil && end != nil {
		e.Duration = models.Duration(end.Sub(*start))
	} else {
		e.Duration = 0
	}
}

func aggregateStatus(subs []*models.Subtask) models.Status {
	if len(subs) == 0 {
		return models.StatusNew
	}
	allNew, allDone := true, true
	for _, st := range subs {
		if st.Status != models.StatusNew {
			allNew = false
		}
		if st.Status != models.StatusDone {
			allDone = false
		}
	}
	switch {
	case allNew:
		return models.StatusNew
	case allDone:
		return models.StatusDone
	default:
		return models.StatusInProgress
	}
}

func (m *InMemory) addToPrioritized(e models.Entity) {
	if e.StartAt() == nil {
		return
	}
	i := sort.Search(len(m.prioritized), func(i int) bool {
		return !scheduledBefore(m.prioritized[i], e)
	})
	m.prioritized = append(m.prioritized, nil)
	copy(m.prioritized[i+1:], m.prioritized[i:])
	m.prioritized[i] = e
}

func (m *InMemory) removeFromPrioritized(id int) {
	for i, e := range m.prioritized {
		if e.TaskID() == id {
			m.prioritized = append(m.prioritized[:i], m.prioritized[i+1:]...)
			return
		}
	}
}

// hasConflict reports whether e's scheduled interval overlaps any prioritized
// entity other than excludeID. Two intervals overlap iff each starts before
// the other ends; touching intervals do not conflict.
func (m *InMemory) hasConflict(e models.Entity, excludeID int) bool {
	if e.StartAt() == nil {
		return false
	}
	for _, p := range m.prioritized {
		if p.TaskID() == excludeID {
			continue
		}
		if intervalsOverlap(e, p) {
			m.log.Debugw("schedule conflict", "id", e.TaskID(), "with", p.TaskID())
			return true
		}
	}
	return false
}

func intervalsOverlap(a, b models.Entity) bool {
	if a.StartAt() == nil || b.StartAt() == nil {
		return false
	}
	return a.StartAt().Before(*b.EndAt()) && b.StartAt().Before(*a.EndAt())
}

func scheduledBefore(a, b models.Entity) bool {
	as, bs := a.StartAt(), b.StartAt()
	if as.Equal(*bs) {
		return a.TaskID() < b.TaskID()
	}
	return as.Before(*bs)
}

func removeID(ids []int, id int) []int {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}

func sortedKeys[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
