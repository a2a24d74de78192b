package history

import (
	"go.uber.org/zap"

	"task-tracker-api/internal/models"
)

// node is one element of the recency list.
type node struct {
	snapshot models.Entity
	prev     *node
	next     *node
}

// Tracker keeps the ordered set of most recently viewed entities, oldest
// first. Each id appears at most once; re-viewing an entity moves it to the
// most-recent end. Entries are deep-copied snapshots, so later mutation of
// the live entity never changes what the tracker recorded.
//
// A doubly linked list plus an id index gives O(1) add, remove and de-dup.
type Tracker struct {
	maxSize int
	log     *zap.SugaredLogger
	nodes   map[int]*node
	head    *node
	tail    *node
}

// New builds a tracker. maxSize <= 0 means unbounded; a positive value evicts
// the oldest entry once the tracker is full.
func New(maxSize int, log *zap.SugaredLogger) *Tracker {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Tracker{
		maxSize: maxSize,
		log:     log,
		nodes:   make(map[int]*node),
	}
}

// Add records a view of the given entity at the most-recent position. A nil
// entity is reported and ignored.
func (t *Tracker) Add(e models.Entity) {
	if e == nil {
		t.log.Warn("history: ignoring nil entity")
		return
	}
	if _, ok := t.nodes[e.TaskID()]; ok {
		t.Remove(e.TaskID())
	}
	n := &node{snapshot: e.Snapshot()}
	t.linkLast(n)
	t.nodes[e.TaskID()] = n
	if t.maxSize > 0 && len(t.nodes) > t.maxSize {
		t.Remove(t.head.snapshot.TaskID())
	}
}

// Remove drops the entry for id if present.
func (t *Tracker) Remove(id int) {
	n, ok := t.nodes[id]
	if !ok {
		return
	}
	t.unlink(n)
	delete(t.nodes, id)
}

// Entries returns the recorded snapshots oldest to most recent. The returned
// entities are fresh copies; callers cannot mutate tracker state through them.
func (t *Tracker) Entries() []models.Entity {
	entries := make([]models.Entity, 0, len(t.nodes))
	for n := t.head; n != nil; n = n.next {
		entries = append(entries, n.snapshot.Snapshot())
	}
	return entries
}

// Len reports the number of recorded entries.
func (t *Tracker) Len() int {
	return len(t.nodes)
}

func (t *Tracker) linkLast(n *node) {
	if t.head == nil {
		t.head = n
	} else {
		t.tail.next = n
		n.prev = t.tail
	}
	t.tail = n
}

func (t *Tracker) unlink(n *node) {
	if n.prev == nil {
		t.head = n.next
	} else {
		n.prev.next = n.next
	}
	if n.next == nil {
		t.tail = n.prev
	} else {
		n.next.prev = n.prev
	}
}
