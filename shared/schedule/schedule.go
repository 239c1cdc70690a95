// Package schedule runs delayed actions on the game tick. Each task is keyed
// by what it does and who it belongs to, so a new task replaces an older one
// with the same key and an owner's tasks can be cancelled together.
package schedule

import (
	"sort"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Kind names what a task does.
type Kind int

const (
	Reload Kind = iota
	Respawn
)

func (k Kind) String() string {
	switch k {
	case Reload:
		return "reload"
	case Respawn:
		return "respawn"
	default:
		return "unknown"
	}
}

// Key identifies a task.
type Key struct {
	Kind  Kind
	Owner string
}

type task struct {
	seq      uint64
	tween    *gween.Tween
	progress float32
	fn       func()
}

// Scheduler holds pending tasks. It is not safe for concurrent use; it is
// advanced from the game tick only.
type Scheduler struct {
	tasks map[Key]*task
	seq   uint64
}

func New() *Scheduler {
	return &Scheduler{tasks: make(map[Key]*task)}
}

// Schedule runs fn once after delay seconds of Update time. An existing task
// with the same key is dropped without running.
func (s *Scheduler) Schedule(key Key, delay float64, fn func()) {
	s.seq++
	s.tasks[key] = &task{
		seq:   s.seq,
		tween: gween.New(0, 1, float32(delay), ease.Linear),
		fn:    fn,
	}
}

// Cancel drops the task for key. It reports whether one was pending.
func (s *Scheduler) Cancel(key Key) bool {
	if _, ok := s.tasks[key]; !ok {
		return false
	}
	delete(s.tasks, key)
	return true
}

// CancelOwner drops every task belonging to owner.
func (s *Scheduler) CancelOwner(owner string) {
	for key := range s.tasks {
		if key.Owner == owner {
			delete(s.tasks, key)
		}
	}
}

// Clear drops every task.
func (s *Scheduler) Clear() {
	clear(s.tasks)
}

// Pending reports whether a task is scheduled for key.
func (s *Scheduler) Pending(key Key) bool {
	_, ok := s.tasks[key]
	return ok
}

// Progress returns how far the task for key has run, from 0 to 1, and
// whether it exists.
func (s *Scheduler) Progress(key Key) (float64, bool) {
	t, ok := s.tasks[key]
	if !ok {
		return 0, false
	}
	return float64(t.progress), true
}

// Len returns the number of pending tasks.
func (s *Scheduler) Len() int {
	return len(s.tasks)
}

// Update advances every task by dt seconds and runs those that finish, in the
// order they were scheduled. Callbacks may schedule or cancel tasks; a task
// cancelled or replaced by an earlier callback in the same update does not run.
func (s *Scheduler) Update(dt float64) {
	if len(s.tasks) == 0 {
		return
	}

	type entry struct {
		key Key
		t   *task
	}
	order := make([]entry, 0, len(s.tasks))
	for key, t := range s.tasks {
		order = append(order, entry{key, t})
	}
	sort.Slice(order, func(i, j int) bool { return order[i].t.seq < order[j].t.seq })

	for _, e := range order {
		if s.tasks[e.key] != e.t {
			continue
		}
		current, finished := e.t.tween.Update(float32(dt))
		e.t.progress = current
		if !finished {
			continue
		}
		delete(s.tasks, e.key)
		e.t.fn()
	}
}
