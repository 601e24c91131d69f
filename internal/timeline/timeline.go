// Package timeline provides cancellable scheduled tasks on a single logical event loop.
package timeline

import (
	"sort"
	"time"
)

// Task is a scheduled callback. The zero value is not usable.
type Task struct {
	id       uint64
	due      time.Time
	fn       func()
	tl       *Timeline
	canceled bool
	fired    bool
}

// ID returns the task identifier.
func (t *Task) ID() uint64 {
	return t.id
}

// Cancel prevents the task from running. Canceling twice, or after it ran, is a no-op.
func (t *Task) Cancel() {
	if t == nil || t.canceled || t.fired {
		return
	}
	t.canceled = true
	delete(t.tl.tasks, t.id)
}

// Live reports whether the task is still pending.
func (t *Task) Live() bool {
	return t != nil && !t.canceled && !t.fired
}

// Scheduled describes a newly scheduled task for a driver that delivers it later.
type Scheduled struct {
	ID    uint64
	Delay time.Duration
}

// Timeline keeps pending tasks keyed by id. Callbacks only ever run from Fire
// or Virtual.Advance, on the caller's goroutine.
type Timeline struct {
	now     func() time.Time
	nextID  uint64
	tasks   map[uint64]*Task
	pending []Scheduled
}

// New returns a Timeline that reads the current time from now.
func New(now func() time.Time) *Timeline {
	if now == nil {
		now = time.Now
	}
	return &Timeline{now: now, tasks: map[uint64]*Task{}}
}

// Now returns the timeline's current time.
func (tl *Timeline) Now() time.Time {
	return tl.now()
}

// After schedules fn to run d after Now.
func (tl *Timeline) After(d time.Duration, fn func()) *Task {
	if d < 0 {
		d = 0
	}
	tl.nextID++
	task := &Task{
		id:  tl.nextID,
		due: tl.now().Add(d),
		fn:  fn,
		tl:  tl,
	}
	tl.tasks[task.id] = task
	tl.pending = append(tl.pending, Scheduled{ID: task.id, Delay: d})
	return task
}

// Fire runs the task with the given id if it is still pending.
func (tl *Timeline) Fire(id uint64) bool {
	task, ok := tl.tasks[id]
	if !ok {
		return false
	}
	delete(tl.tasks, id)
	task.fired = true
	task.fn()
	return true
}

// Drain returns tasks scheduled since the previous call.
func (tl *Timeline) Drain() []Scheduled {
	if len(tl.pending) == 0 {
		return nil
	}
	out := tl.pending
	tl.pending = nil
	return out
}

// Len returns the number of pending tasks.
func (tl *Timeline) Len() int {
	return len(tl.tasks)
}

// next returns the earliest pending task due at or before limit.
// Ties go to the task scheduled first.
func (tl *Timeline) next(limit time.Time) *Task {
	var best *Task
	for _, task := range tl.tasks {
		if task.due.After(limit) {
			continue
		}
		if best == nil || task.due.Before(best.due) || (task.due.Equal(best.due) && task.id < best.id) {
			best = task
		}
	}
	return best
}

// Virtual is a Timeline driven by a manual clock.
type Virtual struct {
	*Timeline
	current time.Time
}

// NewVirtual returns a manual timeline starting at start.
func NewVirtual(start time.Time) *Virtual {
	v := &Virtual{current: start}
	v.Timeline = New(func() time.Time { return v.current })
	return v
}

// Advance moves the clock forward by d, running every task that falls due in
// order. Tasks scheduled by callbacks run in the same call when due.
func (v *Virtual) Advance(d time.Duration) {
	target := v.current.Add(d)
	for {
		task := v.next(target)
		if task == nil {
			break
		}
		if task.due.After(v.current) {
			v.current = task.due
		}
		v.Fire(task.id)
	}
	v.current = target
	v.pending = nil
}

// RunUntilIdle advances until no tasks are pending or budget elapses.
// It returns the simulated time consumed.
func (v *Virtual) RunUntilIdle(budget time.Duration) time.Duration {
	start := v.current
	limit := start.Add(budget)
	for {
		task := v.next(limit)
		if task == nil {
			break
		}
		if task.due.After(v.current) {
			v.current = task.due
		}
		v.Fire(task.id)
	}
	v.pending = nil
	return v.current.Sub(start)
}

// PendingIDs returns pending task ids in due order. Intended for diagnostics.
func (tl *Timeline) PendingIDs() []uint64 {
	tasks := make([]*Task, 0, len(tl.tasks))
	for _, task := range tl.tasks {
		tasks = append(tasks, task)
	}
	sort.Slice(tasks, func(i, j int) bool {
		if tasks[i].due.Equal(tasks[j].due) {
			return tasks[i].id < tasks[j].id
		}
		return tasks[i].due.Before(tasks[j].due)
	})
	ids := make([]uint64, len(tasks))
	for i, task := range tasks {
		ids[i] = task.id
	}
	return ids
}
