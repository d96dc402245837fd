package lanerun

import (
	"sort"

	"github.com/charmbracelet/log"
)

// Precondition reports whether a deferred task still applies to s.
type Precondition func(s *GameState) bool

// Task is a deferred state transition.
type Task struct {
	At   float64 // Due time in sim seconds
	Name string
	When Precondition
	Run  func(now float64)
	seq  int
}

// Scheduler runs deferred tasks against the sim clock. Tasks are checked
// against the state they would act on, so a task scheduled for a question
// that has since been replaced or a run that has ended is dropped.
type Scheduler struct {
	tasks  []Task
	seq    int
	logger *log.Logger
}

// NewScheduler creates an empty scheduler.
func NewScheduler(logger *log.Logger) *Scheduler {
	return &Scheduler{logger: logger}
}

// After schedules run at now+delay.
func (sc *Scheduler) After(now, delay float64, name string, when Precondition, run func(now float64)) {
	sc.seq++
	sc.tasks = append(sc.tasks, Task{
		At:   now + delay,
		Name: name,
		When: when,
		Run:  run,
		seq:  sc.seq,
	})
}

// Pending returns the number of queued tasks.
func (sc *Scheduler) Pending() int {
	return len(sc.tasks)
}

// Clear drops every queued task.
func (sc *Scheduler) Clear() {
	sc.tasks = nil
}

// RunDue runs every task due at now, in schedule order. Tasks queued by a
// running task wait for the next call.
func (sc *Scheduler) RunDue(now float64, store *StateStore) (ran, discarded int) {
	var due, later []Task
	for _, t := range sc.tasks {
		if t.At <= now {
			due = append(due, t)
		} else {
			later = append(later, t)
		}
	}
	if len(due) == 0 {
		return 0, 0
	}
	sc.tasks = later

	sort.SliceStable(due, func(i, j int) bool {
		if due[i].At != due[j].At {
			return due[i].At < due[j].At
		}
		return due[i].seq < due[j].seq
	})

	for _, t := range due {
		if t.When != nil {
			snap := store.Snapshot()
			if !t.When(&snap) {
				discarded++
				if sc.logger != nil {
					sc.logger.Debug("deferred task discarded", "task", t.Name, "at", t.At, "now", now)
				}
				continue
			}
		}
		if t.Run != nil {
			t.Run(now)
		}
		ran++
	}
	return ran, discarded
}
