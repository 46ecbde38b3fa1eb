package shell

import (
	"sync"
	"time"
)

// Scheduler runs a task once after a delay. Scheduled tasks are never
// cancelled.
type Scheduler interface {
	AfterFunc(delay time.Duration, task func())
}

// SchedulerFunc adapts a function to the Scheduler interface
type SchedulerFunc func(delay time.Duration, task func())

func (f SchedulerFunc) AfterFunc(delay time.Duration, task func()) {
	f(delay, task)
}

// TimerScheduler runs tasks on their own goroutine via time.AfterFunc.
// The shell is not synchronised, so callers sharing a shell across
// goroutines should wrap it with their own lock instead.
var TimerScheduler = SchedulerFunc(func(delay time.Duration, task func()) {
	time.AfterFunc(delay, task)
})

type queuedTask struct {
	delay time.Duration
	task  func()
}

// Queue is a manual Scheduler. Tasks wait until the owner runs them,
// which lets an event loop decide when deferred output lands.
type Queue struct {
	mu    sync.Mutex
	tasks []queuedTask
}

func (q *Queue) AfterFunc(delay time.Duration, task func()) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.tasks = append(q.tasks, queuedTask{delay: delay, task: task})
}

// Len returns the number of pending tasks
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}

// Next returns the delay of the oldest pending task
func (q *Queue) Next() (time.Duration, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.tasks) == 0 {
		return 0, false
	}
	return q.tasks[0].delay, true
}

// RunNext runs the oldest pending task and reports whether there was one
func (q *Queue) RunNext() bool {
	q.mu.Lock()
	if len(q.tasks) == 0 {
		q.mu.Unlock()
		return false
	}
	next := q.tasks[0]
	q.tasks = q.tasks[1:]
	q.mu.Unlock()

	next.task()
	return true
}

// RunAll runs pending tasks until the queue is empty, including tasks
// scheduled by the ones it runs. It returns how many ran.
func (q *Queue) RunAll() int {
	n := 0
	for q.RunNext() {
		n++
	}
	return n
}
