package mock

import (
	"sort"
	"time"
)

type task struct {
	seq      int
	at       time.Duration
	interval time.Duration
	cond     func() bool
	fn       func()
}

// Scheduler is a manual clock. Nothing runs until Advance is called,
// and then every task that falls due runs on the caller's goroutine in
// due-time order.
type Scheduler struct {
	*Interceptor
	now   time.Duration
	seq   int
	tasks []*task
}

func NewScheduler() *Scheduler {
	return &Scheduler{Interceptor: NewInterceptor()}
}

func (s *Scheduler) After(d time.Duration, fn func()) {
	s.Record("After", d)
	s.add(&task{at: s.now + d, fn: fn})
}

func (s *Scheduler) Every(d time.Duration, cond func() bool, fn func()) {
	s.Record("Every", d)
	s.add(&task{at: s.now + d, interval: d, cond: cond, fn: fn})
}

// Invoke runs fn immediately.
func (s *Scheduler) Invoke(fn func()) {
	s.Record("Invoke")
	fn()
}

func (s *Scheduler) add(t *task) {
	s.seq++
	t.seq = s.seq
	s.tasks = append(s.tasks, t)
}

// Pending returns the number of tasks that have not finished.
func (s *Scheduler) Pending() int {
	return len(s.tasks)
}

// Now returns the time elapsed on the manual clock.
func (s *Scheduler) Now() time.Duration {
	return s.now
}

// Advance moves the clock forward by d, running due tasks.
func (s *Scheduler) Advance(d time.Duration) {
	until := s.now + d
	for {
		t := s.next(until)
		if t == nil {
			break
		}
		s.now = t.at

		if t.interval == 0 {
			s.remove(t)
			t.fn()
			continue
		}

		if !t.cond() {
			s.remove(t)
			continue
		}
		t.at += t.interval
		t.fn()
	}
	s.now = until
}

func (s *Scheduler) next(until time.Duration) *task {
	if len(s.tasks) == 0 {
		return nil
	}
	sort.SliceStable(s.tasks, func(i, j int) bool {
		if s.tasks[i].at != s.tasks[j].at {
			return s.tasks[i].at < s.tasks[j].at
		}
		return s.tasks[i].seq < s.tasks[j].seq
	})
	if s.tasks[0].at > until {
		return nil
	}
	return s.tasks[0]
}

func (s *Scheduler) remove(t *task) {
	for i, v := range s.tasks {
		if v == t {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			return
		}
	}
}
