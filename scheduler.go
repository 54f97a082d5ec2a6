package escseq

import "time"

// Scheduler defers work onto the goroutine that drives the Decoder.
// Callbacks must never run concurrently with Decode.
type Scheduler interface {
	// After runs fn once, d from now.
	After(d time.Duration, fn func())
	// Every runs fn every d for as long as cond returns true. cond is
	// checked before each run; the first false stops the schedule.
	Every(d time.Duration, cond func() bool, fn func())
}

// Invoker runs a function on the goroutine that drives the Decoder.
type Invoker interface {
	Invoke(fn func())
}

// Timings controls the classifier's timing windows.
type Timings struct {
	// ClickInterval is how long a click or double click stays eligible
	// for escalation to a double or triple click.
	ClickInterval time.Duration
	// ContinuousPressInterval is the cadence of continuous-press
	// notifications while a button is held.
	ContinuousPressInterval time.Duration
}

// DefaultTimings are the timings used when none are configured.
var DefaultTimings = Timings{
	ClickInterval:           300 * time.Millisecond,
	ContinuousPressInterval: 100 * time.Millisecond,
}

// NewScheduler returns a Scheduler that keeps time with the runtime's
// timers and hands every callback to inv, so callbacks run wherever inv
// runs them. Pending timers are abandoned once done is closed.
func NewScheduler(inv Invoker, done <-chan struct{}) Scheduler {
	return &timerScheduler{
		invoker: inv,
		done:    done,
	}
}

type timerScheduler struct {
	invoker Invoker
	done    <-chan struct{}
}

func (s *timerScheduler) After(d time.Duration, fn func()) {
	time.AfterFunc(d, func() {
		select {
		case <-s.done:
			return
		default:
		}
		s.invoker.Invoke(fn)
	})
}

func (s *timerScheduler) Every(d time.Duration, cond func() bool, fn func()) {
	stopCh := make(chan struct{})
	go func() {
		ticker := time.NewTicker(d)
		defer ticker.Stop()

		for {
			select {
			case <-s.done:
				return
			case <-stopCh:
				return
			case <-ticker.C:
				s.invoker.Invoke(func() {
					select {
					case <-stopCh:
						return
					default:
					}
					if !cond() {
						close(stopCh)
						return
					}
					fn()
				})
			}
		}
	}()
}
