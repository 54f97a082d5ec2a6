package escseq

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// chanInvoker hands every function to the test goroutine.
type chanInvoker chan func()

func (c chanInvoker) Invoke(fn func()) {
	c <- fn
}

func TestTimerSchedulerAfter(t *testing.T) {
	inv := make(chanInvoker, 1)
	done := make(chan struct{})
	defer close(done)

	s := NewScheduler(inv, done)
	var ran bool
	s.After(10*time.Millisecond, func() { ran = true })

	select {
	case fn := <-inv:
		fn()
	case <-time.After(5 * time.Second):
		require.Fail(t, "After callback was never invoked")
	}
	require.True(t, ran)
}

func TestTimerSchedulerEvery(t *testing.T) {
	inv := make(chanInvoker, 1)
	done := make(chan struct{})
	defer close(done)

	s := NewScheduler(inv, done)
	var n int
	s.Every(5*time.Millisecond, func() bool { return n < 3 }, func() { n++ })

	timeout := time.After(5 * time.Second)
	for n < 3 {
		select {
		case fn := <-inv:
			fn()
		case <-timeout:
			require.Fail(t, "Every callback did not run three times")
		}
	}

	// the next tick sees cond == false and ends the schedule
	select {
	case fn := <-inv:
		fn()
	case <-timeout:
		require.Fail(t, "Every did not check its condition again")
	}
	require.Equal(t, 3, n)

	// a tick already queued before the schedule ended must not run fn
	time.Sleep(30 * time.Millisecond)
	for drained := false; !drained; {
		select {
		case fn := <-inv:
			fn()
		default:
			drained = true
		}
	}
	require.Equal(t, 3, n)
}

func TestTimerSchedulerDone(t *testing.T) {
	var invoked int32
	inv := invokerFunc(func(fn func()) {
		atomic.AddInt32(&invoked, 1)
	})
	done := make(chan struct{})
	s := NewScheduler(inv, done)

	s.After(20*time.Millisecond, func() {})
	s.Every(20*time.Millisecond, func() bool { return true }, func() {})
	close(done)

	time.Sleep(60 * time.Millisecond)
	require.Equal(t, int32(0), atomic.LoadInt32(&invoked), "nothing runs once done is closed")
}

type invokerFunc func(func())

func (f invokerFunc) Invoke(fn func()) {
	f(fn)
}
