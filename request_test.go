package escseq

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRequestsAddRemove(t *testing.T) {
	r := NewRequests()
	r.Add("c", 3)

	got, ok := r.Lookup("c")
	require.True(t, ok)
	require.Equal(t, PendingRequest{Terminator: "c", Requested: 3, Outstanding: 3}, got)

	for i := 0; i < 3; i++ {
		require.True(t, r.HasResponse("c"), "reply %d should be expected", i)
		r.Remove("c")
	}

	require.False(t, r.HasResponse("c"))
	require.Equal(t, 0, r.Len(), "entry should be gone once everything is consumed")
}

func TestRequestsClamp(t *testing.T) {
	t.Run("existing entry at its cap", func(t *testing.T) {
		r := NewRequests()
		r.Add("t", 2)
		r.Add("t", 5)

		got, ok := r.Lookup("t")
		require.True(t, ok)
		require.Equal(t, 2, got.Requested)
		require.Equal(t, 2, got.Outstanding)
	})

	t.Run("refill after a reply", func(t *testing.T) {
		r := NewRequests()
		r.Add("t", 3)
		r.Remove("t")
		r.Remove("t")
		r.Add("t", 5)

		got, ok := r.Lookup("t")
		require.True(t, ok)
		require.Equal(t, 3, got.Requested)
		require.Equal(t, 3, got.Outstanding)
	})

	t.Run("partial refill", func(t *testing.T) {
		r := NewRequests()
		r.Add("t", 4)
		r.Remove("t")
		r.Remove("t")
		r.Add("t", 1)

		got, ok := r.Lookup("t")
		require.True(t, ok)
		require.Equal(t, 3, got.Outstanding)
		require.LessOrEqual(t, got.Outstanding, got.Requested)
	})
}

func TestRequestsHasResponseDeletesExhausted(t *testing.T) {
	r := NewRequests()
	r.Add("x", 0)
	require.Equal(t, 1, r.Len())

	require.False(t, r.HasResponse("x"))
	require.Equal(t, 0, r.Len(), "HasResponse drops an entry with nothing outstanding")

	_, ok := r.Lookup("x")
	require.False(t, ok)
}

func TestRequestsUnknown(t *testing.T) {
	r := NewRequests()
	require.False(t, r.HasResponse("nope"))
	r.Remove("nope")
	require.Equal(t, 0, r.Len())
	require.False(t, r.consume("nope"))
}

func TestRequestsPending(t *testing.T) {
	r := NewRequests()
	r.Add("t", 1)
	r.Add("R", 2)
	r.Add("c", 1)

	require.Equal(t, []PendingRequest{
		{Terminator: "R", Requested: 2, Outstanding: 2},
		{Terminator: "c", Requested: 1, Outstanding: 1},
		{Terminator: "t", Requested: 1, Outstanding: 1},
	}, r.Pending())
}

func TestRequestsConcurrent(t *testing.T) {
	r := NewRequests()
	const n = 100

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			r.Add("R", 1)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			r.consume("R")
		}
	}()
	wg.Wait()

	if got, ok := r.Lookup("R"); ok {
		require.GreaterOrEqual(t, got.Outstanding, 0)
		require.LessOrEqual(t, got.Outstanding, got.Requested)
	}
}
