package escseq

import (
	"fmt"
	"testing"
	"time"

	"github.com/escseq/escseq/internal/mock"
	"github.com/stretchr/testify/require"
)

// report builds an SGR mouse report; col and row are zero-based.
func report(code, col, row int, final rune) []rune {
	return []rune(fmt.Sprintf("\x1b[<%d;%d;%d%c", code, col+1, row+1, final))
}

func newTestMouse() (*MouseDecoder, *mock.Scheduler) {
	s := mock.NewScheduler()
	return NewMouseDecoder(s, DefaultTimings), s
}

func decodeMouse(t *testing.T, m *MouseDecoder, chars []rune) []MouseEvent {
	t.Helper()
	events, err := m.Decode(chars)
	require.NoError(t, err, "Decode(%q)", string(chars))
	return events
}

var at33 = Point{X: 3, Y: 3}

func TestClick(t *testing.T) {
	m, s := newTestMouse()

	events := decodeMouse(t, m, report(0, 3, 3, 'M'))
	require.Equal(t, []MouseEvent{{Flags: Button1Pressed, Position: at33}}, events)
	require.True(t, m.State().Pressed)
	require.Equal(t, Button1Pressed, m.State().LastPressed)

	events = decodeMouse(t, m, report(0, 3, 3, 'm'))
	require.Equal(t, []MouseEvent{
		{Flags: Button1Released, Position: at33},
		{Flags: Button1Clicked, Position: at33},
	}, events)

	state := m.State()
	require.False(t, state.Pressed)
	require.True(t, state.Clicked)
	require.Equal(t, 1, s.Count("After"), "click expiry is scheduled")

	s.Advance(DefaultTimings.ClickInterval)
	require.False(t, m.State().Clicked, "click expires after the click interval")
}

func TestReleaseElsewhereIsNotAClick(t *testing.T) {
	m, _ := newTestMouse()

	decodeMouse(t, m, report(0, 3, 3, 'M'))
	events := decodeMouse(t, m, report(0, 8, 3, 'm'))
	require.Equal(t, []MouseEvent{{Flags: Button1Released, Position: Point{X: 8, Y: 3}}}, events)
	require.False(t, m.State().Clicked)
	require.Equal(t, Point{X: 8, Y: 3}, m.State().Anchor, "anchor follows the release")
}

func TestDoubleClick(t *testing.T) {
	m, s := newTestMouse()

	decodeMouse(t, m, report(0, 3, 3, 'M'))
	decodeMouse(t, m, report(0, 3, 3, 'm'))
	s.Advance(100 * time.Millisecond)

	events := decodeMouse(t, m, report(0, 3, 3, 'M'))
	require.Equal(t, []MouseEvent{{Flags: Button1DoubleClicked, Position: at33}}, events)

	state := m.State()
	require.False(t, state.Clicked, "double click clears the single click")
	require.True(t, state.DoubleClicked)

	events = decodeMouse(t, m, report(0, 3, 3, 'm'))
	require.Equal(t, []MouseEvent{{Flags: Button1Released, Position: at33}}, events, "release after a double click passes through")

	s.Advance(DefaultTimings.ClickInterval)
	require.False(t, m.State().DoubleClicked, "double click expires")
}

func TestTripleClick(t *testing.T) {
	m, s := newTestMouse()

	decodeMouse(t, m, report(0, 3, 3, 'M'))
	decodeMouse(t, m, report(0, 3, 3, 'm'))
	decodeMouse(t, m, report(0, 3, 3, 'M'))
	decodeMouse(t, m, report(0, 3, 3, 'm'))
	s.Advance(50 * time.Millisecond)

	events := decodeMouse(t, m, report(0, 3, 3, 'M'))
	require.Equal(t, []MouseEvent{{Flags: Button1TripleClicked, Position: at33}}, events)

	state := m.State()
	require.True(t, state.TripleClicked)
	require.False(t, state.DoubleClicked, "triple click supersedes the double click")

	events = decodeMouse(t, m, report(0, 3, 3, 'm'))
	require.Equal(t, []MouseEvent{{Flags: Button1Released, Position: at33}}, events, "no click after a triple click")
	require.False(t, m.State().TripleClicked)
	require.False(t, m.State().Clicked)
}

func TestClickAfterExpiry(t *testing.T) {
	m, s := newTestMouse()

	decodeMouse(t, m, report(0, 3, 3, 'M'))
	decodeMouse(t, m, report(0, 3, 3, 'm'))
	s.Advance(time.Second)

	events := decodeMouse(t, m, report(0, 3, 3, 'M'))
	require.Equal(t, []MouseEvent{{Flags: Button1Pressed, Position: at33}}, events, "a late press starts over")
	require.True(t, m.State().Pressed)
}

func TestOtherButtonsClick(t *testing.T) {
	for _, tc := range []struct {
		code    int
		clicked MouseFlags
		double  MouseFlags
	}{
		{1, Button2Clicked, Button2DoubleClicked},
		{2, Button3Clicked, Button3DoubleClicked},
	} {
		m, _ := newTestMouse()

		decodeMouse(t, m, report(tc.code, 0, 0, 'M'))
		events := decodeMouse(t, m, report(tc.code, 0, 0, 'm'))
		require.Len(t, events, 2)
		require.Equal(t, tc.clicked, events[1].Flags)

		events = decodeMouse(t, m, report(tc.code, 0, 0, 'M'))
		require.Equal(t, tc.double, events[0].Flags)
	}
}

func TestWheel(t *testing.T) {
	m, s := newTestMouse()

	events := decodeMouse(t, m, report(64, 3, 3, 'M'))
	require.Equal(t, []MouseEvent{{Flags: WheeledUp, Position: at33}}, events)

	events = decodeMouse(t, m, report(65, 5, 7, 'M'))
	require.Equal(t, []MouseEvent{{Flags: WheeledDown, Position: Point{X: 5, Y: 7}}}, events)

	events = decodeMouse(t, m, report(68, 0, 0, 'M'))
	require.Equal(t, WheeledLeft|ButtonShift, events[0].Flags)

	require.Equal(t, MouseState{}, m.State(), "wheel events leave the classifier alone")
	require.Equal(t, 0, s.Pending())
}

func TestMotionPassesThrough(t *testing.T) {
	m, _ := newTestMouse()

	events := decodeMouse(t, m, report(35, 10, 2, 'M'))
	require.Equal(t, []MouseEvent{{Flags: ReportMousePosition, Position: Point{X: 10, Y: 2}}}, events)
	require.Equal(t, MouseState{}, m.State())
}

func TestDrag(t *testing.T) {
	m, s := newTestMouse()

	decodeMouse(t, m, report(0, 3, 3, 'M'))
	for _, p := range []Point{{X: 4, Y: 3}, {X: 6, Y: 4}, {X: 9, Y: 5}} {
		events := decodeMouse(t, m, report(32, p.X, p.Y, 'M'))
		require.Equal(t, []MouseEvent{{Flags: Button1Pressed | ReportMousePosition, Position: p}}, events)

		state := m.State()
		require.True(t, state.Pressed, "still pressed while dragging")
		require.False(t, state.Clicked)
		require.Equal(t, p, state.Anchor, "anchor tracks the drag")
	}
	require.Equal(t, 1, s.Count("Every"), "only the initial press starts a poll")
}

func TestMotionWithoutPress(t *testing.T) {
	m, s := newTestMouse()

	// a drag report is only tracked after a plain press started it
	for _, p := range []Point{at33, {X: 5, Y: 4}} {
		events := decodeMouse(t, m, report(32, p.X, p.Y, 'M'))
		require.Equal(t, []MouseEvent{{Flags: Button1Pressed | ReportMousePosition, Position: p}}, events)
		require.Equal(t, MouseState{}, m.State())
	}
	require.Equal(t, 0, s.Count("Every"))
}

func TestModifiersSurvive(t *testing.T) {
	m, _ := newTestMouse()

	decodeMouse(t, m, report(0, 3, 3, 'M'))
	events := decodeMouse(t, m, report(48, 4, 3, 'M'))
	require.Equal(t, Button1Pressed|ReportMousePosition|ButtonCtrl, events[0].Flags)

	events = decodeMouse(t, m, report(16, 1, 1, 'M'))
	require.True(t, events[0].Flags.Has(ButtonCtrl))
}

func TestContinuousPress(t *testing.T) {
	m, s := newTestMouse()

	type call struct {
		flags MouseFlags
		pos   Point
	}
	var calls []call
	m.SetContinuousPressHandler(func(flags MouseFlags, pos Point) {
		calls = append(calls, call{flags, pos})
	})

	decodeMouse(t, m, report(0, 3, 3, 'M'))
	require.Equal(t, 1, s.Count("Every"))

	s.Advance(350 * time.Millisecond)
	require.Equal(t, []call{
		{Button1Pressed, at33},
		{Button1Pressed, at33},
		{Button1Pressed, at33},
	}, calls, "one notification per interval while held")

	decodeMouse(t, m, report(0, 3, 3, 'm'))
	s.Advance(200 * time.Millisecond)
	require.Len(t, calls, 3, "release stops the poll")
}

func TestContinuousPressUnregister(t *testing.T) {
	m, s := newTestMouse()

	var n int
	m.SetContinuousPressHandler(func(MouseFlags, Point) { n++ })

	decodeMouse(t, m, report(2, 0, 0, 'M'))
	s.Advance(150 * time.Millisecond)
	require.Equal(t, 1, n)

	m.SetContinuousPressHandler(nil)
	s.Advance(500 * time.Millisecond)
	require.Equal(t, 1, n)
	require.Equal(t, 0, s.Pending(), "poll ends once nobody listens")
}

func TestSetTimings(t *testing.T) {
	m, s := newTestMouse()
	m.SetTimings(Timings{ClickInterval: time.Second, ContinuousPressInterval: 100 * time.Millisecond})

	decodeMouse(t, m, report(0, 3, 3, 'M'))
	decodeMouse(t, m, report(0, 3, 3, 'm'))
	s.Advance(500 * time.Millisecond)
	require.True(t, m.State().Clicked)

	s.Advance(500 * time.Millisecond)
	require.False(t, m.State().Clicked)
}
