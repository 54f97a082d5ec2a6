package escseq

import (
	pdebug "github.com/lestrrat-go/pdebug"
)

// ContinuousPressHandler is notified at a fixed cadence while a button
// is held down without moving.
type ContinuousPressHandler func(flags MouseFlags, pos Point)

// MouseState is a snapshot of the click classifier.
type MouseState struct {
	LastPressed   MouseFlags
	Anchor        Point
	HasAnchor     bool
	Pressed       bool
	Clicked       bool
	DoubleClicked bool
	TripleClicked bool
}

// MouseDecoder turns SGR mouse reports into classified mouse events.
// It keeps press/click state across reports, so one MouseDecoder serves
// one input stream. All methods, and every callback it hands to its
// Scheduler, must run on the same goroutine.
type MouseDecoder struct {
	scheduler Scheduler
	timings   Timings
	onPress   ContinuousPressHandler

	lastPressed   MouseFlags
	anchor        Point
	hasAnchor     bool
	pressed       bool
	clicked       bool
	doubleClicked bool
	tripleClicked bool
}

// NewMouseDecoder creates a MouseDecoder that defers its timers to s.
func NewMouseDecoder(s Scheduler, t Timings) *MouseDecoder {
	return &MouseDecoder{
		scheduler: s,
		timings:   t,
	}
}

// SetContinuousPressHandler registers h for continuous-press
// notifications. A nil h unregisters, which also ends any running poll.
func (m *MouseDecoder) SetContinuousPressHandler(h ContinuousPressHandler) {
	m.onPress = h
}

// SetTimings replaces the timing windows used for new clicks and presses.
func (m *MouseDecoder) SetTimings(t Timings) {
	m.timings = t
}

// State returns a snapshot of the classifier state.
func (m *MouseDecoder) State() MouseState {
	return MouseState{
		LastPressed:   m.lastPressed,
		Anchor:        m.anchor,
		HasAnchor:     m.hasAnchor,
		Pressed:       m.pressed,
		Clicked:       m.clicked,
		DoubleClicked: m.doubleClicked,
		TripleClicked: m.tripleClicked,
	}
}

// Decode parses one SGR mouse report (the whole sequence, or the part
// starting at '<') and classifies it. A report yields one event, or two
// when a release completes a click.
func (m *MouseDecoder) Decode(chars []rune) ([]MouseEvent, error) {
	report, err := parseMouseReport(chars)
	if err != nil {
		return nil, err
	}

	state := ButtonState(report.code, report.final)
	if pdebug.Enabled {
		g := pdebug.Marker("MouseDecoder.Decode (code=%d, final=%c, state=%s, pos=%s)", report.code, report.final, state, report.position)
		defer g.End()
	}
	return m.classify(state, report.position), nil
}

func isPlainPress(state MouseFlags) bool {
	switch state {
	case Button1Pressed, Button2Pressed, Button3Pressed, Button4Pressed:
		return true
	}
	return false
}

func isPlainRelease(state MouseFlags) bool {
	switch state {
	case Button1Released, Button2Released, Button3Released, Button4Released:
		return true
	}
	return false
}

func (m *MouseDecoder) classify(state MouseFlags, pos Point) []MouseEvent {
	events := []MouseEvent{{Position: pos}}

	// a press that was released and followed by something other than
	// motion or another release no longer counts as the last press
	if m.lastPressed != 0 && !m.pressed && state&ReportMousePosition == 0 && state&releasedFlags == 0 {
		m.lastPressed = 0
		m.pressed = false
	}

	switch {
	case (!m.clicked && !m.doubleClicked && isPlainPress(state) && m.lastPressed == 0) ||
		(m.pressed && m.lastPressed != 0 && state&ReportMousePosition != 0):
		events[0].Flags = state
		m.lastPressed = state
		m.pressed = true
		m.anchor = pos
		m.hasAnchor = true

		if state&ReportMousePosition == 0 {
			m.startContinuousPress(state)
		}
	case m.doubleClicked && isPlainPress(state):
		events[0].Flags = tripleClickedFlag(state)
		m.doubleClicked = false
		m.tripleClicked = true
		if pdebug.Enabled {
			pdebug.Printf("MouseDecoder: triple click %s", events[0].Flags)
		}
	case m.clicked && isPlainPress(state):
		events[0].Flags = doubleClickedFlag(state)
		m.clicked = false
		m.doubleClicked = true
		m.scheduler.After(m.timings.ClickInterval, func() {
			m.doubleClicked = false
		})
		if pdebug.Enabled {
			pdebug.Printf("MouseDecoder: double click %s", events[0].Flags)
		}
	case !m.clicked && !m.doubleClicked && isPlainRelease(state):
		events[0].Flags = state
		m.pressed = false

		if m.tripleClicked {
			m.tripleClicked = false
		} else if m.hasAnchor && pos == m.anchor {
			events = append(events, MouseEvent{Flags: clickedFlag(state), Position: pos})
			m.clicked = true
			m.scheduler.After(m.timings.ClickInterval, func() {
				m.clicked = false
			})
			if pdebug.Enabled {
				pdebug.Printf("MouseDecoder: click %s", events[1].Flags)
			}
		}

		m.anchor = pos
		m.hasAnchor = true
	default:
		events[0].Flags = state
	}

	events[0].Flags |= state & modifierFlags
	return events
}

func (m *MouseDecoder) startContinuousPress(state MouseFlags) {
	if pdebug.Enabled {
		pdebug.Printf("MouseDecoder: continuous press poll for %s", state)
	}

	m.scheduler.Every(m.timings.ContinuousPressInterval, func() bool {
		return m.pressed && m.onPress != nil
	}, func() {
		if m.lastPressed != 0 && state&ReportMousePosition == 0 {
			m.onPress(state, m.anchor)
		}
	})
}

func clickedFlag(released MouseFlags) MouseFlags {
	switch released {
	case Button1Released:
		return Button1Clicked
	case Button2Released:
		return Button2Clicked
	case Button3Released:
		return Button3Clicked
	case Button4Released:
		return Button4Clicked
	}
	return 0
}

func doubleClickedFlag(pressed MouseFlags) MouseFlags {
	switch pressed {
	case Button1Pressed:
		return Button1DoubleClicked
	case Button2Pressed:
		return Button2DoubleClicked
	case Button3Pressed:
		return Button3DoubleClicked
	case Button4Pressed:
		return Button4DoubleClicked
	}
	return 0
}

func tripleClickedFlag(pressed MouseFlags) MouseFlags {
	switch pressed {
	case Button1Pressed:
		return Button1TripleClicked
	case Button2Pressed:
		return Button2TripleClicked
	case Button3Pressed:
		return Button3TripleClicked
	case Button4Pressed:
		return Button4TripleClicked
	}
	return 0
}
