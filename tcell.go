package escseq

import (
	"github.com/gdamore/tcell/v2"
)

var tcellKeys = map[Key]tcell.Key{
	KeyEscape:   tcell.KeyEscape,
	KeyEnter:    tcell.KeyEnter,
	KeyTab:      tcell.KeyTab,
	KeyUp:       tcell.KeyUp,
	KeyDown:     tcell.KeyDown,
	KeyRight:    tcell.KeyRight,
	KeyLeft:     tcell.KeyLeft,
	KeyHome:     tcell.KeyHome,
	KeyEnd:      tcell.KeyEnd,
	KeyInsert:   tcell.KeyInsert,
	KeyDelete:   tcell.KeyDelete,
	KeyPageUp:   tcell.KeyPgUp,
	KeyPageDown: tcell.KeyPgDn,
	KeyClear:    tcell.KeyClear,
	KeyF1:       tcell.KeyF1,
	KeyF2:       tcell.KeyF2,
	KeyF3:       tcell.KeyF3,
	KeyF4:       tcell.KeyF4,
	KeyF5:       tcell.KeyF5,
	KeyF6:       tcell.KeyF6,
	KeyF7:       tcell.KeyF7,
	KeyF8:       tcell.KeyF8,
	KeyF9:       tcell.KeyF9,
	KeyF10:      tcell.KeyF10,
	KeyF11:      tcell.KeyF11,
	KeyF12:      tcell.KeyF12,
}

func (m Modifier) tcellMask() tcell.ModMask {
	mask := tcell.ModNone
	if m.Shift() {
		mask |= tcell.ModShift
	}
	if m.Ctrl() {
		mask |= tcell.ModCtrl
	}
	if m.Alt() {
		mask |= tcell.ModAlt
	}
	return mask
}

// TcellEvent converts ev into the equivalent tcell key event, so decoded
// input can be fed to code written against tcell. ok is false for
// KeyNone.
func (ev KeyEvent) TcellEvent() (*tcell.EventKey, bool) {
	mask := ev.Mod.tcellMask()

	switch ev.Key {
	case KeyNone:
		return nil, false
	case KeyRune:
		return tcell.NewEventKey(tcell.KeyRune, ev.Ch, mask), true
	case KeyAdd:
		return tcell.NewEventKey(tcell.KeyRune, '+', mask), true
	case KeySubtract:
		return tcell.NewEventKey(tcell.KeyRune, '-', mask), true
	case KeyBackspace:
		// tcell folds DEL into KeyBackspace; ev.Ch still tells them apart
		return tcell.NewEventKey(tcell.KeyBackspace, 0, mask), true
	case KeyTab:
		if ev.Mod.Shift() {
			return tcell.NewEventKey(tcell.KeyBacktab, 0, mask&^tcell.ModShift), true
		}
	}

	if ev.Key >= KeyA && ev.Key <= KeyZ {
		off := ev.Key - KeyA
		if ev.Mod.Ctrl() {
			return tcell.NewEventKey(tcell.KeyCtrlA+tcell.Key(off), rune(off+1), mask), true
		}
		ch := ev.Ch
		if ch == 0 {
			ch = 'a' + rune(off)
		}
		return tcell.NewEventKey(tcell.KeyRune, ch, mask), true
	}

	k, ok := tcellKeys[ev.Key]
	if !ok {
		return nil, false
	}
	return tcell.NewEventKey(k, 0, mask), true
}

// TcellEvent converts ev into a tcell mouse event. tcell reports which
// buttons are held rather than clicks, so synthesized click events have
// no equivalent and ok is false for them.
func (ev MouseEvent) TcellEvent() (*tcell.EventMouse, bool) {
	const clicks = Button1Clicked | Button1DoubleClicked | Button1TripleClicked |
		Button2Clicked | Button2DoubleClicked | Button2TripleClicked |
		Button3Clicked | Button3DoubleClicked | Button3TripleClicked |
		Button4Clicked | Button4DoubleClicked | Button4TripleClicked
	if ev.Flags&clicks != 0 {
		return nil, false
	}

	var mask tcell.ModMask
	if ev.Flags&ButtonShift != 0 {
		mask |= tcell.ModShift
	}
	if ev.Flags&ButtonCtrl != 0 {
		mask |= tcell.ModCtrl
	}
	if ev.Flags&ButtonAlt != 0 {
		mask |= tcell.ModAlt
	}

	// Button2 is the middle button on the wire and Button3 the right
	// one; tcell numbers them the other way around.
	btn := tcell.ButtonNone
	switch {
	case ev.Flags&Button1Pressed != 0:
		btn = tcell.Button1
	case ev.Flags&Button2Pressed != 0:
		btn = tcell.Button3
	case ev.Flags&Button3Pressed != 0:
		btn = tcell.Button2
	case ev.Flags&Button4Pressed != 0:
		btn = tcell.Button4
	case ev.Flags&WheeledUp != 0:
		btn = tcell.WheelUp
	case ev.Flags&WheeledDown != 0:
		btn = tcell.WheelDown
	case ev.Flags&WheeledLeft != 0:
		btn = tcell.WheelLeft
	case ev.Flags&WheeledRight != 0:
		btn = tcell.WheelRight
	}

	return tcell.NewEventMouse(ev.Position.X, ev.Position.Y, btn, mask), true
}
