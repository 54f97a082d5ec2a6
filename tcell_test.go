package escseq

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/require"
)

func TestKeyEventTcell(t *testing.T) {
	for _, tc := range []struct {
		ev   KeyEvent
		key  tcell.Key
		ch   rune
		mods tcell.ModMask
	}{
		{KeyEvent{Key: KeyUp}, tcell.KeyUp, 0, tcell.ModNone},
		{KeyEvent{Key: KeyF5, Mod: ModCtrl | ModShift}, tcell.KeyF5, 0, tcell.ModCtrl | tcell.ModShift},
		{KeyEvent{Key: KeyRune, Ch: 'x', Mod: ModAlt}, tcell.KeyRune, 'x', tcell.ModAlt},
		{KeyEvent{Key: KeyAdd, Ch: '+'}, tcell.KeyRune, '+', tcell.ModNone},
		{KeyEvent{Key: KeyTab, Mod: ModShift}, tcell.KeyBacktab, 0, tcell.ModNone},
		{KeyEvent{Key: KeyTab}, tcell.KeyTab, 0, tcell.ModNone},
		{KeyEvent{Key: KeyBackspace, Ch: 0x7f}, tcell.KeyBackspace, 0, tcell.ModNone},
		{KeyEvent{Key: KeyBackspace, Ch: 0x08}, tcell.KeyBackspace, 0, tcell.ModNone},
		{KeyEvent{Key: KeyF, Ch: 'f', Mod: ModAlt}, tcell.KeyRune, 'f', tcell.ModAlt},
		{KeyEvent{Key: KeyPageDown}, tcell.KeyPgDn, 0, tcell.ModNone},
	} {
		ev, ok := tc.ev.TcellEvent()
		require.True(t, ok, "%s should convert", tc.ev)
		require.Equal(t, tc.key, ev.Key(), "key for %s", tc.ev)
		if tc.key == tcell.KeyRune {
			require.Equal(t, tc.ch, ev.Rune(), "rune for %s", tc.ev)
		}
		require.Equal(t, tc.mods, ev.Modifiers(), "modifiers for %s", tc.ev)
	}

	_, ok := KeyEvent{}.TcellEvent()
	require.False(t, ok)
}

func TestMouseEventTcell(t *testing.T) {
	for _, tc := range []struct {
		ev      MouseEvent
		buttons tcell.ButtonMask
		mods    tcell.ModMask
	}{
		{MouseEvent{Flags: Button1Pressed}, tcell.Button1, tcell.ModNone},
		{MouseEvent{Flags: Button2Pressed}, tcell.Button3, tcell.ModNone},
		{MouseEvent{Flags: Button3Pressed | ButtonCtrl}, tcell.Button2, tcell.ModCtrl},
		{MouseEvent{Flags: WheeledUp}, tcell.WheelUp, tcell.ModNone},
		{MouseEvent{Flags: WheeledRight | ButtonShift}, tcell.WheelRight, tcell.ModShift},
		{MouseEvent{Flags: Button1Released}, tcell.ButtonNone, tcell.ModNone},
		{MouseEvent{Flags: ReportMousePosition}, tcell.ButtonNone, tcell.ModNone},
	} {
		ev, ok := tc.ev.TcellEvent()
		require.True(t, ok, "%s should convert", tc.ev)
		require.Equal(t, tc.buttons, ev.Buttons(), "buttons for %s", tc.ev)
		require.Equal(t, tc.mods, ev.Modifiers(), "modifiers for %s", tc.ev)
	}

	ev, ok := MouseEvent{Flags: Button1Pressed, Position: Point{X: 4, Y: 2}}.TcellEvent()
	require.True(t, ok)
	x, y := ev.Position()
	require.Equal(t, 4, x)
	require.Equal(t, 2, y)

	_, ok = MouseEvent{Flags: Button1Clicked}.TcellEvent()
	require.False(t, ok, "synthesized clicks have no tcell equivalent")
}
