package escseq

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Modifier is the set of modifier keys held down with a key.
type Modifier int

const (
	ModNone  Modifier = 0
	ModAlt   Modifier = 1 << 0 // 0x01
	ModCtrl  Modifier = 1 << 1 // 0x02
	ModShift Modifier = 1 << 2 // 0x04
)

func (m Modifier) Shift() bool { return m&ModShift != 0 }
func (m Modifier) Alt() bool   { return m&ModAlt != 0 }
func (m Modifier) Ctrl() bool  { return m&ModCtrl != 0 }

func (m Modifier) String() string {
	var parts []string
	if m&ModCtrl != 0 {
		parts = append(parts, "C")
	}
	if m&ModShift != 0 {
		parts = append(parts, "S")
	}
	if m&ModAlt != 0 {
		parts = append(parts, "M")
	}
	return strings.Join(parts, "-")
}

// Key is the logical identity of a decoded key. The zero value KeyNone
// means "no key": the sequence was not recognized.
type Key uint16

const (
	KeyNone Key = iota
	KeyRune
	KeyEscape
	KeyEnter
	KeyTab
	KeyBackspace
	KeyUp
	KeyDown
	KeyRight
	KeyLeft
	KeyHome
	KeyEnd
	KeyInsert
	KeyDelete
	KeyPageUp
	KeyPageDown
	KeyClear
	KeyAdd
	KeySubtract
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
	KeyA
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ
)

var keyNames = map[Key]string{
	KeyNone:      "None",
	KeyRune:      "Rune",
	KeyEscape:    "Esc",
	KeyEnter:     "Enter",
	KeyTab:       "Tab",
	KeyBackspace: "BS",
	KeyUp:        "ArrowUp",
	KeyDown:      "ArrowDown",
	KeyRight:     "ArrowRight",
	KeyLeft:      "ArrowLeft",
	KeyHome:      "Home",
	KeyEnd:       "End",
	KeyInsert:    "Insert",
	KeyDelete:    "Delete",
	KeyPageUp:    "Pgup",
	KeyPageDown:  "Pgdn",
	KeyClear:     "Clear",
	KeyAdd:       "Add",
	KeySubtract:  "Subtract",
}

func init() {
	for k := KeyF1; k <= KeyF12; k++ {
		keyNames[k] = "F" + strconv.Itoa(int(k-KeyF1)+1)
	}
	for k := KeyA; k <= KeyZ; k++ {
		keyNames[k] = string(rune('A' + (k - KeyA)))
	}
}

func (k Key) String() string {
	if s, ok := keyNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Key(%d)", int(k))
}

// LetterKey returns the letter key for r, which must be an ASCII letter.
// Any other rune yields KeyNone.
func LetterKey(r rune) Key {
	switch {
	case r >= 'a' && r <= 'z':
		return KeyA + Key(r-'a')
	case r >= 'A' && r <= 'Z':
		return KeyA + Key(r-'A')
	}
	return KeyNone
}

// KeyEvent is a single decoded key press.
type KeyEvent struct {
	Key Key
	Ch  rune
	Mod Modifier
}

// IsNone reports whether the event carries no key at all.
func (ev KeyEvent) IsNone() bool {
	return ev.Key == KeyNone
}

func (ev KeyEvent) String() string {
	var s string
	if m := ev.Mod.String(); m != "" {
		s += m + "-"
	}

	if ev.Key == KeyRune {
		if unicode.IsPrint(ev.Ch) {
			s += string(ev.Ch)
		} else {
			s += fmt.Sprintf("0x%02X", ev.Ch)
		}
	} else {
		s += ev.Key.String()
	}
	return s
}

// KeyFromRune maps a single rune that did not arrive as part of an escape
// sequence to a key.
func KeyFromRune(r rune) KeyEvent {
	switch r {
	case '\r', '\n':
		return KeyEvent{Key: KeyEnter, Ch: r}
	case '\t':
		return KeyEvent{Key: KeyTab, Ch: r}
	case 0x7f, 0x08:
		return KeyEvent{Key: KeyBackspace, Ch: r}
	case 0x1b:
		return KeyEvent{Key: KeyEscape, Ch: r}
	}

	if r >= 1 && r <= 26 {
		return KeyEvent{Key: KeyA + Key(r-1), Ch: r, Mod: ModCtrl}
	}
	return KeyEvent{Key: KeyRune, Ch: r}
}
