package escseq

// tildeKeys maps the first parameter of a "CSI <n> ~" sequence to a key.
var tildeKeys = map[string]Key{
	"2":  KeyInsert,
	"3":  KeyDelete,
	"5":  KeyPageUp,
	"6":  KeyPageDown,
	"15": KeyF5,
	"17": KeyF6,
	"18": KeyF7,
	"19": KeyF8,
	"20": KeyF9,
	"21": KeyF10,
	"23": KeyF11,
	"24": KeyF12,
}

// terminatorKeys maps a terminator to its key, for every terminator that
// does not depend on the parameter.
var terminatorKeys = map[rune]Key{
	'A': KeyUp,
	'B': KeyDown,
	'C': KeyRight,
	'D': KeyLeft,
	'F': KeyEnd,
	'H': KeyHome,
	'P': KeyF1,
	'Q': KeyF2,
	'R': KeyF3,
	'S': KeyF4,
	'Z': KeyTab,

	// numeric keypad in application mode
	'l': KeyAdd,
	'm': KeySubtract,
	'p': KeyInsert,
	'q': KeyEnd,
	'r': KeyDown,
	's': KeyPageDown,
	't': KeyLeft,
	'u': KeyClear,
	'v': KeyRight,
	'w': KeyHome,
	'x': KeyUp,
	'y': KeyPageUp,
}

var keypadChars = map[rune]rune{
	'l': '+',
	'm': '-',
}

// modifierParams maps the second CSI parameter to the modifiers it encodes.
var modifierParams = map[string]Modifier{
	"2": ModShift,
	"3": ModAlt,
	"4": ModShift | ModAlt,
	"5": ModCtrl,
	"6": ModShift | ModCtrl,
	"7": ModAlt | ModCtrl,
	"8": ModShift | ModAlt | ModCtrl,
}

// ResolveKey maps a terminator and first parameter to a key. mod holds
// the modifiers accumulated so far and is returned with any modifier the
// terminator implies added to it. An unknown combination returns
// KeyNone, which is not an error.
func ResolveKey(terminator rune, param string, mod Modifier) (Key, rune, Modifier) {
	if terminator == '~' {
		return tildeKeys[param], 0, mod
	}

	key, ok := terminatorKeys[terminator]
	if !ok {
		return KeyNone, 0, mod
	}
	if terminator == 'Z' {
		mod |= ModShift
	}
	return key, keypadChars[terminator], mod
}

// ParseModifiers decodes the modifier parameter of a CSI key sequence.
// Unknown values decode to ModNone.
func ParseModifiers(param string) Modifier {
	return modifierParams[param]
}

// metaKey decodes a two character "ESC x" sequence.
func metaKey(ch rune, mod Modifier) KeyEvent {
	switch {
	case ch >= 1 && ch <= 26:
		return KeyEvent{Key: KeyA + Key(ch-1), Ch: ch, Mod: mod | ModCtrl | ModAlt}
	case LetterKey(ch) != KeyNone:
		return KeyEvent{Key: LetterKey(ch), Ch: ch, Mod: mod | ModAlt}
	}
	return KeyEvent{Key: KeyRune, Ch: ch, Mod: mod | ModAlt}
}
