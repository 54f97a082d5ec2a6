package escseq

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ErrMalformedMouse is returned when an SGR mouse report carries a field
// that is not a number.
var ErrMalformedMouse = errors.New("malformed SGR mouse report")

// MouseFlags is the set of button states, modifiers and motion bits that
// describe one mouse event.
type MouseFlags uint32

const (
	Button1Released      MouseFlags = 0x1
	Button1Pressed       MouseFlags = 0x2
	Button1Clicked       MouseFlags = 0x4
	Button1DoubleClicked MouseFlags = 0x8
	Button1TripleClicked MouseFlags = 0x10
	Button2Released      MouseFlags = 0x40
	Button2Pressed       MouseFlags = 0x80
	Button2Clicked       MouseFlags = 0x100
	Button2DoubleClicked MouseFlags = 0x200
	Button2TripleClicked MouseFlags = 0x400
	Button3Released      MouseFlags = 0x1000
	Button3Pressed       MouseFlags = 0x2000
	Button3Clicked       MouseFlags = 0x4000
	Button3DoubleClicked MouseFlags = 0x8000
	Button3TripleClicked MouseFlags = 0x10000
	Button4Released      MouseFlags = 0x40000
	Button4Pressed       MouseFlags = 0x80000
	Button4Clicked       MouseFlags = 0x100000
	Button4DoubleClicked MouseFlags = 0x200000
	Button4TripleClicked MouseFlags = 0x400000
	ButtonCtrl           MouseFlags = 0x1000000
	ButtonShift          MouseFlags = 0x2000000
	ButtonAlt            MouseFlags = 0x4000000
	ReportMousePosition  MouseFlags = 0x8000000
	WheeledUp            MouseFlags = 0x10000000
	WheeledDown          MouseFlags = 0x20000000
	WheeledLeft          MouseFlags = 0x40000000
	WheeledRight         MouseFlags = 0x80000000
)

const (
	modifierFlags = ButtonCtrl | ButtonShift | ButtonAlt
	releasedFlags = Button1Released | Button2Released | Button3Released | Button4Released
)

var mouseFlagNames = []struct {
	flag MouseFlags
	name string
}{
	{Button1Released, "Button1Released"},
	{Button1Pressed, "Button1Pressed"},
	{Button1Clicked, "Button1Clicked"},
	{Button1DoubleClicked, "Button1DoubleClicked"},
	{Button1TripleClicked, "Button1TripleClicked"},
	{Button2Released, "Button2Released"},
	{Button2Pressed, "Button2Pressed"},
	{Button2Clicked, "Button2Clicked"},
	{Button2DoubleClicked, "Button2DoubleClicked"},
	{Button2TripleClicked, "Button2TripleClicked"},
	{Button3Released, "Button3Released"},
	{Button3Pressed, "Button3Pressed"},
	{Button3Clicked, "Button3Clicked"},
	{Button3DoubleClicked, "Button3DoubleClicked"},
	{Button3TripleClicked, "Button3TripleClicked"},
	{Button4Released, "Button4Released"},
	{Button4Pressed, "Button4Pressed"},
	{Button4Clicked, "Button4Clicked"},
	{Button4DoubleClicked, "Button4DoubleClicked"},
	{Button4TripleClicked, "Button4TripleClicked"},
	{ButtonCtrl, "ButtonCtrl"},
	{ButtonShift, "ButtonShift"},
	{ButtonAlt, "ButtonAlt"},
	{ReportMousePosition, "ReportMousePosition"},
	{WheeledUp, "WheeledUp"},
	{WheeledDown, "WheeledDown"},
	{WheeledLeft, "WheeledLeft"},
	{WheeledRight, "WheeledRight"},
}

// Has reports whether every bit of f2 is set in f.
func (f MouseFlags) Has(f2 MouseFlags) bool {
	return f&f2 == f2
}

func (f MouseFlags) String() string {
	if f == 0 {
		return "None"
	}
	var parts []string
	for _, n := range mouseFlagNames {
		if f&n.flag != 0 {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "|")
}

// Point is a zero-based cell position.
type Point struct {
	X int
	Y int
}

func (p Point) String() string {
	return "(" + strconv.Itoa(p.X) + "," + strconv.Itoa(p.Y) + ")"
}

// MouseEvent is one classified mouse event.
type MouseEvent struct {
	Flags    MouseFlags
	Position Point
}

func (ev MouseEvent) String() string {
	return ev.Flags.String() + "@" + ev.Position.String()
}

// buttonCodes maps SGR button codes to the button they report. The value
// is the pressed flag; the released flag is used when the report ends in
// 'm'. The code ranges are not contiguous and are transcribed as is.
var buttonCodes = map[int][2]MouseFlags{}

func mapButton(pressed, released MouseFlags, codes ...int) {
	for _, c := range codes {
		buttonCodes[c] = [2]MouseFlags{pressed, released}
	}
}

// motionCodes are codes that only ever report the pointer position.
var motionCodes = map[int]struct{}{
	35: {}, 39: {}, 43: {}, 47: {}, 51: {}, 55: {}, 59: {}, 63: {},
}

var wheelCodes = map[int]MouseFlags{
	64: WheeledUp,
	65: WheeledDown,
	68: WheeledLeft,
	72: WheeledLeft,
	80: WheeledLeft,
	69: WheeledRight,
	73: WheeledRight,
	81: WheeledRight,
}

// codeModifiers lists the extra flags ORed onto the button state for a
// given code.
var codeModifiers = map[int]MouseFlags{
	8:  ButtonAlt,
	9:  ButtonAlt,
	10: ButtonAlt,
	43: ButtonAlt,

	14: ButtonAlt | ButtonShift,
	47: ButtonAlt | ButtonShift,

	16: ButtonCtrl,
	17: ButtonCtrl,
	18: ButtonCtrl,
	51: ButtonCtrl,

	22: ButtonCtrl | ButtonShift,
	55: ButtonCtrl | ButtonShift,

	24: ButtonCtrl | ButtonAlt,
	25: ButtonCtrl | ButtonAlt,
	26: ButtonCtrl | ButtonAlt,
	59: ButtonCtrl | ButtonAlt,

	30: ButtonCtrl | ButtonShift | ButtonAlt,
	63: ButtonCtrl | ButtonShift | ButtonAlt,

	32: ReportMousePosition,
	33: ReportMousePosition,
	34: ReportMousePosition,

	36: ReportMousePosition | ButtonShift,
	37: ReportMousePosition | ButtonShift,

	39: ButtonShift,
	68: ButtonShift,
	69: ButtonShift,

	40: ReportMousePosition | ButtonAlt,
	41: ReportMousePosition | ButtonAlt,
	42: ReportMousePosition | ButtonAlt,

	45: ReportMousePosition | ButtonAlt | ButtonShift,
	46: ReportMousePosition | ButtonAlt | ButtonShift,

	48: ReportMousePosition | ButtonCtrl,
	49: ReportMousePosition | ButtonCtrl,
	50: ReportMousePosition | ButtonCtrl,

	53: ReportMousePosition | ButtonCtrl | ButtonShift,
	54: ReportMousePosition | ButtonCtrl | ButtonShift,

	56: ReportMousePosition | ButtonCtrl | ButtonAlt,
	57: ReportMousePosition | ButtonCtrl | ButtonAlt,
	58: ReportMousePosition | ButtonCtrl | ButtonAlt,

	61: ReportMousePosition | ButtonCtrl | ButtonShift | ButtonAlt,
	62: ReportMousePosition | ButtonCtrl | ButtonShift | ButtonAlt,
}

func init() {
	mapButton(Button1Pressed, Button1Released,
		0, 8, 16, 24, 32, 36, 40, 48, 56)
	mapButton(Button2Pressed, Button2Released,
		1, 9, 17, 25, 33, 37, 41, 45, 49, 53, 57, 61)
	mapButton(Button3Pressed, Button3Released,
		2, 10, 14, 18, 22, 26, 30, 34, 42, 46, 50, 54, 58, 62)
}

// ButtonState translates an SGR button code and its final character
// ('M' for press or motion, 'm' for release) into mouse flags. Codes
// that are not in the tables yield only their modifier flags, if any.
func ButtonState(code int, final rune) MouseFlags {
	var state MouseFlags
	if b, ok := buttonCodes[code]; ok {
		if final == 'M' {
			state = b[0]
		} else {
			state = b[1]
		}
	} else if _, ok := motionCodes[code]; ok {
		state = ReportMousePosition
	} else if w, ok := wheelCodes[code]; ok {
		state = w
	}
	return state | codeModifiers[code]
}

// mouseReport is the raw content of one SGR mouse report.
type mouseReport struct {
	code     int
	final    rune
	position Point
}

// parseMouseReport parses "<code;col;row(M|m)" as found after "ESC [".
// Columns and rows are one-based on the wire and zero-based in the result.
func parseMouseReport(chars []rune) (mouseReport, error) {
	var (
		report mouseReport
		field  strings.Builder
		fields []string
		inCode bool
	)

	for _, c := range chars {
		switch {
		case c == '<':
			inCode = true
		case c == ';':
			if inCode || len(fields) > 0 {
				fields = append(fields, field.String())
				field.Reset()
			}
			inCode = false
		case c == 'M' || c == 'm':
			fields = append(fields, field.String())
			field.Reset()
			report.final = c
		case c == ESC || c == '[':
		default:
			field.WriteRune(c)
		}
		if report.final != 0 {
			break
		}
	}

	if report.final == 0 || len(fields) != 3 {
		return report, errors.Wrapf(ErrMalformedMouse, "%q", string(chars))
	}

	values := make([]int, 3)
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return report, errors.Wrapf(ErrMalformedMouse, "field %d (%q)", i, f)
		}
		values[i] = v
	}

	report.code = values[0]
	report.position = Point{X: values[1] - 1, Y: values[2] - 1}
	return report, nil
}
