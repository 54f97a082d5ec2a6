package escseq

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/pkg/errors"
)

// ESC is the escape character that starts every sequence.
const ESC = '\x1b'

var (
	// ErrInvalidEscape is returned when a sequence handed to Tokenize does
	// not start with ESC.
	ErrInvalidEscape = errors.New("invalid escape character")
	// ErrNoTerminator is returned for a CSI sequence that is neither a
	// mouse report nor an expected reply, and has no terminator.
	ErrNoTerminator = errors.New("CSI sequence without a terminator")
)

// Family is the kind of sequence, named after the C1 control that the
// second character of the sequence selects.
type Family string

const (
	FamilyUnknown Family = ""
	FamilyESC     Family = "ESC"
	FamilyIND     Family = "IND"
	FamilyNEL     Family = "NEL"
	FamilyHTS     Family = "HTS"
	FamilyRI      Family = "RI"
	FamilySS2     Family = "SS2"
	FamilySS3     Family = "SS3"
	FamilyDCS     Family = "DCS"
	FamilySPA     Family = "SPA"
	FamilyEPA     Family = "EPA"
	FamilySOS     Family = "SOS"
	FamilyDECID   Family = "DECID"
	FamilyCSI     Family = "CSI"
	FamilyST      Family = "ST"
	FamilyOSC     Family = "OSC"
	FamilyPM      Family = "PM"
	FamilyAPC     Family = "APC"
)

var c1Controls = map[rune]Family{
	'D':  FamilyIND,
	'E':  FamilyNEL,
	'H':  FamilyHTS,
	'M':  FamilyRI,
	'N':  FamilySS2,
	'O':  FamilySS3,
	'P':  FamilyDCS,
	'V':  FamilySPA,
	'W':  FamilyEPA,
	'X':  FamilySOS,
	'Z':  FamilyDECID,
	'[':  FamilyCSI,
	'\\': FamilyST,
	']':  FamilyOSC,
	'^':  FamilyPM,
	'_':  FamilyAPC,
}

// C1Control returns the family selected by the character following ESC.
func C1Control(r rune) Family {
	return c1Controls[r]
}

// Sequence is one tokenized escape sequence. Params is nil for sequences
// of one or two characters; otherwise it holds one entry per
// ';'-separated slot, with "" for a slot that carried no digits.
type Sequence struct {
	Family     Family
	Code       string
	Params     []string
	Terminator string
}

// Param returns the i-th parameter, or "" if it is absent.
func (s Sequence) Param(i int) string {
	if i < 0 || i >= len(s.Params) {
		return ""
	}
	return s.Params[i]
}

// Int returns the i-th parameter as an integer. ok is false when the
// parameter is absent or empty.
func (s Sequence) Int(i int) (int, bool) {
	p := s.Param(i)
	if p == "" {
		return 0, false
	}
	v, err := strconv.Atoi(p)
	if err != nil {
		return 0, false
	}
	return v, true
}

// IsMouse reports whether the sequence is an SGR mouse report.
func (s Sequence) IsMouse() bool {
	return s.Family == FamilyCSI && s.Code == "<"
}

func (s Sequence) String() string {
	var b strings.Builder
	b.WriteString(string(s.Family))
	if s.Code != "" {
		b.WriteString(" " + s.Code)
	}
	if len(s.Params) > 0 {
		b.WriteString(" " + strings.Join(s.Params, ";"))
	}
	if s.Terminator != "" {
		b.WriteString(" " + s.Terminator)
	}
	return b.String()
}

// Tokenize splits chars, which must start with ESC, into its family,
// free-floating code characters, parameters and terminator. An empty
// input yields the zero Sequence and no error.
func Tokenize(chars []rune) (Sequence, error) {
	if len(chars) == 0 {
		return Sequence{}, nil
	}
	if chars[0] != ESC {
		return Sequence{}, errors.Wrapf(ErrInvalidEscape, "sequence starts with %q", chars[0])
	}

	switch len(chars) {
	case 1:
		return Sequence{Family: FamilyESC}, nil
	case 2:
		return Sequence{Family: FamilyESC, Terminator: string(chars[1])}, nil
	}

	nparams := 1
	for _, c := range chars[2:] {
		if c == ';' {
			nparams++
		}
	}

	var (
		code       strings.Builder
		terminator strings.Builder
		params     = make([]strings.Builder, nparams)
		idx        int
	)

	last := len(chars) - 1
	for i := 2; i < len(chars); i++ {
		c := chars[i]
		switch {
		case unicode.IsDigit(c):
			params[idx].WriteRune(c)
		case c == ';':
			idx++
		case idx == nparams-1 || i == last:
			terminator.WriteRune(c)
		default:
			code.WriteRune(c)
		}
	}

	seq := Sequence{
		Family:     C1Control(chars[1]),
		Code:       code.String(),
		Params:     make([]string, nparams),
		Terminator: terminator.String(),
	}
	for i := range params {
		seq.Params[i] = params[i].String()
	}
	return seq, nil
}
