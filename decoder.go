package escseq

import (
	pdebug "github.com/lestrrat-go/pdebug"
	"github.com/pkg/errors"
)

// Result is the outcome of decoding one escape sequence. At most one of
// Key, Mouse and IsResponse is meaningful: a mouse report fills Mouse, a
// reply to an outstanding request sets IsResponse, and anything else
// fills Key, which is KeyNone for an unrecognized sequence.
type Result struct {
	Sequence   Sequence
	Key        KeyEvent
	Mouse      []MouseEvent
	IsMouse    bool
	IsResponse bool
}

// Decoder decodes escape sequences from one terminal input stream. The
// request ledger may be used from any goroutine; Decode and the mouse
// state it drives belong to the goroutine that runs the Scheduler's
// callbacks.
type Decoder struct {
	requests *Requests
	mouse    *MouseDecoder
}

// NewDecoder creates a Decoder whose mouse timers are deferred to s.
func NewDecoder(s Scheduler) *Decoder {
	return &Decoder{
		requests: NewRequests(),
		mouse:    NewMouseDecoder(s, DefaultTimings),
	}
}

// Requests returns the ledger of outstanding terminal queries.
func (d *Decoder) Requests() *Requests {
	return d.requests
}

// Mouse returns the mouse decoder and click classifier.
func (d *Decoder) Mouse() *MouseDecoder {
	return d.mouse
}

// RegisterRequest records that count replies ending in terminator are
// expected from the terminal.
func (d *Decoder) RegisterRequest(terminator string, count int) {
	d.requests.Add(terminator, count)
}

// Decode decodes one escape sequence. chars must start with ESC. mod
// carries modifiers already known for the input (for example from the
// platform layer) and is merged into any decoded key.
func (d *Decoder) Decode(chars []rune, mod Modifier) (*Result, error) {
	if pdebug.Enabled {
		g := pdebug.Marker("Decoder.Decode %q", string(chars))
		defer g.End()
	}

	seq, err := Tokenize(chars)
	if err != nil {
		return nil, errors.Wrap(err, "failed to tokenize escape sequence")
	}

	res := &Result{Sequence: seq}
	switch seq.Family {
	case FamilyESC:
		res.Key = escapeKey(chars, mod)
	case FamilySS3:
		if seq.Terminator == "" {
			return res, nil
		}
		key, ch, m := ResolveKey(firstRune(seq.Terminator), seq.Param(0), mod)
		res.Key = KeyEvent{Key: key, Ch: ch, Mod: m}
	case FamilyCSI:
		if seq.IsMouse() {
			events, err := d.mouse.Decode(chars)
			if err != nil {
				return nil, errors.Wrap(err, "failed to decode mouse report")
			}
			res.IsMouse = true
			res.Mouse = events
			return res, nil
		}

		if d.requests.consume(seq.Terminator) {
			if pdebug.Enabled {
				pdebug.Printf("Decoder.Decode: response %s", seq)
			}
			res.IsResponse = true
			return res, nil
		}

		if seq.Terminator == "" {
			return nil, errors.Wrapf(ErrNoTerminator, "%q", string(chars))
		}

		key, ch, m := ResolveKey(firstRune(seq.Terminator), seq.Param(0), mod)
		if key != KeyNone && len(seq.Params) > 1 {
			m |= ParseModifiers(seq.Params[1])
		}
		res.Key = KeyEvent{Key: key, Ch: ch, Mod: m}
	}

	return res, nil
}

// escapeKey decodes a lone ESC or an "ESC x" pair.
func escapeKey(chars []rune, mod Modifier) KeyEvent {
	if len(chars) == 1 {
		return KeyEvent{Key: KeyEscape, Ch: chars[0], Mod: mod}
	}
	return metaKey(chars[1], mod)
}

func firstRune(s string) rune {
	for _, r := range s {
		return r
	}
	return 0
}
