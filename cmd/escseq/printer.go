package main

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/escseq/escseq"
	"github.com/mattn/go-runewidth"
	"github.com/pkg/errors"
)

var errQuit = errors.New("quit requested")

const (
	kindWidth    = 10
	defaultWidth = 80
)

// printer writes one line per decoded event. The terminal is in raw
// mode, so lines end in CRLF.
type printer struct {
	mutex sync.Mutex
	w     io.Writer
	width int
}

func newPrinter(w io.Writer) *printer {
	return &printer{w: w, width: defaultWidth}
}

func (p *printer) line(kind, detail string) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	room := p.width - kindWidth - 1
	if room < 1 {
		room = 1
	}
	_, err := fmt.Fprintf(p.w, "%s %s\r\n",
		runewidth.FillRight(kind, kindWidth),
		runewidth.Truncate(detail, room, "…"),
	)
	return errors.Wrap(err, "failed to print event")
}

func isQuit(ev escseq.KeyEvent) bool {
	switch {
	case ev.Key == escseq.KeyRune && ev.Ch == 'q' && ev.Mod == escseq.ModNone:
		return true
	case ev.Key == escseq.KeyC && ev.Mod == escseq.ModCtrl:
		return true
	}
	return false
}

func (p *printer) HandleKey(_ context.Context, ev escseq.KeyEvent) error {
	if isQuit(ev) {
		return errQuit
	}

	detail := ev.String()
	if tev, ok := ev.TcellEvent(); ok {
		detail += fmt.Sprintf(" (tcell %s)", tev.Name())
	}
	return p.line("key", detail)
}

func (p *printer) HandleMouse(_ context.Context, ev escseq.MouseEvent) error {
	return p.line("mouse", ev.String())
}

func (p *printer) HandleResponse(_ context.Context, seq escseq.Sequence) error {
	// CSI 8;rows;cols t
	if seq.Terminator == "t" && seq.Param(0) == "8" {
		if cols, ok := seq.Int(2); ok && cols > 0 {
			p.mutex.Lock()
			p.width = cols
			p.mutex.Unlock()
		}
	}
	return p.line("response", seq.String())
}

func (p *printer) HandleError(_ context.Context, err error) error {
	return p.line("error", err.Error())
}

// continuousPress runs on the input goroutine while a button is held.
func (p *printer) continuousPress(flags escseq.MouseFlags, pos escseq.Point) {
	_ = p.line("held", escseq.MouseEvent{Flags: flags, Position: pos}.String())
}
