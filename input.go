package escseq

import (
	"context"
	"io"

	"github.com/escseq/escseq/hub"
	pdebug "github.com/lestrrat-go/pdebug"
	"github.com/pkg/errors"
)

// Handler consumes decoded input. Returning an error from any method
// stops Input.Loop with that error.
type Handler interface {
	HandleKey(context.Context, KeyEvent) error
	HandleMouse(context.Context, MouseEvent) error
	HandleResponse(context.Context, Sequence) error
	// HandleError receives sequences that could not be decoded.
	HandleError(context.Context, error) error
}

// HandlerFuncs adapts plain functions to Handler. A nil field ignores
// its events; a nil OnError ignores decode errors.
type HandlerFuncs struct {
	OnKey      func(context.Context, KeyEvent) error
	OnMouse    func(context.Context, MouseEvent) error
	OnResponse func(context.Context, Sequence) error
	OnError    func(context.Context, error) error
}

func (h HandlerFuncs) HandleKey(ctx context.Context, ev KeyEvent) error {
	if h.OnKey == nil {
		return nil
	}
	return h.OnKey(ctx, ev)
}

func (h HandlerFuncs) HandleMouse(ctx context.Context, ev MouseEvent) error {
	if h.OnMouse == nil {
		return nil
	}
	return h.OnMouse(ctx, ev)
}

func (h HandlerFuncs) HandleResponse(ctx context.Context, seq Sequence) error {
	if h.OnResponse == nil {
		return nil
	}
	return h.OnResponse(ctx, seq)
}

func (h HandlerFuncs) HandleError(ctx context.Context, err error) error {
	if h.OnError == nil {
		return nil
	}
	return h.OnError(ctx, err)
}

// Input is the single goroutine that owns a Decoder: it decodes chunks
// from a Reader and runs everything posted to the hub, so deferred
// mouse callbacks and decoding never overlap.
type Input struct {
	decoder *Decoder
	hub     *hub.Hub
	evsrc   <-chan []rune
	handler Handler
	output  io.Writer
}

// NewInput creates an Input. output receives terminal queries sent
// through the hub, and may be nil if none are sent.
func NewInput(d *Decoder, h *hub.Hub, src <-chan []rune, handler Handler, output io.Writer) *Input {
	return &Input{
		decoder: d,
		hub:     h,
		evsrc:   src,
		handler: handler,
		output:  output,
	}
}

// Loop runs until ctx is canceled, the chunk source is closed, or the
// handler returns an error.
func (i *Input) Loop(ctx context.Context, cancel func()) error {
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return nil
		case p := <-i.hub.InvokeCh():
			p.Data()()
			p.Done()
		case p := <-i.hub.QueryCh():
			err := i.sendQuery(p.Data())
			if err != nil {
				err = i.handler.HandleError(ctx, err)
			}
			p.Done()
			if err != nil {
				return err
			}
		case chunk, ok := <-i.evsrc:
			if !ok {
				return nil
			}
			if err := i.handleChunk(ctx, chunk); err != nil {
				return err
			}
		}
	}
}

func (i *Input) sendQuery(name string) error {
	q, err := LookupQuery(name)
	if err != nil {
		return err
	}
	if i.output == nil {
		return errors.Errorf("no output to send query %s to", name)
	}
	return i.decoder.Send(i.output, q)
}

func (i *Input) handleChunk(ctx context.Context, chunk []rune) error {
	if pdebug.Enabled {
		g := pdebug.Marker("input chunk received: %q", string(chunk))
		defer g.End()
	}

	if len(chunk) == 0 {
		return nil
	}

	if chunk[0] != ESC {
		for _, c := range chunk {
			if err := i.handler.HandleKey(ctx, KeyFromRune(c)); err != nil {
				return err
			}
		}
		return nil
	}

	res, err := i.decoder.Decode(chunk, ModNone)
	if err != nil {
		return i.handler.HandleError(ctx, err)
	}

	switch {
	case res.IsMouse:
		for _, ev := range res.Mouse {
			if err := i.handler.HandleMouse(ctx, ev); err != nil {
				return err
			}
		}
	case res.IsResponse:
		return i.handler.HandleResponse(ctx, res.Sequence)
	case !res.Key.IsNone():
		return i.handler.HandleKey(ctx, res.Key)
	}
	return nil
}
