package escseq

import (
	"bufio"
	"context"
	"io"
	"sync"
	"time"

	pdebug "github.com/lestrrat-go/pdebug"
	"github.com/pkg/errors"
)

// DefaultEscapeTimeout is how long a lone ESC waits for the rest of a
// sequence before it is reported on its own.
const DefaultEscapeTimeout = 50 * time.Millisecond

const bel = '\x07'

// Reader splits raw terminal input into chunks: either a single rune
// that is not part of an escape sequence, or one complete escape
// sequence starting with ESC.
type Reader struct {
	input   io.Reader
	timeout time.Duration
	chunkCh chan []rune

	mutex sync.Mutex
	err   error
}

// NewReader creates a Reader over input. A zero timeout selects
// DefaultEscapeTimeout.
func NewReader(input io.Reader, timeout time.Duration) *Reader {
	if timeout <= 0 {
		timeout = DefaultEscapeTimeout
	}
	return &Reader{
		input:   input,
		timeout: timeout,
		chunkCh: make(chan []rune, 16),
	}
}

// ChunkCh returns the channel chunks are delivered on. It is closed when
// Loop returns.
func (r *Reader) ChunkCh() <-chan []rune {
	return r.chunkCh
}

// Err returns the read error that ended the loop, if any. io.EOF is not
// reported.
func (r *Reader) Err() error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.err
}

func (r *Reader) setErr(err error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.err = err
}

// Loop keeps reading from the input until it is exhausted or ctx is
// canceled.
func (r *Reader) Loop(ctx context.Context, cancel func()) error {
	defer cancel()
	defer close(r.chunkCh)

	// ReadRune blocks, but the loop must be able to exit without
	// waiting for the next keystroke, so reading gets its own goroutine
	runeCh := make(chan rune)
	go func() {
		defer close(runeCh)
		br := bufio.NewReader(r.input)
		for {
			c, _, err := br.ReadRune()
			if err != nil {
				if err != io.EOF {
					r.setErr(errors.Wrap(err, "failed to read terminal input"))
				}
				return
			}
			select {
			case <-ctx.Done():
				return
			case runeCh <- c:
			}
		}
	}()

	s := splitter{}
	timer := time.NewTimer(r.timeout)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-timer.C:
			if pdebug.Enabled {
				pdebug.Printf("Reader: escape timeout with %q pending", string(s.pending))
			}
			if !r.emit(ctx, s.flush()) {
				return nil
			}
		case c, ok := <-runeCh:
			if !ok {
				r.emit(ctx, s.flush())
				return r.Err()
			}

			timer.Stop()
			for _, chunk := range s.feed(c) {
				if !r.emit(ctx, chunk) {
					return nil
				}
			}
			if s.inEscape() {
				timer.Reset(r.timeout)
			}
		}
	}
}

func (r *Reader) emit(ctx context.Context, chunk []rune) bool {
	if len(chunk) == 0 {
		return true
	}
	select {
	case <-ctx.Done():
		return false
	case r.chunkCh <- chunk:
		return true
	}
}

// splitter is the chunking state machine, kept apart from the I/O so
// it can be driven rune by rune.
type splitter struct {
	pending []rune
}

func (s *splitter) inEscape() bool {
	return len(s.pending) > 0
}

func (s *splitter) flush() []rune {
	chunk := s.pending
	s.pending = nil
	return chunk
}

// feed consumes one rune and returns the chunks it completes.
func (s *splitter) feed(c rune) [][]rune {
	if len(s.pending) == 0 {
		if c == ESC {
			s.pending = []rune{c}
			return nil
		}
		return [][]rune{{c}}
	}

	if len(s.pending) == 1 {
		switch c {
		case ESC:
			// ESC ESC: the first one stands alone
			chunk := s.flush()
			s.pending = []rune{c}
			return [][]rune{chunk}
		case '[', 'O', ']', 'P', '_', '^':
			s.pending = append(s.pending, c)
			return nil
		}
		s.pending = append(s.pending, c)
		return [][]rune{s.flush()}
	}

	s.pending = append(s.pending, c)
	switch s.pending[1] {
	case '[':
		if c >= 0x40 && c <= 0x7e {
			return [][]rune{s.flush()}
		}
	case 'O':
		return [][]rune{s.flush()}
	default:
		// string sequences end with BEL or ST (ESC \)
		prev := s.pending[len(s.pending)-2]
		if c == bel || (c == '\\' && prev == ESC) {
			return [][]rune{s.flush()}
		}
	}
	return nil
}
