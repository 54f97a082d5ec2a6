package sig

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	pdebug "github.com/lestrrat-go/pdebug"
)

type ReceivedHandler interface {
	Handle(context.Context, os.Signal)
}

type ReceivedHandlerFunc func(context.Context, os.Signal)

// Handle calls the underlying function with the received signal.
func (s ReceivedHandlerFunc) Handle(ctx context.Context, sig os.Signal) {
	s(ctx, sig)
}

type Handler struct {
	onSignalReceived ReceivedHandler
	sigCh            chan os.Signal
	stopSigs         map[os.Signal]struct{}
}

// New creates a new signal handler that forwards the specified signals
// (default: SIGTERM, SIGINT, SIGHUP) to h. Any of SIGTERM, SIGINT and
// SIGHUP among them also ends the loop once h has seen it.
func New(h ReceivedHandler, sigs ...os.Signal) *Handler {
	if len(sigs) == 0 {
		sigs = append(sigs, syscall.SIGTERM, syscall.SIGINT, syscall.SIGHUP)
	}

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, sigs...)

	stop := make(map[os.Signal]struct{})
	for _, s := range sigs {
		switch s {
		case syscall.SIGTERM, syscall.SIGINT, syscall.SIGHUP:
			stop[s] = struct{}{}
		}
	}

	return &Handler{
		onSignalReceived: h,
		sigCh:            ch,
		stopSigs:         stop,
	}
}

// Loop listens for OS signals and invokes the handler for each one. It
// returns after a terminating signal has been handled, or when ctx is
// canceled.
func (h *Handler) Loop(ctx context.Context, cancel func()) error {
	defer cancel()
	defer signal.Stop(h.sigCh)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case sig := <-h.sigCh:
			if pdebug.Enabled {
				pdebug.Printf("sig.Handler: received %s", sig)
			}
			h.onSignalReceived.Handle(ctx, sig)
			if _, ok := h.stopSigs[sig]; ok {
				return nil
			}
		}
	}
}
