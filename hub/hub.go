package hub

import (
	"context"
	"sync"

	pdebug "github.com/lestrrat-go/pdebug"
)

// NewPayload creates a new Payload with the given data and batch flag.
func NewPayload[T any](data T, batch bool) *Payload[T] {
	return &Payload[T]{
		data:  data,
		batch: batch,
	}
}

// Batch returns true if this payload is part of a batch operation.
func (p *Payload[T]) Batch() bool {
	return p.batch
}

// Data returns the underlying data.
func (p *Payload[T]) Data() T {
	return p.data
}

// Done marks the request as done. If Hub is operating in
// asynchronous mode (default), it's a no op. Otherwise it
// signals the sender that the payload has been processed.
func (p *Payload[T]) Done() {
	if p.done == nil {
		return
	}
	p.done <- struct{}{}
}

// New creates a new Hub struct
func New(bufsiz int) *Hub {
	return &Hub{
		invokeCh: make(chan *Payload[func()], bufsiz),
		queryCh:  make(chan *Payload[string], bufsiz),
		doneCh:   make(chan struct{}),
	}
}

type operationNameKey struct{}
type batchPayloadKey struct{}

// Batch allows you to synchronously send messages during the
// scope of f() being executed: every send waits until the receiver
// has called Done on the payload.
func (h *Hub) Batch(ctx context.Context, f func(ctx context.Context), shouldLock bool) {
	if pdebug.Enabled {
		g := pdebug.Marker("Batch (shouldLock=%t)", shouldLock)
		defer g.End()
	}

	if shouldLock {
		// lock during this operation
		h.mutex.Lock()
		defer h.mutex.Unlock()
	}

	f(context.WithValue(ctx, batchPayloadKey{}, true))
}

var doneChPool = sync.Pool{
	New: func() any {
		return make(chan struct{})
	},
}

func (p *Payload[T]) waitDone(closed <-chan struct{}) {
	ch := p.done
	select {
	case <-ch:
	case <-closed:
		// the receiver may never answer; the channel can't be reused
		p.done = nil
		return
	}
	p.done = nil
	doneChPool.Put(ch)
}

func isBatchCtx(ctx context.Context) bool {
	var isBatchMode bool
	v := ctx.Value(batchPayloadKey{})
	if vv, ok := v.(bool); ok {
		isBatchMode = vv
	}
	return isBatchMode
}

// send is the low-level generic utility for sending typed payloads.
// It gives up when the hub is closed or ctx is canceled.
func send[T any](ctx context.Context, h *Hub, ch chan *Payload[T], r *Payload[T]) bool {
	isBatchMode := isBatchCtx(ctx)
	if pdebug.Enabled {
		g := pdebug.Marker("hub.send (name=%s, isBatchMode=%t)", ctx.Value(operationNameKey{}), isBatchMode)
		defer g.End()
	}

	if isBatchMode {
		r.done = doneChPool.Get().(chan struct{})
	}

	select {
	case <-ctx.Done():
		return false
	case <-h.doneCh:
		return false
	case ch <- r:
	}

	if isBatchMode {
		if pdebug.Enabled {
			pdebug.Printf("request is part of batch operation. waiting")
		}
		r.waitDone(h.doneCh)
	}
	return true
}

// InvokeCh returns the channel for functions to run on the input goroutine
func (h *Hub) InvokeCh() chan *Payload[func()] {
	return h.invokeCh
}

// Invoke queues fn to be run on the input goroutine. It does not wait
// for fn to run unless called within Batch.
func (h *Hub) Invoke(fn func()) {
	h.SendInvoke(context.Background(), fn)
}

// SendInvoke is Invoke with a context, which may carry batch mode.
func (h *Hub) SendInvoke(ctx context.Context, fn func()) bool {
	return send(context.WithValue(ctx, operationNameKey{}, "invoke"), h, h.InvokeCh(), NewPayload(fn, isBatchCtx(ctx)))
}

// QueryCh returns the channel for terminal queries to be sent
func (h *Hub) QueryCh() chan *Payload[string] {
	return h.queryCh
}

// SendQuery asks the input goroutine to send the named terminal query
func (h *Hub) SendQuery(ctx context.Context, name string) bool {
	return send(context.WithValue(ctx, operationNameKey{}, "send query"), h, h.QueryCh(), NewPayload(name, isBatchCtx(ctx)))
}

// Close releases every sender blocked on the hub. Sends made after
// Close are dropped.
func (h *Hub) Close() {
	h.once.Do(func() { close(h.doneCh) })
}

// Done returns a channel that is closed by Close.
func (h *Hub) Done() <-chan struct{} {
	return h.doneCh
}
