package hub

import "sync"

// Hub acts as the messaging hub between the goroutines that want work
// done and the single input goroutine that does it. Everything sent
// through a Hub is executed by whoever drains its channels, one payload
// at a time.
type Hub struct {
	mutex    sync.Mutex
	invokeCh chan *Payload[func()]
	queryCh  chan *Payload[string]
	doneCh   chan struct{}
	once     sync.Once
}

// Payload is a wrapper around the actual request value that needs
// to be passed. It contains an optional channel field which can
// be filled to force synchronous communication between the
// sender and receiver
type Payload[T any] struct {
	data  T
	batch bool
	done  chan struct{}
}
