package mock

import "sync"

// Interceptor records calls by name so tests can assert on what a
// component asked its collaborators to do.
type Interceptor struct {
	m      sync.Mutex
	Events map[string][]any
}

func NewInterceptor() *Interceptor {
	return &Interceptor{
		Events: make(map[string][]any),
	}
}

func (i *Interceptor) Reset() {
	i.m.Lock()
	defer i.m.Unlock()

	i.Events = make(map[string][]any)
}

func (i *Interceptor) Record(name string, args ...any) {
	i.m.Lock()
	defer i.m.Unlock()

	i.Events[name] = append(i.Events[name], args)
}

// Count returns how many times name was recorded.
func (i *Interceptor) Count(name string) int {
	i.m.Lock()
	defer i.m.Unlock()

	return len(i.Events[name])
}
