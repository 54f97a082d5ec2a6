package escseq

import (
	"sync"

	"github.com/google/btree"
	pdebug "github.com/lestrrat-go/pdebug"
)

// PendingRequest is a snapshot of one outstanding terminal query, keyed
// by the terminator its reply is expected to end with.
type PendingRequest struct {
	Terminator  string
	Requested   int
	Outstanding int
}

type pendingRequest struct {
	terminator  string
	requested   int
	outstanding int
}

func lessPendingRequest(a, b *pendingRequest) bool {
	return a.terminator < b.terminator
}

// Requests is the ledger of queries sent to the terminal whose replies
// have not been consumed yet. It is safe for concurrent use: requests
// are typically registered by application code while replies are
// consumed by the input goroutine.
type Requests struct {
	mutex sync.Mutex
	tree  *btree.BTreeG[*pendingRequest]
}

// NewRequests creates an empty ledger.
func NewRequests() *Requests {
	return &Requests{
		tree: btree.NewG(8, lessPendingRequest),
	}
}

func (r *Requests) find(terminator string) (*pendingRequest, bool) {
	return r.tree.Get(&pendingRequest{terminator: terminator})
}

// Add records count outstanding replies ending in terminator. Adding to
// an existing entry never raises the outstanding count above the count
// the entry was created with.
func (r *Requests) Add(terminator string, count int) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	found, ok := r.find(terminator)
	if !ok {
		r.tree.ReplaceOrInsert(&pendingRequest{
			terminator:  terminator,
			requested:   count,
			outstanding: count,
		})
		if pdebug.Enabled {
			pdebug.Printf("Requests.Add: new entry %q (count=%d)", terminator, count)
		}
		return
	}

	if found.outstanding < found.requested {
		found.outstanding = min(found.outstanding+count, found.requested)
	}
	if pdebug.Enabled {
		pdebug.Printf("Requests.Add: %q outstanding=%d requested=%d", terminator, found.outstanding, found.requested)
	}
}

// HasResponse reports whether a reply ending in terminator is expected.
//
// BUG(escseq): an entry whose outstanding count has dropped to zero is
// deleted by this call, even though it only answers a question.
func (r *Requests) HasResponse(terminator string) bool {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	return r.hasResponse(terminator)
}

func (r *Requests) hasResponse(terminator string) bool {
	found, ok := r.find(terminator)
	if !ok {
		return false
	}
	if found.outstanding > 0 {
		return true
	}

	r.tree.Delete(found)
	return false
}

// Remove consumes one outstanding reply for terminator. The entry is
// deleted once nothing is outstanding. Unknown terminators are ignored.
func (r *Requests) Remove(terminator string) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.remove(terminator)
}

func (r *Requests) remove(terminator string) {
	found, ok := r.find(terminator)
	if !ok {
		return
	}

	if found.outstanding > 0 {
		found.outstanding--
	}
	if found.outstanding == 0 {
		r.tree.Delete(found)
	}
	if pdebug.Enabled {
		pdebug.Printf("Requests.Remove: %q outstanding=%d", terminator, found.outstanding)
	}
}

// consume performs HasResponse followed by Remove inside one critical
// section, so a concurrent Add cannot slip in between the two.
func (r *Requests) consume(terminator string) bool {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if !r.hasResponse(terminator) {
		return false
	}
	r.remove(terminator)
	return true
}

// Lookup returns a snapshot of the entry for terminator.
func (r *Requests) Lookup(terminator string) (PendingRequest, bool) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	found, ok := r.find(terminator)
	if !ok {
		return PendingRequest{}, false
	}
	return found.snapshot(), true
}

// Pending returns a snapshot of every entry, ordered by terminator.
func (r *Requests) Pending() []PendingRequest {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	list := make([]PendingRequest, 0, r.tree.Len())
	r.tree.Ascend(func(p *pendingRequest) bool {
		list = append(list, p.snapshot())
		return true
	})
	return list
}

// Len returns the number of terminators with an entry.
func (r *Requests) Len() int {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.tree.Len()
}

func (p *pendingRequest) snapshot() PendingRequest {
	return PendingRequest{
		Terminator:  p.terminator,
		Requested:   p.requested,
		Outstanding: p.outstanding,
	}
}
