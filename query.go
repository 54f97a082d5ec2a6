package escseq

import (
	"io"
	"sort"

	"github.com/pkg/errors"
)

// CSI is the control sequence introducer.
const CSI = "\x1b["

// Terminal modes for SGR mouse reporting: any-event tracking, urxvt
// extended coordinates and SGR encoding.
const (
	EnableMouseEvents  = CSI + "?1003h" + CSI + "?1015h" + CSI + "?1006h"
	DisableMouseEvents = CSI + "?1003l" + CSI + "?1015l" + CSI + "?1006l"
)

// Query is a request sent to the terminal together with the terminator
// that ends the terminal's reply.
type Query struct {
	Name       string
	Sequence   string
	Terminator string
}

var (
	// QueryCursorPosition asks for a cursor position report, "CSI row;col R".
	QueryCursorPosition = Query{Name: "cursor-position", Sequence: CSI + "6n", Terminator: "R"}
	// QueryDeviceAttributes asks for the primary device attributes, "CSI ? ... c".
	QueryDeviceAttributes = Query{Name: "device-attributes", Sequence: CSI + "0c", Terminator: "c"}
	// QueryWindowSize asks for the text area size, "CSI 8;rows;cols t".
	QueryWindowSize = Query{Name: "window-size", Sequence: CSI + "18t", Terminator: "t"}
)

var queries = map[string]Query{
	QueryCursorPosition.Name:   QueryCursorPosition,
	QueryDeviceAttributes.Name: QueryDeviceAttributes,
	QueryWindowSize.Name:       QueryWindowSize,
}

// LookupQuery returns the query registered under name.
func LookupQuery(name string) (Query, error) {
	q, ok := queries[name]
	if !ok {
		return Query{}, errors.Errorf("no such query %s", name)
	}
	return q, nil
}

// QueryNames lists the names accepted by LookupQuery.
func QueryNames() []string {
	names := make([]string, 0, len(queries))
	for n := range queries {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Send registers q in the request ledger, then writes it to w.
func (d *Decoder) Send(w io.Writer, q Query) error {
	d.requests.Add(q.Terminator, 1)
	if _, err := io.WriteString(w, q.Sequence); err != nil {
		d.requests.Remove(q.Terminator)
		return errors.Wrapf(err, "failed to send query %s", q.Name)
	}
	return nil
}
