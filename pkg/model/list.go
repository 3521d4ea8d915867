// Package model holds the editable, ordered list of hosts entries that a
// presentation layer binds to. The list keeps itself well-formed after every
// mutation: exactly one blank trailing row always exists to accept new
// input, and any other row that an edit leaves blank is pruned immediately.
package model

import "github.com/lhm-tools/lhm/pkg/hosts"

// Field identifies one editable cell column.
type Field int

const (
	FieldEnabled Field = iota
	FieldIP
	FieldHosts
)

// String returns the column name.
func (f Field) String() string {
	switch f {
	case FieldEnabled:
		return "enabled"
	case FieldIP:
		return "ip"
	case FieldHosts:
		return "hosts"
	default:
		return "unknown"
	}
}

// List is an ordered, mutable collection of entries with row-indexed field
// edits. It is not safe for concurrent use; all mutation is expected to
// happen on one goroutine.
type List struct {
	entries []hosts.Entry

	onCell   func(row int, field Field)
	onChange func()
}

// NewList creates a List seeded with the given entries and establishes the
// trailing blank row.
func NewList(entries []hosts.Entry) *List {
	l := &List{entries: append([]hosts.Entry(nil), entries...)}
	l.ensureTrailingBlank()
	return l
}

// OnCellChanged registers an observer invoked after every cell edit with the
// row and column that changed.
func (l *List) OnCellChanged(fn func(row int, field Field)) {
	l.onCell = fn
}

// OnChanged registers an observer invoked after every observable mutation,
// including bulk replaces. Dirtiness is derived from this signal.
func (l *List) OnChanged(fn func()) {
	l.onChange = fn
}

// Len returns the number of rows, including the trailing blank row.
func (l *List) Len() int {
	return len(l.entries)
}

// At returns the entry at row, reporting false when the row is out of range.
func (l *List) At(row int) (hosts.Entry, bool) {
	if row < 0 || row >= len(l.entries) {
		return hosts.Entry{}, false
	}
	return l.entries[row], true
}

// SetEnabled updates the enabled flag of the given row.
func (l *List) SetEnabled(row int, enabled bool) bool {
	return l.set(row, FieldEnabled, func(e *hosts.Entry) bool {
		if e.Enabled == enabled {
			return false
		}
		e.Enabled = enabled
		return true
	})
}

// SetIP updates the IP field of the given row.
func (l *List) SetIP(row int, ip string) bool {
	return l.set(row, FieldIP, func(e *hosts.Entry) bool {
		if e.IP == ip {
			return false
		}
		e.IP = ip
		return true
	})
}

// SetHosts updates the hostnames field of the given row.
func (l *List) SetHosts(row int, hostNames string) bool {
	return l.set(row, FieldHosts, func(e *hosts.Entry) bool {
		if e.Hosts == hostNames {
			return false
		}
		e.Hosts = hostNames
		return true
	})
}

// set applies one field edit and re-establishes the list invariants: a fresh
// trailing blank row is appended when the edit fills the current one, and
// rows the edit left blank are pruned. Reports whether anything changed.
func (l *List) set(row int, field Field, apply func(*hosts.Entry) bool) bool {
	if row < 0 || row >= len(l.entries) {
		return false
	}
	if !apply(&l.entries[row]) {
		return false
	}

	l.notifyCell(row, field)
	if row == len(l.entries)-1 && !l.entries[row].IsEmpty() {
		l.ensureTrailingBlank()
	}
	l.prune()
	l.notifyChange()
	return true
}

// Replace swaps in a new set of entries wholesale and re-establishes the
// trailing blank row. Observers receive a single change notification.
func (l *List) Replace(entries []hosts.Entry) {
	l.entries = append([]hosts.Entry(nil), entries...)
	l.ensureTrailingBlank()
	l.notifyChange()
}

// Export returns the non-blank rows in display order. The trailing sentinel
// row never appears in an export.
func (l *List) Export() []hosts.Entry {
	out := make([]hosts.Entry, 0, len(l.entries))
	for _, e := range l.entries {
		if !e.IsEmpty() {
			out = append(out, e)
		}
	}
	return out
}

// ensureTrailingBlank appends a blank row unless the list already ends with
// one. New blank rows start enabled so a freshly typed entry is active.
func (l *List) ensureTrailingBlank() {
	if n := len(l.entries); n == 0 || !l.entries[n-1].IsEmpty() {
		l.entries = append(l.entries, hosts.Entry{Enabled: true})
	}
}

// prune removes blank rows everywhere but the trailing position, preserving
// the relative order of the remaining rows.
func (l *List) prune() {
	kept := l.entries[:0]
	for i, e := range l.entries {
		if i < len(l.entries)-1 && e.IsEmpty() {
			continue
		}
		kept = append(kept, e)
	}
	l.entries = kept
}

func (l *List) notifyCell(row int, field Field) {
	if l.onCell != nil {
		l.onCell(row, field)
	}
}

func (l *List) notifyChange() {
	if l.onChange != nil {
		l.onChange()
	}
}
