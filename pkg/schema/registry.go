// Package schema holds the column schema of the metadata table: an ordered,
// duplicate-free, append-only list of column specs plus the semantic type
// vocabulary that decides widget shapes.
package schema

import (
	"strings"
	"sync"
)

// reservedNames are column names owned by the table chrome. They are never
// importable from a CSV header and never appear in the grouping selector.
// Matching is case-insensitive.
var reservedNames = map[string]struct{}{
	"actions": {},
	"sample":  {},
}

// IsReserved reports whether name belongs to the reserved set.
func IsReserved(name string) bool {
	_, ok := reservedNames[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

// ReservedNames returns the reserved set in lowercase form.
func ReservedNames() []string {
	out := make([]string, 0, len(reservedNames))
	for name := range reservedNames {
		out = append(out, name)
	}
	return out
}

// Watcher is notified after a column has been appended to the registry.
type Watcher func(added ColumnSpec)

// Registry is the single source of truth for the table's columns. Columns
// are appended in call order and never removed during a session. Name
// uniqueness is case-sensitive exact match.
type Registry struct {
	mu       sync.RWMutex
	columns  []ColumnSpec
	index    map[string]int
	watchers []Watcher
}

// NewRegistry constructs a registry seeded with the given columns. Seed
// duplicates are dropped silently so a misdeclared baseline cannot panic
// table construction.
func NewRegistry(initial ...ColumnSpec) *Registry {
	r := &Registry{index: make(map[string]int)}
	for _, spec := range initial {
		r.Add(spec.Name, spec.Type)
	}
	return r
}

// Add appends a column and reports whether it was new. A name already
// present (case-sensitive) or blank is a no-op returning false; no watcher
// fires for it.
func (r *Registry) Add(name string, typ ColumnType) bool {
	if strings.TrimSpace(name) == "" {
		return false
	}

	r.mu.Lock()
	if _, exists := r.index[name]; exists {
		r.mu.Unlock()
		return false
	}
	spec := ColumnSpec{Name: name, Type: typ}
	r.index[name] = len(r.columns)
	r.columns = append(r.columns, spec)
	watchers := append([]Watcher(nil), r.watchers...)
	r.mu.Unlock()

	for _, fn := range watchers {
		fn(spec)
	}
	return true
}

// Has reports whether the exact name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.index[name]
	return ok
}

// Len returns the number of registered columns.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.columns)
}

// Columns returns the registered specs in registration order. The slice is
// a copy.
func (r *Registry) Columns() []ColumnSpec {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]ColumnSpec(nil), r.columns...)
}

// IndexOf returns the position of name, or -1 when absent.
func (r *Registry) IndexOf(name string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if idx, ok := r.index[name]; ok {
		return idx
	}
	return -1
}

// Watch registers fn to run after every successful Add. Watchers run on the
// caller's goroutine, outside the registry lock, in registration order.
func (r *Registry) Watch(fn Watcher) {
	if fn == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.watchers = append(r.watchers, fn)
}
