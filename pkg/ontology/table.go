// Package ontology routes metadata field keys to the ontology code used to
// scope a vocabulary search. The routing table is loaded once at startup and
// immutable afterwards; a failed load degrades to "no routing", never an
// error at lookup time.
package ontology

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"sort"
	"strings"
	"sync/atomic"
)

// entry is one fragment → code pair. Order matters: the first fragment
// contained in a field key wins.
type entry struct {
	fragment string
	code     string
}

// Table maps lowercase field-key fragments to ontology codes. A Table is
// built once and then published; readers always observe it either fully
// populated or empty, never in between.
type Table struct {
	entries []entry
}

// defaultEntries mirrors the routing conventions of the submission server.
// Fragments are matched in this order.
var defaultEntries = []entry{
	{"disease", "efo"},
	{"ethnicity", "efo"},
	{"anatomical", "uberon"},
	{"cell type", "cl"},
	{"phenotypic", "hp"},
	{"organism", "ncbitaxon"},
	{"condition", "ncit"},
	{"treatment", "dron"},
}

// DefaultTable returns the built-in routing table.
func DefaultTable() *Table {
	return &Table{entries: append([]entry(nil), defaultEntries...)}
}

// EmptyTable returns a table with no routes. Route over it always yields the
// router's default code.
func EmptyTable() *Table {
	return &Table{}
}

// NewTable builds a table from fragment → code pairs. Fragments are
// lowercased; blank fragments or codes are dropped. Insertion order is the
// JSON object key order only when built through ParseTable; maps passed here
// are ordered by fragment for determinism.
func NewTable(routes map[string]string) *Table {
	fragments := make([]string, 0, len(routes))
	for fragment := range routes {
		fragments = append(fragments, fragment)
	}
	sort.Strings(fragments)

	t := &Table{entries: make([]entry, 0, len(routes))}
	for _, fragment := range fragments {
		code := strings.TrimSpace(routes[fragment])
		fragment = strings.ToLower(strings.TrimSpace(fragment))
		if fragment == "" || code == "" {
			continue
		}
		t.entries = append(t.entries, entry{fragment: fragment, code: code})
	}
	return t
}

// ParseTable decodes a JSON object of fragment → code pairs, preserving the
// document's key order.
func ParseTable(data []byte) (*Table, error) {
	dec := json.NewDecoder(strings.NewReader(string(data)))

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("ontology: parse routing table: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("ontology: routing table must be a JSON object")
	}

	t := &Table{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("ontology: parse routing table: %w", err)
		}
		fragment, _ := keyTok.(string)

		var code string
		if err := dec.Decode(&code); err != nil {
			return nil, fmt.Errorf("ontology: routing table value for %q must be a string: %w", fragment, err)
		}

		fragment = strings.ToLower(strings.TrimSpace(fragment))
		code = strings.TrimSpace(code)
		if fragment == "" || code == "" {
			continue
		}
		t.entries = append(t.entries, entry{fragment: fragment, code: code})
	}
	return t, nil
}

// Len returns the number of routes.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Lookup scans the routes in insertion order and returns the code of the
// first fragment contained in the lowercased key.
func (t *Table) Lookup(key string) (string, bool) {
	if t == nil {
		return "", false
	}
	key = strings.ToLower(key)
	for _, e := range t.entries {
		if strings.Contains(key, e.fragment) {
			return e.code, true
		}
	}
	return "", false
}

// Store holds the process-wide routing table. Load publishes a table exactly
// once; later loads are ignored so a slow retry can never swap routes under
// live fields.
type Store struct {
	table  atomic.Pointer[Table]
	loaded atomic.Bool
}

// NewStore returns a store that serves the empty table until a load settles.
func NewStore() *Store {
	s := &Store{}
	s.table.Store(EmptyTable())
	return s
}

// Table returns the current table, never nil.
func (s *Store) Table() *Table {
	return s.table.Load()
}

// Loaded reports whether a load attempt has settled, successfully or not.
func (s *Store) Loaded() bool {
	return s.loaded.Load()
}

// Load publishes t as the process table. Only the first call wins.
func (s *Store) Load(t *Table) {
	if t == nil {
		t = EmptyTable()
	}
	if s.loaded.CompareAndSwap(false, true) {
		s.table.Store(t)
	}
}

// LoadFS reads and parses a routing table from fsys. Any failure settles the
// store on the empty table and returns the error for logging; Route callers
// are unaffected.
func (s *Store) LoadFS(fsys fs.FS, path string) error {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		s.Load(EmptyTable())
		return fmt.Errorf("ontology: read routing table %s: %w", path, err)
	}
	return s.loadBytes(data)
}

// LoadHTTP fetches and parses a routing table from a static URL. Failure
// semantics match LoadFS.
func (s *Store) LoadHTTP(ctx context.Context, client *http.Client, url string) error {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		s.Load(EmptyTable())
		return fmt.Errorf("ontology: routing table request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		s.Load(EmptyTable())
		return fmt.Errorf("ontology: fetch routing table: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		s.Load(EmptyTable())
		return fmt.Errorf("ontology: fetch routing table: unexpected status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		s.Load(EmptyTable())
		return fmt.Errorf("ontology: read routing table body: %w", err)
	}
	return s.loadBytes(data)
}

func (s *Store) loadBytes(data []byte) error {
	t, err := ParseTable(data)
	if err != nil {
		s.Load(EmptyTable())
		return err
	}
	s.Load(t)
	return nil
}
