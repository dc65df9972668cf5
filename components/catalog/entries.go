package catalog

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"sync"
)

//go:embed data/columns.csv
var embeddedColumns []byte

var (
	defaultOnce    sync.Once
	defaultEntries []Entry
)

// DefaultEntries returns the stock catalog parsed from the embedded CSV
// resource. The returned slice is a copy.
func DefaultEntries() []Entry {
	defaultOnce.Do(func() {
		entries, err := ParseCSV(embeddedColumns)
		if err != nil {
			// The embedded resource is validated by tests; an empty
			// catalog beats a panic at init time.
			entries = nil
		}
		defaultEntries = entries
	})
	out := make([]Entry, len(defaultEntries))
	copy(out, defaultEntries)
	return out
}

// ParseCSV reads a two-column catalog file. The first row is a header and is
// skipped. Rows with a blank name are dropped; a missing type column means
// free text.
func ParseCSV(data []byte) ([]Entry, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var entries []Entry
	first := true
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("catalog: parse csv: %w", err)
		}
		if first {
			first = false
			continue
		}
		if len(record) == 0 {
			continue
		}
		name := strings.TrimSpace(record[0])
		if name == "" {
			continue
		}
		typ := ""
		if len(record) > 1 {
			typ = strings.TrimSpace(record[1])
		}
		entries = append(entries, Entry{ColumnName: name, ColumnType: typ})
	}
	return entries, nil
}
