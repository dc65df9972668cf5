// Package csvimport turns the header line of an uploaded metadata CSV into
// schema columns. Malformed content degrades to a partial or empty import,
// never an error that blocks the rest of the form.
package csvimport

import (
	"strings"

	"github.com/dnavi/metaform/pkg/schema"
)

// Importer feeds CSV header tokens into a schema registry.
type Importer struct {
	registry *schema.Registry
}

// New builds an importer over the registry.
func New(registry *schema.Registry) *Importer {
	return &Importer{registry: registry}
}

// ImportHeaders parses the first line of contents as comma-separated header
// tokens, trims each, drops reserved names (case-insensitive) and names
// already registered, and appends the rest as free-text columns. It returns
// exactly the names that were newly added, in header order, for downstream
// auto-selection.
//
// A file without a trailing newline, tokens with surrounding whitespace, a
// UTF-8 BOM, a line without commas and an empty line are all tolerated.
func (i *Importer) ImportHeaders(contents string) []string {
	header := Headers(contents)
	if len(header) == 0 {
		return nil
	}

	added := make([]string, 0, len(header))
	for _, name := range header {
		if schema.IsReserved(name) {
			continue
		}
		if i.registry.Add(name, schema.TypeText) {
			added = append(added, name)
		}
	}
	return added
}

// Headers extracts the trimmed, non-empty header tokens of the first line.
// Reserved names are kept; filtering is the importer's job.
func Headers(contents string) []string {
	contents = strings.TrimPrefix(contents, "\ufeff")
	line := contents
	if idx := strings.IndexAny(contents, "\r\n"); idx >= 0 {
		line = contents[:idx]
	}
	if strings.TrimSpace(line) == "" {
		return nil
	}

	tokens := strings.Split(line, ",")
	out := make([]string, 0, len(tokens))
	for _, token := range tokens {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		out = append(out, token)
	}
	return out
}
