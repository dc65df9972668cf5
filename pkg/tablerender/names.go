package tablerender

import "strings"

// FieldName derives the submit name of a column's widgets from its display
// name: lowercased, whitespace runs collapsed to single underscores. The
// server reassembles columnar data from these names, so the derivation must
// stay deterministic.
func FieldName(display string) string {
	fields := strings.Fields(strings.ToLower(display))
	return strings.Join(fields, "_")
}
