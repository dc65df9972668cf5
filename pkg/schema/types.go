package schema

import "strings"

// ColumnType is the semantic tag deciding which widget a column renders as.
// The zero value is free text.
type ColumnType string

const (
	TypeText     ColumnType = ""
	TypeBool     ColumnType = "bool"
	TypePurpose  ColumnType = "purpose"
	TypeAssay    ColumnType = "assay"
	TypePatho    ColumnType = "patho"
	TypeStage    ColumnType = "stage"
	TypeStatus   ColumnType = "status"
	TypeOpt      ColumnType = "opt"
	TypeEquivoc  ColumnType = "equivoc"
	TypeGermline ColumnType = "germline"
)

// ParseType maps a raw catalog type string onto a ColumnType. Unknown or
// empty strings fall back to TypeText; a mismatched catalog entry must never
// fail the column it describes.
func ParseType(raw string) ColumnType {
	switch ColumnType(strings.ToLower(strings.TrimSpace(raw))) {
	case TypeBool:
		return TypeBool
	case TypePurpose:
		return TypePurpose
	case TypeAssay:
		return TypeAssay
	case TypePatho:
		return TypePatho
	case TypeStage:
		return TypeStage
	case TypeStatus:
		return TypeStatus
	case TypeOpt:
		return TypeOpt
	case TypeEquivoc:
		return TypeEquivoc
	case TypeGermline:
		return TypeGermline
	default:
		return TypeText
	}
}

// FixedChoice reports whether the type renders as a fixed-choice selector.
func (t ColumnType) FixedChoice() bool {
	return len(DefaultVocabulary()[t]) > 0
}

// Options returns the default option list for the type. Free-text types
// return nil. The slice is a copy; callers may mutate it.
func (t ColumnType) Options() []string {
	return DefaultVocabulary().Options(t)
}

// ColumnSpec is one column of the metadata table.
type ColumnSpec struct {
	Name string     `json:"name"`
	Type ColumnType `json:"type,omitempty"`
}
