// Package tablerender projects the column schema and row data onto a widget
// tree and renders that tree as HTML. The projection is pure: the schema
// model stays independent of any rendering surface.
package tablerender

// Built-in widget kind identifiers.
const (
	WidgetText   = "text"
	WidgetSelect = "select"
)

// Widget is one rendered cell control.
type Widget struct {
	// Kind is a widget kind identifier, usually WidgetText or WidgetSelect.
	Kind string `json:"kind"`
	// Name is the derived submit name shared by the column's widgets.
	Name string `json:"name"`
	// Column is the column display name.
	Column string `json:"column"`
	// Options holds the fixed choices of a select widget.
	Options []string `json:"options,omitempty"`
	// Value pre-populates the control.
	Value string `json:"value,omitempty"`
}

// HeaderCell is one header entry of the projected table.
type HeaderCell struct {
	Label   string `json:"label"`
	Actions bool   `json:"actions,omitempty"`
}

// Table is the projected widget tree: one header cell per column plus the
// trailing actions cell, and one widget per column per data row.
type Table struct {
	Header []HeaderCell `json:"header"`
	Rows   [][]Widget   `json:"rows"`
}
