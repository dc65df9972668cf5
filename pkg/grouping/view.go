// Package grouping derives the "group by" checkbox list from the column
// schema. The view is rebuilt on every schema change and mirrors the
// registry minus the reserved set.
package grouping

import (
	"strings"
	"sync"

	"github.com/dnavi/metaform/pkg/schema"
)

// CheckboxName is the submit name shared by all grouping checkboxes.
const CheckboxName = "metadata_group_columns_checkbox"

// Checkbox is one entry of the selector view.
type Checkbox struct {
	// Value is the column display name the checkbox stands for.
	Value string `json:"value"`
	// Checked marks the column as selected for aggregation.
	Checked bool `json:"checked"`
}

// View is the grouping selector. It watches a registry and rebuilds its
// checkbox list whenever a column is appended.
type View struct {
	registry *schema.Registry

	mu         sync.Mutex
	boxes      []Checkbox
	autoSelect map[string]struct{} // lowercase names, consumed by one rebuild
}

// NewView builds the selector over the registry and subscribes to schema
// changes. The initial list reflects the registry's current columns.
func NewView(registry *schema.Registry) *View {
	v := &View{registry: registry}
	registry.Watch(func(schema.ColumnSpec) { v.Rebuild() })
	v.Rebuild()
	return v
}

// Checkboxes returns the current list in schema order. The slice is a copy.
func (v *View) Checkboxes() []Checkbox {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]Checkbox(nil), v.boxes...)
}

// Selected returns the values of all checked boxes in schema order.
func (v *View) Selected() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]string, 0, len(v.boxes))
	for _, box := range v.boxes {
		if box.Checked {
			out = append(out, box.Value)
		}
	}
	return out
}

// SetChecked records manual checkbox state. Unknown values are ignored.
func (v *View) SetChecked(value string, checked bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for i := range v.boxes {
		if v.boxes[i].Value == value {
			v.boxes[i].Checked = checked
			return
		}
	}
}

// MarkAutoSelect arms a one-shot batch of names to check during rebuilds.
// Matching is case-insensitive. A CSV import triggers one rebuild per added
// column, so the batch stays armed across them; the importer's caller resets
// it with ResetAutoSelect once the import finished. Used when example data
// is loaded so the imported columns arrive pre-selected.
func (v *View) MarkAutoSelect(names []string) {
	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if name != "" {
			set[name] = struct{}{}
		}
	}
	v.mu.Lock()
	v.autoSelect = set
	v.mu.Unlock()
}

// ResetAutoSelect disarms the auto-select batch. Checked state applied by
// earlier rebuilds stands.
func (v *View) ResetAutoSelect() {
	v.mu.Lock()
	v.autoSelect = nil
	v.mu.Unlock()
}

// Rebuild recomputes the checkbox list from the registry minus the reserved
// set. Manual checked state survives for columns whose names persist; an
// armed auto-select batch checks every matching column.
func (v *View) Rebuild() {
	columns := v.registry.Columns()

	v.mu.Lock()
	defer v.mu.Unlock()

	previous := make(map[string]bool, len(v.boxes))
	for _, box := range v.boxes {
		previous[box.Value] = box.Checked
	}

	boxes := make([]Checkbox, 0, len(columns))
	for _, spec := range columns {
		if schema.IsReserved(spec.Name) {
			continue
		}
		checked := previous[spec.Name]
		if _, auto := v.autoSelect[strings.ToLower(spec.Name)]; auto {
			checked = true
		}
		boxes = append(boxes, Checkbox{Value: spec.Name, Checked: checked})
	}
	v.boxes = boxes
}
