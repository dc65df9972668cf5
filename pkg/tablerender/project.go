package tablerender

import "github.com/dnavi/metaform/pkg/schema"

// ActionsLabel is the fixed trailing header label of the actions column.
const ActionsLabel = "Actions"

// ProjectOptions configure a projection.
type ProjectOptions struct {
	// Registry resolves widget kinds. Defaults to the built-in registry.
	Registry *Registry
	// Vocabulary supplies option lists for fixed-choice types. Defaults to
	// the schema package's built-in vocabulary.
	Vocabulary schema.Vocabulary
}

// ProjectOptionFn mutates ProjectOptions.
type ProjectOptionFn func(*ProjectOptions)

// WithRegistry overrides the widget registry.
func WithRegistry(reg *Registry) ProjectOptionFn {
	return func(o *ProjectOptions) {
		if reg != nil {
			o.Registry = reg
		}
	}
}

// WithVocabulary overrides the option-set vocabulary.
func WithVocabulary(vocab schema.Vocabulary) ProjectOptionFn {
	return func(o *ProjectOptions) {
		if vocab != nil {
			o.Vocabulary = vocab
		}
	}
}

// Row is one data row's values keyed by column display name. Missing keys
// render as empty controls.
type Row map[string]string

// Project maps the schema and row data to the widget tree. Header cells
// follow registration order with the actions cell kept trailing, so a newly
// appended column always lands immediately before it. Every row gets exactly
// one widget per column.
func Project(columns []schema.ColumnSpec, rows []Row, fns ...ProjectOptionFn) Table {
	opts := ProjectOptions{}
	for _, fn := range fns {
		if fn != nil {
			fn(&opts)
		}
	}
	if opts.Registry == nil {
		opts.Registry = NewRegistry()
	}
	if opts.Vocabulary == nil {
		opts.Vocabulary = schema.DefaultVocabulary()
	}

	table := Table{
		Header: make([]HeaderCell, 0, len(columns)+1),
		Rows:   make([][]Widget, len(rows)),
	}
	for _, spec := range columns {
		table.Header = append(table.Header, HeaderCell{Label: spec.Name})
	}
	table.Header = append(table.Header, HeaderCell{Label: ActionsLabel, Actions: true})

	for i, row := range rows {
		cells := make([]Widget, 0, len(columns))
		for _, spec := range columns {
			cells = append(cells, buildWidget(spec, row[spec.Name], opts))
		}
		table.Rows[i] = cells
	}
	return table
}

// BuildWidget produces the widget for a single column cell. It backs the
// fan-out path when one column is appended to already rendered rows.
func BuildWidget(spec schema.ColumnSpec, value string, fns ...ProjectOptionFn) Widget {
	opts := ProjectOptions{}
	for _, fn := range fns {
		if fn != nil {
			fn(&opts)
		}
	}
	if opts.Registry == nil {
		opts.Registry = NewRegistry()
	}
	if opts.Vocabulary == nil {
		opts.Vocabulary = schema.DefaultVocabulary()
	}
	return buildWidget(spec, value, opts)
}

func buildWidget(spec schema.ColumnSpec, value string, opts ProjectOptions) Widget {
	widget := Widget{
		Kind:   opts.Registry.Resolve(spec),
		Name:   FieldName(spec.Name),
		Column: spec.Name,
		Value:  value,
	}
	if widget.Kind == WidgetSelect {
		widget.Options = opts.Vocabulary.Options(spec.Type)
		if len(widget.Options) == 0 {
			// A select without options cannot be filled in; fall back to
			// free text rather than rendering a dead control.
			widget.Kind = WidgetText
		}
	}
	return widget
}
