package tablerender

import (
	"html"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// RenderOptions carry per-render presentation state.
type RenderOptions struct {
	// TableClass is the class attribute of the <table> element.
	TableClass string
	// Theme supplies resolved theme tokens; its CSS variables are emitted
	// as an inline style on the table wrapper.
	Theme *theme.RendererConfig
}

// RenderHTML renders the projected table as an HTML fragment. All display
// names, values and options are escaped; option lists come from
// configuration but flow through the same escaping as remote data.
func RenderHTML(table Table, opts RenderOptions) []byte {
	var builder strings.Builder
	builder.Grow(256 + len(table.Rows)*len(table.Header)*96)

	builder.WriteString(`<div class="mf-table-wrapper"`)
	if style := cssVarsStyle(opts.Theme); style != "" {
		builder.WriteString(` style="`)
		builder.WriteString(html.EscapeString(style))
		builder.WriteString(`"`)
	}
	builder.WriteString(">")

	builder.WriteString(`<table class="`)
	if opts.TableClass != "" {
		builder.WriteString(html.EscapeString(opts.TableClass))
	} else {
		builder.WriteString("mf-table")
	}
	builder.WriteString(`"><thead><tr>`)
	for _, cell := range table.Header {
		builder.WriteString(`<th`)
		if cell.Actions {
			builder.WriteString(` class="mf-actions"`)
		}
		builder.WriteString(">")
		builder.WriteString(html.EscapeString(cell.Label))
		builder.WriteString("</th>")
	}
	builder.WriteString("</tr></thead><tbody>")

	for _, row := range table.Rows {
		builder.WriteString("<tr>")
		for _, widget := range row {
			builder.WriteString("<td>")
			writeWidget(&builder, widget)
			builder.WriteString("</td>")
		}
		// The actions cell is table chrome, not a widget.
		builder.WriteString(`<td class="mf-actions"></td>`)
		builder.WriteString("</tr>")
	}
	builder.WriteString("</tbody></table></div>")

	return []byte(builder.String())
}

func writeWidget(builder *strings.Builder, widget Widget) {
	switch widget.Kind {
	case WidgetSelect:
		builder.WriteString(`<select name="`)
		builder.WriteString(html.EscapeString(widget.Name))
		builder.WriteString(`">`)
		builder.WriteString(`<option value=""></option>`)
		for _, option := range widget.Options {
			escaped := html.EscapeString(option)
			builder.WriteString(`<option value="`)
			builder.WriteString(escaped)
			builder.WriteString(`"`)
			if option == widget.Value {
				builder.WriteString(" selected")
			}
			builder.WriteString(">")
			builder.WriteString(escaped)
			builder.WriteString("</option>")
		}
		builder.WriteString("</select>")
	default:
		builder.WriteString(`<input type="text" name="`)
		builder.WriteString(html.EscapeString(widget.Name))
		builder.WriteString(`" value="`)
		builder.WriteString(html.EscapeString(widget.Value))
		builder.WriteString(`">`)
	}
}

// cssVarsStyle flattens the theme's CSS variables into an inline style
// string, keys sorted for stable output.
func cssVarsStyle(cfg *theme.RendererConfig) string {
	if cfg == nil || len(cfg.CSSVars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(cfg.CSSVars))
	for key := range cfg.CSSVars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var builder strings.Builder
	for _, key := range keys {
		name := key
		if !strings.HasPrefix(name, "--") {
			name = "--" + name
		}
		builder.WriteString(name)
		builder.WriteString(":")
		builder.WriteString(cfg.CSSVars[key])
		builder.WriteString(";")
	}
	return builder.String()
}
