package page

import (
	"strings"
	"testing"

	"github.com/dnavi/metaform/pkg/grouping"
)

func TestEngine_RenderString(t *testing.T) {
	engine, err := New()
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	got, err := engine.RenderString("Hello {{ name }}", map[string]any{"name": "world"})
	if err != nil {
		t.Fatalf("RenderString returned error: %v", err)
	}
	if got != "Hello world" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestEngine_RenderDetectsInlineContent(t *testing.T) {
	engine, err := New()
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	got, err := engine.Render("{{ value }}", map[string]any{"value": "inline"})
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if got != "inline" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestEngine_FieldNameFilter(t *testing.T) {
	engine, err := New()
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	got, err := engine.RenderString("{{ label|field_name }}", map[string]any{"label": "Subject ID"})
	if err != nil {
		t.Fatalf("RenderString returned error: %v", err)
	}
	if got != "subject_id" {
		t.Fatalf("expected subject_id, got %q", got)
	}
}

func TestEngine_YesNoFilter(t *testing.T) {
	engine, err := New()
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	got, err := engine.RenderString("{{ flag|yesno }}", map[string]any{"flag": true})
	if err != nil {
		t.Fatalf("RenderString returned error: %v", err)
	}
	if got != "yes" {
		t.Fatalf("expected yes, got %q", got)
	}

	got, err = engine.RenderString("{{ flag|yesno }}", map[string]any{"flag": false})
	if err != nil {
		t.Fatalf("RenderString returned error: %v", err)
	}
	if got != "no" {
		t.Fatalf("expected no, got %q", got)
	}
}

func TestEngine_GlobalContext(t *testing.T) {
	engine, err := New(WithGlobalData(map[string]any{"site": "dnavi"}))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	got, err := engine.RenderString("{{ site }}", nil)
	if err != nil {
		t.Fatalf("RenderString returned error: %v", err)
	}
	if got != "dnavi" {
		t.Fatalf("expected global data applied, got %q", got)
	}
}

func TestRenderForm_EmbeddedTemplate(t *testing.T) {
	engine, err := New()
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	html, err := RenderForm(engine, FormData{
		TableHTML: `<table class="mf-table"></table>`,
		Grouping: []grouping.Checkbox{
			{Value: "Disease", Checked: true},
			{Value: "Status"},
		},
		Consent: true,
	})
	if err != nil {
		t.Fatalf("RenderForm returned error: %v", err)
	}

	if !strings.Contains(html, `<table class="mf-table"></table>`) {
		t.Fatalf("expected table markup injected unescaped, got:\n%s", html)
	}
	if !strings.Contains(html, `name="metadata_group_columns_checkbox" value="Disease" checked`) {
		t.Fatalf("expected checked Disease checkbox, got:\n%s", html)
	}
	if !strings.Contains(html, `value="Status"`) || strings.Contains(html, `value="Status" checked`) {
		t.Fatalf("expected unchecked Status checkbox, got:\n%s", html)
	}
	if !strings.Contains(html, `name="save_to_db"`) {
		t.Fatalf("expected consent select, got:\n%s", html)
	}
	if !strings.Contains(html, `<option value="yes" selected`) {
		t.Fatalf("expected consent yes selected, got:\n%s", html)
	}
	if !strings.Contains(html, "<title>Sample metadata</title>") {
		t.Fatalf("expected default title, got:\n%s", html)
	}
}

func TestEngine_RenderTemplate_MissingTemplate(t *testing.T) {
	engine, err := New()
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	if _, err := engine.RenderTemplate("missing", nil); err == nil {
		t.Fatalf("expected error for missing template")
	}
}
