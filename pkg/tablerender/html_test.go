package tablerender

import (
	"strings"
	"testing"

	theme "github.com/goliatone/go-theme"

	"github.com/dnavi/metaform/pkg/schema"
)

func TestRenderHTML_EscapesEverything(t *testing.T) {
	columns := []schema.ColumnSpec{{Name: `<b>Disease</b>`}}
	table := Project(columns, []Row{{`<b>Disease</b>`: `"quoted"`}})

	out := string(RenderHTML(table, RenderOptions{}))

	if strings.Contains(out, "<b>") {
		t.Fatalf("unescaped markup in output:\n%s", out)
	}
	if !strings.Contains(out, "&lt;b&gt;Disease&lt;/b&gt;") {
		t.Fatalf("expected escaped header label:\n%s", out)
	}
	if !strings.Contains(out, "&#34;quoted&#34;") {
		t.Fatalf("expected escaped value:\n%s", out)
	}
}

func TestRenderHTML_SelectMarksValue(t *testing.T) {
	columns := []schema.ColumnSpec{{Name: "Stage", Type: schema.TypeStage}}
	table := Project(columns, []Row{{"Stage": "Stage II"}})

	out := string(RenderHTML(table, RenderOptions{}))

	if !strings.Contains(out, `<option value="Stage II" selected>`) {
		t.Fatalf("expected selected option:\n%s", out)
	}
	if !strings.Contains(out, `<select name="stage">`) {
		t.Fatalf("expected derived select name:\n%s", out)
	}
}

func TestRenderHTML_ActionsCellPerRow(t *testing.T) {
	columns := []schema.ColumnSpec{{Name: "SAMPLE"}}
	table := Project(columns, []Row{{}, {}})

	out := string(RenderHTML(table, RenderOptions{}))

	if got := strings.Count(out, `<td class="mf-actions">`); got != 2 {
		t.Fatalf("expected one actions cell per row, got %d", got)
	}
	if got := strings.Count(out, `<th class="mf-actions">`); got != 1 {
		t.Fatalf("expected one actions header, got %d", got)
	}
}

func TestRenderHTML_ThemeCSSVars(t *testing.T) {
	table := Project(nil, nil)
	out := string(RenderHTML(table, RenderOptions{
		Theme: &theme.RendererConfig{
			CSSVars: map[string]string{"accent": "#336", "--gap": "4px"},
		},
	}))

	if !strings.Contains(out, "--accent:#336;") || !strings.Contains(out, "--gap:4px;") {
		t.Fatalf("expected css vars in wrapper style:\n%s", out)
	}
}
