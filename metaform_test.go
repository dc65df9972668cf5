package metaform

import (
	"context"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dnavi/metaform/components/catalog"
	"github.com/dnavi/metaform/pkg/schema"
)

func newTestForm(t *testing.T, options ...Option) *Form {
	t.Helper()
	form, err := New(context.Background(), options...)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	t.Cleanup(form.Close)
	return form
}

func TestNew_SeedsBaselineColumns(t *testing.T) {
	form := newTestForm(t)

	var names []string
	for _, col := range form.Registry().Columns() {
		names = append(names, col.Name)
	}
	want := []string{"Sample", "Subject ID", "Disease", "Anatomical location", "Status"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Fatalf("baseline columns mismatch (-want +got):\n%s", diff)
	}
}

func TestAddColumn_DuplicateIsNoOp(t *testing.T) {
	form := newTestForm(t)

	if !form.AddColumn("Smoking status", schema.TypeOpt) {
		t.Fatalf("expected new column to be added")
	}
	if form.AddColumn("Smoking status", schema.TypeOpt) {
		t.Fatalf("expected duplicate add to report false")
	}
}

func TestLoadCatalog_AddsTypedColumns(t *testing.T) {
	srv := httptest.NewServer(catalog.NewHandler(catalog.WithEntries([]catalog.Entry{
		{ColumnName: "Tumour stage", ColumnType: "stage"},
		{ColumnName: "Disease"},
	})))
	defer srv.Close()

	form := newTestForm(t, WithCatalogURL(srv.URL))

	added, err := form.LoadCatalog(context.Background())
	if err != nil {
		t.Fatalf("LoadCatalog returned error: %v", err)
	}
	if added != 1 {
		t.Fatalf("expected 1 new column (Disease already present), got %d", added)
	}
	idx := form.Registry().IndexOf("Tumour stage")
	if idx == -1 {
		t.Fatalf("expected Tumour stage column")
	}
	if got := form.Registry().Columns()[idx].Type; got != schema.TypeStage {
		t.Fatalf("expected stage type, got %q", got)
	}
}

func TestLoadExampleData_ImportsAndAutoSelects(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/dna.csv", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("size,intensity\n100,0.4\n"))
	})
	mux.HandleFunc("/metadata.csv", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("Sample,Treatment,Collection date\n"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	form := newTestForm(t, WithExampleDataURLs(srv.URL+"/dna.csv", srv.URL+"/metadata.csv"))

	added, err := form.LoadExampleData(context.Background())
	if err != nil {
		t.Fatalf("LoadExampleData returned error: %v", err)
	}
	want := []string{"Treatment", "Collection date"}
	if diff := cmp.Diff(want, added); diff != "" {
		t.Fatalf("added names mismatch (-want +got):\n%s", diff)
	}

	checked := map[string]bool{}
	for _, box := range form.Grouping().Checkboxes() {
		checked[box.Value] = box.Checked
	}
	if !checked["Treatment"] || !checked["Collection date"] {
		t.Fatalf("expected imported example columns auto-selected, got %#v", checked)
	}
	if checked["Disease"] {
		t.Fatalf("expected untouched columns to stay unselected")
	}

	// A later import must not inherit the consumed auto-select batch.
	later := form.ImportCSVHeaders("Batch number\n")
	if diff := cmp.Diff([]string{"Batch number"}, later); diff != "" {
		t.Fatalf("later import mismatch (-want +got):\n%s", diff)
	}
	for _, box := range form.Grouping().Checkboxes() {
		if box.Value == "Batch number" && box.Checked {
			t.Fatalf("expected Batch number to stay unselected after reset")
		}
	}
}

func TestSetValue_IgnoresUnknownRowAndColumn(t *testing.T) {
	form := newTestForm(t)

	row := form.AddRow()
	form.SetValue(row, "Disease", "Lung cancer (MONDO:0008903)")
	form.SetValue(row, "No such column", "x")
	form.SetValue(99, "Disease", "x")

	rows := form.Rows()
	if len(rows) != 1 {
		t.Fatalf("expected one row, got %d", len(rows))
	}
	if got := rows[0]["Disease"]; got != "Lung cancer (MONDO:0008903)" {
		t.Fatalf("unexpected cell value %q", got)
	}
	if _, ok := rows[0]["No such column"]; ok {
		t.Fatalf("unexpected value for unknown column")
	}
}

func TestRenderPage_IncludesTableAndGrouping(t *testing.T) {
	form := newTestForm(t)
	form.AddRow()
	form.SetConsent(true)

	html, err := form.RenderPage("Metaform")
	if err != nil {
		t.Fatalf("RenderPage returned error: %v", err)
	}
	if !strings.Contains(html, "<title>Metaform</title>") {
		t.Fatalf("expected page title, got:\n%s", html)
	}
	if !strings.Contains(html, "Subject ID") {
		t.Fatalf("expected table header in page, got:\n%s", html)
	}
	if !strings.Contains(html, `name="metadata_group_columns_checkbox"`) {
		t.Fatalf("expected grouping checkboxes, got:\n%s", html)
	}
	if !strings.Contains(html, `<option value="yes" selected`) {
		t.Fatalf("expected consent selection, got:\n%s", html)
	}
}

func TestBuildSubmission_ConsentExactlyOnce(t *testing.T) {
	form := newTestForm(t)
	row := form.AddRow()
	form.SetValue(row, "Subject ID", "S1")
	form.SetConsent(false)
	form.AddFile("metadata", "meta.csv", []byte("Sample\n"))

	body, contentType, id, err := form.BuildSubmission()
	if err != nil {
		t.Fatalf("BuildSubmission returned error: %v", err)
	}
	if id == "" {
		t.Fatalf("expected a submission id")
	}

	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		t.Fatalf("failed to parse content type: %v", err)
	}
	reader := multipart.NewReader(strings.NewReader(string(body)), params["boundary"])
	parsed, err := reader.ReadForm(1 << 20)
	if err != nil {
		t.Fatalf("failed to parse multipart body: %v", err)
	}
	defer parsed.RemoveAll()

	if got := parsed.Value["save_to_db"]; len(got) != 1 || got[0] != "no" {
		t.Fatalf("expected consent part [no], got %#v", got)
	}
	if got := parsed.Value["subject_id"]; len(got) != 1 || got[0] != "S1" {
		t.Fatalf("expected subject_id part, got %#v", got)
	}
	if files := parsed.File["metadata"]; len(files) != 1 || files[0].Filename != "meta.csv" {
		t.Fatalf("expected metadata file part, got %#v", parsed.File)
	}
}

func TestBindField_ReturnsCachedController(t *testing.T) {
	form := newTestForm(t)

	first := form.BindField("Disease", nil, nil)
	second := form.BindField("Disease", nil, nil)
	if first != second {
		t.Fatalf("expected cached controller for the same field")
	}

	form.ReleaseField("Disease")
	third := form.BindField("Disease", nil, nil)
	if third == first {
		t.Fatalf("expected a fresh controller after release")
	}
}
