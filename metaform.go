// Package metaform assembles the metadata entry core of the DNAvi
// submission client: an ordered column schema, ontology-backed autocomplete
// controllers, CSV header import, grouping selection, and multipart
// submission assembly.
package metaform

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"

	theme "github.com/goliatone/go-theme"

	"github.com/dnavi/metaform/components/catalog"
	"github.com/dnavi/metaform/internal/baseline"
	"github.com/dnavi/metaform/pkg/autocomplete"
	"github.com/dnavi/metaform/pkg/csvimport"
	"github.com/dnavi/metaform/pkg/grouping"
	"github.com/dnavi/metaform/pkg/ontology"
	"github.com/dnavi/metaform/pkg/page"
	"github.com/dnavi/metaform/pkg/schema"
	"github.com/dnavi/metaform/pkg/submission"
	"github.com/dnavi/metaform/pkg/tablerender"
	"github.com/dnavi/metaform/pkg/termsearch"
)

// Option configures a Form before construction.
type Option func(*config)

type config struct {
	columns          []schema.ColumnSpec
	vocabulary       schema.Vocabulary
	store            *ontology.Store
	routerOpts       []ontology.RouterOption
	searcher         autocomplete.Searcher
	searchOpts       []termsearch.OptionFn
	controllerOpts   []autocomplete.OptionFn
	catalogURL       string
	exampleDNAURL    string
	exampleMetaURL   string
	httpClient       *http.Client
	theme            *theme.RendererConfig
	widgetRegistry   *tablerender.Registry
	disableBaseline  bool
	pageRenderer     page.Renderer
	pageRendererInit bool
}

// WithColumns replaces the baseline columns entirely.
func WithColumns(columns []schema.ColumnSpec) Option {
	return func(c *config) {
		c.columns = columns
		c.disableBaseline = true
	}
}

// WithVocabulary overrides the fixed-choice option sets.
func WithVocabulary(v schema.Vocabulary) Option {
	return func(c *config) { c.vocabulary = v }
}

// WithRoutingStore shares a routing table store with the Form.
func WithRoutingStore(store *ontology.Store) Option {
	return func(c *config) { c.store = store }
}

// WithRouterOptions forwards options to the ontology router.
func WithRouterOptions(opts ...ontology.RouterOption) Option {
	return func(c *config) { c.routerOpts = append(c.routerOpts, opts...) }
}

// WithSearcher replaces the term search client.
func WithSearcher(s autocomplete.Searcher) Option {
	return func(c *config) { c.searcher = s }
}

// WithSearchOptions forwards options to the default term search client.
func WithSearchOptions(opts ...termsearch.OptionFn) Option {
	return func(c *config) { c.searchOpts = append(c.searchOpts, opts...) }
}

// WithControllerOptions forwards options to every field controller the Form
// creates.
func WithControllerOptions(opts ...autocomplete.OptionFn) Option {
	return func(c *config) { c.controllerOpts = append(c.controllerOpts, opts...) }
}

// WithCatalogURL points LoadCatalog at a columns catalog endpoint.
func WithCatalogURL(url string) Option {
	return func(c *config) { c.catalogURL = url }
}

// WithExampleDataURLs points LoadExampleData at the static example files.
// The metadata file is fed through the CSV importer.
func WithExampleDataURLs(dnaURL, metadataURL string) Option {
	return func(c *config) {
		c.exampleDNAURL = dnaURL
		c.exampleMetaURL = metadataURL
	}
}

// WithHTTPClient overrides the transport used for catalog and example data
// fetches.
func WithHTTPClient(client *http.Client) Option {
	return func(c *config) { c.httpClient = client }
}

// WithTheme applies a go-theme renderer configuration to table rendering.
func WithTheme(cfg *theme.RendererConfig) Option {
	return func(c *config) { c.theme = cfg }
}

// WithWidgetRegistry overrides the widget matcher registry.
func WithWidgetRegistry(reg *tablerender.Registry) Option {
	return func(c *config) { c.widgetRegistry = reg }
}

// WithPageRenderer overrides the page template engine.
func WithPageRenderer(r page.Renderer) Option {
	return func(c *config) {
		c.pageRenderer = r
		c.pageRendererInit = true
	}
}

// Form ties the schema registry, the grouping view, per-field autocomplete
// controllers, and submission assembly together behind one manager.
type Form struct {
	registry   *schema.Registry
	vocabulary schema.Vocabulary
	importer   *csvimport.Importer
	view       *grouping.View
	store      *ontology.Store
	router     *ontology.Router
	searcher   autocomplete.Searcher

	controllerOpts []autocomplete.OptionFn
	widgetRegistry *tablerender.Registry
	theme          *theme.RendererConfig
	renderer       page.Renderer

	httpClient     *http.Client
	catalogURL     string
	exampleDNAURL  string
	exampleMetaURL string

	mu          sync.Mutex
	rows        []tablerender.Row
	files       []submission.File
	consent     bool
	controllers map[string]*autocomplete.Controller
}

// New builds a Form. Without WithColumns the baseline columns are parsed
// from the embedded submission document.
func New(ctx context.Context, options ...Option) (*Form, error) {
	cfg := &config{}
	for _, opt := range options {
		if opt != nil {
			opt(cfg)
		}
	}

	columns := cfg.columns
	if !cfg.disableBaseline {
		parsed, err := baseline.Columns(ctx)
		if err != nil {
			return nil, fmt.Errorf("metaform: baseline columns: %w", err)
		}
		columns = parsed
	}

	vocabulary := cfg.vocabulary
	if vocabulary == nil {
		vocabulary = schema.DefaultVocabulary()
	}

	store := cfg.store
	if store == nil {
		store = ontology.NewStore()
	}

	searcher := cfg.searcher
	if searcher == nil {
		searcher = termsearch.NewClient(cfg.searchOpts...)
	}

	renderer := cfg.pageRenderer
	if !cfg.pageRendererInit {
		engine, err := page.New()
		if err != nil {
			return nil, fmt.Errorf("metaform: page engine: %w", err)
		}
		renderer = engine
	}

	registry := schema.NewRegistry(columns...)
	form := &Form{
		registry:       registry,
		vocabulary:     vocabulary,
		importer:       csvimport.New(registry),
		view:           grouping.NewView(registry),
		store:          store,
		router:         ontology.NewRouter(store, cfg.routerOpts...),
		searcher:       searcher,
		controllerOpts: cfg.controllerOpts,
		widgetRegistry: cfg.widgetRegistry,
		theme:          cfg.theme,
		renderer:       renderer,
		httpClient:     cfg.httpClient,
		catalogURL:     cfg.catalogURL,
		exampleDNAURL:  cfg.exampleDNAURL,
		exampleMetaURL: cfg.exampleMetaURL,
		controllers:    make(map[string]*autocomplete.Controller),
	}
	return form, nil
}

// Registry exposes the column schema.
func (f *Form) Registry() *schema.Registry { return f.registry }

// Grouping exposes the grouping selector view.
func (f *Form) Grouping() *grouping.View { return f.view }

// RoutingStore exposes the ontology routing table store.
func (f *Form) RoutingStore() *ontology.Store { return f.store }

// AddColumn appends a column and reports whether it was new. Rendering picks
// the new column up for every existing row on the next projection.
func (f *Form) AddColumn(name string, typ schema.ColumnType) bool {
	return f.registry.Add(name, typ)
}

// ImportCSVHeaders feeds a file's header line through the importer and
// returns the newly added names. Any armed auto-select batch is consumed by
// the import and reset afterwards.
func (f *Form) ImportCSVHeaders(contents string) []string {
	added := f.importer.ImportHeaders(contents)
	f.view.ResetAutoSelect()
	return added
}

// LoadCatalog fetches the controlled column catalog and adds every entry.
// It returns how many columns were new.
func (f *Form) LoadCatalog(ctx context.Context) (int, error) {
	if f.catalogURL == "" {
		return 0, errors.New("metaform: no catalog URL configured")
	}
	client := catalog.NewClient(f.catalogURL, f.httpClient)
	entries, err := client.Fetch(ctx)
	if err != nil {
		return 0, err
	}
	added := 0
	for _, entry := range entries {
		if f.registry.Add(entry.ColumnName, schema.ParseType(entry.ColumnType)) {
			added++
		}
	}
	return added, nil
}

// LoadExampleData fetches the two static example files, imports the metadata
// file's headers with auto-selection, and stages both files for submission.
func (f *Form) LoadExampleData(ctx context.Context) ([]string, error) {
	if f.exampleDNAURL == "" || f.exampleMetaURL == "" {
		return nil, errors.New("metaform: no example data URLs configured")
	}

	dnaData, err := f.fetch(ctx, f.exampleDNAURL)
	if err != nil {
		return nil, fmt.Errorf("metaform: fetch example dna data: %w", err)
	}
	metaData, err := f.fetch(ctx, f.exampleMetaURL)
	if err != nil {
		return nil, fmt.Errorf("metaform: fetch example metadata: %w", err)
	}

	contents := string(metaData)
	f.view.MarkAutoSelect(csvimport.Headers(contents))
	added := f.ImportCSVHeaders(contents)

	f.mu.Lock()
	f.files = append(f.files,
		submission.File{Field: "dna_data", Name: "example_dna.csv", Content: dnaData},
		submission.File{Field: "metadata", Name: "example_metadata.csv", Content: metaData},
	)
	f.mu.Unlock()

	return added, nil
}

func (f *Form) fetch(ctx context.Context, url string) ([]byte, error) {
	client := f.httpClient
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// BindField returns the autocomplete controller for a column, creating it on
// first use. The overlay and surface are wired only at creation.
func (f *Form) BindField(name string, overlay autocomplete.Overlay, surface autocomplete.Surface) *autocomplete.Controller {
	f.mu.Lock()
	defer f.mu.Unlock()

	if ctrl, ok := f.controllers[name]; ok {
		return ctrl
	}
	ctrl := autocomplete.NewController(name, f.searcher, f.router, overlay, surface, f.controllerOpts...)
	f.controllers[name] = ctrl
	return ctrl
}

// ReleaseField destroys the controller for a column, if any.
func (f *Form) ReleaseField(name string) {
	f.mu.Lock()
	ctrl, ok := f.controllers[name]
	delete(f.controllers, name)
	f.mu.Unlock()

	if ok {
		ctrl.Close()
	}
}

// AddRow appends an empty data row and returns its index.
func (f *Form) AddRow() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows = append(f.rows, tablerender.Row{})
	return len(f.rows) - 1
}

// SetValue records a cell value. Unknown rows or columns are ignored.
func (f *Form) SetValue(row int, column, value string) {
	if !f.registry.Has(column) {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if row < 0 || row >= len(f.rows) {
		return
	}
	f.rows[row][column] = value
}

// Rows returns a copy of the data rows.
func (f *Form) Rows() []tablerender.Row {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]tablerender.Row, len(f.rows))
	for i, row := range f.rows {
		cloned := make(tablerender.Row, len(row))
		for k, v := range row {
			cloned[k] = v
		}
		out[i] = cloned
	}
	return out
}

// SetConsent records the save-to-database preference.
func (f *Form) SetConsent(consent bool) {
	f.mu.Lock()
	f.consent = consent
	f.mu.Unlock()
}

// Consent reports the save-to-database preference.
func (f *Form) Consent() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.consent
}

// AddFile stages an upload for the next submission.
func (f *Form) AddFile(field, name string, content []byte) {
	f.mu.Lock()
	f.files = append(f.files, submission.File{Field: field, Name: name, Content: content})
	f.mu.Unlock()
}

// RenderTable projects the current schema and rows to table markup.
func (f *Form) RenderTable() []byte {
	fns := []tablerender.ProjectOptionFn{tablerender.WithVocabulary(f.vocabulary)}
	if f.widgetRegistry != nil {
		fns = append(fns, tablerender.WithRegistry(f.widgetRegistry))
	}
	table := tablerender.Project(f.registry.Columns(), f.Rows(), fns...)
	return tablerender.RenderHTML(table, tablerender.RenderOptions{Theme: f.theme})
}

// RenderPage renders the full metadata entry page.
func (f *Form) RenderPage(title string) (string, error) {
	return page.RenderForm(f.renderer, page.FormData{
		Title:     title,
		TableHTML: string(f.RenderTable()),
		Grouping:  f.view.Checkboxes(),
		Consent:   f.Consent(),
	})
}

// BuildSubmission assembles the multipart submission body and returns the
// body, its content type, and the submission id.
func (f *Form) BuildSubmission() ([]byte, string, string, error) {
	f.mu.Lock()
	files := append([]submission.File(nil), f.files...)
	consent := f.consent
	f.mu.Unlock()

	builder := submission.NewBuilder().
		WithColumns(f.registry.Columns()).
		WithRows(f.Rows()).
		WithGrouping(f.view.Selected()).
		WithConsent(consent)
	for _, file := range files {
		builder.AddFile(file.Field, file.Name, file.Content)
	}

	body, contentType, err := builder.Build()
	if err != nil {
		return nil, "", "", err
	}
	return body, contentType, builder.ID(), nil
}

// Close releases every field controller.
func (f *Form) Close() {
	f.mu.Lock()
	controllers := make([]*autocomplete.Controller, 0, len(f.controllers))
	for _, ctrl := range f.controllers {
		controllers = append(controllers, ctrl)
	}
	f.controllers = make(map[string]*autocomplete.Controller)
	f.mu.Unlock()

	for _, ctrl := range controllers {
		ctrl.Close()
	}
}
