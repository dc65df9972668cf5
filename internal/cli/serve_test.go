package cli

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	metaform "github.com/dnavi/metaform"
	"github.com/dnavi/metaform/internal/cli/config"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newServeForm(t *testing.T) *metaform.Form {
	t.Helper()
	form, err := metaform.New(context.Background())
	require.NoError(t, err)
	t.Cleanup(form.Close)
	return form
}

func TestJoinPath(t *testing.T) {
	assert.Equal(t, "/", joinPath("", "/"))
	assert.Equal(t, "/", joinPath("/", "/"))
	assert.Equal(t, "/forms", joinPath("/forms", "/"))
	assert.Equal(t, "/forms/x", joinPath("/forms", "/x"))
}

func TestLoadRouting(t *testing.T) {
	form, err := metaform.New(context.Background())
	require.NoError(t, err)
	defer form.Close()

	require.NoError(t, loadRouting(form, []byte(`{"disease":"efo"}`)))
	assert.True(t, form.RoutingStore().Loaded())

	// A second load must not replace the first table.
	err = loadRouting(form, []byte(`{"disease":"mondo"}`))
	require.NoError(t, err)
	code, ok := form.RoutingStore().Table().Lookup("disease")
	require.True(t, ok)
	assert.Equal(t, "efo", code)
}

func TestLoadRouting_RejectsMalformed(t *testing.T) {
	form, err := metaform.New(context.Background())
	require.NoError(t, err)
	defer form.Close()

	require.Error(t, loadRouting(form, []byte(`["not","a","table"]`)))
	assert.False(t, form.RoutingStore().Loaded())
}

func TestConfigureRouting_BuiltInRoutesByDefault(t *testing.T) {
	form := newServeForm(t)

	require.NoError(t, configureRouting(form, &config.Config{}, discardLogger()))
	assert.True(t, form.RoutingStore().Loaded())

	table := form.RoutingStore().Table()
	for key, want := range map[string]string{
		"anatomical location":     "uberon",
		"cell type":               "cl",
		"organism":                "ncbitaxon",
		"phenotypic abnormality":  "hp",
		"condition and treatment": "ncit",
	} {
		code, ok := table.Lookup(key)
		require.True(t, ok, "expected a route for %q", key)
		assert.Equal(t, want, code, "route for %q", key)
	}
}

func TestConfigureRouting_FileReplacesBuiltIn(t *testing.T) {
	form := newServeForm(t)

	path := filepath.Join(t.TempDir(), "routing.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"disease":"mondo"}`), 0o644))

	require.NoError(t, configureRouting(form, &config.Config{RoutingFile: path}, discardLogger()))

	table := form.RoutingStore().Table()
	code, ok := table.Lookup("disease")
	require.True(t, ok)
	assert.Equal(t, "mondo", code)
	_, ok = table.Lookup("anatomical location")
	assert.False(t, ok, "built-in routes must not leak past a configured file")
}

func TestConfigureRouting_MalformedFileFallsBackToBuiltIn(t *testing.T) {
	form := newServeForm(t)

	path := filepath.Join(t.TempDir(), "routing.json")
	require.NoError(t, os.WriteFile(path, []byte(`["not","a","table"]`), 0o644))

	require.NoError(t, configureRouting(form, &config.Config{RoutingFile: path}, discardLogger()))
	assert.True(t, form.RoutingStore().Loaded())

	code, ok := form.RoutingStore().Table().Lookup("cell type")
	require.True(t, ok)
	assert.Equal(t, "cl", code)
}

func TestConfigureRouting_MissingFileIsAnError(t *testing.T) {
	form := newServeForm(t)

	cfg := &config.Config{RoutingFile: filepath.Join(t.TempDir(), "missing.json")}
	require.Error(t, configureRouting(form, cfg, discardLogger()))
}

func TestNewRouter_ServesPageContractAndProxy(t *testing.T) {
	form := newServeForm(t)
	cfg := &config.Config{
		BasePath:        config.DefaultBasePath,
		Title:           config.DefaultTitle,
		DefaultOntology: config.DefaultOntology,
		Rows:            config.DefaultRows,
		Policy:          config.DefaultPolicy,
	}

	router, err := newRouter(form, cfg, discardLogger())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `name="metadata_group_columns_checkbox"`)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/openapi.yaml", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "application/yaml"))
	assert.Contains(t, rec.Body.String(), "multipart/form-data")

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/columns_info", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "columnsInfo")

	// The proxy is mounted; a missing search term is rejected locally.
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ols_proxy", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFormOptions_InvalidVocabularyFile(t *testing.T) {
	cfg := &config.Config{Policy: "strict", VocabularyFile: "/does/not/exist.yaml"}
	_, err := formOptions(cfg)
	require.Error(t, err)
}
