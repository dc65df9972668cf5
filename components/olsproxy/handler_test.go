package olsproxy

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNewHandler_ForwardsQueryAndRelaysUpstreamBody(t *testing.T) {
	upstreamBody := `{"response":{"docs":[{"label":"Lung cancer","obo_id":"MONDO:0008903"}]}}`
	var gotQuery, gotOntology, gotType, gotRows string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		gotOntology = r.URL.Query().Get("ontology")
		gotType = r.URL.Query().Get("type")
		gotRows = r.URL.Query().Get("rows")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(upstreamBody))
	}))
	defer upstream.Close()

	h := NewHandler(WithUpstream(upstream.URL))

	req := httptest.NewRequest(http.MethodGet, "/ols_proxy?q=lung&ontology=mondo", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	res := rec.Result()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", res.StatusCode)
	}
	if ct := strings.TrimSpace(res.Header.Get("Content-Type")); !strings.HasPrefix(ct, "application/json") {
		t.Fatalf("expected JSON content-type, got %q", ct)
	}
	if rec.Body.String() != upstreamBody {
		t.Fatalf("expected upstream body relayed verbatim, got %q", rec.Body.String())
	}
	if gotQuery != "lung" || gotOntology != "mondo" {
		t.Fatalf("expected q=lung ontology=mondo upstream, got q=%q ontology=%q", gotQuery, gotOntology)
	}
	if gotType != "class" || gotRows != "10" {
		t.Fatalf("expected type=class rows=10 upstream, got type=%q rows=%q", gotType, gotRows)
	}
}

func TestNewHandler_DefaultOntologyWhenRequestNamesNone(t *testing.T) {
	var gotOntology string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotOntology = r.URL.Query().Get("ontology")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer upstream.Close()

	h := NewHandler(WithUpstream(upstream.URL), WithDefaultOntology("uberon"))

	req := httptest.NewRequest(http.MethodGet, "/ols_proxy?q=liver", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if gotOntology != "uberon" {
		t.Fatalf("expected default ontology uberon, got %q", gotOntology)
	}
}

func TestNewHandler_MissingQueryIsBadRequest(t *testing.T) {
	h := NewHandler(WithUpstream("http://127.0.0.1:0"))

	req := httptest.NewRequest(http.MethodGet, "/ols_proxy", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
	var payload errorResponse
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode error body: %v", err)
	}
	if payload.Error == "" {
		t.Fatalf("expected error message in body")
	}
}

func TestNewHandler_UpstreamFailureIsBadGatewayJSON(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer upstream.Close()

	h := NewHandler(WithUpstream(upstream.URL))

	req := httptest.NewRequest(http.MethodGet, "/ols_proxy?q=lung", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected status 502, got %d", rec.Code)
	}
	var payload errorResponse
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode error body: %v", err)
	}
	if payload.Error != "ontology lookup failed" {
		t.Fatalf("unexpected error message %q", payload.Error)
	}
}

func TestNewHandler_MethodNotAllowed(t *testing.T) {
	h := NewHandler()

	req := httptest.NewRequest(http.MethodPost, "/ols_proxy?q=lung", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected status 405, got %d", rec.Code)
	}
	if allow := rec.Header().Get("Allow"); !strings.Contains(allow, http.MethodGet) {
		t.Fatalf("expected Allow header with GET, got %q", allow)
	}
}

func TestNewHandler_GuardRejectsWithStatusError(t *testing.T) {
	h := NewHandler(WithGuard(func(r *http.Request) error {
		return StatusError{Code: http.StatusUnauthorized}
	}))

	req := httptest.NewRequest(http.MethodGet, "/ols_proxy?q=lung", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
}

func TestNewHandler_HeadRequestOmitsBody(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"response":{"docs":[]}}`))
	}))
	defer upstream.Close()

	h := NewHandler(WithUpstream(upstream.URL))

	req := httptest.NewRequest(http.MethodHead, "/ols_proxy?q=lung", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Fatalf("expected empty body for HEAD, got %q", rec.Body.String())
	}
}
