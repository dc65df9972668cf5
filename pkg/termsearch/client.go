// Package termsearch queries a remote ontology term-search service and
// normalises its responses. The service is the only authority on matches;
// this package adds transport handling, response-shape tolerance and a
// client-side ontology prefix filter.
package termsearch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// Term is one candidate vocabulary term. It lives only as long as the query
// that produced it; result sets are replaced wholesale, never merged.
type Term struct {
	Label  string `json:"label"`
	TermID string `json:"termId"`
}

// Options configure a Client.
type Options struct {
	// BaseURL is the search endpoint, e.g. "https://host/ols_proxy".
	BaseURL string
	// Rows caps how many candidates one query requests.
	Rows int
	// HTTPClient issues the requests. Defaults to http.DefaultClient.
	HTTPClient *http.Client
}

// OptionFn mutates Options before the client is built.
type OptionFn func(*Options)

// WithBaseURL sets the search endpoint.
func WithBaseURL(raw string) OptionFn {
	return func(o *Options) {
		o.BaseURL = strings.TrimSpace(raw)
	}
}

// WithRows caps the number of requested candidates.
func WithRows(rows int) OptionFn {
	return func(o *Options) {
		if rows > 0 {
			o.Rows = rows
		}
	}
}

// WithHTTPClient overrides the transport.
func WithHTTPClient(client *http.Client) OptionFn {
	return func(o *Options) {
		if client != nil {
			o.HTTPClient = client
		}
	}
}

// NewOptions applies defaults plus overrides.
func NewOptions(fns ...OptionFn) Options {
	opts := Options{Rows: 10, HTTPClient: http.DefaultClient}
	for _, fn := range fns {
		if fn != nil {
			fn(&opts)
		}
	}
	if opts.Rows <= 0 {
		opts.Rows = 10
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	return opts
}

// Client issues term searches.
type Client struct {
	opts Options
}

// NewClient builds a search client.
func NewClient(fns ...OptionFn) *Client {
	return &Client{opts: NewOptions(fns...)}
}

// Search queries the endpoint for terms matching query within the given
// ontology code. An empty code issues an unscoped query. Transport errors,
// non-2xx statuses and malformed bodies all return a nil slice plus an error
// the caller may log; none of them are fatal to the field that asked.
func (c *Client) Search(ctx context.Context, query, ontologyCode string) ([]Term, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	if c.opts.BaseURL == "" {
		return nil, fmt.Errorf("termsearch: no endpoint configured")
	}

	params := url.Values{}
	params.Set("q", query)
	if ontologyCode != "" {
		params.Set("ontology", ontologyCode)
	}
	params.Set("type", "class")
	params.Set("rows", fmt.Sprintf("%d", c.opts.Rows))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.opts.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("termsearch: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.opts.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("termsearch: query %q: %w", query, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("termsearch: query %q: unexpected status %d", query, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("termsearch: read response: %w", err)
	}
	terms, err := decodeTerms(body)
	if err != nil {
		return nil, fmt.Errorf("termsearch: query %q: %w", query, err)
	}
	return terms, nil
}

// wireDoc tolerates the identifier spellings the service is known to emit.
type wireDoc struct {
	Label  string `json:"label"`
	TermID string `json:"termId"`
	OboID  string `json:"obo_id"`
	IRI    string `json:"iri"`
}

func (d wireDoc) term() (Term, bool) {
	label := SanitizeLabel(d.Label)
	if label == "" {
		return Term{}, false
	}
	id := d.TermID
	if id == "" {
		id = d.OboID
	}
	if id == "" {
		id = d.IRI
	}
	return Term{Label: label, TermID: strings.TrimSpace(id)}, true
}

// decodeTerms accepts both response shapes: the enveloped
// {response:{docs:[...]}} form and a bare array of docs.
func decodeTerms(body []byte) ([]Term, error) {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return nil, fmt.Errorf("empty response body")
	}

	var docs []wireDoc
	if strings.HasPrefix(trimmed, "[") {
		if err := json.Unmarshal(body, &docs); err != nil {
			return nil, fmt.Errorf("malformed array response: %w", err)
		}
	} else {
		var envelope struct {
			Response struct {
				Docs []wireDoc `json:"docs"`
			} `json:"response"`
		}
		if err := json.Unmarshal(body, &envelope); err != nil {
			return nil, fmt.Errorf("malformed response: %w", err)
		}
		docs = envelope.Response.Docs
	}

	terms := make([]Term, 0, len(docs))
	for _, doc := range docs {
		if term, ok := doc.term(); ok {
			terms = append(terms, term)
		}
	}
	return terms, nil
}

// FilterByOntology keeps terms whose identifier starts with the ontology
// code prefix, case-insensitive. The remote service does not always scope
// results to the requested ontology, so this runs on every response. An
// empty code keeps everything.
func FilterByOntology(terms []Term, code string) []Term {
	if code == "" || len(terms) == 0 {
		return terms
	}
	prefix := strings.ToLower(code)
	out := terms[:0:0]
	for _, term := range terms {
		if strings.HasPrefix(strings.ToLower(term.TermID), prefix) {
			out = append(out, term)
		}
	}
	return out
}

var (
	labelPolicyOnce sync.Once
	labelPolicy     *bluemonday.Policy
)

// SanitizeLabel strips any markup from a remote term label. Labels come from
// an external service and flow into rendered overlays, so everything but
// plain text is removed.
func SanitizeLabel(raw string) string {
	labelPolicyOnce.Do(func() {
		labelPolicy = bluemonday.StrictPolicy()
	})
	return strings.TrimSpace(labelPolicy.Sanitize(raw))
}
