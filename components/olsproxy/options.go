package olsproxy

import (
	"log/slog"
	"net/http"
	"time"
)

// DefaultUpstream is the public Ontology Lookup Service search endpoint.
const DefaultUpstream = "https://www.ebi.ac.uk/ols/api/search"

// GuardFunc can reject a request before it is proxied.
type GuardFunc func(r *http.Request) error

// Options configure the proxy handler.
type Options struct {
	RoutePath       string
	Upstream        string
	SearchParam     string
	OntologyParam   string
	DefaultOntology string
	Rows            int
	Timeout         time.Duration
	Guard           GuardFunc
	HTTPClient      *http.Client
	Logger          *slog.Logger
}

// OptionFn mutates Options.
type OptionFn func(*Options)

// DefaultOptions mirror the submission server's proxy: ten candidates, a
// ten second upstream timeout, efo as the fallback ontology.
func DefaultOptions() Options {
	return Options{
		RoutePath:       "/ols_proxy",
		Upstream:        DefaultUpstream,
		SearchParam:     "q",
		OntologyParam:   "ontology",
		DefaultOntology: "efo",
		Rows:            10,
		Timeout:         10 * time.Second,
	}
}

// NewOptions applies defaults plus overrides and clamps the results.
func NewOptions(fns ...OptionFn) Options {
	opts := DefaultOptions()
	for _, fn := range fns {
		if fn != nil {
			fn(&opts)
		}
	}
	if opts.RoutePath == "" {
		opts.RoutePath = "/ols_proxy"
	}
	if opts.Upstream == "" {
		opts.Upstream = DefaultUpstream
	}
	if opts.SearchParam == "" {
		opts.SearchParam = "q"
	}
	if opts.OntologyParam == "" {
		opts.OntologyParam = "ontology"
	}
	if opts.Rows <= 0 {
		opts.Rows = 10
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return opts
}

// WithRoutePath overrides the mount path.
func WithRoutePath(path string) OptionFn {
	return func(o *Options) { o.RoutePath = path }
}

// WithUpstream overrides the upstream search URL.
func WithUpstream(url string) OptionFn {
	return func(o *Options) { o.Upstream = url }
}

// WithDefaultOntology overrides the ontology used when the request names
// none.
func WithDefaultOntology(code string) OptionFn {
	return func(o *Options) { o.DefaultOntology = code }
}

// WithRows overrides how many candidates are requested upstream.
func WithRows(rows int) OptionFn {
	return func(o *Options) { o.Rows = rows }
}

// WithTimeout overrides the upstream timeout.
func WithTimeout(d time.Duration) OptionFn {
	return func(o *Options) { o.Timeout = d }
}

// WithGuard installs a request guard.
func WithGuard(guard GuardFunc) OptionFn {
	return func(o *Options) { o.Guard = guard }
}

// WithHTTPClient overrides the upstream transport.
func WithHTTPClient(client *http.Client) OptionFn {
	return func(o *Options) { o.HTTPClient = client }
}

// WithLogger overrides the diagnostics logger.
func WithLogger(logger *slog.Logger) OptionFn {
	return func(o *Options) {
		if logger != nil {
			o.Logger = logger
		}
	}
}
