package catalog

import (
	"log/slog"
	"net/http"
)

// Entry is one predefined column in the catalog.
type Entry struct {
	ColumnName string `json:"ColumnName"`
	ColumnType string `json:"ColumnType"`
}

// Options configure the catalog handler and client.
type Options struct {
	RoutePath string
	Entries   []Entry
	Guard     GuardFunc
	Logger    *slog.Logger
}

// GuardFunc can reject a request before the catalog is served.
type GuardFunc func(r *http.Request) error

// OptionFn mutates Options.
type OptionFn func(*Options)

// DefaultOptions serve the stock catalog of submission columns.
func DefaultOptions() Options {
	return Options{
		RoutePath: "/columns_info",
		Entries:   DefaultEntries(),
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
		opts.RoutePath = "/columns_info"
	}
	if opts.Entries == nil {
		opts.Entries = DefaultEntries()
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

// WithEntries replaces the served catalog.
func WithEntries(entries []Entry) OptionFn {
	return func(o *Options) { o.Entries = entries }
}

// WithGuard installs a request guard.
func WithGuard(guard GuardFunc) OptionFn {
	return func(o *Options) { o.Guard = guard }
}

// WithLogger overrides the diagnostics logger.
func WithLogger(logger *slog.Logger) OptionFn {
	return func(o *Options) {
		if logger != nil {
			o.Logger = logger
		}
	}
}
