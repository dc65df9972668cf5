package autocomplete

import (
	"context"
	"time"
)

// Policy selects what happens to free text in an ontology field on blur.
type Policy string

const (
	// PolicyStrict clears text that was not chosen from the suggestion
	// list and flags the field.
	PolicyStrict Policy = "strict"
	// PolicyLoose accepts free text silently.
	PolicyLoose Policy = "loose"
)

// Options configure a Controller. Both enforcement policies and both
// identifier-display variants are options here, not separate codepaths.
type Options struct {
	// Debounce is the quiet period coalescing keystrokes into one query.
	Debounce time.Duration
	// NoticeDuration is how long the "select from the dropdown" notice and
	// the invalid marker stay up after a rejected blur.
	NoticeDuration time.Duration
	// QueryTimeout bounds a single search request.
	QueryTimeout time.Duration
	// Policy is the blur enforcement policy.
	Policy Policy
	// AppendTermID appends the term identifier in parentheses to the
	// accepted display value.
	AppendTermID bool
	// Context is the base context for queries. Defaults to Background.
	Context context.Context
}

// OptionFn mutates Options before the controller is built.
type OptionFn func(*Options)

// NewOptions applies defaults plus overrides.
func NewOptions(fns ...OptionFn) Options {
	opts := Options{
		Debounce:       300 * time.Millisecond,
		NoticeDuration: 2 * time.Second,
		QueryTimeout:   10 * time.Second,
		Policy:         PolicyStrict,
		AppendTermID:   true,
		Context:        context.Background(),
	}
	for _, fn := range fns {
		if fn != nil {
			fn(&opts)
		}
	}
	if opts.Debounce <= 0 {
		opts.Debounce = 300 * time.Millisecond
	}
	if opts.NoticeDuration <= 0 {
		opts.NoticeDuration = 2 * time.Second
	}
	if opts.QueryTimeout <= 0 {
		opts.QueryTimeout = 10 * time.Second
	}
	if opts.Policy == "" {
		opts.Policy = PolicyStrict
	}
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	return opts
}

// WithDebounce overrides the debounce delay.
func WithDebounce(d time.Duration) OptionFn {
	return func(o *Options) { o.Debounce = d }
}

// WithNoticeDuration overrides how long a rejection notice stays visible.
func WithNoticeDuration(d time.Duration) OptionFn {
	return func(o *Options) { o.NoticeDuration = d }
}

// WithQueryTimeout overrides the per-query timeout.
func WithQueryTimeout(d time.Duration) OptionFn {
	return func(o *Options) { o.QueryTimeout = d }
}

// WithPolicy selects the blur enforcement policy.
func WithPolicy(p Policy) OptionFn {
	return func(o *Options) {
		if p != "" {
			o.Policy = p
		}
	}
}

// WithAppendTermID controls whether accepted values carry the identifier
// suffix.
func WithAppendTermID(append bool) OptionFn {
	return func(o *Options) { o.AppendTermID = append }
}

// WithContext sets the base context queries derive from.
func WithContext(ctx context.Context) OptionFn {
	return func(o *Options) {
		if ctx != nil {
			o.Context = ctx
		}
	}
}
