package ontology

import "strings"

// KeyStrategy names which attribute of a field feeds routing. Forms in the
// wild disagree: some route on the input's name attribute, others on its
// placeholder text. The strategy travels with the router so both variants
// share one codepath.
type KeyStrategy string

const (
	// KeyFieldName routes on the field's name attribute.
	KeyFieldName KeyStrategy = "name"
	// KeyPlaceholder routes on the field's placeholder text.
	KeyPlaceholder KeyStrategy = "placeholder"
)

// Router resolves field keys to ontology codes against a table store.
type Router struct {
	store       *Store
	defaultCode string
	strategy    KeyStrategy
}

// RouterOption configures a Router.
type RouterOption func(*Router)

// WithDefaultCode sets the code returned when no fragment matches. The
// empty string is a valid configuration meaning "no routing", which search
// callers interpret as an unscoped query.
func WithDefaultCode(code string) RouterOption {
	return func(r *Router) {
		r.defaultCode = strings.TrimSpace(code)
	}
}

// WithKeyStrategy records which field attribute feeds Route.
func WithKeyStrategy(strategy KeyStrategy) RouterOption {
	return func(r *Router) {
		if strategy != "" {
			r.strategy = strategy
		}
	}
}

// NewRouter builds a router over store. A nil store routes everything to the
// default code.
func NewRouter(store *Store, opts ...RouterOption) *Router {
	r := &Router{
		store:    store,
		strategy: KeyFieldName,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// DefaultCode returns the configured fallback code.
func (r *Router) DefaultCode() string {
	return r.defaultCode
}

// Strategy returns the configured key strategy.
func (r *Router) Strategy() KeyStrategy {
	return r.strategy
}

// Route maps a field key to an ontology code. It is total: whatever the
// state of the routing table, it returns a string. An unloaded or failed
// table simply yields the default code.
func (r *Router) Route(fieldKey string) string {
	if r == nil || r.store == nil {
		return defaultOrEmpty(r)
	}
	if code, ok := r.store.Table().Lookup(fieldKey); ok {
		return code
	}
	return r.defaultCode
}

func defaultOrEmpty(r *Router) string {
	if r == nil {
		return ""
	}
	return r.defaultCode
}
