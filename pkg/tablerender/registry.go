package tablerender

import (
	"sort"
	"strings"
	"sync"

	"github.com/dnavi/metaform/pkg/schema"
)

// Matcher decides whether a widget kind should handle the supplied column.
type Matcher func(spec schema.ColumnSpec) bool

type rule struct {
	kind     string
	priority int
	match    Matcher
	order    int
}

// Registry selects widget kinds for columns. Higher priority wins; ties fall
// back to registration order. Resolution never fails: a column no rule
// claims renders as free text.
type Registry struct {
	mu    sync.RWMutex
	rules []rule
}

// NewRegistry constructs a registry with the built-in matchers registered.
func NewRegistry() *Registry {
	reg := &Registry{}
	reg.registerBuiltins()
	return reg
}

// Register adds a widget matcher with the provided kind and priority. Higher
// priority values take precedence.
func (r *Registry) Register(kind string, priority int, matcher Matcher) {
	if r == nil || matcher == nil {
		return
	}
	trimmed := strings.TrimSpace(kind)
	if trimmed == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rules = append(r.rules, rule{
		kind:     trimmed,
		priority: priority,
		match:    matcher,
		order:    len(r.rules),
	})
}

// Resolve returns the widget kind for a column. Unknown or unmatched
// columns resolve to WidgetText, never an error.
func (r *Registry) Resolve(spec schema.ColumnSpec) string {
	if r == nil {
		return WidgetText
	}
	r.mu.RLock()
	rules := append([]rule(nil), r.rules...)
	r.mu.RUnlock()

	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].priority == rules[j].priority {
			return rules[i].order < rules[j].order
		}
		return rules[i].priority > rules[j].priority
	})
	for _, entry := range rules {
		if entry.match(spec) {
			return entry.kind
		}
	}
	return WidgetText
}

func (r *Registry) registerBuiltins() {
	r.Register(WidgetSelect, 50, func(spec schema.ColumnSpec) bool {
		return spec.Type.FixedChoice()
	})
}
