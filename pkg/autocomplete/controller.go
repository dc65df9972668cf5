// Package autocomplete drives one ontology-backed input field: it coalesces
// keystrokes into debounced term searches, guards against out-of-order
// responses, and enforces the closed-vocabulary policy on blur.
package autocomplete

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/dnavi/metaform/pkg/termsearch"
)

// Validity is the enforcement track of a field.
type Validity string

const (
	// ValidityPending means no value has been accepted yet.
	ValidityPending Validity = "pending"
	// ValidityValid means the field text equals the last accepted term.
	ValidityValid Validity = "valid"
	// ValidityRejected means free text was cleared on blur.
	ValidityRejected Validity = "rejected"
)

// RejectionNotice is the transient message shown after a rejected blur.
const RejectionNotice = "select from the dropdown"

// Searcher issues one term query. *termsearch.Client satisfies it.
type Searcher interface {
	Search(ctx context.Context, query, ontologyCode string) ([]termsearch.Term, error)
}

// Router resolves a field key to an ontology code. *ontology.Router
// satisfies it.
type Router interface {
	Route(fieldKey string) string
}

// Surface receives the controller's writes back to the rendered field.
// Implementations must be cheap; they run under controller callbacks.
type Surface interface {
	SetText(text string)
	MarkInvalid(notice string)
	ClearInvalid()
}

type noopSurface struct{}

func (noopSurface) SetText(string)     {}
func (noopSurface) MarkInvalid(string) {}
func (noopSurface) ClearInvalid()      {}

// Controller manages one field. It is created when the field enters the
// form and closed when the field's wrapper leaves it.
type Controller struct {
	fieldKey string
	searcher Searcher
	router   Router
	overlay  Overlay
	surface  Surface
	opts     Options

	mu           sync.Mutex
	text         string
	lastAccepted string
	validity     Validity
	seq          uint64
	timer        *time.Timer
	noticeTimer  *time.Timer
	visible      bool
	closed       bool
}

// NewController wires a controller to its collaborators. A nil overlay or
// surface degrades to a no-op so model-only callers can drive the state
// machine without a rendering layer.
func NewController(fieldKey string, searcher Searcher, router Router, overlay Overlay, surface Surface, fns ...OptionFn) *Controller {
	if overlay == nil {
		overlay = NewListOverlay(nil)
	}
	if surface == nil {
		surface = noopSurface{}
	}
	return &Controller{
		fieldKey: fieldKey,
		searcher: searcher,
		router:   router,
		overlay:  overlay,
		surface:  surface,
		opts:     NewOptions(fns...),
		validity: ValidityPending,
	}
}

// FieldKey returns the routing key the controller was bound to.
func (c *Controller) FieldKey() string { return c.fieldKey }

// Text returns the current field text as the controller knows it.
func (c *Controller) Text() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.text
}

// LastAccepted returns the last value chosen from the suggestion list.
func (c *Controller) LastAccepted() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastAccepted
}

// Validity returns the field's enforcement state.
func (c *Controller) Validity() Validity {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.validity
}

// Input records a text change and restarts the debounce window. Clearing
// the field cancels any scheduled or in-flight query and hides the overlay.
func (c *Controller) Input(text string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.text = text
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	if strings.TrimSpace(text) == "" {
		c.seq++ // any in-flight response is now stale
		c.visible = false
		c.mu.Unlock()
		c.overlay.Hide()
		return
	}
	c.timer = time.AfterFunc(c.opts.Debounce, c.fire)
	c.mu.Unlock()
}

// fire runs when the debounce window closes. Only the most recently
// scheduled query reaches this point; the empty-input short-circuit is
// re-checked because the field may have been cleared since scheduling.
func (c *Controller) fire() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	query := strings.TrimSpace(c.text)
	if query == "" {
		c.visible = false
		c.mu.Unlock()
		c.overlay.Hide()
		return
	}
	c.seq++
	seq := c.seq
	c.mu.Unlock()

	code := ""
	if c.router != nil {
		code = c.router.Route(c.fieldKey)
	}

	ctx, cancel := context.WithTimeout(c.opts.Context, c.opts.QueryTimeout)
	defer cancel()

	terms, err := c.searcher.Search(ctx, query, code)
	if err == nil {
		terms = termsearch.FilterByOntology(terms, code)
	}

	c.mu.Lock()
	if c.closed || seq != c.seq {
		// A newer query fired (or the field was cleared) while this one
		// was in flight; its response must not touch the overlay.
		c.mu.Unlock()
		return
	}
	if err != nil || len(terms) == 0 {
		c.visible = false
		c.mu.Unlock()
		c.overlay.Hide()
		return
	}
	c.visible = true
	c.mu.Unlock()
	c.overlay.Show(terms)
}

// Select accepts a suggestion: the canonical display value is written to
// the field, recorded as last accepted, and the overlay closes.
func (c *Controller) Select(term termsearch.Term) {
	display := term.Label
	if c.opts.AppendTermID && term.TermID != "" {
		display = term.Label + " (" + term.TermID + ")"
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.seq++
	c.text = display
	c.lastAccepted = display
	c.validity = ValidityValid
	c.visible = false
	c.stopNoticeLocked()
	c.mu.Unlock()

	c.surface.ClearInvalid()
	c.surface.SetText(display)
	c.overlay.Hide()
}

// Blur applies the closed-vocabulary policy. Under the strict policy, text
// that does not exactly equal the last accepted value is cleared, the field
// is flagged, and a transient notice self-clears after NoticeDuration.
// Under the loose policy free text stands.
func (c *Controller) Blur() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	if c.opts.Policy == PolicyLoose || c.text == c.lastAccepted {
		c.mu.Unlock()
		return
	}

	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.seq++
	c.text = ""
	c.validity = ValidityRejected
	c.visible = false
	c.stopNoticeLocked()
	c.noticeTimer = time.AfterFunc(c.opts.NoticeDuration, c.clearNotice)
	c.mu.Unlock()

	c.surface.SetText("")
	c.surface.MarkInvalid(RejectionNotice)
	c.overlay.Hide()
}

func (c *Controller) clearNotice() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	if c.validity == ValidityRejected {
		c.validity = ValidityPending
	}
	c.noticeTimer = nil
	c.mu.Unlock()
	c.surface.ClearInvalid()
}

// OutsideInteraction hides the overlay without touching validity.
func (c *Controller) OutsideInteraction() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.visible = false
	c.mu.Unlock()
	c.overlay.Hide()
}

// ViewportChanged forwards the field's new rectangle to a visible overlay.
func (c *Controller) ViewportChanged(anchor Rect) {
	c.mu.Lock()
	visible := c.visible && !c.closed
	c.mu.Unlock()
	if visible {
		c.overlay.Reposition(anchor)
	}
}

// Close releases timers. The controller ignores all events afterwards.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.seq++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.stopNoticeLocked()
	c.mu.Unlock()
	c.overlay.Hide()
}

func (c *Controller) stopNoticeLocked() {
	if c.noticeTimer != nil {
		c.noticeTimer.Stop()
		c.noticeTimer = nil
	}
}
