package autocomplete

import (
	"sync"

	"github.com/dnavi/metaform/pkg/termsearch"
)

// Rect is a field's on-screen rectangle in viewport coordinates.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Overlay is the floating suggestion list tied to one field. Show replaces
// the rendered candidates wholesale; Hide clears them; Reposition follows
// the field while the overlay is visible.
type Overlay interface {
	Show(terms []termsearch.Term)
	Hide()
	Reposition(anchor Rect)
}

// OverlayState is a snapshot of a ListOverlay.
type OverlayState struct {
	Visible bool
	Terms   []termsearch.Term
	Anchor  Rect
}

// ListOverlay is the default Overlay: it tracks the candidate list, its
// visibility and the anchor rectangle, and reports every change to an
// optional hook so a rendering surface can repaint.
type ListOverlay struct {
	mu       sync.Mutex
	visible  bool
	terms    []termsearch.Term
	anchor   Rect
	onChange func(OverlayState)
}

// NewListOverlay builds an overlay. onChange may be nil.
func NewListOverlay(onChange func(OverlayState)) *ListOverlay {
	return &ListOverlay{onChange: onChange}
}

// Show replaces the candidate list and makes the overlay visible. An empty
// list hides instead; an overlay with nothing to offer must not float.
func (o *ListOverlay) Show(terms []termsearch.Term) {
	if len(terms) == 0 {
		o.Hide()
		return
	}
	o.mu.Lock()
	o.terms = append([]termsearch.Term(nil), terms...)
	o.visible = true
	state := o.stateLocked()
	o.mu.Unlock()
	o.notify(state)
}

// Hide clears the list. Hiding an already hidden overlay is a no-op.
func (o *ListOverlay) Hide() {
	o.mu.Lock()
	if !o.visible && o.terms == nil {
		o.mu.Unlock()
		return
	}
	o.terms = nil
	o.visible = false
	state := o.stateLocked()
	o.mu.Unlock()
	o.notify(state)
}

// Reposition records the anchor rectangle. Invisible overlays ignore it.
func (o *ListOverlay) Reposition(anchor Rect) {
	o.mu.Lock()
	if !o.visible {
		o.mu.Unlock()
		return
	}
	o.anchor = anchor
	state := o.stateLocked()
	o.mu.Unlock()
	o.notify(state)
}

// State returns a snapshot of the overlay.
func (o *ListOverlay) State() OverlayState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.stateLocked()
}

func (o *ListOverlay) stateLocked() OverlayState {
	return OverlayState{
		Visible: o.visible,
		Terms:   append([]termsearch.Term(nil), o.terms...),
		Anchor:  o.anchor,
	}
}

func (o *ListOverlay) notify(state OverlayState) {
	if o.onChange != nil {
		o.onChange(state)
	}
}
