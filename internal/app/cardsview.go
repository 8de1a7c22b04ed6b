package app

import (
	"github.com/google/uuid"

	"flashdeck/internal/models"
)

// DefaultBatchSize is how many cards the browser materializes per batch.
const DefaultBatchSize = 60

// Window is the card browser's lazily filled view over a scope. At most
// one observer is active at a time; a client holding an older observer id
// cannot trigger loads.
type Window struct {
	batchSize int
	newID     func() string

	deck        string
	scope       models.Scope
	refs        []models.CardRef
	loaded      int
	observer    string
	scroll      int
	scrollTo    *models.CardRef
	initialized bool
}

func NewWindow(batchSize int) *Window {
	if batchSize < 1 {
		batchSize = DefaultBatchSize
	}
	return &Window{batchSize: batchSize, newID: uuid.NewString}
}

// Show points the window at refs. Showing the scope that is already
// initialized keeps the loaded cards, observer and scroll position, and
// reports true. target, when set, is an index into refs that is loaded
// synchronously and reported through ScrollTo.
func (w *Window) Show(deck string, scope models.Scope, refs []models.CardRef, target *int) bool {
	same := w.initialized && w.deck == deck && w.scope == scope
	if !same {
		w.Dispose()
		w.deck = deck
		w.scope = scope
		w.refs = refs
		w.initialized = true
		w.loadMore()
		w.Attach()
	}

	w.scrollTo = nil
	if target != nil && *target >= 0 && *target < len(w.refs) {
		for w.loaded <= *target && w.loaded < len(w.refs) {
			w.loadMore()
		}
		ref := w.refs[*target]
		w.scrollTo = &ref
	}
	return same
}

// Attach replaces the active observer with a new one and returns its id.
func (w *Window) Attach() string {
	w.observer = w.newID()
	return w.observer
}

// OnVisible loads the next batch when observerID is the active observer.
// It reports whether anything new was loaded.
func (w *Window) OnVisible(observerID string) bool {
	if observerID == "" || observerID != w.observer {
		return false
	}
	return w.loadMore()
}

// Dispose releases the observer and forgets the scope.
func (w *Window) Dispose() {
	w.observer = ""
	w.deck = ""
	w.scope = models.ScopeAll
	w.refs = nil
	w.loaded = 0
	w.scroll = 0
	w.scrollTo = nil
	w.initialized = false
}

func (w *Window) loadMore() bool {
	if w.loaded >= len(w.refs) {
		return false
	}
	next := w.loaded + w.batchSize
	if next > len(w.refs) {
		next = len(w.refs)
	}
	w.loaded = next
	return true
}

func (w *Window) SetScroll(position int) {
	if position < 0 {
		position = 0
	}
	w.scroll = position
}

func (w *Window) Loaded() []models.CardRef { return w.refs[:w.loaded] }
func (w *Window) Total() int { return len(w.refs) }
func (w *Window) HasMore() bool { return w.loaded < len(w.refs) }
func (w *Window) ObserverID() string { return w.observer }
func (w *Window) ScrollPosition() int { return w.scroll }
func (w *Window) ScrollTo() *models.CardRef { return w.scrollTo }
func (w *Window) Initialized() bool { return w.initialized }
