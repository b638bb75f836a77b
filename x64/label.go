package x64

import "fmt"

// Label is a two-pass jump target: code can reference a Label before it is
// bound to a position (a forward jump), and the encoder patches every such
// reference the moment Bind is called. Grounded on
// original_source/src/label.rs, whose Drop impl asserts a label was bound
// and fully resolved before going out of scope -- Go has no destructor, so
// that invariant is checked explicitly by Encoder.IntoBytes instead, which
// walks every label it was ever asked to track.
type Label struct {
	location *int
	offsets  map[int]struct{}
}

// NewLabel returns an unbound label with no pending fix-ups.
func NewLabel() *Label {
	return &Label{offsets: make(map[int]struct{})}
}

// IsBound reports whether Bind has been called on this label.
func (l *Label) IsBound() bool { return l.location != nil }

func (l *Label) recordOffset(off int) {
	l.offsets[off] = struct{}{}
}

// bind fixes the label's location, per original_source/src/label.rs::bind:
// panics if the label was already bound.
func (l *Label) bind(loc int) {
	if l.IsBound() {
		panic(fmt.Errorf("x64: label already bound at offset %d", *l.location))
	}
	v := loc
	l.location = &v
}

// checkClosed enforces the destruction invariant original_source's Drop
// impl enforces: a label that was ever touched must end its life bound,
// with every pending fix-up resolved.
func (l *Label) checkClosed() {
	if !l.IsBound() {
		panic(fmt.Errorf("x64: label dropped while still unbound"))
	}
	if len(l.offsets) != 0 {
		panic(fmt.Errorf("x64: label dropped with %d unresolved reference(s)", len(l.offsets)))
	}
}
