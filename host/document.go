package host

import "time"

// Document owns a node tree, the frame-callback queue and the clock. It is
// the factory for every node kind; nodes from different documents must not
// be mixed.
type Document struct {
	Root *Element

	// Now is the clock used for event timestamps and grace windows.
	// Replaceable in tests.
	Now func() time.Time

	frame     []*frameEntry
	listeners map[string][]*listener
	mutations uint64
}

func NewDocument() *Document {
	d := &Document{
		Now:       time.Now,
		listeners: map[string][]*listener{},
	}
	d.Root = d.CreateElement("root", NamespaceHTML)
	return d
}

func (d *Document) CreateElement(tag string, ns Namespace) *Element {
	return &Element{doc: d, Tag: tag, NS: ns}
}

func (d *Document) CreateText(data string) *Text {
	return &Text{doc: d, Data: data}
}

func (d *Document) CreateAnchor(label string) *Anchor {
	return &Anchor{doc: d, Label: label}
}

func (d *Document) CreateRaw(markup string) *Raw {
	return &Raw{doc: d, Markup: markup}
}

// mutated bumps the structural mutation counter. Attribute writes, text
// writes and child-list changes all count; tests assert on the delta.
func (d *Document) mutated() {
	d.mutations++
}

// Mutations returns the total number of tree mutations so far.
func (d *Document) Mutations() uint64 {
	return d.mutations
}

type frameEntry struct {
	fn        func()
	cancelled bool
}

// RequestFrame registers fn to run on the next frame pump and returns its
// cancel function. Several registrations may be pending at once; each caller
// is expected to hold at most one.
func (d *Document) RequestFrame(fn func()) (cancel func()) {
	entry := &frameEntry{fn: fn}
	d.frame = append(d.frame, entry)
	return func() {
		entry.cancelled = true
	}
}

// PumpFrame runs and clears all pending frame callbacks. The host embedding
// this renderer calls it once per display frame; tests call it directly.
func (d *Document) PumpFrame() {
	pending := d.frame
	d.frame = nil
	for _, entry := range pending {
		if !entry.cancelled {
			entry.fn()
		}
	}
}

// FramePending reports whether any live frame callback is queued.
func (d *Document) FramePending() bool {
	for _, entry := range d.frame {
		if !entry.cancelled {
			return true
		}
	}
	return false
}
