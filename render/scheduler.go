package render

import (
	"fmt"

	"github.com/tinselui/tinsel/host"
)

// WriteKind selects how a queued write lands on its element.
type WriteKind int

const (
	// WriteAttr sets an attribute string.
	WriteAttr WriteKind = iota
	// WriteAttrRemove removes the attribute entirely.
	WriteAttrRemove
	// WriteProp assigns a loosely-typed property, falling back to an
	// attribute write when the host refuses the property.
	WriteProp
	// WritePropPath assigns through a dotted property path.
	WritePropPath
)

// Write is one resolved attribute/property mutation. Resolution (coercion,
// sanitization) happens before queueing so deduplication is last-write-wins
// on final values.
type Write struct {
	Kind  WriteKind
	Text  string
	Value any
	Path  []string
}

// Apply lands the write on el.
func (w Write) Apply(el *host.Element, name string) {
	switch w.Kind {
	case WriteAttr:
		el.SetAttribute(name, w.Text)
	case WriteAttrRemove:
		el.RemoveAttribute(name)
	case WriteProp:
		if err := el.SetProp(name, w.Value); err != nil {
			el.SetAttribute(name, fmt.Sprint(w.Value))
		}
	case WritePropPath:
		applyPropPath(el, w.Path, w.Value)
	}
}

// Committer batches and deduplicates host writes. Begin/End bracket one
// reactive-evaluation pass; writes queued inside the bracket are applied at
// End, immediately if new nodes appeared during the pass, otherwise on the
// next host frame.
type Committer interface {
	Begin()
	End()
	MarkCreated()
	QueueAttribute(el *host.Element, name string, w Write)
	QueueText(t *host.Text, data string)
	FlushNow()
}

type attrKey struct {
	el   *host.Element
	name string
}

// Scheduler is the production Committer, bound to one document's frame
// callback primitive.
type Scheduler struct {
	doc *host.Document

	depth   int
	created bool

	attrs map[attrKey]Write
	texts map[*host.Text]string

	cancelFrame func()
}

func NewScheduler(doc *host.Document) *Scheduler {
	return &Scheduler{
		doc:   doc,
		attrs: map[attrKey]Write{},
		texts: map[*host.Text]string{},
	}
}

func (s *Scheduler) Begin() {
	s.depth++
}

// End closes one evaluation pass. Passes nest; only the outermost End
// decides how to commit.
func (s *Scheduler) End() {
	s.depth--
	if s.depth > 0 {
		return
	}
	if s.created {
		// Fresh nodes must not be visible in a half-written state for
		// a frame, so commit before returning to the host.
		s.created = false
		s.FlushNow()
		return
	}
	if len(s.attrs) == 0 && len(s.texts) == 0 {
		return
	}
	if s.cancelFrame == nil {
		s.cancelFrame = s.doc.RequestFrame(func() {
			s.cancelFrame = nil
			s.flush()
		})
	}
}

// MarkCreated records that the current pass instantiated new output nodes.
func (s *Scheduler) MarkCreated() {
	if s.depth > 0 {
		s.created = true
	}
}

// QueueAttribute applies w immediately outside a pass, otherwise enqueues it
// with last-write-wins semantics per (element, attribute).
func (s *Scheduler) QueueAttribute(el *host.Element, name string, w Write) {
	if s.depth == 0 {
		w.Apply(el, name)
		return
	}
	s.attrs[attrKey{el: el, name: name}] = w
}

// QueueText behaves like QueueAttribute for text node data.
func (s *Scheduler) QueueText(t *host.Text, data string) {
	if s.depth == 0 {
		t.SetData(data)
		return
	}
	s.texts[t] = data
}

// FlushNow cancels any deferred flush and applies everything pending. A
// flush with an empty queue is a no-op.
func (s *Scheduler) FlushNow() {
	if s.cancelFrame != nil {
		s.cancelFrame()
		s.cancelFrame = nil
	}
	s.flush()
}

func (s *Scheduler) flush() {
	if len(s.attrs) == 0 && len(s.texts) == 0 {
		return
	}
	attrs, texts := s.attrs, s.texts
	s.attrs = map[attrKey]Write{}
	s.texts = map[*host.Text]string{}
	for k, w := range attrs {
		w.Apply(k.el, k.name)
	}
	for t, data := range texts {
		t.SetData(data)
	}
}
