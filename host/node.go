package host

import "fmt"

// Namespace selects the markup vocabulary an element belongs to.
type Namespace int

const (
	NamespaceHTML Namespace = iota
	NamespaceSVG
	NamespaceMathML
)

func (ns Namespace) String() string {
	switch ns {
	case NamespaceSVG:
		return "svg"
	case NamespaceMathML:
		return "math"
	default:
		return "html"
	}
}

// TagNamespace reports the namespace a tag itself implies, if any.
func TagNamespace(tag string) (Namespace, bool) {
	switch tag {
	case "svg":
		return NamespaceSVG, true
	case "math":
		return NamespaceMathML, true
	}
	return NamespaceHTML, false
}

// Node is one live output node: an element, a text node, an anchor marker or
// a raw markup blob.
type Node interface {
	Parent() *Element
	Document() *Document

	setParent(*Element)
}

// Attr is one element attribute. Order is preserved for serialization.
type Attr struct {
	Name  string
	Value string
}

// Element is a tagged tree node with attributes, loosely-typed properties,
// children and event listeners.
type Element struct {
	doc    *Document
	parent *Element

	Tag string
	NS  Namespace

	// Opaque marks an embeddable component host: the renderer hands its
	// compiled children over instead of instantiating them eagerly.
	Opaque           bool
	DeferredChildren []any
	NamedSlots       map[string][]any

	attrs     []Attr
	props     map[string]any
	children  []Node
	listeners map[string][]*listener
}

func (e *Element) Parent() *Element     { return e.parent }
func (e *Element) Document() *Document  { return e.doc }
func (e *Element) setParent(p *Element) { e.parent = p }

// Attr returns the current value of a named attribute.
func (e *Element) Attr(name string) (string, bool) {
	for _, a := range e.attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

func (e *Element) SetAttribute(name, value string) {
	e.doc.mutated()
	for i, a := range e.attrs {
		if a.Name == name {
			e.attrs[i].Value = value
			return
		}
	}
	e.attrs = append(e.attrs, Attr{Name: name, Value: value})
}

func (e *Element) RemoveAttribute(name string) {
	for i, a := range e.attrs {
		if a.Name == name {
			e.doc.mutated()
			e.attrs = append(e.attrs[:i], e.attrs[i+1:]...)
			return
		}
	}
}

// Attrs returns a copy of the attribute list in set order.
func (e *Element) Attrs() []Attr {
	out := make([]Attr, len(e.attrs))
	copy(out, e.attrs)
	return out
}

// readOnlyProps are property names a host refuses to assign, mirroring
// read-only IDL attributes. Writing one makes SetProp fail so the caller can
// fall back to an attribute write.
var readOnlyProps = map[string]bool{
	"tagName":    true,
	"nodeType":   true,
	"parentNode": true,
	"childNodes": true,
}

// SetProp assigns a loosely-typed property. Fails for read-only names.
func (e *Element) SetProp(name string, value any) error {
	if readOnlyProps[name] {
		return fmt.Errorf("property %q is read-only on <%s>", name, e.Tag)
	}
	e.doc.mutated()
	if e.props == nil {
		e.props = map[string]any{}
	}
	e.props[name] = value
	return nil
}

func (e *Element) Prop(name string) (any, bool) {
	v, ok := e.props[name]
	return v, ok
}

func (e *Element) Children() []Node {
	out := make([]Node, len(e.children))
	copy(out, e.children)
	return out
}

func (e *Element) ChildCount() int { return len(e.children) }

func (e *Element) indexOf(n Node) int {
	for i, c := range e.children {
		if c == n {
			return i
		}
	}
	return -1
}

func (e *Element) AppendChild(n Node) {
	e.InsertBefore(n, nil)
}

// InsertBefore inserts n before ref, or appends when ref is nil. A node
// already attached elsewhere is detached first.
func (e *Element) InsertBefore(n Node, ref Node) {
	if p := n.Parent(); p != nil {
		p.RemoveChild(n)
	}
	e.doc.mutated()
	idx := len(e.children)
	if ref != nil {
		if i := e.indexOf(ref); i >= 0 {
			idx = i
		}
	}
	e.children = append(e.children, nil)
	copy(e.children[idx+1:], e.children[idx:])
	e.children[idx] = n
	n.setParent(e)
}

func (e *Element) RemoveChild(n Node) {
	i := e.indexOf(n)
	if i < 0 {
		return
	}
	e.doc.mutated()
	e.children = append(e.children[:i], e.children[i+1:]...)
	n.setParent(nil)
}

// NextSibling returns the node following n among e's children, nil at the end.
func (e *Element) NextSibling(n Node) Node {
	i := e.indexOf(n)
	if i < 0 || i+1 >= len(e.children) {
		return nil
	}
	return e.children[i+1]
}

// Contains reports whether n is e or a descendant of e.
func (e *Element) Contains(n Node) bool {
	for n != nil {
		if n == Node(e) {
			return true
		}
		p := n.Parent()
		if p == nil {
			return false
		}
		n = p
	}
	return false
}

// Clone deep-copies the element into doc. Attributes and children are
// copied; properties and listeners are not, matching template cloning.
func (e *Element) Clone(doc *Document) *Element {
	out := doc.CreateElement(e.Tag, e.NS)
	out.Opaque = e.Opaque
	for _, a := range e.attrs {
		out.SetAttribute(a.Name, a.Value)
	}
	for _, c := range e.children {
		out.AppendChild(CloneNode(doc, c))
	}
	return out
}

// CloneNode deep-copies any node into doc.
func CloneNode(doc *Document, n Node) Node {
	switch n := n.(type) {
	case *Element:
		return n.Clone(doc)
	case *Text:
		return doc.CreateText(n.Data)
	case *Anchor:
		return doc.CreateAnchor(n.Label)
	case *Raw:
		return doc.CreateRaw(n.Markup)
	default:
		panic("host: unknown node kind")
	}
}

// Detach removes n from its parent, if attached.
func Detach(n Node) {
	if p := n.Parent(); p != nil {
		p.RemoveChild(n)
	}
}

// Text is a character data node.
type Text struct {
	doc    *Document
	parent *Element

	Data string
}

func (t *Text) Parent() *Element     { return t.parent }
func (t *Text) Document() *Document  { return t.doc }
func (t *Text) setParent(p *Element) { t.parent = p }

func (t *Text) SetData(data string) {
	if t.Data == data {
		return
	}
	t.doc.mutated()
	t.Data = data
}

// Anchor is an invisible marker node renderers use as a stable insertion
// point. Serializes to a comment.
type Anchor struct {
	doc    *Document
	parent *Element

	Label string
}

func (a *Anchor) Parent() *Element     { return a.parent }
func (a *Anchor) Document() *Document  { return a.doc }
func (a *Anchor) setParent(p *Element) { a.parent = p }

// Raw is an opaque pre-trusted markup blob, serialized without escaping.
type Raw struct {
	doc    *Document
	parent *Element

	Markup string
}

func (r *Raw) Parent() *Element     { return r.parent }
func (r *Raw) Document() *Document  { return r.doc }
func (r *Raw) setParent(p *Element) { r.parent = p }
