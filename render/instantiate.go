package render

import (
	"github.com/tinselui/tinsel/compiled"
	"github.com/tinselui/tinsel/host"
	"github.com/tinselui/tinsel/reactive"
)

// Part is one instantiated subtree: its top-level output nodes, the reactive
// computations created while building it, and the listener removers to run
// on teardown. Every computation created during instantiation lands in
// exactly one Part so it can be disposed exactly once.
type Part struct {
	Nodes []host.Node

	effects  []*reactive.Computation
	cleanups []func()
}

// Dispose tears the part down: child computations first (slot controllers
// detach their own nodes recursively), then listener removers, then the
// part's remaining top-level nodes.
func (p *Part) Dispose() {
	for _, e := range p.effects {
		e.Dispose()
	}
	p.effects = nil
	for _, fn := range p.cleanups {
		fn()
	}
	p.cleanups = nil
	for _, n := range p.Nodes {
		host.Detach(n)
	}
	p.Nodes = nil
}

// instantiate materializes a compiled node into parent, inserting top-level
// output before the given reference node (nil appends).
func (ctx *Context) instantiate(n *compiled.Node, vals values, parent *host.Element, before host.Node) *Part {
	p := &Part{}
	ctx.buildNode(n, vals, parent, before, p, true)
	return p
}

func (ctx *Context) buildNode(n *compiled.Node, vals values, parent *host.Element, before host.Node, p *Part, top bool) {
	switch n.Op {
	case compiled.OpText:
		// Empty literals produce no node at all.
		if n.Text == "" {
			return
		}
		ctx.attach(ctx.doc.CreateText(n.Text), parent, before, p, top)

	case compiled.OpStatic:
		if n.Template == nil {
			return
		}
		clone := host.CloneNode(ctx.doc, n.Template)
		// A pre-built template carries its own namespace; when it lands
		// inside a namespace-sensitive container it must be rebuilt
		// node-by-node in the container's namespace.
		if el, ok := clone.(*host.Element); ok && parent != nil &&
			parent.NS != host.NamespaceHTML && el.NS != parent.NS {
			clone = rebuildInNamespace(ctx.doc, el, parent.NS)
		}
		ctx.attach(clone, parent, before, p, top)

	case compiled.OpSlot:
		anchor := ctx.doc.CreateAnchor("slot")
		ctx.attach(anchor, parent, before, p, top)
		index := n.Index
		s := newSlot(ctx, parent, anchor, func() any { return vals.get(index) })
		p.effects = append(p.effects, s.comp)

	case compiled.OpElement:
		el := ctx.doc.CreateElement(n.Tag, elementNamespace(n, parent))
		el.Opaque = n.Component
		// Static attributes land directly, never deferred, so the
		// element is fully styled the moment it attaches.
		for _, a := range n.StaticAttrs {
			el.SetAttribute(a.Name, a.Value)
		}
		ctx.attach(el, parent, before, p, top)
		for _, b := range n.DynamicAttrs {
			p.effects = append(p.effects, ctx.bindAttr(el, b, vals))
			if b.Kind == compiled.BindTwoWay {
				p.cleanups = append(p.cleanups, wireWriteBack(ctx, el, b, vals))
			}
		}
		if len(n.Events) > 0 {
			p.cleanups = append(p.cleanups, wireEvents(ctx, el, n.Events, vals))
		}
		if el.Opaque {
			ctx.deferChildren(el, n, vals)
			return
		}
		for _, child := range n.Children {
			ctx.buildNode(child, vals, el, nil, p, false)
		}

	case compiled.OpFragment:
		for _, child := range n.Children {
			ctx.buildNode(child, vals, parent, before, p, top)
		}
	}
}

func (ctx *Context) attach(n host.Node, parent *host.Element, before host.Node, p *Part, top bool) {
	ctx.sched.MarkCreated()
	if parent != nil {
		parent.InsertBefore(n, before)
	}
	if top {
		p.Nodes = append(p.Nodes, n)
	}
}

// deferChildren captures an opaque component's children as deferred
// descriptors instead of instantiating them. The component host calls back
// into the renderer with each descriptor on its own schedule; the captured
// context and values source keep the children bound to this subtree's state.
func (ctx *Context) deferChildren(el *host.Element, n *compiled.Node, vals values) {
	for _, child := range n.Children {
		d := &DeferredChild{node: child, vals: vals, ctx: ctx}
		if name, ok := staticAttr(child, "slot"); ok {
			if el.NamedSlots == nil {
				el.NamedSlots = map[string][]any{}
			}
			el.NamedSlots[name] = append(el.NamedSlots[name], d)
			continue
		}
		el.DeferredChildren = append(el.DeferredChildren, d)
	}
}

func staticAttr(n *compiled.Node, name string) (string, bool) {
	if n.Op != compiled.OpElement {
		return "", false
	}
	for _, a := range n.StaticAttrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// elementNamespace resolves the namespace an element is created in: the
// compiler's explicit flag wins, then the tag itself, then the container.
func elementNamespace(n *compiled.Node, parent *host.Element) host.Namespace {
	if n.SVG {
		return host.NamespaceSVG
	}
	if ns, ok := host.TagNamespace(n.Tag); ok {
		return ns
	}
	if parent != nil && parent.NS != host.NamespaceHTML {
		// foreignObject re-enters HTML content.
		if parent.Tag == "foreignObject" {
			return host.NamespaceHTML
		}
		return parent.NS
	}
	return host.NamespaceHTML
}

// rebuildInNamespace recreates a cloned subtree with every element in the
// target namespace, preserving attributes and non-element children.
func rebuildInNamespace(doc *host.Document, el *host.Element, ns host.Namespace) *host.Element {
	out := doc.CreateElement(el.Tag, ns)
	out.Opaque = el.Opaque
	for _, a := range el.Attrs() {
		out.SetAttribute(a.Name, a.Value)
	}
	for _, c := range el.Children() {
		if childEl, ok := c.(*host.Element); ok {
			out.AppendChild(rebuildInNamespace(doc, childEl, ns))
			continue
		}
		out.AppendChild(host.CloneNode(doc, c))
	}
	return out
}
