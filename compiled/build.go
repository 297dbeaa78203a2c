package compiled

import "github.com/tinselui/tinsel/host"

// Construction helpers assembling trees shaped like compiler output. Tests
// and the demo use these; a real compiler emits the structs directly.

func El(tag string, children ...*Node) *Node {
	return &Node{Op: OpElement, Tag: tag, Children: children}
}

func Txt(text string) *Node {
	return &Node{Op: OpText, Text: text}
}

func Slot(index int) *Node {
	return &Node{Op: OpSlot, Index: index}
}

func Frag(children ...*Node) *Node {
	return &Node{Op: OpFragment, Children: children}
}

func Static(template host.Node) *Node {
	return &Node{Op: OpStatic, Template: template}
}

// WithAttrs appends static attributes.
func (n *Node) WithAttrs(attrs ...host.Attr) *Node {
	n.StaticAttrs = append(n.StaticAttrs, attrs...)
	return n
}

// WithDynamic appends dynamic attribute bindings.
func (n *Node) WithDynamic(bindings ...AttrBinding) *Node {
	n.DynamicAttrs = append(n.DynamicAttrs, bindings...)
	return n
}

// WithEvents appends event bindings.
func (n *Node) WithEvents(events ...EventBinding) *Node {
	n.Events = append(n.Events, events...)
	return n
}

// AsComponent marks the element as an opaque embeddable component.
func (n *Node) AsComponent() *Node {
	n.Component = true
	return n
}
