// Package compiled models the structural template tree an external template
// compiler produces. The renderer consumes these nodes read-only; nothing in
// this package is mutated after construction.
package compiled

import "github.com/tinselui/tinsel/host"

// Op is the closed set of structural node kinds. The compiler guarantees
// closure over this set, so dispatch switches are exhaustive.
type Op int

const (
	// OpStatic is a pre-built subtree cloned wholesale at instantiation.
	OpStatic Op = iota
	// OpText is a literal text run.
	OpText
	// OpSlot is a dynamic position filled from the values array.
	OpSlot
	// OpElement is a tagged element with static and dynamic attributes.
	OpElement
	// OpFragment is an ordered sequence of children with no node of its own.
	OpFragment
)

// Node is one compiled structural node. Which fields are meaningful depends
// on Op.
type Node struct {
	Op Op

	// OpText
	Text string

	// OpSlot: position in the per-instantiation values array.
	Index int

	// OpStatic: subtree cloned into the target document.
	Template host.Node

	// OpElement
	Tag          string
	SVG          bool // explicit namespace flag from the compiler
	Component    bool // opaque embeddable component: children are handed off
	StaticAttrs  []host.Attr
	DynamicAttrs []AttrBinding
	Events       []EventBinding

	// OpElement, OpFragment
	Children []*Node
}

// BindingKind selects how a dynamic attribute descriptor resolves.
type BindingKind int

const (
	// BindSlot reads a single values-array entry.
	BindSlot BindingKind = iota
	// BindInterp concatenates literal runs and slot reads into one string.
	BindInterp
	// BindTwoWay reads a slot for the value and writes back on a host event.
	BindTwoWay
)

// AttrBinding describes one dynamic attribute, property or two-way binding
// on an element.
type AttrBinding struct {
	Name string
	Kind BindingKind

	// BindSlot, BindTwoWay
	Slot int

	// BindInterp
	Parts []InterpPart

	// BindTwoWay: host event that triggers the write-back ("input" when
	// empty).
	Event string
}

// InterpPart is one piece of a multi-part interpolation.
type InterpPart struct {
	Literal string
	Slot    int
	IsSlot  bool
}

// EventBinding describes one event listener on an element. Several bindings
// may share a Name; their handlers chain in declaration order.
type EventBinding struct {
	Name string
	Slot int

	// Modifiers.
	Prevent bool
	Stop    bool
	Outside bool

	// DetailKey extracts one payload field from a component-originated
	// event before invoking the handler.
	DetailKey string
}

// Getter tags a callable values-array entry as a deferred-read reactive
// accessor. An untagged function in slot content is rejected by the
// renderer; the tag is what distinguishes "call this to get the value" from
// "this function is the value" (an event handler).
type Getter struct {
	Fn func() any
}

// Get wraps fn as a Getter value.
func Get(fn func() any) Getter {
	return Getter{Fn: fn}
}
