package render

import (
	"github.com/tinselui/tinsel/host"
	"github.com/tinselui/tinsel/reactive"
)

// boundary is an isolated sub-tree: exactly one nested computation that
// re-renders a fragment without its dependencies ever reaching the parent
// subtree's computation. The render callback lives in a single-slot cell
// written by the parent and read by the nested computation, so a parent
// re-render only moves the reference — the nested computation and the DOM it
// owns are reused as-is.
type boundary struct {
	ctx    *Context
	parent *host.Element
	anchor *host.Anchor

	render  func() any
	version *reactive.Signal[int]

	comp *reactive.Computation

	// Content state is owned by the boundary, not the computation, so it
	// survives if the computation is ever recreated.
	inner *slotState
}

func newBoundary(ctx *Context, parent *host.Element, before host.Node, render func() any) *boundary {
	b := &boundary{
		ctx:     ctx,
		parent:  parent,
		render:  render,
		version: reactive.NewSignal(ctx.rt, 0),
	}
	b.anchor = ctx.doc.CreateAnchor("contain")
	reactive.Untrack(ctx.rt, func() {
		parent.InsertBefore(b.anchor, before)
	})
	b.inner = &slotState{ctx: ctx, parent: parent, anchor: b.anchor}
	b.comp = reactive.CreateComputation(ctx.rt, func() {
		b.version.Get()
		b.inner.update(resolve(ctx, b.render()))
	})
	return b
}

// setRender swaps the callback the nested computation invokes and nudges it
// once so the new fragment applies. The parent never recreates the
// computation or touches the boundary's nodes.
func (b *boundary) setRender(render func() any) {
	b.render = render
	b.version.Set(b.version.Peek() + 1)
}

func (b *boundary) dispose() {
	b.comp.Dispose()
	b.inner.clearAll()
	host.Detach(b.anchor)
}
