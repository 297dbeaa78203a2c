package render

import (
	"github.com/tinselui/tinsel/host"
	"github.com/tinselui/tinsel/reactive"
)

// Mount is a live root binding: one slot controller rendering a value into a
// container element.
type Mount struct {
	ctx  *Context
	root *slotState
}

// MountValue renders value into container and keeps it synchronized until
// Dispose. Wrap reactive reads in a compiled.Getter so the root re-renders
// when they change; descriptor values (Template, List, Contain, ...) work
// directly.
func MountValue(doc *host.Document, rt *reactive.Runtime, container *host.Element, value any, opts ...Option) *Mount {
	ctx := newContext(doc, rt, opts...)
	ctx.sched.Begin()
	defer ctx.sched.End()

	anchor := doc.CreateAnchor("root")
	container.AppendChild(anchor)
	return &Mount{
		ctx:  ctx,
		root: newSlot(ctx, container, anchor, func() any { return value }),
	}
}

// Instantiate renders a deferred child descriptor under its captured
// originating context. Embeddable component hosts call this for each
// descriptor the renderer handed them; disposal of the returned part is
// theirs.
func Instantiate(d *DeferredChild, container *host.Element) *Part {
	d.ctx.sched.Begin()
	defer d.ctx.sched.End()
	return d.ctx.instantiate(d.node, d.vals, container, nil)
}

// Dispose tears the whole tree down: nodes detached, computations disposed,
// recursively.
func (m *Mount) Dispose() {
	m.root.comp.Dispose()
}

// Flush forces any deferred writes to apply immediately, for callers
// needing read-after-write consistency without waiting for a frame.
func (m *Mount) Flush() {
	m.ctx.sched.FlushNow()
}
