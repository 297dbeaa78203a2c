package render

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/tinselui/tinsel/compiled"
	"github.com/tinselui/tinsel/host"
	"github.com/tinselui/tinsel/reactive"
)

// slotState is the per-dynamic-binding state machine. One exists per slot in
// a compiled tree, driven by a single reactive computation; on each run it
// resolves the bound value and decides whether to mutate in place, reconcile
// a list, or tear down and rebuild. All state here is owned exclusively by
// this slot's computation.
type slotState struct {
	ctx    *Context
	parent *host.Element
	anchor *host.Anchor
	comp   *reactive.Computation

	prev     any
	havePrev bool

	// Single-content mode: one instantiated part and/or directly owned
	// top-level nodes.
	content *Part
	nodes   []host.Node
	shape   *compiled.Node
	store   *reactive.Store

	// List mode.
	items *keyedList

	// Bulk-list mode. The cache survives branch switches so windowed
	// re-entry still hits.
	memo *MemoCache

	// Contain mode.
	bound *boundary
}

// newSlot installs the controller: an anchor already sits in parent, and the
// computation re-runs whenever a value read through read (or during a
// re-evaluation) changes. The computation's teardown detaches everything the
// slot owns, recursively, then removes the anchor itself.
func newSlot(ctx *Context, parent *host.Element, anchor *host.Anchor, read func() any) *slotState {
	s := &slotState{ctx: ctx, parent: parent, anchor: anchor}
	s.comp = reactive.CreateComputation(ctx.rt, func() {
		s.update(resolve(ctx, read()))
	})
	s.comp.OnDispose(func() {
		s.clearAll()
		host.Detach(s.anchor)
	})
	return s
}

// update applies the decision table, in order, to the previous vs new
// resolved value.
func (s *slotState) update(v any) {
	s.ctx.sched.Begin()
	defer s.ctx.sched.End()

	// Exact match: no-op.
	if s.havePrev && reactive.Identical(v, s.prev) {
		return
	}

	// Same compiled shape: push the new values into the live subtree's
	// private container. No node churn; per-index stores fan the changes
	// out to exactly the bindings that read them.
	if tpl, ok := v.(Template); ok && s.store != nil && s.shape == tpl.Shape {
		s.store.SetAll(tpl.Values)
		s.remember(v)
		return
	}

	// Bulk-list descriptors expand through the memo cache into an
	// ordinary keyed list and take the list paths below.
	if ml, ok := v.(MemoList); ok {
		cache := ml.Cache
		if cache == nil {
			if s.memo == nil {
				s.memo = NewMemoCache()
			}
			cache = s.memo
		}
		v = cache.expand(ml)
	}

	// Existing key map: delegate to the reconciler. A nil result means
	// reconciliation was infeasible and we fall through to full rebuild.
	if l, ok := v.(List); ok && s.items != nil {
		if s.reconcile(l) {
			s.remember(v)
			return
		}
	}

	switch t := v.(type) {
	case nil:
		s.clearAll()

	case bool:
		if !t {
			s.clearAll()
			break
		}
		s.renderText(v)

	case Contain:
		if s.bound != nil {
			// Reuse the nested computation; only the callback
			// reference moves.
			s.bound.setRender(t.Render)
			break
		}
		s.clearContent()
		s.bound = newBoundary(s.ctx, s.parent, s.anchor, t.Render)

	case Template:
		s.clearAll()
		st := reactive.NewStore(s.ctx.rt, t.Values)
		part := s.ctx.instantiate(t.Shape, storeValues(st), s.parent, s.anchor)
		s.content = part
		s.nodes = part.Nodes
		s.shape = t.Shape
		s.store = st

	case List:
		s.clearAll()
		s.buildList(t)

	case TrustedMarkup:
		s.clearAll()
		raw := s.ctx.doc.CreateRaw(string(t))
		s.attachOwned(raw)

	case *DeferredChild:
		// Instantiate under the captured originating context so the
		// handed-off child keeps reacting to its origin's state.
		s.clearAll()
		part := t.ctx.instantiate(t.node, t.vals, s.parent, s.anchor)
		s.content = part
		s.nodes = part.Nodes

	case host.Node:
		s.clearAll()
		s.attachOwned(t)

	case []any:
		s.clearAll()
		s.renderSequence(t)

	default:
		s.renderText(v)
	}

	s.remember(v)
}

func (s *slotState) remember(v any) {
	s.prev = v
	s.havePrev = true
}

// renderText renders a primitive as a single text node, mutating the
// existing one in place when possible.
func (s *slotState) renderText(v any) {
	data := fmt.Sprint(v)
	if len(s.nodes) == 1 && s.content == nil && s.items == nil && s.bound == nil {
		if txt, ok := s.nodes[0].(*host.Text); ok {
			s.ctx.sched.QueueText(txt, data)
			return
		}
	}
	s.clearAll()
	s.attachOwned(s.ctx.doc.CreateText(data))
}

// renderSequence attaches an ordered collection item by item, tracking the
// insertion cursor. Sequences rebuild wholesale; keyed reuse needs a List.
func (s *slotState) renderSequence(seq []any) {
	part := &Part{}
	for _, item := range seq {
		item = resolve(s.ctx, item)
		switch t := item.(type) {
		case nil:
		case *DeferredChild:
			sub := t.ctx.instantiate(t.node, t.vals, s.parent, s.anchor)
			part.Nodes = append(part.Nodes, sub.Nodes...)
			part.effects = append(part.effects, sub.effects...)
			part.cleanups = append(part.cleanups, sub.cleanups...)
		case Template:
			st := reactive.NewStore(s.ctx.rt, t.Values)
			sub := s.ctx.instantiate(t.Shape, storeValues(st), s.parent, s.anchor)
			part.Nodes = append(part.Nodes, sub.Nodes...)
			part.effects = append(part.effects, sub.effects...)
			part.cleanups = append(part.cleanups, sub.cleanups...)
		case host.Node:
			reactive.Untrack(s.ctx.rt, func() {
				s.parent.InsertBefore(t, s.anchor)
			})
			part.Nodes = append(part.Nodes, t)
		default:
			txt := s.ctx.doc.CreateText(fmt.Sprint(t))
			reactive.Untrack(s.ctx.rt, func() {
				s.parent.InsertBefore(txt, s.anchor)
			})
			part.Nodes = append(part.Nodes, txt)
		}
	}
	s.content = part
	s.nodes = part.Nodes
}

// attachOwned inserts a node before the slot anchor and records ownership.
// Attachment is untracked so a nested component's internal reads cannot leak
// into this slot's dependency set.
func (s *slotState) attachOwned(n host.Node) {
	reactive.Untrack(s.ctx.rt, func() {
		s.parent.InsertBefore(n, s.anchor)
	})
	s.nodes = append(s.nodes, n)
}

// clearContent disposes everything except a live contain boundary.
func (s *slotState) clearContent() {
	if s.content != nil {
		s.content.Dispose()
		s.content = nil
	}
	for _, n := range s.nodes {
		host.Detach(n)
	}
	s.nodes = nil
	if s.items != nil {
		s.items.dispose()
		s.items = nil
	}
	s.shape = nil
	s.store = nil
}

// clearAll additionally tears down a contain boundary.
func (s *slotState) clearAll() {
	if s.bound != nil {
		s.bound.dispose()
		s.bound = nil
	}
	s.clearContent()
}

// buildList renders a fresh keyed list, one item record per descriptor.
func (s *slotState) buildList(l List) {
	kl := &keyedList{
		byKey:    map[uint64]*listItem{},
		explicit: l.Explicit,
	}
	warnDuplicateKeys(s.ctx.log, l)
	for i, it := range l.Items {
		item := s.buildItem(it, keyFor(it, i), s.anchor)
		kl.order = append(kl.order, item.key)
		if _, taken := kl.byKey[item.key]; taken {
			kl.extras = append(kl.extras, item)
			continue
		}
		kl.byKey[item.key] = item
	}
	s.items = kl
}

func warnDuplicateKeys(log *zap.Logger, l List) {
	seen := map[uint64]bool{}
	dups := 0
	for i, it := range l.Items {
		k := keyFor(it, i)
		if seen[k] {
			dups++
		}
		seen[k] = true
	}
	if dups > 0 {
		log.Warn("keyed list contains duplicate keys; item reuse will be unreliable",
			zap.Int("duplicates", dups))
	}
}
