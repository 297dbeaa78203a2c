package render

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
	mapset "github.com/deckarep/golang-set/v2"
	"go.uber.org/zap"

	"github.com/tinselui/tinsel/compiled"
	"github.com/tinselui/tinsel/host"
	"github.com/tinselui/tinsel/reactive"
)

// keyHash canonicalizes an arbitrary key into a map key. Keys are hashed
// over their type and formatted value, so equal keys always collide and
// distinct key spaces (int 1 vs string "1") stay apart.
func keyHash(key any) uint64 {
	return xxhash.Sum64String(fmt.Sprintf("%T\x00%v", key, key))
}

// keyFor derives an item's identity: the user-supplied key when present,
// otherwise its position.
func keyFor(it Item, index int) uint64 {
	if it.HasKey {
		return keyHash(it.Key)
	}
	return keyHash(index)
}

// listItem is one rendered list entry: nodes owned exclusively by this item,
// its computations, and its private reactive values container. It lives as
// long as its key stays in the list with a matching structural shape.
type listItem struct {
	key   uint64
	prev  any
	shape *compiled.Node
	store *reactive.Store
	part  *Part
	nodes []host.Node
}

func (it *listItem) dispose() {
	if it.part != nil {
		it.part.Dispose()
		it.part = nil
	}
	for _, n := range it.nodes {
		host.Detach(n)
	}
	it.nodes = nil
}

// keyedList is a slot's list-mode state: item order plus the key→item map.
// Items whose key duplicates an earlier one cannot live in byKey; they land
// in extras so teardown still reaches them.
type keyedList struct {
	order    []uint64
	byKey    map[uint64]*listItem
	extras   []*listItem
	explicit bool
}

func (kl *keyedList) dispose() {
	for _, item := range kl.byKey {
		item.dispose()
	}
	for _, item := range kl.extras {
		item.dispose()
	}
}

// buildItem renders one descriptor, inserting its nodes before the given
// reference node.
func (s *slotState) buildItem(it Item, key uint64, before host.Node) *listItem {
	item := &listItem{key: key}
	v := resolve(s.ctx, it.Value)
	item.prev = v
	switch t := v.(type) {
	case nil:
	case Template:
		st := reactive.NewStore(s.ctx.rt, t.Values)
		part := s.ctx.instantiate(t.Shape, storeValues(st), s.parent, before)
		item.shape = t.Shape
		item.store = st
		item.part = part
		item.nodes = part.Nodes
	case host.Node:
		reactive.Untrack(s.ctx.rt, func() {
			s.parent.InsertBefore(t, before)
		})
		item.nodes = []host.Node{t}
	default:
		txt := s.ctx.doc.CreateText(fmt.Sprint(t))
		reactive.Untrack(s.ctx.rt, func() {
			s.parent.InsertBefore(txt, before)
		})
		item.nodes = []host.Node{txt}
	}
	return item
}

// refreshItem updates a surviving item in place: shape-matched templates get
// their values pushed, single text nodes get new data, anything else is
// rebuilt at its position (before ref).
func (s *slotState) refreshItem(item *listItem, it Item, ref host.Node) *listItem {
	v := resolve(s.ctx, it.Value)
	if tpl, ok := v.(Template); ok && item.store != nil && item.shape == tpl.Shape {
		item.store.SetAll(tpl.Values)
		item.prev = v
		return item
	}
	if reactive.Identical(v, item.prev) {
		return item
	}
	if len(item.nodes) == 1 {
		if txt, ok := item.nodes[0].(*host.Text); ok && isTextual(v) {
			s.ctx.sched.QueueText(txt, fmt.Sprint(v))
			item.prev = v
			return item
		}
	}
	// Shape changed: rebuild only this item.
	before := ref
	if len(item.nodes) > 0 {
		before = item.nodes[0]
	}
	replacement := s.buildItem(it, item.key, before)
	item.dispose()
	return replacement
}

func isTextual(v any) bool {
	switch v.(type) {
	case nil, Template, List, Contain, MemoList, TrustedMarkup, *DeferredChild, host.Node, []any:
		return false
	}
	return true
}

// reconcile diffs the incoming list against the current key map, reusing
// item records wherever a key survives. Returns false when reconciliation is
// infeasible; the caller then falls back to a full rebuild.
func (s *slotState) reconcile(next List) bool {
	old := s.items
	newKeys := make([]uint64, len(next.Items))
	keySet := mapset.NewThreadUnsafeSet[uint64]()
	dups := 0
	for i, it := range next.Items {
		newKeys[i] = keyFor(it, i)
		if !keySet.Add(newKeys[i]) {
			dups++
		}
	}
	if dups > 0 {
		s.ctx.log.Warn("keyed list contains duplicate keys; item reuse will be unreliable",
			zap.Int("duplicates", dups))
	}

	// Fast path: identical key sequences update every item in place with
	// zero node churn for unchanged shapes. Walk backward so a rebuilt
	// item knows the node it must precede.
	if sameKeys(newKeys, old.order) {
		ref := host.Node(s.anchor)
		for i := len(next.Items) - 1; i >= 0; i-- {
			item := old.byKey[newKeys[i]]
			if item == nil {
				return false
			}
			item = s.refreshItem(item, next.Items[i], ref)
			old.byKey[newKeys[i]] = item
			if len(item.nodes) > 0 {
				ref = item.nodes[0]
			}
		}
		return true
	}

	// Reordering is only meaningful for user-supplied keys; positional
	// keys would misattribute identity, so the conservative answer is a
	// full rebuild.
	if !old.explicit || !next.Explicit {
		return false
	}

	// Drop items whose key disappeared. Duplicates never held a key slot,
	// so a reorder disposes them alongside the removed keys.
	for _, k := range old.order {
		if keySet.Contains(k) {
			continue
		}
		if item := old.byKey[k]; item != nil {
			item.dispose()
			delete(old.byKey, k)
		}
	}
	for _, item := range old.extras {
		item.dispose()
	}
	old.extras = nil

	// Walk the new order end-to-start, keeping ref at the first node of
	// everything already placed. An item whose last node already abuts
	// ref needs no relocation.
	byKey := make(map[uint64]*listItem, len(next.Items))
	var extras []*listItem
	ref := host.Node(s.anchor)
	produced := 0
	for i := len(next.Items) - 1; i >= 0; i-- {
		k := newKeys[i]
		item, exists := old.byKey[k]
		if exists {
			delete(old.byKey, k)
			item = s.refreshItem(item, next.Items[i], ref)
			if len(item.nodes) > 0 && s.parent.NextSibling(item.nodes[len(item.nodes)-1]) != ref {
				s.moveItem(item, ref)
			}
		} else {
			item = s.buildItem(next.Items[i], k, ref)
		}
		if prev, taken := byKey[k]; taken {
			extras = append(extras, prev)
		}
		byKey[k] = item
		produced += len(item.nodes)
		if len(item.nodes) > 0 {
			ref = item.nodes[0]
		}
	}

	s.items = &keyedList{order: newKeys, byKey: byKey, extras: extras, explicit: true}

	if len(next.Items) > 0 && produced == 0 {
		s.ctx.log.Warn("keyed reconciliation produced no output nodes for a non-empty list; rebuilding")
		return false
	}
	return true
}

func sameKeys(a, b []uint64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func (s *slotState) moveItem(item *listItem, before host.Node) {
	reactive.Untrack(s.ctx.rt, func() {
		for _, n := range item.nodes {
			s.parent.InsertBefore(n, before)
		}
	})
}
