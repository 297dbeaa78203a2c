package render

import (
	"reflect"

	"go.uber.org/zap"

	"github.com/tinselui/tinsel/compiled"
	"github.com/tinselui/tinsel/reactive"
)

// Template is a structural-template result: a compiled shape plus the values
// filling its slots. Two Templates sharing one Shape pointer are updates of
// the same structure, so the renderer pushes the new values into the live
// subtree instead of rebuilding it.
type Template struct {
	Shape  *compiled.Node
	Values []any
}

// Item is one child descriptor in a list result.
type Item struct {
	Key    any
	HasKey bool
	Value  any
}

// Keyed builds an item carrying a user-supplied key.
func Keyed(key any, value any) Item {
	return Item{Key: key, HasKey: true, Value: value}
}

// Unkeyed builds an item identified only by its position.
func Unkeyed(value any) Item {
	return Item{Value: value}
}

// List is an ordered collection of child descriptors. Explicit reports that
// every key was user-supplied; only explicit lists may take the reordering
// reconciliation path, since positional keys cannot carry identity across a
// reorder.
type List struct {
	Items    []Item
	Explicit bool
}

// Each assembles a List, deriving Explicit from the items.
func Each(items ...Item) List {
	explicit := len(items) > 0
	for _, it := range items {
		if !it.HasKey {
			explicit = false
			break
		}
	}
	return List{Items: items, Explicit: explicit}
}

// Contain isolates a rapidly-changing fragment: Render runs inside its own
// nested computation, so its dependencies never re-run the parent subtree.
type Contain struct {
	Render func() any
}

// MemoList is a bulk-list descriptor expanded through the two-generation
// per-item cache before rendering. Caching is keyed on Key alone; callers
// needing content-sensitive invalidation fold a version token into the key.
type MemoList struct {
	Items  []any
	Key    func(item any, index int) any
	Render func(item any, index int) any

	// Cache persists hits across call sites when supplied; otherwise the
	// slot owns one.
	Cache *MemoCache

	// TrustKey skips the source-identity check on hits.
	TrustKey bool
}

// TrustedMarkup is explicitly-trusted markup injected as an unescaped
// subtree. Trust is the caller's assertion; nothing here verifies it.
type TrustedMarkup string

// Binding is the value behind a two-way attribute binding: Get feeds the
// attribute, Set receives host-side writes.
type Binding struct {
	Get func() any
	Set func(value any)
}

// When is a binary-selection marker. The chosen branch is cached on the slot
// controller that resolves it, never on the selector function, so two
// controllers sharing one selector cannot collide.
type When struct {
	Cond func() bool
	Then any
	Else any
}

// DeferredChild is a compiled child captured for an opaque embeddable
// component together with its values source and originating render context.
// The component hands it back to be instantiated on its own schedule; the
// captured context is what keeps the child reacting to the parent's state.
type DeferredChild struct {
	node *compiled.Node
	vals values
	ctx  *Context
}

// values reads per-slot entries either from a raw slice (static
// instantiation) or from a reactive store (live subtree).
type values struct {
	raw   []any
	store *reactive.Store
}

func rawValues(vs []any) values {
	return values{raw: vs}
}

func storeValues(st *reactive.Store) values {
	return values{store: st}
}

func (v values) get(i int) any {
	if v.store != nil {
		if i >= v.store.Len() {
			return nil
		}
		return v.store.Get(i)
	}
	if i >= len(v.raw) {
		return nil
	}
	return v.raw[i]
}

// resolve unwraps marker tokens down to a renderable value. Tagged getters
// and bindings are invoked (tracked reads), selection markers pick their
// branch, and untagged functions are refused: a bare function in slot
// content is treated as an error rather than auto-invoked.
func resolve(ctx *Context, v any) any {
	for {
		switch t := v.(type) {
		case compiled.Getter:
			if t.Fn == nil {
				return nil
			}
			v = t.Fn()
		case Binding:
			if t.Get == nil {
				return nil
			}
			v = t.Get()
		case When:
			if t.Cond != nil && t.Cond() {
				v = t.Then
			} else {
				v = t.Else
			}
		default:
			if isBareFunc(v) {
				ctx.log.Warn("refusing to render untagged function value; wrap reactive accessors in compiled.Getter",
					zap.String("type", reflect.TypeOf(v).String()))
				return nil
			}
			return v
		}
	}
}

func isBareFunc(v any) bool {
	return v != nil && reflect.TypeOf(v).Kind() == reflect.Func
}
