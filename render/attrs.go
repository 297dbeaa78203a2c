package render

import (
	"fmt"
	"reflect"
	"strings"

	"go.uber.org/zap"

	"github.com/tinselui/tinsel/compiled"
	"github.com/tinselui/tinsel/host"
	"github.com/tinselui/tinsel/reactive"
)

// bindAttr creates the per-binding computation for one dynamic attribute.
// The first run applies directly so a freshly created element never shows
// unresolved bindings; later runs route through the commit scheduler.
func (ctx *Context) bindAttr(el *host.Element, b compiled.AttrBinding, vals values) *reactive.Computation {
	first := true
	return reactive.CreateComputation(ctx.rt, func() {
		ctx.sched.Begin()
		defer ctx.sched.End()
		w, ok := resolveAttrBinding(ctx, el, b, vals)
		if !ok {
			return
		}
		if first {
			first = false
			w.Apply(el, b.Name)
			return
		}
		ctx.sched.QueueAttribute(el, b.Name, w)
	})
}

// resolveAttrBinding computes the concrete write for a binding descriptor.
// ok is false when the binding resolves to "do nothing" (blocked path,
// unchanged form-control value).
func resolveAttrBinding(ctx *Context, el *host.Element, b compiled.AttrBinding, vals values) (Write, bool) {
	var v any
	switch b.Kind {
	case compiled.BindInterp:
		var sb strings.Builder
		for _, part := range b.Parts {
			if !part.IsSlot {
				sb.WriteString(part.Literal)
				continue
			}
			if pv := resolveRead(vals.get(part.Slot)); pv != nil {
				sb.WriteString(fmt.Sprint(pv))
			}
		}
		v = sb.String()
	default:
		v = resolveRead(vals.get(b.Slot))
	}
	return coerce(ctx, el, b.Name, v)
}

// resolveRead unwraps value markers without refusing bare functions: a
// function here is a legitimate bound value (handler, component prop).
func resolveRead(v any) any {
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
		default:
			return v
		}
	}
}

// dangerousSegments are property-path pieces that would walk into
// prototype-pollution territory. Bindings through them are dropped, never
// applied.
var dangerousSegments = map[string]bool{
	"__proto__":   true,
	"prototype":   true,
	"constructor": true,
}

var urlAttrs = map[string]bool{
	"href":       true,
	"src":        true,
	"action":     true,
	"formaction": true,
	"xlink:href": true,
}

var formControlTags = map[string]bool{
	"input":    true,
	"textarea": true,
	"select":   true,
}

// coerce applies the host write rules for a resolved value.
func coerce(ctx *Context, el *host.Element, name string, v any) (Write, bool) {
	if strings.Contains(name, ".") {
		path := strings.Split(name, ".")
		for _, seg := range path {
			if dangerousSegments[seg] {
				ctx.log.Warn("blocked property path with dangerous segment",
					zap.String("name", name), zap.String("segment", seg))
				return Write{}, false
			}
		}
		return Write{Kind: WritePropPath, Path: path, Value: v}, true
	}

	// Opaque components receive rich values as properties untouched.
	if el.Opaque && !isPrimitive(v) && v != nil {
		return Write{Kind: WriteProp, Value: v}, true
	}

	// Namespaced attributes are always plain attributes, whatever the
	// value looks like.
	if strings.HasPrefix(name, "aria-") || strings.HasPrefix(name, "data-") {
		if v == nil {
			return Write{Kind: WriteAttrRemove}, true
		}
		return Write{Kind: WriteAttr, Text: fmt.Sprint(v)}, true
	}

	// Form-control state goes through properties, compared before writing
	// so an unchanged value never disturbs cursor or selection.
	if (name == "value" || name == "checked") && formControlTags[el.Tag] {
		if cur, ok := el.Prop(name); ok && reactive.Identical(cur, v) {
			return Write{}, false
		}
		return Write{Kind: WriteProp, Value: v}, true
	}

	if v == nil {
		return Write{Kind: WriteAttrRemove}, true
	}

	// Booleans are presence/absence, never the strings "true"/"false".
	if bv, ok := v.(bool); ok {
		if !bv {
			return Write{Kind: WriteAttrRemove}, true
		}
		return Write{Kind: WriteAttr, Text: ""}, true
	}

	text := fmt.Sprint(v)
	if urlAttrs[name] {
		text = ctx.san.SanitizeURL(text)
	}
	return Write{Kind: WriteAttr, Text: text}, true
}

func isPrimitive(v any) bool {
	switch reflect.ValueOf(v).Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// applyPropPath descends through nested property maps, creating levels as
// needed. Path segments were vetted at resolve time.
func applyPropPath(el *host.Element, path []string, v any) {
	if len(path) == 0 {
		return
	}
	if len(path) == 1 {
		if err := el.SetProp(path[0], v); err != nil {
			el.SetAttribute(path[0], fmt.Sprint(v))
		}
		return
	}
	root, _ := el.Prop(path[0])
	m, ok := root.(map[string]any)
	if !ok {
		m = map[string]any{}
		if err := el.SetProp(path[0], m); err != nil {
			return
		}
	}
	for _, seg := range path[1 : len(path)-1] {
		next, ok := m[seg].(map[string]any)
		if !ok {
			next = map[string]any{}
			m[seg] = next
		}
		m = next
	}
	m[path[len(path)-1]] = v
}
