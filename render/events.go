package render

import (
	"reflect"
	"time"

	"go.uber.org/zap"

	"github.com/tinselui/tinsel/compiled"
	"github.com/tinselui/tinsel/host"
	"github.com/tinselui/tinsel/reactive"
)

// outsideGrace is how long after attachment an outside-interaction listener
// stays deaf, so the interaction that rendered it never counts as "outside".
const outsideGrace = 100 * time.Millisecond

// wireEvents attaches listeners for every event binding on an element and
// returns a single remover. Bindings sharing a name chain in declaration
// order.
func wireEvents(ctx *Context, el *host.Element, events []compiled.EventBinding, vals values) func() {
	removers := make([]func(), 0, len(events))
	for _, b := range events {
		b := b
		if b.Outside {
			attachedAt := ctx.doc.Now()
			removers = append(removers, ctx.doc.AddListener(b.Name, func(ev *host.Event) {
				if ev.Target != nil && el.Contains(ev.Target) {
					return
				}
				if ev.Time.Sub(attachedAt) < outsideGrace {
					return
				}
				invokeHandler(ctx, b, vals, ev)
			}))
			continue
		}
		removers = append(removers, el.AddListener(b.Name, func(ev *host.Event) {
			if b.Prevent {
				ev.PreventDefault()
			}
			if b.Stop {
				ev.StopPropagation()
			}
			invokeHandler(ctx, b, vals, ev)
		}))
	}
	return func() {
		for _, remove := range removers {
			remove()
		}
	}
}

// invokeHandler looks up the bound handler at dispatch time — untracked, so
// a dispatch inside an evaluation pass records no dependencies — and calls
// it with the shape it asks for.
func invokeHandler(ctx *Context, b compiled.EventBinding, vals values, ev *host.Event) {
	var h any
	reactive.Untrack(ctx.rt, func() {
		h = resolveRead(vals.get(b.Slot))
	})
	if h == nil {
		return
	}
	switch fn := h.(type) {
	case func(*host.Event):
		fn(ev)
	case func(any):
		if b.DetailKey != "" {
			var payload any
			if ev.Detail != nil {
				payload = ev.Detail[b.DetailKey]
			}
			fn(payload)
			return
		}
		fn(ev)
	case func():
		fn()
	default:
		ctx.log.Warn("event handler is not callable",
			zap.String("event", b.Name),
			zap.String("type", reflect.TypeOf(h).String()))
	}
}

// wireWriteBack installs the host→state half of a two-way binding: when the
// configured event fires, the current host property is pushed into the
// binding's setter.
func wireWriteBack(ctx *Context, el *host.Element, b compiled.AttrBinding, vals values) func() {
	event := b.Event
	if event == "" {
		event = "input"
	}
	return el.AddListener(event, func(ev *host.Event) {
		var bind Binding
		var ok bool
		reactive.Untrack(ctx.rt, func() {
			bind, ok = vals.get(b.Slot).(Binding)
		})
		if !ok || bind.Set == nil {
			return
		}
		v, _ := el.Prop(b.Name)
		bind.Set(v)
	})
}
