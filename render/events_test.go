package render_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tinselui/tinsel/compiled"
	"github.com/tinselui/tinsel/host"
	"github.com/tinselui/tinsel/render"
)

func mountButton(t *testing.T, f *fixture, shape *compiled.Node, vals ...any) *host.Element {
	t.Helper()
	m := render.MountValue(f.doc, f.rt, f.box, render.Template{Shape: shape, Values: vals})
	t.Cleanup(m.Dispose)
	el, ok := f.box.Children()[0].(*host.Element)
	require.True(t, ok)
	return el
}

func TestEventHandlerInvoked(t *testing.T) {
	f := newFixture(t)
	shape := compiled.El("button", compiled.Txt("go")).
		WithEvents(compiled.EventBinding{Name: "click", Slot: 0})

	var got *host.Event
	btn := mountButton(t, f, shape, func(ev *host.Event) { got = ev })

	ev := btn.Dispatch("click", nil)
	require.NotNil(t, got)
	assert.Same(t, ev, got)
	assert.Same(t, btn, got.Target)
}

func TestEventModifiers(t *testing.T) {
	f := newFixture(t)
	shape := compiled.El("button").
		WithEvents(compiled.EventBinding{Name: "click", Slot: 0, Prevent: true, Stop: true})

	outerSeen := false
	f.box.AddListener("click", func(*host.Event) { outerSeen = true })

	called := false
	btn := mountButton(t, f, shape, func(*host.Event) { called = true })

	ev := btn.Dispatch("click", nil)
	assert.True(t, called)
	assert.True(t, ev.DefaultPrevented())
	assert.False(t, outerSeen, "stop halts bubbling past the element")
}

// Several bindings for one event name on one element chain in declaration
// order; a stop modifier on an earlier binding does not starve later ones.
func TestEventHandlerChaining(t *testing.T) {
	f := newFixture(t)
	shape := compiled.El("button").WithEvents(
		compiled.EventBinding{Name: "click", Slot: 0, Stop: true},
		compiled.EventBinding{Name: "click", Slot: 1},
	)

	var order []string
	btn := mountButton(t, f, shape,
		func(*host.Event) { order = append(order, "first") },
		func(*host.Event) { order = append(order, "second") },
	)

	btn.Dispatch("click", nil)
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestEventDetailExtraction(t *testing.T) {
	f := newFixture(t)
	shape := compiled.El("my-picker").AsComponent().
		WithEvents(compiled.EventBinding{Name: "change", Slot: 0, DetailKey: "value"})

	var got any
	picker := mountButton(t, f, shape, func(v any) { got = v })

	picker.Dispatch("change", map[string]any{"value": 42, "noise": true})
	assert.Equal(t, 42, got)
}

func TestOutsideInteraction(t *testing.T) {
	f := newFixture(t)
	now := time.Unix(1000, 0)
	f.doc.Now = func() time.Time { return now }

	shape := compiled.El("div",
		compiled.El("button", compiled.Txt("inner")),
	).WithEvents(compiled.EventBinding{Name: "click", Slot: 0, Outside: true})

	fired := 0
	panel := mountButton(t, f, shape, func() { fired++ })

	sibling := f.doc.CreateElement("p", host.NamespaceHTML)
	f.box.AppendChild(sibling)

	// Within the grace window the outside click is swallowed: it is most
	// likely the interaction that rendered the listener.
	sibling.Dispatch("click", nil)
	assert.Equal(t, 0, fired)

	now = now.Add(200 * time.Millisecond)
	sibling.Dispatch("click", nil)
	assert.Equal(t, 1, fired)

	// Clicks inside the subtree never count as outside.
	inner := panel.Children()[0].(*host.Element)
	inner.Dispatch("click", nil)
	assert.Equal(t, 1, fired)
}

func TestOutsideListenerRemovedOnDispose(t *testing.T) {
	f := newFixture(t)
	now := time.Unix(1000, 0)
	f.doc.Now = func() time.Time { return now }

	shape := compiled.El("div").
		WithEvents(compiled.EventBinding{Name: "click", Slot: 0, Outside: true})

	fired := 0
	m := render.MountValue(f.doc, f.rt, f.box, render.Template{Shape: shape, Values: []any{func() { fired++ }}})

	sibling := f.doc.CreateElement("p", host.NamespaceHTML)
	f.box.AppendChild(sibling)
	now = now.Add(time.Second)

	sibling.Dispatch("click", nil)
	require.Equal(t, 1, fired)

	m.Dispose()
	sibling.Dispatch("click", nil)
	assert.Equal(t, 1, fired, "document listener removed with the subtree")
}

func TestTwoWayBindingWriteBack(t *testing.T) {
	f := newFixture(t)
	shape := compiled.El("input").WithDynamic(compiled.AttrBinding{
		Name: "value",
		Kind: compiled.BindTwoWay,
		Slot: 0,
	})

	state := "initial"
	bind := render.Binding{
		Get: func() any { return state },
		Set: func(v any) { state = v.(string) },
	}
	input := mountButton(t, f, shape, bind)

	v, ok := input.Prop("value")
	require.True(t, ok)
	assert.Equal(t, "initial", v, "state pushed into the control on mount")

	// Host-side edit flows back through the binding's setter.
	require.NoError(t, input.SetProp("value", "typed"))
	input.Dispatch("input", nil)
	assert.Equal(t, "typed", state)
}
