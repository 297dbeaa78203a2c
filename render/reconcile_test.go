package render_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tinselui/tinsel/compiled"
	"github.com/tinselui/tinsel/host"
	"github.com/tinselui/tinsel/reactive"
	"github.com/tinselui/tinsel/render"
)

var liShape = compiled.El("li", compiled.Slot(0))

func keyedRows(names []string) render.List {
	items := make([]render.Item, len(names))
	for i, n := range names {
		items[i] = render.Keyed(n, render.Template{Shape: liShape, Values: []any{n}})
	}
	return render.Each(items...)
}

// listTexts returns the text of each <li> under el, in tree order.
func listTexts(el *host.Element) []string {
	var out []string
	for _, c := range el.Children() {
		li, ok := c.(*host.Element)
		if !ok || li.Tag != "li" {
			continue
		}
		out = append(out, firstText(li))
	}
	return out
}

// listElems indexes each <li> under el by its text.
func listElems(el *host.Element) map[string]*host.Element {
	out := map[string]*host.Element{}
	for _, c := range el.Children() {
		li, ok := c.(*host.Element)
		if !ok || li.Tag != "li" {
			continue
		}
		out[firstText(li)] = li
	}
	return out
}

func firstText(el *host.Element) string {
	for _, c := range el.Children() {
		if t, ok := c.(*host.Text); ok {
			return t.Data
		}
	}
	return ""
}

// Identical key sequence with changed content: every node survives, only
// text data changes.
func TestReconcileInPlaceRefresh(t *testing.T) {
	f := newFixture(t)
	names := []string{"ada", "brin", "curie"}

	upper := reactive.NewSignal(f.rt, false)
	m := render.MountValue(f.doc, f.rt, f.box, compiled.Get(func() any {
		items := make([]render.Item, len(names))
		for i, n := range names {
			text := n
			if upper.Get() {
				text = n + "!"
			}
			items[i] = render.Keyed(n, render.Template{Shape: liShape, Values: []any{text}})
		}
		return render.Each(items...)
	}))
	defer m.Dispose()
	require.Equal(t, []string{"ada", "brin", "curie"}, listTexts(f.box))

	before := listElems(f.box)
	upper.Set(true)
	f.doc.PumpFrame()

	require.Equal(t, []string{"ada!", "brin!", "curie!"}, listTexts(f.box))
	after := listElems(f.box)
	assert.Same(t, before["ada"], after["ada!"])
	assert.Same(t, before["brin"], after["brin!"])
	assert.Same(t, before["curie"], after["curie!"])
}

// Overlapping window shift: surviving keys keep their nodes, removed keys
// are disposed, new keys are built, and final order matches the new list.
func TestReconcileWindowShift(t *testing.T) {
	f := newFixture(t)
	pages := [][]string{
		{"a", "b", "c", "d", "e"},
		{"c", "d", "e", "f", "g"},
	}
	page := reactive.NewSignal(f.rt, 0)

	m := render.MountValue(f.doc, f.rt, f.box, compiled.Get(func() any {
		return keyedRows(pages[page.Get()])
	}))
	defer m.Dispose()
	require.Equal(t, []string{"a", "b", "c", "d", "e"}, listTexts(f.box))
	before := listElems(f.box)

	page.Set(1)
	f.doc.PumpFrame()

	require.Equal(t, []string{"c", "d", "e", "f", "g"}, listTexts(f.box))
	after := listElems(f.box)
	for _, k := range []string{"c", "d", "e"} {
		assert.Same(t, before[k], after[k], "surviving key %q keeps its node", k)
	}
	assert.Nil(t, before["f"])
	assert.NotNil(t, after["f"])
	assert.Nil(t, after["a"], "removed key gone from output")
	assert.Nil(t, after["b"])
	assert.Nil(t, before["a"].Parent(), "removed node detached")
}

// Pure reorder: every node survives, only positions change.
func TestReconcileReorder(t *testing.T) {
	f := newFixture(t)
	orders := [][]string{
		{"x", "y", "z"},
		{"z", "x", "y"},
	}
	page := reactive.NewSignal(f.rt, 0)

	m := render.MountValue(f.doc, f.rt, f.box, compiled.Get(func() any {
		return keyedRows(orders[page.Get()])
	}))
	defer m.Dispose()
	before := listElems(f.box)

	page.Set(1)
	f.doc.PumpFrame()

	require.Equal(t, []string{"z", "x", "y"}, listTexts(f.box))
	after := listElems(f.box)
	for _, k := range []string{"x", "y", "z"} {
		assert.Same(t, before[k], after[k])
	}
}

// Positional keys never take the reordering path: a changed prefix means a
// rebuild, because positional identity cannot survive a shift.
func TestPositionalKeysRebuildOnShift(t *testing.T) {
	f := newFixture(t)
	pages := [][]string{
		{"one", "two"},
		{"zero", "one", "two"},
	}
	page := reactive.NewSignal(f.rt, 0)

	m := render.MountValue(f.doc, f.rt, f.box, compiled.Get(func() any {
		names := pages[page.Get()]
		items := make([]render.Item, len(names))
		for i, n := range names {
			items[i] = render.Unkeyed(render.Template{Shape: liShape, Values: []any{n}})
		}
		return render.Each(items...)
	}))
	defer m.Dispose()

	page.Set(1)
	f.doc.PumpFrame()
	assert.Equal(t, []string{"zero", "one", "two"}, listTexts(f.box))
}

// Duplicate keys are warned about and render unreliably, but they must not
// leak: disposal reaches every item, including the ones the key map could
// not hold.
func TestDuplicateKeysStillDisposed(t *testing.T) {
	f := newFixture(t)
	word := reactive.NewSignal(f.rt, "w")

	reads := 0
	item := func() render.Item {
		return render.Keyed("same", render.Template{
			Shape: liShape,
			Values: []any{compiled.Get(func() any {
				reads++
				return word.Get()
			})},
		})
	}

	m := render.MountValue(f.doc, f.rt, f.box, render.Each(item(), item()))
	require.Equal(t, 2, reads)
	require.Equal(t, 2, countElements(f.box))

	m.Dispose()
	assert.Equal(t, 0, countElements(f.box))
	assert.Len(t, f.box.Children(), 0)

	word.Set("z")
	assert.Equal(t, 2, reads, "no computation survived disposal")
}

// Mixed item kinds in one keyed list still render and reconcile.
func TestReconcileMixedItemKinds(t *testing.T) {
	f := newFixture(t)
	hr := f.doc.CreateElement("hr", host.NamespaceHTML)
	rows := reactive.NewSignal(f.rt, 0)

	m := render.MountValue(f.doc, f.rt, f.box, compiled.Get(func() any {
		n := rows.Get()
		return render.Each(
			render.Keyed("head", render.Template{Shape: liShape, Values: []any{"head"}}),
			render.Keyed("rule", hr),
			render.Keyed("count", n),
		)
	}))
	defer m.Dispose()
	require.Contains(t, f.markup(), "<hr>")
	require.Contains(t, f.markup(), "0")

	rows.Set(7)
	f.doc.PumpFrame()
	assert.Contains(t, f.markup(), "7")
	assert.Same(t, f.box, hr.Parent(), "host node item stays attached")
}
