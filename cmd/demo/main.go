package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/tinselui/tinsel/compiled"
	"github.com/tinselui/tinsel/host"
	"github.com/tinselui/tinsel/reactive"
	"github.com/tinselui/tinsel/render"
)

// A small task list driven end-to-end through the renderer: mount, toggle,
// reorder, then dump the host tree and mutation stats.

type task struct {
	ID    int
	Title string
	Done  bool
}

var (
	itemShape = compiled.El("li",
		compiled.Slot(0),
	).WithDynamic(compiled.AttrBinding{Name: "data-done", Slot: 1})

	appShape = compiled.El("section",
		compiled.El("h1", compiled.Txt("tasks")),
		compiled.El("ul", compiled.Slot(0)),
		compiled.El("footer", compiled.Slot(1)),
	)
)

func main() {
	doc := host.NewDocument()
	rt := reactive.NewRuntime()

	tasks := []task{
		{ID: 1, Title: "write the compiler"},
		{ID: 2, Title: "render something"},
		{ID: 3, Title: "ship it"},
	}
	version := reactive.NewSignal(rt, 0)
	touch := func() { version.Set(version.Peek() + 1) }

	taskItems := func() render.List {
		version.Get()
		items := make([]render.Item, len(tasks))
		for i, t := range tasks {
			items[i] = render.Keyed(t.ID, render.Template{
				Shape:  itemShape,
				Values: []any{t.Title, t.Done},
			})
		}
		return render.Each(items...)
	}
	remaining := func() any {
		version.Get()
		n := 0
		for _, t := range tasks {
			if !t.Done {
				n++
			}
		}
		return fmt.Sprintf("%d open", n)
	}

	m := render.MountValue(doc, rt, doc.Root, compiled.Get(func() any {
		return render.Template{
			Shape: appShape,
			Values: []any{
				compiled.Get(func() any { return taskItems() }),
				render.Contain{Render: remaining},
			},
		}
	}))
	defer m.Dispose()

	stage(doc, "initial mount")

	// Complete a task: per-row value push plus the contained counter.
	tasks[1].Done = true
	touch()
	doc.PumpFrame()
	stage(doc, "task completed")

	// Move the finished task to the bottom: keyed relocation, no rebuild.
	tasks[1], tasks[2] = tasks[2], tasks[1]
	touch()
	doc.PumpFrame()
	stage(doc, "reordered")
}

func stage(doc *host.Document, label string) {
	fmt.Printf("== %s ==\n%s\n\n", label, host.MarkupString(doc.Root))

	tbl := tablewriter.NewWriter(os.Stdout)
	tbl.SetHeader([]string{"stat", "value"})
	tbl.Append([]string{"nodes", strconv.Itoa(countNodes(doc.Root))})
	tbl.Append([]string{"mutations", strconv.FormatUint(doc.Mutations(), 10)})
	tbl.Render()
	fmt.Println()
}

func countNodes(el *host.Element) int {
	n := 1
	for _, c := range el.Children() {
		if child, ok := c.(*host.Element); ok {
			n += countNodes(child)
		} else {
			n++
		}
	}
	return n
}
