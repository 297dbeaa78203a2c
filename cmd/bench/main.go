package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"runtime"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jamiealquiza/tachymeter"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v3"

	"github.com/tinselui/tinsel/compiled"
	"github.com/tinselui/tinsel/host"
	"github.com/tinselui/tinsel/reactive"
	"github.com/tinselui/tinsel/render"
)

const (
	itersKey = "iters"
	rowsKey  = "rows"
)

func main() {
	cmd := &cli.Command{
		Name:  "bench",
		Usage: "Benchmark tinsel render paths against an in-memory host",
		Flags: []cli.Flag{
			&cli.UintFlag{
				Name:  itersKey,
				Usage: "Samples per benchmark",
				Value: 200,
			},
			&cli.UintFlag{
				Name:  rowsKey,
				Usage: "Largest list size to benchmark",
				Value: 1_000,
			},
		},
		Action: run,
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

var rowShape = compiled.El("li", compiled.Slot(0)).
	WithDynamic(compiled.AttrBinding{Name: "data-row", Slot: 1})

func run(ctx context.Context, cmd *cli.Command) error {
	iters := int(cmd.Uint(itersKey))
	maxRows := int(cmd.Uint(rowsKey))

	sizes := []int{10, 100}
	for n := 1_000; n <= maxRows; n *= 10 {
		sizes = append(sizes, n)
	}

	tbl := table.NewWriter()
	tbl.SetTitle("tinsel render")
	tbl.SetOutputMirror(os.Stdout)
	tbl.AppendHeader(table.Row{"benchmark", "avg", "min", "p75", "p99", "max"})

	for _, n := range sizes {
		benchRefresh(tbl, n, iters)
		benchReorder(tbl, n, iters)
		benchWindow(tbl, n, iters)
	}
	tbl.Render()

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	fmt.Printf("heap in use: %s, total allocated: %s\n",
		humanize.Bytes(ms.HeapInuse), humanize.Bytes(ms.TotalAlloc))
	return nil
}

type bench struct {
	doc  *host.Document
	rt   *reactive.Runtime
	box  *host.Element
	gen  *reactive.Signal[int]
	m    *render.Mount
	rows func(gen int) render.List
}

func newBench(n int, rows func(gen, n int) render.List) *bench {
	doc := host.NewDocument()
	box := doc.CreateElement("ul", host.NamespaceHTML)
	doc.Root.AppendChild(box)
	rt := reactive.NewRuntime()
	b := &bench{
		doc:  doc,
		rt:   rt,
		box:  box,
		gen:  reactive.NewSignal(rt, 0),
		rows: func(gen int) render.List { return rows(gen, n) },
	}
	b.m = render.MountValue(doc, rt, box, compiled.Get(func() any {
		return b.rows(b.gen.Get())
	}))
	return b
}

func (b *bench) step(tach *tachymeter.Tachymeter) {
	start := time.Now()
	b.gen.Set(b.gen.Peek() + 1)
	b.doc.PumpFrame()
	tach.AddTime(time.Since(start))
}

func row(key any, text string) render.Item {
	return render.Keyed(key, render.Template{Shape: rowShape, Values: []any{text, key}})
}

// benchRefresh re-renders every row's content without touching the key
// sequence: the pure value-push path.
func benchRefresh(tbl table.Writer, n, iters int) {
	b := newBench(n, func(gen, n int) render.List {
		items := make([]render.Item, n)
		for i := range items {
			items[i] = row(i, fmt.Sprintf("row %d gen %d", i, gen))
		}
		return render.Each(items...)
	})
	defer b.m.Dispose()

	tach := tachymeter.New(&tachymeter.Config{Size: iters})
	for i := 0; i < iters; i++ {
		b.step(tach)
	}
	appendCalc(tbl, fmt.Sprintf("refresh: %d rows", n), tach)
}

// benchReorder rotates the list one position per generation: the keyed
// relocation path.
func benchReorder(tbl table.Writer, n, iters int) {
	b := newBench(n, func(gen, n int) render.List {
		items := make([]render.Item, n)
		for i := range items {
			k := (i + gen) % n
			items[i] = row(k, fmt.Sprintf("row %d", k))
		}
		return render.Each(items...)
	})
	defer b.m.Dispose()

	tach := tachymeter.New(&tachymeter.Config{Size: iters})
	for i := 0; i < iters; i++ {
		b.step(tach)
	}
	appendCalc(tbl, fmt.Sprintf("reorder: %d rows", n), tach)
}

// benchWindow slides a half-overlapping window over a larger data set: the
// mixed remove/reuse/build path.
func benchWindow(tbl table.Writer, n, iters int) {
	b := newBench(n, func(gen, n int) render.List {
		items := make([]render.Item, n)
		base := gen * n / 2
		for i := range items {
			k := base + i
			items[i] = row(k, fmt.Sprintf("row %d", k))
		}
		return render.Each(items...)
	})
	defer b.m.Dispose()

	tach := tachymeter.New(&tachymeter.Config{Size: iters})
	for i := 0; i < iters; i++ {
		b.step(tach)
	}
	appendCalc(tbl, fmt.Sprintf("window: %d rows", n), tach)
}

func appendCalc(tbl table.Writer, name string, tach *tachymeter.Tachymeter) {
	calc := tach.Calc()
	tbl.AppendRows([]table.Row{
		{
			name,
			calc.Time.Avg,
			calc.Time.Min,
			calc.Time.P75,
			calc.Time.P99,
			calc.Time.Max,
		},
	})
}
