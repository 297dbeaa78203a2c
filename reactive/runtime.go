package reactive

// Runtime hosts a single-threaded reactive graph. All reads, writes and
// re-executions happen synchronously on the caller's goroutine; the renderer
// built on top never crosses a suspension point itself.
type Runtime struct {
	active   *Computation
	tracking bool

	batchDepth int
	queued     []*Computation
}

func NewRuntime() *Runtime {
	return &Runtime{}
}

// track registers the currently running computation as an observer of c.
func (rt *Runtime) track(c *cell) {
	if rt.active == nil || !rt.tracking {
		return
	}
	c.observers.Add(rt.active)
	rt.active.deps.Add(c)
}

// invalidate re-runs every observer of c, either immediately or, inside a
// batch, once at the end of the batch. Observers are snapshotted first since
// re-running rewires subscriptions.
func (rt *Runtime) invalidate(c *cell) {
	obs := c.observers.ToSlice()
	for _, o := range obs {
		if o.disposed {
			continue
		}
		if rt.batchDepth > 0 {
			if !o.pending {
				o.pending = true
				rt.queued = append(rt.queued, o)
			}
			continue
		}
		o.run()
	}
}

// Untrack runs fn with dependency tracking suspended. The active computation
// stays the same, it just records no new dependencies. Mirrors pausing and
// resuming tracking around node attachment so a nested component's reads do
// not leak into the caller's dependency set.
func Untrack(rt *Runtime, fn func()) {
	prev := rt.tracking
	rt.tracking = false
	defer func() { rt.tracking = prev }()
	fn()
}

// Batch defers observer re-runs until fn returns, so a computation depending
// on several written cells runs once instead of once per write.
func Batch(rt *Runtime, fn func()) {
	rt.batchDepth++
	defer func() {
		rt.batchDepth--
		if rt.batchDepth == 0 {
			rt.flushQueued()
		}
	}()
	fn()
}

func (rt *Runtime) flushQueued() {
	for len(rt.queued) > 0 {
		q := rt.queued
		rt.queued = nil
		for _, o := range q {
			o.pending = false
			if !o.disposed {
				o.run()
			}
		}
	}
}
