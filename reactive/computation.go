package reactive

import (
	mapset "github.com/deckarep/golang-set/v2"
)

// A cell is the unit of observability: a plain set of computations to notify
// when whatever owns the cell changes.
type cell struct {
	observers mapset.Set[*Computation]
}

func newCell() *cell {
	return &cell{observers: mapset.NewThreadUnsafeSet[*Computation]()}
}

// A Computation is a unit of work re-invoked synchronously whenever any cell
// it read during its last run changes. Dependencies are re-collected from
// scratch on every run, so conditional reads narrow the subscription set.
type Computation struct {
	rt *Runtime
	fn func()

	deps      mapset.Set[*cell]
	onDispose []func()

	disposed bool
	pending  bool
}

// CreateComputation runs fn once immediately, tracking every reactive read,
// and returns the handle used to dispose it.
func CreateComputation(rt *Runtime, fn func()) *Computation {
	c := &Computation{
		rt:   rt,
		fn:   fn,
		deps: mapset.NewThreadUnsafeSet[*cell](),
	}
	c.run()
	return c
}

func (c *Computation) run() {
	if c.disposed {
		return
	}
	c.unlink()

	prevActive, prevTracking := c.rt.active, c.rt.tracking
	c.rt.active, c.rt.tracking = c, true
	defer func() {
		c.rt.active, c.rt.tracking = prevActive, prevTracking
	}()
	c.fn()
}

// unlink removes the computation from every cell it subscribed to.
func (c *Computation) unlink() {
	for dep := range c.deps.Iter() {
		dep.observers.Remove(c)
	}
	c.deps.Clear()
}

// OnDispose registers fn to run exactly once when the computation is
// disposed. Hooks run in registration order.
func (c *Computation) OnDispose(fn func()) {
	c.onDispose = append(c.onDispose, fn)
}

// Dispose unlinks the computation from all dependencies and runs its
// teardown hooks. Safe to call more than once; later calls are no-ops.
func (c *Computation) Dispose() {
	if c.disposed {
		return
	}
	c.disposed = true
	c.unlink()
	for _, fn := range c.onDispose {
		fn()
	}
	c.onDispose = nil
}

// Disposed reports whether Dispose has been called.
func (c *Computation) Disposed() bool {
	return c.disposed
}
