package reactive

import "reflect"

// Store is a shallow reactive container over an ordered values slice. Each
// index is its own cell, so writing one entry re-runs only the computations
// that read that entry. This is the private per-subtree values container the
// renderer pushes fresh template values into.
type Store struct {
	rt     *Runtime
	values []any
	cells  []*cell
}

func NewStore(rt *Runtime, values []any) *Store {
	s := &Store{
		rt:     rt,
		values: make([]any, len(values)),
		cells:  make([]*cell, len(values)),
	}
	copy(s.values, values)
	for i := range s.cells {
		s.cells[i] = newCell()
	}
	return s
}

func (s *Store) Len() int {
	return len(s.values)
}

// Get is a tracked per-index read.
func (s *Store) Get(i int) any {
	s.rt.track(s.cells[i])
	return s.values[i]
}

// Peek reads without subscribing.
func (s *Store) Peek(i int) any {
	return s.values[i]
}

func (s *Store) Set(i int, v any) {
	if Identical(s.values[i], v) {
		return
	}
	s.values[i] = v
	s.rt.invalidate(s.cells[i])
}

// SetAll replaces the whole values slice, notifying only the indices whose
// value actually changed. Notifications for the pass are batched so a
// computation reading several indices runs once.
func (s *Store) SetAll(values []any) {
	for len(s.cells) < len(values) {
		s.values = append(s.values, nil)
		s.cells = append(s.cells, newCell())
	}
	Batch(s.rt, func() {
		for i, v := range values {
			s.Set(i, v)
		}
	})
}

// Identical is the exact-equality rule used for change skipping: interface
// equality, guarded so uncomparable values (slices, maps, funcs, descriptor
// structs carrying them) never panic and always count as changed.
func Identical(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	return a == b
}
