package reactive

// Signal is a writable reactive value. Get inside a computation subscribes
// that computation; Set with an equal value is a no-op.
type Signal[T comparable] struct {
	rt    *Runtime
	cell  *cell
	value T
}

func NewSignal[T comparable](rt *Runtime, value T) *Signal[T] {
	return &Signal[T]{rt: rt, cell: newCell(), value: value}
}

func (s *Signal[T]) Get() T {
	s.rt.track(s.cell)
	return s.value
}

// Peek reads the current value without subscribing.
func (s *Signal[T]) Peek() T {
	return s.value
}

func (s *Signal[T]) Set(value T) {
	if s.value == value {
		return
	}
	s.value = value
	s.rt.invalidate(s.cell)
}
