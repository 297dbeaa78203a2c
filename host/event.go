package host

import "time"

// Event is a dispatched interaction. Detail carries component-defined
// payload fields.
type Event struct {
	Type   string
	Target *Element
	Detail map[string]any
	Time   time.Time

	defaultPrevented   bool
	propagationStopped bool
}

func (ev *Event) PreventDefault()          { ev.defaultPrevented = true }
func (ev *Event) DefaultPrevented() bool   { return ev.defaultPrevented }
func (ev *Event) StopPropagation()         { ev.propagationStopped = true }
func (ev *Event) PropagationStopped() bool { return ev.propagationStopped }

// Handler receives a dispatched event.
type Handler func(*Event)

type listener struct {
	fn      Handler
	removed bool
}

// AddListener registers a handler for events of the given type reaching this
// element. Returns the remover.
func (e *Element) AddListener(event string, fn Handler) (remove func()) {
	if e.listeners == nil {
		e.listeners = map[string][]*listener{}
	}
	l := &listener{fn: fn}
	e.listeners[event] = append(e.listeners[event], l)
	return func() { l.removed = true }
}

// AddListener registers a document-level handler, run after an event has
// bubbled past the root (unless propagation was stopped). This is the hook
// outside-interaction detection uses.
func (d *Document) AddListener(event string, fn Handler) (remove func()) {
	l := &listener{fn: fn}
	d.listeners[event] = append(d.listeners[event], l)
	return func() { l.removed = true }
}

// Dispatch creates an event of the given type targeted at e and bubbles it
// root-ward, then through document-level listeners.
func (e *Element) Dispatch(eventType string, detail map[string]any) *Event {
	ev := &Event{
		Type:   eventType,
		Target: e,
		Detail: detail,
		Time:   e.doc.Now(),
	}
	for cur := e; cur != nil; cur = cur.parent {
		// Listeners already attached to the current element all run;
		// stopping propagation only halts further bubbling.
		for _, l := range cur.listeners[eventType] {
			if l.removed {
				continue
			}
			l.fn(ev)
		}
		if ev.propagationStopped {
			return ev
		}
	}
	for _, l := range e.doc.listeners[eventType] {
		if l.removed {
			continue
		}
		l.fn(ev)
	}
	return ev
}
