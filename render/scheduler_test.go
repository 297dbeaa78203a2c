package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tinselui/tinsel/host"
)

func TestSchedulerImmediateOutsidePass(t *testing.T) {
	doc := host.NewDocument()
	s := NewScheduler(doc)
	el := doc.CreateElement("div", host.NamespaceHTML)

	s.QueueAttribute(el, "id", Write{Kind: WriteAttr, Text: "x"})
	v, ok := el.Attr("id")
	require.True(t, ok)
	assert.Equal(t, "x", v)
	assert.False(t, doc.FramePending())
}

func TestSchedulerDefersInsidePass(t *testing.T) {
	doc := host.NewDocument()
	s := NewScheduler(doc)
	el := doc.CreateElement("div", host.NamespaceHTML)
	txt := doc.CreateText("a")

	s.Begin()
	s.QueueAttribute(el, "id", Write{Kind: WriteAttr, Text: "x"})
	s.QueueText(txt, "b")
	s.End()

	_, ok := el.Attr("id")
	assert.False(t, ok, "held until the frame")
	assert.Equal(t, "a", txt.Data)
	require.True(t, doc.FramePending())

	doc.PumpFrame()
	v, _ := el.Attr("id")
	assert.Equal(t, "x", v)
	assert.Equal(t, "b", txt.Data)
}

func TestSchedulerLastWriteWins(t *testing.T) {
	doc := host.NewDocument()
	s := NewScheduler(doc)
	el := doc.CreateElement("div", host.NamespaceHTML)

	s.Begin()
	s.QueueAttribute(el, "class", Write{Kind: WriteAttr, Text: "one"})
	s.QueueAttribute(el, "class", Write{Kind: WriteAttr, Text: "two"})
	s.End()

	before := doc.Mutations()
	doc.PumpFrame()
	assert.Equal(t, before+1, doc.Mutations(), "deduplicated to one applied write")
	v, _ := el.Attr("class")
	assert.Equal(t, "two", v)
}

func TestSchedulerNestedPasses(t *testing.T) {
	doc := host.NewDocument()
	s := NewScheduler(doc)
	el := doc.CreateElement("div", host.NamespaceHTML)

	s.Begin()
	s.Begin()
	s.QueueAttribute(el, "id", Write{Kind: WriteAttr, Text: "x"})
	s.End()
	assert.False(t, doc.FramePending(), "inner end does not commit")
	s.End()
	assert.True(t, doc.FramePending())
}

// A pass that created nodes flushes at its end instead of waiting a frame,
// so fresh output is never visible half-written.
func TestSchedulerCreatedFlushesImmediately(t *testing.T) {
	doc := host.NewDocument()
	s := NewScheduler(doc)
	el := doc.CreateElement("div", host.NamespaceHTML)

	s.Begin()
	s.MarkCreated()
	s.QueueAttribute(el, "id", Write{Kind: WriteAttr, Text: "x"})
	s.End()

	v, ok := el.Attr("id")
	require.True(t, ok)
	assert.Equal(t, "x", v)
	assert.False(t, doc.FramePending())
}

func TestSchedulerFlushNowCancelsFrame(t *testing.T) {
	doc := host.NewDocument()
	s := NewScheduler(doc)
	el := doc.CreateElement("div", host.NamespaceHTML)

	s.Begin()
	s.QueueAttribute(el, "id", Write{Kind: WriteAttr, Text: "x"})
	s.End()
	require.True(t, doc.FramePending())

	s.FlushNow()
	v, _ := el.Attr("id")
	assert.Equal(t, "x", v)

	// The cancelled frame callback must not re-apply anything.
	before := doc.Mutations()
	doc.PumpFrame()
	assert.Equal(t, before, doc.Mutations())
}

func TestSchedulerOnlyOneFrameRequested(t *testing.T) {
	doc := host.NewDocument()
	s := NewScheduler(doc)
	el := doc.CreateElement("div", host.NamespaceHTML)

	for i := 0; i < 3; i++ {
		s.Begin()
		s.QueueAttribute(el, "id", Write{Kind: WriteAttr, Text: "x"})
		s.End()
	}
	doc.PumpFrame()

	// A fresh write after the pump schedules a fresh frame.
	s.Begin()
	s.QueueAttribute(el, "id", Write{Kind: WriteAttr, Text: "y"})
	s.End()
	assert.True(t, doc.FramePending())
	doc.PumpFrame()
	v, _ := el.Attr("id")
	assert.Equal(t, "y", v)
}
