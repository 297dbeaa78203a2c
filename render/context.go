// Package render turns compiled structural templates into live host nodes
// and keeps them synchronized with reactive state. Update cost is bounded by
// the number of changed bindings: each dynamic position runs as its own
// reactive computation and mutates only the nodes it owns.
package render

import (
	"go.uber.org/zap"

	"github.com/tinselui/tinsel/host"
	"github.com/tinselui/tinsel/reactive"
)

// Sanitizer vets attribute values bound into URL contexts. The actual policy
// lives upstream; the renderer only routes through it.
type Sanitizer interface {
	SanitizeURL(url string) string
}

type passthroughSanitizer struct{}

func (passthroughSanitizer) SanitizeURL(url string) string { return url }

// Context carries the collaborators one render pass needs: the target
// document, the reactive runtime, the commit scheduler, the warning logger
// and the sanitizer. It is passed down explicitly through instantiation
// instead of living in package globals.
type Context struct {
	doc   *host.Document
	rt    *reactive.Runtime
	sched Committer
	log   *zap.Logger
	san   Sanitizer
}

// Option adjusts a Context at mount time.
type Option func(*Context)

// WithLogger routes integrity warnings to l instead of discarding them.
func WithLogger(l *zap.Logger) Option {
	return func(ctx *Context) { ctx.log = l }
}

// WithSanitizer installs the URL sanitizer.
func WithSanitizer(s Sanitizer) Option {
	return func(ctx *Context) { ctx.san = s }
}

// WithCommitter replaces the commit scheduler, e.g. with a recording fake in
// tests or a scheduler shared across mounts.
func WithCommitter(c Committer) Option {
	return func(ctx *Context) { ctx.sched = c }
}

func newContext(doc *host.Document, rt *reactive.Runtime, opts ...Option) *Context {
	ctx := &Context{
		doc: doc,
		rt:  rt,
		log: zap.NewNop(),
		san: passthroughSanitizer{},
	}
	for _, opt := range opts {
		opt(ctx)
	}
	if ctx.sched == nil {
		ctx.sched = NewScheduler(doc)
	}
	return ctx
}
