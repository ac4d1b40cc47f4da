package layout

import (
	"strings"

	"github.com/benjaminschreck/go-layout/pkg/layout/format"
)

// Layout is a compiled layout. The node tree is never modified after
// building, so a Layout is safe for concurrent rendering once any post
// formatter has been set.
type Layout struct {
	nodes    []Node
	warnings []Warning
	invalid  []string
	post     format.Formatter
}

// Parse tokenizes and builds src.
func Parse(src string, registry *Registry) (*Layout, error) {
	tokens, err := Tokenize(src)
	if err != nil {
		return nil, err
	}
	return Build(tokens, registry), nil
}

// Nodes returns the top-level nodes.
func (l *Layout) Nodes() []Node {
	return l.nodes
}

// Warnings returns the structural problems found while building.
func (l *Layout) Warnings() []Warning {
	return l.warnings
}

// InvalidFormatters returns the formatter names that did not resolve, in
// source order.
func (l *Layout) InvalidFormatters() []string {
	return l.invalid
}

// SetPostFormatter sets a formatter applied after the chain of every
// top-level field and option field. Fields inside blocks are not affected.
func (l *Layout) SetPostFormatter(f format.Formatter) {
	l.post = f
}

// clone returns a Layout sharing l's node tree with its own post formatter.
func (l *Layout) clone() *Layout {
	c := *l
	return &c
}

// Render renders the layout for one record with a fresh render state.
func (l *Layout) Render(rec Record, coll Collection) (string, error) {
	return l.RenderWithState(NewRenderState(), rec, coll)
}

// RenderWithState renders the layout for one record. The active group in
// state is read and updated, so consecutive records sharing a state only
// print a group block when its value changes.
func (l *Layout) RenderWithState(state *RenderState, rec Record, coll Collection) (string, error) {
	if state == nil {
		state = NewRenderState()
	}
	r := &renderer{
		scope:  recordScope,
		state:  state,
		record: rec,
		coll:   coll,
		post:   l.post,
	}
	return r.renderNodes(l.nodes)
}

// RenderCollection renders a collection-scoped layout such as the begin or
// end section of an export. encoding is the output character set label; it
// defaults to the configured encoding.
func (l *Layout) RenderCollection(ctx CollectionContext, encoding string) (string, error) {
	if encoding == "" {
		encoding = GetGlobalConfig().DefaultEncoding
	}
	r := &renderer{
		scope:    collectionScope,
		state:    NewRenderState(),
		context:  ctx,
		encoding: encoding,
		post:     l.post,
	}
	if ctx != nil {
		r.coll = ctx.Collection()
	}
	return r.renderNodes(l.nodes)
}

func (l *Layout) String() string {
	parts := make([]string, len(l.nodes))
	for i, n := range l.nodes {
		parts[i] = n.String()
	}
	return strings.Join(parts, "\n")
}
