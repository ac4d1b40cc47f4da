package layout

import (
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"

	"github.com/benjaminschreck/go-layout/pkg/layout/format"
)

// RenderState carries what one render pass accumulates: the group currently
// being rendered and the instances of stateful formatters such as Number. A
// fresh state is used for every Render call; an export pass shares one
// across its records so group headers are printed once per group and
// numbering runs across the records.
type RenderState struct {
	group    string
	hasGroup bool

	formatters map[*ChainEntry]format.Formatter
}

// NewRenderState creates a state with no active group.
func NewRenderState() *RenderState {
	return &RenderState{}
}

// ActiveGroup returns the value of the last group block entered.
func (s *RenderState) ActiveGroup() (string, bool) {
	return s.group, s.hasGroup
}

// Reset clears the active group. Formatter counters keep running.
func (s *RenderState) Reset() {
	s.group = ""
	s.hasGroup = false
}

// apply runs e, using this state's own instance when the formatter is
// stateful.
func (s *RenderState) apply(e *ChainEntry, value string) string {
	st, ok := e.formatter.(format.Stateful)
	if !ok {
		return e.Apply(value)
	}
	f, ok := s.formatters[e]
	if !ok {
		if s.formatters == nil {
			s.formatters = make(map[*ChainEntry]format.Formatter)
		}
		f = st.Fresh()
		s.formatters[e] = f
	}
	return f.Format(value)
}

func (s *RenderState) enter(group string) {
	s.group = group
	s.hasGroup = true
}

type scope int

const (
	recordScope scope = iota
	collectionScope
)

func (s scope) String() string {
	if s == collectionScope {
		return "collection"
	}
	return "record"
}

type renderer struct {
	scope    scope
	state    *RenderState
	record   Record
	coll     Collection
	context  CollectionContext
	encoding string
	post     format.Formatter
}

// renderNodes renders the top level of a layout. The post formatter applies
// to top-level fields and option fields only.
func (r *renderer) renderNodes(nodes []Node) (string, error) {
	var b strings.Builder
	for _, n := range nodes {
		text, _, err := r.render(n)
		if err != nil {
			return "", err
		}
		switch n.(type) {
		case *FieldNode, *OptionFieldNode:
			text = applyPost(r.post, text)
		}
		b.WriteString(text)
	}
	return b.String(), nil
}

// render returns the text of n. produced is false when n is a block whose
// condition skipped it, which callers treat differently from "".
func (r *renderer) render(n Node) (text string, produced bool, err error) {
	switch n := n.(type) {
	case *TextNode:
		return n.Text, true, nil

	case *FieldNode:
		if err := r.needRecord(n.String()); err != nil {
			return "", false, err
		}
		value, _ := r.record.ResolveFieldOrAlias(n.Name, r.coll)
		return value, true, nil

	case *FieldBlockNode:
		return r.renderBlock(&n.block, false)

	case *GroupBlockNode:
		return r.renderBlock(&n.block, true)

	case *OptionFieldNode:
		value, err := r.optionValue(n)
		if err != nil {
			return "", false, err
		}
		for i := range n.Chain {
			value = r.state.apply(&n.Chain[i], value)
		}
		return value, true, nil

	case *EncodingNode:
		if r.scope == recordScope {
			return "", false, NewUsageError(n.String(), r.scope.String())
		}
		return encodingDisplayName(r.encoding), true, nil

	case *FilenameNode:
		if r.scope == recordScope {
			return "", false, NewUsageError(n.String(), r.scope.String())
		}
		path, ok := r.databasePath()
		if !ok {
			return "", true, nil
		}
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
		return path, true, nil

	case *FilepathNode:
		if r.scope == recordScope {
			return "", false, NewUsageError(n.String(), r.scope.String())
		}
		path, _ := r.databasePath()
		return path, true, nil
	}
	return "", false, nil
}

func (r *renderer) renderBlock(b *block, group bool) (string, bool, error) {
	node := "field block " + b.Condition.Raw
	if group {
		node = "group block " + b.Condition.Raw
	}
	if err := r.needRecord(node); err != nil {
		return "", false, err
	}

	pass, value, present := b.Condition.Evaluate(func(field string) (string, bool) {
		return r.record.ResolveFieldOrAlias(field, r.coll)
	})
	if !pass {
		return "", false, nil
	}
	if group && present {
		if active, ok := r.state.ActiveGroup(); ok && strings.EqualFold(value, active) {
			return "", false, nil
		}
		r.state.enter(value)
	}

	type result struct {
		text     string
		produced bool
	}
	results := make([]result, len(b.Children))
	for i, child := range b.Children {
		text, produced, err := r.render(child)
		if err != nil {
			return "", false, err
		}
		results[i] = result{text, produced}
	}

	var sb strings.Builder
	previousSkipped := false
	for i := 0; i < len(results); i++ {
		res := results[i]
		if !res.produced {
			next := i + 1
			if next < len(results) && results[next].produced && strings.TrimSpace(results[next].text) == "" {
				i = next
				previousSkipped = true
				continue
			}
			previousSkipped = false
			continue
		}
		text := res.text
		if previousSkipped {
			text = strings.TrimLeft(text, "\r\n")
		}
		sb.WriteString(text)
		previousSkipped = false
	}
	return sb.String(), true, nil
}

// needRecord reports a node that reads the record when there is none to
// read: in collection scope, or in record scope called with a nil record.
func (r *renderer) needRecord(node string) error {
	if r.scope == collectionScope {
		return NewUsageError(node, r.scope.String())
	}
	if r.record == nil {
		return NewUsageError(node+" without a record", r.scope.String())
	}
	return nil
}

func (r *renderer) optionValue(n *OptionFieldNode) (string, error) {
	ref := n.Ref
	if r.scope == collectionScope {
		return resolveText(r.coll, ref), nil
	}
	switch {
	case ref == "entrytype", ref == "bibtextype":
		if err := r.needRecord(n.String()); err != nil {
			return "", err
		}
		if ref == "bibtextype" {
			WithField("field", ref).Warn("bibtextype is obsolete, use entrytype instead")
		}
		return r.record.DisplayType(), nil
	case strings.HasPrefix(ref, `\`):
		if err := r.needRecord(n.String()); err != nil {
			return "", err
		}
		value, _ := r.record.ResolveFieldOrAlias(ref[1:], r.coll)
		return value, nil
	}
	return resolveText(r.coll, ref), nil
}

func (r *renderer) databasePath() (string, bool) {
	if r.context == nil {
		return "", false
	}
	return r.context.DatabasePath()
}

func resolveText(c Collection, text string) string {
	if c == nil {
		return text
	}
	return c.ResolveText(text)
}

func applyPost(post format.Formatter, value string) string {
	if post == nil {
		return value
	}
	return post.Format(value)
}

// encodingDisplayName returns the IANA name of an encoding label such as
// "utf8" or "latin1". Unknown labels are returned trimmed.
func encodingDisplayName(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return ""
	}
	enc, err := ianaindex.IANA.Encoding(label)
	if err != nil || enc == nil {
		enc, err = htmlindex.Get(label)
		if err != nil {
			return label
		}
	}
	if name, err := ianaindex.IANA.Name(enc); err == nil {
		return name
	}
	return label
}
