package layout

import (
	"fmt"
	"strings"
)

// Node is one element of a compiled layout. The set of node types is closed;
// the renderer switches over all of them.
type Node interface {
	String() string
	// InvalidFormatters lists the unresolved formatter names of the node and
	// its children in source order
	InvalidFormatters() []string
	node()
}

// TextNode represents literal text
type TextNode struct {
	Text string
}

func (n *TextNode) String() string {
	return fmt.Sprintf("Text(%q)", n.Text)
}

// FieldNode represents a bare field reference such as \author
type FieldNode struct {
	Name string
}

func (n *FieldNode) String() string {
	return fmt.Sprintf("Field(%s)", n.Name)
}

// block holds what field and group blocks share
type block struct {
	Condition Condition
	Children  []Node
}

func (b *block) childrenString() string {
	parts := make([]string, len(b.Children))
	for i, child := range b.Children {
		parts[i] = child.String()
	}
	return strings.Join(parts, ", ")
}

func (b *block) InvalidFormatters() []string {
	var names []string
	for _, child := range b.Children {
		names = append(names, child.InvalidFormatters()...)
	}
	return names
}

// FieldBlockNode represents \begin{cond} ... \end{cond}
type FieldBlockNode struct {
	block
}

func (n *FieldBlockNode) String() string {
	return fmt.Sprintf("Begin(%s)[%s]", n.Condition.Raw, n.childrenString())
}

// GroupBlockNode represents \begingroup{cond} ... \endgroup{cond}. It is
// skipped when its value equals the group already being rendered.
type GroupBlockNode struct {
	block
}

func (n *GroupBlockNode) String() string {
	return fmt.Sprintf("BeginGroup(%s)[%s]", n.Condition.Raw, n.childrenString())
}

// OptionFieldNode represents \field[Chain] and \format[Chain]{text}. Ref is
// a field name prefixed with '\', "entrytype", or collection text.
type OptionFieldNode struct {
	Ref   string
	Chain []ChainEntry
}

func (n *OptionFieldNode) String() string {
	chain := make([]string, len(n.Chain))
	for i, e := range n.Chain {
		chain[i] = e.String()
	}
	return fmt.Sprintf("Option(%q, [%s])", n.Ref, strings.Join(chain, ", "))
}

func (n *OptionFieldNode) InvalidFormatters() []string {
	var names []string
	for _, e := range n.Chain {
		if e.Missing() {
			names = append(names, e.Name)
		}
	}
	return names
}

// EncodingNode represents \encoding
type EncodingNode struct{}

func (n *EncodingNode) String() string { return "Encoding" }

// FilenameNode represents \filename
type FilenameNode struct{}

func (n *FilenameNode) String() string { return "Filename" }

// FilepathNode represents \filepath
type FilepathNode struct{}

func (n *FilepathNode) String() string { return "Filepath" }

func (n *TextNode) InvalidFormatters() []string     { return nil }
func (n *FieldNode) InvalidFormatters() []string    { return nil }
func (n *EncodingNode) InvalidFormatters() []string { return nil }
func (n *FilenameNode) InvalidFormatters() []string { return nil }
func (n *FilepathNode) InvalidFormatters() []string { return nil }

func (n *TextNode) node()        {}
func (n *FieldNode) node()       {}
func (n *FieldBlockNode) node()  {}
func (n *GroupBlockNode) node()  {}
func (n *OptionFieldNode) node() {}
func (n *EncodingNode) node()    {}
func (n *FilenameNode) node()    {}
func (n *FilepathNode) node()    {}
