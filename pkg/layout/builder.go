package layout

import (
	"fmt"
	"strings"
)

// Warning is a structural problem found while building a layout. The
// layout is still built.
type Warning struct {
	// Index of the offending token
	Index   int
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("token %d: %s", w.Index, w.Message)
}

type builder struct {
	tokens   []Token
	pos      int
	registry *Registry
	warnings []Warning
	logger   *Logger
}

// Build turns tokens into a layout, resolving formatter chains with
// registry. A nil registry resolves built-in formatters only.
func Build(tokens []Token, registry *Registry) *Layout {
	if registry == nil {
		registry = NewRegistry(nil)
	}
	b := &builder{
		tokens:   tokens,
		registry: registry,
		logger:   GetLogger(),
	}

	if b.logger.IsDebugMode() {
		b.logger.WithField("token_count", len(tokens)).Debug("Building layout")
	}

	nodes := b.parseSequence(nil)
	l := &Layout{nodes: nodes, warnings: b.warnings}
	for _, n := range nodes {
		l.invalid = append(l.invalid, n.InvalidFormatters()...)
	}

	if b.logger.IsDebugMode() {
		b.logger.WithFields(Fields{
			"nodes":    len(nodes),
			"warnings": len(b.warnings),
			"invalid":  len(l.invalid),
		}).Debug("Layout built")
	}
	return l
}

// parseSequence builds nodes until the end token closing the innermost
// block of open, or until the tokens run out.
func (b *builder) parseSequence(open []Token) []Node {
	var nodes []Node

	for b.pos < len(b.tokens) {
		tok := b.tokens[b.pos]
		index := b.pos
		b.pos++

		switch tok.Type {
		case TokenText:
			nodes = append(nodes, &TextNode{Text: tok.Value})

		case TokenSimpleCommand:
			nodes = append(nodes, &FieldNode{Name: strings.TrimSpace(tok.Value)})

		case TokenOptionField:
			nodes = append(nodes, b.optionField(tok.Value))

		case TokenEncodingName:
			nodes = append(nodes, &EncodingNode{})

		case TokenFilename:
			nodes = append(nodes, &FilenameNode{})

		case TokenFilepath:
			nodes = append(nodes, &FilepathNode{})

		case TokenFieldStart, TokenGroupStart:
			for _, o := range open {
				if o.Type == tok.Type && strings.EqualFold(o.Value, tok.Value) {
					b.warn(index, fmt.Sprintf("%s{%s} is nested inside a block of the same name", commandFor(tok.Type), tok.Value))
					break
				}
			}
			children := b.parseSequence(append(open[:len(open):len(open)], tok))
			blk := block{Condition: ParseCondition(tok.Value), Children: children}
			if tok.Type == TokenGroupStart {
				nodes = append(nodes, &GroupBlockNode{blk})
			} else {
				nodes = append(nodes, &FieldBlockNode{blk})
			}

		case TokenFieldEnd, TokenGroupEnd:
			if len(open) == 0 {
				b.warn(index, fmt.Sprintf("%s{%s} has no matching start", commandFor(tok.Type), tok.Value))
				continue
			}
			start := open[len(open)-1]
			if start.Type != startFor(tok.Type) || start.Value != tok.Value {
				b.warn(index, fmt.Sprintf("%s{%s} closes %s{%s}; start and end must be equal",
					commandFor(tok.Type), tok.Value, commandFor(start.Type), start.Value))
			}
			return nodes
		}
	}

	if len(open) > 0 {
		start := open[len(open)-1]
		b.warn(len(b.tokens), fmt.Sprintf("%s{%s} is never closed", commandFor(start.Type), start.Value))
	}
	return nodes
}

// optionField splits "ref\nchain" and resolves the chain. The chain is the
// text after the last newline so a \format body may span lines.
func (b *builder) optionField(value string) Node {
	i := strings.LastIndexByte(value, '\n')
	if i < 0 {
		return &OptionFieldNode{Ref: value}
	}
	return &OptionFieldNode{
		Ref:   strings.TrimSpace(value[:i]),
		Chain: b.registry.ResolveChain(value[i+1:]),
	}
}

func (b *builder) warn(index int, message string) {
	b.warnings = append(b.warnings, Warning{Index: index, Message: message})
	b.logger.WithField("token", index).Warn("%s", message)
}

func startFor(end TokenType) TokenType {
	if end == TokenGroupEnd {
		return TokenGroupStart
	}
	return TokenFieldStart
}

func commandFor(t TokenType) string {
	switch t {
	case TokenFieldStart:
		return `\begin`
	case TokenFieldEnd:
		return `\end`
	case TokenGroupStart:
		return `\begingroup`
	case TokenGroupEnd:
		return `\endgroup`
	}
	return t.String()
}
