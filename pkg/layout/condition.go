package layout

import (
	"fmt"
	"regexp"
	"strings"
)

// ConditionOp combines the parts of a block condition
type ConditionOp int

const (
	// ConditionAnd joins parts with ';' or '&'
	ConditionAnd ConditionOp = iota
	// ConditionOr joins parts with '|'
	ConditionOr
)

func (op ConditionOp) String() string {
	if op == ConditionOr {
		return "Or"
	}
	return "And"
}

var (
	andPattern = regexp.MustCompile(`;|&+`)
	andSplit   = regexp.MustCompile(`\s*(;|&+)\s*`)
	orSplit    = regexp.MustCompile(`\s*\|+\s*`)
)

// ConditionPart is one field reference of a condition, e.g. "!doi".
type ConditionPart struct {
	Field   string
	Negated bool
}

func (p ConditionPart) String() string {
	if p.Negated {
		return "!" + p.Field
	}
	return p.Field
}

// Condition is the parsed payload of \begin{...} or \begingroup{...}.
type Condition struct {
	Op    ConditionOp
	Parts []ConditionPart
	Raw   string
}

// ParseCondition classifies raw as an AND or OR condition and splits it
// into parts. AND separators are checked first; text without any separator
// is a single-part AND condition.
func ParseCondition(raw string) Condition {
	c := Condition{Raw: raw}

	var pieces []string
	if andPattern.MatchString(raw) {
		c.Op = ConditionAnd
		pieces = andSplit.Split(raw, -1)
	} else {
		c.Op = ConditionOr
		pieces = orSplit.Split(raw, -1)
	}
	// trailing empty pieces carry no field
	for len(pieces) > 1 && pieces[len(pieces)-1] == "" {
		pieces = pieces[:len(pieces)-1]
	}
	if len(pieces) == 1 {
		c.Op = ConditionAnd
	}

	for _, piece := range pieces {
		piece = strings.TrimSpace(piece)
		part := ConditionPart{Field: piece}
		if strings.HasPrefix(piece, "!") {
			part.Negated = true
			part.Field = strings.TrimSpace(piece[1:])
		}
		c.Parts = append(c.Parts, part)
	}
	return c
}

// Evaluate resolves the parts with lookup. value and present describe the
// last part evaluated; AND stops at the first failing part and OR at the
// first satisfied one.
func (c Condition) Evaluate(lookup func(field string) (string, bool)) (pass bool, value string, present bool) {
	negated := false
	for _, part := range c.Parts {
		negated = part.Negated
		value, present = lookup(part.Field)
		satisfied := present != negated
		if c.Op == ConditionAnd && !satisfied {
			break
		}
		if c.Op == ConditionOr && satisfied {
			break
		}
	}
	return present != negated, value, present
}

func (c Condition) String() string {
	parts := make([]string, len(c.Parts))
	for i, p := range c.Parts {
		parts[i] = p.String()
	}
	return fmt.Sprintf("%s(%s)", c.Op, strings.Join(parts, ", "))
}
