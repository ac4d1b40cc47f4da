package layout

import (
	"unicode"
)

// FormatterSpec is one call of a formatter chain, e.g. Replace("\s+,_").
type FormatterSpec struct {
	Name string
	// Argument is the raw text between the parentheses; escapes are kept
	Argument    string
	HasArgument bool
}

func (s FormatterSpec) String() string {
	if !s.HasArgument {
		return s.Name
	}
	return s.Name + "(" + s.Argument + ")"
}

// ParseFormatterCalls parses a chain such as `Foo,Bar("a,b"),Baz(x)` into
// its calls in application order.
//
// A name is a run of letters, digits, '_', '$' and '.', starting with a
// letter, '_' or '$'. A quoted argument ends at the first unescaped `")`
// outside parentheses opened within the quotes; an unquoted one at the
// first ')' outside nested parentheses. Any other
// character separates calls. A call whose argument is not terminated is
// returned without an argument and ends the chain.
func ParseFormatterCalls(calls string) []FormatterSpec {
	var specs []FormatterSpec
	rs := []rune(calls)

	for i := 0; i < len(rs); i++ {
		if !isIdentStart(rs[i]) {
			continue
		}
		start := i
		for i+1 < len(rs) && isIdentPart(rs[i+1]) {
			i++
		}
		name := string(rs[start : i+1])

		if i+1 >= len(rs) || rs[i+1] != '(' {
			specs = append(specs, FormatterSpec{Name: name})
			continue
		}

		// i+2 is the first rune after '('
		arg, end, ok := scanArgument(rs, i+2)
		if !ok {
			specs = append(specs, FormatterSpec{Name: name})
			return specs
		}
		specs = append(specs, FormatterSpec{Name: name, Argument: arg, HasArgument: true})
		i = end
	}
	return specs
}

// scanArgument reads the argument starting at rs[i] and returns it together
// with the index of the closing ')'.
func scanArgument(rs []rune, i int) (string, int, bool) {
	if i >= len(rs) {
		return "", 0, false
	}

	if rs[i] == '"' {
		escaped := false
		depth := 0
		for j := i + 1; j+1 < len(rs); j++ {
			if !escaped && depth == 0 && rs[j] == '"' && rs[j+1] == ')' {
				return string(rs[i+1 : j]), j + 1, true
			}
			if !escaped {
				switch rs[j] {
				case '(':
					depth++
				case ')':
					// a stray ')' is text
					if depth > 0 {
						depth--
					}
				}
			}
			escaped = rs[j] == '\\' && !escaped
		}
		return "", 0, false
	}

	depth := 0
	for j := i; j < len(rs); j++ {
		switch rs[j] {
		case '(':
			depth++
		case ')':
			if depth == 0 {
				return string(rs[i:j]), j, true
			}
			depth--
		}
	}
	return "", 0, false
}

func isIdentStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_' || r == '$'
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r) || r == '.'
}
