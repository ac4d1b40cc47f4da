package layout

import (
	"strings"
)

// TokenType represents the type of a layout token
type TokenType int

const (
	TokenText TokenType = iota
	TokenSimpleCommand
	TokenFieldStart
	TokenFieldEnd
	TokenGroupStart
	TokenGroupEnd
	TokenOptionField
	TokenEncodingName
	TokenFilename
	TokenFilepath
)

func (t TokenType) String() string {
	switch t {
	case TokenText:
		return "Text"
	case TokenSimpleCommand:
		return "SimpleCommand"
	case TokenFieldStart:
		return "FieldStart"
	case TokenFieldEnd:
		return "FieldEnd"
	case TokenGroupStart:
		return "GroupStart"
	case TokenGroupEnd:
		return "GroupEnd"
	case TokenOptionField:
		return "OptionField"
	case TokenEncodingName:
		return "EncodingName"
	case TokenFilename:
		return "Filename"
	case TokenFilepath:
		return "Filepath"
	default:
		return "Unknown"
	}
}

// Token represents a scanned layout token
type Token struct {
	Type  TokenType
	Value string
}

// Tokenize scans layout source into tokens.
//
//	\field                  SimpleCommand(field)
//	\begin{f} .. \end{f}    FieldStart(f) .. FieldEnd(f)
//	\begingroup{f} ..       GroupStart(f) .. GroupEnd(f)
//	\field[A,B("x")]        OptionField("\field\nA,B(\"x\")")
//	\format[A]{body}        OptionField("body\nA")
//	\encoding \filename \filepath
//
// "\\" is a literal backslash and a bare command may be terminated with "{}".
// An unterminated brace or bracket is a *ParseError.
func Tokenize(input string) ([]Token, error) {
	var tokens []Token
	var text strings.Builder

	logger := GetLogger()
	if logger.IsDebugMode() {
		logger.WithField("input_length", len(input)).Debug("Starting tokenization")
	}

	flush := func() {
		if text.Len() > 0 {
			tokens = append(tokens, Token{Type: TokenText, Value: text.String()})
			text.Reset()
		}
	}
	emit := func(t Token) {
		flush()
		if logger.IsDebugMode() {
			logger.WithFields(Fields{
				"type":  t.Type,
				"value": t.Value,
			}).Debug("Found token")
		}
		tokens = append(tokens, t)
	}

	for i := 0; i < len(input); {
		if input[i] != '\\' {
			next := strings.IndexByte(input[i:], '\\')
			if next < 0 {
				text.WriteString(input[i:])
				break
			}
			text.WriteString(input[i : i+next])
			i += next
			continue
		}

		if i+1 < len(input) && input[i+1] == '\\' {
			text.WriteByte('\\')
			i += 2
			continue
		}

		start := i
		name, end := scanName(input, i+1)
		if name == "" {
			text.WriteByte('\\')
			i++
			continue
		}
		i = end

		switch name {
		case "begin", "end", "begingroup", "endgroup":
			payload, next, err := readDelimited(input, i, '{', '}')
			if err != nil {
				return nil, err
			}
			if next == i {
				return nil, NewParseError("missing {name} after \\"+name, input[start:i], start)
			}
			i = next
			emit(Token{Type: blockTokenType(name), Value: strings.TrimSpace(payload)})

		case "format":
			chain, next, err := readDelimited(input, i, '[', ']')
			if err != nil {
				return nil, err
			}
			body, after, err := readDelimited(input, next, '{', '}')
			if err != nil {
				return nil, err
			}
			if after == next {
				return nil, NewParseError("missing {body} after \\format", input[start:next], start)
			}
			i = after
			emit(Token{Type: TokenOptionField, Value: body + "\n" + chain})

		case "encoding", "filename", "filepath":
			i = skipEmptyBraces(input, i)
			emit(Token{Type: metaTokenType(name)})

		default:
			chain, next, err := readDelimited(input, i, '[', ']')
			if err != nil {
				return nil, err
			}
			if next > i {
				i = next
				emit(Token{Type: TokenOptionField, Value: "\\" + name + "\n" + chain})
				continue
			}
			i = skipEmptyBraces(input, i)
			emit(Token{Type: TokenSimpleCommand, Value: name})
		}
	}
	flush()

	if logger.IsDebugMode() {
		logger.WithField("token_count", len(tokens)).Debug("Tokenization complete")
	}

	return tokens, nil
}

func scanName(input string, i int) (string, int) {
	end := i
	for end < len(input) && isNameChar(input[end]) {
		end++
	}
	return input[i:end], end
}

func isNameChar(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// readDelimited reads a balanced open..closing group starting at input[i].
// When input[i] is not open it returns ("", i, nil). Quoted sections inside
// brackets may contain the closing delimiter.
func readDelimited(input string, i int, open, closing byte) (string, int, error) {
	if i >= len(input) || input[i] != open {
		return "", i, nil
	}
	depth := 0
	inQuote := false
	for j := i; j < len(input); j++ {
		c := input[j]
		switch {
		case c == '\\' && j+1 < len(input):
			j++
		case c == '"' && open == '[':
			inQuote = !inQuote
		case inQuote:
		case c == open:
			depth++
		case c == closing:
			depth--
			if depth == 0 {
				return input[i+1 : j], j + 1, nil
			}
		}
	}
	return "", i, NewParseError("unterminated '"+string(open)+"'", input[i:min(len(input), i+20)], i)
}

func skipEmptyBraces(input string, i int) int {
	if strings.HasPrefix(input[i:], "{}") {
		return i + 2
	}
	return i
}

func blockTokenType(name string) TokenType {
	switch name {
	case "begin":
		return TokenFieldStart
	case "end":
		return TokenFieldEnd
	case "begingroup":
		return TokenGroupStart
	default:
		return TokenGroupEnd
	}
}

func metaTokenType(name string) TokenType {
	switch name {
	case "encoding":
		return TokenEncodingName
	case "filename":
		return TokenFilename
	default:
		return TokenFilepath
	}
}
