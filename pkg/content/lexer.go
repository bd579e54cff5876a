package content

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
)

// TokenType represents the type of a content stream token
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenOperand
	TokenOperator
	TokenArrayStart
	TokenArrayEnd
	TokenDictStart
	TokenDictEnd
)

func (t TokenType) String() string {
	switch t {
	case TokenEOF:
		return "EOF"
	case TokenOperand:
		return "Operand"
	case TokenOperator:
		return "Operator"
	case TokenArrayStart:
		return "ArrayStart"
	case TokenArrayEnd:
		return "ArrayEnd"
	case TokenDictStart:
		return "DictStart"
	case TokenDictEnd:
		return "DictEnd"
	default:
		return "Unknown"
	}
}

// Token is a single lexical element. Operands carry an Object; operators
// carry their keyword in Op.
type Token struct {
	Type  TokenType
	Value Object
	Op    string
}

// Lexer tokenizes a content stream
type Lexer struct {
	data []byte
	pos  int
}

// NewLexer creates a new content stream lexer
func NewLexer(data []byte) *Lexer {
	return &Lexer{data: data}
}

// Position returns the current offset into the stream
func (l *Lexer) Position() int {
	return l.pos
}

// NextToken returns the next token from the stream
func (l *Lexer) NextToken() (Token, error) {
	l.skipWhitespaceAndComments()
	if l.pos >= len(l.data) {
		return Token{Type: TokenEOF}, nil
	}

	ch := l.data[l.pos]
	switch {
	case ch == '[':
		l.pos++
		return Token{Type: TokenArrayStart}, nil
	case ch == ']':
		l.pos++
		return Token{Type: TokenArrayEnd}, nil
	case ch == '<':
		if l.pos+1 < len(l.data) && l.data[l.pos+1] == '<' {
			l.pos += 2
			return Token{Type: TokenDictStart}, nil
		}
		return l.readHexString()
	case ch == '>':
		if l.pos+1 < len(l.data) && l.data[l.pos+1] == '>' {
			l.pos += 2
			return Token{Type: TokenDictEnd}, nil
		}
		return Token{}, fmt.Errorf("unexpected '>' at offset %d", l.pos)
	case ch == '(':
		return l.readString()
	case ch == '/':
		return l.readName()
	case ch == '+' || ch == '-' || ch == '.' || (ch >= '0' && ch <= '9'):
		return l.readNumber()
	case ch == ')' || ch == '{' || ch == '}':
		return Token{}, fmt.Errorf("unexpected %q at offset %d", ch, l.pos)
	default:
		return l.readKeyword(), nil
	}
}

func (l *Lexer) skipWhitespaceAndComments() {
	for l.pos < len(l.data) {
		ch := l.data[l.pos]
		if isWhitespace(ch) {
			l.pos++
			continue
		}
		if ch == '%' {
			for l.pos < len(l.data) && l.data[l.pos] != '\n' && l.data[l.pos] != '\r' {
				l.pos++
			}
			continue
		}
		break
	}
}

func (l *Lexer) readNumber() (Token, error) {
	start := l.pos
	l.pos++
	for l.pos < len(l.data) {
		ch := l.data[l.pos]
		if ch == '.' || (ch >= '0' && ch <= '9') {
			l.pos++
			continue
		}
		break
	}

	str := string(l.data[start:l.pos])
	if str == "." || str == "-" || str == "+" {
		return Token{Type: TokenOperand, Value: Number(0)}, nil
	}
	f, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return Token{}, fmt.Errorf("invalid number %q at offset %d", str, start)
	}
	return Token{Type: TokenOperand, Value: Number(f)}, nil
}

func (l *Lexer) readString() (Token, error) {
	l.pos++ // consume (
	var buf []byte
	depth := 1

	for {
		if l.pos >= len(l.data) {
			return Token{}, errors.New("unterminated string")
		}
		ch := l.data[l.pos]
		l.pos++

		switch ch {
		case '(':
			depth++
			buf = append(buf, ch)
		case ')':
			depth--
			if depth == 0 {
				return Token{Type: TokenOperand, Value: String(buf)}, nil
			}
			buf = append(buf, ch)
		case '\\':
			if l.pos >= len(l.data) {
				return Token{}, errors.New("unterminated string")
			}
			esc := l.data[l.pos]
			l.pos++
			switch esc {
			case 'n':
				buf = append(buf, '\n')
			case 'r':
				buf = append(buf, '\r')
			case 't':
				buf = append(buf, '\t')
			case 'b':
				buf = append(buf, '\b')
			case 'f':
				buf = append(buf, '\f')
			case '\r':
				// Line continuation
				if l.pos < len(l.data) && l.data[l.pos] == '\n' {
					l.pos++
				}
			case '\n':
			default:
				if esc >= '0' && esc <= '7' {
					val := int(esc - '0')
					for i := 0; i < 2 && l.pos < len(l.data); i++ {
						d := l.data[l.pos]
						if d < '0' || d > '7' {
							break
						}
						val = val*8 + int(d-'0')
						l.pos++
					}
					buf = append(buf, byte(val))
				} else {
					buf = append(buf, esc)
				}
			}
		default:
			buf = append(buf, ch)
		}
	}
}

func (l *Lexer) readHexString() (Token, error) {
	l.pos++ // consume <
	end := bytes.IndexByte(l.data[l.pos:], '>')
	if end < 0 {
		return Token{}, errors.New("unterminated hex string")
	}
	hex := l.data[l.pos : l.pos+end]
	l.pos += end + 1

	digits := make([]byte, 0, len(hex))
	for _, b := range hex {
		if isHexDigit(b) {
			digits = append(digits, b)
		} else if !isWhitespace(b) {
			return Token{}, fmt.Errorf("invalid character in hex string: %q", b)
		}
	}
	if len(digits)%2 != 0 {
		digits = append(digits, '0')
	}

	result := make([]byte, len(digits)/2)
	for i := range result {
		result[i] = unhex(digits[2*i])<<4 | unhex(digits[2*i+1])
	}
	return Token{Type: TokenOperand, Value: HexString(result)}, nil
}

func (l *Lexer) readName() (Token, error) {
	l.pos++ // consume /
	var buf []byte
	for l.pos < len(l.data) {
		ch := l.data[l.pos]
		if isDelimiter(ch) || isWhitespace(ch) {
			break
		}
		l.pos++
		if ch == '#' && l.pos+1 < len(l.data) && isHexDigit(l.data[l.pos]) && isHexDigit(l.data[l.pos+1]) {
			buf = append(buf, unhex(l.data[l.pos])<<4|unhex(l.data[l.pos+1]))
			l.pos += 2
			continue
		}
		buf = append(buf, ch)
	}
	return Token{Type: TokenOperand, Value: Name(buf)}, nil
}

func (l *Lexer) readKeyword() Token {
	start := l.pos
	for l.pos < len(l.data) {
		ch := l.data[l.pos]
		if isDelimiter(ch) || isWhitespace(ch) {
			break
		}
		l.pos++
	}
	if l.pos == start {
		// A lone delimiter not handled above
		l.pos++
	}

	keyword := string(l.data[start:l.pos])
	switch keyword {
	case "true":
		return Token{Type: TokenOperand, Value: Bool(true)}
	case "false":
		return Token{Type: TokenOperand, Value: Bool(false)}
	case "null":
		return Token{Type: TokenOperand, Value: Null{}}
	default:
		return Token{Type: TokenOperator, Op: keyword}
	}
}

// readInlineData reads the bytes of an inline image following the ID operator
// up to the EI operator, which is consumed.
func (l *Lexer) readInlineData() ([]byte, error) {
	// A single whitespace byte separates ID from the data
	if l.pos < len(l.data) && isWhitespace(l.data[l.pos]) {
		l.pos++
	}
	start := l.pos
	for i := start; i+1 < len(l.data); i++ {
		if l.data[i] != 'E' || l.data[i+1] != 'I' {
			continue
		}
		if i > start && !isWhitespace(l.data[i-1]) {
			continue
		}
		if i+2 < len(l.data) && !isWhitespace(l.data[i+2]) && !isDelimiter(l.data[i+2]) {
			continue
		}
		end := i
		if end > start && isWhitespace(l.data[end-1]) {
			end--
		}
		l.pos = i + 2
		return l.data[start:end], nil
	}
	return nil, errors.New("inline image without EI")
}

func isWhitespace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n' || ch == '\f' || ch == 0
}

func isDelimiter(ch byte) bool {
	return ch == '(' || ch == ')' || ch == '<' || ch == '>' ||
		ch == '[' || ch == ']' || ch == '{' || ch == '}' ||
		ch == '/' || ch == '%'
}

func isHexDigit(ch byte) bool {
	return (ch >= '0' && ch <= '9') || (ch >= 'A' && ch <= 'F') || (ch >= 'a' && ch <= 'f')
}

func unhex(ch byte) byte {
	switch {
	case ch >= '0' && ch <= '9':
		return ch - '0'
	case ch >= 'a' && ch <= 'f':
		return ch - 'a' + 10
	default:
		return ch - 'A' + 10
	}
}
