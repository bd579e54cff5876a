package content

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"sort"
	"strconv"
)

// Parse splits a content stream into operations
func Parse(data []byte) ([]Operation, error) {
	l := NewLexer(data)
	var ops []Operation
	var operands []Object

	for {
		tok, err := l.NextToken()
		if err != nil {
			return nil, err
		}

		switch tok.Type {
		case TokenEOF:
			return ops, nil

		case TokenOperand:
			operands = append(operands, tok.Value)

		case TokenArrayStart:
			arr, err := parseArray(l)
			if err != nil {
				return nil, err
			}
			operands = append(operands, arr)

		case TokenDictStart:
			dict, err := parseDict(l)
			if err != nil {
				return nil, err
			}
			operands = append(operands, dict)

		case TokenOperator:
			if tok.Op == "BI" {
				op, err := parseInlineImage(l)
				if err != nil {
					return nil, err
				}
				ops = append(ops, op)
				operands = nil
				continue
			}
			ops = append(ops, Operation{Operator: tok.Op, Operands: operands})
			operands = nil

		default:
			return nil, fmt.Errorf("unexpected %s at offset %d", tok.Type, l.Position())
		}
	}
}

func parseObject(l *Lexer, tok Token) (Object, error) {
	switch tok.Type {
	case TokenOperand:
		return tok.Value, nil
	case TokenArrayStart:
		return parseArray(l)
	case TokenDictStart:
		return parseDict(l)
	case TokenOperator:
		// Bare keywords inside arrays and dicts are kept as names
		return Name(tok.Op), nil
	default:
		return nil, fmt.Errorf("unexpected %s at offset %d", tok.Type, l.Position())
	}
}

func parseArray(l *Lexer) (Array, error) {
	arr := Array{}
	for {
		tok, err := l.NextToken()
		if err != nil {
			return nil, err
		}
		switch tok.Type {
		case TokenArrayEnd:
			return arr, nil
		case TokenEOF:
			return nil, fmt.Errorf("unterminated array")
		}
		obj, err := parseObject(l, tok)
		if err != nil {
			return nil, err
		}
		arr = append(arr, obj)
	}
}

func parseDict(l *Lexer) (Dict, error) {
	dict := Dict{}
	for {
		tok, err := l.NextToken()
		if err != nil {
			return nil, err
		}
		switch tok.Type {
		case TokenDictEnd:
			return dict, nil
		case TokenEOF:
			return nil, fmt.Errorf("unterminated dictionary")
		}
		key, ok := tok.Value.(Name)
		if tok.Type != TokenOperand || !ok {
			return nil, fmt.Errorf("dictionary key must be a name at offset %d", l.Position())
		}

		tok, err = l.NextToken()
		if err != nil {
			return nil, err
		}
		val, err := parseObject(l, tok)
		if err != nil {
			return nil, err
		}
		dict[key] = val
	}
}

// parseInlineImage reads the key/value pairs after BI, the ID operator and
// the image data up to EI.
func parseInlineImage(l *Lexer) (Operation, error) {
	params := Dict{}
	for {
		tok, err := l.NextToken()
		if err != nil {
			return Operation{}, err
		}
		if tok.Type == TokenOperator && tok.Op == "ID" {
			break
		}
		if tok.Type == TokenEOF {
			return Operation{}, fmt.Errorf("inline image without ID")
		}
		key, ok := tok.Value.(Name)
		if !ok {
			return Operation{}, fmt.Errorf("inline image key must be a name at offset %d", l.Position())
		}
		tok, err = l.NextToken()
		if err != nil {
			return Operation{}, err
		}
		val, err := parseObject(l, tok)
		if err != nil {
			return Operation{}, err
		}
		params[key] = val
	}

	data, err := l.readInlineData()
	if err != nil {
		return Operation{}, err
	}
	return Operation{Operator: "BI", Operands: []Object{params}, InlineData: data}, nil
}

// Write serializes operations as a content stream, one operation per line
func Write(w io.Writer, ops []Operation) error {
	bw := bufio.NewWriter(w)
	for _, op := range ops {
		if op.Operator == "BI" {
			writeInlineImage(bw, op)
			continue
		}
		for _, o := range op.Operands {
			writeObject(bw, o)
			bw.WriteByte(' ')
		}
		bw.WriteString(op.Operator)
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// Marshal serializes operations into a new buffer
func Marshal(ops []Operation) []byte {
	var buf bytes.Buffer
	Write(&buf, ops)
	return buf.Bytes()
}

func writeInlineImage(w *bufio.Writer, op Operation) {
	w.WriteString("BI\n")
	if len(op.Operands) > 0 {
		if params, ok := op.Operands[0].(Dict); ok {
			for _, k := range sortedKeys(params) {
				writeObject(w, k)
				w.WriteByte(' ')
				writeObject(w, params[k])
				w.WriteByte('\n')
			}
		}
	}
	w.WriteString("ID ")
	w.Write(op.InlineData)
	w.WriteString("\nEI\n")
}

func sortedKeys(d Dict) []Name {
	keys := make([]Name, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func writeObject(w *bufio.Writer, o Object) {
	switch v := o.(type) {
	case nil, Null:
		w.WriteString("null")
	case Bool:
		w.WriteString(strconv.FormatBool(bool(v)))
	case Number:
		w.WriteString(FormatNumber(float64(v)))
	case String:
		writeLiteral(w, v)
	case HexString:
		fmt.Fprintf(w, "<%x>", []byte(v))
	case Name:
		writeName(w, v)
	case Array:
		w.WriteByte('[')
		for i, e := range v {
			if i > 0 {
				w.WriteByte(' ')
			}
			writeObject(w, e)
		}
		w.WriteByte(']')
	case Dict:
		w.WriteString("<<")
		for _, k := range sortedKeys(v) {
			writeName(w, k)
			w.WriteByte(' ')
			writeObject(w, v[k])
		}
		w.WriteString(">>")
	}
}

// FormatNumber formats f without an exponent, as PDF requires
func FormatNumber(f float64) string {
	if f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func writeLiteral(w *bufio.Writer, s []byte) {
	w.WriteByte('(')
	for _, b := range s {
		switch b {
		case '(', ')', '\\':
			w.WriteByte('\\')
			w.WriteByte(b)
		case '\n':
			w.WriteString(`\n`)
		case '\r':
			w.WriteString(`\r`)
		default:
			if b < 0x20 || b > 0x7e {
				fmt.Fprintf(w, "\\%03o", b)
			} else {
				w.WriteByte(b)
			}
		}
	}
	w.WriteByte(')')
}

func writeName(w *bufio.Writer, n Name) {
	w.WriteByte('/')
	for i := 0; i < len(n); i++ {
		b := n[i]
		if b < 0x21 || b > 0x7e || b == '#' || isDelimiter(b) {
			fmt.Fprintf(w, "#%02X", b)
		} else {
			w.WriteByte(b)
		}
	}
}
