// Package content lexes, rewrites and measures PDF content streams.
package content

import "fmt"

// Object is an operand of a content stream operation
type Object interface {
	Type() string
}

// Null represents the null object
type Null struct{}

func (Null) Type() string { return "null" }

// Bool represents a boolean object
type Bool bool

func (Bool) Type() string { return "bool" }

// Number represents an integer or real operand
type Number float64

func (Number) Type() string { return "number" }

// String represents a literal string
type String []byte

func (String) Type() string { return "string" }

// HexString represents a hexadecimal string
type HexString []byte

func (HexString) Type() string { return "hexstring" }

// Name represents a name object, without the leading slash
type Name string

func (Name) Type() string { return "name" }

// Array represents an array object
type Array []Object

func (Array) Type() string { return "array" }

// Dict represents a dictionary object
type Dict map[Name]Object

func (Dict) Type() string { return "dict" }

// Operation is an operator with its operands.
//
// Inline images are a single operation with operator "BI", the image
// dictionary as the only operand and the raw image bytes in InlineData.
type Operation struct {
	Operator   string
	Operands   []Object
	InlineData []byte
}

func (op Operation) String() string {
	return fmt.Sprintf("%v %s", op.Operands, op.Operator)
}

// Float returns operand i as a number, or 0 if it is missing or not numeric
func (op Operation) Float(i int) float64 {
	if i < len(op.Operands) {
		if n, ok := op.Operands[i].(Number); ok {
			return float64(n)
		}
	}
	return 0
}

// Name returns operand i as a name, or "" if it is missing or not a name
func (op Operation) Name(i int) string {
	if i < len(op.Operands) {
		if n, ok := op.Operands[i].(Name); ok {
			return string(n)
		}
	}
	return ""
}

// Bytes returns the bytes of a literal or hex string operand
func Bytes(o Object) ([]byte, bool) {
	switch v := o.(type) {
	case String:
		return v, true
	case HexString:
		return v, true
	}
	return nil, false
}
