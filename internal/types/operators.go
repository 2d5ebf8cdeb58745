package types

import "fmt"

// BinaryOp enumerates binary operators a front end may hand to the resolver.
// Relational operators are left out: their result is boolean and needs no
// promotion lookup.
type BinaryOp uint8

const (
	OpInvalid BinaryOp = iota
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpEq
	OpNotEq
	OpLogicalAnd
	OpLogicalOr
)

var binaryOpText = [...]string{
	OpAdd:        "+",
	OpSub:        "-",
	OpMul:        "*",
	OpDiv:        "/",
	OpMod:        "%",
	OpEq:         "==",
	OpNotEq:      "!=",
	OpLogicalAnd: "&&",
	OpLogicalOr:  "||",
}

func (op BinaryOp) String() string {
	if op != OpInvalid && int(op) < len(binaryOpText) {
		return binaryOpText[op]
	}
	return fmt.Sprintf("BinaryOp(%d)", op)
}

// ParseBinaryOp looks an operator up by its source text.
func ParseBinaryOp(s string) (BinaryOp, bool) {
	for op, text := range binaryOpText {
		if text != "" && text == s {
			return BinaryOp(op), true
		}
	}
	return OpInvalid, false
}

// Promotes reports whether op derives its result from numeric promotion.
// Only + - * / do; % keeps the source language's integral rules.
func (op BinaryOp) Promotes() bool {
	switch op {
	case OpAdd, OpSub, OpMul, OpDiv:
		return true
	}
	return false
}
