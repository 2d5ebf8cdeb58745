package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// query syntax
	QueryInfo         Code = 1000
	QuerySyntax       Code = 1001
	QueryBadType      Code = 1002
	QueryUnknownScope Code = 1003

	// expectations
	ExpectInfo     Code = 2000
	ExpectMismatch Code = 2001

	// resolver findings
	ResolveInfo            Code = 3000
	ResolveUnknownOperand  Code = 3001
	ResolveUnrankedOperand Code = 3002
	ResolveIndeterminate   Code = 3003
	ResolveNotArithmetic   Code = 3004
)

var (
	codeDescription = map[Code]string{
		UnknownCode:            "Unknown error",
		QueryInfo:              "Query information",
		QuerySyntax:            "Malformed query",
		QueryBadType:           "Malformed type expression",
		QueryUnknownScope:      "Unknown scope",
		ExpectInfo:             "Expectation information",
		ExpectMismatch:         "Expectation does not hold",
		ResolveInfo:            "Resolver information",
		ResolveUnknownOperand:  "Operand could not be resolved to a type",
		ResolveUnrankedOperand: "Operand has no arithmetic rank",
		ResolveIndeterminate:   "Assignability could not be determined",
		ResolveNotArithmetic:   "Operator does not promote its operands",
	}
)

func (c Code) ID() string {
	if ic := int(c); ic >= 1000 && ic < 4000 {
		return fmt.Sprintf("NTQ%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
