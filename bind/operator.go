package bind

import "fmt"

// Operator enumerates the operators a type can bind.
type Operator uint8

const (
	OpAdd Operator = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpAddEq
	OpSubEq
	OpMulEq
	OpDivEq
	OpModEq

	OpLogicalAnd
	OpLogicalOr
	OpShiftLeft
	OpShiftRight
	OpAnd
	OpOr
	OpXOr
	OpAndEq
	OpOrEq
	OpXOrEq

	OpAssign
	OpEquality
	OpInequality
	OpGreater
	OpGreaterEq
	OpLess
	OpLessEq

	OpPreInc
	OpPostInc
	OpPreDec
	OpPostDec
	OpNegate
	OpNot
	OpInvert

	numOperators
)

// operatorInfo drives the single operator binding routine. Arity counts the
// right-hand operands of the member form, including the trailing int32 that
// marks a postfix operator.
type operatorInfo struct {
	name    string
	token   string
	method  string // conventional Go method name
	arity   int
	postfix bool
}

var operators = [numOperators]operatorInfo{
	OpAdd:   {"OpAdd", "+", "Add", 1, false},
	OpSub:   {"OpSub", "-", "Sub", 1, false},
	OpMul:   {"OpMul", "*", "Mul", 1, false},
	OpDiv:   {"OpDiv", "/", "Div", 1, false},
	OpMod:   {"OpMod", "%", "Mod", 1, false},
	OpAddEq: {"OpAddEq", "+=", "AddAssign", 1, false},
	OpSubEq: {"OpSubEq", "-=", "SubAssign", 1, false},
	OpMulEq: {"OpMulEq", "*=", "MulAssign", 1, false},
	OpDivEq: {"OpDivEq", "/=", "DivAssign", 1, false},
	OpModEq: {"OpModEq", "%=", "ModAssign", 1, false},

	OpLogicalAnd: {"OpLogicalAnd", "&&", "LogicalAnd", 1, false},
	OpLogicalOr:  {"OpLogicalOr", "||", "LogicalOr", 1, false},
	OpShiftLeft:  {"OpShiftLeft", "<<", "Lsh", 1, false},
	OpShiftRight: {"OpShiftRight", ">>", "Rsh", 1, false},
	OpAnd:        {"OpAnd", "&", "And", 1, false},
	OpOr:         {"OpOr", "|", "Or", 1, false},
	OpXOr:        {"OpXOr", "^", "Xor", 1, false},
	OpAndEq:      {"OpAndEq", "&=", "AndAssign", 1, false},
	OpOrEq:       {"OpOrEq", "|=", "OrAssign", 1, false},
	OpXOrEq:      {"OpXOrEq", "^=", "XorAssign", 1, false},

	OpAssign:     {"OpAssign", "=", "Assign", 1, false},
	OpEquality:   {"OpEquality", "==", "Equal", 1, false},
	OpInequality: {"OpInequality", "!=", "NotEqual", 1, false},
	OpGreater:    {"OpGreater", ">", "Greater", 1, false},
	OpGreaterEq:  {"OpGreaterEq", ">=", "GreaterEqual", 1, false},
	OpLess:       {"OpLess", "<", "Less", 1, false},
	OpLessEq:     {"OpLessEq", "<=", "LessEqual", 1, false},

	OpPreInc:  {"OpPreInc", "++", "Inc", 0, false},
	OpPostInc: {"OpPostInc", "++", "PostInc", 1, true},
	OpPreDec:  {"OpPreDec", "--", "Dec", 0, false},
	OpPostDec: {"OpPostDec", "--", "PostDec", 1, true},
	OpNegate:  {"OpNegate", "-", "Neg", 0, false},
	OpNot:     {"OpNot", "!", "Not", 0, false},
	OpInvert:  {"OpInvert", "~", "Invert", 0, false},
}

// Token returns the canonical name the operator is bound under.
func (op Operator) Token() string {
	return op.info().token
}

// MethodName returns the Go method name Op looks for.
func (op Operator) MethodName() string {
	return op.info().method
}

// Arity returns the number of operands besides the instance, counting the
// postfix marker.
func (op Operator) Arity() int {
	return op.info().arity
}

// IsPostfix reports whether the operator carries the trailing int32 marker.
func (op Operator) IsPostfix() bool {
	return op.info().postfix
}

func (op Operator) String() string {
	if op >= numOperators {
		return fmt.Sprintf("Operator(%d)", uint8(op))
	}
	return op.info().name
}

func (op Operator) info() operatorInfo {
	if op >= numOperators {
		return operatorInfo{}
	}
	return operators[op]
}

// OperatorByMethod returns the operator whose conventional Go method name
// is name.
func OperatorByMethod(name string) (Operator, bool) {
	for i, info := range operators {
		if info.method == name {
			return Operator(i), true
		}
	}
	return 0, false
}
