package ast

// Operator is a binary operator tag as produced by the front end.
type Operator string

const (
	OpAdd      Operator = "Add"
	OpSub      Operator = "Sub"
	OpMult     Operator = "Mult"
	OpDiv      Operator = "Div"
	OpMod      Operator = "Mod"
	OpPow      Operator = "Pow"
	OpLShift   Operator = "LShift"
	OpRShift   Operator = "RShift"
	OpBitOr    Operator = "BitOr"
	OpBitXor   Operator = "BitXor"
	OpBitAnd   Operator = "BitAnd"
	OpFloorDiv Operator = "FloorDiv"
	OpInvalid  Operator = ""
)

type BinOp struct {
	Pos   Position
	Left  Expr
	Op    Operator
	Right Expr
}

type Call struct {
	Pos  Position
	Func Expr
	Args []Expr
}

type List struct {
	Pos  Position
	Elts []Expr
}

type Dict struct {
	Pos    Position
	Keys   []Expr
	Values []Expr
}

type Tuple struct {
	Pos  Position
	Elts []Expr
}

type Name struct {
	Pos Position
	ID  string
}

// LiteralKind classifies a Constant by its runtime kind in the source
// language. Bool is distinct from Int even though the source language treats
// booleans as an integer subtype; the decoder classifies bools first.
type LiteralKind int

const (
	LitNone LiteralKind = iota
	LitBool
	LitInt
	LitFloat
	LitStr
)

// Constant is a literal. Raw holds the literal's textual form as the IR
// renders it: numbers as written, booleans True/False, strings unquoted.
type Constant struct {
	Pos  Position
	Kind LiteralKind
	Raw  string
}

// Subscript is a generic type annotation application, e.g. List[int].
type Subscript struct {
	Pos   Position
	Value Expr
	Slice Expr
}

// BadExpr stands in for an expression kind this layer does not model.
// Lowering yields an opaque placeholder temporary for it.
type BadExpr struct {
	Pos Position
	Tag string
}
