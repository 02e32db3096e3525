package ast

// Module is the root of a front-end tree.
type Module struct {
	Pos  Position
	Body []Stmt
}

// Assign is a plain assignment, possibly to multiple targets (x = y = 1).
type Assign struct {
	Pos     Position
	Targets []Expr
	Value   Expr
}

// AnnAssign is an annotated assignment (x: int = 1).
type AnnAssign struct {
	Pos        Position
	Target     Expr
	Annotation Expr
	Value      Expr
}

type FunctionDef struct {
	Pos     Position
	Name    string
	Args    []*Arg
	Body    []Stmt
	Returns Expr // return annotation, nil when absent
}

// Arg is a single formal parameter of a FunctionDef.
type Arg struct {
	Pos        Position
	Name       string
	Annotation Expr
}

type If struct {
	Pos    Position
	Test   Expr
	Body   []Stmt
	Orelse []Stmt // else/elif branch, empty when absent
}

type For struct {
	Pos    Position
	Target Expr
	Iter   Expr
	Body   []Stmt
}

type While struct {
	Pos  Position
	Test Expr
	Body []Stmt
}

type Return struct {
	Pos   Position
	Value Expr // nil for a bare return
}

// ExprStmt is an expression evaluated for its side effects (a bare call).
type ExprStmt struct {
	Pos   Position
	Value Expr
}

// BadStmt stands in for a statement kind the front end produced but this
// layer does not model. Lowering skips it rather than aborting.
type BadStmt struct {
	Pos Position
	Tag string // the original node tag
}
