package ast

// Position is a source location reported by the front end. The zero value
// means the front end did not attach one.
type Position struct {
	Line   int
	Column int
}

// Kind is the node tag used on the wire by the front end.
type Kind string

const (
	KindModule      Kind = "Module"
	KindAssign      Kind = "Assign"
	KindAnnAssign   Kind = "AnnAssign"
	KindFunctionDef Kind = "FunctionDef"
	KindArg         Kind = "arg"
	KindIf          Kind = "If"
	KindFor         Kind = "For"
	KindWhile       Kind = "While"
	KindReturn      Kind = "Return"
	KindExprStmt    Kind = "Expr"
	KindBinOp       Kind = "BinOp"
	KindCall        Kind = "Call"
	KindList        Kind = "List"
	KindDict        Kind = "Dict"
	KindTuple       Kind = "Tuple"
	KindName        Kind = "Name"
	KindConstant    Kind = "Constant"
	KindSubscript   Kind = "Subscript"
	KindBadStmt     Kind = "BadStmt"
	KindBadExpr     Kind = "BadExpr"
)

type Node interface {
	NodePos() Position
	NodeKind() Kind
	String() string
}

// Stmt is a statement node.
type Stmt interface {
	Node
	isStmt()
}

// Expr is an expression node.
type Expr interface {
	Node
	isExpr()
}

func (*Assign) isStmt()      {}
func (*AnnAssign) isStmt()   {}
func (*FunctionDef) isStmt() {}
func (*If) isStmt()          {}
func (*For) isStmt()         {}
func (*While) isStmt()       {}
func (*Return) isStmt()      {}
func (*ExprStmt) isStmt()    {}
func (*BadStmt) isStmt()     {}

func (*BinOp) isExpr()     {}
func (*Call) isExpr()      {}
func (*List) isExpr()      {}
func (*Dict) isExpr()      {}
func (*Tuple) isExpr()     {}
func (*Name) isExpr()      {}
func (*Constant) isExpr()  {}
func (*Subscript) isExpr() {}
func (*BadExpr) isExpr()   {}

func (m *Module) NodePos() Position  { return m.Pos }
func (*Module) NodeKind() Kind       { return KindModule }
func (a *Assign) NodePos() Position  { return a.Pos }
func (*Assign) NodeKind() Kind       { return KindAssign }
func (a *AnnAssign) NodePos() Position { return a.Pos }
func (*AnnAssign) NodeKind() Kind    { return KindAnnAssign }
func (f *FunctionDef) NodePos() Position { return f.Pos }
func (*FunctionDef) NodeKind() Kind  { return KindFunctionDef }
func (a *Arg) NodePos() Position     { return a.Pos }
func (*Arg) NodeKind() Kind          { return KindArg }
func (i *If) NodePos() Position      { return i.Pos }
func (*If) NodeKind() Kind           { return KindIf }
func (f *For) NodePos() Position     { return f.Pos }
func (*For) NodeKind() Kind          { return KindFor }
func (w *While) NodePos() Position   { return w.Pos }
func (*While) NodeKind() Kind        { return KindWhile }
func (r *Return) NodePos() Position  { return r.Pos }
func (*Return) NodeKind() Kind       { return KindReturn }
func (e *ExprStmt) NodePos() Position { return e.Pos }
func (*ExprStmt) NodeKind() Kind     { return KindExprStmt }
func (b *BadStmt) NodePos() Position { return b.Pos }
func (*BadStmt) NodeKind() Kind      { return KindBadStmt }

func (b *BinOp) NodePos() Position    { return b.Pos }
func (*BinOp) NodeKind() Kind         { return KindBinOp }
func (c *Call) NodePos() Position     { return c.Pos }
func (*Call) NodeKind() Kind          { return KindCall }
func (l *List) NodePos() Position     { return l.Pos }
func (*List) NodeKind() Kind          { return KindList }
func (d *Dict) NodePos() Position     { return d.Pos }
func (*Dict) NodeKind() Kind          { return KindDict }
func (t *Tuple) NodePos() Position    { return t.Pos }
func (*Tuple) NodeKind() Kind         { return KindTuple }
func (n *Name) NodePos() Position     { return n.Pos }
func (*Name) NodeKind() Kind          { return KindName }
func (c *Constant) NodePos() Position { return c.Pos }
func (*Constant) NodeKind() Kind      { return KindConstant }
func (s *Subscript) NodePos() Position { return s.Pos }
func (*Subscript) NodeKind() Kind     { return KindSubscript }
func (b *BadExpr) NodePos() Position  { return b.Pos }
func (*BadExpr) NodeKind() Kind       { return KindBadExpr }
