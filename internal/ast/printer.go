package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// String renderings are for debugging and test failure output only; the IR
// printer is the user-facing dump.

func (m *Module) String() string {
	return fmt.Sprintf("Module(%d stmts)", len(m.Body))
}

func (a *Assign) String() string {
	targets := make([]string, len(a.Targets))
	for i, t := range a.Targets {
		targets[i] = t.String()
	}
	return fmt.Sprintf("%s = %s", strings.Join(targets, " = "), exprString(a.Value))
}

func (a *AnnAssign) String() string {
	return fmt.Sprintf("%s: %s = %s", exprString(a.Target), exprString(a.Annotation), exprString(a.Value))
}

func (f *FunctionDef) String() string {
	params := make([]string, len(f.Args))
	for i, arg := range f.Args {
		params[i] = arg.String()
	}
	return fmt.Sprintf("def %s(%s)", f.Name, strings.Join(params, ", "))
}

func (a *Arg) String() string {
	if a.Annotation != nil {
		return fmt.Sprintf("%s: %s", a.Name, a.Annotation.String())
	}
	return a.Name
}

func (i *If) String() string    { return fmt.Sprintf("if %s", exprString(i.Test)) }
func (f *For) String() string   { return fmt.Sprintf("for %s in %s", exprString(f.Target), exprString(f.Iter)) }
func (w *While) String() string { return fmt.Sprintf("while %s", exprString(w.Test)) }

func (r *Return) String() string {
	if r.Value == nil {
		return "return"
	}
	return fmt.Sprintf("return %s", r.Value.String())
}

func (e *ExprStmt) String() string { return exprString(e.Value) }
func (b *BadStmt) String() string  { return fmt.Sprintf("<bad stmt %s>", b.Tag) }

func (b *BinOp) String() string {
	return fmt.Sprintf("(%s %s %s)", exprString(b.Left), b.Op, exprString(b.Right))
}

func (c *Call) String() string {
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", exprString(c.Func), strings.Join(args, ", "))
}

func (l *List) String() string  { return fmt.Sprintf("[%d elts]", len(l.Elts)) }
func (d *Dict) String() string  { return fmt.Sprintf("{%d pairs}", len(d.Keys)) }
func (t *Tuple) String() string { return fmt.Sprintf("(%d elts)", len(t.Elts)) }
func (n *Name) String() string  { return n.ID }

func (c *Constant) String() string {
	if c.Kind == LitStr {
		return strconv.Quote(c.Raw)
	}
	return c.Raw
}

func (s *Subscript) String() string {
	return fmt.Sprintf("%s[%s]", exprString(s.Value), exprString(s.Slice))
}

func (b *BadExpr) String() string { return fmt.Sprintf("<bad expr %s>", b.Tag) }

func exprString(e Expr) string {
	if e == nil {
		return "<nil>"
	}
	return e.String()
}
