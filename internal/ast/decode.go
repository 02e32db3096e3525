package ast

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParseResult is the envelope the front end hands over: either a tree, or a
// list of errors when parsing failed. The IR layer passes the errors through
// untouched and never retries.
type ParseResult struct {
	Module *Module
	Errors []string
}

// Failed reports whether the front end produced no usable tree.
func (r *ParseResult) Failed() bool {
	return r == nil || r.Module == nil || len(r.Errors) > 0
}

// DecodeParseResult decodes the front end's JSON envelope:
//
//	{"parse_success": true, "ast": {...}, "errors": []}
func DecodeParseResult(data []byte) (*ParseResult, error) {
	var envelope struct {
		ParseSuccess bool            `json:"parse_success"`
		Errors       []string        `json:"errors"`
		AST          json.RawMessage `json:"ast"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("malformed parse result: %w", err)
	}
	if !envelope.ParseSuccess {
		return &ParseResult{Errors: envelope.Errors}, nil
	}
	mod, err := DecodeModule(envelope.AST)
	if err != nil {
		return nil, err
	}
	return &ParseResult{Module: mod, Errors: envelope.Errors}, nil
}

// DecodeModule decodes a tagged node tree rooted at a Module node.
func DecodeModule(data []byte) (*Module, error) {
	raw, err := decodeRaw(data)
	if err != nil {
		return nil, err
	}
	if tag := raw.tag(); tag != string(KindModule) {
		return nil, fmt.Errorf("expected Module node, got %q", tag)
	}
	return &Module{
		Pos:  raw.pos(),
		Body: raw.stmtList("body"),
	}, nil
}

// rawNode is one tagged record from the wire. Field access degrades rather
// than failing: a missing field yields the zero/default value so that a
// partially formed tree still lowers to placeholder instructions.
type rawNode map[string]json.RawMessage

func decodeRaw(data []byte) (rawNode, error) {
	var raw rawNode
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("malformed AST node: %w", err)
	}
	return raw, nil
}

func (r rawNode) tag() string {
	var tag string
	if msg, ok := r["node_type"]; ok {
		_ = json.Unmarshal(msg, &tag)
	}
	return tag
}

func (r rawNode) pos() Position {
	var pos Position
	if msg, ok := r["lineno"]; ok {
		_ = json.Unmarshal(msg, &pos.Line)
	}
	if msg, ok := r["col_offset"]; ok {
		_ = json.Unmarshal(msg, &pos.Column)
	}
	return pos
}

func (r rawNode) str(field string) string {
	var s string
	if msg, ok := r[field]; ok {
		_ = json.Unmarshal(msg, &s)
	}
	return s
}

func (r rawNode) child(field string) rawNode {
	msg, ok := r[field]
	if !ok || string(msg) == "null" {
		return nil
	}
	child, err := decodeRaw(msg)
	if err != nil {
		return nil
	}
	return child
}

func (r rawNode) childList(field string) []rawNode {
	msg, ok := r[field]
	if !ok || string(msg) == "null" {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(msg, &items); err != nil {
		return nil
	}
	nodes := make([]rawNode, 0, len(items))
	for _, item := range items {
		child, err := decodeRaw(item)
		if err != nil {
			continue
		}
		nodes = append(nodes, child)
	}
	return nodes
}

func (r rawNode) stmtList(field string) []Stmt {
	children := r.childList(field)
	stmts := make([]Stmt, 0, len(children))
	for _, child := range children {
		stmts = append(stmts, decodeStmt(child))
	}
	return stmts
}

func (r rawNode) exprList(field string) []Expr {
	children := r.childList(field)
	exprs := make([]Expr, 0, len(children))
	for _, child := range children {
		exprs = append(exprs, decodeExpr(child))
	}
	return exprs
}

// expr decodes an optional expression field; absent fields yield nil.
func (r rawNode) expr(field string) Expr {
	child := r.child(field)
	if child == nil {
		return nil
	}
	return decodeExpr(child)
}

// exprOrNull is like expr but substitutes a None literal for a missing
// field, for places where lowering needs a value reference.
func (r rawNode) exprOrNull(field string) Expr {
	if e := r.expr(field); e != nil {
		return e
	}
	return &Constant{Kind: LitNone, Raw: "None"}
}

func decodeStmt(raw rawNode) Stmt {
	pos := raw.pos()
	switch Kind(raw.tag()) {
	case KindAssign:
		return &Assign{Pos: pos, Targets: raw.exprList("targets"), Value: raw.exprOrNull("value")}
	case KindAnnAssign:
		return &AnnAssign{
			Pos:        pos,
			Target:     raw.exprOrNull("target"),
			Annotation: raw.expr("annotation"),
			Value:      raw.exprOrNull("value"),
		}
	case KindFunctionDef:
		return &FunctionDef{
			Pos:     pos,
			Name:    raw.str("name"),
			Args:    decodeArgs(raw.child("args")),
			Body:    raw.stmtList("body"),
			Returns: raw.expr("returns"),
		}
	case KindIf:
		return &If{Pos: pos, Test: raw.exprOrNull("test"), Body: raw.stmtList("body"), Orelse: raw.stmtList("orelse")}
	case KindFor:
		return &For{Pos: pos, Target: raw.exprOrNull("target"), Iter: raw.exprOrNull("iter"), Body: raw.stmtList("body")}
	case KindWhile:
		return &While{Pos: pos, Test: raw.exprOrNull("test"), Body: raw.stmtList("body")}
	case KindReturn:
		return &Return{Pos: pos, Value: raw.expr("value")}
	case KindExprStmt:
		return &ExprStmt{Pos: pos, Value: raw.exprOrNull("value")}
	default:
		return &BadStmt{Pos: pos, Tag: raw.tag()}
	}
}

// decodeArgs unpacks a FunctionDef's argument record: {"args": [arg, ...]}.
func decodeArgs(raw rawNode) []*Arg {
	if raw == nil {
		return nil
	}
	children := raw.childList("args")
	args := make([]*Arg, 0, len(children))
	for _, child := range children {
		args = append(args, &Arg{
			Pos:        child.pos(),
			Name:       child.str("arg"),
			Annotation: child.expr("annotation"),
		})
	}
	return args
}

func decodeExpr(raw rawNode) Expr {
	pos := raw.pos()
	switch Kind(raw.tag()) {
	case KindBinOp:
		return &BinOp{
			Pos:   pos,
			Left:  raw.exprOrNull("left"),
			Op:    decodeOperator(raw.child("op")),
			Right: raw.exprOrNull("right"),
		}
	case KindCall:
		return &Call{Pos: pos, Func: raw.exprOrNull("func"), Args: raw.exprList("args")}
	case KindList:
		return &List{Pos: pos, Elts: raw.exprList("elts")}
	case KindDict:
		return &Dict{Pos: pos, Keys: raw.exprList("keys"), Values: raw.exprList("values")}
	case KindTuple:
		return &Tuple{Pos: pos, Elts: raw.exprList("elts")}
	case KindName:
		return &Name{Pos: pos, ID: raw.str("id")}
	case KindConstant:
		return decodeConstant(raw, pos)
	case KindSubscript:
		return &Subscript{Pos: pos, Value: raw.exprOrNull("value"), Slice: raw.exprOrNull("slice")}
	default:
		return &BadExpr{Pos: pos, Tag: raw.tag()}
	}
}

var operators = map[Operator]bool{
	OpAdd: true, OpSub: true, OpMult: true, OpDiv: true, OpMod: true,
	OpPow: true, OpLShift: true, OpRShift: true, OpBitOr: true,
	OpBitXor: true, OpBitAnd: true, OpFloorDiv: true,
}

func decodeOperator(raw rawNode) Operator {
	if raw == nil {
		return OpInvalid
	}
	op := Operator(raw.tag())
	if !operators[op] {
		return OpInvalid
	}
	return op
}

// decodeConstant classifies the literal by its JSON encoding. Booleans are
// checked before numbers: the source language treats bools as an integer
// subtype, and the IR must not report them as int.
func decodeConstant(raw rawNode, pos Position) *Constant {
	msg, ok := raw["value"]
	if !ok {
		return &Constant{Pos: pos, Kind: LitNone, Raw: "None"}
	}
	text := strings.TrimSpace(string(msg))
	switch {
	case text == "null":
		return &Constant{Pos: pos, Kind: LitNone, Raw: "None"}
	case text == "true":
		return &Constant{Pos: pos, Kind: LitBool, Raw: "True"}
	case text == "false":
		return &Constant{Pos: pos, Kind: LitBool, Raw: "False"}
	case strings.HasPrefix(text, `"`):
		var s string
		if err := json.Unmarshal(msg, &s); err != nil {
			return &Constant{Pos: pos, Kind: LitStr, Raw: text}
		}
		return &Constant{Pos: pos, Kind: LitStr, Raw: s}
	case strings.ContainsAny(text, ".eE"):
		return &Constant{Pos: pos, Kind: LitFloat, Raw: text}
	default:
		return &Constant{Pos: pos, Kind: LitInt, Raw: text}
	}
}
