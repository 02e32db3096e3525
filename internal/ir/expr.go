package ir

import (
	"strconv"

	"pylift/internal/ast"
	"pylift/internal/types"
)

// exprValue is the lowering-time result of reducing an expression: a value
// reference plus the type the reference carries at this point. The type tag
// is not persisted on instructions; it only travels through lowering.
// Inst points at the expression's own instruction when it emitted one
// (already appended to the insertion block), nil for literals, names, and
// unmodeled expression kinds.
type exprValue struct {
	Ref  string
	Type string
	Inst *Instruction
}

// opcodeForOperator maps source operators onto arithmetic/bitwise opcodes.
var opcodeForOperator = map[ast.Operator]string{
	ast.OpAdd:      OpAdd,
	ast.OpSub:      OpSub,
	ast.OpMult:     OpMul,
	ast.OpDiv:      OpDiv,
	ast.OpMod:      OpMod,
	ast.OpPow:      OpPow,
	ast.OpLShift:   OpShl,
	ast.OpRShift:   OpShr,
	ast.OpBitOr:    OpOr,
	ast.OpBitXor:   OpXor,
	ast.OpBitAnd:   OpAnd,
	ast.OpFloorDiv: OpFloorDiv,
}

// lowerExpr reduces an expression subtree to a value reference, appending
// any instructions it needs to the insertion block, operand instructions
// first. Unmodeled expression kinds degrade to an opaque temporary with no
// instruction; downstream consumers must treat it as opaque.
func (g *Generator) lowerExpr(f *Function, at BlockRef, expr ast.Expr) exprValue {
	switch e := expr.(type) {
	case *ast.Constant:
		return literalValue(e)

	case *ast.Name:
		return exprValue{Ref: e.ID, Type: g.table.Lookup(e.ID)}

	case *ast.BinOp:
		left := g.lowerExpr(f, at, e.Left)
		right := g.lowerExpr(f, at, e.Right)
		opcode, ok := opcodeForOperator[e.Op]
		if !ok {
			opcode = OpUnknown
		}
		return g.emit(f, at, Instruction{
			Opcode:   opcode,
			Operands: []string{left.Ref, right.Ref},
			Result:   g.alloc.Temp(),
		}, types.Auto)

	case *ast.Call:
		operands := []string{calleeName(e.Func)}
		for _, arg := range e.Args {
			operands = append(operands, g.lowerExpr(f, at, arg).Ref)
		}
		return g.emit(f, at, Instruction{
			Opcode:   OpCall,
			Operands: operands,
			Result:   g.alloc.Temp(),
		}, types.Auto)

	case *ast.List:
		operands := make([]string, 0, len(e.Elts))
		for _, elt := range e.Elts {
			operands = append(operands, g.lowerExpr(f, at, elt).Ref)
		}
		return g.emit(f, at, Instruction{
			Opcode:   OpCreateList,
			Operands: operands,
			Result:   g.alloc.Temp(),
		}, "List[auto]")

	case *ast.Dict:
		// Keys first, then values, both in source order.
		operands := make([]string, 0, len(e.Keys)+len(e.Values))
		for _, key := range e.Keys {
			operands = append(operands, g.lowerExpr(f, at, key).Ref)
		}
		for _, value := range e.Values {
			operands = append(operands, g.lowerExpr(f, at, value).Ref)
		}
		return g.emit(f, at, Instruction{
			Opcode:   OpCreateDict,
			Operands: operands,
			Result:   g.alloc.Temp(),
		}, "Dict[auto, auto]")

	default:
		return exprValue{Ref: g.alloc.Temp(), Type: types.Auto}
	}
}

// emit appends an instruction to the insertion block and wraps its result.
func (g *Generator) emit(f *Function, at BlockRef, inst Instruction, typ string) exprValue {
	block := f.Block(at)
	block.append(inst)
	return exprValue{
		Ref:  inst.Result,
		Type: typ,
		Inst: &block.Instructions[len(block.Instructions)-1],
	}
}

// literalValue renders a constant into its value-reference text and
// semantic type. Bool is matched before int: the source language subtypes
// booleans under integers, and a True reported as int would mistype every
// branch condition downstream.
func literalValue(c *ast.Constant) exprValue {
	switch c.Kind {
	case ast.LitBool:
		return exprValue{Ref: c.Raw, Type: "bool"}
	case ast.LitInt:
		return exprValue{Ref: c.Raw, Type: "int"}
	case ast.LitFloat:
		return exprValue{Ref: c.Raw, Type: "float"}
	case ast.LitStr:
		return exprValue{Ref: strconv.Quote(c.Raw), Type: "str"}
	default:
		return exprValue{Ref: "null", Type: types.Void}
	}
}

// calleeName extracts the callee for a call instruction's first operand.
// Anything more elaborate than a simple name is opaque to this layer.
func calleeName(callee ast.Expr) string {
	if name, ok := callee.(*ast.Name); ok {
		return name.ID
	}
	return OpUnknown
}
