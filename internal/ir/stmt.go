package ir

import (
	"pylift/internal/ast"
	"pylift/internal/types"
)

// Statement lowering threads an explicit insertion point: every call takes
// the block new instructions and edges attach to, and returns the block
// where control continues. Nested constructs therefore attach to their
// caller's block regardless of how many blocks they append to the function.

// lowerStmts lowers a statement list starting at the given insertion block
// and returns the block subsequent statements continue in. A return ends the
// list: statements after it are unreachable and must not be appended, or the
// terminated block would grow instructions and fall-through edges it is not
// allowed to have.
func (g *Generator) lowerStmts(f *Function, at BlockRef, stmts []ast.Stmt) BlockRef {
	for _, stmt := range stmts {
		if f.Block(at).endsWithReturn() {
			break
		}
		at = g.lowerStmt(f, at, stmt)
	}
	return at
}

func (g *Generator) lowerStmt(f *Function, at BlockRef, stmt ast.Stmt) BlockRef {
	switch s := stmt.(type) {
	case *ast.Assign:
		value := g.lowerExpr(f, at, s.Value)
		for _, target := range s.Targets {
			g.storeTo(f, at, target, value, nil)
		}
		return at

	case *ast.AnnAssign:
		value := g.lowerExpr(f, at, s.Value)
		g.storeTo(f, at, s.Target, value, s.Annotation)
		return at

	case *ast.Return:
		operands := []string{}
		if s.Value != nil {
			operands = append(operands, g.lowerExpr(f, at, s.Value).Ref)
		}
		f.Block(at).append(Instruction{Opcode: OpReturn, Operands: operands})
		return at

	case *ast.ExprStmt:
		// The expression's own instruction is appended during lowering, so
		// side effects (calls) survive even though the result is discarded.
		// Only a purely referential statement leaves a nop behind to mark
		// that the statement occurred.
		value := g.lowerExpr(f, at, s.Value)
		if value.Inst == nil {
			f.Block(at).append(Instruction{Opcode: OpNop, Operands: []string{}})
		}
		return at

	case *ast.If:
		return g.lowerIf(f, at, s)

	case *ast.While:
		return g.lowerWhile(f, at, s)

	case *ast.For:
		return g.lowerFor(f, at, s)

	default:
		// Unmodeled statement kinds (including nested function definitions)
		// are skipped; lowering degrades instead of aborting.
		return at
	}
}

// storeTo emits a store of value into an assignment target and records the
// local's type. Targets other than simple names are opaque to this layer.
func (g *Generator) storeTo(f *Function, at BlockRef, target ast.Expr, value exprValue, annotation ast.Expr) {
	name, ok := target.(*ast.Name)
	if !ok {
		return
	}
	f.Block(at).append(Instruction{
		Opcode:   OpStore,
		Operands: []string{value.Ref, name.ID},
	})
	f.LocalVars[name.ID] = g.resolveType(annotation, name.ID, value.Type)
}

// resolveType picks a local's descriptor: explicit annotation, then the type
// table, then whatever type the initializer carried.
func (g *Generator) resolveType(annotation ast.Expr, name, valueType string) string {
	if annotation != nil {
		return annotationType(annotation)
	}
	if fromTable := g.table.Lookup(name); fromTable != types.Auto {
		return fromTable
	}
	if valueType != "" {
		return valueType
	}
	return types.Auto
}

func (g *Generator) lowerIf(f *Function, at BlockRef, s *ast.If) BlockRef {
	test := g.lowerExpr(f, at, s.Test)

	thenRef := f.NewBlock(g.alloc.Block("then"))
	elseRef := f.NewBlock(g.alloc.Block("else"))
	mergeRef := f.NewBlock(g.alloc.Block("merge"))

	f.Block(at).append(Instruction{
		Opcode:   OpBranch,
		Operands: []string{test.Ref, f.Block(thenRef).Name, f.Block(elseRef).Name},
	})
	f.link(at, thenRef)
	f.link(at, elseRef)

	thenEnd := g.lowerStmts(f, thenRef, s.Body)
	g.fallthroughTo(f, thenEnd, mergeRef)

	elseEnd := g.lowerStmts(f, elseRef, s.Orelse)
	g.fallthroughTo(f, elseEnd, mergeRef)

	return mergeRef
}

func (g *Generator) lowerWhile(f *Function, at BlockRef, s *ast.While) BlockRef {
	testRef := f.NewBlock(g.alloc.Block("test"))
	f.link(at, testRef)

	cond := g.lowerExpr(f, testRef, s.Test)

	bodyRef := f.NewBlock(g.alloc.Block("body"))
	exitRef := f.NewBlock(g.alloc.Block("exit"))

	f.Block(testRef).append(Instruction{
		Opcode:   OpBranch,
		Operands: []string{cond.Ref, f.Block(bodyRef).Name, f.Block(exitRef).Name},
	})
	f.link(testRef, bodyRef)
	f.link(testRef, exitRef)

	bodyEnd := g.lowerStmts(f, bodyRef, s.Body)
	g.fallthroughTo(f, bodyEnd, testRef) // back edge

	return exitRef
}

// lowerFor desugars a for loop into the iterator protocol: init_iter yields
// an iterator handle, has_next gates the loop, get_next produces the element
// stored into the loop variable.
func (g *Generator) lowerFor(f *Function, at BlockRef, s *ast.For) BlockRef {
	initRef := f.NewBlock(g.alloc.Block("init"))
	f.link(at, initRef)

	iter := g.lowerExpr(f, initRef, s.Iter)
	handle := g.alloc.Temp()
	f.Block(initRef).append(Instruction{
		Opcode:   OpInitIter,
		Operands: []string{iter.Ref},
		Result:   handle,
	})

	loopRef := f.NewBlock(g.alloc.Block("loop"))
	f.link(initRef, loopRef)

	cond := g.alloc.Temp()
	f.Block(loopRef).append(Instruction{
		Opcode:   OpHasNext,
		Operands: []string{handle},
		Result:   cond,
	})

	bodyRef := f.NewBlock(g.alloc.Block("body"))
	exitRef := f.NewBlock(g.alloc.Block("exit"))

	f.Block(loopRef).append(Instruction{
		Opcode:   OpBranch,
		Operands: []string{cond, f.Block(bodyRef).Name, f.Block(exitRef).Name},
	})
	f.link(loopRef, bodyRef)
	f.link(loopRef, exitRef)

	element := g.alloc.Temp()
	f.Block(bodyRef).append(Instruction{
		Opcode:   OpGetNext,
		Operands: []string{handle},
		Result:   element,
	})
	g.storeTo(f, bodyRef, s.Target, exprValue{Ref: element, Type: types.Auto}, nil)

	bodyEnd := g.lowerStmts(f, bodyRef, s.Body)
	g.fallthroughTo(f, bodyEnd, loopRef) // back edge

	return exitRef
}

// fallthroughTo links a block to its single fall-through target unless the
// block already ends in a return, which must have no successors.
func (g *Generator) fallthroughTo(f *Function, from, to BlockRef) {
	if f.Block(from).endsWithReturn() {
		return
	}
	f.link(from, to)
}
