package ir

import (
	"strings"

	"github.com/tliron/commonlog"

	"pylift/internal/ast"
	"pylift/internal/types"
)

var log = commonlog.GetLogger("pylift.ir")

// Generator lowers one front-end tree into an IR module. It owns its
// allocator outright, so separate generators may run concurrently; a single
// Generator is not safe for concurrent use.
type Generator struct {
	table types.Table
	alloc allocator
}

func NewGenerator(table types.Table) *Generator {
	return &Generator{table: table}
}

// Generate lowers and optimizes a parse result against the type table.
// An upstream parse failure short-circuits: the error list is passed through
// and no lowering happens.
func Generate(parse *ast.ParseResult, table types.Table) *Result {
	if parse.Failed() {
		var errs []string
		if parse != nil {
			errs = parse.Errors
		}
		return &Result{
			Success:       false,
			Errors:        errs,
			Module:        &Module{Globals: []GlobalVar{}, Functions: []*Function{}},
			Optimizations: []PassReport{},
		}
	}
	return NewGenerator(table).Generate(parse.Module)
}

// Generate lowers a module. Counters reset at the start of every call, so
// repeated builds on the same input are byte-identical.
func (g *Generator) Generate(mod *ast.Module) *Result {
	g.alloc = allocator{}

	module := &Module{Globals: []GlobalVar{}, Functions: []*Function{}}
	for _, stmt := range mod.Body {
		switch s := stmt.(type) {
		case *ast.FunctionDef:
			module.Functions = append(module.Functions, g.lowerFunction(s))
		case *ast.Assign:
			g.lowerGlobal(module, s.Targets, nil, s.Value)
		case *ast.AnnAssign:
			g.lowerGlobal(module, []ast.Expr{s.Target}, s.Annotation, s.Value)
		}
		// Other module-level statement kinds carry no declarations and are
		// ignored.
	}

	log.Debugf("lowered module: %d globals, %d functions", len(module.Globals), len(module.Functions))

	reports := NewPipeline().Run(module)

	return &Result{
		Success:       true,
		Module:        module,
		Optimizations: reports,
		Metadata:      g.alloc.metadata(),
	}
}

func (g *Generator) lowerFunction(def *ast.FunctionDef) *Function {
	f := &Function{
		Name:       g.alloc.Function(def.Name),
		ReturnType: g.returnType(def),
		Params:     []Param{},
		Blocks:     []*BasicBlock{},
		LocalVars:  map[string]string{},
	}

	for _, arg := range def.Args {
		typ := g.paramType(f.Name, arg)
		f.Params = append(f.Params, Param{Name: arg.Name, Type: typ})
		f.LocalVars[arg.Name] = typ
	}

	entry := f.NewBlock(g.alloc.Block("entry"))
	g.lowerStmts(f, entry, def.Body)
	return f
}

// paramType resolves a parameter's descriptor: explicit annotation, then the
// table's "<fn>.<param>" entry, then auto.
func (g *Generator) paramType(function string, arg *ast.Arg) string {
	if arg.Annotation != nil {
		return annotationType(arg.Annotation)
	}
	return g.table.Lookup(types.ParamKey(function, arg.Name))
}

// returnType resolves the return descriptor: explicit annotation, then the
// table's "<fn>.return" entry, then void.
func (g *Generator) returnType(def *ast.FunctionDef) string {
	if def.Returns != nil {
		return annotationType(def.Returns)
	}
	if fromTable := g.table.Lookup(types.ReturnKey(def.Name)); fromTable != types.Auto {
		return fromTable
	}
	return types.Void
}

// lowerGlobal turns a module-level assignment into global variable entries.
// The initializer is lowered into a scratch block; whatever instructions it
// produced move onto the global entry as its Init sequence, so a computed
// value reference is never left dangling.
func (g *Generator) lowerGlobal(module *Module, targets []ast.Expr, annotation ast.Expr, value ast.Expr) {
	scratch := &Function{Name: "<globals>", LocalVars: map[string]string{}}
	scratch.Blocks = append(scratch.Blocks, &BasicBlock{Name: "<init>"})
	v := g.lowerExpr(scratch, 0, value)
	init := scratch.Blocks[0].Instructions

	for _, target := range targets {
		name, ok := target.(*ast.Name)
		if !ok {
			continue
		}
		module.Globals = append(module.Globals, GlobalVar{
			Name:  name.ID,
			Type:  g.resolveType(annotation, name.ID, v.Type),
			Value: v.Ref,
			Init:  init,
			Store: Instruction{
				Opcode:   OpStore,
				Operands: []string{v.Ref, name.ID},
			},
		})
	}
}

// annotationType renders a type annotation subtree into a descriptor string:
// Name → its identifier, Subscript → generic application (a Tuple slice
// becomes a comma-separated argument list). Anything else is auto.
func annotationType(annotation ast.Expr) string {
	switch a := annotation.(type) {
	case *ast.Name:
		return a.ID
	case *ast.Subscript:
		base := annotationType(a.Value)
		if tuple, ok := a.Slice.(*ast.Tuple); ok {
			args := make([]string, len(tuple.Elts))
			for i, elt := range tuple.Elts {
				args[i] = annotationType(elt)
			}
			return types.Normalize(base + "[" + strings.Join(args, ", ") + "]")
		}
		return types.Normalize(base + "[" + annotationType(a.Slice) + "]")
	default:
		return types.Auto
	}
}
