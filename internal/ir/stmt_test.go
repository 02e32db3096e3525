package ir

import (
	"testing"

	"pylift/internal/ast"
	"pylift/internal/types"
)

func lowerBody(t *testing.T, body []ast.Stmt) *Function {
	t.Helper()
	mod := &ast.Module{Body: []ast.Stmt{
		&ast.FunctionDef{Name: "f", Body: body},
	}}
	result := NewGenerator(types.Table{}).Generate(mod)
	if !result.Success || len(result.Module.Functions) != 1 {
		t.Fatalf("lowering failed: %+v", result)
	}
	return result.Module.Functions[0]
}

func findBlock(t *testing.T, f *Function, name string) *BasicBlock {
	t.Helper()
	for _, block := range f.Blocks {
		if block.Name == name {
			return block
		}
	}
	t.Fatalf("function %s has no block %q", f.Name, name)
	return nil
}

func expectNames(t *testing.T, label string, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("%s = %v, want %v", label, got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("%s = %v, want %v", label, got, want)
		}
	}
}

func TestIfLowering(t *testing.T) {
	f := lowerBody(t, []ast.Stmt{
		&ast.If{
			Test: &ast.Name{ID: "cond"},
			Body: []ast.Stmt{
				&ast.Assign{Targets: []ast.Expr{&ast.Name{ID: "x"}}, Value: &ast.Constant{Kind: ast.LitInt, Raw: "1"}},
			},
			Orelse: []ast.Stmt{
				&ast.Assign{Targets: []ast.Expr{&ast.Name{ID: "x"}}, Value: &ast.Constant{Kind: ast.LitInt, Raw: "2"}},
			},
		},
		&ast.Return{Value: &ast.Name{ID: "x"}},
	})

	if len(f.Blocks) != 4 {
		t.Fatalf("got %d blocks, want 4", len(f.Blocks))
	}

	entry := findBlock(t, f, "entry_1")
	branch := entry.Instructions[len(entry.Instructions)-1]
	if branch.Opcode != OpBranch {
		t.Fatalf("entry terminator = %s, want branch", branch.Opcode)
	}
	expectNames(t, "branch operands", branch.Operands, []string{"cond", "then_2", "else_3"})
	expectNames(t, "entry successors", entry.Successors, []string{"then_2", "else_3"})

	then := findBlock(t, f, "then_2")
	expectNames(t, "then predecessors", then.Predecessors, []string{"entry_1"})
	expectNames(t, "then successors", then.Successors, []string{"merge_4"})

	merge := findBlock(t, f, "merge_4")
	expectNames(t, "merge predecessors", merge.Predecessors, []string{"then_2", "else_3"})
	if last := merge.Instructions[len(merge.Instructions)-1]; last.Opcode != OpReturn {
		t.Fatalf("merge terminator = %s, want return", last.Opcode)
	}
}

// A return ends its statement list: trailing statements stay unlowered, and
// no block that ends with a return may carry successors.
func TestStatementsAfterReturnAreNotLowered(t *testing.T) {
	f := lowerBody(t, []ast.Stmt{
		&ast.If{
			Test: &ast.Name{ID: "cond"},
			Body: []ast.Stmt{
				&ast.Return{Value: &ast.Constant{Kind: ast.LitInt, Raw: "1"}},
				&ast.Assign{Targets: []ast.Expr{&ast.Name{ID: "x"}}, Value: &ast.Constant{Kind: ast.LitInt, Raw: "2"}},
			},
		},
		&ast.Return{Value: &ast.Constant{Kind: ast.LitInt, Raw: "0"}},
	})

	then := findBlock(t, f, "then_2")
	if len(then.Instructions) != 1 || then.Instructions[0].Opcode != OpReturn {
		t.Fatalf("then block = %v, want just the return", then.Instructions)
	}
	for _, block := range f.Blocks {
		if block.endsWithReturn() && len(block.Successors) > 0 {
			t.Errorf("block %s ends with return but has successors %v", block.Name, block.Successors)
		}
	}
	merge := findBlock(t, f, "merge_4")
	expectNames(t, "merge predecessors", merge.Predecessors, []string{"else_3"})
}

func TestIfBranchReturnHasNoFallthrough(t *testing.T) {
	f := lowerBody(t, []ast.Stmt{
		&ast.If{
			Test: &ast.Name{ID: "cond"},
			Body: []ast.Stmt{
				&ast.Return{Value: &ast.Constant{Kind: ast.LitInt, Raw: "1"}},
			},
		},
		&ast.Return{Value: &ast.Constant{Kind: ast.LitInt, Raw: "0"}},
	})

	then := findBlock(t, f, "then_2")
	if len(then.Successors) != 0 {
		t.Fatalf("returning branch has successors %v, want none", then.Successors)
	}
	merge := findBlock(t, f, "merge_4")
	expectNames(t, "merge predecessors", merge.Predecessors, []string{"else_3"})
}

func TestWhileLowering(t *testing.T) {
	f := lowerBody(t, []ast.Stmt{
		&ast.While{
			Test: &ast.Name{ID: "running"},
			Body: []ast.Stmt{
				&ast.Assign{
					Targets: []ast.Expr{&ast.Name{ID: "n"}},
					Value: &ast.BinOp{
						Left:  &ast.Name{ID: "n"},
						Op:    ast.OpAdd,
						Right: &ast.Constant{Kind: ast.LitInt, Raw: "1"},
					},
				},
			},
		},
		&ast.Return{},
	})

	entry := findBlock(t, f, "entry_1")
	expectNames(t, "entry successors", entry.Successors, []string{"test_2"})

	test := findBlock(t, f, "test_2")
	branch := test.Instructions[len(test.Instructions)-1]
	expectNames(t, "branch operands", branch.Operands, []string{"running", "body_3", "exit_4"})

	body := findBlock(t, f, "body_3")
	expectNames(t, "loop back edge", body.Successors, []string{"test_2"})
	expectNames(t, "test predecessors", test.Predecessors, []string{"entry_1", "body_3"})
}

func TestForLowersToIteratorProtocol(t *testing.T) {
	f := lowerBody(t, []ast.Stmt{
		&ast.For{
			Target: &ast.Name{ID: "item"},
			Iter:   &ast.Name{ID: "items"},
			Body: []ast.Stmt{
				&ast.Assign{Targets: []ast.Expr{&ast.Name{ID: "last"}}, Value: &ast.Name{ID: "item"}},
			},
		},
		&ast.Return{},
	})

	init := findBlock(t, f, "init_2")
	initIter := init.Instructions[0]
	if initIter.Opcode != OpInitIter || initIter.Result != "t1" {
		t.Fatalf("init instruction = %s", initIter.String())
	}
	expectNames(t, "init_iter operands", initIter.Operands, []string{"items"})

	loop := findBlock(t, f, "loop_3")
	if loop.Instructions[0].Opcode != OpHasNext {
		t.Fatalf("loop header starts with %s, want has_next", loop.Instructions[0].Opcode)
	}
	expectNames(t, "has_next operands", loop.Instructions[0].Operands, []string{"t1"})
	branch := loop.Instructions[1]
	expectNames(t, "branch operands", branch.Operands, []string{"t2", "body_4", "exit_5"})

	body := findBlock(t, f, "body_4")
	if body.Instructions[0].Opcode != OpGetNext {
		t.Fatalf("body starts with %s, want get_next", body.Instructions[0].Opcode)
	}
	store := body.Instructions[1]
	expectNames(t, "loop variable store", store.Operands, []string{"t3", "item"})
	expectNames(t, "loop back edge", body.Successors, []string{"loop_3"})
}

// Every edge must name a block that exists, and every block must be reachable
// from the entry block.
func TestCFGConnectivity(t *testing.T) {
	f := lowerBody(t, []ast.Stmt{
		&ast.While{
			Test: &ast.Name{ID: "running"},
			Body: []ast.Stmt{
				&ast.If{
					Test: &ast.Name{ID: "flag"},
					Body: []ast.Stmt{
						&ast.Assign{Targets: []ast.Expr{&ast.Name{ID: "x"}}, Value: &ast.Constant{Kind: ast.LitInt, Raw: "1"}},
					},
				},
			},
		},
		&ast.Return{Value: &ast.Name{ID: "x"}},
	})

	byName := map[string]*BasicBlock{}
	for _, block := range f.Blocks {
		byName[block.Name] = block
	}

	for _, block := range f.Blocks {
		for _, succ := range block.Successors {
			if _, ok := byName[succ]; !ok {
				t.Errorf("block %s has dangling successor %s", block.Name, succ)
			}
		}
		for _, pred := range block.Predecessors {
			if _, ok := byName[pred]; !ok {
				t.Errorf("block %s has dangling predecessor %s", block.Name, pred)
			}
		}
	}

	reached := map[string]bool{}
	frontier := []string{f.Blocks[0].Name}
	for len(frontier) > 0 {
		name := frontier[len(frontier)-1]
		frontier = frontier[:len(frontier)-1]
		if reached[name] {
			continue
		}
		reached[name] = true
		frontier = append(frontier, byName[name].Successors...)
	}

	for _, block := range f.Blocks {
		if !reached[block.Name] {
			t.Errorf("block %s is unreachable from entry", block.Name)
		}
	}
}
