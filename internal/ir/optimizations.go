package ir

import (
	"math"
	"strconv"
)

// Three local optimization passes run exactly once each, in a fixed order:
// constant folding, dead-code elimination, common-subexpression
// elimination. The pipeline does not iterate to a fixed point: a constant
// exposed by folding can enable further DCE/CSE that this invocation will
// not catch. That is a deliberate limitation, not a bug.

// Change is one recorded transformation.
type Change struct {
	Type     string `json:"type"`
	Location string `json:"location,omitempty"` // "<function>.<block>"
	Original string `json:"original,omitempty"`
	Folded   string `json:"folded,omitempty"`
	Temp     string `json:"temp,omitempty"`
	Reused   string `json:"reused,omitempty"`
	Count    int    `json:"count,omitempty"`
}

// PassReport is the outcome of one pass that changed something.
type PassReport struct {
	Type        string   `json:"type"`
	Description string   `json:"description"`
	Details     []Change `json:"details"`
}

// Pass is a single optimization transformation over a module.
type Pass interface {
	Name() string
	Description() string
	Apply(module *Module) []Change
}

// Pipeline runs passes in order and collects their reports.
type Pipeline struct {
	passes []Pass
}

// NewPipeline builds the default pipeline. Order matters: folding first so
// DCE sees final operands, CSE last over whatever survived.
func NewPipeline() *Pipeline {
	return &Pipeline{passes: []Pass{
		&ConstantFolding{},
		&DeadCodeElimination{},
		&CommonSubexpressionElimination{},
	}}
}

// Run executes every pass once. Passes that found nothing produce no report.
func (p *Pipeline) Run(module *Module) []PassReport {
	reports := []PassReport{}
	for _, pass := range p.passes {
		details := pass.Apply(module)
		log.Debugf("pass %s: %d changes", pass.Name(), len(details))
		if len(details) == 0 {
			continue
		}
		reports = append(reports, PassReport{
			Type:        pass.Name(),
			Description: pass.Description(),
			Details:     details,
		})
	}
	return reports
}

// foldable is the instruction set constant folding and CSE operate on.
var foldable = map[string]bool{
	OpAdd: true, OpSub: true, OpMul: true, OpDiv: true, OpMod: true,
}

// pure marks opcodes whose only observable effect is their result. Only
// these are candidates for unused-temp deletion; calls and the iterator
// protocol stay even when their results go unused.
var pure = map[string]bool{
	OpAdd: true, OpSub: true, OpMul: true, OpDiv: true, OpMod: true,
	OpPow: true, OpShl: true, OpShr: true, OpOr: true, OpXor: true,
	OpAnd: true, OpFloorDiv: true, OpConst: true, OpCopy: true,
	OpCreateList: true, OpCreateDict: true,
}

func location(f *Function, b *BasicBlock) string {
	return f.Name + "." + b.Name
}

// ConstantFolding rewrites arithmetic over two integer literals into a
// const instruction carrying the computed text.
type ConstantFolding struct{}

func (*ConstantFolding) Name() string { return "constant_folding" }

func (*ConstantFolding) Description() string {
	return "Evaluates integer arithmetic on literal operands at compile time"
}

func (*ConstantFolding) Apply(module *Module) []Change {
	changes := []Change{}
	for _, fn := range module.Functions {
		for _, block := range fn.Blocks {
			for i, inst := range block.Instructions {
				if !foldable[inst.Opcode] || len(inst.Operands) != 2 {
					continue
				}
				left, err := strconv.ParseInt(inst.Operands[0], 10, 64)
				if err != nil {
					continue
				}
				right, err := strconv.ParseInt(inst.Operands[1], 10, 64)
				if err != nil {
					continue
				}
				folded, ok := foldInts(inst.Opcode, left, right)
				if !ok {
					continue
				}
				text := strconv.FormatInt(folded, 10)
				block.Instructions[i] = Instruction{
					Opcode:   OpConst,
					Operands: []string{text},
					Result:   inst.Result,
				}
				changes = append(changes, Change{
					Type:     "constant_folding",
					Location: location(fn, block),
					Original: inst.String(),
					Folded:   text,
				})
			}
		}
	}
	return changes
}

// foldInts evaluates integer arithmetic with the source language's floor
// semantics for division and modulo. Source integers are arbitrary precision,
// so any result that does not fit in 64 bits is left unfolded, like a zero
// divisor.
func foldInts(opcode string, left, right int64) (int64, bool) {
	switch opcode {
	case OpAdd:
		if (right > 0 && left > math.MaxInt64-right) ||
			(right < 0 && left < math.MinInt64-right) {
			return 0, false
		}
		return left + right, true
	case OpSub:
		if (right < 0 && left > math.MaxInt64+right) ||
			(right > 0 && left < math.MinInt64+right) {
			return 0, false
		}
		return left - right, true
	case OpMul:
		if left == 0 || right == 0 {
			return 0, true
		}
		// The magnitude of MinInt64 is not representable, so the quotient
		// check below cannot detect MinInt64 * -1.
		if (left == math.MinInt64 && right != 1) ||
			(right == math.MinInt64 && left != 1) {
			return 0, false
		}
		product := left * right
		if product/right != left {
			return 0, false
		}
		return product, true
	case OpDiv:
		if right == 0 || (left == math.MinInt64 && right == -1) {
			return 0, false
		}
		return floorDiv(left, right), true
	case OpMod:
		if right == 0 {
			return 0, false
		}
		return floorMod(left, right), true
	}
	return 0, false
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func floorMod(a, b int64) int64 {
	m := a % b
	if m != 0 && (m < 0) != (b < 0) {
		m += b
	}
	return m
}

// DeadCodeElimination deletes instructions after a return and pure
// instructions whose temporary result is never read anywhere in the
// function. Liveness is computed over the whole function, not per block, so
// a temporary consumed across a merge point is never deleted.
type DeadCodeElimination struct{}

func (*DeadCodeElimination) Name() string { return "dead_code_elimination" }

func (*DeadCodeElimination) Description() string {
	return "Removes unreachable instructions and unused temporaries"
}

func (*DeadCodeElimination) Apply(module *Module) []Change {
	changes := []Change{}
	for _, fn := range module.Functions {
		changes = append(changes, truncateAfterReturn(fn)...)
		changes = append(changes, deleteUnusedTemps(fn)...)
	}
	return changes
}

func truncateAfterReturn(fn *Function) []Change {
	changes := []Change{}
	for _, block := range fn.Blocks {
		for i, inst := range block.Instructions {
			if inst.Opcode != OpReturn {
				continue
			}
			dropped := len(block.Instructions) - i - 1
			if dropped > 0 {
				block.Instructions = block.Instructions[:i+1]
				changes = append(changes, Change{
					Type:     "unreachable_after_return",
					Location: location(fn, block),
					Count:    dropped,
				})
			}
			unlinkSuccessors(fn, block)
			break
		}
	}
	return changes
}

// unlinkSuccessors drops the outgoing edges of a return-terminated block and
// removes the block from each former target's predecessor list. A block with
// a return has no successors; edges attached for instructions that truncation
// removed would otherwise survive in the output.
func unlinkSuccessors(fn *Function, block *BasicBlock) {
	for _, succName := range block.Successors {
		for _, other := range fn.Blocks {
			if other.Name != succName {
				continue
			}
			kept := other.Predecessors[:0]
			for _, pred := range other.Predecessors {
				if pred != block.Name {
					kept = append(kept, pred)
				}
			}
			other.Predecessors = kept
		}
	}
	block.Successors = block.Successors[:0]
}

func deleteUnusedTemps(fn *Function) []Change {
	// Uses are counted after truncation so references from unreachable
	// instructions do not keep temporaries alive. Single pass: deleting an
	// instruction does not re-free its own operands.
	uses := map[string]int{}
	for _, block := range fn.Blocks {
		for _, inst := range block.Instructions {
			for _, operand := range inst.Operands {
				uses[operand]++
			}
		}
	}

	changes := []Change{}
	for _, block := range fn.Blocks {
		kept := block.Instructions[:0]
		for _, inst := range block.Instructions {
			if pure[inst.Opcode] && isTemp(inst.Result) && uses[inst.Result] == 0 {
				changes = append(changes, Change{
					Type:     "unused_temp",
					Location: location(fn, block),
					Temp:     inst.Result,
				})
				continue
			}
			kept = append(kept, inst)
		}
		block.Instructions = kept
	}
	return changes
}

// CommonSubexpressionElimination rewrites an arithmetic instruction that
// recomputes an earlier identical one in the same block into a copy of the
// earlier result.
type CommonSubexpressionElimination struct{}

func (*CommonSubexpressionElimination) Name() string {
	return "common_subexpression_elimination"
}

func (*CommonSubexpressionElimination) Description() string {
	return "Reuses earlier identical computations within a basic block"
}

func (*CommonSubexpressionElimination) Apply(module *Module) []Change {
	changes := []Change{}
	for _, fn := range module.Functions {
		for _, block := range fn.Blocks {
			for i, inst := range block.Instructions {
				if !foldable[inst.Opcode] || inst.Result == "" {
					continue
				}
				for j := 0; j < i; j++ {
					earlier := block.Instructions[j]
					if earlier.Result == "" || earlier.Opcode != inst.Opcode ||
						!sameOperands(earlier.Operands, inst.Operands) {
						continue
					}
					block.Instructions[i] = Instruction{
						Opcode:   OpCopy,
						Operands: []string{earlier.Result},
						Result:   inst.Result,
					}
					changes = append(changes, Change{
						Type:     "common_subexpression",
						Location: location(fn, block),
						Original: inst.String(),
						Reused:   earlier.Result,
					})
					break
				}
			}
		}
	}
	return changes
}

func sameOperands(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
