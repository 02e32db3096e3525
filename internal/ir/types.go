package ir

import (
	"fmt"
	"strings"
)

// Three-address IR over basic blocks. The representation is stringly typed
// at its boundary: operands and results are value references (literal text,
// a variable name, or a temporary name), and downstream code generation
// re-resolves types through the name/type tables.

// Opcode vocabulary exposed to downstream consumers.
const (
	OpStore      = "store"
	OpReturn     = "return"
	OpBranch     = "branch"
	OpCall       = "call"
	OpCreateList = "create_list"
	OpCreateDict = "create_dict"
	OpInitIter   = "init_iter"
	OpHasNext    = "has_next"
	OpGetNext    = "get_next"
	OpConst      = "const"
	OpCopy       = "copy"
	OpNop        = "nop"

	OpAdd      = "add"
	OpSub      = "sub"
	OpMul      = "mul"
	OpDiv      = "div"
	OpMod      = "mod"
	OpPow      = "pow"
	OpShl      = "shl"
	OpShr      = "shr"
	OpOr       = "or"
	OpXor      = "xor"
	OpAnd      = "and"
	OpFloorDiv = "floordiv"
	OpUnknown  = "unknown"
)

// Instruction is one three-address instruction. Result is empty for
// instructions that produce no value. Instructions are immutable once
// appended except for optimizer rewrites, which replace them in place at
// their block-relative index.
type Instruction struct {
	Opcode   string   `json:"opcode"`
	Operands []string `json:"operands"`
	Result   string   `json:"result,omitempty"`
}

func (i Instruction) String() string {
	operands := strings.Join(i.Operands, ", ")
	if i.Result == "" {
		if operands == "" {
			return i.Opcode
		}
		return fmt.Sprintf("%s %s", i.Opcode, operands)
	}
	return fmt.Sprintf("%s = %s %s", i.Result, i.Opcode, operands)
}

// BasicBlock is a straight-line instruction sequence. It is owned
// exclusively by its Function; predecessors and successors reference other
// blocks of the same function by name only.
type BasicBlock struct {
	Name         string        `json:"name"`
	Instructions []Instruction `json:"instructions"`
	Predecessors []string      `json:"predecessors"`
	Successors   []string      `json:"successors"`
}

func (b *BasicBlock) append(inst Instruction) {
	b.Instructions = append(b.Instructions, inst)
}

// endsWithReturn reports whether the block is terminated and therefore must
// not receive fall-through successors.
func (b *BasicBlock) endsWithReturn() bool {
	n := len(b.Instructions)
	return n > 0 && b.Instructions[n-1].Opcode == OpReturn
}

func (b *BasicBlock) addSuccessor(name string) {
	for _, existing := range b.Successors {
		if existing == name {
			return
		}
	}
	b.Successors = append(b.Successors, name)
}

func (b *BasicBlock) addPredecessor(name string) {
	for _, existing := range b.Predecessors {
		if existing == name {
			return
		}
	}
	b.Predecessors = append(b.Predecessors, name)
}

// BlockRef is a handle into a Function's block arena. Lowering threads
// refs, not block pointers or names, so the insertion point survives later
// block creation.
type BlockRef int

// Param is one formal parameter with its resolved type descriptor.
type Param struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type Function struct {
	Name       string            `json:"name"`
	ReturnType string            `json:"return_type"`
	Params     []Param           `json:"parameters"`
	Blocks     []*BasicBlock     `json:"basic_blocks"`
	LocalVars  map[string]string `json:"local_vars"`
}

// NewBlock appends a fresh block and returns its handle. Names must be
// unique within the function; the allocator guarantees that.
func (f *Function) NewBlock(name string) BlockRef {
	f.Blocks = append(f.Blocks, &BasicBlock{
		Name:         name,
		Instructions: []Instruction{},
		Predecessors: []string{},
		Successors:   []string{},
	})
	return BlockRef(len(f.Blocks) - 1)
}

// Block resolves a handle into the function's arena.
func (f *Function) Block(ref BlockRef) *BasicBlock {
	return f.Blocks[ref]
}

// link records a control-flow edge between two blocks of the function.
func (f *Function) link(from, to BlockRef) {
	f.Block(from).addSuccessor(f.Block(to).Name)
	f.Block(to).addPredecessor(f.Block(from).Name)
}

// GlobalVar is a module-level assignment target with its initializer. Init
// carries the instructions a computed initializer needs before the store;
// it is empty when the value is literal text or a plain name, so every
// temporary the store references is defined on the entry itself.
type GlobalVar struct {
	Name  string        `json:"name"`
	Type  string        `json:"type"`
	Value string        `json:"value"`
	Init  []Instruction `json:"init,omitempty"`
	Store Instruction   `json:"store"`
}

type Module struct {
	Globals   []GlobalVar `json:"global_vars"`
	Functions []*Function `json:"functions"`
}

// Metadata reports allocator totals for one build invocation.
type Metadata struct {
	TempVars    int `json:"temp_vars_used"`
	BasicBlocks int `json:"basic_blocks"`
	Functions   int `json:"functions"`
}

// Result is the complete output of one Generate call.
type Result struct {
	Success       bool         `json:"success"`
	Errors        []string     `json:"errors,omitempty"`
	Module        *Module      `json:"ir"`
	Optimizations []PassReport `json:"optimizations"`
	Metadata      Metadata     `json:"metadata"`
}
