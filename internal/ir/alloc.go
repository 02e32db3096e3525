package ir

import (
	"fmt"
	"regexp"
	"strconv"
)

// allocator hands out unique names for temporaries, blocks, and synthetic
// function labels. It is a plain value owned by one Generator, never shared,
// so concurrent builds cannot interfere. The zero value is ready to use and
// a fresh one is taken at the start of every Generate call.
type allocator struct {
	temps     int
	blocks    int
	functions int
}

// Temp allocates the next temporary name: t1, t2, ...
func (a *allocator) Temp() string {
	a.temps++
	return "t" + strconv.Itoa(a.temps)
}

// Block allocates the next block name. The hint records the construct that
// created the block (entry, then, else, merge, test, init, loop, body,
// exit); the counter keeps names unique across the whole build.
func (a *allocator) Block(hint string) string {
	a.blocks++
	return fmt.Sprintf("%s_%d", hint, a.blocks)
}

// Function counts a lowered function and returns its label, synthesizing
// func_N when the definition carries no name.
func (a *allocator) Function(name string) string {
	a.functions++
	if name == "" {
		return fmt.Sprintf("func_%d", a.functions)
	}
	return name
}

func (a *allocator) metadata() Metadata {
	return Metadata{
		TempVars:    a.temps,
		BasicBlocks: a.blocks,
		Functions:   a.functions,
	}
}

var tempName = regexp.MustCompile(`^t[0-9]+$`)

// isTemp reports whether a value reference names a compiler temporary as
// opposed to a source-level variable or literal text.
func isTemp(ref string) bool {
	return tempName.MatchString(ref)
}
