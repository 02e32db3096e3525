package ir

import (
	"fmt"
	"strings"
)

// Printer renders a module as readable text. Output order follows the
// module's own ordering, so dumps are diff-stable across runs.
type Printer struct {
	indent int
	output strings.Builder
}

func NewPrinter() *Printer {
	return &Printer{}
}

// Print returns the textual dump of a module.
func Print(module *Module) string {
	p := NewPrinter()
	p.printModule(module)
	return p.output.String()
}

func (p *Printer) writeIndent() {
	for i := 0; i < p.indent; i++ {
		p.output.WriteString("  ")
	}
}

func (p *Printer) writeLine(format string, args ...interface{}) {
	p.writeIndent()
	p.output.WriteString(fmt.Sprintf(format, args...))
	p.output.WriteString("\n")
}

func (p *Printer) printModule(module *Module) {
	p.writeLine("MODULE (IR)")
	p.writeLine("")

	if len(module.Globals) > 0 {
		p.writeLine("GLOBALS:")
		p.indent++
		for _, global := range module.Globals {
			p.writeLine("%-12s : %-12s = %s", global.Name, global.Type, global.Value)
			p.indent++
			for _, inst := range global.Init {
				p.writeLine("%s", inst.String())
			}
			p.indent--
		}
		p.indent--
		p.writeLine("")
	}

	for _, fn := range module.Functions {
		p.printFunction(fn)
		p.writeLine("")
	}
}

func (p *Printer) printFunction(fn *Function) {
	params := make([]string, len(fn.Params))
	for i, param := range fn.Params {
		params[i] = fmt.Sprintf("%s: %s", param.Name, param.Type)
	}
	p.writeLine("fn %s(%s) -> %s {", fn.Name, strings.Join(params, ", "), fn.ReturnType)

	p.indent++
	for _, block := range fn.Blocks {
		p.printBlock(block)
	}
	p.indent--
	p.writeLine("}")
}

func (p *Printer) printBlock(block *BasicBlock) {
	header := block.Name + ":"
	if len(block.Predecessors) > 0 || len(block.Successors) > 0 {
		header += fmt.Sprintf("    ; preds: [%s] succs: [%s]",
			strings.Join(block.Predecessors, ", "),
			strings.Join(block.Successors, ", "))
	}
	p.writeLine("%s", header)

	p.indent++
	for _, inst := range block.Instructions {
		p.writeLine("%s", inst.String())
	}
	p.indent--
}

// PrintReports renders optimization pass reports beneath a dump.
func PrintReports(reports []PassReport) string {
	if len(reports) == 0 {
		return "no optimizations applied\n"
	}
	var out strings.Builder
	for _, report := range reports {
		fmt.Fprintf(&out, "%s: %s (%d changes)\n", report.Type, report.Description, len(report.Details))
		for _, change := range report.Details {
			fmt.Fprintf(&out, "  - %s", change.Type)
			if change.Location != "" {
				fmt.Fprintf(&out, " @ %s", change.Location)
			}
			switch {
			case change.Folded != "":
				fmt.Fprintf(&out, ": %s => %s", change.Original, change.Folded)
			case change.Reused != "":
				fmt.Fprintf(&out, ": %s reuses %s", change.Original, change.Reused)
			case change.Temp != "":
				fmt.Fprintf(&out, ": %s", change.Temp)
			case change.Count > 0:
				fmt.Fprintf(&out, ": %d instructions", change.Count)
			}
			out.WriteString("\n")
		}
	}
	return out.String()
}
